package catalog

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *AuthorizedMedicine) error
	GetByID(ctx context.Context, id uuid.UUID) (*AuthorizedMedicine, error)
	Update(ctx context.Context, m *AuthorizedMedicine) error
	List(ctx context.Context, limit, offset int) ([]*AuthorizedMedicine, int, error)
}
