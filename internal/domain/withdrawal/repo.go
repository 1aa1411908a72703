package withdrawal

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AlertRepository interface {
	Create(ctx context.Context, a *WithdrawalAlert) error
	GetByID(ctx context.Context, id uuid.UUID) (*WithdrawalAlert, error)
	// ActiveForAnimal returns alerts for the animal whose safe_from lies
	// strictly after asOf.
	ActiveForAnimal(ctx context.Context, animalID uuid.UUID, asOf time.Time) ([]*WithdrawalAlert, error)
	// ActiveForAnimals is the same query across a set of animals.
	ActiveForAnimals(ctx context.Context, animalIDs []uuid.UUID, asOf time.Time) ([]*WithdrawalAlert, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
}

type ConsumerCheckRepository interface {
	Create(ctx context.Context, c *ConsumerCheck) error
	ListByAnimal(ctx context.Context, animalID uuid.UUID, limit, offset int) ([]*ConsumerCheck, int, error)
}
