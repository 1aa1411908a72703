package registry

import (
	"context"

	"github.com/google/uuid"
)

type FarmerRepository interface {
	Create(ctx context.Context, f *Farmer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Farmer, error)
	GetBySubject(ctx context.Context, subject string) (*Farmer, error)
}

type VetRepository interface {
	Create(ctx context.Context, v *Vet) error
	GetByID(ctx context.Context, id uuid.UUID) (*Vet, error)
	GetBySubject(ctx context.Context, subject string) (*Vet, error)
}

type AnimalRepository interface {
	Create(ctx context.Context, a *Animal) error
	GetByID(ctx context.Context, id uuid.UUID) (*Animal, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID, limit, offset int) ([]*Animal, int, error)
	AppendTreatmentID(ctx context.Context, animalID uuid.UUID, treatmentID string) error
}
