package treatment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DiagnosisUpdate is the single conditional write that moves a treatment from
// pending to diagnosed.
type DiagnosisUpdate struct {
	VetID              uuid.UUID
	Medicines          []PrescribedMedicine
	Notes              *string
	TreatmentStartDate time.Time
	WithdrawalEndsOn   time.Time
}

// VisibilityFilter narrows list queries to what the caller may see. The zero
// filter returns everything, used for a farmer listing their own records.
type VisibilityFilter struct {
	// VetID, when set, keeps records that are still pending or assigned to
	// this vet.
	VetID *uuid.UUID
}

type Repository interface {
	Create(ctx context.Context, t *Treatment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Treatment, error)
	// Diagnose applies u only if the treatment is still pending, as one
	// compare-and-swap against the store. The loser of a concurrent race
	// observes ErrAlreadyDiagnosed; an unknown id yields ErrTreatmentNotFound.
	Diagnose(ctx context.Context, id uuid.UUID, u DiagnosisUpdate) (*Treatment, error)
	ListByAnimal(ctx context.Context, animalID uuid.UUID, f VisibilityFilter) ([]*Treatment, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID, f VisibilityFilter) ([]*Treatment, error)
}
