package treatment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/herdsafe/herdsafe/internal/domain/registry"
	"github.com/herdsafe/herdsafe/internal/domain/withdrawal"
	"github.com/herdsafe/herdsafe/internal/platform/db"
)

var (
	ErrNotFarmer         = errors.New("only farmers can create treatment requests")
	ErrNotVet            = errors.New("only veterinarians can perform this action")
	ErrNotAllowed        = errors.New("not allowed")
	ErrAnimalNotOwned    = errors.New("animal not found or not owned by farmer")
	ErrTreatmentNotFound = errors.New("treatment not found")
	ErrAnimalNotFound    = errors.New("animal not found")
	ErrFarmerNotFound    = errors.New("farmer not found")
	ErrSymptomsRequired  = errors.New("symptoms are required")
	// ErrAlreadyDiagnosed is the expected outcome for the loser of a
	// concurrent diagnosis race, not a storage fault.
	ErrAlreadyDiagnosed = errors.New("treatment already diagnosed")
)

// Directory is the slice of the registry the workflow needs: caller identity
// resolution and animal ownership.
type Directory interface {
	FarmerBySubject(ctx context.Context, subject string) (*registry.Farmer, error)
	VetBySubject(ctx context.Context, subject string) (*registry.Vet, error)
	FarmerByID(ctx context.Context, id uuid.UUID) (*registry.Farmer, error)
	AnimalByID(ctx context.Context, id uuid.UUID) (*registry.Animal, error)
	AppendTreatment(ctx context.Context, animalID uuid.UUID, treatmentID string) error
}

// AlertScheduler persists the withdrawal deadline for a diagnosis event.
type AlertScheduler interface {
	ScheduleAlert(ctx context.Context, treatmentID, animalID uuid.UUID, startDate time.Time, withdrawalDays int) (*withdrawal.WithdrawalAlert, error)
}

type Service struct {
	repo          Repository
	prescriptions *PrescriptionProcessor
	directory     Directory
	scheduler     AlertScheduler
	tx            db.Beginner
	logger        zerolog.Logger
	now           func() time.Time
}

func NewService(repo Repository, prescriptions *PrescriptionProcessor, directory Directory, scheduler AlertScheduler, tx db.Beginner, logger zerolog.Logger) *Service {
	return &Service{
		repo:          repo,
		prescriptions: prescriptions,
		directory:     directory,
		scheduler:     scheduler,
		tx:            tx,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// CreateRequestInput is a farmer's request to open a treatment for an animal.
type CreateRequestInput struct {
	AnimalID uuid.UUID `json:"animal_id"`
	Symptoms []string  `json:"symptoms"`
	Notes    *string   `json:"notes,omitempty"`
}

// CreateRequest opens a pending treatment. The caller must resolve to a
// farmer and the animal must belong to them; the new treatment id is appended
// to the animal's treatment history in the same transaction.
func (s *Service) CreateRequest(ctx context.Context, subject string, in CreateRequestInput) (*Treatment, error) {
	farmer, err := s.directory.FarmerBySubject(ctx, subject)
	if err != nil {
		return nil, ErrNotFarmer
	}

	if in.AnimalID == uuid.Nil || len(in.Symptoms) == 0 {
		return nil, ErrSymptomsRequired
	}

	animal, err := s.directory.AnimalByID(ctx, in.AnimalID)
	if err != nil || animal.FarmerID != farmer.ID {
		return nil, ErrAnimalNotOwned
	}

	t := &Treatment{
		FarmerID: farmer.ID,
		AnimalID: animal.ID,
		Symptoms: in.Symptoms,
		Notes:    in.Notes,
	}

	err = db.RunInTx(ctx, s.tx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, t); err != nil {
			return err
		}
		return s.directory.AppendTreatment(ctx, animal.ID, t.ID.String())
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("treatment_id", t.ID.String()).
		Str("farmer_id", farmer.ID.String()).
		Str("animal_id", animal.ID.String()).
		Msg("treatment request created")

	return t, nil
}

// DiagnoseInput is a vet's diagnosis submission.
type DiagnoseInput struct {
	Medicines []MedicineSelection `json:"medicines"`
	Notes     *string             `json:"notes,omitempty"`
}

// DiagnoseResult pairs the diagnosed treatment with the strictest withdrawal
// period applied across its medicines.
type DiagnoseResult struct {
	Treatment           *Treatment
	FinalWithdrawalDays int
}

// Diagnose runs the prescription processor and moves the treatment from
// pending to diagnosed. All validation happens before any write. The status
// transition is a conditional update against the store and the withdrawal
// alert is written in the same transaction, so either both records commit or
// neither does.
func (s *Service) Diagnose(ctx context.Context, subject string, treatmentID uuid.UUID, in DiagnoseInput) (*DiagnoseResult, error) {
	vet, err := s.directory.VetBySubject(ctx, subject)
	if err != nil {
		return nil, ErrNotVet
	}

	// Existence check first so an unknown id reports 404 rather than a
	// prescription validation error.
	if _, err := s.repo.GetByID(ctx, treatmentID); err != nil {
		return nil, err
	}

	prescribed, maxDays, err := s.prescriptions.Process(ctx, in.Medicines)
	if err != nil {
		return nil, err
	}

	startDate := s.now()
	update := DiagnosisUpdate{
		VetID:              vet.ID,
		Medicines:          prescribed,
		Notes:              in.Notes,
		TreatmentStartDate: startDate,
		WithdrawalEndsOn:   startDate.AddDate(0, 0, maxDays),
	}

	var diagnosed *Treatment
	err = db.RunInTx(ctx, s.tx, func(ctx context.Context) error {
		diagnosed, err = s.repo.Diagnose(ctx, treatmentID, update)
		if err != nil {
			return err
		}
		_, err = s.scheduler.ScheduleAlert(ctx, diagnosed.ID, diagnosed.AnimalID, startDate, maxDays)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("treatment_id", diagnosed.ID.String()).
		Str("vet_id", vet.ID.String()).
		Int("final_withdrawal_days", maxDays).
		Time("withdrawal_ends_on", *diagnosed.WithdrawalEndsOn).
		Msg("treatment diagnosed")

	return &DiagnoseResult{Treatment: diagnosed, FinalWithdrawalDays: maxDays}, nil
}

// Get fetches one treatment, applying the visibility rule: a farmer sees only
// their own records; a vet sees a record if assigned to it, or while it is
// still pending and unclaimed.
func (s *Service) Get(ctx context.Context, subject string, id uuid.UUID) (*Treatment, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if farmer, ferr := s.directory.FarmerBySubject(ctx, subject); ferr == nil {
		if t.FarmerID != farmer.ID {
			return nil, ErrNotAllowed
		}
		return t, nil
	}

	if vet, verr := s.directory.VetBySubject(ctx, subject); verr == nil {
		if t.VetID != nil && *t.VetID != vet.ID {
			return nil, ErrNotAllowed
		}
		if t.VetID == nil && t.Status != StatusPending {
			return nil, ErrNotAllowed
		}
		return t, nil
	}

	return nil, ErrNotAllowed
}

// ListByAnimal returns the animal's treatments visible to the caller.
func (s *Service) ListByAnimal(ctx context.Context, subject string, animalID uuid.UUID) ([]*Treatment, error) {
	animal, err := s.directory.AnimalByID(ctx, animalID)
	if err != nil {
		return nil, ErrAnimalNotFound
	}

	if farmer, ferr := s.directory.FarmerBySubject(ctx, subject); ferr == nil {
		if animal.FarmerID != farmer.ID {
			return nil, ErrNotAllowed
		}
		return s.repo.ListByAnimal(ctx, animalID, VisibilityFilter{})
	}

	if vet, verr := s.directory.VetBySubject(ctx, subject); verr == nil {
		return s.repo.ListByAnimal(ctx, animalID, VisibilityFilter{VetID: &vet.ID})
	}

	return nil, ErrNotAllowed
}

// ListByFarmer returns a farmer's treatments as seen by a vet: pending
// requests plus the vet's own diagnosed cases, newest first.
func (s *Service) ListByFarmer(ctx context.Context, subject string, farmerID uuid.UUID) ([]FarmerViewItem, error) {
	vet, err := s.directory.VetBySubject(ctx, subject)
	if err != nil {
		return nil, ErrNotVet
	}

	if _, err := s.directory.FarmerByID(ctx, farmerID); err != nil {
		return nil, ErrFarmerNotFound
	}

	treatments, err := s.repo.ListByFarmer(ctx, farmerID, VisibilityFilter{VetID: &vet.ID})
	if err != nil {
		return nil, err
	}

	items := make([]FarmerViewItem, 0, len(treatments))
	for _, t := range treatments {
		items = append(items, FarmerView(t))
	}
	return items, nil
}
