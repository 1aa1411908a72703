package withdrawal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/herdsafe/herdsafe/internal/domain/registry"
)

var ErrAlertNotFound = errors.New("withdrawal alert not found")

// maxHerdSize caps the per-farmer animal resolution for alert queries.
const maxHerdSize = 1000

// HerdDirectory is the slice of the registry the safety queries need.
type HerdDirectory interface {
	AnimalByID(ctx context.Context, id uuid.UUID) (*registry.Animal, error)
	AnimalsByFarmer(ctx context.Context, farmerID uuid.UUID, limit, offset int) ([]*registry.Animal, int, error)
}

type Service struct {
	alerts    AlertRepository
	checks    ConsumerCheckRepository
	directory HerdDirectory
	logger    zerolog.Logger
}

func NewService(alerts AlertRepository, checks ConsumerCheckRepository, directory HerdDirectory, logger zerolog.Logger) *Service {
	return &Service{alerts: alerts, checks: checks, directory: directory, logger: logger}
}

// ScheduleAlert persists the withdrawal deadline for one diagnosis event:
// safe_from = startDate + withdrawalDays. Alerts are append-only; a second
// treatment before an earlier deadline simply adds an overlapping record.
// The insert honors a transaction carried on ctx, so a diagnosis write and its
// alert commit as one unit.
func (s *Service) ScheduleAlert(ctx context.Context, treatmentID, animalID uuid.UUID, startDate time.Time, withdrawalDays int) (*WithdrawalAlert, error) {
	alert := &WithdrawalAlert{
		TreatmentID: treatmentID,
		AnimalID:    animalID,
		SafeFrom:    startDate.AddDate(0, 0, withdrawalDays),
	}
	if err := s.alerts.Create(ctx, alert); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("treatment_id", treatmentID.String()).
		Str("animal_id", animalID.String()).
		Int("withdrawal_days", withdrawalDays).
		Time("safe_from", alert.SafeFrom).
		Msg("withdrawal alert scheduled")

	return alert, nil
}

// AnimalSafety answers the point-in-time safety query: the animal is unsafe
// while any of its alerts has safe_from after asOf.
func (s *Service) AnimalSafety(ctx context.Context, animalID uuid.UUID, asOf time.Time) (*SafetyStatus, error) {
	active, err := s.alerts.ActiveForAnimal(ctx, animalID, asOf)
	if err != nil {
		return nil, err
	}

	status := &SafetyStatus{
		AnimalID:     animalID,
		Safe:         len(active) == 0,
		AsOf:         asOf,
		ActiveAlerts: len(active),
	}
	for _, a := range active {
		if status.SafeFrom == nil || a.SafeFrom.After(*status.SafeFrom) {
			t := a.SafeFrom
			status.SafeFrom = &t
		}
	}
	return status, nil
}

// IsAnimalSafe is the boolean form of AnimalSafety used by consumer checks.
func (s *Service) IsAnimalSafe(ctx context.Context, animalID uuid.UUID, asOf time.Time) (bool, error) {
	status, err := s.AnimalSafety(ctx, animalID, asOf)
	if err != nil {
		return false, err
	}
	return status.Safe, nil
}

// ActiveAlertsForFarmer resolves the farmer's herd and returns every alert
// still pending at asOf across it.
func (s *Service) ActiveAlertsForFarmer(ctx context.Context, farmerID uuid.UUID, asOf time.Time) ([]*WithdrawalAlert, error) {
	animals, _, err := s.directory.AnimalsByFarmer(ctx, farmerID, maxHerdSize, 0)
	if err != nil {
		return nil, err
	}
	if len(animals) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(animals))
	for _, a := range animals {
		ids = append(ids, a.ID)
	}
	return s.alerts.ActiveForAnimals(ctx, ids, asOf)
}

// RecordConsumerCheck evaluates an animal's safety and persists the result as
// a consumer check entry.
func (s *Service) RecordConsumerCheck(ctx context.Context, animalID uuid.UUID, asOf time.Time) (*ConsumerCheck, error) {
	animal, err := s.directory.AnimalByID(ctx, animalID)
	if err != nil {
		return nil, err
	}

	status, err := s.AnimalSafety(ctx, animalID, asOf)
	if err != nil {
		return nil, err
	}

	check := &ConsumerCheck{
		FarmerID:  animal.FarmerID,
		AnimalID:  animalID,
		CheckedAt: asOf,
		Result: CheckResult{
			IsSafeMilk: status.Safe,
			IsSafeMeat: status.Safe,
		},
	}
	if status.Safe {
		check.Result.Message = "No active withdrawal period. Produce from this animal is safe for consumption."
	} else {
		check.Result.Message = "Animal is under an active withdrawal period. Produce is not safe until " +
			status.SafeFrom.UTC().Format(time.RFC3339) + "."
	}

	if err := s.checks.Create(ctx, check); err != nil {
		return nil, err
	}
	return check, nil
}

// MarkAlertSent flips the sent flag on an alert. It exists for the external
// reminder process; nothing in this service calls it.
func (s *Service) MarkAlertSent(ctx context.Context, id uuid.UUID) (*WithdrawalAlert, error) {
	if err := s.alerts.MarkSent(ctx, id); err != nil {
		return nil, ErrAlertNotFound
	}
	return s.alerts.GetByID(ctx, id)
}
