package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrMedicineNotFound is returned for unknown or removed catalog entries.
// Callers validating a prescription must treat it as a hard failure.
var ErrMedicineNotFound = errors.New("medicine not found in authorized catalog")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(m *AuthorizedMedicine) error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Dosage == "" {
		return fmt.Errorf("dosage is required")
	}
	if m.Route != nil && !validRoutes[*m.Route] {
		return fmt.Errorf("invalid route: %s", *m.Route)
	}
	if m.WithdrawalPeriodDays < 0 {
		return fmt.Errorf("withdrawal_period_days must not be negative")
	}
	if m.DurationDays <= 0 {
		m.DurationDays = 1
	}
	return nil
}

func (s *Service) CreateMedicine(ctx context.Context, m *AuthorizedMedicine) error {
	if err := s.validate(m); err != nil {
		return err
	}
	return s.repo.Create(ctx, m)
}

// Lookup resolves a catalog entry by id. It is the read side used by the
// prescription processor; values rarely change and snapshots freeze them, so
// an eventually consistent cache in front of this call would be acceptable.
func (s *Service) Lookup(ctx context.Context, id uuid.UUID) (*AuthorizedMedicine, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrMedicineNotFound
	}
	return m, nil
}

func (s *Service) UpdateMedicine(ctx context.Context, m *AuthorizedMedicine) error {
	if err := s.validate(m); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, m.ID); err != nil {
		return ErrMedicineNotFound
	}
	return s.repo.Update(ctx, m)
}

func (s *Service) ListMedicines(ctx context.Context, limit, offset int) ([]*AuthorizedMedicine, int, error) {
	return s.repo.List(ctx, limit, offset)
}
