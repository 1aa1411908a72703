package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrFarmerNotFound = errors.New("farmer not found")
	ErrVetNotFound    = errors.New("vet not found")
	ErrAnimalNotFound = errors.New("animal not found")
	ErrAnimalNotOwned = errors.New("animal does not belong to this farmer")
)

type Service struct {
	farmers FarmerRepository
	vets    VetRepository
	animals AnimalRepository
}

func NewService(farmers FarmerRepository, vets VetRepository, animals AnimalRepository) *Service {
	return &Service{farmers: farmers, vets: vets, animals: animals}
}

func (s *Service) RegisterFarmer(ctx context.Context, f *Farmer) error {
	if f.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if f.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.farmers.Create(ctx, f)
}

func (s *Service) RegisterVet(ctx context.Context, v *Vet) error {
	if v.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if v.Name == "" {
		return fmt.Errorf("name is required")
	}
	if v.LicenseNumber == "" {
		return fmt.Errorf("license_number is required")
	}
	return s.vets.Create(ctx, v)
}

// FarmerBySubject resolves an authenticated subject to a Farmer profile.
func (s *Service) FarmerBySubject(ctx context.Context, subject string) (*Farmer, error) {
	f, err := s.farmers.GetBySubject(ctx, subject)
	if err != nil {
		return nil, ErrFarmerNotFound
	}
	return f, nil
}

// VetBySubject resolves an authenticated subject to a Vet profile.
func (s *Service) VetBySubject(ctx context.Context, subject string) (*Vet, error) {
	v, err := s.vets.GetBySubject(ctx, subject)
	if err != nil {
		return nil, ErrVetNotFound
	}
	return v, nil
}

func (s *Service) FarmerByID(ctx context.Context, id uuid.UUID) (*Farmer, error) {
	f, err := s.farmers.GetByID(ctx, id)
	if err != nil {
		return nil, ErrFarmerNotFound
	}
	return f, nil
}

func (s *Service) RegisterAnimal(ctx context.Context, a *Animal) error {
	if a.FarmerID == uuid.Nil {
		return fmt.Errorf("farmer_id is required")
	}
	if a.TagNumber == "" {
		return fmt.Errorf("tag_number is required")
	}
	if !validSpecies[a.Species] {
		return fmt.Errorf("invalid species: %s", a.Species)
	}
	if a.PregnancyStatus == "" {
		a.PregnancyStatus = "unknown"
	}
	if !validPregnancyStatuses[a.PregnancyStatus] {
		return fmt.Errorf("invalid pregnancy_status: %s", a.PregnancyStatus)
	}
	a.IsActive = true
	return s.animals.Create(ctx, a)
}

func (s *Service) AnimalByID(ctx context.Context, id uuid.UUID) (*Animal, error) {
	a, err := s.animals.GetByID(ctx, id)
	if err != nil {
		return nil, ErrAnimalNotFound
	}
	return a, nil
}

// OwnedAnimal fetches an animal and verifies it belongs to the given farmer.
func (s *Service) OwnedAnimal(ctx context.Context, animalID, farmerID uuid.UUID) (*Animal, error) {
	a, err := s.AnimalByID(ctx, animalID)
	if err != nil {
		return nil, err
	}
	if a.FarmerID != farmerID {
		return nil, ErrAnimalNotOwned
	}
	return a, nil
}

func (s *Service) AnimalsByFarmer(ctx context.Context, farmerID uuid.UUID, limit, offset int) ([]*Animal, int, error) {
	return s.animals.ListByFarmer(ctx, farmerID, limit, offset)
}

// AppendTreatment records a treatment id in the animal's treatment history.
func (s *Service) AppendTreatment(ctx context.Context, animalID uuid.UUID, treatmentID string) error {
	return s.animals.AppendTreatmentID(ctx, animalID, treatmentID)
}
