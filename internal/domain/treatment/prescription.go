package treatment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/herdsafe/herdsafe/internal/domain/catalog"
)

var (
	ErrMedicineListRequired = errors.New("medicines list is required")
	ErrMedicineIDRequired   = errors.New("medicine_id is required")
	ErrUnauthorizedMedicine = errors.New("unauthorized medicine selected")
)

// MedicineCatalog is the read-only catalog lookup the processor validates
// selections against.
type MedicineCatalog interface {
	Lookup(ctx context.Context, id uuid.UUID) (*catalog.AuthorizedMedicine, error)
}

// PrescriptionProcessor turns a vet's raw medicine selections into immutable
// prescription snapshots, enforcing the withdrawal safety floor.
type PrescriptionProcessor struct {
	catalog MedicineCatalog
	logger  zerolog.Logger
}

func NewPrescriptionProcessor(catalog MedicineCatalog, logger zerolog.Logger) *PrescriptionProcessor {
	return &PrescriptionProcessor{catalog: catalog, logger: logger}
}

// Process validates every selection against the catalog and produces the
// ordered snapshot list plus the strictest effective withdrawal period.
// Processing is all or nothing: a single unknown medicine id fails the whole
// prescription and nothing is returned.
//
// The effective withdrawal period per medicine is
// max(catalog floor, vet suggestion). A vet may lengthen the period but never
// shorten it; a suggestion below the floor is raised to the floor and logged
// rather than rejected.
func (p *PrescriptionProcessor) Process(ctx context.Context, selections []MedicineSelection) ([]PrescribedMedicine, int, error) {
	if len(selections) == 0 {
		return nil, 0, ErrMedicineListRequired
	}

	prescribed := make([]PrescribedMedicine, 0, len(selections))
	maxWithdrawalDays := 0

	for _, sel := range selections {
		if sel.MedicineID == uuid.Nil {
			return nil, 0, ErrMedicineIDRequired
		}

		authorized, err := p.catalog.Lookup(ctx, sel.MedicineID)
		if err != nil {
			return nil, 0, ErrUnauthorizedMedicine
		}

		finalDays := authorized.WithdrawalPeriodDays
		if sel.VetWithdrawalDays != nil {
			if *sel.VetWithdrawalDays < authorized.WithdrawalPeriodDays {
				p.logger.Warn().
					Str("medicine", authorized.Name).
					Int("vet_days", *sel.VetWithdrawalDays).
					Int("floor_days", authorized.WithdrawalPeriodDays).
					Msg("vet suggestion below withdrawal floor, raised to floor")
			} else {
				finalDays = *sel.VetWithdrawalDays
			}
		}

		prescribed = append(prescribed, PrescribedMedicine{
			MedicineID:           authorized.ID,
			MedicineName:         authorized.Name,
			Dosage:               authorized.Dosage,
			Route:                authorized.Route,
			Frequency:            authorized.Frequency,
			DurationDays:         authorized.DurationDays,
			WithdrawalPeriodDays: finalDays,
		})

		if finalDays > maxWithdrawalDays {
			maxWithdrawalDays = finalDays
		}
	}

	return prescribed, maxWithdrawalDays, nil
}
