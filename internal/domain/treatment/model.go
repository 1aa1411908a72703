package treatment

import (
	"time"

	"github.com/google/uuid"
)

// Treatment statuses. A treatment is created pending and moves to diagnosed
// exactly once; completion is owned by an external expiry process.
const (
	StatusPending   = "pending"
	StatusDiagnosed = "diagnosed"
	StatusCompleted = "completed"
)

// PrescribedMedicine is an immutable snapshot embedded in a treatment at
// diagnosis time. The dosage, route, frequency and duration are frozen copies
// of the catalog entry, and WithdrawalPeriodDays is the effective value after
// the safety floor was applied, so later catalog edits cannot alter the
// record of what was prescribed.
type PrescribedMedicine struct {
	MedicineID           uuid.UUID `json:"medicine_id"`
	MedicineName         string    `json:"medicine_name"`
	Dosage               string    `json:"dosage"`
	Route                *string   `json:"route,omitempty"`
	Frequency            *string   `json:"frequency,omitempty"`
	DurationDays         int       `json:"duration_days"`
	WithdrawalPeriodDays int       `json:"withdrawal_period_days"`
}

// Treatment maps to the treatment table: one clinical episode for one animal.
// Medicines is stored as a jsonb snapshot array.
type Treatment struct {
	ID                    uuid.UUID            `db:"id" json:"id"`
	FarmerID              uuid.UUID            `db:"farmer_id" json:"farmer_id"`
	AnimalID              uuid.UUID            `db:"animal_id" json:"animal_id"`
	VetID                 *uuid.UUID           `db:"vet_id" json:"vet_id,omitempty"`
	Symptoms              []string             `db:"symptoms" json:"symptoms"`
	Notes                 *string              `db:"notes" json:"notes,omitempty"`
	Status                string               `db:"status" json:"status"`
	Medicines             []PrescribedMedicine `db:"medicines" json:"medicines"`
	TreatmentStartDate    *time.Time           `db:"treatment_start_date" json:"treatment_start_date,omitempty"`
	WithdrawalEndsOn      *time.Time           `db:"withdrawal_ends_on" json:"withdrawal_ends_on,omitempty"`
	IsWithdrawalCompleted bool                 `db:"is_withdrawal_completed" json:"is_withdrawal_completed"`
	IsFlaggedViolation    bool                 `db:"is_flagged_violation" json:"is_flagged_violation"`
	ViolationReason       *string              `db:"violation_reason" json:"violation_reason,omitempty"`
	PrescriptionPath      *string              `db:"prescription_path" json:"prescription_path,omitempty"`
	ReportPaths           []string             `db:"report_paths" json:"report_paths,omitempty"`
	CreatedAt             time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time            `db:"updated_at" json:"updated_at"`
}

// MaxWithdrawalDays returns the strictest withdrawal period across the
// prescribed medicines.
func (t *Treatment) MaxWithdrawalDays() int {
	max := 0
	for _, m := range t.Medicines {
		if m.WithdrawalPeriodDays > max {
			max = m.WithdrawalPeriodDays
		}
	}
	return max
}

// MedicineSelection is one entry of a vet's raw prescription input.
// VetWithdrawalDays may lengthen the withdrawal period; a value below the
// catalog floor is raised, never honored.
type MedicineSelection struct {
	MedicineID        uuid.UUID `json:"medicine_id"`
	VetWithdrawalDays *int      `json:"vet_withdrawal_days,omitempty"`
}

// FarmerViewItem is the trimmed projection a vet sees when listing another
// party's treatments by farmer.
type FarmerViewItem struct {
	TreatmentID    uuid.UUID `json:"treatment_id"`
	Status         string    `json:"status"`
	AnimalID       uuid.UUID `json:"animal_id"`
	Symptoms       []string  `json:"symptoms"`
	Notes          *string   `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	DiagnosedByVet bool      `json:"diagnosed_by_vet"`
}

// FarmerView projects a treatment into its by-farmer listing form.
func FarmerView(t *Treatment) FarmerViewItem {
	return FarmerViewItem{
		TreatmentID:    t.ID,
		Status:         t.Status,
		AnimalID:       t.AnimalID,
		Symptoms:       t.Symptoms,
		Notes:          t.Notes,
		CreatedAt:      t.CreatedAt,
		DiagnosedByVet: t.VetID != nil,
	}
}
