package catalog

import (
	"time"

	"github.com/google/uuid"
)

// AuthorizedMedicine maps to the authorized_medicine table: the reference list
// of drugs a vet may prescribe. WithdrawalPeriodDays is the authoritative
// safety floor; a prescription can lengthen the withdrawal period but never
// shorten it below this value. Catalog edits never alter snapshots already
// embedded in diagnosed treatments.
type AuthorizedMedicine struct {
	ID                   uuid.UUID `db:"id" json:"id"`
	Name                 string    `db:"name" json:"name"`
	Dosage               string    `db:"dosage" json:"dosage"`
	Route                *string   `db:"route" json:"route,omitempty"`
	Frequency            *string   `db:"frequency" json:"frequency,omitempty"`
	DurationDays         int       `db:"duration_days" json:"duration_days"`
	WithdrawalPeriodDays int       `db:"withdrawal_period_days" json:"withdrawal_period_days"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

var validRoutes = map[string]bool{
	"oral": true, "IM": true, "IV": true, "SC": true, "topical": true,
}
