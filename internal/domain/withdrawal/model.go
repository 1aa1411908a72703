package withdrawal

import (
	"time"

	"github.com/google/uuid"
)

// WithdrawalAlert is an append-only deadline record written once per
// diagnosis. An animal may carry several overlapping alerts when it is
// treated again before a prior withdrawal period elapses; safety evaluation
// always considers the union of its alerts, never just the latest. Nothing in
// this subsystem mutates an alert except the sent flag, which the external
// reminder job flips through MarkSent.
type WithdrawalAlert struct {
	ID          uuid.UUID `db:"id" json:"id"`
	TreatmentID uuid.UUID `db:"treatment_id" json:"treatment_id"`
	AnimalID    uuid.UUID `db:"animal_id" json:"animal_id"`
	SafeFrom    time.Time `db:"safe_from" json:"safe_from"`
	AlertSent   bool      `db:"alert_sent" json:"alert_sent"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CheckResult is the outcome of a consumer-facing safety check.
type CheckResult struct {
	IsSafeMilk bool   `json:"is_safe_milk"`
	IsSafeMeat bool   `json:"is_safe_meat"`
	Message    string `json:"message"`
}

// ConsumerCheck records one consumer-facing safety query against an animal.
type ConsumerCheck struct {
	ID        uuid.UUID   `db:"id" json:"id"`
	FarmerID  uuid.UUID   `db:"farmer_id" json:"farmer_id"`
	AnimalID  uuid.UUID   `db:"animal_id" json:"animal_id"`
	CheckedAt time.Time   `db:"checked_at" json:"checked_at"`
	Result    CheckResult `db:"result" json:"result"`
}

// SafetyStatus is the point-in-time answer to "is this animal safe".
type SafetyStatus struct {
	AnimalID     uuid.UUID  `json:"animal_id"`
	Safe         bool       `json:"safe"`
	AsOf         time.Time  `json:"as_of"`
	SafeFrom     *time.Time `json:"safe_from,omitempty"`
	ActiveAlerts int        `json:"active_alerts"`
}
