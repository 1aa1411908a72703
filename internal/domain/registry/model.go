package registry

import (
	"time"

	"github.com/google/uuid"
)

// Farmer maps to the farmer table. Subject is the opaque identity issued by
// the external authentication layer.
type Farmer struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Subject    string    `db:"subject" json:"subject"`
	Name       string    `db:"name" json:"name"`
	Phone      *string   `db:"phone" json:"phone,omitempty"`
	Village    *string   `db:"village" json:"village,omitempty"`
	District   *string   `db:"district" json:"district,omitempty"`
	IsVerified bool      `db:"is_verified" json:"is_verified"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Vet maps to the vet table.
type Vet struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Subject        string    `db:"subject" json:"subject"`
	Name           string    `db:"name" json:"name"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	LicenseNumber  string    `db:"license_number" json:"license_number"`
	Specialization *string   `db:"specialization" json:"specialization,omitempty"`
	IsVerified     bool      `db:"is_verified" json:"is_verified"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Animal maps to the animal table. TreatmentIDs is the animal's treatment
// history, appended to when a treatment request is opened.
type Animal struct {
	ID               uuid.UUID `db:"id" json:"id"`
	FarmerID         uuid.UUID `db:"farmer_id" json:"farmer_id"`
	Species          string    `db:"species" json:"species"`
	Breed            *string   `db:"breed" json:"breed,omitempty"`
	TagNumber        string    `db:"tag_number" json:"tag_number"`
	Age              *float64  `db:"age" json:"age,omitempty"`
	Gender           *string   `db:"gender" json:"gender,omitempty"`
	Weight           *float64  `db:"weight" json:"weight,omitempty"`
	IsLactating      bool      `db:"is_lactating" json:"is_lactating"`
	DailyMilkYield   float64   `db:"daily_milk_yield" json:"daily_milk_yield"`
	PregnancyStatus  string    `db:"pregnancy_status" json:"pregnancy_status"`
	ProfilePhotoPath *string   `db:"profile_photo_path" json:"profile_photo_path,omitempty"`
	TreatmentIDs     []string  `db:"treatment_ids" json:"treatment_ids"`
	IsActive         bool      `db:"is_active" json:"is_active"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

var validSpecies = map[string]bool{
	"cow": true, "buffalo": true, "goat": true, "sheep": true, "poultry": true,
}

var validPregnancyStatuses = map[string]bool{
	"pregnant": true, "dry": true, "open": true, "unknown": true,
}
