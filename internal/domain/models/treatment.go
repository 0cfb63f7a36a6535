package models

import "time"

// Treatment captures an administered intervention linked to an observation.
type Treatment struct {
	ID                string     `bson:"_id" json:"id"`
	AnimalID          string     `bson:"animal_id" json:"animal_id" validate:"required"`
	HealthRecordID    string     `bson:"health_record_id" json:"health_record_id"`
	Name              string     `bson:"name" json:"name" validate:"required"`
	Dosage            string     `bson:"dosage" json:"dosage"`
	AdministeredAt    time.Time  `bson:"administered_at" json:"administered_at"`
	NextDoseDate      *time.Time `bson:"next_dose_date,omitempty" json:"next_dose_date,omitempty"`
	TreatmentComplete bool       `bson:"treatment_complete" json:"treatment_complete"`
	Cost              float64    `bson:"cost" json:"cost" validate:"gte=0"`
	Notes             string     `bson:"notes" json:"notes"`
	CreatedAt         time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `bson:"updated_at" json:"updated_at"`
}

// Vaccination captures a vaccine dose and when the next one falls due.
type Vaccination struct {
	ID               string     `bson:"_id" json:"id"`
	AnimalID         string     `bson:"animal_id" json:"animal_id" validate:"required"`
	VaccineName      string     `bson:"vaccine_name" json:"vaccine_name" validate:"required"`
	AdministeredDate time.Time  `bson:"administered_date" json:"administered_date"`
	NextDueDate      *time.Time `bson:"next_due_date,omitempty" json:"next_due_date,omitempty"`
	DueDate          *time.Time `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Cost             float64    `bson:"cost" json:"cost" validate:"gte=0"`
	AdministeredBy   string     `bson:"administered_by" json:"administered_by"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
}

// UpcomingDue returns the next due date, preferring NextDueDate over DueDate.
func (v Vaccination) UpcomingDue() *time.Time {
	if v.NextDueDate != nil {
		return v.NextDueDate
	}
	return v.DueDate
}
