package models

import "time"

// Trend is the direction of a metric over its recent history.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// SymptomCount is one row of the recent symptom frequency table.
type SymptomCount struct {
	Symptom string `json:"symptom"`
	Count   int    `json:"count"`
}

// HealthSummary is a computed read model for one animal. It is rebuilt on
// every request and never stored.
type HealthSummary struct {
	AnimalID             string         `json:"animal_id"`
	GeneratedAt          time.Time      `json:"generated_at"`
	ObservationCount     int            `json:"observation_count"`
	CurrentScore         float64        `json:"current_score"`
	Trend                Trend          `json:"trend"`
	LastObservationAt    *time.Time     `json:"last_observation_at,omitempty"`
	SymptomFrequency     []SymptomCount `json:"symptom_frequency"`
	ActiveAlerts         []Alert        `json:"active_alerts"`
	UpcomingTreatments   []Treatment    `json:"upcoming_treatments"`
	UpcomingVaccinations []Vaccination  `json:"upcoming_vaccinations"`
	TreatmentCost        float64        `json:"treatment_cost"`
	VaccinationCost      float64        `json:"vaccination_cost"`
	TotalCost            float64        `json:"total_cost"`
}
