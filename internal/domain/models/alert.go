package models

import "time"

// AlertType categorizes the event that produced an alert.
type AlertType string

const (
	AlertTreatmentDue     AlertType = "treatment_due"
	AlertVaccinationDue   AlertType = "vaccination_due"
	AlertFollowUp         AlertType = "follow_up_required"
	AlertHealthDecline    AlertType = "health_decline"
	AlertAbnormalSymptoms AlertType = "abnormal_symptoms"
	AlertEmergency        AlertType = "emergency"
	AlertRoutineCheck     AlertType = "routine_check"
)

// Severity is the urgency of an alert. Severities form a total order.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank maps the severity onto its position in the order; unknown values rank lowest.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// AlertStatus tracks the alert lifecycle: active -> dismissed | resolved.
type AlertStatus string

const (
	AlertActive    AlertStatus = "active"
	AlertDismissed AlertStatus = "dismissed"
	AlertResolved  AlertStatus = "resolved"
)

// Alert is synthesized by the alert engine, never authored directly.
type Alert struct {
	ID               string      `bson:"_id" json:"id"`
	AnimalID         string      `bson:"animal_id" json:"animal_id"`
	AlertType        AlertType   `bson:"alert_type" json:"alert_type"`
	Severity         Severity    `bson:"severity" json:"severity"`
	Title            string      `bson:"title" json:"title"`
	Description      string      `bson:"description" json:"description"`
	DueDate          *time.Time  `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Status           AlertStatus `bson:"status" json:"status"`
	SourceID         string      `bson:"source_id,omitempty" json:"source_id,omitempty"`
	CreatedAt        time.Time   `bson:"created_at" json:"created_at"`
	AcknowledgedBy   string      `bson:"acknowledged_by,omitempty" json:"acknowledged_by,omitempty"`
	AcknowledgedDate *time.Time  `bson:"acknowledged_date,omitempty" json:"acknowledged_date,omitempty"`
	ResolvedDate     *time.Time  `bson:"resolved_date,omitempty" json:"resolved_date,omitempty"`
}

// IsActive reports whether the alert still belongs in the live feed.
func (a Alert) IsActive() bool {
	return a.Status == AlertActive
}

// IsTerminal reports whether the alert has been dismissed or resolved.
func (a Alert) IsTerminal() bool {
	return a.Status == AlertDismissed || a.Status == AlertResolved
}
