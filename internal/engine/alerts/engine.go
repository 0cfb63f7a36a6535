// Package alerts derives alerts from newly written health records and manages
// their lifecycle. Every function is a pure transformation of its inputs;
// persisting the result is the caller's job.
package alerts

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mamadbah2/herdhealth/internal/domain/models"
)

// Policy holds the tunable thresholds of the trigger rules.
type Policy struct {
	// EmergencySeverity is the lowest 1-5 severity that raises an emergency alert.
	EmergencySeverity int
	// VaccinationLeadDays is how many calendar days before a vaccination's due
	// date its alert falls due.
	VaccinationLeadDays int
}

// DefaultPolicy returns severity 4 and a seven day vaccination lead.
func DefaultPolicy() Policy {
	return Policy{
		EmergencySeverity:   4,
		VaccinationLeadDays: 7,
	}
}

// Engine evaluates trigger rules once per write.
type Engine struct {
	policy Policy
	now    func() time.Time
	newID  func() string
}

// NewEngine builds an engine with the given policy.
func NewEngine(policy Policy) *Engine {
	if policy.EmergencySeverity <= 0 {
		policy.EmergencySeverity = DefaultPolicy().EmergencySeverity
	}
	if policy.VaccinationLeadDays < 0 {
		policy.VaccinationLeadDays = DefaultPolicy().VaccinationLeadDays
	}
	return &Engine{
		policy: policy,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// WithClock replaces the clock used for CreatedAt. Intended for tests and replays.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// OnObservationCreated returns the alerts raised by a freshly stored observation.
func (e *Engine) OnObservationCreated(obs models.Observation) []models.Alert {
	var out []models.Alert

	if sev := obs.Severity(); sev >= e.policy.EmergencySeverity {
		out = append(out, e.newAlert(obs.AnimalID, obs.ID, models.AlertEmergency, models.SeverityCritical,
			"Emergency health observation",
			fmt.Sprintf("Severity %d/5 recorded: %s", sev, strings.TrimSpace(obs.Notes)),
			nil))
	}

	if obs.FollowUpRequired && obs.FollowUpDate != nil {
		due := *obs.FollowUpDate
		out = append(out, e.newAlert(obs.AnimalID, obs.ID, models.AlertFollowUp, models.SeverityMedium,
			"Follow-up check required",
			fmt.Sprintf("Follow-up requested on %s: %s", due.Format(dateLayout), strings.TrimSpace(obs.Notes)),
			&due))
	}

	return out
}

// NeedsExpertReview reports whether an unknown condition is urgent enough to
// request an expert's review. The flag travels on the observation itself.
func NeedsExpertReview(obs models.Observation) bool {
	if !obs.IsUnknownCondition {
		return false
	}
	return obs.Priority == models.PriorityUrgent || obs.Priority == models.PriorityEmergency
}

// OnTreatmentCreated returns the alerts raised by a freshly stored treatment.
func (e *Engine) OnTreatmentCreated(t models.Treatment) []models.Alert {
	if t.NextDoseDate == nil {
		return nil
	}
	due := *t.NextDoseDate
	return []models.Alert{e.newAlert(t.AnimalID, t.ID, models.AlertTreatmentDue, models.SeverityHigh,
		fmt.Sprintf("Next dose of %s due", t.Name),
		fmt.Sprintf("%s %s is due on %s.", t.Name, t.Dosage, due.Format(dateLayout)),
		&due)}
}

// OnVaccinationCreated returns the alerts raised by a freshly stored vaccination.
// The alert falls due VaccinationLeadDays calendar days ahead of the vaccination
// itself, in the due date's own location.
func (e *Engine) OnVaccinationCreated(v models.Vaccination) []models.Alert {
	vaccineDue := v.UpcomingDue()
	if vaccineDue == nil {
		return nil
	}
	due := vaccineDue.AddDate(0, 0, -e.policy.VaccinationLeadDays)
	return []models.Alert{e.newAlert(v.AnimalID, v.ID, models.AlertVaccinationDue, models.SeverityMedium,
		fmt.Sprintf("%s vaccination coming up", v.VaccineName),
		fmt.Sprintf("%s booster is due on %s.", v.VaccineName, vaccineDue.Format(dateLayout)),
		&due)}
}

func (e *Engine) newAlert(animalID, sourceID string, kind models.AlertType, sev models.Severity, title, description string, due *time.Time) models.Alert {
	return models.Alert{
		ID:          e.newID(),
		AnimalID:    animalID,
		AlertType:   kind,
		Severity:    sev,
		Title:       title,
		Description: description,
		DueDate:     due,
		Status:      models.AlertActive,
		SourceID:    sourceID,
		CreatedAt:   e.now().UTC(),
	}
}

const dateLayout = "2006-01-02"
