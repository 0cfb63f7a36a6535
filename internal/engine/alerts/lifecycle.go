package alerts

import (
	"sort"
	"time"

	"github.com/mamadbah2/herdhealth/internal/domain/models"
)

// ListActive filters out terminal alerts and orders the rest by severity
// (critical first), then newest first. ID breaks any remaining tie.
func ListActive(all []models.Alert) []models.Alert {
	out := make([]models.Alert, 0, len(all))
	for _, a := range all {
		if a.IsActive() {
			out = append(out, a)
		}
	}
	Sort(out)
	return out
}

// Sort orders alerts in place using the live feed ordering.
func Sort(alerts []models.Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if ra, rb := a.Severity.Rank(), b.Severity.Rank(); ra != rb {
			return ra > rb
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// Dismiss acknowledges an active alert. Terminal alerts are returned unchanged.
func Dismiss(a models.Alert, by string, at time.Time) models.Alert {
	if a.IsTerminal() {
		return a
	}
	at = at.UTC()
	a.Status = models.AlertDismissed
	a.AcknowledgedBy = by
	a.AcknowledgedDate = &at
	return a
}

// Resolve closes an active alert. Terminal alerts are returned unchanged.
func Resolve(a models.Alert, at time.Time) models.Alert {
	if a.IsTerminal() {
		return a
	}
	at = at.UTC()
	a.Status = models.AlertResolved
	a.ResolvedDate = &at
	return a
}

// ResolveForSource resolves every active treatment_due alert raised by sourceID
// and returns only the alerts that changed.
func ResolveForSource(all []models.Alert, sourceID string, at time.Time) []models.Alert {
	var changed []models.Alert
	for _, a := range all {
		if a.SourceID != sourceID || a.AlertType != models.AlertTreatmentDue || !a.IsActive() {
			continue
		}
		changed = append(changed, Resolve(a, at))
	}
	return changed
}

// ReferencesSource reports whether any active alert was raised by sourceID.
func ReferencesSource(all []models.Alert, sourceID string) bool {
	for _, a := range all {
		if a.SourceID == sourceID && a.IsActive() {
			return true
		}
	}
	return false
}
