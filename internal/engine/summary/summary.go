// Package summary assembles the per-animal health read model from records
// the caller has already loaded.
package summary

import (
	"sort"
	"time"

	"github.com/mamadbah2/herdhealth/internal/domain/models"
	"github.com/mamadbah2/herdhealth/internal/engine/alerts"
	"github.com/mamadbah2/herdhealth/internal/engine/score"
	"github.com/mamadbah2/herdhealth/internal/engine/trend"
)

// DefaultWindow is how many recent observations the summary looks at.
const DefaultWindow = 10

// Input carries everything known about one animal.
type Input struct {
	AnimalID     string
	Observations []models.Observation
	Treatments   []models.Treatment
	Vaccinations []models.Vaccination
	Alerts       []models.Alert
}

// Builder combines the score, trend and alert components.
type Builder struct {
	scores *score.Calculator
	trends *trend.Analyzer
	window int
}

// NewBuilder wires a summary builder. window <= 0 uses DefaultWindow.
func NewBuilder(scores *score.Calculator, trends *trend.Analyzer, window int) *Builder {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Builder{scores: scores, trends: trends, window: window}
}

// Build computes the summary as of now. Missing history never errors: the
// score falls back to its neutral value and the trend to stable.
func (b *Builder) Build(in Input, now time.Time) models.HealthSummary {
	recent := score.MostRecent(in.Observations, b.window)

	perObs := make([]float64, len(recent))
	for i, obs := range recent {
		perObs[i] = b.scores.ObservationScore(obs)
	}

	s := models.HealthSummary{
		AnimalID:             in.AnimalID,
		GeneratedAt:          now.UTC(),
		ObservationCount:     len(in.Observations),
		CurrentScore:         b.scores.SummaryScore(recent),
		Trend:                b.trends.Classify(perObs, true),
		SymptomFrequency:     symptomFrequency(recent),
		ActiveAlerts:         alerts.ListActive(in.Alerts),
		UpcomingTreatments:   upcomingTreatments(in.Treatments, now),
		UpcomingVaccinations: upcomingVaccinations(in.Vaccinations, now),
	}
	if len(recent) > 0 {
		last := recent[0].RecordedAt
		s.LastObservationAt = &last
	}

	for _, t := range in.Treatments {
		s.TreatmentCost += t.Cost
	}
	for _, v := range in.Vaccinations {
		s.VaccinationCost += v.Cost
	}
	s.TotalCost = s.TreatmentCost + s.VaccinationCost

	return s
}

func symptomFrequency(observations []models.Observation) []models.SymptomCount {
	counts := make(map[string]int)
	for _, obs := range observations {
		for _, sym := range score.DistinctSymptoms(obs) {
			counts[sym]++
		}
	}

	out := make([]models.SymptomCount, 0, len(counts))
	for sym, n := range counts {
		out = append(out, models.SymptomCount{Symptom: sym, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Symptom < out[j].Symptom
	})
	return out
}

func upcomingTreatments(treatments []models.Treatment, now time.Time) []models.Treatment {
	out := make([]models.Treatment, 0)
	for _, t := range treatments {
		if t.TreatmentComplete || t.NextDoseDate == nil || t.NextDoseDate.Before(now) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].NextDoseDate.Before(*out[j].NextDoseDate) })
	return out
}

func upcomingVaccinations(vaccinations []models.Vaccination, now time.Time) []models.Vaccination {
	out := make([]models.Vaccination, 0)
	for _, v := range vaccinations {
		if due := v.UpcomingDue(); due != nil && !due.Before(now) {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpcomingDue().Before(*out[j].UpcomingDue()) })
	return out
}
