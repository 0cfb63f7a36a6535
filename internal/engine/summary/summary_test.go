package summary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/herdhealth/internal/domain/models"
	"github.com/mamadbah2/herdhealth/internal/engine/score"
	"github.com/mamadbah2/herdhealth/internal/engine/trend"
)

func newBuilder() *Builder {
	return NewBuilder(score.NewCalculator(score.DefaultPolicy()), trend.NewAnalyzer(trend.DefaultPolicy()), 0)
}

func intPtr(v int) *int { return &v }

func at(days int) time.Time {
	return time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
}

func atPtr(days int) *time.Time {
	t := at(days)
	return &t
}

func TestBuildEmptyHistory(t *testing.T) {
	t.Parallel()

	s := newBuilder().Build(Input{AnimalID: "sheep-3"}, at(0))

	assert.Equal(t, "sheep-3", s.AnimalID)
	assert.InDelta(t, 50.0, s.CurrentScore, 1e-9)
	assert.Equal(t, models.TrendStable, s.Trend)
	assert.Nil(t, s.LastObservationAt)
	assert.Empty(t, s.SymptomFrequency)
	assert.Empty(t, s.ActiveAlerts)
	assert.NotNil(t, s.UpcomingTreatments)
	assert.NotNil(t, s.UpcomingVaccinations)
}

func TestBuildScoresTrendAndSymptoms(t *testing.T) {
	t.Parallel()

	// Oldest observations are sick, newest are healthy.
	obs := []models.Observation{
		{RecordedAt: at(6), Notes: "fine"},
		{RecordedAt: at(5), Notes: "fine"},
		{RecordedAt: at(4), Notes: "better", Symptoms: []string{"cough"}},
		{RecordedAt: at(1), SeverityLevel: intPtr(3), Symptoms: []string{"cough", "fever"}, Notes: "sick"},
		{RecordedAt: at(2), SeverityLevel: intPtr(3), Symptoms: []string{"cough"}, CustomSymptoms: []string{"Fever"}, Notes: "sick"},
		{RecordedAt: at(3), SeverityLevel: intPtr(2), Symptoms: []string{"cough"}, Notes: "sick"},
	}

	s := newBuilder().Build(Input{AnimalID: "cow-1", Observations: obs}, at(7))

	require.NotNil(t, s.LastObservationAt)
	assert.Equal(t, at(6), *s.LastObservationAt)
	assert.Equal(t, 6, s.ObservationCount)
	assert.Equal(t, models.TrendImproving, s.Trend)
	// five most recent: 100, 100, 95, 75, 60
	assert.InDelta(t, 86.0, s.CurrentScore, 1e-9)
	assert.Equal(t, []models.SymptomCount{{Symptom: "cough", Count: 4}, {Symptom: "fever", Count: 2}}, s.SymptomFrequency)
}

func TestBuildUpcomingAndCosts(t *testing.T) {
	t.Parallel()

	now := at(10)
	in := Input{
		AnimalID: "cow-1",
		Treatments: []models.Treatment{
			{ID: "late", NextDoseDate: atPtr(20), Cost: 12.5},
			{ID: "soon", NextDoseDate: atPtr(11), Cost: 7.5},
			{ID: "past", NextDoseDate: atPtr(9), Cost: 5},
			{ID: "done", NextDoseDate: atPtr(15), TreatmentComplete: true},
			{ID: "single", Cost: 5},
		},
		Vaccinations: []models.Vaccination{
			{ID: "v-due", DueDate: atPtr(30), Cost: 3},
			{ID: "v-next", NextDueDate: atPtr(12), Cost: 4},
			{ID: "v-past", NextDueDate: atPtr(1)},
		},
		Alerts: []models.Alert{
			{ID: "a1", Severity: models.SeverityLow, Status: models.AlertActive},
			{ID: "a2", Severity: models.SeverityHigh, Status: models.AlertActive},
			{ID: "a3", Severity: models.SeverityCritical, Status: models.AlertResolved},
		},
	}

	s := newBuilder().Build(in, now)

	require.Len(t, s.UpcomingTreatments, 2)
	assert.Equal(t, "soon", s.UpcomingTreatments[0].ID)
	assert.Equal(t, "late", s.UpcomingTreatments[1].ID)

	require.Len(t, s.UpcomingVaccinations, 2)
	assert.Equal(t, "v-next", s.UpcomingVaccinations[0].ID)
	assert.Equal(t, "v-due", s.UpcomingVaccinations[1].ID)

	require.Len(t, s.ActiveAlerts, 2)
	assert.Equal(t, "a2", s.ActiveAlerts[0].ID)

	assert.InDelta(t, 30.0, s.TreatmentCost, 1e-9)
	assert.InDelta(t, 7.0, s.VaccinationCost, 1e-9)
	assert.InDelta(t, 37.0, s.TotalCost, 1e-9)
}
