package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/herdhealth/internal/domain/models"
)

type stubHerd struct {
	ids []string
	err error
}

func (s stubHerd) ListAnimalIDs(context.Context) ([]string, error) { return s.ids, s.err }

type stubHealth map[string]models.HealthSummary

func (s stubHealth) Summary(_ context.Context, animalID string) (models.HealthSummary, error) {
	sum, ok := s[animalID]
	if !ok {
		return models.HealthSummary{}, models.ErrNotFound
	}
	return sum, nil
}

type stubFeed map[string]models.FeedEfficiencyRecord

func (s stubFeed) Efficiency(_ context.Context, animalID string, _ time.Time, _ int) (models.FeedEfficiencyRecord, error) {
	rec, ok := s[animalID]
	if !ok {
		return models.FeedEfficiencyRecord{}, errors.New("no feed log")
	}
	return rec, nil
}

var reportTime = time.Date(2024, 6, 14, 20, 0, 0, 0, time.UTC)

func TestGenerateWeeklyReport(t *testing.T) {
	t.Parallel()

	health := stubHealth{
		"cow-1": {AnimalID: "cow-1", CurrentScore: 85, Trend: models.TrendStable},
		"cow-2": {AnimalID: "cow-2", CurrentScore: 42, Trend: models.TrendDeclining, ActiveAlerts: []models.Alert{{ID: "a1"}, {ID: "a2"}}},
		"cow-3": {AnimalID: "cow-3", CurrentScore: 85, Trend: models.TrendImproving, ActiveAlerts: []models.Alert{{ID: "a3"}}},
	}
	feed := stubFeed{
		"cow-1": {Efficiency: models.FeedEfficiency{FCR: 2.5, Defined: true}, FCRTrend: models.TrendImproving},
		"cow-3": {Efficiency: models.FeedEfficiency{}},
	}

	svc := NewService(stubHerd{ids: []string{"cow-3", "cow-1", "cow-2", "ghost"}}, health, feed, nil)

	report, err := svc.GenerateWeeklyReport(context.Background(), reportTime)
	require.NoError(t, err)

	assert.Equal(t, "Weekly herd report (2024-06-07 - 2024-06-14)\n"+
		"- cow-2: score 42 (declining), 2 active alerts\n"+
		"- cow-1: score 85 (stable), 0 active alerts, FCR 2.50 (improving)\n"+
		"- cow-3: score 85 (improving), 1 active alert\n"+
		"Totals: 3 animals, 3 active alerts, 1 declining. 1 unavailable.", report)
}

func TestGenerateWeeklyReportEmptyHerd(t *testing.T) {
	t.Parallel()

	svc := NewService(stubHerd{}, stubHealth{}, nil, nil)

	report, err := svc.GenerateWeeklyReport(context.Background(), reportTime)
	require.NoError(t, err)
	assert.Contains(t, report, "No animals on record yet.")
}

func TestGenerateWeeklyReportHerdError(t *testing.T) {
	t.Parallel()

	herdErr := errors.New("mongo down")
	svc := NewService(stubHerd{err: herdErr}, stubHealth{}, nil, nil)

	_, err := svc.GenerateWeeklyReport(context.Background(), reportTime)
	require.ErrorIs(t, err, herdErr)
}
