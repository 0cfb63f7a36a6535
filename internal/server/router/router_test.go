package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/herdhealth/internal/domain/models"
	"github.com/mamadbah2/herdhealth/internal/server/handlers"
	"github.com/mamadbah2/herdhealth/internal/service/feed"
	"github.com/mamadbah2/herdhealth/internal/service/health"
)

type fakeHealth struct {
	lastObservation models.Observation
	lastDismissBy   string
	deleteErr       error
	summaryErr      error
}

func (f *fakeHealth) RecordObservation(_ context.Context, obs models.Observation) (models.Observation, []models.Alert, error) {
	if err := models.ValidateObservation(obs); err != nil {
		return models.Observation{}, nil, err
	}
	f.lastObservation = obs
	obs.ID = "obs-1"
	return obs, []models.Alert{{ID: "alert-1", AlertType: models.AlertEmergency}}, nil
}

func (f *fakeHealth) UpdateObservation(_ context.Context, id string, obs models.Observation) (models.Observation, error) {
	if id != "obs-1" {
		return models.Observation{}, models.ErrNotFound
	}
	obs.ID = id
	return obs, nil
}

func (f *fakeHealth) RecordTreatment(_ context.Context, t models.Treatment) (models.Treatment, []models.Alert, error) {
	t.ID = "trt-1"
	return t, nil, nil
}

func (f *fakeHealth) CompleteTreatment(_ context.Context, id string) (models.Treatment, error) {
	return models.Treatment{ID: id, TreatmentComplete: true}, nil
}

func (f *fakeHealth) DeleteTreatment(context.Context, string) error { return f.deleteErr }

func (f *fakeHealth) RecordVaccination(_ context.Context, v models.Vaccination) (models.Vaccination, []models.Alert, error) {
	return v, nil, nil
}

func (f *fakeHealth) Summary(_ context.Context, animalID string) (models.HealthSummary, error) {
	if f.summaryErr != nil {
		return models.HealthSummary{}, f.summaryErr
	}
	return models.HealthSummary{AnimalID: animalID, CurrentScore: 50, Trend: models.TrendStable}, nil
}

func (f *fakeHealth) ActiveAlerts(context.Context, string) ([]models.Alert, error) {
	return []models.Alert{}, nil
}

func (f *fakeHealth) DismissAlert(_ context.Context, id, by string) (models.Alert, error) {
	f.lastDismissBy = by
	return models.Alert{ID: id, Status: models.AlertDismissed, AcknowledgedBy: by}, nil
}

func (f *fakeHealth) ResolveAlert(_ context.Context, id string) (models.Alert, error) {
	return models.Alert{ID: id, Status: models.AlertResolved}, nil
}

func (f *fakeHealth) SearchDiseases(query, _ string) []models.DiseaseReference {
	return []models.DiseaseReference{{ID: "match-" + query}}
}

func (f *fakeHealth) MatchDiseases(symptomIDs []string, _ string) []models.DiseaseMatch {
	return []models.DiseaseMatch{{Disease: models.DiseaseReference{ID: "brd"}, MatchCount: len(symptomIDs)}}
}

type fakeFeed struct {
	periodDays int
	end        time.Time
	err        error
}

func (f *fakeFeed) RecordFeed(_ context.Context, s models.FeedSample) (models.FeedSample, error) {
	return s, f.err
}

func (f *fakeFeed) RecordWeight(_ context.Context, s models.WeightSample) (models.WeightSample, error) {
	return s, f.err
}

func (f *fakeFeed) Efficiency(_ context.Context, animalID string, end time.Time, periodDays int) (models.FeedEfficiencyRecord, error) {
	f.end, f.periodDays = end, periodDays
	return models.FeedEfficiencyRecord{AnimalID: animalID, PeriodDays: periodDays}, f.err
}

type fakeReports struct{ sent int }

func (f *fakeReports) GenerateWeeklyReport(context.Context, time.Time) (string, error) {
	return "Weekly herd report", nil
}

func (f *fakeReports) SendWeeklyReport(context.Context) error {
	f.sent++
	return nil
}

type fakeMessaging struct{ sent []models.OutboundMessageRequest }

func (f *fakeMessaging) SendOutbound(_ context.Context, req models.OutboundMessageRequest) error {
	f.sent = append(f.sent, req)
	return nil
}

type fixture struct {
	health    *fakeHealth
	feed      *fakeFeed
	reports   *fakeReports
	messaging *fakeMessaging
	engine    http.Handler
}

func newFixture() *fixture {
	f := &fixture{health: &fakeHealth{}, feed: &fakeFeed{}, reports: &fakeReports{}, messaging: &fakeMessaging{}}
	f.engine = New(Handlers{
		Health:  handlers.NewHealthHandler(f.health, nil),
		Feed:    handlers.NewFeedHandler(f.feed, nil),
		Reports: handlers.NewReportHandler(f.reports, f.reports, f.messaging, nil),
	}, nil)
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := newFixture().do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateObservationUsesPathAnimal(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodPost, "/api/v1/animals/cow-1/observations", `{"animal_id":"other","notes":"Coughing","severity_level":4}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Observation models.Observation `json:"observation"`
		Alerts      []models.Alert     `json:"alerts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "cow-1", body.Observation.AnimalID)
	assert.Equal(t, "obs-1", body.Observation.ID)
	require.Len(t, body.Alerts, 1)
	assert.Equal(t, "cow-1", f.health.lastObservation.AnimalID)
}

func TestErrorMapping(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/api/v1/animals/cow-1/observations", `{"notes":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"notes"`)

	rec = f.do(http.MethodPost, "/api/v1/animals/cow-1/observations", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPut, "/api/v1/observations/missing", `{"notes":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	f.health.deleteErr = health.ErrAlertReferenced
	rec = f.do(http.MethodDelete, "/api/v1/treatments/trt-1", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	f.health.deleteErr = nil
	rec = f.do(http.MethodDelete, "/api/v1/treatments/trt-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	f.health.summaryErr = context.DeadlineExceeded
	rec = f.do(http.MethodGet, "/api/v1/animals/cow-1/summary", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	f.feed.err = feed.ErrFeedLogDisabled
	rec = f.do(http.MethodPost, "/api/v1/animals/cow-1/feed", `{"amount_lbs":10}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAlertRoutes(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/api/v1/alerts/alert-1/dismiss", `{"acknowledged_by":"vet-ana"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "vet-ana", f.health.lastDismissBy)

	rec = f.do(http.MethodPost, "/api/v1/alerts/alert-1/dismiss", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.health.lastDismissBy)

	rec = f.do(http.MethodPost, "/api/v1/alerts/alert-1/resolve", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"resolved"`)

	rec = f.do(http.MethodGet, "/api/v1/animals/cow-1/alerts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"alerts":[]}`, rec.Body.String())
}

func TestDismissAlertReadsChunkedBody(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/alert-1/dismiss", strings.NewReader(`{"acknowledged_by":"vet-ana"}`))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "vet-ana", f.health.lastDismissBy)

	rec = f.do(http.MethodPost, "/api/v1/alerts/alert-1/dismiss", `{"acknowledged_by":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDiseaseRoutes(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/v1/diseases?q=scours&species=cattle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "match-scours")

	rec = f.do(http.MethodPost, "/api/v1/diseases/match", `{"symptoms":["fever","cough"],"species":"cattle"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"match_count":2`)

	rec = f.do(http.MethodPost, "/api/v1/diseases/match", `{"symptoms":[],"species":"cattle"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeedEfficiencyQuery(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/v1/animals/steer-1/feed-efficiency?period_days=14&end=2024-05-31", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 14, f.feed.periodDays)
	assert.Equal(t, time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), f.feed.end)

	rec = f.do(http.MethodGet, "/api/v1/animals/steer-1/feed-efficiency", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.DefaultPeriodDays, f.feed.periodDays)
	assert.True(t, f.feed.end.IsZero())

	rec = f.do(http.MethodGet, "/api/v1/animals/steer-1/feed-efficiency?period_days=-3", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/animals/steer-1/feed-efficiency?end=31/05/2024", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportRoutes(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/v1/reports/weekly", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Weekly herd report", rec.Body.String())

	rec = f.do(http.MethodPost, "/api/v1/reports/weekly/send", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, f.reports.sent)

	rec = f.do(http.MethodPost, "/api/v1/messages", `{"to":"224600000000","message":"Vet visit tomorrow"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, f.messaging.sent, 1)

	rec = f.do(http.MethodPost, "/api/v1/messages", `{"to":"224600000000"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
