package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdhealth/internal/domain/models"
	"github.com/mamadbah2/herdhealth/internal/engine/alerts"
	"github.com/mamadbah2/herdhealth/internal/engine/score"
	"github.com/mamadbah2/herdhealth/internal/engine/summary"
	"github.com/mamadbah2/herdhealth/internal/engine/symptoms"
	"github.com/mamadbah2/herdhealth/internal/engine/trend"
)

// ErrAlertReferenced is returned when a treatment is still the source of an active alert.
var ErrAlertReferenced = errors.New("treatment is referenced by an active alert")

// RecordStore persists observations, treatments and vaccinations.
type RecordStore interface {
	AppendObservation(ctx context.Context, obs models.Observation) error
	UpdateObservation(ctx context.Context, obs models.Observation) error
	GetObservation(ctx context.Context, id string) (models.Observation, error)
	ListObservations(ctx context.Context, animalID string) ([]models.Observation, error)

	AppendTreatment(ctx context.Context, t models.Treatment) error
	UpdateTreatment(ctx context.Context, t models.Treatment) error
	GetTreatment(ctx context.Context, id string) (models.Treatment, error)
	DeleteTreatment(ctx context.Context, id string) error
	ListTreatments(ctx context.Context, animalID string) ([]models.Treatment, error)

	AppendVaccination(ctx context.Context, v models.Vaccination) error
	ListVaccinations(ctx context.Context, animalID string) ([]models.Vaccination, error)
}

// AlertStore persists alerts.
type AlertStore interface {
	SaveAlert(ctx context.Context, a models.Alert) error
	UpdateAlert(ctx context.Context, a models.Alert) error
	GetAlert(ctx context.Context, id string) (models.Alert, error)
	ListAlerts(ctx context.Context, animalID string) ([]models.Alert, error)
}

// Engines bundles the analytics components used by the service. Nil fields
// fall back to the default policies; a nil Catalog disables disease lookups.
type Engines struct {
	Triggers *alerts.Engine
	Summary  *summary.Builder
	Catalog  *symptoms.Catalog
}

// Service orchestrates health record writes, alert evaluation and reads.
type Service struct {
	records    RecordStore
	alertStore AlertStore
	triggers   *alerts.Engine
	summaries  *summary.Builder
	catalog    *symptoms.Catalog
	locks      *animalLocks
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

// NewService wires the health service.
func NewService(records RecordStore, alertStore AlertStore, engines Engines, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engines.Triggers == nil {
		engines.Triggers = alerts.NewEngine(alerts.DefaultPolicy())
	}
	if engines.Summary == nil {
		engines.Summary = summary.NewBuilder(
			score.NewCalculator(score.DefaultPolicy()),
			trend.NewAnalyzer(trend.DefaultPolicy()),
			summary.DefaultWindow,
		)
	}

	return &Service{
		records:    records,
		alertStore: alertStore,
		triggers:   engines.Triggers,
		summaries:  engines.Summary,
		catalog:    engines.Catalog,
		locks:      newAnimalLocks(),
		logger:     logger,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
}

// RecordObservation validates and stores a new observation, then raises its alerts.
func (s *Service) RecordObservation(ctx context.Context, obs models.Observation) (models.Observation, []models.Alert, error) {
	if err := models.ValidateObservation(obs); err != nil {
		return models.Observation{}, nil, err
	}

	unlock := s.locks.lock(obs.AnimalID)
	defer unlock()

	now := s.now().UTC()
	if obs.ID == "" {
		obs.ID = s.newID()
	}
	if obs.RecordedAt.IsZero() {
		obs.RecordedAt = now
	}
	obs.UpdatedAt = now
	obs.ApplyDefaults()
	obs.ExpertReviewRequested = alerts.NeedsExpertReview(obs)

	if err := s.records.AppendObservation(ctx, obs); err != nil {
		return models.Observation{}, nil, fmt.Errorf("failed to store observation: %w", err)
	}

	raised := s.persistAlerts(ctx, s.triggers.OnObservationCreated(obs))

	s.logger.Info("observation recorded",
		zap.String("animal_id", obs.AnimalID),
		zap.String("observation_id", obs.ID),
		zap.Int("alerts", len(raised)),
		zap.Bool("expert_review", obs.ExpertReviewRequested),
	)

	return obs, raised, nil
}

// UpdateObservation replaces the mutable fields of a stored observation.
// The animal and RecordedAt are kept from the stored copy. Alerts are only
// raised on creation.
func (s *Service) UpdateObservation(ctx context.Context, id string, obs models.Observation) (models.Observation, error) {
	if err := models.ValidateObservationEdit(obs); err != nil {
		return models.Observation{}, err
	}

	existing, err := s.records.GetObservation(ctx, id)
	if err != nil {
		return models.Observation{}, err
	}

	obs.ID = existing.ID
	obs.AnimalID = existing.AnimalID

	unlock := s.locks.lock(existing.AnimalID)
	defer unlock()

	obs.RecordedAt = existing.RecordedAt
	obs.UpdatedAt = s.now().UTC()
	obs.ApplyDefaults()
	obs.ExpertReviewRequested = alerts.NeedsExpertReview(obs)

	if err := s.records.UpdateObservation(ctx, obs); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Observation{}, err
		}
		return models.Observation{}, fmt.Errorf("failed to update observation %s: %w", id, err)
	}

	return obs, nil
}

// RecordTreatment stores a treatment and raises its next-dose alert.
func (s *Service) RecordTreatment(ctx context.Context, t models.Treatment) (models.Treatment, []models.Alert, error) {
	now := s.now().UTC()
	if t.AdministeredAt.IsZero() {
		t.AdministeredAt = now
	}
	if err := models.ValidateTreatment(t); err != nil {
		return models.Treatment{}, nil, err
	}

	if t.HealthRecordID != "" {
		obs, err := s.records.GetObservation(ctx, t.HealthRecordID)
		switch {
		case errors.Is(err, models.ErrNotFound):
			return models.Treatment{}, nil, &models.ValidationError{Field: "health_record_id", Message: "does not match a stored observation"}
		case err != nil:
			return models.Treatment{}, nil, fmt.Errorf("failed to load observation %s: %w", t.HealthRecordID, err)
		case obs.AnimalID != t.AnimalID:
			return models.Treatment{}, nil, &models.ValidationError{Field: "health_record_id", Message: "belongs to another animal"}
		}
	}

	unlock := s.locks.lock(t.AnimalID)
	defer unlock()

	if t.ID == "" {
		t.ID = s.newID()
	}
	t.CreatedAt = now
	t.UpdatedAt = now

	if err := s.records.AppendTreatment(ctx, t); err != nil {
		return models.Treatment{}, nil, fmt.Errorf("failed to store treatment: %w", err)
	}

	return t, s.persistAlerts(ctx, s.triggers.OnTreatmentCreated(t)), nil
}

// CompleteTreatment marks a treatment complete and resolves its next-dose alerts.
func (s *Service) CompleteTreatment(ctx context.Context, id string) (models.Treatment, error) {
	t, err := s.records.GetTreatment(ctx, id)
	if err != nil {
		return models.Treatment{}, err
	}

	unlock := s.locks.lock(t.AnimalID)
	defer unlock()

	now := s.now().UTC()
	if !t.TreatmentComplete {
		t.TreatmentComplete = true
		t.UpdatedAt = now
		if err := s.records.UpdateTreatment(ctx, t); err != nil {
			return models.Treatment{}, fmt.Errorf("failed to update treatment %s: %w", id, err)
		}
	}

	existing, err := s.alertStore.ListAlerts(ctx, t.AnimalID)
	if err != nil {
		s.logger.Warn("failed to load alerts for completed treatment", zap.String("treatment_id", id), zap.Error(err))
		return t, nil
	}
	for _, a := range alerts.ResolveForSource(existing, id, now) {
		if err := s.alertStore.UpdateAlert(ctx, a); err != nil {
			s.logger.Warn("failed to resolve treatment alert", zap.String("alert_id", a.ID), zap.Error(err))
		}
	}

	return t, nil
}

// DeleteTreatment removes a treatment unless an active alert still points at it.
func (s *Service) DeleteTreatment(ctx context.Context, id string) error {
	t, err := s.records.GetTreatment(ctx, id)
	if err != nil {
		return err
	}

	unlock := s.locks.lock(t.AnimalID)
	defer unlock()

	existing, err := s.alertStore.ListAlerts(ctx, t.AnimalID)
	if err != nil {
		return fmt.Errorf("failed to load alerts for animal %s: %w", t.AnimalID, err)
	}
	if alerts.ReferencesSource(existing, id) {
		return ErrAlertReferenced
	}

	if err := s.records.DeleteTreatment(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete treatment %s: %w", id, err)
	}
	return nil
}

// RecordVaccination stores a vaccination and raises its reminder.
func (s *Service) RecordVaccination(ctx context.Context, v models.Vaccination) (models.Vaccination, []models.Alert, error) {
	if err := models.ValidateVaccination(v); err != nil {
		return models.Vaccination{}, nil, err
	}

	unlock := s.locks.lock(v.AnimalID)
	defer unlock()

	if v.ID == "" {
		v.ID = s.newID()
	}
	v.CreatedAt = s.now().UTC()

	if err := s.records.AppendVaccination(ctx, v); err != nil {
		return models.Vaccination{}, nil, fmt.Errorf("failed to store vaccination: %w", err)
	}

	return v, s.persistAlerts(ctx, s.triggers.OnVaccinationCreated(v)), nil
}

// Summary builds the health read model of one animal.
func (s *Service) Summary(ctx context.Context, animalID string) (models.HealthSummary, error) {
	in := summary.Input{AnimalID: animalID}

	var err error
	if in.Observations, err = s.records.ListObservations(ctx, animalID); err != nil {
		return models.HealthSummary{}, fmt.Errorf("failed to load observations: %w", err)
	}
	if in.Treatments, err = s.records.ListTreatments(ctx, animalID); err != nil {
		return models.HealthSummary{}, fmt.Errorf("failed to load treatments: %w", err)
	}
	if in.Vaccinations, err = s.records.ListVaccinations(ctx, animalID); err != nil {
		return models.HealthSummary{}, fmt.Errorf("failed to load vaccinations: %w", err)
	}
	if in.Alerts, err = s.alertStore.ListAlerts(ctx, animalID); err != nil {
		return models.HealthSummary{}, fmt.Errorf("failed to load alerts: %w", err)
	}

	return s.summaries.Build(in, s.now()), nil
}

// ActiveAlerts returns the live alert feed of one animal.
func (s *Service) ActiveAlerts(ctx context.Context, animalID string) ([]models.Alert, error) {
	all, err := s.alertStore.ListAlerts(ctx, animalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}
	return alerts.ListActive(all), nil
}

// DismissAlert acknowledges an alert on behalf of by.
func (s *Service) DismissAlert(ctx context.Context, id, by string) (models.Alert, error) {
	return s.transitionAlert(ctx, id, func(a models.Alert, at time.Time) models.Alert {
		return alerts.Dismiss(a, by, at)
	})
}

// ResolveAlert closes an alert.
func (s *Service) ResolveAlert(ctx context.Context, id string) (models.Alert, error) {
	return s.transitionAlert(ctx, id, alerts.Resolve)
}

// SearchDiseases looks up catalog entries by free text.
func (s *Service) SearchDiseases(query, species string) []models.DiseaseReference {
	if s.catalog == nil {
		return []models.DiseaseReference{}
	}
	return s.catalog.Search(query, species)
}

// MatchDiseases ranks catalog entries against observed symptoms.
func (s *Service) MatchDiseases(symptomIDs []string, species string) []models.DiseaseMatch {
	if s.catalog == nil {
		return []models.DiseaseMatch{}
	}
	return s.catalog.Rank(symptomIDs, species)
}

func (s *Service) transitionAlert(ctx context.Context, id string, apply func(models.Alert, time.Time) models.Alert) (models.Alert, error) {
	a, err := s.alertStore.GetAlert(ctx, id)
	if err != nil {
		return models.Alert{}, err
	}
	if a.IsTerminal() {
		return a, nil
	}

	unlock := s.locks.lock(a.AnimalID)
	defer unlock()

	// Reload under the lock so a concurrent transition wins cleanly.
	if a, err = s.alertStore.GetAlert(ctx, id); err != nil {
		return models.Alert{}, err
	}
	next := apply(a, s.now())
	if next.Status == a.Status {
		return a, nil
	}

	if err := s.alertStore.UpdateAlert(ctx, next); err != nil {
		return models.Alert{}, fmt.Errorf("failed to update alert %s: %w", id, err)
	}
	return next, nil
}

// persistAlerts stores raised alerts. Failures are logged and the alert is
// left out of the returned slice; the originating write has already succeeded.
func (s *Service) persistAlerts(ctx context.Context, raised []models.Alert) []models.Alert {
	saved := make([]models.Alert, 0, len(raised))
	for _, a := range raised {
		if err := s.alertStore.SaveAlert(ctx, a); err != nil {
			s.logger.Warn("failed to persist alert",
				zap.String("animal_id", a.AnimalID),
				zap.String("alert_type", string(a.AlertType)),
				zap.String("source_id", a.SourceID),
				zap.Error(err),
			)
			continue
		}
		saved = append(saved, a)
	}
	return saved
}
