package health

import (
	"context"
	"sort"
	"sync"

	"github.com/mamadbah2/herdhealth/internal/domain/models"
)

// memStore is an in-memory RecordStore and AlertStore.
type memStore struct {
	mu           sync.Mutex
	observations map[string]models.Observation
	treatments   map[string]models.Treatment
	vaccinations map[string]models.Vaccination
	alerts       map[string]models.Alert

	appendErr    error
	saveAlertErr error
	listAlertErr error
	writes       int
	reads        int
}

func newMemStore() *memStore {
	return &memStore{
		observations: map[string]models.Observation{},
		treatments:   map[string]models.Treatment{},
		vaccinations: map[string]models.Vaccination{},
		alerts:       map[string]models.Alert{},
	}
}

func (m *memStore) AppendObservation(_ context.Context, obs models.Observation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.writes++
	m.observations[obs.ID] = obs
	return nil
}

func (m *memStore) UpdateObservation(_ context.Context, obs models.Observation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.observations[obs.ID]; !ok {
		return models.ErrNotFound
	}
	m.writes++
	m.observations[obs.ID] = obs
	return nil
}

func (m *memStore) GetObservation(_ context.Context, id string) (models.Observation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	obs, ok := m.observations[id]
	if !ok {
		return models.Observation{}, models.ErrNotFound
	}
	return obs, nil
}

func (m *memStore) ListObservations(_ context.Context, animalID string) ([]models.Observation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Observation
	for _, obs := range m.observations {
		if obs.AnimalID == animalID {
			out = append(out, obs)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	return out, nil
}

func (m *memStore) AppendTreatment(_ context.Context, t models.Treatment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.writes++
	m.treatments[t.ID] = t
	return nil
}

func (m *memStore) UpdateTreatment(_ context.Context, t models.Treatment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.treatments[t.ID]; !ok {
		return models.ErrNotFound
	}
	m.writes++
	m.treatments[t.ID] = t
	return nil
}

func (m *memStore) GetTreatment(_ context.Context, id string) (models.Treatment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.treatments[id]
	if !ok {
		return models.Treatment{}, models.ErrNotFound
	}
	return t, nil
}

func (m *memStore) DeleteTreatment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.treatments[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.treatments, id)
	return nil
}

func (m *memStore) ListTreatments(_ context.Context, animalID string) ([]models.Treatment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Treatment
	for _, t := range m.treatments {
		if t.AnimalID == animalID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) AppendVaccination(_ context.Context, v models.Vaccination) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.writes++
	m.vaccinations[v.ID] = v
	return nil
}

func (m *memStore) ListVaccinations(_ context.Context, animalID string) ([]models.Vaccination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Vaccination
	for _, v := range m.vaccinations {
		if v.AnimalID == animalID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memStore) SaveAlert(_ context.Context, a models.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveAlertErr != nil {
		return m.saveAlertErr
	}
	m.alerts[a.ID] = a
	return nil
}

func (m *memStore) UpdateAlert(_ context.Context, a models.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.alerts[a.ID]; !ok {
		return models.ErrNotFound
	}
	m.alerts[a.ID] = a
	return nil
}

func (m *memStore) GetAlert(_ context.Context, id string) (models.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.alerts[id]
	if !ok {
		return models.Alert{}, models.ErrNotFound
	}
	return a, nil
}

func (m *memStore) ListAlerts(_ context.Context, animalID string) ([]models.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listAlertErr != nil {
		return nil, m.listAlertErr
	}
	var out []models.Alert
	for _, a := range m.alerts {
		if a.AnimalID == animalID {
			out = append(out, a)
		}
	}
	return out, nil
}
