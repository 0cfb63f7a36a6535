package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdhealth/internal/domain/models"
)

// HealthService describes the health operations exposed over HTTP.
type HealthService interface {
	RecordObservation(ctx context.Context, obs models.Observation) (models.Observation, []models.Alert, error)
	UpdateObservation(ctx context.Context, id string, obs models.Observation) (models.Observation, error)
	RecordTreatment(ctx context.Context, t models.Treatment) (models.Treatment, []models.Alert, error)
	CompleteTreatment(ctx context.Context, id string) (models.Treatment, error)
	DeleteTreatment(ctx context.Context, id string) error
	RecordVaccination(ctx context.Context, v models.Vaccination) (models.Vaccination, []models.Alert, error)
	Summary(ctx context.Context, animalID string) (models.HealthSummary, error)
	ActiveAlerts(ctx context.Context, animalID string) ([]models.Alert, error)
	DismissAlert(ctx context.Context, id, by string) (models.Alert, error)
	ResolveAlert(ctx context.Context, id string) (models.Alert, error)
	SearchDiseases(query, species string) []models.DiseaseReference
	MatchDiseases(symptomIDs []string, species string) []models.DiseaseMatch
}

// HealthHandler serves health records, alerts and disease lookups.
type HealthHandler struct {
	svc    HealthService
	logger *zap.Logger
}

// NewHealthHandler constructs the HTTP handler adapter.
func NewHealthHandler(svc HealthService, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{svc: svc, logger: logger}
}

// CreateObservation records an observation for the animal in the path.
func (h *HealthHandler) CreateObservation(c *gin.Context) {
	var obs models.Observation
	if err := c.ShouldBindJSON(&obs); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	obs.AnimalID = c.Param("animalID")
	obs.ID = ""

	stored, raised, err := h.svc.RecordObservation(c.Request.Context(), obs)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"observation": stored, "alerts": raised})
}

// UpdateObservation replaces an observation's mutable fields.
func (h *HealthHandler) UpdateObservation(c *gin.Context) {
	var obs models.Observation
	if err := c.ShouldBindJSON(&obs); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	updated, err := h.svc.UpdateObservation(c.Request.Context(), c.Param("id"), obs)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// CreateTreatment records a treatment for the animal in the path.
func (h *HealthHandler) CreateTreatment(c *gin.Context) {
	var t models.Treatment
	if err := c.ShouldBindJSON(&t); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	t.AnimalID = c.Param("animalID")
	t.ID = ""

	stored, raised, err := h.svc.RecordTreatment(c.Request.Context(), t)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"treatment": stored, "alerts": raised})
}

// CompleteTreatment marks a treatment complete.
func (h *HealthHandler) CompleteTreatment(c *gin.Context) {
	t, err := h.svc.CompleteTreatment(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// DeleteTreatment removes a treatment.
func (h *HealthHandler) DeleteTreatment(c *gin.Context) {
	if err := h.svc.DeleteTreatment(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateVaccination records a vaccination for the animal in the path.
func (h *HealthHandler) CreateVaccination(c *gin.Context) {
	var v models.Vaccination
	if err := c.ShouldBindJSON(&v); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	v.AnimalID = c.Param("animalID")
	v.ID = ""

	stored, raised, err := h.svc.RecordVaccination(c.Request.Context(), v)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vaccination": stored, "alerts": raised})
}

// Summary returns the health summary of an animal.
func (h *HealthHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context(), c.Param("animalID"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ActiveAlerts returns the live alert feed of an animal.
func (h *HealthHandler) ActiveAlerts(c *gin.Context) {
	alerts, err := h.svc.ActiveAlerts(c.Request.Context(), c.Param("animalID"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

type dismissRequest struct {
	AcknowledgedBy string `json:"acknowledged_by"`
}

// DismissAlert acknowledges an alert. The body is optional.
func (h *HealthHandler) DismissAlert(c *gin.Context) {
	var req dismissRequest
	if body := c.Request.Body; body != nil && body != http.NoBody {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			badRequest(c, h.logger, err)
			return
		}
	}

	alert, err := h.svc.DismissAlert(c.Request.Context(), c.Param("id"), req.AcknowledgedBy)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

// ResolveAlert closes an alert.
func (h *HealthHandler) ResolveAlert(c *gin.Context) {
	alert, err := h.svc.ResolveAlert(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

// SearchDiseases filters the disease catalog by ?q= and ?species=.
func (h *HealthHandler) SearchDiseases(c *gin.Context) {
	diseases := h.svc.SearchDiseases(c.Query("q"), c.Query("species"))
	c.JSON(http.StatusOK, gin.H{"diseases": diseases})
}

type matchRequest struct {
	Symptoms []string `json:"symptoms" binding:"required,min=1"`
	Species  string   `json:"species" binding:"required"`
}

// MatchDiseases ranks catalog entries against a symptom set.
func (h *HealthHandler) MatchDiseases(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": h.svc.MatchDiseases(req.Symptoms, req.Species)})
}
