package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdhealth/internal/domain/models"
)

const dateLayout = "2006-01-02"

// FeedService describes the feed log operations exposed over HTTP.
type FeedService interface {
	RecordFeed(ctx context.Context, sample models.FeedSample) (models.FeedSample, error)
	RecordWeight(ctx context.Context, sample models.WeightSample) (models.WeightSample, error)
	Efficiency(ctx context.Context, animalID string, periodEnd time.Time, periodDays int) (models.FeedEfficiencyRecord, error)
}

// FeedHandler serves the feed log and feed efficiency.
type FeedHandler struct {
	svc    FeedService
	logger *zap.Logger
}

// NewFeedHandler constructs the HTTP handler adapter.
func NewFeedHandler(svc FeedService, logger *zap.Logger) *FeedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedHandler{svc: svc, logger: logger}
}

// RecordFeed appends a feed entry for the animal in the path.
func (h *FeedHandler) RecordFeed(c *gin.Context) {
	var sample models.FeedSample
	if err := c.ShouldBindJSON(&sample); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	sample.AnimalID = c.Param("animalID")

	stored, err := h.svc.RecordFeed(c.Request.Context(), sample)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, stored)
}

// RecordWeight appends a weigh-in for the animal in the path.
func (h *FeedHandler) RecordWeight(c *gin.Context) {
	var sample models.WeightSample
	if err := c.ShouldBindJSON(&sample); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	sample.AnimalID = c.Param("animalID")

	stored, err := h.svc.RecordWeight(c.Request.Context(), sample)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, stored)
}

// Efficiency reports feed efficiency over ?period_days= ending on ?end= (YYYY-MM-DD).
func (h *FeedHandler) Efficiency(c *gin.Context) {
	periodDays := models.DefaultPeriodDays
	if raw := c.Query("period_days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "period_days must be a positive integer", "field": "period_days"})
			return
		}
		periodDays = v
	}

	var end time.Time
	if raw := c.Query("end"); raw != "" {
		v, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must be formatted YYYY-MM-DD", "field": "end"})
			return
		}
		end = v
	}

	record, err := h.svc.Efficiency(c.Request.Context(), c.Param("animalID"), end, periodDays)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
