package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdhealth/internal/domain/models"
	service "github.com/mamadbah2/herdhealth/internal/service/whatsapp"
)

// ReportGenerator builds the weekly herd digest.
type ReportGenerator interface {
	GenerateWeeklyReport(ctx context.Context, now time.Time) (string, error)
}

// ReportSender delivers the weekly herd digest immediately.
type ReportSender interface {
	SendWeeklyReport(ctx context.Context) error
}

// ReportHandler exposes the herd digest and outbound messaging.
type ReportHandler struct {
	reports   ReportGenerator
	sender    ReportSender
	messaging service.MessagingService
	logger    *zap.Logger
	now       func() time.Time
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(reports ReportGenerator, sender ReportSender, messaging service.MessagingService, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{reports: reports, sender: sender, messaging: messaging, logger: logger, now: time.Now}
}

// WeeklyReport renders the digest as plain text.
func (h *ReportHandler) WeeklyReport(c *gin.Context) {
	report, err := h.reports.GenerateWeeklyReport(c.Request.Context(), h.now())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.String(http.StatusOK, report)
}

// SendWeeklyReport pushes the digest to the configured recipient now.
func (h *ReportHandler) SendWeeklyReport(c *gin.Context) {
	if err := h.sender.SendWeeklyReport(c.Request.Context()); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// SendMessage allows operators to push a manual notification.
func (h *ReportHandler) SendMessage(c *gin.Context) {
	var req models.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	if err := h.messaging.SendOutbound(c.Request.Context(), req); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusAccepted)
}
