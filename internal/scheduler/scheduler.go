package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdhealth/internal/config"
	"github.com/mamadbah2/herdhealth/internal/domain/models"
	"github.com/mamadbah2/herdhealth/internal/service/whatsapp"
)

// ReportGenerator produces the weekly herd digest.
type ReportGenerator interface {
	GenerateWeeklyReport(ctx context.Context, now time.Time) (string, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	reporting ReportGenerator
	messaging whatsapp.MessagingService
	schedule  string
	recipient string
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler creates a new scheduler running in the configured timezone.
func NewScheduler(cfg config.Config, reporting ReportGenerator, messaging whatsapp.MessagingService, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", cfg.Reporting.Timezone, err)
	}

	// Standard 5-field cron expressions: min, hour, dom, month, dow.
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:      c,
		reporting: reporting,
		messaging: messaging,
		schedule:  cfg.Reporting.CronSchedule,
		recipient: cfg.WhatsApp.RecipientID,
		logger:    logger,
		now:       func() time.Time { return time.Now().In(loc) },
	}, nil
}

// Start registers the weekly digest and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.runWeeklyReport); err != nil {
		return fmt.Errorf("failed to schedule weekly report: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// SendWeeklyReport builds the digest and delivers it to the configured recipient.
func (s *Scheduler) SendWeeklyReport(ctx context.Context) error {
	report, err := s.reporting.GenerateWeeklyReport(ctx, s.now())
	if err != nil {
		return fmt.Errorf("failed to generate weekly report: %w", err)
	}

	req := models.OutboundMessageRequest{To: s.recipient, Message: report}
	if err := s.messaging.SendOutbound(ctx, req); err != nil {
		return fmt.Errorf("failed to send weekly report: %w", err)
	}
	return nil
}

func (s *Scheduler) runWeeklyReport() {
	s.logger.Info("generating weekly report")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.SendWeeklyReport(ctx); err != nil {
		s.logger.Error("weekly report failed", zap.Error(err))
		return
	}
	s.logger.Info("weekly report sent successfully")
}
