package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdhealth/internal/config"
	"github.com/mamadbah2/herdhealth/internal/engine/alerts"
	"github.com/mamadbah2/herdhealth/internal/engine/score"
	"github.com/mamadbah2/herdhealth/internal/engine/summary"
	"github.com/mamadbah2/herdhealth/internal/engine/symptoms"
	"github.com/mamadbah2/herdhealth/internal/engine/trend"
	"github.com/mamadbah2/herdhealth/internal/repository/mongodb"
	"github.com/mamadbah2/herdhealth/internal/repository/sheets"
	"github.com/mamadbah2/herdhealth/internal/scheduler"
	"github.com/mamadbah2/herdhealth/internal/server/handlers"
	"github.com/mamadbah2/herdhealth/internal/server/router"
	feedsvc "github.com/mamadbah2/herdhealth/internal/service/feed"
	healthsvc "github.com/mamadbah2/herdhealth/internal/service/health"
	reportingsvc "github.com/mamadbah2/herdhealth/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/herdhealth/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/herdhealth/pkg/clients/whatsapp"
	"github.com/mamadbah2/herdhealth/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level, cfg.Log.Development))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	mongoRepo, err := mongodb.NewMongoDBRepository(startupCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()
	if err := mongoRepo.EnsureIndexes(startupCtx); err != nil {
		baseLogger.Warn("failed to ensure mongodb indexes", zap.Error(err))
	}

	var feedLog sheets.FeedLog
	if cfg.Sheets.Enabled() {
		sheetLog, err := sheets.NewGoogleSheetFeedLog(startupCtx, cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets feed log", zap.Error(err))
		}
		feedLog = sheetLog
	} else {
		baseLogger.Warn("sheets credentials missing, feed log disabled")
	}

	catalog, err := symptoms.DefaultCatalog()
	if err != nil {
		baseLogger.Fatal("failed to load disease catalog", zap.Error(err))
	}
	baseLogger.Info("disease catalog loaded", zap.Int("diseases", catalog.Len()))

	scores := score.NewCalculator(scorePolicy(cfg.Scoring))
	trends := trend.NewAnalyzer(trend.Policy{Window: cfg.Trend.Window, Band: cfg.Trend.Band})
	triggers := alerts.NewEngine(alerts.Policy{
		EmergencySeverity:   cfg.Alerts.EmergencySeverity,
		VaccinationLeadDays: cfg.Alerts.VaccinationLeadDays,
	})

	healthSvc := healthsvc.NewService(mongoRepo, mongoRepo, healthsvc.Engines{
		Triggers: triggers,
		Summary:  summary.NewBuilder(scores, trends, cfg.Trend.SummaryWindow),
		Catalog:  catalog,
	}, logger.Named(baseLogger, "svc.health"))
	feedSvc := feedsvc.NewService(feedLog, scores, trends, cfg.Trend.FeedPeriods, logger.Named(baseLogger, "svc.feed"))

	var reportFeed reportingsvc.FeedAdapter
	if feedLog != nil {
		reportFeed = feedSvc
	}
	reportingSvc := reportingsvc.NewService(mongoRepo, healthSvc, reportFeed, logger.Named(baseLogger, "svc.reporting"))

	var whatsClient whatsappclient.Client
	if cfg.WhatsApp.Enabled() {
		whatsClient = whatsappclient.NewClient(cfg.WhatsApp)
	} else {
		baseLogger.Warn("whatsapp token missing, weekly digest delivery disabled")
	}
	messagingSvc := whatsappsvc.NewMetaWhatsAppService(whatsClient, logger.Named(baseLogger, "svc.whatsapp"))

	sched, err := scheduler.NewScheduler(*cfg, reportingSvc, messagingSvc, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if cfg.WhatsApp.Enabled() {
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	engine := router.New(router.Handlers{
		Health:  handlers.NewHealthHandler(healthSvc, logger.Named(baseLogger, "handlers.health")),
		Feed:    handlers.NewFeedHandler(feedSvc, logger.Named(baseLogger, "handlers.feed")),
		Reports: handlers.NewReportHandler(reportingSvc, sched, messagingSvc, logger.Named(baseLogger, "handlers.reports")),
	}, logger.Named(baseLogger, "router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func scorePolicy(c config.ScoringConfig) score.Policy {
	p := score.DefaultPolicy()
	p.SeverityPenalty = c.SeverityPenalty
	p.SymptomPenalty = c.SymptomPenalty
	p.BodyConditionBonus = c.BodyConditionBonus
	p.BodyConditionThreshold = c.BodyConditionThreshold
	p.SummaryWindow = c.SummaryWindow
	p.NeutralScore = c.NeutralScore
	p.FCROptimum = c.FCROptimum
	p.FCRSlope = c.FCRSlope
	p.CostOptimum = c.CostOptimum
	p.CostSlope = c.CostSlope
	return p
}
