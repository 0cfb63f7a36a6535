package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdhealth/internal/server/handlers"
)

// Handlers groups the HTTP handler adapters.
type Handlers struct {
	Health  *handlers.HealthHandler
	Feed    *handlers.FeedHandler
	Reports *handlers.ReportHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api/v1")

	animals := api.Group("/animals/:animalID")
	animals.POST("/observations", h.Health.CreateObservation)
	animals.POST("/treatments", h.Health.CreateTreatment)
	animals.POST("/vaccinations", h.Health.CreateVaccination)
	animals.GET("/summary", h.Health.Summary)
	animals.GET("/alerts", h.Health.ActiveAlerts)
	animals.POST("/feed", h.Feed.RecordFeed)
	animals.POST("/weights", h.Feed.RecordWeight)
	animals.GET("/feed-efficiency", h.Feed.Efficiency)

	api.PUT("/observations/:id", h.Health.UpdateObservation)
	api.POST("/treatments/:id/complete", h.Health.CompleteTreatment)
	api.DELETE("/treatments/:id", h.Health.DeleteTreatment)
	api.POST("/alerts/:id/dismiss", h.Health.DismissAlert)
	api.POST("/alerts/:id/resolve", h.Health.ResolveAlert)
	api.GET("/diseases", h.Health.SearchDiseases)
	api.POST("/diseases/match", h.Health.MatchDiseases)

	api.GET("/reports/weekly", h.Reports.WeeklyReport)
	api.POST("/reports/weekly/send", h.Reports.SendWeeklyReport)
	api.POST("/messages", h.Reports.SendMessage)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
