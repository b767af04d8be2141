// Package http exposes the detection engine over a gin JSON API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/hbond-engine/internal/interfaces/http/handlers"
	"github.com/turtacn/hbond-engine/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware dependencies of the
// route tree.  Nil entries are skipped.
type RouterConfig struct {
	HBondHandler  *handlers.HBondHandler
	HealthHandler *handlers.HealthHandler
	JobHandler    *handlers.JobHandler

	Logger  logging.Logger
	Metrics *prometheus.DetectionMetrics
	// MetricsHandler serves the scrape endpoint at MetricsPath.
	MetricsHandler http.Handler
	MetricsPath    string

	CORS         *middleware.CORSConfig
	RateLimit    *middleware.RateLimitConfig
	MaxBodyBytes int64
}

// NewRouter builds the gin engine.  The caller selects the gin mode.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())

	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.RateLimit != nil && cfg.RateLimit.RequestsPerSecond > 0 {
		r.Use(middleware.RateLimit(middleware.NewClientLimiter(*cfg.RateLimit), *cfg.RateLimit))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.MetricsHandler))
	}

	api := r.Group("/api/v1")
	if cfg.MaxBodyBytes > 0 {
		api.Use(middleware.MaxBodyBytes(cfg.MaxBodyBytes))
	}
	if h := cfg.HBondHandler; h != nil {
		api.POST("/hbonds", h.Detect)
		api.GET("/presets", h.Presets)
	}
	if h := cfg.JobHandler; h != nil {
		api.GET("/jobs", h.List)
		api.GET("/jobs/:id", h.Get)
	}
	return r
}

//Personal.AI order the ending
