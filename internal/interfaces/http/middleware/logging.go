package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
)

// LoggingConfig holds configuration for the request logging middleware.
type LoggingConfig struct {
	// SkipPaths are not logged (health probes, metrics scrapes).
	SkipPaths []string
	// SlowThreshold raises successful requests slower than it to Warn.
	SlowThreshold time.Duration
}

// DefaultLoggingConfig returns the default logging configuration.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:     []string{"/healthz", "/metrics"},
		SlowThreshold: 3 * time.Second,
	}
}

// RequestLogging logs one entry per request once it completes.  5xx responses
// are logged at Error, 4xx and slow requests at Warn, the rest at Info.
func RequestLogging(logger logging.Logger, config LoggingConfig) gin.HandlerFunc {
	skip := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = true
	}
	logger = logger.Named("http")

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		status := c.Writer.Status()
		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", status),
			logging.Duration("duration", duration),
			logging.Int("bytes", c.Writer.Size()),
			logging.String("client_ip", c.ClientIP()),
			logging.String("request_id", GetRequestID(c)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logging.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			logger.Error("request failed", fields...)
		case status >= 400:
			logger.Warn("request rejected", fields...)
		case config.SlowThreshold > 0 && duration > config.SlowThreshold:
			logger.Warn("slow request", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}

//Personal.AI order the ending
