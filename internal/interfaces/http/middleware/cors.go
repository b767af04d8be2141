package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSConfig configures cross-origin access.
type CORSConfig struct {
	// AllowedOrigins lists exact origins; "*" allows any.
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string
	// MaxAge is the preflight cache lifetime in seconds.
	MaxAge int
}

// DefaultCORSConfig returns a configuration for the given origins.
func DefaultCORSConfig(origins ...string) CORSConfig {
	return CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", HeaderRequestID},
		ExposedHeaders: []string{HeaderRequestID, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:         86400,
	}
}

// CORS answers preflight requests and decorates responses to allowed
// origins.  Requests without an Origin header pass through untouched.
func CORS(config CORSConfig) gin.HandlerFunc {
	methods := strings.Join(config.AllowedMethods, ", ")
	headers := strings.Join(config.AllowedHeaders, ", ")
	exposed := strings.Join(config.ExposedHeaders, ", ")
	maxAge := strconv.Itoa(config.MaxAge)

	allowAll := false
	origins := make(map[string]bool, len(config.AllowedOrigins))
	for _, o := range config.AllowedOrigins {
		if o == "*" {
			allowAll = true
		}
		origins[strings.ToLower(o)] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || !(allowAll || origins[strings.ToLower(origin)]) {
			c.Next()
			return
		}

		c.Writer.Header().Add("Vary", "Origin")
		if allowAll {
			c.Header("Access-Control-Allow-Origin", "*")
		} else {
			c.Header("Access-Control-Allow-Origin", origin)
		}

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", methods)
			c.Header("Access-Control-Allow-Headers", headers)
			if config.MaxAge > 0 {
				c.Header("Access-Control-Max-Age", maxAge)
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		if exposed != "" {
			c.Header("Access-Control-Expose-Headers", exposed)
		}
		c.Next()
	}
}

//Personal.AI order the ending
