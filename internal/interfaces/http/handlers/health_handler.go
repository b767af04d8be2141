package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/hbond-engine/pkg/types/common"
)

// HealthCheck probes one backing service.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler answers liveness and readiness probes.
type HealthHandler struct {
	version string
	startAt time.Time
	checks  []HealthCheck
}

// NewHealthHandler creates a HealthHandler.  Readiness runs checks in order.
func NewHealthHandler(version string, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{version: version, startAt: time.Now(), checks: checks}
}

// Liveness handles GET /healthz.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, h.response(common.HealthUp, nil))
}

// Readiness handles GET /readyz.  Any failing check reports the service down.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := common.HealthUp
	components := make(map[string]string, len(h.checks))
	for _, hc := range h.checks {
		if err := hc.Check(ctx); err != nil {
			components[hc.Name] = err.Error()
			status = common.HealthDown
			continue
		}
		components[hc.Name] = string(common.HealthUp)
	}

	code := http.StatusOK
	if status != common.HealthUp {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, h.response(status, components))
}

func (h *HealthHandler) response(status common.HealthStatus, components map[string]string) common.HealthResponse {
	return common.HealthResponse{
		Status:     status,
		Version:    h.version,
		Uptime:     time.Since(h.startAt).Round(time.Second).String(),
		Components: components,
	}
}

//Personal.AI order the ending
