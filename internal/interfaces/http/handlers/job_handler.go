package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/hbond-engine/internal/infrastructure/database/postgres"
	"github.com/turtacn/hbond-engine/pkg/errors"
	types "github.com/turtacn/hbond-engine/pkg/types/hbond"
)

// JobReader reads the batch job ledger; *postgres.JobRepository satisfies it.
type JobReader interface {
	Get(ctx context.Context, jobID string) (*types.JobRecord, error)
	List(ctx context.Context, f postgres.JobFilter) ([]*types.JobRecord, error)
}

// JobHandler serves recorded batch job outcomes.
type JobHandler struct {
	jobs JobReader
}

// NewJobHandler creates a handler over jobs.
func NewJobHandler(jobs JobReader) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// Get handles GET /api/v1/jobs/:id.
func (h *JobHandler) Get(c *gin.Context) {
	rec, err := h.jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAppError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, rec)
}

// List handles GET /api/v1/jobs?status=&limit=.
func (h *JobHandler) List(c *gin.Context) {
	f := postgres.JobFilter{Status: c.Query("status")}
	switch f.Status {
	case "", types.JobSucceeded, types.JobFailed:
	default:
		writeError(c, http.StatusBadRequest, errors.ErrCodeBadRequest, "invalid status filter",
			"status must be succeeded or failed")
		return
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(c, http.StatusBadRequest, errors.ErrCodeBadRequest, "invalid limit", "limit must be a positive integer")
			return
		}
		f.Limit = n
	}

	recs, err := h.jobs.List(c.Request.Context(), f)
	if err != nil {
		writeAppError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, recs)
}

//Personal.AI order the ending
