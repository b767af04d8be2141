package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/hbond-engine/internal/application/analysis"
	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-engine/internal/interfaces/http/middleware"
	types "github.com/turtacn/hbond-engine/pkg/types/hbond"
)

// HBondHandler serves detection requests.
type HBondHandler struct {
	svc    analysis.Service
	logger logging.Logger
}

// NewHBondHandler creates a handler over svc.
func NewHBondHandler(svc analysis.Service, logger logging.Logger) *HBondHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &HBondHandler{svc: svc, logger: logger}
}

// Detect handles POST /api/v1/hbonds.
func (h *HBondHandler) Detect(c *gin.Context) {
	var req types.DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	resp, err := h.svc.Detect(c.Request.Context(), &analysis.AnalyzeInput{
		PDB:                req.PDB,
		Name:               req.Name,
		Preset:             req.Preset,
		Filter:             req.Filter,
		MaxBondsPerAtom:    req.MaxBondsPerAtom,
		DetectIntraResidue: req.Intra,
		Contexts:           req.Contexts,
	})
	if err != nil {
		h.logger.Warn("detection failed",
			logging.String("request_id", middleware.GetRequestID(c)), logging.Err(err))
		writeAppError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, resp)
}

// Presets handles GET /api/v1/presets.
func (h *HBondHandler) Presets(c *gin.Context) {
	infos := h.svc.Presets()
	out := make([]types.Preset, 0, len(infos))
	for _, p := range infos {
		out = append(out, analysis.ToPreset(p))
	}
	writeJSON(c, http.StatusOK, out)
}

//Personal.AI order the ending
