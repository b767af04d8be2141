package client

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/turtacn/hbond-engine/pkg/types/common"
	types "github.com/turtacn/hbond-engine/pkg/types/hbond"
)

// Detect submits PDB text for hydrogen-bond detection.
func (c *Client) Detect(ctx context.Context, req *types.DetectRequest) (*types.DetectResponse, error) {
	if req == nil || strings.TrimSpace(req.PDB) == "" {
		return nil, fmt.Errorf("%w: pdb is required", ErrInvalidConfig)
	}
	var out types.DetectResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/hbonds", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DetectFile reads a PDB file and submits it.  req may be nil; its PDB field
// is overwritten and Name defaults to the file's base name.
func (c *Client) DetectFile(ctx context.Context, path string, req *types.DetectRequest) (*types.DetectResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	r := types.DetectRequest{}
	if req != nil {
		r = *req
	}
	r.PDB = string(data)
	if r.Name == "" {
		base := filepath.Base(path)
		r.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return c.Detect(ctx, &r)
}

// Presets lists the server's parameter presets.
func (c *Client) Presets(ctx context.Context) ([]types.Preset, error) {
	var out []types.Preset
	if err := c.do(ctx, http.MethodGet, "/api/v1/presets", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health queries the liveness endpoint.
func (c *Client) Health(ctx context.Context) (*common.HealthResponse, error) {
	var out common.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
