package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	types "github.com/turtacn/hbond-engine/pkg/types/hbond"
)

// Job fetches one recorded batch job outcome.
func (c *Client) Job(ctx context.Context, jobID string) (*types.JobRecord, error) {
	if jobID == "" {
		return nil, fmt.Errorf("%w: job id is required", ErrInvalidConfig)
	}
	var out types.JobRecord
	if err := c.do(ctx, http.MethodGet, "/api/v1/jobs/"+url.PathEscape(jobID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Jobs lists recorded batch jobs, newest first.  An empty status matches
// every job; limit <= 0 uses the server default.
func (c *Client) Jobs(ctx context.Context, status string, limit int) ([]types.JobRecord, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/v1/jobs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []types.JobRecord
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

//Personal.AI order the ending
