// Package client is a Go client for the hydrogen-bond detection API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/hbond-engine/pkg/types/common"
)

const Version = "0.1.0"

// ErrInvalidConfig is returned by NewClient for an unusable base URL.
var ErrInvalidConfig = errors.New("hbond client: invalid configuration")

// Logger defines the logging interface used by the Client.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Errorf(string, ...interface{}) {}

// Client talks to one hbond API server.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	apiKey       string
	userAgent    string
	logger       Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

// APIError is a failed API response.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return fmt.Sprintf("hbond: %s (HTTP %d): %s [request_id=%s]", e.Code, e.StatusCode, msg, e.RequestID)
}

func (e *APIError) IsValidation() bool {
	return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
}

func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrInvalidConfig
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid baseURL: %v", ErrInvalidConfig, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%w: baseURL scheme must be http or https", ErrInvalidConfig)
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 2 * time.Minute},
		userAgent:    fmt.Sprintf("hbond-go-client/%s", Version),
		logger:       noopLogger{},
		retryMax:     3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do performs a request with retries and decodes the envelope's data into
// result.  Paths under /api are enveloped; others are decoded as-is.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fullURL := c.baseURL + path

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			backoff := c.calculateBackoff(attempt)
			c.logger.Debugf("retry attempt %d after %v", attempt, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		requestID := uuid.NewString()
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("X-Request-ID", requestID)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Errorf("request failed: %v", err)
			lastErr = err
			continue
		}
		c.logger.Debugf("%s %s %d (%v)", method, path, resp.StatusCode, time.Since(start))

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < c.retryMax {
			if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
				c.logger.Infof("rate limited, retrying after %d seconds", seconds)
				select {
				case <-time.After(time.Duration(seconds) * time.Second):
					continue
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}

		if resp.StatusCode >= 400 {
			apiErr := decodeError(resp.StatusCode, respBody, requestID)
			lastErr = apiErr
			if apiErr.IsServerError() {
				continue
			}
			return apiErr
		}

		if result == nil || len(respBody) == 0 {
			return nil
		}
		if !strings.HasPrefix(path, "/api/") {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("failed to unmarshal response: %w", err)
			}
			return nil
		}
		env := common.APIResponse[json.RawMessage]{}
		if err := json.Unmarshal(respBody, &env); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
		if len(env.Data) == 0 {
			return nil
		}
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("failed to unmarshal response data: %w", err)
		}
		return nil
	}
	return lastErr
}

func decodeError(status int, body []byte, requestID string) *APIError {
	apiErr := &APIError{StatusCode: status, RequestID: requestID}
	var env common.APIResponse[json.RawMessage]
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		apiErr.Detail = env.Error.Detail
		if env.RequestID != "" {
			apiErr.RequestID = env.RequestID
		}
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(body))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if backoff > c.retryWaitMax {
		backoff = c.retryWaitMax
	}
	if q := int64(backoff / 4); q > 0 {
		backoff += time.Duration(rand.Int63n(q))
	}
	return backoff
}

//Personal.AI order the ending
