// Package common holds the response envelope and small shared types used by
// every API surface of the engine.
package common

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Timestamp is a time.Time with RFC 3339 JSON encoding in UTC.
type Timestamp time.Time

// NewTimestamp returns the current UTC time as a Timestamp.
func NewTimestamp() Timestamp {
	return Timestamp(time.Now().UTC())
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	*t = Timestamp(parsed.UTC())
	return nil
}

// NewRequestID returns a fresh request identifier.
func NewRequestID() string {
	return uuid.NewString()
}

// ErrorDetail is the error body of a failed response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// APIResponse is the envelope of every API response.
type APIResponse[T any] struct {
	Success   bool         `json:"success"`
	Data      T            `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Timestamp Timestamp    `json:"timestamp"`
}

// NewSuccessResponse wraps data in a successful envelope.
func NewSuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{Success: true, Data: data, Timestamp: NewTimestamp()}
}

// NewErrorResponse builds a failed envelope.
func NewErrorResponse(code, message, detail string) APIResponse[any] {
	return APIResponse[any]{
		Error:     &ErrorDetail{Code: code, Message: message, Detail: detail},
		Timestamp: NewTimestamp(),
	}
}

// HealthStatus indicates the health of the service.
type HealthStatus string

const (
	HealthUp   HealthStatus = "up"
	HealthDown HealthStatus = "down"
)

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status     HealthStatus      `json:"status"`
	Version    string            `json:"version,omitempty"`
	Uptime     string            `json:"uptime,omitempty"`
	Components map[string]string `json:"components,omitempty"`
}

// Context keys for request-scoped values.
type ContextKey string

const (
	ContextKeyRequestID ContextKey = "request_id"
)

//Personal.AI order the ending
