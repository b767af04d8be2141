// Package testutil provides shared test helpers: a recording logger and
// small hand-built molecular fixtures with known hydrogen-bond geometry.
package testutil

import (
	"sync"

	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
)

// LogMessage is a single entry captured by MockLogger.
type LogMessage struct {
	Level   string
	Logger  string
	Message string
	Fields  []logging.Field
}

// Field returns the value of the named field and whether it was present.
func (m LogMessage) Field(key string) (interface{}, bool) {
	for _, f := range m.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

type sink struct {
	mu       sync.Mutex
	messages []LogMessage
}

// MockLogger implements logging.Logger and records every entry.  Children
// created with With or Named share the parent's record.
type MockLogger struct {
	sink   *sink
	name   string
	fields []logging.Field
}

// NewMockLogger returns an empty recording logger.
func NewMockLogger() *MockLogger {
	return &MockLogger{sink: &sink{}}
}

func (m *MockLogger) log(level, msg string, fields []logging.Field) {
	all := make([]logging.Field, 0, len(m.fields)+len(fields))
	all = append(all, m.fields...)
	all = append(all, fields...)

	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	m.sink.messages = append(m.sink.messages, LogMessage{
		Level:   level,
		Logger:  m.name,
		Message: msg,
		Fields:  all,
	})
}

func (m *MockLogger) Debug(msg string, fields ...logging.Field) { m.log("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...logging.Field)  { m.log("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...logging.Field)  { m.log("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...logging.Field) { m.log("error", msg, fields) }
func (m *MockLogger) Fatal(msg string, fields ...logging.Field) { m.log("fatal", msg, fields) }

// With returns a child carrying extra fields.
func (m *MockLogger) With(fields ...logging.Field) logging.Logger {
	child := &MockLogger{sink: m.sink, name: m.name}
	child.fields = append(append(child.fields, m.fields...), fields...)
	return child
}

// Named returns a child whose name is dot-joined onto the parent's.
func (m *MockLogger) Named(name string) logging.Logger {
	full := name
	if m.name != "" {
		full = m.name + "." + name
	}
	return &MockLogger{sink: m.sink, name: full, fields: m.fields}
}

// Sync is a no-op.
func (m *MockLogger) Sync() error { return nil }

// Messages returns a copy of every recorded entry.
func (m *MockLogger) Messages() []LogMessage {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	out := make([]LogMessage, len(m.sink.messages))
	copy(out, m.sink.messages)
	return out
}

// MessagesAt returns the recorded entries of one level.
func (m *MockLogger) MessagesAt(level string) []LogMessage {
	var out []LogMessage
	for _, msg := range m.Messages() {
		if msg.Level == level {
			out = append(out, msg)
		}
	}
	return out
}

// Clear drops everything recorded so far.
func (m *MockLogger) Clear() {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	m.sink.messages = m.sink.messages[:0]
}

// HasMessage reports whether an entry with the level and message exists.
func (m *MockLogger) HasMessage(level, msg string) bool {
	for _, logged := range m.Messages() {
		if logged.Level == level && logged.Message == msg {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
