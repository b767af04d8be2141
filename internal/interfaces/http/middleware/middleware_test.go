package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hbond-engine/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/echo", func(c *gin.Context) {
		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.Status(http.StatusOK)
	})
	return r
}

func get(r http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	w := get(r, "/ok", nil)
	id := w.Header().Get(HeaderRequestID)
	assert.Len(t, id, 36)
	assert.Equal(t, id, w.Body.String())

	w = get(r, "/ok", map[string]string{HeaderRequestID: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))

	w = get(r, "/ok", map[string]string{HeaderRequestID: strings.Repeat("x", 200)})
	assert.Len(t, w.Header().Get(HeaderRequestID), 36, "oversized ids are replaced")
}

func TestRequestLogging_Levels(t *testing.T) {
	log := testutil.NewMockLogger()
	r := newEngine(RequestID(), RequestLogging(log, DefaultLoggingConfig()))

	get(r, "/ok", nil)
	get(r, "/fail", nil)
	get(r, "/missing", nil)
	get(r, "/healthz", nil)

	assert.True(t, log.HasMessage("info", "request completed"))
	assert.True(t, log.HasMessage("error", "request failed"))
	assert.True(t, log.HasMessage("warn", "request rejected"))
	assert.Len(t, log.Messages(), 3, "health probes are skipped")

	entry := log.MessagesAt("info")[0]
	assert.Equal(t, "http", entry.Logger)
	status, ok := entry.Field("status")
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
}

func TestRequestLogging_Slow(t *testing.T) {
	log := testutil.NewMockLogger()
	r := gin.New()
	r.Use(RequestLogging(log, LoggingConfig{SlowThreshold: time.Millisecond}))
	r.GET("/slow", func(c *gin.Context) {
		time.Sleep(5 * time.Millisecond)
		c.Status(http.StatusOK)
	})

	get(r, "/slow", nil)
	assert.True(t, log.HasMessage("warn", "slow request"))
}

func TestCORS(t *testing.T) {
	r := newEngine(CORS(DefaultCORSConfig("https://a.example")))

	w := get(r, "/ok", map[string]string{"Origin": "https://a.example"})
	assert.Equal(t, "https://a.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), HeaderRequestID)

	w = get(r, "/ok", map[string]string{"Origin": "https://b.example"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodOptions, "/ok", nil)
	req.Header.Set("Origin", "https://a.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))

	all := newEngine(CORS(DefaultCORSConfig("*")))
	w = get(all, "/ok", map[string]string{"Origin": "https://c.example"})
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestClientLimiter(t *testing.T) {
	l := NewClientLimiter(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 2})

	ok, remaining := l.Allow("a")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)
	ok, _ = l.Allow("a")
	assert.True(t, ok)
	ok, remaining = l.Allow("a")
	assert.False(t, ok)
	assert.Zero(t, remaining)

	ok, _ = l.Allow("b")
	assert.True(t, ok, "budgets are per client")
	assert.Equal(t, 2, l.Clients())
}

func TestClientLimiter_EvictsIdle(t *testing.T) {
	l := NewClientLimiter(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1, IdleTTL: time.Millisecond})
	l.Allow("a")
	time.Sleep(5 * time.Millisecond)
	l.Allow("b")
	assert.Equal(t, 1, l.Clients())
}

func TestRateLimit(t *testing.T) {
	cfg := DefaultRateLimitConfig(0.001)
	r := newEngine(RequestID(), RateLimit(NewClientLimiter(cfg), cfg))

	assert.Equal(t, http.StatusOK, get(r, "/ok", nil).Code)
	w := get(r, "/ok", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"request_id"`)

	assert.Equal(t, http.StatusOK, get(r, "/healthz", nil).Code, "skipped paths are not limited")
}

func TestMaxBodyBytes(t *testing.T) {
	r := newEngine(MaxBodyBytes(16))

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"a":"short"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"a":"`+strings.Repeat("x", 64)+`"}`))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "too large")
}
