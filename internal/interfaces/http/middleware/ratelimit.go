package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/turtacn/hbond-engine/pkg/errors"
	"github.com/turtacn/hbond-engine/pkg/types/common"
)

// RateLimitConfig configures per-client rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	// SkipPaths are never limited.
	SkipPaths []string
	// IdleTTL drops limiters unused for longer than this.  Zero keeps them.
	IdleTTL time.Duration
}

// DefaultRateLimitConfig returns a limit of rps requests per second per
// client with a burst of twice that.
func DefaultRateLimitConfig(rps float64) RateLimitConfig {
	burst := int(2 * rps)
	if burst < 1 {
		burst = 1
	}
	return RateLimitConfig{
		RequestsPerSecond: rps,
		BurstSize:         burst,
		SkipPaths:         []string{"/healthz", "/metrics"},
		IdleTTL:           5 * time.Minute,
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter keeps one token bucket per client key.
type ClientLimiter struct {
	limit rate.Limit
	burst int
	ttl   time.Duration

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

// NewClientLimiter creates a limiter from config.
func NewClientLimiter(config RateLimitConfig) *ClientLimiter {
	return &ClientLimiter{
		limit:   rate.Limit(config.RequestsPerSecond),
		burst:   config.BurstSize,
		ttl:     config.IdleTTL,
		clients: make(map[string]*clientLimiter),
	}
}

// Allow reports whether key may proceed now and the tokens left afterwards.
func (l *ClientLimiter) Allow(key string) (bool, int) {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ttl > 0 {
		for k, cl := range l.clients {
			if now.Sub(cl.lastSeen) > l.ttl {
				delete(l.clients, k)
			}
		}
	}
	cl, ok := l.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = cl
	}
	cl.lastSeen = now
	allowed := cl.limiter.AllowN(now, 1)
	remaining := int(cl.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining
}

// Clients returns the number of tracked clients.
func (l *ClientLimiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// RateLimit rejects requests over the client's budget with 429.
func RateLimit(limiter *ClientLimiter, config RateLimitConfig) gin.HandlerFunc {
	skip := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = true
	}
	limit := strconv.Itoa(config.BurstSize)

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}
		allowed, remaining := limiter.Allow(c.ClientIP())
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			c.Header("Retry-After", "1")
			resp := common.NewErrorResponse(string(errors.ErrCodeTooManyRequests), "rate limit exceeded, please retry later", "")
			resp.RequestID = GetRequestID(c)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, resp)
			return
		}
		c.Next()
	}
}

// MaxBodyBytes caps request bodies at n bytes.  Handlers see the overflow as
// a read error.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

//Personal.AI order the ending
