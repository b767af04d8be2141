package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hbond-engine/internal/config"
)

func TestNewServer(t *testing.T) {
	cfg := config.Default().Server
	cfg.Host, cfg.Port = "127.0.0.1", 18080
	mux := http.NewServeMux()

	s := NewServer(cfg, mux, nil)
	assert.Equal(t, "127.0.0.1:18080", s.srv.Addr)
	assert.Equal(t, cfg.ReadTimeout, s.srv.ReadTimeout)
	assert.Equal(t, mux, s.Handler())
}

func TestServer_StartStop(t *testing.T) {
	cfg := config.Default().Server
	cfg.Host, cfg.Port = "127.0.0.1", 0
	cfg.ShutdownTimeout = time.Second
	s := NewServer(cfg, http.NewServeMux(), nil)

	done := make(chan error, 1)
	go func() { done <- s.Start() }()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, s.Stop(context.Background()))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
