// Command apiserver serves the hydrogen-bond detection API.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/hbond-engine/internal/application/analysis"
	"github.com/turtacn/hbond-engine/internal/config"
	"github.com/turtacn/hbond-engine/internal/infrastructure/database/postgres"
	"github.com/turtacn/hbond-engine/internal/infrastructure/database/redis"
	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/hbond-engine/internal/interfaces/http"
	"github.com/turtacn/hbond-engine/internal/interfaces/http/handlers"
	"github.com/turtacn/hbond-engine/internal/interfaces/http/middleware"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: defaults plus HBOND_* env)")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	watch := flag.Bool("watch", false, "reload detection settings when the config file changes")
	flag.Parse()

	cfg, err := config.LoadOptional(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logging.SetDefault(logger)
	gin.SetMode(cfg.Server.Mode)

	collector := prometheus.NewNoopCollector()
	if cfg.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			logger.Fatal("metrics collector", logging.Err(err))
		}
	}
	metrics := prometheus.NewDetectionMetrics(collector)

	var be backends
	if cfg.Cache.Enabled {
		rc := cfg.Cache.Redis
		client, err := redis.NewClient(&rc, logger)
		if err != nil {
			logger.Fatal("redis", logging.Err(err))
		}
		defer client.Close()
		be.cache = redis.NewCache(client, logger, redis.WithPrefix(cfg.Cache.Prefix), redis.WithDefaultTTL(cfg.Cache.TTL))
		be.checks = append(be.checks, handlers.HealthCheck{Name: "redis", Check: client.Ping})
	}
	if cfg.Database.Enabled() {
		conn, err := postgres.NewConnection(context.Background(), cfg.Database, logger)
		if err != nil {
			logger.Fatal("postgres", logging.Err(err))
		}
		defer conn.Close()
		if cfg.Database.AutoMigrate {
			if err := conn.RunMigrations(); err != nil {
				logger.Fatal("migrations", logging.Err(err))
			}
		}
		be.jobs = postgres.NewJobRepository(conn, logger)
		be.checks = append(be.checks, handlers.HealthCheck{Name: "database", Check: conn.HealthCheck})
	}

	var handler atomic.Pointer[http.Handler]
	build := func(cfg *config.Config) error {
		h, err := newRouter(cfg, logger, collector, metrics, be)
		if err != nil {
			return err
		}
		handler.Store(&h)
		return nil
	}
	if err := build(cfg); err != nil {
		logger.Fatal("build router", logging.Err(err))
	}

	if *watch && *configPath != "" {
		err := config.Watch(*configPath, func(next *config.Config) {
			// Listener and cache connection settings need a restart.
			next.Server = cfg.Server
			next.Cache = cfg.Cache
			next.Database = cfg.Database
			if err := build(next); err != nil {
				logger.Warn("config reload rejected", logging.Err(err))
				return
			}
			logger.Info("config reloaded", logging.String("preset", next.Detection.Preset))
		}, func(err error) {
			logger.Warn("config reload rejected", logging.Err(err))
		})
		if err != nil {
			logger.Fatal("watch config", logging.Err(err))
		}
	}

	srv := httpserver.NewServer(cfg.Server, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		(*handler.Load()).ServeHTTP(w, r)
	}), logger)

	logger.Info("starting hbond API server",
		logging.String("version", version),
		logging.String("addr", cfg.Server.Addr()),
		logging.String("preset", cfg.Detection.Preset),
	)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server error", logging.Err(err))
		}
	}

	if err := srv.Stop(context.Background()); err != nil {
		logger.Error("server shutdown", logging.Err(err))
	}
}

// backends are the connections shared by every router generation.
type backends struct {
	cache  analysis.ResultCache
	jobs   handlers.JobReader
	checks []handlers.HealthCheck
}

func newRouter(cfg *config.Config, logger logging.Logger, collector prometheus.MetricsCollector, metrics *prometheus.DetectionMetrics, be backends) (http.Handler, error) {
	svc, err := analysis.NewService(analysis.Dependencies{Config: cfg, Metrics: metrics, Cache: be.cache, Logger: logger})
	if err != nil {
		return nil, err
	}

	rc := httpserver.RouterConfig{
		HBondHandler:  handlers.NewHBondHandler(svc, logger),
		HealthHandler: handlers.NewHealthHandler(version, be.checks...),
		Logger:        logger,
		Metrics:       metrics,
		MaxBodyBytes:  cfg.Server.MaxBodyBytes,
	}
	if cfg.Metrics.Enabled {
		rc.MetricsHandler = collector.Handler()
		rc.MetricsPath = cfg.Metrics.Path
	}
	if be.jobs != nil {
		rc.JobHandler = handlers.NewJobHandler(be.jobs)
	}
	if len(cfg.Server.CORSOrigins) > 0 {
		cors := middleware.DefaultCORSConfig(cfg.Server.CORSOrigins...)
		rc.CORS = &cors
	}
	if cfg.Server.RateLimit > 0 {
		rl := middleware.DefaultRateLimitConfig(cfg.Server.RateLimit)
		rc.RateLimit = &rl
	}
	return httpserver.NewRouter(rc), nil
}

//Personal.AI order the ending
