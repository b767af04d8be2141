// Command worker consumes batch detection jobs from Kafka and publishes their
// results.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/hbond-engine/internal/application/analysis"
	"github.com/turtacn/hbond-engine/internal/application/batch"
	"github.com/turtacn/hbond-engine/internal/config"
	"github.com/turtacn/hbond-engine/internal/infrastructure/database/postgres"
	"github.com/turtacn/hbond-engine/internal/infrastructure/database/redis"
	"github.com/turtacn/hbond-engine/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/hbond-engine/internal/infrastructure/storage/minio"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: defaults plus HBOND_* env)")
	healthPort := flag.Int("health-port", 0, "port for /healthz, /readyz and metrics (overrides config)")
	flag.Parse()

	cfg, err := config.LoadOptional(*configPath)
	if err == nil {
		err = cfg.Batch.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *healthPort > 0 {
		cfg.Batch.HealthPort = *healthPort
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logging.SetDefault(logger)

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := analysis.Dependencies{Config: cfg, Metrics: metrics, Logger: logger}
	if cfg.Cache.Enabled {
		rc := cfg.Cache.Redis
		client, err := redis.NewClient(&rc, logger)
		if err != nil {
			logger.Fatal("redis", logging.Err(err))
		}
		defer client.Close()
		deps.Cache = redis.NewCache(client, logger, redis.WithPrefix(cfg.Cache.Prefix), redis.WithDefaultTTL(cfg.Cache.TTL))
	}
	svc, err := analysis.NewService(deps)
	if err != nil {
		logger.Fatal("analysis service", logging.Err(err))
	}

	var store *minio.Client
	if cfg.Batch.StorageEnabled() {
		store, err = minio.NewClient(ctx, cfg.Batch.Storage, logger)
		if err != nil {
			logger.Fatal("object storage", logging.Err(err))
		}
		defer store.Close()
	}

	var db *postgres.Connection
	if cfg.Database.Enabled() {
		db, err = postgres.NewConnection(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("postgres", logging.Err(err))
		}
		defer db.Close()
		if cfg.Database.AutoMigrate {
			if err := db.RunMigrations(); err != nil {
				logger.Fatal("migrations", logging.Err(err))
			}
		}
	}

	producer, err := kafka.NewProducer(cfg.Batch.Kafka, logger)
	if err != nil {
		logger.Fatal("kafka producer", logging.Err(err))
	}
	defer producer.Close()

	pdeps := batch.Dependencies{Service: svc, Publisher: producer, Metrics: metrics, Logger: logger}
	if store != nil {
		pdeps.Store = store
	}
	if db != nil {
		pdeps.Ledger = postgres.NewJobRepository(db, logger)
	}
	processor, err := batch.NewProcessor(batch.Config{
		ResultTopic:  cfg.Batch.Kafka.ResultTopic,
		JobTimeout:   cfg.Batch.JobTimeout,
		StoreResults: cfg.Batch.StoreResults,
	}, pdeps)
	if err != nil {
		logger.Fatal("batch processor", logging.Err(err))
	}

	consumer, err := kafka.NewConsumer(cfg.Batch.Kafka, producer, logger)
	if err != nil {
		logger.Fatal("kafka consumer", logging.Err(err))
	}
	if err := consumer.Start(ctx, processor.Handle); err != nil {
		logger.Fatal("start consumer", logging.Err(err))
	}

	health := startHealthServer(cfg, collector, store, db, logger)

	logger.Info("starting hbond worker",
		logging.String("version", version),
		logging.Strings("brokers", cfg.Batch.Kafka.Brokers),
		logging.String("request_topic", cfg.Batch.Kafka.RequestTopic),
		logging.String("result_topic", cfg.Batch.Kafka.ResultTopic),
		logging.Bool("object_storage", store != nil),
		logging.Bool("job_ledger", db != nil),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutting down", logging.String("signal", sig.String()))

	// Close waits for the job in flight before the producer goes away.
	if err := consumer.Close(); err != nil {
		logger.Error("consumer close", logging.Err(err))
	}
	stats := consumer.Stats()
	logger.Info("worker stopped",
		logging.Int64("consumed", stats.Consumed),
		logging.Int64("processed", stats.Processed),
		logging.Int64("dead_lettered", stats.DeadLettered))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := health.Shutdown(shutdownCtx); err != nil {
		logger.Error("health server shutdown", logging.Err(err))
	}
}

func startHealthServer(cfg *config.Config, collector prometheus.MetricsCollector, store *minio.Client, db *postgres.Connection, logger logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			if err := store.HealthCheck(r.Context()); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		if db != nil {
			if err := db.HealthCheck(r.Context()); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, collector.Handler())
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Batch.HealthPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server", logging.Err(err))
		}
	}()
	return srv
}

//Personal.AI order the ending
