package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/turtacn/hbond-engine/internal/domain/hbond"
	"github.com/turtacn/hbond-engine/internal/infrastructure/messaging/kafka"
)

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultPreset     = hbond.DefaultPreset
	DefaultFilterMode = FilterNone
	DefaultMaxBonds   = 2

	DefaultMetricsNamespace = "hbond"
	DefaultMetricsPath      = "/metrics"

	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultServerMode      = "release"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxBodyBytes    = 64 << 20

	DefaultCachePrefix = "hbond:"
	DefaultCacheTTL    = time.Hour
	DefaultRedisMode   = "standalone"
	DefaultRedisAddr   = "localhost:6379"

	DefaultJobTimeout = 5 * time.Minute
	DefaultHealthPort = 8081
)

// ApplyDefaults fills zero-value fields.  Explicit values always win.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Detection.Preset == "" {
		cfg.Detection.Preset = DefaultPreset
	}

	if cfg.Filter.Mode == "" {
		cfg.Filter.Mode = DefaultFilterMode
	}
	if cfg.Filter.MaxBondsPerAtom == 0 {
		cfg.Filter.MaxBondsPerAtom = DefaultMaxBonds
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	s := &cfg.Server
	if s.Host == "" {
		s.Host = DefaultServerHost
	}
	if s.Port == 0 {
		s.Port = DefaultServerPort
	}
	if s.Mode == "" {
		s.Mode = DefaultServerMode
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = DefaultShutdownTimeout
	}
	if s.MaxBodyBytes == 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}

	c := &cfg.Cache
	if c.Prefix == "" {
		c.Prefix = DefaultCachePrefix
	}
	if c.TTL == 0 {
		c.TTL = DefaultCacheTTL
	}
	if c.Redis.Mode == "" {
		c.Redis.Mode = DefaultRedisMode
	}
	if c.Redis.Mode == DefaultRedisMode && c.Redis.Addr == "" {
		c.Redis.Addr = DefaultRedisAddr
	}

	b := &cfg.Batch
	if b.JobTimeout == 0 {
		b.JobTimeout = DefaultJobTimeout
	}
	if b.HealthPort == 0 {
		b.HealthPort = DefaultHealthPort
	}
	b.Kafka.ApplyDefaults()
	b.Storage.ApplyDefaults()

	cfg.Database.ApplyDefaults()
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{Metrics: MetricsConfig{Enabled: true}}
	ApplyDefaults(cfg)
	return cfg
}

// registerDefaults seeds v with every known key so environment variables
// reach them even without a config file.
func registerDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output_paths", []string{"stdout"})
	v.SetDefault("log.error_output_paths", []string{"stderr"})

	v.SetDefault("detection.preset", d.Detection.Preset)
	v.SetDefault("detection.min_distance", 0.0)
	v.SetDefault("detection.max_distance", 0.0)
	v.SetDefault("detection.min_angle", 0.0)

	v.SetDefault("filter.mode", d.Filter.Mode)
	v.SetDefault("filter.max_bonds_per_atom", d.Filter.MaxBondsPerAtom)
	v.SetDefault("filter.capacity_cap", 0)

	v.SetDefault("aggregator.workers", 0)
	v.SetDefault("aggregator.pair_cutoff", 0.0)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("metrics.path", d.Metrics.Path)

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)
	v.SetDefault("server.rate_limit", 0.0)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.prefix", d.Cache.Prefix)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.redis.mode", d.Cache.Redis.Mode)
	v.SetDefault("cache.redis.addr", d.Cache.Redis.Addr)
	v.SetDefault("cache.redis.db", 0)

	v.SetDefault("batch.job_timeout", d.Batch.JobTimeout)
	v.SetDefault("batch.store_results", false)
	v.SetDefault("batch.health_port", d.Batch.HealthPort)
	v.SetDefault("batch.kafka.group_id", d.Batch.Kafka.GroupID)
	v.SetDefault("batch.kafka.request_topic", d.Batch.Kafka.RequestTopic)
	v.SetDefault("batch.kafka.result_topic", d.Batch.Kafka.ResultTopic)
	v.SetDefault("batch.kafka.dead_letter_topic", kafka.DefaultDeadLetterTopic)
	v.SetDefault("batch.kafka.start_offset", d.Batch.Kafka.StartOffset)
	v.SetDefault("batch.kafka.max_retries", d.Batch.Kafka.MaxRetries)
	v.SetDefault("batch.kafka.retry_backoff", d.Batch.Kafka.RetryBackoff)
	v.SetDefault("batch.storage.bucket", d.Batch.Storage.Bucket)
	v.SetDefault("batch.storage.region", d.Batch.Storage.Region)
	v.SetDefault("batch.storage.result_prefix", d.Batch.Storage.ResultPrefix)

	v.SetDefault("database.port", d.Database.Port)
	v.SetDefault("database.database", d.Database.Database)
	v.SetDefault("database.ssl_mode", d.Database.SSLMode)
	v.SetDefault("database.max_conns", d.Database.MaxConns)
	v.SetDefault("database.statement_timeout", d.Database.StatementTimeout)
	v.SetDefault("database.auto_migrate", false)
}

// optionalKeys have no default but can still be set from the environment.
var optionalKeys = []string{
	"detection.promotion_distance",
	"detection.allowed_elements",
	"detection.allowed_contexts",
	"detection.enable_angle_filter",
	"detection.enable_quality_scoring",
	"detection.reject_lowest_quality_tier",
	"detection.include_backbone_backbone",
	"detection.include_unlikely_chemistry",
	"detection.detect_intra_residue",
	"detection.base_atoms_only",
	"server.cors_origins",
	"cache.redis.password",
	"cache.redis.username",
	"cache.redis.master_name",
	"cache.redis.sentinel_addrs",
	"cache.redis.cluster_addrs",
	"batch.kafka.brokers",
	"batch.kafka.sasl_mechanism",
	"batch.kafka.sasl_username",
	"batch.kafka.sasl_password",
	"batch.kafka.tls_enabled",
	"batch.kafka.tls_ca_path",
	"batch.storage.endpoint",
	"batch.storage.access_key_id",
	"batch.storage.secret_access_key",
	"batch.storage.use_ssl",
	"batch.storage.create_bucket",
	"database.host",
	"database.username",
	"database.password",
}

//Personal.AI order the ending
