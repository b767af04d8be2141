package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultPreset, cfg.Detection.Preset)
	assert.Equal(t, FilterNone, cfg.Filter.Mode)
	assert.Equal(t, DefaultMaxBonds, cfg.Filter.MaxBondsPerAtom)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultMetricsPath, cfg.Metrics.Path)

	ApplyDefaults(nil)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Detection.Preset = "general"
	cfg.Server.Port = 9000
	cfg.Filter.Mode = FilterScored
	ApplyDefaults(cfg)

	assert.Equal(t, "general", cfg.Detection.Preset)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, FilterScored, cfg.Filter.Mode)
}

func TestApplyDefaults_Cache(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, DefaultCachePrefix, cfg.Cache.Prefix)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
	assert.Equal(t, DefaultRedisMode, cfg.Cache.Redis.Mode)
	assert.Equal(t, DefaultRedisAddr, cfg.Cache.Redis.Addr)

	cluster := &Config{}
	cluster.Cache.Redis.Mode = "cluster"
	ApplyDefaults(cluster)
	assert.Empty(t, cluster.Cache.Redis.Addr)
}

func TestApplyDefaults_Batch(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	b := cfg.Batch
	assert.Equal(t, DefaultJobTimeout, b.JobTimeout)
	assert.Equal(t, DefaultHealthPort, b.HealthPort)
	assert.Equal(t, "hbond.detect.requests", b.Kafka.RequestTopic)
	assert.Equal(t, "hbond.detect.results", b.Kafka.ResultTopic)
	assert.Equal(t, "hbond-structures", b.Storage.Bucket)
	assert.False(t, b.StorageEnabled())
}

func TestApplyDefaults_Database(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.False(t, cfg.Database.Enabled())
}
