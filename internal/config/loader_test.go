package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hbond-engine/internal/domain/hbond"
)

const sampleYAML = `
log:
  level: debug
  format: console
detection:
  preset: general
  max_distances:
    base-base: 3.8
  include_unlikely_chemistry: false
filter:
  mode: scored
  capacity_cap: 1
aggregator:
  workers: 4
server:
  port: 9191
  read_timeout: 5s
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hbond.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, hbond.PresetGeneral, cfg.Detection.Preset)
	assert.Equal(t, FilterScored, cfg.Filter.Mode)
	assert.Equal(t, 1, cfg.Filter.CapacityCap)
	assert.Equal(t, 4, cfg.Aggregator.Workers)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultWriteTimeout, cfg.Server.WriteTimeout)

	p, err := cfg.DetectionParameters()
	require.NoError(t, err)
	assert.Equal(t, 3.8, p.MaxDistance(hbond.ContextBaseBase))
	assert.False(t, p.IncludeUnlikelyChemistry)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HBOND_DETECTION_PRESET", "dssr-like")
	t.Setenv("HBOND_SERVER_PORT", "7070")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, hbond.PresetDSSR, cfg.Detection.Preset)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidContent(t *testing.T) {
	_, err := Load(writeConfig(t, "filter:\n  mode: greedy\n"))
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HBOND_DETECTION_PRESET", "legacy-compatible")
	t.Setenv("HBOND_DETECTION_DETECT_INTRA_RESIDUE", "true")
	t.Setenv("HBOND_DETECTION_ALLOWED_ELEMENTS", "N,O,S")
	t.Setenv("HBOND_FILTER_MODE", "generic")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, FilterGeneric, cfg.Filter.Mode)
	require.NotNil(t, cfg.Detection.DetectIntraResidue)

	p, err := cfg.DetectionParameters()
	require.NoError(t, err)
	assert.Equal(t, hbond.PresetLegacy, p.Name)
	assert.True(t, p.DetectIntraResidue)
	assert.True(t, p.ElementAllowed("S"))
}

func TestLoadOptional(t *testing.T) {
	cfg, err := LoadOptional("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPreset, cfg.Detection.Preset)

	cfg, err = LoadOptional(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, hbond.PresetGeneral, cfg.Detection.Preset)
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "absent.yaml")) })
}

func TestWatch_MissingFile(t *testing.T) {
	err := Watch(filepath.Join(t.TempDir(), "absent.yaml"), func(*Config) {}, nil)
	assert.Error(t, err)
}

func TestLoad_CacheSection(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
cache:
  enabled: true
  ttl: 10m
  redis:
    mode: sentinel
    master_name: hbond-master
    sentinel_addrs: ["s1:26379", "s2:26379"]
    password: secret
`))
	require.NoError(t, err)

	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, DefaultCachePrefix, cfg.Cache.Prefix)
	assert.Equal(t, "sentinel", cfg.Cache.Redis.Mode)
	assert.Equal(t, "hbond-master", cfg.Cache.Redis.MasterName)
	assert.Equal(t, []string{"s1:26379", "s2:26379"}, cfg.Cache.Redis.SentinelAddrs)
	assert.Equal(t, "secret", cfg.Cache.Redis.Password)
}

func TestLoadFromEnv_CacheEnabled(t *testing.T) {
	t.Setenv("HBOND_CACHE_ENABLED", "true")
	t.Setenv("HBOND_CACHE_REDIS_ADDR", "cache.internal:6380")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "cache.internal:6380", cfg.Cache.Redis.Addr)
}

func TestLoad_BatchSection(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
batch:
  job_timeout: 90s
  store_results: true
  kafka:
    brokers: ["k1:9092", "k2:9092"]
    group_id: ribosome-workers
    max_retries: 5
  storage:
    endpoint: minio:9000
    bucket: pdb-archive
`))
	require.NoError(t, err)

	b := cfg.Batch
	assert.Equal(t, 90*time.Second, b.JobTimeout)
	assert.True(t, b.StoreResults)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, b.Kafka.Brokers)
	assert.Equal(t, "ribosome-workers", b.Kafka.GroupID)
	assert.Equal(t, 5, b.Kafka.MaxRetries)
	assert.Equal(t, "hbond.detect.requests.dlq", b.Kafka.DeadLetterTopic)
	assert.Equal(t, "minio:9000", b.Storage.Endpoint)
	assert.Equal(t, "pdb-archive", b.Storage.Bucket)
	assert.Equal(t, "results/", b.Storage.ResultPrefix)
	assert.NoError(t, b.Validate())
}

func TestLoadFromEnv_BatchBrokers(t *testing.T) {
	t.Setenv("HBOND_BATCH_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("HBOND_BATCH_STORAGE_ENDPOINT", "s3.internal:9000")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Batch.Kafka.Brokers)
	assert.True(t, cfg.Batch.StorageEnabled())
}

func TestLoad_DatabaseSection(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
database:
  host: pg.internal
  username: hbond
  auto_migrate: true
  statement_timeout: 5s
`))
	require.NoError(t, err)

	db := cfg.Database
	assert.True(t, db.Enabled())
	assert.Equal(t, "pg.internal", db.Host)
	assert.Equal(t, 5432, db.Port)
	assert.Equal(t, "hbond", db.Database)
	assert.True(t, db.AutoMigrate)
	assert.Equal(t, 5*time.Second, db.StatementTimeout)
}

func TestLoadFromEnv_DatabasePassword(t *testing.T) {
	t.Setenv("HBOND_DATABASE_HOST", "pg")
	t.Setenv("HBOND_DATABASE_PASSWORD", "s3cret")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "pg", cfg.Database.Host)
	assert.Equal(t, "s3cret", cfg.Database.Password)
}
