package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hbond-engine/internal/domain/hbond"
	"github.com/turtacn/hbond-engine/pkg/errors"
)

func ptr[T any](v T) *T { return &v }

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	p, err := cfg.DetectionParameters()
	require.NoError(t, err)
	assert.Equal(t, hbond.DefaultPreset, p.Name)
	assert.Equal(t, 15.0, p.PairCutoff)
}

func TestValidate_StructConstraints(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad filter", func(c *Config) { c.Filter.Mode = "greedy" }, "Filter.Mode"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "Server.Port"},
		{"bad gin mode", func(c *Config) { c.Server.Mode = "prod" }, "Server.Mode"},
		{"negative workers", func(c *Config) { c.Aggregator.Workers = -1 }, "Aggregator.Workers"},
		{"bad angle", func(c *Config) { c.Detection.MinAngle = 190 }, "Detection.MinAngle"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "Log.Format"},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "Metrics.Path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidate_CacheRedis(t *testing.T) {
	cfg := Default()
	cfg.Cache.Enabled = true
	require.NoError(t, cfg.Validate())

	cfg.Cache.Redis.Mode = "cluster"
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
	assert.Contains(t, err.Error(), "cache.redis.cluster_addrs")

	cfg.Cache.Redis.ClusterAddrs = []string{"r1:6379", "r2:6379"}
	assert.NoError(t, cfg.Validate())

	cfg.Cache.Redis.Mode = "sentinel"
	assert.Error(t, cfg.Validate())

	cfg.Cache.Enabled = false
	assert.NoError(t, cfg.Validate())
}

func TestValidate_UnknownPreset(t *testing.T) {
	cfg := Default()
	cfg.Detection.Preset = "x3dna"
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownPreset))
}

func TestDetectionParameters_Overrides(t *testing.T) {
	cfg := Default()
	cfg.Detection = DetectionConfig{
		Preset:                   hbond.PresetLegacy,
		MinDistance:              2.2,
		MaxDistance:              3.6,
		MaxDistances:             map[string]float64{"base-base": 3.9},
		PromotionDistance:        ptr(3.1),
		MinAngle:                 100,
		AllowedElements:          []string{"n", "o", "s"},
		EnableAngleFilter:        ptr(true),
		IncludeUnlikelyChemistry: ptr(false),
		DetectIntraResidue:       ptr(true),
		BaseAtomsOnly:            ptr(false),
	}
	cfg.Aggregator.PairCutoff = 12

	p, err := cfg.DetectionParameters()
	require.NoError(t, err)
	assert.Equal(t, 2.2, p.MinDistance)
	assert.Equal(t, 3.9, p.MaxDistance(hbond.ContextBaseBase))
	assert.Equal(t, 3.6, p.MaxDistance(hbond.ContextProteinLigand))
	assert.Equal(t, 3.1, p.PromotionDistance)
	assert.Equal(t, 100.0, p.MinAngle)
	assert.Equal(t, []string{"N", "O", "S"}, p.AllowedElements)
	assert.True(t, p.EnableAngleFilter)
	assert.False(t, p.IncludeUnlikelyChemistry)
	assert.True(t, p.DetectIntraResidue)
	assert.False(t, p.BaseAtomsOnly)
	assert.Equal(t, 12.0, p.PairCutoff)

	// Untouched flags keep the preset value.
	assert.False(t, p.EnableQualityScoring)
}

func TestDetectionParameters_ZeroPromotionOverride(t *testing.T) {
	d := DetectionConfig{Preset: hbond.PresetModern, PromotionDistance: ptr(0.0)}
	p, err := d.Resolve(0)
	require.NoError(t, err)
	assert.Zero(t, p.PromotionDistance)
}

func TestDetectionParameters_Rejected(t *testing.T) {
	_, err := DetectionConfig{Preset: hbond.PresetModern, MaxDistances: map[string]float64{"base-moon": 3}}.Resolve(0)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidParameters))

	_, err = DetectionConfig{Preset: hbond.PresetModern, MinDistance: 5}.Resolve(0)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidParameters))
}

func TestDetectionParameters_AllowedContexts(t *testing.T) {
	d := DetectionConfig{Preset: hbond.PresetModern, AllowedContexts: []string{"base-sugar", "base-base"}}
	p, err := d.Resolve(0)
	require.NoError(t, err)
	assert.Equal(t, []hbond.Context{hbond.ContextBaseBase, hbond.ContextBaseSugar}, p.AllowedContexts())
	assert.False(t, p.ContextAllowed(hbond.ContextBaseBackbone))

	p, err = DetectionConfig{Preset: hbond.PresetModern}.Resolve(0)
	require.NoError(t, err)
	assert.Nil(t, p.AllowedContexts())

	_, err = DetectionConfig{Preset: hbond.PresetModern, AllowedContexts: []string{"base-moon"}}.Resolve(0)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidParameters))
	assert.Contains(t, err.Error(), "base-moon")
}

func TestServerConfig_Addr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:9090", ServerConfig{Host: "127.0.0.1", Port: 9090}.Addr())
}

func TestBatchConfig_Validate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate(), "the API server does not need Kafka")

	err := cfg.Batch.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))

	cfg.Batch.Kafka.Brokers = []string{"kafka:9092"}
	require.NoError(t, cfg.Batch.Validate())

	cfg.Batch.StoreResults = true
	err = cfg.Batch.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch.storage.endpoint")

	cfg.Batch.Storage.Endpoint = "minio:9000"
	assert.True(t, cfg.Batch.StorageEnabled())
	assert.NoError(t, cfg.Batch.Validate())
}

func TestValidate_Database(t *testing.T) {
	cfg := Default()
	assert.False(t, cfg.Database.Enabled())

	cfg.Database.Host = "pg"
	cfg.Database.MinConns = 50
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))

	cfg.Database.MinConns = 2
	assert.NoError(t, cfg.Validate())
}
