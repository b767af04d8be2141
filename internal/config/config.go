// Package config holds the engine's configuration structures and their
// validation.  Loading lives in loader.go, defaults in defaults.go.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/turtacn/hbond-engine/internal/domain/hbond"
	"github.com/turtacn/hbond-engine/internal/infrastructure/database/postgres"
	"github.com/turtacn/hbond-engine/internal/infrastructure/database/redis"
	"github.com/turtacn/hbond-engine/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-engine/internal/infrastructure/storage/minio"
	"github.com/turtacn/hbond-engine/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sections
// ─────────────────────────────────────────────────────────────────────────────

// DetectionConfig names a preset and optionally overrides parts of it.  Zero
// numeric overrides and nil flags leave the preset value in place.
type DetectionConfig struct {
	Preset string `mapstructure:"preset" validate:"required"`

	MinDistance       float64            `mapstructure:"min_distance" validate:"gte=0"`
	MaxDistance       float64            `mapstructure:"max_distance" validate:"gte=0"`
	MaxDistances      map[string]float64 `mapstructure:"max_distances"`
	PromotionDistance *float64           `mapstructure:"promotion_distance" validate:"omitempty,gte=0"`
	MinAngle          float64            `mapstructure:"min_angle" validate:"gte=0,lte=180"`
	AllowedElements   []string           `mapstructure:"allowed_elements"`

	// AllowedContexts limits candidates to these interaction types, by name
	// (e.g. "base-base").  Empty allows every context.
	AllowedContexts []string `mapstructure:"allowed_contexts"`

	EnableAngleFilter        *bool `mapstructure:"enable_angle_filter"`
	EnableQualityScoring     *bool `mapstructure:"enable_quality_scoring"`
	RejectLowestQualityTier  *bool `mapstructure:"reject_lowest_quality_tier"`
	IncludeBackboneBackbone  *bool `mapstructure:"include_backbone_backbone"`
	IncludeUnlikelyChemistry *bool `mapstructure:"include_unlikely_chemistry"`
	DetectIntraResidue       *bool `mapstructure:"detect_intra_residue"`
	BaseAtomsOnly            *bool `mapstructure:"base_atoms_only"`
}

// Filter modes.
const (
	FilterNone    = "none"
	FilterGeneric = "generic"
	FilterScored  = "scored"
)

// FilterModes lists the accepted filter modes.
var FilterModes = []string{FilterNone, FilterGeneric, FilterScored}

// FilterConfig selects the global occupancy filter.
type FilterConfig struct {
	Mode            string `mapstructure:"mode" validate:"required,oneof=none generic scored"`
	MaxBondsPerAtom int    `mapstructure:"max_bonds_per_atom" validate:"gte=0"`
	CapacityCap     int    `mapstructure:"capacity_cap" validate:"gte=0"`
}

// AggregatorConfig tunes the structure-level run.
type AggregatorConfig struct {
	Workers    int     `mapstructure:"workers" validate:"gte=0,lte=256"`
	PairCutoff float64 `mapstructure:"pair_cutoff" validate:"gte=0"`
}

// MetricsConfig configures the Prometheus registry.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace" validate:"required_if=Enabled true"`
	Path      string `mapstructure:"path" validate:"omitempty,startswith=/"`
}

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"gte=1,lte=65535"`
	Mode            string        `mapstructure:"mode" validate:"oneof=debug release test"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" validate:"gte=0"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	// RateLimit is the per-client request rate in requests per second.
	// Zero disables limiting.
	RateLimit float64 `mapstructure:"rate_limit" validate:"gte=0"`
}

// CacheConfig enables the Redis-backed result cache.  Entries are keyed by a
// digest of the input text and the resolved parameters.
type CacheConfig struct {
	Enabled bool              `mapstructure:"enabled"`
	Prefix  string            `mapstructure:"prefix"`
	TTL     time.Duration     `mapstructure:"ttl" validate:"gte=0"`
	Redis   redis.RedisConfig `mapstructure:"redis"`
}

// BatchConfig configures the Kafka batch worker.  Object storage is used
// only when Storage.Endpoint is set.
type BatchConfig struct {
	JobTimeout   time.Duration `mapstructure:"job_timeout" validate:"gte=0"`
	StoreResults bool          `mapstructure:"store_results"`
	HealthPort   int           `mapstructure:"health_port" validate:"gte=0,lte=65535"`
	Kafka        kafka.Config  `mapstructure:"kafka"`
	Storage      minio.Config  `mapstructure:"storage"`
}

// StorageEnabled reports whether an object storage endpoint is configured.
func (b BatchConfig) StorageEnabled() bool { return b.Storage.Endpoint != "" }

// Validate checks the settings the worker cannot start without.  It is not
// part of Config.Validate so the API server runs without Kafka.
func (b BatchConfig) Validate() error {
	if err := b.Kafka.Validate(); err != nil {
		return err
	}
	if b.StoreResults && !b.StorageEnabled() {
		return errors.New(errors.ErrCodeValidation, "invalid configuration").
			WithDetail("batch.storage.endpoint required when batch.store_results is set")
	}
	return nil
}

// Addr returns host:port.
func (s ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

// Config is the root configuration.
type Config struct {
	Log        logging.LogConfig `mapstructure:"log"`
	Detection  DetectionConfig   `mapstructure:"detection"`
	Filter     FilterConfig      `mapstructure:"filter"`
	Aggregator AggregatorConfig  `mapstructure:"aggregator"`
	Metrics    MetricsConfig     `mapstructure:"metrics"`
	Server     ServerConfig      `mapstructure:"server"`
	Cache      CacheConfig       `mapstructure:"cache"`
	Batch      BatchConfig       `mapstructure:"batch"`
	Database   postgres.Config   `mapstructure:"database"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

var validate = validator.New()

// Validate checks struct constraints and that the detection section resolves
// to a consistent parameter table.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return errors.New(errors.ErrCodeValidation, "invalid configuration").
				WithDetail(strings.Join(msgs, "; "))
		}
		return errors.Wrap(err, errors.ErrCodeValidation, "invalid configuration")
	}
	if c.Cache.Enabled {
		if err := validateRedis(c.Cache.Redis); err != nil {
			return err
		}
	}
	if c.Database.Enabled() {
		if err := c.Database.Validate(); err != nil {
			return err
		}
	}
	if _, err := c.DetectionParameters(); err != nil {
		return err
	}
	return nil
}

func validateRedis(r redis.RedisConfig) error {
	var missing string
	switch r.Mode {
	case redis.ModeCluster:
		if len(r.ClusterAddrs) == 0 {
			missing = "cache.redis.cluster_addrs"
		}
	case redis.ModeSentinel:
		if r.MasterName == "" || len(r.SentinelAddrs) == 0 {
			missing = "cache.redis.master_name and cache.redis.sentinel_addrs"
		}
	default:
		if r.Addr == "" {
			missing = "cache.redis.addr"
		}
	}
	if missing != "" {
		return errors.New(errors.ErrCodeValidation, "invalid configuration").
			WithDetail(missing + " required when the cache is enabled")
	}
	return nil
}

// DetectionParameters resolves the detection section: the named preset with
// every configured override applied, then validated.
func (c *Config) DetectionParameters() (hbond.Parameters, error) {
	return c.Detection.Resolve(c.Aggregator.PairCutoff)
}

// Resolve builds parameters from the preset and overrides.  A positive
// pairCutoff replaces the preset's residue-pair cutoff.
func (d DetectionConfig) Resolve(pairCutoff float64) (hbond.Parameters, error) {
	p, err := hbond.LookupPreset(d.Preset)
	if err != nil {
		return hbond.Parameters{}, err
	}
	if d.MinDistance > 0 {
		p.MinDistance = d.MinDistance
	}
	if d.MaxDistance > 0 {
		p = p.WithAllMaxDistances(d.MaxDistance)
	}
	for name, v := range d.MaxDistances {
		ctx, ok := hbond.ParseContext(name)
		if !ok {
			return hbond.Parameters{}, errors.InvalidParameters(fmt.Sprintf("unknown context %q in max_distances", name))
		}
		p = p.WithMaxDistance(ctx, v)
	}
	if d.PromotionDistance != nil {
		p.PromotionDistance = *d.PromotionDistance
	}
	if d.MinAngle > 0 {
		p.MinAngle = d.MinAngle
	}
	if len(d.AllowedElements) > 0 {
		p = p.WithAllowedElements(d.AllowedElements...)
	}
	if len(d.AllowedContexts) > 0 {
		ctxs, err := ParseContexts(d.AllowedContexts)
		if err != nil {
			return hbond.Parameters{}, err
		}
		p = p.WithAllowedContexts(ctxs...)
	}
	setFlag(&p.EnableAngleFilter, d.EnableAngleFilter)
	setFlag(&p.EnableQualityScoring, d.EnableQualityScoring)
	setFlag(&p.RejectLowestQualityTier, d.RejectLowestQualityTier)
	setFlag(&p.IncludeBackboneBackbone, d.IncludeBackboneBackbone)
	setFlag(&p.IncludeUnlikelyChemistry, d.IncludeUnlikelyChemistry)
	setFlag(&p.DetectIntraResidue, d.DetectIntraResidue)
	setFlag(&p.BaseAtomsOnly, d.BaseAtomsOnly)
	if pairCutoff > 0 {
		p.PairCutoff = pairCutoff
	}

	if err := p.Validate(); err != nil {
		return hbond.Parameters{}, err
	}
	return p, nil
}

// ParseContexts converts context names to contexts.  Unknown names are
// HBD_001.
func ParseContexts(names []string) ([]hbond.Context, error) {
	out := make([]hbond.Context, 0, len(names))
	for _, name := range names {
		ctx, ok := hbond.ParseContext(name)
		if !ok {
			return nil, errors.InvalidParameters(fmt.Sprintf("unknown context %q in allowed_contexts", name))
		}
		out = append(out, ctx)
	}
	return out, nil
}

func setFlag(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

//Personal.AI order the ending
