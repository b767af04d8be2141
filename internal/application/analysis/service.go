// Package analysis provides the application-level service that runs hydrogen
// bond detection on a structure.  It sits between the CLI/HTTP surfaces and
// the detection domain: it resolves parameters, parses input, runs the
// aggregator and the configured global filter, and records metrics.
package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/hbond-engine/internal/config"
	"github.com/turtacn/hbond-engine/internal/domain/hbond"
	"github.com/turtacn/hbond-engine/internal/domain/structure"
	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/hbond-engine/internal/infrastructure/pdb"
	"github.com/turtacn/hbond-engine/pkg/errors"
	types "github.com/turtacn/hbond-engine/pkg/types/hbond"
)

// Service defines the analysis operations.
type Service interface {
	Analyze(ctx context.Context, input *AnalyzeInput) (*Analysis, error)
	AnalyzeFile(ctx context.Context, path string, input *AnalyzeInput) (*Analysis, error)
	Detect(ctx context.Context, input *AnalyzeInput) (*types.DetectResponse, error)
	Presets() []PresetInfo
}

// ResponseKeyPrefix starts every cached response key.
const ResponseKeyPrefix = "detect:"

// ResultCache stores rendered responses.  GetOrSet fills dest from the cache
// or from loader; see redis.Cache.
type ResultCache interface {
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
}

// AnalyzeInput selects the structure and per-request overrides.  Exactly one
// of Structure or PDB is used; Structure wins when both are set.  Empty or
// nil overrides fall back to the service configuration.
type AnalyzeInput struct {
	Structure *structure.Structure
	PDB       string
	Name      string

	Preset             string
	Filter             string
	MaxBondsPerAtom    *int
	DetectIntraResidue *bool
	// Contexts replaces the configured interaction-type filter when set.
	Contexts []string
	Workers  int
}

// Analysis is the outcome of one run.
type Analysis struct {
	RunID         string
	Structure     *structure.Structure
	Parameters    hbond.Parameters
	Filter        string
	FilterRemoved int
	Result        *hbond.StructureHBondResult
	Duration      time.Duration
}

// PresetInfo describes a registered preset.
type PresetInfo struct {
	Name       string
	Default    bool
	Parameters hbond.Parameters
}

// Dependencies are the collaborators of the service.  Only Config is
// required.
type Dependencies struct {
	Config  *config.Config
	Reader  *pdb.Reader
	Metrics *prometheus.DetectionMetrics
	Cache   ResultCache
	Logger  logging.Logger
}

type serviceImpl struct {
	cfg     *config.Config
	reader  *pdb.Reader
	metrics *prometheus.DetectionMetrics
	cache   ResultCache
	logger  logging.Logger
}

// NewService creates the analysis service.
func NewService(deps Dependencies) (Service, error) {
	if deps.Config == nil {
		return nil, errors.InvalidParam("analysis service requires a configuration")
	}
	if _, err := deps.Config.DetectionParameters(); err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	reader := deps.Reader
	if reader == nil {
		reader = pdb.NewReader(pdb.Options{}, logger)
	}
	return &serviceImpl{
		cfg:     deps.Config,
		reader:  reader,
		metrics: deps.Metrics,
		cache:   deps.Cache,
		logger:  logger.Named("analysis"),
	}, nil
}

func (s *serviceImpl) Analyze(ctx context.Context, input *AnalyzeInput) (*Analysis, error) {
	if input == nil {
		return nil, errors.InvalidParam("analysis input is required")
	}
	st := input.Structure
	if st == nil {
		if input.PDB == "" {
			return nil, errors.InvalidParam("either a structure or PDB text is required")
		}
		name := input.Name
		if name == "" {
			name = "input"
		}
		parsed, err := s.reader.ReadString(input.PDB, name)
		if err != nil {
			return nil, err
		}
		st = parsed
	}
	return s.run(ctx, st, input)
}

func (s *serviceImpl) AnalyzeFile(ctx context.Context, path string, input *AnalyzeInput) (*Analysis, error) {
	st, err := s.reader.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if input == nil {
		input = &AnalyzeInput{}
	}
	return s.run(ctx, st, input)
}

// Detect analyzes input and renders the response.  With a cache configured,
// PDB text is served from it when the same text, name and resolved settings
// were seen before; such responses carry Cached and the original run ID.
func (s *serviceImpl) Detect(ctx context.Context, input *AnalyzeInput) (*types.DetectResponse, error) {
	load := func(ctx context.Context) (interface{}, error) {
		a, err := s.Analyze(ctx, input)
		if err != nil {
			return nil, err
		}
		return ToResponse(a), nil
	}
	if s.cache == nil || input == nil || input.Structure != nil || input.PDB == "" {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return v.(*types.DetectResponse), nil
	}

	key, err := s.cacheKey(input)
	if err != nil {
		return nil, err
	}
	var resp types.DetectResponse
	loaded := false
	err = s.cache.GetOrSet(ctx, key, &resp, s.cfg.Cache.TTL, func(ctx context.Context) (interface{}, error) {
		loaded = true
		return load(ctx)
	})
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(!loaded)
	}
	if err != nil {
		return nil, err
	}
	resp.Cached = !loaded
	return &resp, nil
}

// cacheKey digests everything that determines a response.
func (s *serviceImpl) cacheKey(input *AnalyzeInput) (string, error) {
	params, err := s.parameters(input)
	if err != nil {
		return "", err
	}
	fc := s.filterConfig(input)
	if _, err := NewFilter(fc, params.QualityThresholds); err != nil {
		return "", err
	}
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%+v\x00%+v\x00", input.Name, params, fc)
	io.WriteString(h, input.PDB)
	return ResponseKeyPrefix + hex.EncodeToString(h.Sum(nil)), nil
}

func (s *serviceImpl) Presets() []PresetInfo {
	names := hbond.PresetNames()
	out := make([]PresetInfo, 0, len(names))
	for _, n := range names {
		out = append(out, PresetInfo{
			Name:       n,
			Default:    n == s.cfg.Detection.Preset,
			Parameters: hbond.MustPreset(n),
		})
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Run
// ─────────────────────────────────────────────────────────────────────────────

func (s *serviceImpl) run(ctx context.Context, st *structure.Structure, input *AnalyzeInput) (*Analysis, error) {
	runID := uuid.NewString()
	start := time.Now()
	log := s.logger.With(logging.String("run_id", runID), logging.String("structure", st.Name))

	params, err := s.parameters(input)
	if err != nil {
		return nil, err
	}
	mode, filter, err := s.filter(input, params)
	if err != nil {
		return nil, err
	}

	workers := input.Workers
	if workers <= 0 {
		workers = s.cfg.Aggregator.Workers
	}
	opts := []hbond.AggregatorOption{
		hbond.WithWorkers(workers),
		hbond.WithTrace(hbond.LoggingTrace(log)),
	}
	if s.metrics != nil {
		opts = append(opts, hbond.WithRecorder(s.metrics))
	}

	res, err := hbond.NewAggregator(params, opts...).Run(ctx, st)
	if err != nil {
		s.observe(params.Name, start, err)
		log.Warn("analysis aborted", logging.Err(err))
		code := errors.ErrCodeRequestCanceled
		if stderrors.Is(err, context.DeadlineExceeded) {
			code = errors.ErrCodeTimeout
		}
		return nil, errors.Wrap(err, code, "analysis aborted")
	}

	removed := 0
	if filter != nil {
		removed = filter.Apply(res)
		if s.metrics != nil {
			s.metrics.RecordFilterRemoved(filter.Name(), removed)
		}
	}
	s.observe(params.Name, start, nil)

	out := &Analysis{
		RunID:         runID,
		Structure:     st,
		Parameters:    params,
		Filter:        mode,
		FilterRemoved: removed,
		Result:        res,
		Duration:      time.Since(start),
	}
	log.Info("analysis complete",
		logging.String("preset", params.Name),
		logging.String("filter", mode),
		logging.Int("residues", st.Len()),
		logging.Int("pairs_checked", res.PairsChecked),
		logging.Int("bonds", res.Len()),
		logging.Int("filter_removed", removed),
		logging.Duration("duration", out.Duration),
	)
	return out, nil
}

func (s *serviceImpl) observe(preset string, start time.Time, err error) {
	if s.metrics != nil {
		s.metrics.ObserveDetection(preset, time.Since(start), err)
	}
}

// parameters resolves the configured detection section with the request's
// preset, intra-residue and context overrides applied.
func (s *serviceImpl) parameters(input *AnalyzeInput) (hbond.Parameters, error) {
	det := s.cfg.Detection
	if input.Preset != "" && input.Preset != det.Preset {
		// A different preset discards the configured overrides.
		det = config.DetectionConfig{Preset: input.Preset}
	}
	if input.DetectIntraResidue != nil {
		det.DetectIntraResidue = input.DetectIntraResidue
	}
	if len(input.Contexts) > 0 {
		det.AllowedContexts = input.Contexts
	}
	return det.Resolve(s.cfg.Aggregator.PairCutoff)
}

func (s *serviceImpl) filter(input *AnalyzeInput, p hbond.Parameters) (string, hbond.GlobalFilter, error) {
	fc := s.filterConfig(input)
	f, err := NewFilter(fc, p.QualityThresholds)
	return fc.Mode, f, err
}

func (s *serviceImpl) filterConfig(input *AnalyzeInput) config.FilterConfig {
	fc := s.cfg.Filter
	if input.Filter != "" {
		fc.Mode = input.Filter
	}
	if input.MaxBondsPerAtom != nil {
		fc.MaxBondsPerAtom = *input.MaxBondsPerAtom
	}
	return fc
}

// NewFilter builds the global filter for a filter section.  Mode "none"
// yields a nil filter.
func NewFilter(fc config.FilterConfig, thresholds hbond.QualityThresholds) (hbond.GlobalFilter, error) {
	switch fc.Mode {
	case config.FilterNone, "":
		return nil, nil
	case config.FilterGeneric:
		if fc.MaxBondsPerAtom < 0 {
			return nil, errors.InvalidParam("max bonds per atom must not be negative")
		}
		return hbond.GenericOccupancyFilter{MaxBondsPerAtom: fc.MaxBondsPerAtom}, nil
	case config.FilterScored:
		return hbond.ScoredOccupancyFilter{Thresholds: thresholds, Cap: fc.CapacityCap}, nil
	}
	return nil, errors.New(errors.ErrCodeUnknownFilter, "unknown occupancy filter").WithDetail(fc.Mode)
}

//Personal.AI order the ending
