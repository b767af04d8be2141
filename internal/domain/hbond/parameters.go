package hbond

import (
	"fmt"
	"sort"
	"strings"

	"github.com/turtacn/hbond-engine/pkg/errors"
)

// Preset names.
const (
	PresetLegacy  = "legacy-compatible"
	PresetModern  = "modern"
	PresetGeneral = "general"
	PresetDSSR    = "dssr-like"

	DefaultPreset = PresetModern
)

// QualityThresholds are the lower score bounds (0–100) of each quality tier.
// A score below Poor falls in the Unlikely tier.
type QualityThresholds struct {
	Excellent float64 `json:"excellent"`
	Good      float64 `json:"good"`
	Fair      float64 `json:"fair"`
	Poor      float64 `json:"poor"`
}

// Parameters is the immutable configuration of one detection run.  It is a
// plain value: copying it (including the per-context threshold array) yields
// an independent configuration, so the With* helpers never alias the caller.
type Parameters struct {
	Name string

	// MinDistance is the lower bound for every candidate, in Å.
	MinDistance float64
	// maxDistance holds the upper bound per context.
	maxDistance [numContexts]float64
	// PromotionDistance is the upper edge of the window in which a
	// non-winner linked to a winner is still classified.  Zero disables it.
	PromotionDistance float64

	// AllowedElements lists the upper-case element symbols eligible as
	// donor or acceptor.
	AllowedElements []string

	// allowedContexts is the interaction-type filter.  It applies only when
	// restrictContexts is set; otherwise every context passes.
	allowedContexts  [numContexts]bool
	restrictContexts bool

	// Post-validation bands.
	GoodBandMin       float64
	GoodBandMax       float64
	PostValidationMax float64
	NonStandardMin    float64
	NonStandardMax    float64

	MinAngle          float64
	QualityThresholds QualityThresholds

	// PairCutoff bounds the heavy-atom centroid distance of residue pairs
	// the aggregator examines.
	PairCutoff float64

	EnableAngleFilter        bool
	EnableQualityScoring     bool
	RejectLowestQualityTier  bool
	IncludeBackboneBackbone  bool
	IncludeUnlikelyChemistry bool
	DetectIntraResidue       bool
	BaseAtomsOnly            bool
}

// Shared defaults.
const (
	defaultGoodBandMin       = 2.5
	defaultGoodBandMax       = 3.5
	defaultPostValidationMax = 3.6
	defaultNonStandardMin    = 2.6
	defaultNonStandardMax    = 3.2
	defaultMinAngle          = 90.0
	defaultPairCutoff        = 15.0
)

var defaultQualityThresholds = QualityThresholds{Excellent: 80, Good: 60, Fair: 40, Poor: 20}

func baseParameters(name string) Parameters {
	return Parameters{
		Name:              name,
		AllowedElements:   []string{"N", "O"},
		GoodBandMin:       defaultGoodBandMin,
		GoodBandMax:       defaultGoodBandMax,
		PostValidationMax: defaultPostValidationMax,
		NonStandardMin:    defaultNonStandardMin,
		NonStandardMax:    defaultNonStandardMax,
		MinAngle:          defaultMinAngle,
		QualityThresholds: defaultQualityThresholds,
		PairCutoff:        defaultPairCutoff,
	}
}

func (p *Parameters) setAllMax(d float64) {
	for i := range p.maxDistance {
		p.maxDistance[i] = d
	}
}

// presets holds one constructor per named preset.
var presets = map[string]func() Parameters{
	PresetLegacy: func() Parameters {
		p := baseParameters(PresetLegacy)
		p.MinDistance = 1.8
		p.setAllMax(4.0)
		p.BaseAtomsOnly = true
		p.IncludeUnlikelyChemistry = true
		return p
	},
	PresetModern: func() Parameters {
		p := baseParameters(PresetModern)
		p.MinDistance = 2.0
		p.setAllMax(3.5)
		p.maxDistance[ContextBaseBackbone] = 3.3
		p.maxDistance[ContextBackboneBackbone] = 3.3
		p.maxDistance[ContextBaseSugar] = 3.3
		p.maxDistance[ContextSugarSugar] = 3.3
		p.PromotionDistance = 3.2
		p.EnableAngleFilter = true
		p.EnableQualityScoring = true
		p.IncludeBackboneBackbone = true
		return p
	},
	PresetGeneral: func() Parameters {
		p := baseParameters(PresetGeneral)
		p.MinDistance = 2.0
		p.setAllMax(3.5)
		p.PromotionDistance = 3.2
		p.AllowedElements = []string{"N", "O", "S", "F"}
		p.EnableQualityScoring = true
		p.IncludeBackboneBackbone = true
		p.IncludeUnlikelyChemistry = true
		return p
	},
	PresetDSSR: func() Parameters {
		p := baseParameters(PresetDSSR)
		p.MinDistance = 2.0
		p.setAllMax(3.5)
		p.maxDistance[ContextBaseBase] = 4.0
		p.IncludeBackboneBackbone = true
		p.IncludeUnlikelyChemistry = true
		return p
	},
}

// Preset returns the named preset.
func Preset(name string) (Parameters, bool) {
	ctor, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Parameters{}, false
	}
	return ctor(), true
}

// MustPreset is Preset for names known at compile time.
func MustPreset(name string) Parameters {
	p, ok := Preset(name)
	if !ok {
		panic(fmt.Sprintf("hbond: unknown preset %q", name))
	}
	return p
}

// LookupPreset is Preset returning an AppError for unknown names.
func LookupPreset(name string) (Parameters, error) {
	p, ok := Preset(name)
	if !ok {
		return Parameters{}, errors.UnknownPreset(name)
	}
	return p, nil
}

// DefaultParameters returns the default preset.
func DefaultParameters() Parameters { return MustPreset(DefaultPreset) }

// PresetNames lists the registered preset names in lexical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// MaxDistance returns the upper distance bound for the context.
func (p Parameters) MaxDistance(ctx Context) float64 {
	if ctx < 0 || ctx >= numContexts {
		return p.maxDistance[ContextUnknown]
	}
	return p.maxDistance[ctx]
}

// MaxDistances returns the per-context thresholds keyed by context name.
func (p Parameters) MaxDistances() map[string]float64 {
	out := make(map[string]float64, numContexts)
	for i, d := range p.maxDistance {
		out[Context(i).String()] = d
	}
	return out
}

// LargestMaxDistance returns the widest per-context threshold.
func (p Parameters) LargestMaxDistance() float64 {
	var m float64
	for _, d := range p.maxDistance {
		if d > m {
			m = d
		}
	}
	return m
}

// WithMaxDistance returns a copy with the threshold for ctx replaced.
func (p Parameters) WithMaxDistance(ctx Context, d float64) Parameters {
	if ctx >= 0 && ctx < numContexts {
		p.maxDistance[ctx] = d
	}
	return p
}

// WithAllMaxDistances returns a copy with every context threshold set to d.
func (p Parameters) WithAllMaxDistances(d float64) Parameters {
	p.setAllMax(d)
	return p
}

// WithAllowedElements returns a copy with a fresh element list.
func (p Parameters) WithAllowedElements(elems ...string) Parameters {
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		if e = strings.ToUpper(strings.TrimSpace(e)); e != "" {
			out = append(out, e)
		}
	}
	p.AllowedElements = out
	return p
}

// WithAllowedContexts returns a copy whose candidates are limited to the
// given contexts.  No arguments lifts the restriction.
func (p Parameters) WithAllowedContexts(ctxs ...Context) Parameters {
	p.allowedContexts = [numContexts]bool{}
	p.restrictContexts = false
	for _, c := range ctxs {
		if c >= 0 && c < numContexts {
			p.allowedContexts[c] = true
			p.restrictContexts = true
		}
	}
	return p
}

// AllowedContexts returns the interaction-type filter in declaration order,
// or nil when every context is allowed.
func (p Parameters) AllowedContexts() []Context {
	if !p.restrictContexts {
		return nil
	}
	var out []Context
	for i, ok := range p.allowedContexts {
		if ok {
			out = append(out, Context(i))
		}
	}
	return out
}

// ContextAllowed reports whether candidates in ctx pass the interaction-type
// filter.
func (p Parameters) ContextAllowed(ctx Context) bool {
	if !p.restrictContexts {
		return true
	}
	return ctx >= 0 && ctx < numContexts && p.allowedContexts[ctx]
}

// ElementAllowed reports whether element may act as donor or acceptor.
func (p Parameters) ElementAllowed(element string) bool {
	for _, e := range p.AllowedElements {
		if e == element {
			return true
		}
	}
	return false
}

// InGoodBand reports whether d falls in the good-bond band.
func (p Parameters) InGoodBand(d float64) bool {
	return d >= p.GoodBandMin && d <= p.GoodBandMax
}

// Validate checks internal consistency.
func (p Parameters) Validate() error {
	var problems []string
	if p.MinDistance <= 0 {
		problems = append(problems, "min distance must be positive")
	}
	for i, d := range p.maxDistance {
		if d < p.MinDistance {
			problems = append(problems, fmt.Sprintf("max distance for %s (%.2f) below min distance (%.2f)", Context(i), d, p.MinDistance))
		}
	}
	if p.PromotionDistance < 0 {
		problems = append(problems, "promotion distance must not be negative")
	}
	if len(p.AllowedElements) == 0 {
		problems = append(problems, "at least one element must be allowed")
	}
	if p.GoodBandMin > p.GoodBandMax {
		problems = append(problems, "good band is inverted")
	}
	if p.NonStandardMin > p.NonStandardMax {
		problems = append(problems, "non-standard band is inverted")
	}
	if p.MinAngle < 0 || p.MinAngle > 180 {
		problems = append(problems, "min angle must lie in [0, 180]")
	}
	q := p.QualityThresholds
	if !(q.Excellent >= q.Good && q.Good >= q.Fair && q.Fair >= q.Poor && q.Poor >= 0) {
		problems = append(problems, "quality thresholds must be non-increasing and non-negative")
	}
	if p.PairCutoff <= 0 {
		problems = append(problems, "pair cutoff must be positive")
	}
	if len(problems) > 0 {
		return errors.InvalidParameters(strings.Join(problems, "; "))
	}
	return nil
}

//Personal.AI order the ending
