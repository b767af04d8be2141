package hbond

import (
	"github.com/turtacn/hbond-engine/internal/domain/structure"
)

// Detector runs the per-pair pipeline: candidate search, conflict
// resolution, classification, geometry, post-validation and the optional
// angle, quality and chemistry filters.  A Detector holds no mutable state and
// is safe for concurrent use.
type Detector struct {
	params     Parameters
	classifier *Classifier
	resolver   ConflictResolver
	trace      TraceFunc
}

// DetectorOption customises a Detector.
type DetectorOption func(*Detector)

// WithDetectorTrace installs a diagnostic callback.
func WithDetectorTrace(fn TraceFunc) DetectorOption {
	return func(d *Detector) { d.trace = fn }
}

// NewDetector returns a Detector bound to p.
func NewDetector(p Parameters, opts ...DetectorOption) *Detector {
	d := &Detector{params: p, classifier: NewClassifier(p)}
	for _, o := range opts {
		o(d)
	}
	return d
}

// withTrace returns a copy of d reporting to fn.
func (d *Detector) withTrace(fn TraceFunc) *Detector {
	c := *d
	c.trace = fn
	return &c
}

// Parameters returns the detector's configuration.
func (d *Detector) Parameters() Parameters { return d.params }

// Analyze runs the pipeline on residues a and b and returns the whole working
// list, invalidated candidates included.  Pass the same residue twice for
// intra-residue detection.
func (d *Detector) Analyze(a, b *structure.Residue) []HBond {
	if a == nil || b == nil {
		return nil
	}
	idA, idB := a.ID(), b.ID()

	bonds := FindCandidates(a, b, d.params)
	d.trace.emit(StageCandidates, idA, idB, len(bonds))
	if len(bonds) == 0 {
		return nil
	}

	d.trace.emit(StageConflicts, idA, idB, d.resolver.Resolve(bonds))
	d.trace.emit(StagePromotion, idA, idB, d.resolver.PromotionBoundary(bonds, d.params))

	d.classifier.Classify(bonds, a, b)
	d.trace.emit(StageClassify, idA, idB, countValid(bonds))

	ComputeAngles(bonds, a, b)
	d.trace.emit(StagePostValidate, idA, idB, PostValidate(bonds, d.params))
	d.trace.emit(StageAngleFilter, idA, idB, FilterAngles(bonds, d.params))
	d.trace.emit(StageQuality, idA, idB, ScoreBonds(bonds, d.params))
	d.trace.emit(StageUnlikely, idA, idB, ExcludeUnlikely(bonds, d.params))
	return bonds
}

// DetectPair returns the valid bonds between a and b in candidate order.
func (d *Detector) DetectPair(a, b *structure.Residue) []HBond {
	bonds := d.Analyze(a, b)
	out := make([]HBond, 0, len(bonds))
	for _, hb := range bonds {
		if hb.IsValid() {
			out = append(out, hb)
		}
	}
	if a != nil && b != nil {
		d.trace.emit(StageEmit, a.ID(), b.ID(), len(out))
	}
	return out
}

func countValid(bonds []HBond) int {
	n := 0
	for k := range bonds {
		if bonds[k].IsValid() {
			n++
		}
	}
	return n
}

//Personal.AI order the ending
