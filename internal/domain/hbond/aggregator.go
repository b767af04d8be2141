package hbond

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/turtacn/hbond-engine/internal/domain/structure"
)

// Recorder receives the aggregated result of each run.
type Recorder interface {
	RecordHBonds(s *structure.Structure, result *StructureHBondResult)
}

// Aggregator runs the Detector over every residue pair of a structure whose
// heavy-atom centroids lie within the pair cutoff.
type Aggregator struct {
	params   Parameters
	detector *Detector
	workers  int
	recorder Recorder
	trace    TraceFunc
}

// AggregatorOption customises an Aggregator.
type AggregatorOption func(*Aggregator)

// WithWorkers sets the number of goroutines evaluating residue pairs.  Values
// below 2 keep the run sequential.  Output order does not depend on it.
func WithWorkers(n int) AggregatorOption {
	return func(a *Aggregator) { a.workers = n }
}

// WithRecorder installs a Recorder notified after every run.
func WithRecorder(r Recorder) AggregatorOption {
	return func(a *Aggregator) { a.recorder = r }
}

// WithTrace installs a diagnostic callback shared with the Detector.  Events
// are delivered on the goroutine calling Run, in pair order, whatever the
// worker count, so fn needs no locking.
func WithTrace(fn TraceFunc) AggregatorOption {
	return func(a *Aggregator) { a.trace = fn }
}

// NewAggregator returns an Aggregator bound to p.
func NewAggregator(p Parameters, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{params: p}
	for _, o := range opts {
		o(a)
	}
	a.detector = NewDetector(p, WithDetectorTrace(a.trace))
	return a
}

// Parameters returns the aggregator's configuration.
func (a *Aggregator) Parameters() Parameters { return a.params }

// residuePair is one unit of work.
type residuePair struct {
	i, j int
}

// Pairs lists the residue pairs the aggregator examines, in output order:
// for each residue i, the self pair (when intra-residue detection is on)
// followed by every later residue j within the centroid cutoff.  Residues
// without heavy atoms take part in no pair.
func (a *Aggregator) Pairs(s *structure.Structure) [][2]int {
	raw := a.pairs(s)
	out := make([][2]int, len(raw))
	for k, p := range raw {
		out[k] = [2]int{p.i, p.j}
	}
	return out
}

func (a *Aggregator) pairs(s *structure.Structure) []residuePair {
	n := s.Len()
	if n < 2 {
		return nil
	}
	type centroid struct {
		pos r3.Vec
		ok  bool
	}
	cs := make([]centroid, n)
	for i, r := range s.Residues {
		c, ok := HeavyAtomCentroid(r)
		cs[i] = centroid{pos: c, ok: ok}
	}

	var out []residuePair
	for i := 0; i < n; i++ {
		if !cs[i].ok {
			continue
		}
		if a.params.DetectIntraResidue {
			out = append(out, residuePair{i, i})
		}
		for j := i + 1; j < n; j++ {
			if cs[j].ok && Distance(cs[i].pos, cs[j].pos) <= a.params.PairCutoff {
				out = append(out, residuePair{i, j})
			}
		}
	}
	return out
}

// Run detects hydrogen bonds over the whole structure.  A structure with
// fewer than two residues yields an empty result.  The only error is ctx
// cancellation.
func (a *Aggregator) Run(ctx context.Context, s *structure.Structure) (*StructureHBondResult, error) {
	res := newResult(a.params)
	pairs := a.pairs(s)
	res.PairsChecked = len(pairs)

	slots := make([][]HBond, len(pairs))
	eval := func(k int, det *Detector, trace TraceFunc) {
		p := pairs[k]
		ri, rj := s.Residues[p.i], s.Residues[p.j]
		bonds := det.DetectPair(ri, rj)
		if p.i != p.j && ri.IsNucleotide() && rj.IsNucleotide() && structure.IsSequenceAdjacent(ri, rj) {
			before := len(bonds)
			bonds = RemovePhosphodiester(bonds)
			trace.emit(StagePhosphodiester, ri.ID(), rj.ID(), before-len(bonds))
		}
		slots[k] = bonds
	}

	if a.workers > 1 && len(pairs) > 1 {
		// Each pair buffers its own events; they are replayed in pair order.
		var events [][]TraceEvent
		if a.trace != nil {
			events = make([][]TraceEvent, len(pairs))
		}
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(a.workers)
		for k := range pairs {
			k := k
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				if events == nil {
					eval(k, a.detector, nil)
					return nil
				}
				buf := TraceFunc(func(ev TraceEvent) { events[k] = append(events[k], ev) })
				eval(k, a.detector.withTrace(buf), buf)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		for _, evs := range events {
			for _, ev := range evs {
				a.trace(ev)
			}
		}
	} else {
		for k := range pairs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			eval(k, a.detector, a.trace)
		}
	}

	for _, bonds := range slots {
		res.Bonds = append(res.Bonds, bonds...)
	}
	res.rebuild()
	a.trace.emit(StageAggregate, s.Name, "", len(res.Bonds))

	if a.recorder != nil {
		a.recorder.RecordHBonds(s, res)
	}
	return res, nil
}

// phosphateAtoms are the phosphorus and its oxygens.
var phosphateAtoms = nameSet("P", "OP1", "OP2", "OP3", "O1P", "O2P", "O3P")

// phosphateOxygens are the non-bridging phosphate oxygens.
var phosphateOxygens = nameSet("OP1", "OP2", "OP3", "O1P", "O2P", "O3P")

// IsPhosphodiesterLink reports whether a backbone-backbone bond joins atoms of
// the covalent O3'–P–O5' linkage between sequence-adjacent nucleotides.
func IsPhosphodiesterLink(hb *HBond) bool {
	if hb.Context != ContextBackboneBackbone {
		return false
	}
	return linkPair(hb.DonorAtom, hb.AcceptorAtom) || linkPair(hb.AcceptorAtom, hb.DonorAtom)
}

func linkPair(x, y string) bool {
	return (x == "O3'" && inSet(phosphateAtoms, y)) || (inSet(phosphateOxygens, x) && y == "O5'")
}

// RemovePhosphodiester drops phosphodiester-link bonds, preserving order.
func RemovePhosphodiester(bonds []HBond) []HBond {
	out := bonds[:0]
	for k := range bonds {
		if !IsPhosphodiesterLink(&bonds[k]) {
			out = append(out, bonds[k])
		}
	}
	return out
}

//Personal.AI order the ending
