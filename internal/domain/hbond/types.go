// Package hbond is the hydrogen-bond detection core.  It enumerates candidate
// donor/acceptor pairs between two residues, resolves competing candidates
// with the legacy three-phase greedy algorithm, classifies the survivors from
// static role and edge tables, derives angular geometry, post-validates the
// set and aggregates the per-pair results over a whole structure.  Two global
// occupancy filters post-process the aggregated set.
//
// The package performs no I/O.  Every operation is deterministic: identical
// coordinates and parameters produce identical classifications and ordering,
// with every tie broken by candidate index.
package hbond

import (
	"fmt"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Context
// ─────────────────────────────────────────────────────────────────────────────

// Context tags which structural regions the two bonded atoms belong to.  It
// selects the distance threshold that applies to a candidate.
type Context int

const (
	ContextUnknown Context = iota
	ContextBaseBase
	ContextBaseBackbone
	ContextBackboneBackbone
	ContextBaseSugar
	ContextSugarSugar
	ContextProteinMainchain
	ContextProteinSidechain
	ContextBaseProtein
	ContextSugarProtein
	ContextBackboneProtein
	ContextBaseLigand
	ContextProteinLigand
	ContextLigandLigand

	numContexts
)

var contextNames = [numContexts]string{
	ContextUnknown:          "unknown",
	ContextBaseBase:         "base-base",
	ContextBaseBackbone:     "base-backbone",
	ContextBackboneBackbone: "backbone-backbone",
	ContextBaseSugar:        "base-sugar",
	ContextSugarSugar:       "sugar-sugar",
	ContextProteinMainchain: "protein-mainchain",
	ContextProteinSidechain: "protein-sidechain",
	ContextBaseProtein:      "base-protein",
	ContextSugarProtein:     "sugar-protein",
	ContextBackboneProtein:  "backbone-protein",
	ContextBaseLigand:       "base-ligand",
	ContextProteinLigand:    "protein-ligand",
	ContextLigandLigand:     "ligand-ligand",
}

// String returns the hyphenated context name, e.g. "base-base".
func (c Context) String() string {
	if c < 0 || c >= numContexts {
		return fmt.Sprintf("context(%d)", int(c))
	}
	return contextNames[c]
}

// MarshalText encodes the context by name.
func (c Context) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// ParseContext parses a context name as produced by String.
func ParseContext(s string) (Context, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range contextNames {
		if name == s {
			return Context(i), true
		}
	}
	return ContextUnknown, false
}

// AllContexts returns every context in declaration order.
func AllContexts() []Context {
	out := make([]Context, numContexts)
	for i := range out {
		out[i] = Context(i)
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Classification
// ─────────────────────────────────────────────────────────────────────────────

// Classification is the chemical verdict on a bond.  Invalid is a tombstone:
// an invalidated bond keeps its slot in the working list so later stages can
// still address candidates by index.
type Classification int

const (
	ClassUnknown Classification = iota
	ClassStandard
	ClassNonStandard
	ClassUnlikelyChemistry
	ClassInvalid
)

// String returns the human-readable classification name.
func (c Classification) String() string {
	switch c {
	case ClassUnknown:
		return "unknown"
	case ClassStandard:
		return "standard"
	case ClassNonStandard:
		return "non-standard"
	case ClassUnlikelyChemistry:
		return "unlikely-chemistry"
	case ClassInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("classification(%d)", int(c))
	}
}

// MarshalText encodes the classification by name.
func (c Classification) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Symbol returns the legacy one-character marker: '-' standard, '*'
// non-standard, '!' unlikely chemistry, ' ' otherwise.
func (c Classification) Symbol() byte {
	switch c {
	case ClassStandard:
		return '-'
	case ClassNonStandard:
		return '*'
	case ClassUnlikelyChemistry:
		return '!'
	default:
		return ' '
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ConflictState
// ─────────────────────────────────────────────────────────────────────────────

// ConflictState records how conflict resolution related a candidate to the
// winners.  Only the ConflictResolver writes it.
type ConflictState int

const (
	NoConflict ConflictState = iota
	IsConflictWinner
	SharesDonorWithWinner
	SharesAcceptorWithWinner
	SharesBothWithWinner
)

// String returns the conflict-state name.
func (s ConflictState) String() string {
	switch s {
	case NoConflict:
		return "none"
	case IsConflictWinner:
		return "winner"
	case SharesDonorWithWinner:
		return "shares-donor"
	case SharesAcceptorWithWinner:
		return "shares-acceptor"
	case SharesBothWithWinner:
		return "shares-both"
	default:
		return fmt.Sprintf("conflict(%d)", int(s))
	}
}

// MarshalText encodes the conflict state by name.
func (s ConflictState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// IsLinked reports whether the candidate shares an atom with some winner.
func (s ConflictState) IsLinked() bool {
	return s == SharesDonorWithWinner || s == SharesAcceptorWithWinner || s == SharesBothWithWinner
}

// ─────────────────────────────────────────────────────────────────────────────
// AtomRole / LWEdge
// ─────────────────────────────────────────────────────────────────────────────

// AtomRole is the hydrogen-bonding capability of an atom.
type AtomRole int

const (
	RoleUnknown AtomRole = iota
	RoleDonor
	RoleAcceptor
	RoleEither
)

// String returns the role name.
func (r AtomRole) String() string {
	switch r {
	case RoleDonor:
		return "donor"
	case RoleAcceptor:
		return "acceptor"
	case RoleEither:
		return "either"
	default:
		return "unknown"
	}
}

// MarshalText encodes the role by name.
func (r AtomRole) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// LWEdge is a Leontis-Westhof base edge.
type LWEdge int

const (
	EdgeUnknown LWEdge = iota
	EdgeWatson
	EdgeHoogsteen
	EdgeSugar
)

// String returns the edge name.
func (e LWEdge) String() string {
	switch e {
	case EdgeWatson:
		return "watson"
	case EdgeHoogsteen:
		return "hoogsteen"
	case EdgeSugar:
		return "sugar"
	default:
		return "unknown"
	}
}

// Letter returns the conventional single-letter edge code (W, H, S or ?).
func (e LWEdge) Letter() byte {
	switch e {
	case EdgeWatson:
		return 'W'
	case EdgeHoogsteen:
		return 'H'
	case EdgeSugar:
		return 'S'
	default:
		return '?'
	}
}

// MarshalText encodes the edge by name.
func (e LWEdge) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// ─────────────────────────────────────────────────────────────────────────────
// HBond
// ─────────────────────────────────────────────────────────────────────────────

// HBond is one hydrogen-bond candidate.  The donor slot holds the atom taken
// from the first residue of the pair and the acceptor slot the atom from the
// second, as the legacy tool does; the chemical roles are reported separately
// in DonorRole and AcceptorRole.
type HBond struct {
	DonorAtom    string
	AcceptorAtom string
	Distance     float64

	Context        Context
	Classification Classification
	ConflictState  ConflictState

	DonorRole    AtomRole
	AcceptorRole AtomRole
	DonorEdge    LWEdge
	AcceptorEdge LWEdge

	// Angles are in degrees and nil when the reference neighbour is missing.
	DonorAngle    *float64
	AcceptorAngle *float64
	Dihedral      float64
	DihedralValid bool

	Quality *QualityScore

	DonorResidueID       string
	AcceptorResidueID    string
	DonorResidueIndex    int
	AcceptorResidueIndex int
	DonorAtomIndex       int
	AcceptorAtomIndex    int

	// selected is set by phase 1 for every chosen candidate, contested or
	// not; ConflictState only says IsConflictWinner when a rival existed.
	selected bool
}

// IsValid reports whether the bond survived every stage.
func (b *HBond) IsValid() bool {
	return b.Classification != ClassInvalid && b.Classification != ClassUnknown
}

// IsSelected reports whether phase 1 chose this candidate.
func (b *HBond) IsSelected() bool { return b.selected }

// IsIntraResidue reports whether both atoms belong to the same residue.
func (b *HBond) IsIntraResidue() bool {
	return b.DonorResidueIndex == b.AcceptorResidueIndex
}

// invalidate tombstones the bond.
func (b *HBond) invalidate() { b.Classification = ClassInvalid }

// String renders the bond in the legacy compact form, e.g. "N1(-)N3 2.90".
func (b *HBond) String() string {
	return fmt.Sprintf("%s(%c)%s %.2f", b.DonorAtom, b.Classification.Symbol(), b.AcceptorAtom, b.Distance)
}

//Personal.AI order the ending
