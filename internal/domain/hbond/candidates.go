package hbond

import (
	"github.com/turtacn/hbond-engine/internal/domain/structure"
)

// FindCandidates enumerates donor/acceptor candidates between residues a and
// b in atom order: every atom of a (the donor slot) against every atom of b
// (the acceptor slot).  Passing the same residue twice enumerates
// intra-residue pairs instead, provided the parameters enable them.
//
// A pair becomes a candidate when both elements are allowed, the optional
// base-atoms-only and covalent-backbone restrictions pass, its context passes
// the interaction-type filter, and the distance lies within
// [MinDistance, MaxDistance(context)].  Returned candidates are
// unclassified with NoConflict.
func FindCandidates(a, b *structure.Residue, p Parameters) []HBond {
	if a == nil || b == nil {
		return nil
	}
	if a == b {
		if !p.DetectIntraResidue {
			return nil
		}
		return findIntraCandidates(a, p)
	}

	var out []HBond
	for i := range a.Atoms {
		da := &a.Atoms[i]
		if !eligible(a, da, p) {
			continue
		}
		for j := range b.Atoms {
			ab := &b.Atoms[j]
			if !eligible(b, ab, p) {
				continue
			}
			if hb, ok := makeCandidate(a, i, b, j, p); ok {
				out = append(out, hb)
			}
		}
	}
	return out
}

func findIntraCandidates(r *structure.Residue, p Parameters) []HBond {
	var out []HBond
	for i := range r.Atoms {
		ai := &r.Atoms[i]
		if !eligible(r, ai, p) {
			continue
		}
		ri := regionOf(r.MoleculeType, ai.Name)
		for j := i + 1; j < len(r.Atoms); j++ {
			aj := &r.Atoms[j]
			if !eligible(r, aj, p) {
				continue
			}
			rj := regionOf(r.MoleculeType, aj.Name)
			if ri == rj || !intraRegionAllowed(ri, rj) {
				continue
			}
			if hb, ok := makeCandidate(r, i, r, j, p); ok {
				out = append(out, hb)
			}
		}
	}
	return out
}

// intraRegionAllowed admits intra-residue pairs with at least one side on the
// nucleobase or a protein side chain.
func intraRegionAllowed(a, b region) bool {
	return a == regionBase || b == regionBase || a == regionSidechain || b == regionSidechain
}

func eligible(r *structure.Residue, a *structure.Atom, p Parameters) bool {
	if a.IsHydrogen() || !p.ElementAllowed(a.Element) {
		return false
	}
	if p.BaseAtomsOnly && !(r.MoleculeType == structure.MoleculeNucleotide && IsBaseAtom(a.Name)) {
		return false
	}
	return true
}

func makeCandidate(a *structure.Residue, i int, b *structure.Residue, j int, p Parameters) (HBond, bool) {
	da, ab := a.Atoms[i], b.Atoms[j]

	if !p.IncludeBackboneBackbone &&
		a.MoleculeType == structure.MoleculeNucleotide && b.MoleculeType == structure.MoleculeNucleotide &&
		isCovalentBackbonePair(da.Name, ab.Name) {
		return HBond{}, false
	}

	ctx := ContextOf(da.Name, a.MoleculeType, ab.Name, b.MoleculeType)
	if !p.ContextAllowed(ctx) {
		return HBond{}, false
	}
	d := Distance(da.Position, ab.Position)
	if d < p.MinDistance || d > p.MaxDistance(ctx) {
		return HBond{}, false
	}
	return HBond{
		DonorAtom:            da.Name,
		AcceptorAtom:         ab.Name,
		Distance:             d,
		Context:              ctx,
		Classification:       ClassUnknown,
		ConflictState:        NoConflict,
		DonorResidueID:       a.ID(),
		AcceptorResidueID:    b.ID(),
		DonorResidueIndex:    a.Index,
		AcceptorResidueIndex: b.Index,
		DonorAtomIndex:       i,
		AcceptorAtomIndex:    j,
	}, true
}

//Personal.AI order the ending
