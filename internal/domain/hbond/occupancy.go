package hbond

import (
	"sort"
)

// GlobalFilter post-processes an aggregated result in place and returns the
// number of bonds removed.  Filters rebuild the grouped view and counters and
// are idempotent.
type GlobalFilter interface {
	Name() string
	Apply(result *StructureHBondResult) int
}

type atomKey struct {
	residue string
	atom    string
}

func donorKey(hb *HBond) atomKey    { return atomKey{hb.DonorResidueID, hb.DonorAtom} }
func acceptorKey(hb *HBond) atomKey { return atomKey{hb.AcceptorResidueID, hb.AcceptorAtom} }

// GenericOccupancyFilter keeps bonds in ascending distance order while both
// atoms stay below MaxBondsPerAtom.  A non-positive limit disables it.
type GenericOccupancyFilter struct {
	MaxBondsPerAtom int
}

// Name implements GlobalFilter.
func (GenericOccupancyFilter) Name() string { return "generic" }

// Apply implements GlobalFilter.
func (f GenericOccupancyFilter) Apply(r *StructureHBondResult) int {
	if r == nil || f.MaxBondsPerAtom <= 0 {
		return 0
	}
	order := stableOrder(len(r.Bonds), func(x, y int) bool {
		return r.Bonds[x].Distance < r.Bonds[y].Distance
	})
	return applyOccupancy(r, order, func(atomKey) int { return f.MaxBondsPerAtom })
}

// ScoredOccupancyFilter keeps bonds in descending quality order while both
// atoms have spare chemical capacity.  Cap, when positive, lowers every
// capacity to at most Cap.
type ScoredOccupancyFilter struct {
	Thresholds QualityThresholds
	Cap        int
}

// Name implements GlobalFilter.
func (ScoredOccupancyFilter) Name() string { return "scored" }

// Apply implements GlobalFilter.
func (f ScoredOccupancyFilter) Apply(r *StructureHBondResult) int {
	if r == nil {
		return 0
	}
	scores := make([]float64, len(r.Bonds))
	for k := range r.Bonds {
		hb := &r.Bonds[k]
		if hb.Quality != nil {
			scores[k] = hb.Quality.Score
		} else {
			scores[k] = ScoreQuality(hb, f.Thresholds).Score
		}
	}
	order := stableOrder(len(r.Bonds), func(x, y int) bool { return scores[x] > scores[y] })
	return applyOccupancy(r, order, func(k atomKey) int {
		c := AtomCapacity(k.atom)
		if f.Cap > 0 && f.Cap < c {
			c = f.Cap
		}
		return c
	})
}

// defaultAtomCapacity applies to any atom missing from atomCapacities.
const defaultAtomCapacity = 2

// atomCapacities holds per-atom hydrogen-bond capacities.
var atomCapacities = map[string]int{
	// amino nitrogens
	"N2": 2, "N4": 2, "N6": 2, "N": 2, "NZ": 2, "ND2": 2, "NE2": 2, "NH1": 2, "NH2": 2,
	// carbonyl oxygens
	"O2": 2, "O4": 2, "O6": 2, "O": 2, "OD1": 2, "OE1": 2,
	// ribose 2'-hydroxyl
	"O2'": 3,
	// phosphate and sugar oxygens
	"OP1": 2, "OP2": 2, "OP3": 2, "O1P": 2, "O2P": 2, "O3P": 2, "O3'": 2, "O4'": 2, "O5'": 2,
	// ring nitrogens
	"N1": 2, "N3": 2, "N7": 2, "N9": 2,
}

// AtomCapacity returns how many hydrogen bonds the named atom can carry.
func AtomCapacity(atomName string) int {
	if c, ok := atomCapacities[atomName]; ok {
		return c
	}
	return defaultAtomCapacity
}

// stableOrder returns indexes 0..n-1 sorted by less, ties by index.
func stableOrder(n int, less func(x, y int) bool) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return less(order[a], order[b]) })
	return order
}

// applyOccupancy walks bonds in the given order, keeping those whose atoms
// both have room, then compacts Bonds in original order and rebuilds.
func applyOccupancy(r *StructureHBondResult, order []int, capacity func(atomKey) int) int {
	used := make(map[atomKey]int)
	keep := make([]bool, len(r.Bonds))
	for _, k := range order {
		hb := &r.Bonds[k]
		dk, ak := donorKey(hb), acceptorKey(hb)
		if used[dk] >= capacity(dk) || used[ak] >= capacity(ak) {
			continue
		}
		used[dk]++
		used[ak]++
		keep[k] = true
	}

	out := r.Bonds[:0]
	for k := range r.Bonds {
		if keep[k] {
			out = append(out, r.Bonds[k])
		}
	}
	removed := len(r.Bonds) - len(out)
	r.Bonds = out
	r.rebuild()
	return removed
}

//Personal.AI order the ending
