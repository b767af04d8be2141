package hbond

// ResidueHBonds groups the bonds found between one residue pair.
type ResidueHBonds struct {
	ResidueA   int
	ResidueB   int
	ResidueAID string
	ResidueBID string
	Bonds      []HBond
}

// StructureHBondResult is the aggregated output for a structure.  Bonds is
// the flat list; Groups is the per-pair view derived from it.
type StructureHBondResult struct {
	Bonds  []HBond
	Groups []ResidueHBonds

	PairsChecked   int
	PairsWithBonds int
	StandardCount  int
	GoodCount      int

	goodMin, goodMax float64
}

func newResult(p Parameters) *StructureHBondResult {
	return &StructureHBondResult{goodMin: p.GoodBandMin, goodMax: p.GoodBandMax}
}

// NewStructureHBondResult wraps bonds in a result whose grouped view and
// counters are derived with p's good band.  pairsChecked is reported as is.
func NewStructureHBondResult(p Parameters, bonds []HBond, pairsChecked int) *StructureHBondResult {
	r := newResult(p)
	r.Bonds = bonds
	r.PairsChecked = pairsChecked
	r.rebuild()
	return r
}

// Len returns the number of bonds.
func (r *StructureHBondResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Bonds)
}

// CountByClassification tallies bonds per classification.
func (r *StructureHBondResult) CountByClassification() map[Classification]int {
	out := make(map[Classification]int)
	for k := range r.Bonds {
		out[r.Bonds[k].Classification]++
	}
	return out
}

// rebuild recomputes Groups and the bond counters from Bonds.  Groups keep
// the order in which their pair first appears in the flat list.  A result
// built without parameters counts good bonds with the shared default band.
func (r *StructureHBondResult) rebuild() {
	if r.goodMin == 0 && r.goodMax == 0 {
		r.goodMin, r.goodMax = defaultGoodBandMin, defaultGoodBandMax
	}
	r.Groups = r.Groups[:0]
	r.StandardCount, r.GoodCount = 0, 0

	index := make(map[[2]int]int)
	for k := range r.Bonds {
		hb := r.Bonds[k]
		if hb.Classification == ClassStandard {
			r.StandardCount++
			if hb.Distance >= r.goodMin && hb.Distance <= r.goodMax {
				r.GoodCount++
			}
		}
		key := [2]int{hb.DonorResidueIndex, hb.AcceptorResidueIndex}
		gi, ok := index[key]
		if !ok {
			gi = len(r.Groups)
			index[key] = gi
			r.Groups = append(r.Groups, ResidueHBonds{
				ResidueA:   hb.DonorResidueIndex,
				ResidueB:   hb.AcceptorResidueIndex,
				ResidueAID: hb.DonorResidueID,
				ResidueBID: hb.AcceptorResidueID,
			})
		}
		r.Groups[gi].Bonds = append(r.Groups[gi].Bonds, hb)
	}
	r.PairsWithBonds = len(r.Groups)
}

//Personal.AI order the ending
