package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/turtacn/hbond-engine/internal/domain/hbond"
	types "github.com/turtacn/hbond-engine/pkg/types/hbond"
)

// ToResponse converts an analysis into its API body.
func ToResponse(a *Analysis) *types.DetectResponse {
	res := a.Result
	resp := &types.DetectResponse{
		RunID:      a.RunID,
		Structure:  a.Structure.Name,
		Preset:     a.Parameters.Name,
		Filter:     a.Filter,
		DurationMS: round(float64(a.Duration.Microseconds())/1000, 3),
		Summary: types.Summary{
			Residues:         a.Structure.Len(),
			Atoms:            a.Structure.AtomCount(),
			PairsChecked:     res.PairsChecked,
			PairsWithBonds:   res.PairsWithBonds,
			Bonds:            res.Len(),
			StandardCount:    res.StandardCount,
			GoodCount:        res.GoodCount,
			ByClassification: make(map[string]int),
			FilterRemoved:    a.FilterRemoved,
		},
		Pairs: make([]types.ResiduePair, 0, len(res.Groups)),
		Bonds: make([]types.Bond, 0, res.Len()),
	}
	for c, n := range res.CountByClassification() {
		resp.Summary.ByClassification[c.String()] = n
	}
	for _, g := range res.Groups {
		resp.Pairs = append(resp.Pairs, types.ResiduePair{
			ResidueA: g.ResidueAID,
			ResidueB: g.ResidueBID,
			Count:    len(g.Bonds),
			Notation: PairNotation(g.Bonds),
		})
	}
	for k := range res.Bonds {
		resp.Bonds = append(resp.Bonds, ToBond(&res.Bonds[k]))
	}
	return resp
}

// ToBond converts one bond.
func ToBond(hb *hbond.HBond) types.Bond {
	b := types.Bond{
		DonorResidue:    hb.DonorResidueID,
		DonorAtom:       hb.DonorAtom,
		AcceptorResidue: hb.AcceptorResidueID,
		AcceptorAtom:    hb.AcceptorAtom,
		Distance:        round(hb.Distance, 3),
		Context:         hb.Context.String(),
		Classification:  hb.Classification.String(),
		ConflictState:   hb.ConflictState.String(),
		DonorRole:       hb.DonorRole.String(),
		AcceptorRole:    hb.AcceptorRole.String(),
		DonorAngle:      roundPtr(hb.DonorAngle),
		AcceptorAngle:   roundPtr(hb.AcceptorAngle),
		Notation:        hb.String(),
	}
	if hb.DonorEdge != hbond.EdgeUnknown {
		b.DonorEdge = hb.DonorEdge.String()
	}
	if hb.AcceptorEdge != hbond.EdgeUnknown {
		b.AcceptorEdge = hb.AcceptorEdge.String()
	}
	if hb.DihedralValid {
		d := round(hb.Dihedral, 1)
		b.Dihedral = &d
	}
	if hb.Quality != nil {
		b.Quality = &types.Quality{Score: hb.Quality.Score, Tier: hb.Quality.Tier.String()}
	}
	return b
}

// PairNotation renders a pair's bonds in the compact legacy form,
// "[2]N1(-)N3 2.90,O6(-)N4 2.85".
func PairNotation(bonds []hbond.HBond) string {
	parts := make([]string, len(bonds))
	for k := range bonds {
		parts[k] = bonds[k].String()
	}
	return fmt.Sprintf("[%d]%s", len(bonds), strings.Join(parts, ","))
}

// ToPreset converts a preset description.
func ToPreset(p PresetInfo) types.Preset {
	return types.Preset{
		Name:                     p.Name,
		Default:                  p.Default,
		MinDistance:              p.Parameters.MinDistance,
		MaxDistances:             p.Parameters.MaxDistances(),
		PromotionDistance:        p.Parameters.PromotionDistance,
		AllowedElements:          append([]string(nil), p.Parameters.AllowedElements...),
		MinAngle:                 p.Parameters.MinAngle,
		EnableAngleFilter:        p.Parameters.EnableAngleFilter,
		EnableQualityScoring:     p.Parameters.EnableQualityScoring,
		IncludeBackboneBackbone:  p.Parameters.IncludeBackboneBackbone,
		IncludeUnlikelyChemistry: p.Parameters.IncludeUnlikelyChemistry,
		BaseAtomsOnly:            p.Parameters.BaseAtomsOnly,
	}
}

func round(x float64, places int) float64 {
	f := math.Pow10(places)
	return math.Round(x*f) / f
}

func roundPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := round(*p, 1)
	return &v
}

//Personal.AI order the ending
