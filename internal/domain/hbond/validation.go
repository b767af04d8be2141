package hbond

import (
	"github.com/turtacn/hbond-engine/internal/domain/structure"
)

// ComputeAngles fills donor angle, acceptor angle and dihedral for every
// still-plausible bond.  An angle stays nil when its reference neighbour is
// missing.
func ComputeAngles(bonds []HBond, a, b *structure.Residue) {
	for k := range bonds {
		hb := &bonds[k]
		if hb.Classification == ClassInvalid {
			continue
		}
		donor := a.Atoms[hb.DonorAtomIndex]
		acceptor := b.Atoms[hb.AcceptorAtomIndex]

		dn, hasDN := ReferenceNeighbor(a, hb.DonorAtom)
		an, hasAN := ReferenceNeighbor(b, hb.AcceptorAtom)

		hb.DonorAngle, hb.AcceptorAngle = nil, nil
		if hasDN {
			if deg, ok := Angle(dn.Position, donor.Position, acceptor.Position); ok {
				hb.DonorAngle = &deg
			}
		}
		if hasAN {
			if deg, ok := Angle(donor.Position, acceptor.Position, an.Position); ok {
				hb.AcceptorAngle = &deg
			}
		}
		hb.Dihedral, hb.DihedralValid = 0, false
		if hasDN && hasAN {
			hb.Dihedral, hb.DihedralValid = Dihedral(dn.Position, donor.Position, acceptor.Position, an.Position)
		}
	}
}

// PostValidate applies the legacy cleanup.  When at least one Standard bond
// lies in the good band, bonds longer than PostValidationMax are dropped, as
// are non-winner NonStandard bonds outside the non-standard band.  It returns
// the number of bonds invalidated.
func PostValidate(bonds []HBond, p Parameters) int {
	anchored := false
	for k := range bonds {
		if bonds[k].Classification == ClassStandard && p.InGoodBand(bonds[k].Distance) {
			anchored = true
			break
		}
	}
	if !anchored {
		return 0
	}

	removed := 0
	for k := range bonds {
		hb := &bonds[k]
		if !hb.IsValid() {
			continue
		}
		switch {
		case hb.Distance > p.PostValidationMax:
		case !hb.selected && hb.Classification == ClassNonStandard &&
			(hb.Distance < p.NonStandardMin || hb.Distance > p.NonStandardMax):
		default:
			continue
		}
		hb.invalidate()
		removed++
	}
	return removed
}

// FilterAngles invalidates bonds with a known donor or acceptor angle below
// MinAngle.
func FilterAngles(bonds []HBond, p Parameters) int {
	if !p.EnableAngleFilter {
		return 0
	}
	removed := 0
	for k := range bonds {
		hb := &bonds[k]
		if !hb.IsValid() {
			continue
		}
		if (hb.DonorAngle != nil && *hb.DonorAngle < p.MinAngle) ||
			(hb.AcceptorAngle != nil && *hb.AcceptorAngle < p.MinAngle) {
			hb.invalidate()
			removed++
		}
	}
	return removed
}

// ScoreBonds attaches quality scores and, when RejectLowestQualityTier is
// set, invalidates bonds in the lowest tier.
func ScoreBonds(bonds []HBond, p Parameters) int {
	if !p.EnableQualityScoring {
		return 0
	}
	removed := 0
	for k := range bonds {
		hb := &bonds[k]
		if !hb.IsValid() {
			continue
		}
		q := ScoreQuality(hb, p.QualityThresholds)
		hb.Quality = &q
		if p.RejectLowestQualityTier && q.Tier == TierUnlikely {
			hb.invalidate()
			removed++
		}
	}
	return removed
}

// ExcludeUnlikely invalidates UnlikelyChemistry bonds unless the parameters
// keep them.
func ExcludeUnlikely(bonds []HBond, p Parameters) int {
	if p.IncludeUnlikelyChemistry {
		return 0
	}
	removed := 0
	for k := range bonds {
		if bonds[k].Classification == ClassUnlikelyChemistry {
			bonds[k].invalidate()
			removed++
		}
	}
	return removed
}

//Personal.AI order the ending
