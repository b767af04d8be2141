package hbond

import "math"

// QualityTier buckets a quality score.
type QualityTier int

const (
	TierExcellent QualityTier = iota
	TierGood
	TierFair
	TierPoor
	TierUnlikely
)

// String returns the tier name.
func (t QualityTier) String() string {
	switch t {
	case TierExcellent:
		return "excellent"
	case TierGood:
		return "good"
	case TierFair:
		return "fair"
	case TierPoor:
		return "poor"
	default:
		return "unlikely"
	}
}

// MarshalText encodes the tier by name.
func (t QualityTier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// QualityScore is a 0–100 geometric score with its tier.
type QualityScore struct {
	Score float64     `json:"score"`
	Tier  QualityTier `json:"tier"`
}

const (
	idealMinDistance = 2.7
	idealMaxDistance = 3.1
	distanceFalloff  = 0.6
	angleFloor       = 90.0
	angleIdeal       = 150.0
	distanceWeight   = 0.6
)

// ScoreQuality scores a bond from its distance and whichever angles are
// known.  Non-standard bonds are discounted by 15% and unlikely chemistry by
// half.
func ScoreQuality(b *HBond, t QualityThresholds) QualityScore {
	ds := distanceScore(b.Distance)

	var sum float64
	n := 0
	for _, a := range []*float64{b.DonorAngle, b.AcceptorAngle} {
		if a == nil {
			continue
		}
		sum += clamp01((*a - angleFloor) / (angleIdeal - angleFloor))
		n++
	}
	score := ds
	if n > 0 {
		score = distanceWeight*ds + (1-distanceWeight)*sum/float64(n)
	}

	switch b.Classification {
	case ClassNonStandard:
		score *= 0.85
	case ClassUnlikelyChemistry:
		score *= 0.5
	}
	score = math.Round(score*1000) / 10
	return QualityScore{Score: score, Tier: tierFor(score, t)}
}

func distanceScore(d float64) float64 {
	switch {
	case d < idealMinDistance:
		return clamp01(1 - (idealMinDistance-d)/distanceFalloff)
	case d > idealMaxDistance:
		return clamp01(1 - (d-idealMaxDistance)/distanceFalloff)
	default:
		return 1
	}
}

func tierFor(score float64, t QualityThresholds) QualityTier {
	switch {
	case score >= t.Excellent:
		return TierExcellent
	case score >= t.Good:
		return TierGood
	case score >= t.Fair:
		return TierFair
	case score >= t.Poor:
		return TierPoor
	default:
		return TierUnlikely
	}
}

func clamp01(x float64) float64 { return math.Max(0, math.Min(1, x)) }

//Personal.AI order the ending
