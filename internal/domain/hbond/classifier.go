package hbond

import (
	"github.com/turtacn/hbond-engine/internal/domain/structure"
)

// Classifier assigns classification, roles and edges to resolved candidates.
type Classifier struct {
	params Parameters
}

// NewClassifier returns a classifier bound to p.
func NewClassifier(p Parameters) *Classifier { return &Classifier{params: p} }

// InPromotionWindow reports whether a non-selected candidate linked to a
// winner is still close enough to be classified.
func (c *Classifier) InPromotionWindow(b *HBond) bool {
	return inPromotionWindow(b, c.params)
}

// Classify labels every candidate.  a supplies the donor-slot atoms and b the
// acceptor-slot atoms (the same residue for intra-residue pairs).  Winners and
// promotion-window candidates are classified from the role tables; anything
// else becomes Invalid.
func (c *Classifier) Classify(bonds []HBond, a, b *structure.Residue) {
	for k := range bonds {
		hb := &bonds[k]
		if !hb.selected && !c.InPromotionWindow(hb) {
			hb.invalidate()
			continue
		}
		hb.DonorRole = RoleOf(a, hb.DonorAtom)
		hb.AcceptorRole = RoleOf(b, hb.AcceptorAtom)
		hb.DonorEdge = EdgeOf(a, hb.DonorAtom)
		hb.AcceptorEdge = EdgeOf(b, hb.AcceptorAtom)
		hb.Classification = classifyRoles(hb.DonorRole, hb.AcceptorRole, hb.Context)
	}
}

func classifyRoles(donor, acceptor AtomRole, ctx Context) Classification {
	switch {
	case donor == RoleUnknown || acceptor == RoleUnknown:
		return ClassNonStandard
	case IsValidRolePair(donor, acceptor):
		return ClassStandard
	case ctx == ContextBackboneBackbone:
		return ClassNonStandard
	default:
		return ClassUnlikelyChemistry
	}
}

//Personal.AI order the ending
