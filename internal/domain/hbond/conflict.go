package hbond

// ConflictResolver settles candidates competing for the same donor or
// acceptor atom.  It mutates the candidate list in place and only ever writes
// the selection flag and ConflictState.
type ConflictResolver struct{}

// Resolve runs phase 1 (greedy selection) and phase 2 (linkage tagging) and
// returns the number of winners selected.  Phase 3, the promotion boundary,
// never changes the list and is reported separately by PromotionBoundary.
func (ConflictResolver) Resolve(bonds []HBond) int {
	n := selectWinners(bonds)
	tagLinkage(bonds)
	return n
}

// selectWinners is phase 1.  A candidate already selected or already linked
// to a winner counts as matched, so re-running on a resolved list selects
// nothing.
//
// The scan walks unmatched candidates in index order.  For the current one it
// finds the shortest unmatched candidate sharing its donor name and the
// shortest sharing its acceptor name, lowest index first on ties.  When both
// searches land on the same candidate that candidate wins: it and every
// unmatched candidate sharing its donor or acceptor become matched and the
// scan restarts from the top.
func selectWinners(bonds []HBond) int {
	n := len(bonds)
	matched := make([]bool, n)
	remaining := 0
	for i := range bonds {
		if bonds[i].selected || bonds[i].ConflictState.IsLinked() {
			matched[i] = true
			continue
		}
		remaining++
	}

	winners := 0
	for i := 0; i < n && remaining > 0; {
		if matched[i] {
			i++
			continue
		}
		byDonor := shortestSharing(bonds, matched, func(k int) bool { return bonds[k].DonorAtom == bonds[i].DonorAtom })
		byAcceptor := shortestSharing(bonds, matched, func(k int) bool { return bonds[k].AcceptorAtom == bonds[i].AcceptorAtom })
		if byDonor != byAcceptor {
			i++
			continue
		}

		w := &bonds[byDonor]
		w.selected = true
		winners++
		for k := range bonds {
			if matched[k] {
				continue
			}
			if bonds[k].DonorAtom == w.DonorAtom || bonds[k].AcceptorAtom == w.AcceptorAtom {
				matched[k] = true
				remaining--
			}
		}
		i = 0
	}
	return winners
}

func shortestSharing(bonds []HBond, matched []bool, shares func(int) bool) int {
	best := -1
	for k := range bonds {
		if matched[k] || !shares(k) {
			continue
		}
		if best < 0 || bonds[k].Distance < bonds[best].Distance {
			best = k
		}
	}
	return best
}

// PromotionBoundary is phase 3.  It leaves bonds untouched and returns how
// many linked non-winners lie inside the promotion window; the classifier
// promotes exactly those.
func (ConflictResolver) PromotionBoundary(bonds []HBond, p Parameters) int {
	n := 0
	for k := range bonds {
		if inPromotionWindow(&bonds[k], p) {
			n++
		}
	}
	return n
}

func inPromotionWindow(b *HBond, p Parameters) bool {
	return !b.selected &&
		b.ConflictState.IsLinked() &&
		p.PromotionDistance > 0 &&
		b.Distance >= p.MinDistance &&
		b.Distance <= p.PromotionDistance
}

// tagLinkage is phase 2.  Every non-selected candidate sharing the donor or
// acceptor name of some winner is tagged; flags accumulate across winners so
// a candidate sharing its donor with one winner and its acceptor with another
// ends up SharesBothWithWinner.  Winners with at least one such rival are
// marked IsConflictWinner; uncontested winners keep NoConflict.
func tagLinkage(bonds []HBond) {
	sharesDonor := make([]bool, len(bonds))
	sharesAcceptor := make([]bool, len(bonds))
	contested := make([]bool, len(bonds))

	for w := range bonds {
		if !bonds[w].selected {
			continue
		}
		for k := range bonds {
			if k == w || bonds[k].selected {
				continue
			}
			d := bonds[k].DonorAtom == bonds[w].DonorAtom
			a := bonds[k].AcceptorAtom == bonds[w].AcceptorAtom
			if d {
				sharesDonor[k] = true
			}
			if a {
				sharesAcceptor[k] = true
			}
			if d || a {
				contested[w] = true
			}
		}
	}

	for k := range bonds {
		switch {
		case bonds[k].selected:
			if contested[k] {
				bonds[k].ConflictState = IsConflictWinner
			}
		case sharesDonor[k] && sharesAcceptor[k]:
			bonds[k].ConflictState = SharesBothWithWinner
		case sharesDonor[k]:
			bonds[k].ConflictState = SharesDonorWithWinner
		case sharesAcceptor[k]:
			bonds[k].ConflictState = SharesAcceptorWithWinner
		}
	}
}

//Personal.AI order the ending
