package hbond

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/turtacn/hbond-engine/internal/domain/structure"
)

// Distance returns the Euclidean distance between two points in Å.
func Distance(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// Angle returns the angle a–vertex–c in degrees.  ok is false when either arm
// has zero length.
func Angle(a, vertex, c r3.Vec) (deg float64, ok bool) {
	u := r3.Sub(a, vertex)
	v := r3.Sub(c, vertex)
	nu, nv := r3.Norm(u), r3.Norm(v)
	if nu == 0 || nv == 0 {
		return 0, false
	}
	return radToDeg(math.Acos(clampUnit(r3.Dot(u, v) / (nu * nv)))), true
}

// Dihedral returns the signed torsion p0–p1–p2–p3 in degrees, in (-180, 180].
// ok is false when three consecutive points are collinear.
func Dihedral(p0, p1, p2, p3 r3.Vec) (deg float64, ok bool) {
	b1 := r3.Sub(p1, p0)
	b2 := r3.Sub(p2, p1)
	b3 := r3.Sub(p3, p2)

	n1 := r3.Cross(b1, b2)
	n2 := r3.Cross(b2, b3)
	l1, l2 := r3.Norm(n1), r3.Norm(n2)
	if l1 == 0 || l2 == 0 {
		return 0, false
	}
	deg = radToDeg(math.Acos(clampUnit(r3.Dot(n1, n2) / (l1 * l2))))
	if r3.Dot(r3.Cross(n1, n2), b2) < 0 {
		deg = -deg
	}
	return deg, true
}

// HeavyAtomCentroid returns the mean position of the residue's non-hydrogen
// atoms.  ok is false when the residue has none.
func HeavyAtomCentroid(r *structure.Residue) (r3.Vec, bool) {
	var sum r3.Vec
	n := 0
	for _, a := range r.Atoms {
		if a.IsHydrogen() {
			continue
		}
		sum = r3.Add(sum, a.Position)
		n++
	}
	if n == 0 {
		return r3.Vec{}, false
	}
	return r3.Scale(1/float64(n), sum), true
}

func clampUnit(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}

func radToDeg(r float64) float64 { return r * 180 / math.Pi }

// ─────────────────────────────────────────────────────────────────────────────
// Reference neighbours for angle computation
// ─────────────────────────────────────────────────────────────────────────────

// neighbors lists, per polar atom name, the covalently bonded heavy atoms in
// order of preference.  The first one present in the residue is used.
var neighbors = map[string][]string{
	// nucleobase
	"N1": {"C2", "C6"},
	"N2": {"C2"},
	"N3": {"C2", "C4"},
	"N4": {"C4"},
	"N6": {"C6"},
	"N7": {"C8", "C5"},
	"N9": {"C4", "C8"},
	"O2": {"C2"},
	"O4": {"C4"},
	"O6": {"C6"},
	// sugar / backbone
	"O2'": {"C2'"},
	"O3'": {"C3'"},
	"O4'": {"C1'", "C4'"},
	"O5'": {"C5'"},
	"OP1": {"P"},
	"OP2": {"P"},
	"OP3": {"P"},
	"O1P": {"P"},
	"O2P": {"P"},
	"O3P": {"P"},
	// protein
	"N":   {"CA"},
	"O":   {"C"},
	"OXT": {"C"},
	"OG":  {"CB"},
	"OG1": {"CB"},
	"OH":  {"CZ"},
	"OD1": {"CG"},
	"OD2": {"CG"},
	"ND2": {"CG"},
	"OE1": {"CD"},
	"OE2": {"CD"},
	"NE2": {"CD", "CE1"},
	"NZ":  {"CE"},
	"NE":  {"CD"},
	"NH1": {"CZ"},
	"NH2": {"CZ"},
	"ND1": {"CG"},
	"NE1": {"CD1"},
	"SG":  {"CB"},
	"SD":  {"CG"},
}

// ReferenceNeighbor returns the preferred covalently bonded heavy atom of the
// named atom within its residue.
func ReferenceNeighbor(r *structure.Residue, atomName string) (structure.Atom, bool) {
	for _, n := range neighbors[atomName] {
		if a, ok := r.Atom(n); ok {
			return a, true
		}
	}
	return structure.Atom{}, false
}

//Personal.AI order the ending
