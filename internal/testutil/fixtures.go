package testutil

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/turtacn/hbond-engine/internal/domain/structure"
)

// AtomSpec is a compact atom description for fixtures.
type AtomSpec struct {
	Name    string
	X, Y, Z float64
}

// Residue builds a residue from atom specs, inferring elements from names.
func Residue(name, chain string, seq int, atoms ...AtomSpec) *structure.Residue {
	out := make([]structure.Atom, len(atoms))
	for i, a := range atoms {
		out[i] = structure.NewAtom(i+1, a.Name, "", r3.Vec{X: a.X, Y: a.Y, Z: a.Z})
	}
	return structure.NewResidue(name, chain, seq, "", out)
}

// GuanineCytosine returns a planar G·C Watson-Crick pair on chains A and B.
// The three pairing contacts are O6–N4 2.85 Å, N1–N3 2.90 Å and N2–O2
// 2.95 Å; every cross contact between the pairing atoms is longer than 3.75 Å.
func GuanineCytosine() (g, c *structure.Residue) {
	g = Residue("G", "A", 1,
		AtomSpec{"C6", -1.2, 3.4, 0},
		AtomSpec{"O6", 0, 2.5, 0},
		AtomSpec{"N1", 0, 0, 0},
		AtomSpec{"C2", -1.2, -1.2, 0},
		AtomSpec{"N2", 0, -2.4, 0},
	)
	c = Residue("C", "B", 1,
		AtomSpec{"N4", 2.85, 2.5, 0},
		AtomSpec{"C4", 4.05, 3.4, 0},
		AtomSpec{"N3", 2.9, 0, 0},
		AtomSpec{"C2", 4.1, -1.2, 0},
		AtomSpec{"O2", 2.95, -2.4, 0},
	)
	return g, c
}

// GuanineCytosineStructure wraps GuanineCytosine in a Structure.
func GuanineCytosineStructure() *structure.Structure {
	g, c := GuanineCytosine()
	return structure.New("gc-pair", []*structure.Residue{g, c})
}

// GuanineCytosinePDB is GuanineCytosine in PDB format.
const GuanineCytosinePDB = `ATOM      1  N1    G A   1       0.000   0.000   0.000  1.00 20.00           N
ATOM      2  O6    G A   1       0.000   2.500   0.000  1.00 20.00           O
ATOM      3  N2    G A   1       0.000  -2.400   0.000  1.00 20.00           N
ATOM      4  C6    G A   1      -1.200   3.400   0.000  1.00 20.00           C
ATOM      5  C2    G A   1      -1.200  -1.200   0.000  1.00 20.00           C
ATOM      6  N3    C B   1       2.900   0.000   0.000  1.00 20.00           N
ATOM      7  N4    C B   1       2.850   2.500   0.000  1.00 20.00           N
ATOM      8  O2    C B   1       2.950  -2.400   0.000  1.00 20.00           O
ATOM      9  C4    C B   1       4.050   3.400   0.000  1.00 20.00           C
ATOM     10  C2    C B   1       4.100  -1.200   0.000  1.00 20.00           C
END
`

// SharedDonor returns a guanine whose N1 reaches two uracil acceptors: O2 at
// 3.40 Å (listed first) and O4 at 2.80 Å.
func SharedDonor() (g, u *structure.Residue) {
	g = Residue("G", "A", 1,
		AtomSpec{"N1", 0, 0, 0},
		AtomSpec{"C2", -1.0, -0.8, 0},
	)
	u = Residue("U", "B", 7,
		AtomSpec{"O2", 0, 3.4, 0},
		AtomSpec{"O4", 2.8, 0, 0},
	)
	return g, u
}

// Dinucleotide returns two backbone fragments on chain A whose O3'(first)
// sits 2.56 Å from both OP1 and O5' of the second.  seq2 sets the second
// residue's sequence number, so seq2 == 2 makes them sequence-adjacent.
func Dinucleotide(seq2 int) (first, second *structure.Residue) {
	first = Residue("A", "A", 1,
		AtomSpec{"C3'", -1.4, 0, 0},
		AtomSpec{"O3'", 0, 0, 0},
		AtomSpec{"C4'", -2.0, 1.2, 0},
		AtomSpec{"C1'", -2.5, 2.4, 0},
		AtomSpec{"N9", -3.0, 3.6, 0},
	)
	second = Residue("U", "A", seq2,
		AtomSpec{"P", 1.6, 0, 0},
		AtomSpec{"OP1", 2.2, 1.3, 0},
		AtomSpec{"O5'", 2.2, -1.3, 0},
		AtomSpec{"C5'", 3.6, -1.3, 0},
	)
	return first, second
}

// DinucleotideStructure wraps Dinucleotide in a Structure.
func DinucleotideStructure(seq2 int) *structure.Structure {
	a, b := Dinucleotide(seq2)
	return structure.New("dinucleotide", []*structure.Residue{a, b})
}

//Personal.AI order the ending
