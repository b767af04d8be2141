package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewAtom_NormalisesNameAndElement(t *testing.T) {
	a := NewAtom(7, " O2* ", "", r3.Vec{X: 1})
	assert.Equal(t, "O2'", a.Name)
	assert.Equal(t, "O", a.Element)
	assert.Equal(t, 7, a.Serial)

	b := NewAtom(8, "1H5'", "h", r3.Vec{})
	assert.Equal(t, "H", b.Element)
	assert.True(t, b.IsHydrogen())
}

func TestInferElement(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"N1", "N"},
		{"OP1", "O"},
		{"2HO'", "H"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferElement(tt.name))
		})
	}
}

func TestResidue_IDAndLookup(t *testing.T) {
	r := NewResidue("G", "A", 12, "", []Atom{
		NewAtom(1, "N1", "N", r3.Vec{}),
		NewAtom(2, "O6", "O", r3.Vec{X: 1}),
		NewAtom(3, "H1", "H", r3.Vec{X: 2}),
	})
	assert.Equal(t, "A.G12", r.ID())
	assert.Equal(t, MoleculeNucleotide, r.MoleculeType)
	assert.Equal(t, byte('G'), r.BaseLetter)
	assert.Equal(t, 2, r.HeavyAtomCount())

	o6, ok := r.Atom("O6")
	require.True(t, ok)
	assert.Equal(t, 1.0, o6.Position.X)
	_, ok = r.Atom("N9")
	assert.False(t, ok)

	blank := NewResidue("HOH", "", 5, "A", nil)
	assert.Equal(t, "-.HOH5A", blank.ID())
}

func TestIsSequenceAdjacent(t *testing.T) {
	a := &Residue{ChainID: "A", SeqNum: 3}
	b := &Residue{ChainID: "A", SeqNum: 4}
	c := &Residue{ChainID: "B", SeqNum: 4}
	d := &Residue{ChainID: "A", SeqNum: 6}

	assert.True(t, IsSequenceAdjacent(a, b))
	assert.True(t, IsSequenceAdjacent(b, a))
	assert.False(t, IsSequenceAdjacent(a, c))
	assert.False(t, IsSequenceAdjacent(a, d))
	assert.False(t, IsSequenceAdjacent(a, nil))
}

func TestStructure_IndexesAndChains(t *testing.T) {
	s := New("test", []*Residue{
		NewResidue("A", "B", 1, "", nil),
		NewResidue("U", "A", 1, "", nil),
		NewResidue("G", "B", 2, "", nil),
	})
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"B", "A"}, s.Chains())
	for i, r := range s.Residues {
		assert.Equal(t, i, r.Index)
	}
	assert.Nil(t, s.Residue(5))
	var empty *Structure
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 0, empty.AtomCount())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		res    string
		atoms  []string
		mol    MoleculeType
		letter byte
	}{
		{"rna guanine", "G", nil, MoleculeNucleotide, 'G'},
		{"dna cytosine", "DC", nil, MoleculeNucleotide, 'C'},
		{"modified", "5MC", nil, MoleculeNucleotide, 'c'},
		{"pseudouridine", "PSU", nil, MoleculeNucleotide, 'P'},
		{"amino acid", "SER", nil, MoleculeProtein, UnknownBase},
		{"water", "HOH", nil, MoleculeWater, UnknownBase},
		{"unknown nucleotide by atoms", "XYZ", []string{"C1'", "C4'", "N9"}, MoleculeNucleotide, UnknownBase},
		{"unknown amino acid by atoms", "ABC", []string{"N", "CA", "C", "O"}, MoleculeProtein, UnknownBase},
		{"ligand", "MG", []string{"MG"}, MoleculeLigand, UnknownBase},
		{"empty", "UNK", nil, MoleculeUnknown, UnknownBase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mol, letter := Classify(tt.res, tt.atoms)
			assert.Equal(t, tt.mol, mol)
			assert.Equal(t, tt.letter, letter)
		})
	}
}

func TestBaseLetterHelpers(t *testing.T) {
	assert.True(t, IsStandardBase('G'))
	assert.False(t, IsStandardBase('g'))
	assert.True(t, IsPurine('a'))
	assert.False(t, IsPurine('C'))
	assert.True(t, MoleculeWater.IsValid())
	assert.False(t, MoleculeType("dna").IsValid())
}

//Personal.AI order the ending
