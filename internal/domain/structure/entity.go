// Package structure defines the read-only atom/residue/chain model consumed by
// the hydrogen-bond engine.  Nothing in this package performs geometry beyond
// what residue bookkeeping needs; coordinates are carried as gonum r3 vectors
// so every geometric consumer shares one vector type.
package structure

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ─────────────────────────────────────────────────────────────────────────────
// MoleculeType
// ─────────────────────────────────────────────────────────────────────────────

// MoleculeType categorises a residue by the polymer (or non-polymer) class it
// belongs to.  It drives hydrogen-bond context selection.
type MoleculeType string

const (
	MoleculeNucleotide MoleculeType = "nucleotide"
	MoleculeProtein    MoleculeType = "protein"
	MoleculeLigand     MoleculeType = "ligand"
	MoleculeWater      MoleculeType = "water"
	MoleculeUnknown    MoleculeType = "unknown"
)

// IsValid reports whether m is one of the defined molecule types.
func (m MoleculeType) IsValid() bool {
	switch m {
	case MoleculeNucleotide, MoleculeProtein, MoleculeLigand, MoleculeWater, MoleculeUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation of the molecule type.
func (m MoleculeType) String() string {
	return string(m)
}

// UnknownBase is the base letter of residues that are not nucleotides or
// whose base could not be identified.
const UnknownBase byte = '?'

// ─────────────────────────────────────────────────────────────────────────────
// Atom
// ─────────────────────────────────────────────────────────────────────────────

// Atom is a single atom record.  Name is normalised (trimmed, '*' → '\'') and
// Element is upper-case.
type Atom struct {
	Serial   int
	Name     string
	Element  string
	Position r3.Vec
}

// NewAtom builds an Atom, normalising the name and inferring the element from
// the name when element is blank.
func NewAtom(serial int, name, element string, pos r3.Vec) Atom {
	name = NormalizeAtomName(name)
	element = strings.ToUpper(strings.TrimSpace(element))
	if element == "" {
		element = InferElement(name)
	}
	return Atom{Serial: serial, Name: name, Element: element, Position: pos}
}

// IsHydrogen reports whether the atom is a hydrogen (or deuterium).
func (a Atom) IsHydrogen() bool {
	return a.Element == "H" || a.Element == "D"
}

// NormalizeAtomName trims whitespace and rewrites the legacy '*' sugar prime
// marker to '\'' so that "O2*" and "O2'" compare equal.
func NormalizeAtomName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), "*", "'")
}

// InferElement guesses an element symbol from an atom name: the first letter
// after any leading digits.  Two-letter element names cannot be recovered this
// way, which is acceptable because only N, O, S, F and H matter downstream.
func InferElement(name string) string {
	for _, r := range strings.TrimSpace(name) {
		if r >= '0' && r <= '9' {
			continue
		}
		return strings.ToUpper(string(r))
	}
	return ""
}

// ─────────────────────────────────────────────────────────────────────────────
// Residue
// ─────────────────────────────────────────────────────────────────────────────

// Residue is an ordered list of atoms with its chain/sequence identity and its
// classification.  Index is the residue's position in its Structure.
type Residue struct {
	Index        int
	Name         string
	ChainID      string
	SeqNum       int
	InsCode      string
	MoleculeType MoleculeType
	BaseLetter   byte
	Atoms        []Atom
}

// NewResidue builds a Residue and classifies it from its name and atom names.
func NewResidue(name, chainID string, seqNum int, insCode string, atoms []Atom) *Residue {
	r := &Residue{
		Name:    strings.TrimSpace(name),
		ChainID: strings.TrimSpace(chainID),
		SeqNum:  seqNum,
		InsCode: strings.TrimSpace(insCode),
		Atoms:   atoms,
	}
	r.MoleculeType, r.BaseLetter = Classify(r.Name, r.AtomNames())
	return r
}

// ID returns the residue identifier "<chain>.<name><seq><icode>", e.g. "A.G12".
func (r *Residue) ID() string {
	chain := r.ChainID
	if chain == "" {
		chain = "-"
	}
	return fmt.Sprintf("%s.%s%d%s", chain, r.Name, r.SeqNum, r.InsCode)
}

// AtomNames returns the atom names in residue order.
func (r *Residue) AtomNames() []string {
	names := make([]string, len(r.Atoms))
	for i, a := range r.Atoms {
		names[i] = a.Name
	}
	return names
}

// Atom returns the first atom with the given (normalised) name.
func (r *Residue) Atom(name string) (Atom, bool) {
	idx := r.AtomIndex(name)
	if idx < 0 {
		return Atom{}, false
	}
	return r.Atoms[idx], true
}

// AtomIndex returns the index of the first atom with the given name, or -1.
func (r *Residue) AtomIndex(name string) int {
	name = NormalizeAtomName(name)
	for i := range r.Atoms {
		if r.Atoms[i].Name == name {
			return i
		}
	}
	return -1
}

// IsNucleotide reports whether the residue is a nucleotide.
func (r *Residue) IsNucleotide() bool {
	return r.MoleculeType == MoleculeNucleotide
}

// HeavyAtomCount returns the number of non-hydrogen atoms.
func (r *Residue) HeavyAtomCount() int {
	n := 0
	for _, a := range r.Atoms {
		if !a.IsHydrogen() {
			n++
		}
	}
	return n
}

// IsSequenceAdjacent reports whether a and b sit in the same chain with
// sequence numbers differing by exactly one.
func IsSequenceAdjacent(a, b *Residue) bool {
	if a == nil || b == nil || a.ChainID != b.ChainID {
		return false
	}
	d := a.SeqNum - b.SeqNum
	return d == 1 || d == -1
}

// ─────────────────────────────────────────────────────────────────────────────
// Structure
// ─────────────────────────────────────────────────────────────────────────────

// Structure is an ordered, read-only collection of residues.
type Structure struct {
	Name     string
	Residues []*Residue
}

// New builds a Structure and stamps each residue's Index with its position.
func New(name string, residues []*Residue) *Structure {
	for i, r := range residues {
		r.Index = i
	}
	return &Structure{Name: name, Residues: residues}
}

// Len returns the number of residues.
func (s *Structure) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Residues)
}

// AtomCount returns the total number of atoms.
func (s *Structure) AtomCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, r := range s.Residues {
		n += len(r.Atoms)
	}
	return n
}

// Chains returns chain identifiers in order of first appearance.
func (s *Structure) Chains() []string {
	if s == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, r := range s.Residues {
		if _, ok := seen[r.ChainID]; ok {
			continue
		}
		seen[r.ChainID] = struct{}{}
		out = append(out, r.ChainID)
	}
	return out
}

// Residue returns the residue at index i, or nil when out of range.
func (s *Structure) Residue(i int) *Residue {
	if s == nil || i < 0 || i >= len(s.Residues) {
		return nil
	}
	return s.Residues[i]
}

//Personal.AI order the ending
