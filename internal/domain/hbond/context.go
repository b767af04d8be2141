package hbond

import (
	"strings"

	"github.com/turtacn/hbond-engine/internal/domain/structure"
)

// region is the structural part of a residue an atom belongs to.
type region int

const (
	regionUnknown region = iota
	regionBase
	regionBackbone
	regionSugar
	regionMainchain
	regionSidechain
	regionLigand
)

func (r region) isProtein() bool { return r == regionMainchain || r == regionSidechain }

var baseAtoms = nameSet(
	"N1", "C2", "N3", "C4", "C5", "C6", "N7", "C8", "N9",
	"O2", "O4", "O6", "N2", "N4", "N6", "C5M", "C7",
)

var backboneAtoms = nameSet(
	"P", "OP1", "OP2", "OP3", "O1P", "O2P", "O3P", "O5'", "C5'", "O3'",
)

var sugarAtoms = nameSet(
	"C1'", "C2'", "C3'", "C4'", "O4'", "O2'",
)

var mainchainAtoms = nameSet("N", "CA", "C", "O", "OXT")

// covalentBackboneOxygens are the phosphate and linking oxygens whose O–O
// contacts are rejected outright unless backbone-backbone bonds are wanted.
var covalentBackboneOxygens = nameSet(
	"OP1", "OP2", "OP3", "O1P", "O2P", "O3P", "O3'", "O5'",
)

func nameSet(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

func inSet(set map[string]struct{}, name string) bool {
	_, ok := set[name]
	return ok
}

// IsBaseAtom reports whether name is a nucleobase ring or exocyclic atom.
func IsBaseAtom(name string) bool { return inSet(baseAtoms, name) }

// IsBackboneAtom reports whether name is a phosphate backbone atom.
func IsBackboneAtom(name string) bool { return inSet(backboneAtoms, name) }

// IsSugarAtom reports whether name is a ribose atom.
func IsSugarAtom(name string) bool { return inSet(sugarAtoms, name) }

// IsMainchainAtom reports whether name is a protein main-chain atom.
func IsMainchainAtom(name string) bool { return inSet(mainchainAtoms, name) }

func regionOf(mol structure.MoleculeType, name string) region {
	switch mol {
	case structure.MoleculeNucleotide:
		switch {
		case IsBackboneAtom(name):
			return regionBackbone
		case IsSugarAtom(name):
			return regionSugar
		case IsBaseAtom(name):
			return regionBase
		case strings.HasSuffix(name, "'"):
			return regionSugar
		default:
			// Extra atoms of modified nucleotides hang off the base.
			return regionBase
		}
	case structure.MoleculeProtein:
		if IsMainchainAtom(name) {
			return regionMainchain
		}
		return regionSidechain
	case structure.MoleculeLigand, structure.MoleculeWater:
		return regionLigand
	default:
		return regionUnknown
	}
}

// ContextOf derives the bond context from the two atom names and the molecule
// types of their residues.  It is symmetric in its two atoms.
func ContextOf(nameA string, molA structure.MoleculeType, nameB string, molB structure.MoleculeType) Context {
	return contextFor(regionOf(molA, nameA), regionOf(molB, nameB))
}

func contextFor(a, b region) Context {
	if a > b {
		a, b = b, a
	}
	switch {
	case a == regionUnknown:
		return ContextUnknown
	case a == regionBase && b == regionBase:
		return ContextBaseBase
	case a == regionBase && b == regionBackbone:
		return ContextBaseBackbone
	case a == regionBase && b == regionSugar:
		return ContextBaseSugar
	case a == regionBase && b.isProtein():
		return ContextBaseProtein
	case a == regionBase && b == regionLigand:
		return ContextBaseLigand
	case a == regionBackbone && (b == regionBackbone || b == regionSugar):
		return ContextBackboneBackbone
	case a == regionBackbone && b.isProtein():
		return ContextBackboneProtein
	case a == regionSugar && b == regionSugar:
		return ContextSugarSugar
	case a == regionSugar && b.isProtein():
		return ContextSugarProtein
	case a == regionMainchain && b == regionMainchain:
		return ContextProteinMainchain
	case a.isProtein() && b.isProtein():
		return ContextProteinSidechain
	case a.isProtein() && b == regionLigand:
		return ContextProteinLigand
	case a == regionLigand && b == regionLigand:
		return ContextLigandLigand
	}
	// Nucleotide backbone or sugar against a ligand.
	return ContextUnknown
}

// isCovalentBackbonePair reports whether both atoms are phosphate or linking
// oxygens of the nucleic-acid backbone.
func isCovalentBackbonePair(a, b string) bool {
	return inSet(covalentBackboneOxygens, a) && inSet(covalentBackboneOxygens, b)
}

//Personal.AI order the ending
