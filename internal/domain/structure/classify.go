package structure

import "strings"

// standardBases maps nucleotide residue names to their one-letter base code.
var standardBases = map[string]byte{
	"A": 'A', "C": 'C', "G": 'G', "U": 'U', "T": 'T', "I": 'I',
	"DA": 'A', "DC": 'C', "DG": 'G', "DT": 'T', "DU": 'U', "DI": 'I',
	"ADE": 'A', "CYT": 'C', "GUA": 'G', "URA": 'U', "THY": 'T',
	"RA": 'A', "RC": 'C', "RG": 'G', "RU": 'U',
}

// modifiedBases maps common modified nucleotides to the lower-case letter of
// their parent base.  PSU keeps its conventional upper-case 'P'.
var modifiedBases = map[string]byte{
	"PSU": 'P',
	"5MC": 'c', "OMC": 'c', "5CM": 'c',
	"1MA": 'a', "MIA": 'a', "6MA": 'a',
	"OMG": 'g', "2MG": 'g', "M2G": 'g', "7MG": 'g', "1MG": 'g', "YG": 'g',
	"H2U": 'u', "OMU": 'u', "5MU": 't', "4SU": 'u',
}

var aminoAcids = map[string]struct{}{
	"ALA": {}, "ARG": {}, "ASN": {}, "ASP": {}, "CYS": {},
	"GLN": {}, "GLU": {}, "GLY": {}, "HIS": {}, "ILE": {},
	"LEU": {}, "LYS": {}, "MET": {}, "PHE": {}, "PRO": {},
	"SER": {}, "THR": {}, "TRP": {}, "TYR": {}, "VAL": {},
	"MSE": {}, "SEC": {}, "PYL": {}, "HSD": {}, "HSE": {}, "HIE": {}, "HID": {},
}

var waterNames = map[string]struct{}{
	"HOH": {}, "WAT": {}, "H2O": {}, "DOD": {}, "TIP": {}, "TIP3": {},
}

// Classify derives a residue's molecule type and base letter from its name
// and, for unrecognised names, from its atom names.
func Classify(resName string, atomNames []string) (MoleculeType, byte) {
	name := strings.ToUpper(strings.TrimSpace(resName))

	if b, ok := standardBases[name]; ok {
		return MoleculeNucleotide, b
	}
	if b, ok := modifiedBases[name]; ok {
		return MoleculeNucleotide, b
	}
	if _, ok := aminoAcids[name]; ok {
		return MoleculeProtein, UnknownBase
	}
	if _, ok := waterNames[name]; ok {
		return MoleculeWater, UnknownBase
	}

	has := make(map[string]bool, len(atomNames))
	for _, a := range atomNames {
		has[NormalizeAtomName(a)] = true
	}
	switch {
	case has["C1'"] && has["C4'"] && (has["N9"] || has["N1"]):
		return MoleculeNucleotide, UnknownBase
	case has["N"] && has["CA"] && has["C"] && has["O"]:
		return MoleculeProtein, UnknownBase
	case len(atomNames) == 0:
		return MoleculeUnknown, UnknownBase
	}
	return MoleculeLigand, UnknownBase
}

// IsStandardBase reports whether letter is one of the unmodified base codes.
func IsStandardBase(letter byte) bool {
	switch letter {
	case 'A', 'C', 'G', 'U', 'T', 'I':
		return true
	}
	return false
}

// IsPurine reports whether letter (either case) names a purine base.
func IsPurine(letter byte) bool {
	switch letter {
	case 'A', 'G', 'I', 'a', 'g', 'i':
		return true
	}
	return false
}

//Personal.AI order the ending
