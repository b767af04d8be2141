package hbond

import (
	"github.com/turtacn/hbond-engine/internal/domain/structure"
)

// baseRoles is keyed by upper-case base letter.  Atoms that are present in a
// base but never bond (glycosidic N9 of purines, N1 of pyrimidines) are left
// out and resolve to RoleUnknown.
var baseRoles = map[byte]map[string]AtomRole{
	'A': {"N1": RoleAcceptor, "N3": RoleAcceptor, "N6": RoleDonor, "N7": RoleAcceptor},
	'C': {"O2": RoleAcceptor, "N3": RoleAcceptor, "N4": RoleDonor},
	'G': {"N1": RoleDonor, "N2": RoleDonor, "N3": RoleAcceptor, "O6": RoleAcceptor, "N7": RoleAcceptor},
	'I': {"N1": RoleDonor, "N3": RoleAcceptor, "O6": RoleAcceptor, "N7": RoleAcceptor},
	'T': {"O2": RoleAcceptor, "N3": RoleDonor, "O4": RoleAcceptor},
	'U': {"O2": RoleAcceptor, "N3": RoleDonor, "O4": RoleAcceptor},
	'P': {"N1": RoleDonor, "O2": RoleAcceptor, "N3": RoleDonor, "O4": RoleAcceptor},
}

var nucleicBackboneRoles = map[string]AtomRole{
	"OP1": RoleAcceptor, "OP2": RoleAcceptor, "OP3": RoleAcceptor,
	"O1P": RoleAcceptor, "O2P": RoleAcceptor, "O3P": RoleAcceptor,
	"O5'": RoleAcceptor, "O4'": RoleAcceptor, "O3'": RoleAcceptor,
	"O2'": RoleEither,
}

var mainchainRoles = map[string]AtomRole{
	"N": RoleDonor, "O": RoleAcceptor, "OXT": RoleAcceptor,
}

var sidechainRoles = map[string]map[string]AtomRole{
	"SER": {"OG": RoleEither},
	"THR": {"OG1": RoleEither},
	"TYR": {"OH": RoleEither},
	"CYS": {"SG": RoleEither},
	"MET": {"SD": RoleAcceptor},
	"ASN": {"OD1": RoleAcceptor, "ND2": RoleDonor},
	"GLN": {"OE1": RoleAcceptor, "NE2": RoleDonor},
	"ASP": {"OD1": RoleAcceptor, "OD2": RoleAcceptor},
	"GLU": {"OE1": RoleAcceptor, "OE2": RoleAcceptor},
	"LYS": {"NZ": RoleDonor},
	"ARG": {"NE": RoleDonor, "NH1": RoleDonor, "NH2": RoleDonor},
	"HIS": {"ND1": RoleEither, "NE2": RoleEither},
	"HSD": {"ND1": RoleEither, "NE2": RoleEither},
	"HSE": {"ND1": RoleEither, "NE2": RoleEither},
	"HID": {"ND1": RoleEither, "NE2": RoleEither},
	"HIE": {"ND1": RoleEither, "NE2": RoleEither},
	"TRP": {"NE1": RoleDonor},
}

// RoleOf returns the hydrogen-bonding role of the named atom in residue r.
// Residues without a role table (ligands, unidentified residues, bases of
// unknown parentage) fall back to an element heuristic.
func RoleOf(r *structure.Residue, atomName string) AtomRole {
	switch r.MoleculeType {
	case structure.MoleculeNucleotide:
		if role, ok := nucleicBackboneRoles[atomName]; ok {
			return role
		}
		table, ok := baseRoles[upperBase(r.BaseLetter)]
		if !ok {
			return roleFromElement(r, atomName)
		}
		return table[atomName]
	case structure.MoleculeProtein:
		if atomName == "N" && r.Name == "PRO" {
			return RoleUnknown
		}
		if role, ok := mainchainRoles[atomName]; ok {
			return role
		}
		return sidechainRoles[r.Name][atomName]
	case structure.MoleculeWater:
		if atomName == "O" || atomName == "OW" {
			return RoleEither
		}
		return roleFromElement(r, atomName)
	default:
		return roleFromElement(r, atomName)
	}
}

func roleFromElement(r *structure.Residue, atomName string) AtomRole {
	a, ok := r.Atom(atomName)
	if !ok {
		return RoleUnknown
	}
	switch a.Element {
	case "N", "O", "S":
		return RoleEither
	case "F":
		return RoleAcceptor
	}
	return RoleUnknown
}

// IsValidRolePair reports whether a donor-slot role and an acceptor-slot role
// can form a hydrogen bond.  Only acceptor–acceptor and donor–donor fail;
// unknown roles are handled by the caller.
func IsValidRolePair(a, b AtomRole) bool {
	if a == RoleUnknown || b == RoleUnknown {
		return false
	}
	return !(a == RoleAcceptor && b == RoleAcceptor) && !(a == RoleDonor && b == RoleDonor)
}

func upperBase(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

//Personal.AI order the ending
