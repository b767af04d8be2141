package hbond

import "github.com/turtacn/hbond-engine/internal/domain/structure"

var baseEdges = map[byte]map[string]LWEdge{
	'A': {"N6": EdgeWatson, "N1": EdgeWatson, "C2": EdgeWatson, "N3": EdgeSugar, "N7": EdgeHoogsteen, "C8": EdgeHoogsteen},
	'G': {"O6": EdgeWatson, "N1": EdgeWatson, "N2": EdgeWatson, "N3": EdgeSugar, "N7": EdgeHoogsteen, "C8": EdgeHoogsteen},
	'I': {"O6": EdgeWatson, "N1": EdgeWatson, "C2": EdgeWatson, "N3": EdgeSugar, "N7": EdgeHoogsteen, "C8": EdgeHoogsteen},
	'C': {"N4": EdgeWatson, "N3": EdgeWatson, "O2": EdgeWatson, "C5": EdgeHoogsteen, "C6": EdgeHoogsteen},
	'U': {"O4": EdgeWatson, "N3": EdgeWatson, "O2": EdgeWatson, "C5": EdgeHoogsteen, "C6": EdgeHoogsteen},
	'T': {"O4": EdgeWatson, "N3": EdgeWatson, "O2": EdgeWatson, "C5": EdgeHoogsteen, "C6": EdgeHoogsteen, "C5M": EdgeHoogsteen, "C7": EdgeHoogsteen},
	'P': {"O4": EdgeWatson, "N3": EdgeWatson, "O2": EdgeWatson, "N1": EdgeHoogsteen, "C6": EdgeHoogsteen},
}

// EdgeOf returns the Leontis-Westhof edge of the named atom.  Only nucleotide
// atoms have edges; O2' sits on the sugar edge of every base.
func EdgeOf(r *structure.Residue, atomName string) LWEdge {
	if r == nil || r.MoleculeType != structure.MoleculeNucleotide {
		return EdgeUnknown
	}
	if atomName == "O2'" {
		return EdgeSugar
	}
	return baseEdges[upperBase(r.BaseLetter)][atomName]
}

//Personal.AI order the ending
