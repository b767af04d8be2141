// Package hbond defines the request and response bodies of the detection API.
// Only plain data lives here; conversion from the detection domain happens in
// the application layer.
package hbond

// ─────────────────────────────────────────────────────────────────────────────
// Requests
// ─────────────────────────────────────────────────────────────────────────────

// DetectRequest asks for hydrogen bonds in PDB-format text.
type DetectRequest struct {
	PDB             string `json:"pdb" binding:"required"`
	Name            string `json:"name,omitempty"`
	Preset          string `json:"preset,omitempty"`
	Filter          string `json:"filter,omitempty" binding:"omitempty,oneof=none generic scored"`
	MaxBondsPerAtom *int   `json:"max_bonds_per_atom,omitempty" binding:"omitempty,gte=0"`
	Intra           *bool  `json:"intra,omitempty"`
	// Contexts limits detection to these interaction types, e.g.
	// ["base-base"].  Empty allows all.
	Contexts []string `json:"contexts,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Responses
// ─────────────────────────────────────────────────────────────────────────────

// Quality is a bond's geometric score.
type Quality struct {
	Score float64 `json:"score"`
	Tier  string  `json:"tier"`
}

// Bond is one reported hydrogen bond.
type Bond struct {
	DonorResidue    string   `json:"donor_residue"`
	DonorAtom       string   `json:"donor_atom"`
	AcceptorResidue string   `json:"acceptor_residue"`
	AcceptorAtom    string   `json:"acceptor_atom"`
	Distance        float64  `json:"distance"`
	Context         string   `json:"context"`
	Classification  string   `json:"classification"`
	ConflictState   string   `json:"conflict_state"`
	DonorRole       string   `json:"donor_role"`
	AcceptorRole    string   `json:"acceptor_role"`
	DonorEdge       string   `json:"donor_edge,omitempty"`
	AcceptorEdge    string   `json:"acceptor_edge,omitempty"`
	DonorAngle      *float64 `json:"donor_angle,omitempty"`
	AcceptorAngle   *float64 `json:"acceptor_angle,omitempty"`
	Dihedral        *float64 `json:"dihedral,omitempty"`
	Quality         *Quality `json:"quality,omitempty"`
	Notation        string   `json:"notation"`
}

// ResiduePair groups the bonds of one residue pair.
type ResiduePair struct {
	ResidueA string `json:"residue_a"`
	ResidueB string `json:"residue_b"`
	Count    int    `json:"count"`
	Notation string `json:"notation"`
}

// Summary carries the aggregate counters of a run.
type Summary struct {
	Residues         int            `json:"residues"`
	Atoms            int            `json:"atoms"`
	PairsChecked     int            `json:"pairs_checked"`
	PairsWithBonds   int            `json:"pairs_with_bonds"`
	Bonds            int            `json:"bonds"`
	StandardCount    int            `json:"standard_count"`
	GoodCount        int            `json:"good_count"`
	ByClassification map[string]int `json:"by_classification"`
	FilterRemoved    int            `json:"filter_removed"`
}

// DetectResponse is the outcome of one detection run.
type DetectResponse struct {
	RunID      string        `json:"run_id"`
	Structure  string        `json:"structure"`
	Preset     string        `json:"preset"`
	Filter     string        `json:"filter"`
	DurationMS float64       `json:"duration_ms"`
	Cached     bool          `json:"cached"`
	Summary    Summary       `json:"summary"`
	Pairs      []ResiduePair `json:"pairs"`
	Bonds      []Bond        `json:"bonds"`
}

// Preset describes a registered parameter preset.
type Preset struct {
	Name                     string             `json:"name"`
	Default                  bool               `json:"default"`
	MinDistance              float64            `json:"min_distance"`
	MaxDistances             map[string]float64 `json:"max_distances"`
	PromotionDistance        float64            `json:"promotion_distance"`
	AllowedElements          []string           `json:"allowed_elements"`
	MinAngle                 float64            `json:"min_angle"`
	EnableAngleFilter        bool               `json:"enable_angle_filter"`
	EnableQualityScoring     bool               `json:"enable_quality_scoring"`
	IncludeBackboneBackbone  bool               `json:"include_backbone_backbone"`
	IncludeUnlikelyChemistry bool               `json:"include_unlikely_chemistry"`
	BaseAtomsOnly            bool               `json:"base_atoms_only"`
}

//Personal.AI order the ending
