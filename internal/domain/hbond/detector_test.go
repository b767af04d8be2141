package hbond

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hbond-engine/internal/testutil"
)

func TestDetector_GuanineCytosineModern(t *testing.T) {
	g, c := testutil.GuanineCytosine()
	d := NewDetector(MustPreset(PresetModern))

	bonds := d.DetectPair(g, c)
	require.Len(t, bonds, 3)

	want := map[string]float64{"O6-N4": 2.85, "N1-N3": 2.90, "N2-O2": 2.95}
	for _, hb := range bonds {
		key := hb.DonorAtom + "-" + hb.AcceptorAtom
		dist, ok := want[key]
		require.True(t, ok, "unexpected bond %s", key)
		assert.InDelta(t, dist, hb.Distance, 1e-9)
		assert.Equal(t, ClassStandard, hb.Classification)
		assert.Equal(t, NoConflict, hb.ConflictState)
		assert.Equal(t, ContextBaseBase, hb.Context)
		assert.Equal(t, EdgeWatson, hb.DonorEdge)
		assert.Equal(t, EdgeWatson, hb.AcceptorEdge)
		require.NotNil(t, hb.DonorAngle)
		require.NotNil(t, hb.AcceptorAngle)
		assert.GreaterOrEqual(t, *hb.DonorAngle, 90.0)
		assert.True(t, hb.DihedralValid)
		require.NotNil(t, hb.Quality)
		assert.Equal(t, "A.G1", hb.DonorResidueID)
		assert.Equal(t, "B.C1", hb.AcceptorResidueID)
	}
}

func TestDetector_GuanineCytosineLegacy(t *testing.T) {
	g, c := testutil.GuanineCytosine()
	d := NewDetector(MustPreset(PresetLegacy))

	all := d.Analyze(g, c)
	// Three pairing contacts plus four cross contacts under 4 Å.
	require.Len(t, all, 7)

	valid := d.DetectPair(g, c)
	require.Len(t, valid, 3)
	for _, hb := range valid {
		assert.Equal(t, ClassStandard, hb.Classification)
		assert.Equal(t, IsConflictWinner, hb.ConflictState)
		assert.Less(t, hb.Distance, 3.0)
		assert.Nil(t, hb.Quality)
	}
	for _, hb := range all {
		if hb.IsSelected() {
			continue
		}
		assert.True(t, hb.ConflictState.IsLinked())
		assert.Equal(t, ClassInvalid, hb.Classification)
	}
}

func TestDetector_SharedDonorOutsidePromotionWindow(t *testing.T) {
	g, u := testutil.SharedDonor()
	d := NewDetector(MustPreset(PresetModern))

	all := d.Analyze(g, u)
	require.Len(t, all, 2)

	long, short := all[0], all[1]
	assert.Equal(t, "O2", long.AcceptorAtom)
	assert.InDelta(t, 3.4, long.Distance, 1e-9)
	assert.Equal(t, SharesDonorWithWinner, long.ConflictState)
	assert.Equal(t, ClassInvalid, long.Classification)

	assert.InDelta(t, 2.8, short.Distance, 1e-9)
	assert.Equal(t, IsConflictWinner, short.ConflictState)
	assert.Equal(t, ClassStandard, short.Classification)

	valid := d.DetectPair(g, u)
	require.Len(t, valid, 1)
	assert.Equal(t, "O4", valid[0].AcceptorAtom)
}

func TestDetector_SharedDonorPromoted(t *testing.T) {
	g, u := testutil.SharedDonor()
	p := MustPreset(PresetModern)
	p.PromotionDistance = 3.45
	d := NewDetector(p)

	valid := d.DetectPair(g, u)
	require.Len(t, valid, 2)
	assert.Equal(t, SharesDonorWithWinner, valid[0].ConflictState)
	assert.Equal(t, ClassStandard, valid[0].Classification)
	assert.Equal(t, IsConflictWinner, valid[1].ConflictState)
}

func TestDetector_IntraResidue(t *testing.T) {
	r := testutil.Residue("G", "A", 3,
		testutil.AtomSpec{Name: "N3", X: 0, Y: 0, Z: 0},
		testutil.AtomSpec{Name: "O2'", X: 2.9, Y: 0, Z: 0},
		testutil.AtomSpec{Name: "O4'", X: 2.9, Y: 2.5, Z: 0},
	)

	off := NewDetector(MustPreset(PresetModern))
	assert.Empty(t, off.DetectPair(r, r))

	p := MustPreset(PresetModern)
	p.DetectIntraResidue = true
	on := NewDetector(p)
	bonds := on.DetectPair(r, r)

	// O2'–O4' joins two sugar atoms and is never considered.
	require.Len(t, bonds, 1)
	hb := bonds[0]
	assert.Equal(t, "N3", hb.DonorAtom)
	assert.Equal(t, "O2'", hb.AcceptorAtom)
	assert.Equal(t, ContextBaseSugar, hb.Context)
	assert.True(t, hb.IsIntraResidue())
	assert.Equal(t, EdgeSugar, hb.DonorEdge)
	assert.Equal(t, EdgeSugar, hb.AcceptorEdge)
}

func TestDetector_AcceptorAcceptorIsUnlikely(t *testing.T) {
	a := testutil.Residue("A", "A", 1, testutil.AtomSpec{Name: "N7", X: 0, Y: 0, Z: 0})
	c := testutil.Residue("C", "B", 9, testutil.AtomSpec{Name: "O2", X: 3.0, Y: 0, Z: 0})

	included := NewDetector(MustPreset(PresetGeneral)).DetectPair(a, c)
	require.Len(t, included, 1)
	assert.Equal(t, ClassUnlikelyChemistry, included[0].Classification)
	assert.Equal(t, RoleAcceptor, included[0].DonorRole)
	assert.Equal(t, EdgeHoogsteen, included[0].DonorEdge)

	excluded := NewDetector(MustPreset(PresetModern)).Analyze(a, c)
	require.Len(t, excluded, 1)
	assert.Equal(t, ClassInvalid, excluded[0].Classification)
}

func TestDetector_UnknownRoleIsNonStandard(t *testing.T) {
	a := testutil.Residue("A", "A", 1, testutil.AtomSpec{Name: "N9", X: 0, Y: 0, Z: 0})
	c := testutil.Residue("C", "B", 9, testutil.AtomSpec{Name: "N4", X: 3.0, Y: 0, Z: 0})

	bonds := NewDetector(MustPreset(PresetDSSR)).DetectPair(a, c)
	require.Len(t, bonds, 1)
	assert.Equal(t, RoleUnknown, bonds[0].DonorRole)
	assert.Equal(t, ClassNonStandard, bonds[0].Classification)
}

func TestDetector_AngleFilter(t *testing.T) {
	// C2 folds back towards the acceptor, giving a 45° donor angle.
	g := testutil.Residue("G", "A", 1,
		testutil.AtomSpec{Name: "N1", X: 0, Y: 0, Z: 0},
		testutil.AtomSpec{Name: "C2", X: 1.0, Y: 1.0, Z: 0},
	)
	c := testutil.Residue("C", "B", 1, testutil.AtomSpec{Name: "N3", X: 2.9, Y: 0, Z: 0})

	filtered := NewDetector(MustPreset(PresetModern)).Analyze(g, c)
	require.Len(t, filtered, 1)
	require.NotNil(t, filtered[0].DonorAngle)
	assert.InDelta(t, 45.0, *filtered[0].DonorAngle, 1e-9)
	assert.Equal(t, ClassInvalid, filtered[0].Classification)

	p := MustPreset(PresetModern)
	p.EnableAngleFilter = false
	assert.Len(t, NewDetector(p).DetectPair(g, c), 1)
}

func TestDetector_CovalentBackboneRejected(t *testing.T) {
	a, b := testutil.Dinucleotide(2)

	p := MustPreset(PresetModern)
	p.IncludeBackboneBackbone = false
	assert.Empty(t, NewDetector(p).Analyze(a, b))
}

func TestDetector_PostValidationDropsLongBonds(t *testing.T) {
	g := testutil.Residue("G", "A", 1,
		testutil.AtomSpec{Name: "N1", X: 0, Y: 0, Z: 0},
		testutil.AtomSpec{Name: "N7", X: 0, Y: 6, Z: 0},
	)
	c := testutil.Residue("C", "B", 1,
		testutil.AtomSpec{Name: "N3", X: 2.9, Y: 0, Z: 0},
		testutil.AtomSpec{Name: "N4", X: 3.8, Y: 6, Z: 0},
	)

	p := MustPreset(PresetDSSR).WithAllMaxDistances(4.0)
	all := NewDetector(p).Analyze(g, c)

	var long *HBond
	for i := range all {
		if all[i].DonorAtom == "N7" {
			long = &all[i]
		}
	}
	require.NotNil(t, long)
	assert.True(t, long.IsSelected())
	assert.Equal(t, ClassInvalid, long.Classification)
}

func TestDetector_Deterministic(t *testing.T) {
	g, c := testutil.GuanineCytosine()
	d := NewDetector(MustPreset(PresetLegacy))
	assert.Equal(t, d.Analyze(g, c), d.Analyze(g, c))
}

func TestDetector_Trace(t *testing.T) {
	g, c := testutil.GuanineCytosine()
	var stages []string
	d := NewDetector(MustPreset(PresetModern), WithDetectorTrace(func(ev TraceEvent) {
		stages = append(stages, ev.Stage)
	}))
	d.DetectPair(g, c)

	assert.Equal(t, []string{
		StageCandidates, StageConflicts, StagePromotion, StageClassify, StagePostValidate,
		StageAngleFilter, StageQuality, StageUnlikely, StageEmit,
	}, stages)
}

func TestDetector_TracePromotionWindow(t *testing.T) {
	g, u := testutil.SharedDonor()
	for _, tt := range []struct {
		name      string
		promotion float64
		want      int
	}{
		{"closed", 0, 0},
		{"default", 3.2, 0},
		{"widened", 3.45, 1},
	} {
		t.Run(tt.name, func(t *testing.T) {
			p := MustPreset(PresetModern)
			p.PromotionDistance = tt.promotion
			got := -1
			d := NewDetector(p, WithDetectorTrace(func(ev TraceEvent) {
				if ev.Stage == StagePromotion {
					got = ev.Count
				}
			}))
			d.Analyze(g, u)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindCandidates_ContextFilter(t *testing.T) {
	g := testutil.Residue("G", "A", 1, testutil.AtomSpec{Name: "N1", X: 0, Y: 0, Z: 0})
	c := testutil.Residue("C", "B", 1,
		testutil.AtomSpec{Name: "N3", X: 2.9, Y: 0, Z: 0},
		testutil.AtomSpec{Name: "OP1", X: 0, Y: 3.0, Z: 0},
	)

	all := FindCandidates(g, c, MustPreset(PresetModern))
	require.Len(t, all, 2)
	assert.Equal(t, ContextBaseBackbone, all[1].Context)

	p := MustPreset(PresetModern).WithAllowedContexts(ContextBaseBase)
	only := FindCandidates(g, c, p)
	require.Len(t, only, 1)
	assert.Equal(t, "N3", only[0].AcceptorAtom)
	assert.Equal(t, ContextBaseBase, only[0].Context)

	bonds := NewDetector(p).DetectPair(g, c)
	require.Len(t, bonds, 1)
	assert.Equal(t, ContextBaseBase, bonds[0].Context)

	assert.Empty(t, FindCandidates(g, c, MustPreset(PresetModern).WithAllowedContexts(ContextSugarSugar)))
}

func TestFindCandidates_DistanceBounds(t *testing.T) {
	g := testutil.Residue("G", "A", 1, testutil.AtomSpec{Name: "N1", X: 0, Y: 0, Z: 0})
	for _, tt := range []struct {
		d    float64
		want int
	}{
		{1.9, 0},
		{2.0, 1},
		{3.5, 1},
		{3.51, 0},
	} {
		c := testutil.Residue("C", "B", 1, testutil.AtomSpec{Name: "N3", X: tt.d, Y: 0, Z: 0})
		assert.Len(t, FindCandidates(g, c, MustPreset(PresetModern)), tt.want, "distance %.2f", tt.d)
	}
}

func TestFindCandidates_BaseAtomsOnly(t *testing.T) {
	g := testutil.Residue("G", "A", 1,
		testutil.AtomSpec{Name: "N1", X: 0, Y: 0, Z: 0},
		testutil.AtomSpec{Name: "O2'", X: 0, Y: 10, Z: 0},
		testutil.AtomSpec{Name: "OP1", X: 0, Y: 20, Z: 0},
	)
	c := testutil.Residue("C", "B", 1,
		testutil.AtomSpec{Name: "N3", X: 2.9, Y: 0, Z: 0},
		testutil.AtomSpec{Name: "O4'", X: 2.9, Y: 10, Z: 0},
		testutil.AtomSpec{Name: "OP2", X: 2.9, Y: 20, Z: 0},
	)

	legacy := MustPreset(PresetLegacy)
	require.True(t, legacy.BaseAtomsOnly)
	bases := FindCandidates(g, c, legacy)
	require.Len(t, bases, 1)
	assert.Equal(t, "N1", bases[0].DonorAtom)
	assert.Equal(t, "N3", bases[0].AcceptorAtom)

	// OP1–OP2 stays out as a covalent backbone pair.
	legacy.BaseAtomsOnly = false
	wider := FindCandidates(g, c, legacy)
	require.Len(t, wider, 2)
	assert.Equal(t, "O2'", wider[1].DonorAtom)
	assert.Equal(t, ContextSugarSugar, wider[1].Context)
}

func TestDetector_Classification(t *testing.T) {
	for _, tt := range []struct {
		name      string
		preset    string
		donor     testutil.AtomSpec
		donorRes  string
		acceptor  testutil.AtomSpec
		accRes    string
		ctx       Context
		class     Classification
		donorRole AtomRole
		accRole   AtomRole
	}{
		{
			name: "backbone acceptor pair", preset: PresetModern,
			donor: testutil.AtomSpec{Name: "OP1"}, donorRes: "G",
			acceptor: testutil.AtomSpec{Name: "OP2", X: 3.0}, accRes: "G",
			ctx: ContextBackboneBackbone, class: ClassNonStandard,
			donorRole: RoleAcceptor, accRole: RoleAcceptor,
		},
		{
			name: "base acceptor pair", preset: PresetGeneral,
			donor: testutil.AtomSpec{Name: "N7"}, donorRes: "A",
			acceptor: testutil.AtomSpec{Name: "O2", X: 3.0}, accRes: "C",
			ctx: ContextBaseBase, class: ClassUnlikelyChemistry,
			donorRole: RoleAcceptor, accRole: RoleAcceptor,
		},
		{
			name: "watson-crick donor", preset: PresetModern,
			donor: testutil.AtomSpec{Name: "N1"}, donorRes: "G",
			acceptor: testutil.AtomSpec{Name: "N3", X: 2.9}, accRes: "C",
			ctx: ContextBaseBase, class: ClassStandard,
			donorRole: RoleDonor, accRole: RoleAcceptor,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			a := testutil.Residue(tt.donorRes, "A", 1, tt.donor)
			b := testutil.Residue(tt.accRes, "B", 2, tt.acceptor)

			bonds := NewDetector(MustPreset(tt.preset)).DetectPair(a, b)
			require.Len(t, bonds, 1)
			assert.Equal(t, tt.ctx, bonds[0].Context)
			assert.Equal(t, tt.class, bonds[0].Classification)
			assert.Equal(t, tt.donorRole, bonds[0].DonorRole)
			assert.Equal(t, tt.accRole, bonds[0].AcceptorRole)
		})
	}
}

func TestDetector_RejectLowestQualityTier(t *testing.T) {
	g := testutil.Residue("G", "A", 1, testutil.AtomSpec{Name: "N1", X: 0, Y: 0, Z: 0})
	c := testutil.Residue("C", "B", 1, testutil.AtomSpec{Name: "N3", X: 3.45, Y: 0, Z: 0})

	strict := QualityThresholds{Excellent: 95, Good: 90, Fair: 85, Poor: 80}
	for _, tt := range []struct {
		name   string
		reject bool
		want   int
	}{
		{"rejected", true, 0},
		{"kept", false, 1},
	} {
		t.Run(tt.name, func(t *testing.T) {
			p := MustPreset(PresetModern)
			p.QualityThresholds = strict
			p.RejectLowestQualityTier = tt.reject

			all := NewDetector(p).Analyze(g, c)
			require.Len(t, all, 1)
			require.NotNil(t, all[0].Quality)
			assert.InDelta(t, 41.7, all[0].Quality.Score, 1e-9)
			assert.Equal(t, TierUnlikely, all[0].Quality.Tier)
			assert.Len(t, NewDetector(p).DetectPair(g, c), tt.want)
		})
	}
}

func TestLoggingTrace(t *testing.T) {
	log := testutil.NewMockLogger()
	fn := LoggingTrace(log)
	fn(TraceEvent{Stage: StageCandidates, ResidueA: "A.G1", ResidueB: "B.C1", Count: 3})

	msgs := log.MessagesAt("debug")
	require.Len(t, msgs, 1)
	assert.Equal(t, "hbond", msgs[0].Logger)
	v, _ := msgs[0].Field("count")
	assert.Equal(t, 3, v)

	assert.Nil(t, LoggingTrace(nil))
}
