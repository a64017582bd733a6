package engine

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dppu/internal/symbolic"
	"dppu/internal/torsion"
)

func newPipeline(t *testing.T, cfg Config, log StepLogger, store CheckpointStore) *Pipeline {
	t.Helper()
	p, err := New(cfg, log, store)
	require.NoError(t, err)
	return p
}

func TestStepNames(t *testing.T) {
	names := StepNames()
	require.Len(t, names, NumSteps)
	assert.Equal(t, "setup_frame", names[0])
	assert.Equal(t, "connection_ec", names[8])
	assert.Equal(t, "stability", names[NumSteps-1])
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{Topology: "S3xS1", Mode: torsion.ModeAxial, Variant: torsion.Variant(99)}, nil, nil)
	assert.Error(t, err, "unknown variant")

	_, err = New(Config{Topology: "S3xS1", Mode: torsion.Mode(99), Variant: torsion.VariantFull}, nil, nil)
	assert.Error(t, err, "unknown mode")

	_, err = New(Config{Topology: "K3xS1", Mode: torsion.ModeAxial, Variant: torsion.VariantFull}, nil, nil)
	assert.Error(t, err, "unknown topology")
}

func TestRunStartStepBounds(t *testing.T) {
	p := newPipeline(t, Config{Topology: "T3xS1", Mode: torsion.ModeAxial, Variant: torsion.VariantFull}, nil, nil)

	_, err := p.Run(0)
	assert.Error(t, err)
	_, err = p.Run(NumSteps + 1)
	assert.Error(t, err)
}

func TestResumeWithCheckpointingDisabled(t *testing.T) {
	p := newPipeline(t, Config{Topology: "T3xS1", Mode: torsion.ModeAxial, Variant: torsion.VariantFull}, nil, nil)

	_, err := p.Run(2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoCheckpoint)
}

func TestRunSphericalMixedFull(t *testing.T) {
	p := newPipeline(t, Config{
		Topology: "S3xS1",
		Mode:     torsion.ModeMixed,
		Variant:  torsion.VariantFull,
	}, nil, nil)

	st, err := p.Run(1)
	require.NoError(t, err)

	assert.Equal(t, "S3xS1", st.Topology)
	assert.Equal(t, 4, st.Dim)
	require.NotNil(t, st.RicciScalarLC)
	assert.False(t, symbolic.IsZero(st.RicciScalarLC), "the sphere is curved")
	require.NotNil(t, st.TorsionScalar)
	assert.False(t, symbolic.IsZero(st.TorsionScalar))

	// The adopted density for the full variant is TT - Ree.
	require.NotNil(t, st.NiehYanDensity)
	assert.True(t, symbolic.Equal(st.NiehYanDensity, st.NYDensityFull))

	require.NotNil(t, st.Potential)
	require.NotNil(t, st.Equilibria)

	fn, err := NewPotentialFunc(st)
	require.NoError(t, err)
	v := fn(1, 1, 1, 1, 1, 1, 0, 1)
	assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
}

func TestRunToroidalAxial(t *testing.T) {
	p := newPipeline(t, Config{
		Topology: "T3xS1",
		Mode:     torsion.ModeAxial,
		Variant:  torsion.VariantFull,
	}, nil, nil)

	st, err := p.Run(1)
	require.NoError(t, err)

	// The flat torus has no structure constants, so the whole Levi-Civita
	// sector vanishes and the curvature is pure contortion.
	assert.Equal(t, 0, st.StructureConstants.NonZeroCount())
	assert.True(t, symbolic.IsZero(st.RicciScalarLC))
	assert.True(t, symbolic.IsZero(st.WeylScalar))
	assert.False(t, symbolic.IsZero(st.RicciScalar))

	// A purely spatial axial ansatz has no four-dimensional pseudoscalar.
	assert.True(t, symbolic.IsZero(st.NYDensityTT))
	assert.True(t, symbolic.IsZero(st.NYDensityRee))
	assert.True(t, symbolic.IsZero(st.NiehYanDensity))

	assert.False(t, symbolic.IsZero(st.TorsionScalar))
	require.NotNil(t, st.Equilibria)
}

func TestRunVariantTT(t *testing.T) {
	p := newPipeline(t, Config{
		Topology: "S3xS1",
		Mode:     torsion.ModeAxial,
		Variant:  torsion.VariantTT,
	}, nil, nil)

	st, err := p.Run(1)
	require.NoError(t, err)
	assert.True(t, symbolic.Equal(st.NiehYanDensity, st.NYDensityTT))
}

type recordingLogger struct {
	NullLogger
	steps     []string
	successes int
	finalOK   bool
	finalized bool
}

func (r *recordingLogger) Step(num, total int, name string) { r.steps = append(r.steps, name) }
func (r *recordingLogger) Success(string, time.Duration)    { r.successes++ }
func (r *recordingLogger) Finalize(ok bool, _ time.Duration) {
	r.finalized = true
	r.finalOK = ok
}

func TestRunReportsProgress(t *testing.T) {
	log := &recordingLogger{}
	p := newPipeline(t, Config{
		Topology: "T3xS1",
		Mode:     torsion.ModeVectorTrace,
		Variant:  torsion.VariantFull,
	}, log, nil)

	_, err := p.Run(1)
	require.NoError(t, err)

	assert.Equal(t, StepNames(), log.steps)
	assert.Equal(t, NumSteps, log.successes)
	assert.True(t, log.finalized)
	assert.True(t, log.finalOK)
}

func TestSQLiteCheckpointResume(t *testing.T) {
	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "checkpoints.db"))
	require.NoError(t, err)
	defer store.Close()

	cfg := Config{
		Topology: "T3xS1",
		Mode:     torsion.ModeAxial,
		Variant:  torsion.VariantFull,
		RunID:    "resume-test",
	}

	first, err := newPipeline(t, cfg, nil, store).Run(1)
	require.NoError(t, err)

	infos, err := store.List("resume-test")
	require.NoError(t, err)
	require.Len(t, infos, NumSteps)
	assert.Equal(t, "setup_frame", infos[0].Name)
	assert.Equal(t, NumSteps, infos[NumSteps-1].Step)

	ok, err := store.Exists("resume-test", NumSteps)
	require.NoError(t, err)
	assert.True(t, ok)

	// Resume late in the run and check the derivation lands in the same
	// place.
	resumed, err := newPipeline(t, cfg, nil, store).Run(12)
	require.NoError(t, err)
	assert.Equal(t, first.Potential.String(), resumed.Potential.String())
	assert.Equal(t, first.Equilibria.Type, resumed.Equilibria.Type)

	require.NoError(t, store.Clear("resume-test"))
	infos, err = store.List("resume-test")
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestSQLiteLoadMissing(t *testing.T) {
	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "checkpoints.db"))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Load("nope", 3)
	assert.ErrorIs(t, err, ErrNoCheckpoint)
}

func TestStateRoundTrip(t *testing.T) {
	p := newPipeline(t, Config{
		Topology: "T3xS1",
		Mode:     torsion.ModeAxial,
		Variant:  torsion.VariantFull,
	}, nil, nil)
	st, err := p.Run(1)
	require.NoError(t, err)

	data, err := MarshalState(st)
	require.NoError(t, err)
	back, err := UnmarshalState(data)
	require.NoError(t, err)

	assert.Equal(t, st.Topology, back.Topology)
	assert.Equal(t, st.Dim, back.Dim)
	assert.Equal(t, st.RicciScalar.String(), back.RicciScalar.String())
	assert.Equal(t, st.Potential.String(), back.Potential.String())
	if diff := cmp.Diff(encodeTensor3(st.TorsionTensor), encodeTensor3(back.TorsionTensor)); diff != "" {
		t.Errorf("torsion tensor changed across round trip (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(encodeTensor4(st.Riemann), encodeTensor4(back.Riemann)); diff != "" {
		t.Errorf("curvature tensor changed across round trip (-want +got):\n%s", diff)
	}
	assert.Equal(t, st.Derived["q"].String(), back.Derived["q"].String())

	// Positivity survives through the assumptions table, so restored
	// expressions simplify the same way.
	r, ok := back.Params["r"]
	require.True(t, ok)
	assert.True(t, r.Positive)
	eta, ok := back.Params["eta"]
	require.True(t, ok)
	assert.False(t, eta.Positive)
	assert.Equal(t, st.Equilibria.Type, back.Equilibria.Type)
}

func TestNewPotentialFuncRequiresPotential(t *testing.T) {
	_, err := NewPotentialFunc(&State{})
	assert.Error(t, err)
}

func TestCurvatureEvaluator(t *testing.T) {
	p := newPipeline(t, Config{
		Topology: "T3xS1",
		Mode:     torsion.ModeAxial,
		Variant:  torsion.VariantFull,
	}, nil, nil)
	st, err := p.Run(1)
	require.NoError(t, err)

	ce, err := NewCurvatureEvaluator(st)
	require.NoError(t, err)

	// r, V, eta, theta_NY, L, kappa, epsilon, alpha
	base := [8]float64{1, 1, 1, 1, 1, 1, 0, 1}
	status, err := ce.SelfDuality(base)
	require.NoError(t, err)
	assert.Greater(t, status.E, 0.0, "contortion-squared curvature has positive energy")

	grid, err := ce.ScanParameterPlane([]float64{0.5, 1}, []float64{0, 1, 2}, base)
	require.NoError(t, err)
	require.Len(t, grid, 6)
	assert.Equal(t, 0.5, grid[0].Eta)
	assert.Equal(t, 0.0, grid[0].V)
}
