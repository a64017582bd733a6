package curvature

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dppu/internal/connection"
	"dppu/internal/oracle"
	"dppu/internal/symbolic"
	"dppu/internal/tensor"
	"dppu/internal/topology"
	"dppu/internal/torsion"
)

func testOracle() *oracle.Oracle {
	cfg := oracle.DefaultConfig()
	cfg.Seed = 1
	return oracle.New(cfg)
}

func TestLeviCivitaRiemannAntisymmetry(t *testing.T) {
	o := testOracle()
	for _, name := range topology.Names() {
		t.Run(name, func(t *testing.T) {
			f, err := topology.ForName(name, torsion.ModeMixed)
			require.NoError(t, err)

			lc := connection.LeviCivita(f.StructureConstants)
			riem := Riemann(lc, f.StructureConstants)
			lowered := LowerFirstIndex(riem, f.Metric)
			assert.NoError(t, VerifyAntisymmetryStrict(lowered, o))
		})
	}
}

func TestAntisymmetryGateRejectsBrokenTensor(t *testing.T) {
	o := testOracle()
	r := symbolic.PosSym("r")

	broken := tensor.NewTensor4(topology.Dim)
	// Symmetric in the first pair: R_0101 = R_1001 = 1/r^2.
	broken.Set(0, 1, 0, 1, symbolic.PowInt(r, -2))
	broken.Set(1, 0, 0, 1, symbolic.PowInt(r, -2))

	err := VerifyAntisymmetryStrict(broken, o)
	require.Error(t, err)

	var gate *AntisymmetryError
	require.ErrorAs(t, err, &gate)
	require.NotEmpty(t, gate.Violations)
	v := gate.Violations[0]
	assert.Equal(t, "ab", v.Pair)
	assert.Equal(t, [4]int{0, 1, 0, 1}, v.Indices)
	require.NotNil(t, v.Witness, "2/r^2 must have a numeric witness")
	assert.Contains(t, err.Error(), "antisymmetry")
}

func TestRoundSphereCurvature(t *testing.T) {
	f, err := topology.Spherical(torsion.ModeAxial)
	require.NoError(t, err)
	r := f.Params["r"]
	round := map[string]symbolic.Expr{"epsilon": symbolic.Zero}

	lc := connection.LeviCivita(f.StructureConstants)
	riem := Riemann(lc, f.StructureConstants)

	t.Run("ricci scalar", func(t *testing.T) {
		scalar := symbolic.Simplify(symbolic.Subs(RicciScalar(riem), round))
		want := symbolic.Mul(symbolic.Int(24), symbolic.PowInt(r, -2))
		assert.True(t, symbolic.Equal(scalar, want), "got %s, want %s", scalar, want)
	})

	t.Run("ricci tensor is spatial and symmetric", func(t *testing.T) {
		ric := Ricci(riem)
		for i := 0; i < topology.Dim; i++ {
			assert.True(t, symbolic.IsZero(ric.At(i, 3)))
			assert.True(t, symbolic.IsZero(ric.At(3, i)))
		}
		_, antisym := DecomposeRicci(ric)
		for i := 0; i < topology.Dim; i++ {
			for j := 0; j < topology.Dim; j++ {
				res := symbolic.Expand(symbolic.Subs(antisym.At(i, j), round))
				assert.True(t, symbolic.IsZero(res),
					"round-sphere Ricci must be symmetric, antisym(%d,%d) = %s", i, j, res)
			}
		}
	})

	t.Run("weyl vanishes on the round sphere cross circle", func(t *testing.T) {
		o := testOracle()
		lowered := LowerFirstIndex(riem, f.Metric)
		ric := Ricci(riem)
		scalar := RicciScalar(riem)

		w, err := Weyl(lowered, ric, scalar, f.Metric)
		require.NoError(t, err)
		for a := 0; a < topology.Dim; a++ {
			for b := 0; b < topology.Dim; b++ {
				for c := 0; c < topology.Dim; c++ {
					for d := 0; d < topology.Dim; d++ {
						comp := symbolic.Subs(w.At(a, b, c, d), round)
						p := o.ProveZero(comp)
						assert.True(t, p.Proved,
							"W(%d,%d,%d,%d) = %s should vanish at epsilon=0", a, b, c, d, comp)
					}
				}
			}
		}

		ws, err := WeylScalar(w, f.Metric)
		require.NoError(t, err)
		p := o.ProveZero(symbolic.Subs(ws, round))
		assert.True(t, p.Proved, "Weyl scalar should vanish at epsilon=0")
	})
}

func TestWeylScalarNonNegativeOnSquashedSphere(t *testing.T) {
	f, err := topology.Spherical(torsion.ModeAxial)
	require.NoError(t, err)

	lc := connection.LeviCivita(f.StructureConstants)
	riem := Riemann(lc, f.StructureConstants)
	lowered := LowerFirstIndex(riem, f.Metric)
	ric := Ricci(riem)
	scalar := RicciScalar(riem)

	w, err := Weyl(lowered, ric, scalar, f.Metric)
	require.NoError(t, err)
	ws, err := WeylScalar(w, f.Metric)
	require.NoError(t, err)

	rSym, err := f.Params.Symbol("r")
	require.NoError(t, err)
	epsSym, err := f.Params.Symbol("epsilon")
	require.NoError(t, err)
	fn, err := symbolic.Compile(ws, []symbolic.Symbol{rSym, epsSym})
	require.NoError(t, err)

	// C^2 is a full contraction of W with itself in a euclidean frame, so
	// it must stay non-negative wherever the squash factors are real
	// (epsilon > -1).
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 250; i++ {
		r := 0.1 + rng.Float64()*9.9
		eps := -0.9 + rng.Float64()*5.9
		v := fn([]float64{r, eps})
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "r=%g epsilon=%g", r, eps)
		assert.GreaterOrEqual(t, v, -1e-9, "r=%g epsilon=%g", r, eps)
	}
}

func TestFlatTorusCurvatureVanishes(t *testing.T) {
	f, err := topology.Toroidal(torsion.ModeMixed)
	require.NoError(t, err)

	lc := connection.LeviCivita(f.StructureConstants)
	riem := Riemann(lc, f.StructureConstants)
	assert.True(t, riem.IsZero())
	assert.True(t, symbolic.IsZero(RicciScalar(riem)))
}

func TestHodgeDualInvolution(t *testing.T) {
	dim := topology.Dim
	r := make([]float64, dim*dim*dim*dim)
	// An antisymmetric-pair curvature block.
	set := func(a, b, c, d int, v float64) {
		r[Index(a, b, c, d, dim)] = v
		r[Index(a, b, d, c, dim)] = -v
		r[Index(b, a, c, d, dim)] = -v
		r[Index(b, a, d, c, dim)] = v
	}
	set(0, 1, 0, 1, 1.5)
	set(0, 1, 2, 3, -0.25)
	set(1, 2, 1, 2, 0.75)

	dual, err := HodgeDual(r, dim)
	require.NoError(t, err)
	back, err := HodgeDual(dual, dim)
	require.NoError(t, err)
	for i := range r {
		assert.InDelta(t, r[i], back[i], 1e-12, "component %d", i)
	}
}

func TestSelfDuality(t *testing.T) {
	dim := topology.Dim

	t.Run("self-dual block", func(t *testing.T) {
		r := make([]float64, dim*dim*dim*dim)
		// F_01 = F_23 = 1 in the second pair for the (0,1) first pair,
		// matched so *R = R.
		for _, ab := range [][2]int{{0, 1}, {1, 0}} {
			sign := 1.0
			if ab[0] > ab[1] {
				sign = -1.0
			}
			r[Index(ab[0], ab[1], 0, 1, dim)] = sign
			r[Index(ab[0], ab[1], 1, 0, dim)] = -sign
			r[Index(ab[0], ab[1], 2, 3, dim)] = sign
			r[Index(ab[0], ab[1], 3, 2, dim)] = -sign
		}
		st, err := SelfDuality(r, dim)
		require.NoError(t, err)
		assert.True(t, st.IsSelfDual)
		assert.False(t, st.IsAntiSelfDual)
		assert.True(t, st.IsNontrivial)
		assert.InDelta(t, 1.0, st.PRatio, 1e-12)
		assert.InDelta(t, 0.0, st.MinusNorm, 1e-12)
	})

	t.Run("zero curvature is trivial", func(t *testing.T) {
		st, err := SelfDuality(make([]float64, dim*dim*dim*dim), dim)
		require.NoError(t, err)
		assert.False(t, st.IsNontrivial)
		// Degenerate but defined: both residuals vanish.
		assert.True(t, st.IsSelfDual)
		assert.True(t, st.IsAntiSelfDual)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := SelfDuality(make([]float64, 7), dim)
		assert.Error(t, err)
	})
}
