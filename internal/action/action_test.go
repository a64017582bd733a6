package action

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dppu/internal/symbolic"
)

func TestLagrangianAssembly(t *testing.T) {
	kappa := symbolic.PosSym("kappa")
	theta := symbolic.Sym("theta_NY")
	alpha := symbolic.Sym("alpha")
	ricci := symbolic.Sym("Rs")
	ny := symbolic.Sym("N")
	weyl := symbolic.Sym("W")

	l := Lagrangian(ricci, ny, weyl, kappa, theta, alpha)
	want := symbolic.Add(
		symbolic.Mul(symbolic.Rat(1, 2), ricci, symbolic.PowInt(kappa, -2)),
		symbolic.Mul(theta, ny),
		symbolic.Mul(alpha, weyl),
	)
	assert.True(t, symbolic.Equal(l, want))

	vol := symbolic.Sym("Vol")
	s := Action(l, vol)
	v := EffectivePotential(s)
	assert.True(t, symbolic.IsZero(symbolic.Expand(symbolic.Add(s, v))),
		"potential must be minus the action")
}

func TestDecomposePotential(t *testing.T) {
	r := symbolic.PosSym("r")
	a := symbolic.Sym("a")
	b := symbolic.Sym("b")
	c := symbolic.Sym("c")

	v := symbolic.Add(
		symbolic.Mul(a, symbolic.PowInt(r, 3)),
		symbolic.Mul(b, symbolic.PowInt(r, -1)),
		c,
	)
	sectors, err := DecomposePotential(v, r)
	require.NoError(t, err)
	require.Len(t, sectors, 3)
	assert.True(t, symbolic.Equal(sectors[3], a))
	assert.True(t, symbolic.Equal(sectors[-1], b))
	assert.True(t, symbolic.Equal(sectors[0], c))

	t.Run("recompose round trip", func(t *testing.T) {
		back := Recompose(sectors, r)
		assert.True(t, symbolic.IsZero(symbolic.Expand(symbolic.Sub(back, v))))
	})

	t.Run("sectors merge like powers", func(t *testing.T) {
		v2 := symbolic.Add(
			symbolic.Mul(a, r, r),
			symbolic.Mul(b, symbolic.PowInt(r, 2)),
		)
		s2, err := DecomposePotential(v2, r)
		require.NoError(t, err)
		require.Len(t, s2, 1)
		assert.True(t, symbolic.Equal(s2[2], symbolic.Add(a, b)))
	})

	t.Run("fractional radial power rejected", func(t *testing.T) {
		_, err := DecomposePotential(symbolic.PowRat(r, 1, 2), r)
		assert.ErrorContains(t, err, "non-integer radial power")
	})

	t.Run("zero potential has no sectors", func(t *testing.T) {
		s, err := DecomposePotential(symbolic.Zero, r)
		require.NoError(t, err)
		assert.Empty(t, s)
	})
}

func TestAnalyzeStability(t *testing.T) {
	cfg := DefaultStabilityConfig()

	t.Run("type I barrier", func(t *testing.T) {
		// Rises from small radius to a barrier at r=5, minimum at r=10.
		v := func(r float64) float64 {
			d := r - 10
			return r * r * d * d
		}
		res := AnalyzeStability(v, cfg)
		assert.Equal(t, TypeI, res.Type)
		assert.InDelta(t, 10.0, res.R0, 0.01)
		assert.InDelta(t, 0.0, res.VMin, 1e-3)
		assert.InDelta(t, 625.0, res.Barrier, 5.0)
	})

	t.Run("type II downhill", func(t *testing.T) {
		v := func(r float64) float64 {
			d := r - 10
			return d * d
		}
		res := AnalyzeStability(v, cfg)
		assert.Equal(t, TypeII, res.Type)
		assert.InDelta(t, 10.0, res.R0, 0.01)
		assert.Greater(t, res.Barrier, 0.0)
	})

	t.Run("type III monotone", func(t *testing.T) {
		res := AnalyzeStability(func(r float64) float64 { return r }, cfg)
		assert.Equal(t, TypeIII, res.Type)
		assert.Contains(t, res.Reason, "boundary")
	})

	t.Run("type III plateau minimum", func(t *testing.T) {
		// Quantizing the potential flattens the basin, so the located
		// minimum has no curvature.
		v := func(r float64) float64 {
			d := r - 10
			return math.Trunc(d * d)
		}
		res := AnalyzeStability(v, cfg)
		assert.Equal(t, TypeIII, res.Type)
		assert.Contains(t, res.Reason, "convex")
	})

	t.Run("type III numeric failure", func(t *testing.T) {
		res := AnalyzeStability(func(float64) float64 { return math.NaN() }, cfg)
		assert.Equal(t, TypeIII, res.Type)
	})

	t.Run("type III bad bounds", func(t *testing.T) {
		res := AnalyzeStability(func(r float64) float64 { return r * r }, StabilityConfig{RMin: 5, RMax: 1})
		assert.Equal(t, TypeIII, res.Type)
	})

	t.Run("stability type strings", func(t *testing.T) {
		assert.Equal(t, "Type I", TypeI.String())
		assert.Equal(t, "Type II", TypeII.String())
		assert.Equal(t, "Type III", TypeIII.String())
	})
}
