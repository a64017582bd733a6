package torsion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dppu/internal/symbolic"
	"dppu/internal/tensor"
	"dppu/internal/topology"
	. "dppu/internal/torsion"
)

func TestModeParsing(t *testing.T) {
	for _, s := range []string{"axial", "vector_trace", "mixed"} {
		m, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, s, m.String())
	}
	_, err := ParseMode("chiral")
	assert.ErrorContains(t, err, "unknown torsion mode")

	_, err = Mode(99).HasAxial()
	assert.Error(t, err)
}

func TestVariantParsing(t *testing.T) {
	for _, s := range []string{"full", "tt", "ree"} {
		v, err := ParseVariant(s)
		require.NoError(t, err)
		assert.Equal(t, s, v.String())
	}
	_, err := ParseVariant("half")
	assert.ErrorContains(t, err, "unknown Nieh-Yan variant")
}

func TestConstructAxial(t *testing.T) {
	f, err := topology.Spherical(ModeAxial)
	require.NoError(t, err)
	tor, err := Construct(f, ModeAxial)
	require.NoError(t, err)

	eta := f.Params["eta"]
	r := f.Params["r"]

	want := symbolic.Mul(symbolic.Int(2), eta, symbolic.PowInt(r, -1))
	assert.True(t, symbolic.Equal(tor.At(0, 1, 2), want), "got %s", tor.At(0, 1, 2))
	assert.True(t, symbolic.Equal(tor.At(1, 0, 2), symbolic.Neg(want)))

	// Totally antisymmetric and purely spatial.
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				res := symbolic.Add(tor.At(i, j, k), tor.At(i, k, j))
				assert.True(t, symbolic.IsZero(symbolic.Expand(res)))
			}
		}
	}
	for a := 0; a < 4; a++ {
		for b := 0; b < 4; b++ {
			assert.True(t, symbolic.IsZero(tor.At(a, b, 3)))
			assert.True(t, symbolic.IsZero(tor.At(3, a, b)))
		}
	}

	t.Run("scalar", func(t *testing.T) {
		// Six nonzero components of (2*eta/r)^2 each.
		got := Scalar(tor)
		want := symbolic.Mul(symbolic.Int(24), symbolic.PowInt(eta, 2), symbolic.PowInt(r, -2))
		assert.True(t, symbolic.Equal(symbolic.Expand(got), want), "got %s", got)
	})

	t.Run("pseudoscalar vanishes for purely spatial torsion", func(t *testing.T) {
		assert.True(t, symbolic.IsZero(Pseudoscalar(tor)))
	})

	t.Run("trace free", func(t *testing.T) {
		for _, tb := range Trace(tor) {
			assert.True(t, symbolic.IsZero(tb))
		}
		assert.True(t, symbolic.IsZero(TraceNorm(tor)))
	})
}

func TestConstructVectorTrace(t *testing.T) {
	f, err := topology.Toroidal(ModeVectorTrace)
	require.NoError(t, err)
	tor, err := Construct(f, ModeVectorTrace)
	require.NoError(t, err)

	v := f.Params["V"]
	third := symbolic.Mul(symbolic.Rat(1, 3), v)

	assert.True(t, symbolic.Equal(tor.At(0, 3, 0), third), "got %s", tor.At(0, 3, 0))
	assert.True(t, symbolic.Equal(tor.At(1, 1, 3), symbolic.Neg(third)))
	assert.True(t, symbolic.IsZero(tor.At(3, 3, 3)))

	t.Run("trace points along the circle", func(t *testing.T) {
		tr := Trace(tor)
		for b := 0; b < 3; b++ {
			assert.True(t, symbolic.IsZero(tr[b]))
		}
		assert.True(t, symbolic.Equal(tr[3], symbolic.Neg(v)), "got %s", tr[3])
		assert.True(t, symbolic.Equal(TraceNorm(tor), symbolic.PowInt(v, 2)))
	})

	t.Run("scalar", func(t *testing.T) {
		got := symbolic.Expand(Scalar(tor))
		want := symbolic.Mul(symbolic.Rat(2, 3), symbolic.PowInt(v, 2))
		assert.True(t, symbolic.Equal(got, want), "got %s", got)
	})
}

func TestExtractParametersRoundTrip(t *testing.T) {
	f, err := topology.Spherical(ModeMixed)
	require.NoError(t, err)
	tor, err := Construct(f, ModeMixed)
	require.NoError(t, err)

	radius, err := f.Radius()
	require.NoError(t, err)
	eta, v := ExtractParameters(tor, radius)
	assert.True(t, symbolic.Equal(eta, f.Params["eta"]), "got %s", eta)
	assert.True(t, symbolic.Equal(v, f.Params["V"]), "got %s", v)
}

func TestConstructRejectsMissingParams(t *testing.T) {
	// A frame built for vector-trace only has no eta to feed an axial
	// ansatz.
	f, err := topology.Spherical(ModeVectorTrace)
	require.NoError(t, err)
	_, err = Construct(f, ModeAxial)
	assert.ErrorContains(t, err, "eta")
}

func TestNiehYan(t *testing.T) {
	t.Run("mixed torsion on the torus", func(t *testing.T) {
		f, err := topology.Toroidal(ModeMixed)
		require.NoError(t, err)
		tor, err := Construct(f, ModeMixed)
		require.NoError(t, err)

		// Flat background: the curvature term of a zero connection is
		// zero, the torsion-torsion term couples eta and V.
		ny := ComputeNiehYan(tor, tensor.NewTensor4(4))
		assert.True(t, symbolic.IsZero(ny.Ree))
		assert.False(t, symbolic.IsZero(ny.TT), "mixed torsion must produce a TT term")
		assert.True(t, symbolic.Equal(ny.Full, ny.TT))

		free := symbolic.FreeSymbols(ny.TT)
		names := make([]string, len(free))
		for i, s := range free {
			names[i] = s.Name
		}
		assert.Contains(t, names, "eta")
		assert.Contains(t, names, "V")
	})

	t.Run("curvature term", func(t *testing.T) {
		x := symbolic.Sym("x")
		lowered := tensor.NewTensor4(4)
		lowered.Set(0, 1, 2, 3, x)

		ny := ComputeNiehYan(tensor.NewTensor3(4), lowered)
		assert.True(t, symbolic.IsZero(ny.TT))
		want := symbolic.Mul(symbolic.Rat(1, 4), x)
		assert.True(t, symbolic.Equal(ny.Ree, want), "got %s", ny.Ree)
		assert.True(t, symbolic.Equal(ny.Full, symbolic.Neg(want)))
	})

	t.Run("variant selection", func(t *testing.T) {
		ny := NiehYan{TT: symbolic.Int(3), Ree: symbolic.Int(1), Full: symbolic.Int(2)}
		for _, tt := range []struct {
			v    Variant
			want symbolic.Expr
		}{
			{VariantFull, symbolic.Int(2)},
			{VariantTT, symbolic.Int(3)},
			{VariantRee, symbolic.Int(1)},
		} {
			got, err := ny.Select(tt.v)
			require.NoError(t, err)
			assert.True(t, symbolic.Equal(got, tt.want))
		}
		_, err := ny.Select(Variant(42))
		assert.Error(t, err)
	})
}
