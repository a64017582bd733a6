package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dppu/internal/symbolic"
	"dppu/internal/torsion"
)

func TestForName(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			f, err := ForName(name, torsion.ModeMixed)
			require.NoError(t, err)
			assert.Equal(t, name, f.Name)
			assert.Equal(t, Dim, f.Dim)
			assert.True(t, f.Metric.IsDiagonal())
			assert.False(t, symbolic.IsZero(f.Volume))
		})
	}

	_, err := ForName("K3", torsion.ModeMixed)
	assert.ErrorContains(t, err, "unknown topology")
}

func TestParamsPerMode(t *testing.T) {
	tests := []struct {
		mode    torsion.Mode
		wantEta bool
		wantV   bool
	}{
		{torsion.ModeAxial, true, false},
		{torsion.ModeVectorTrace, false, true},
		{torsion.ModeMixed, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			f, err := Spherical(tt.mode)
			require.NoError(t, err)
			_, hasEta := f.Params["eta"]
			_, hasV := f.Params["V"]
			assert.Equal(t, tt.wantEta, hasEta)
			assert.Equal(t, tt.wantV, hasV)
			if hasEta {
				q := f.Derived["q"]
				require.NotNil(t, q)
				want := symbolic.Mul(symbolic.Int(2), f.Params["eta"])
				assert.True(t, symbolic.Equal(q, want))
			}
			for _, name := range []string{"r", "L", "kappa"} {
				assert.True(t, f.Params[name].Positive, "%s should be positive", name)
			}
		})
	}
}

func TestSphericalStructureConstants(t *testing.T) {
	f, err := Spherical(torsion.ModeAxial)
	require.NoError(t, err)

	c := f.StructureConstants
	r := f.Params["r"]
	eps := f.Params["epsilon"]

	// C^0_12 = (4/r)*(1+eps)^(2/3), C^2_01 = (4/r)*(1+eps)^(-4/3).
	want012 := symbolic.Mul(symbolic.Int(4), symbolic.PowInt(r, -1),
		symbolic.PowRat(symbolic.Add(symbolic.One, eps), 2, 3))
	assert.True(t, symbolic.Equal(c.At(0, 1, 2), want012), "got %s", c.At(0, 1, 2))

	want201 := symbolic.Mul(symbolic.Int(4), symbolic.PowInt(r, -1),
		symbolic.PowRat(symbolic.Add(symbolic.One, eps), -4, 3))
	assert.True(t, symbolic.Equal(c.At(2, 0, 1), want201), "got %s", c.At(2, 0, 1))

	// Antisymmetry in the lower pair.
	for a := 0; a < Dim; a++ {
		for b := 0; b < Dim; b++ {
			for cc := 0; cc < Dim; cc++ {
				res := symbolic.Add(c.At(a, b, cc), c.At(a, cc, b))
				assert.True(t, symbolic.IsZero(symbolic.Expand(res)),
					"C(%d,%d,%d) breaks antisymmetry: %s", a, b, cc, res)
			}
		}
	}

	// No component touches the circle direction.
	for a := 0; a < Dim; a++ {
		for b := 0; b < Dim; b++ {
			assert.True(t, symbolic.IsZero(c.At(a, b, 3)))
			assert.True(t, symbolic.IsZero(c.At(a, 3, b)))
			assert.True(t, symbolic.IsZero(c.At(3, a, b)))
		}
	}
}

func TestToroidalIsFlat(t *testing.T) {
	f, err := Toroidal(torsion.ModeMixed)
	require.NoError(t, err)
	assert.True(t, f.StructureConstants.IsZero())

	// Isotropic radius aliases.
	r := f.Params["r"]
	for _, alias := range []string{"R1", "R2", "R3"} {
		assert.True(t, symbolic.Equal(f.Derived[alias], r))
	}
}

func TestNilBracket(t *testing.T) {
	f, err := Nil(torsion.ModeVectorTrace)
	require.NoError(t, err)

	c := f.StructureConstants
	assert.Equal(t, 2, c.NonZeroCount())

	lambda := f.Derived["lambda"]
	require.NotNil(t, lambda)
	assert.True(t, symbolic.Equal(c.At(2, 1, 0), lambda))
	assert.True(t, symbolic.Equal(c.At(2, 0, 1), symbolic.Neg(lambda)))

	radius, err := f.Radius()
	require.NoError(t, err)
	assert.Equal(t, "R", radius.Name)
	assert.True(t, radius.Positive)
}
