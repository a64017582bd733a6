package oracle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dppu/internal/symbolic"
)

func newTestOracle() *Oracle {
	cfg := DefaultConfig()
	cfg.Seed = 1
	return New(cfg)
}

func TestProveZero(t *testing.T) {
	x := symbolic.Sym("x")
	y := symbolic.Sym("y")

	tests := []struct {
		name       string
		expr       symbolic.Expr
		wantProved bool
		wantMethod string
	}{
		{
			"literal zero",
			symbolic.Zero,
			true, "trivial",
		},
		{
			"cancelling sum is zero at construction",
			symbolic.Sub(symbolic.Mul(symbolic.Int(2), x), symbolic.Add(x, x)),
			true, "trivial",
		},
		{
			"binomial difference",
			symbolic.Sub(
				symbolic.PowInt(symbolic.Add(x, y), 2),
				symbolic.Add(symbolic.PowInt(x, 2), symbolic.Mul(symbolic.Int(2), x, y), symbolic.PowInt(y, 2)),
			),
			true, "simplify",
		},
		{
			"pythagorean identity",
			symbolic.Sub(symbolic.Add(symbolic.PowInt(symbolic.Sin(x), 2), symbolic.PowInt(symbolic.Cos(x), 2)), symbolic.One),
			true, "trigsimp",
		},
		{
			"genuinely nonzero",
			symbolic.Add(symbolic.PowInt(x, 2), symbolic.One),
			false, "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newTestOracle().ProveZero(tt.expr)
			assert.Equal(t, tt.wantProved, got.Proved)
			if tt.wantProved {
				assert.Equal(t, tt.wantMethod, got.Method)
				assert.Equal(t, "PROVED_ZERO (via "+tt.wantMethod+")", got.String())
			} else {
				assert.Equal(t, "UNPROVED", got.String())
			}
		})
	}
}

func TestFindNonzeroWitness(t *testing.T) {
	o := newTestOracle()
	x := symbolic.Sym("x")
	r := symbolic.PosSym("r")

	t.Run("strictly positive expression", func(t *testing.T) {
		w := o.FindNonzeroWitness(symbolic.Add(symbolic.PowInt(x, 2), symbolic.One))
		require.NotNil(t, w)
		assert.Contains(t, w.Point, "x")
		assert.Positive(t, w.Value.Sign())
	})

	t.Run("positive symbol sampled in positive range", func(t *testing.T) {
		// 1/r is singular at 0 but never sampled there.
		w := o.FindNonzeroWitness(symbolic.PowInt(r, -1))
		require.NotNil(t, w)
		v := w.Point["r"]
		assert.Greater(t, v, 0.1)
		assert.Less(t, v, 10.0)
	})

	t.Run("parameter-free constant is its own witness", func(t *testing.T) {
		w := o.FindNonzeroWitness(symbolic.Sub(symbolic.Pi, symbolic.Int(3)))
		require.NotNil(t, w)
		assert.Empty(t, w.Point)
		f, _ := w.Value.Float64()
		assert.InDelta(t, 0.14159, f, 1e-4)
	})

	t.Run("parameter-free zero yields no witness", func(t *testing.T) {
		assert.Nil(t, o.FindNonzeroWitness(symbolic.Zero))
	})
}

func TestSamplePointAvoidsDegenerateValues(t *testing.T) {
	o := newTestOracle()
	syms := []symbolic.Symbol{symbolic.PosSym("r"), symbolic.Sym("x")}

	for i := 0; i < 500; i++ {
		point := o.samplePoint(syms)
		for name, v := range point {
			assert.GreaterOrEqual(t, math.Abs(v), degenerateMargin,
				"%s sampled next to zero: %g", name, v)
			assert.GreaterOrEqual(t, math.Abs(math.Abs(v)-1), degenerateMargin,
				"%s sampled next to ±1: %g", name, v)
		}
		assert.Greater(t, point["r"], 0.0)
		assert.Less(t, point["x"], 10.0)
		assert.Greater(t, point["x"], -10.0)
	}
}

func TestClassify(t *testing.T) {
	o := newTestOracle()
	x := symbolic.Sym("x")

	t.Run("proved zero", func(t *testing.T) {
		v, w := o.Classify(symbolic.Sub(symbolic.Mul(x, x), symbolic.PowInt(x, 2)))
		assert.Equal(t, VerdictProvedZero, v)
		assert.Nil(t, w)
	})

	t.Run("witness nonzero", func(t *testing.T) {
		v, w := o.Classify(symbolic.Add(symbolic.PowInt(x, 2), symbolic.One))
		assert.Equal(t, VerdictWitnessNonzero, v)
		require.NotNil(t, w)
	})

	t.Run("verdict strings", func(t *testing.T) {
		assert.Equal(t, "PROVED_ZERO", VerdictProvedZero.String())
		assert.Equal(t, "WITNESS_NONZERO", VerdictWitnessNonzero.String())
		assert.Equal(t, "UNPROVED", VerdictUnproved.String())
	})
}
