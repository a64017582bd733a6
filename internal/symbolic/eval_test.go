package symbolic

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bigAbs(f *big.Float) *big.Float { return new(big.Float).Abs(f) }

func TestEvalBig(t *testing.T) {
	prec := uint(200)

	t.Run("pi constant", func(t *testing.T) {
		got, err := EvalBig(Pi, nil, prec)
		require.NoError(t, err)
		assert.Equal(t, "3.14159265358979323846", got.Text('f', 20))
	})

	t.Run("square root by newton", func(t *testing.T) {
		got, err := EvalBig(PowRat(Int(2), 1, 2), nil, prec)
		require.NoError(t, err)
		sq := new(big.Float).Mul(got, got)
		diff := new(big.Float).Sub(sq, big.NewFloat(2).SetPrec(prec))
		tol, _, _ := big.ParseFloat("1e-55", 10, prec, big.ToNearestEven)
		assert.True(t, bigAbs(diff).Cmp(tol) < 0, "sqrt(2)^2 off by %s", diff.Text('e', 5))
	})

	t.Run("cube root", func(t *testing.T) {
		got, err := EvalBig(PowRat(Int(27), 1, 3), nil, prec)
		require.NoError(t, err)
		diff := new(big.Float).Sub(got, big.NewFloat(3).SetPrec(prec))
		tol, _, _ := big.ParseFloat("1e-55", 10, prec, big.ToNearestEven)
		assert.True(t, bigAbs(diff).Cmp(tol) < 0)
	})

	t.Run("sin of pi vanishes", func(t *testing.T) {
		got, err := EvalBig(Sin(Pi), nil, prec)
		require.NoError(t, err)
		tol, _, _ := big.ParseFloat("1e-50", 10, prec, big.ToNearestEven)
		assert.True(t, bigAbs(got).Cmp(tol) < 0, "sin(pi) = %s", got.Text('e', 5))
	})

	t.Run("pythagorean identity at a point", func(t *testing.T) {
		x := Sym("x")
		e := Add(PowInt(Sin(x), 2), PowInt(Cos(x), 2))
		env := map[string]*big.Float{"x": big.NewFloat(1.2345).SetPrec(prec)}
		got, err := EvalBig(e, env, prec)
		require.NoError(t, err)
		diff := new(big.Float).Sub(got, big.NewFloat(1).SetPrec(prec))
		tol, _, _ := big.ParseFloat("1e-50", 10, prec, big.ToNearestEven)
		assert.True(t, bigAbs(diff).Cmp(tol) < 0)
	})

	t.Run("unbound symbol", func(t *testing.T) {
		_, err := EvalBig(Sym("q"), nil, prec)
		assert.ErrorContains(t, err, `"q"`)
	})

	t.Run("division by zero", func(t *testing.T) {
		env := map[string]*big.Float{"x": big.NewFloat(0)}
		_, err := EvalBig(PowInt(Sym("x"), -1), env, prec)
		assert.ErrorContains(t, err, "division by zero")
	})

	t.Run("fractional power of negative base", func(t *testing.T) {
		env := map[string]*big.Float{"x": big.NewFloat(-4)}
		_, err := EvalBig(PowRat(Sym("x"), 1, 2), env, prec)
		assert.ErrorContains(t, err, "negative base")
	})
}

func TestCompile(t *testing.T) {
	r := PosSym("r")
	eta := Sym("eta")

	// 3/r^2 + eta*r
	e := Add(Mul(Int(3), PowInt(r, -2)), Mul(eta, r))
	fn, err := Compile(e, []Symbol{r, eta})
	require.NoError(t, err)

	got := fn([]float64{2, 0.5})
	assert.InDelta(t, 3.0/4.0+1.0, got, 1e-12)

	t.Run("trig and pi", func(t *testing.T) {
		fn, err := Compile(Mul(Sin(r), Pi), []Symbol{r})
		require.NoError(t, err)
		assert.InDelta(t, math.Pi*math.Sin(1.5), fn([]float64{1.5}), 1e-12)
	})

	t.Run("missing symbol rejected", func(t *testing.T) {
		_, err := Compile(e, []Symbol{r})
		assert.ErrorContains(t, err, `"eta"`)
	})

	t.Run("extra arguments ignored", func(t *testing.T) {
		fn, err := Compile(PowInt(r, 2), []Symbol{eta, r})
		require.NoError(t, err)
		assert.InDelta(t, 9.0, fn([]float64{7, 3}), 1e-12)
	})
}
