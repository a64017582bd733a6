package symbolic

import (
	"fmt"
	"math"
	"math/big"
)

// 250 decimal digits of π, enough for the witness search's 50-digit working
// precision with a wide guard margin.
const piDecimal = "3.14159265358979323846264338327950288419716939937510582097494459230781640628620899862803482534211706798214808651328230664709384460955058223172535940812848111745028410270193852110555964462294895493038196442881097566593344612847564823378678316527120190914"

// EvalBig evaluates e at the given symbol values using prec bits of mantissa.
// It reports an error for unbound symbols, division by zero, and fractional
// powers of non-positive bases.
func EvalBig(e Expr, env map[string]*big.Float, prec uint) (*big.Float, error) {
	// Guard bits absorb rounding across the recursion; the result is rounded
	// back down at the end.
	work := prec + 32
	v, err := evalBig(e, env, work)
	if err != nil {
		return nil, err
	}
	return new(big.Float).SetPrec(prec).Set(v), nil
}

func evalBig(e Expr, env map[string]*big.Float, prec uint) (*big.Float, error) {
	switch v := e.(type) {
	case Num:
		return new(big.Float).SetPrec(prec).SetRat(v.rat), nil
	case Symbol:
		val, ok := env[v.Name]
		if !ok {
			return nil, fmt.Errorf("symbol %q has no value", v.Name)
		}
		return new(big.Float).SetPrec(prec).Set(val), nil
	case Constant:
		return piFloat(prec), nil
	case Sum:
		acc := new(big.Float).SetPrec(prec)
		for _, t := range v.terms {
			tv, err := evalBig(t, env, prec)
			if err != nil {
				return nil, err
			}
			acc.Add(acc, tv)
		}
		return acc, nil
	case Product:
		acc := new(big.Float).SetPrec(prec).SetRat(v.coeff)
		for _, f := range v.factors {
			fv, err := evalBig(f, env, prec)
			if err != nil {
				return nil, err
			}
			acc.Mul(acc, fv)
		}
		return acc, nil
	case Power:
		base, err := evalBig(v.base, env, prec)
		if err != nil {
			return nil, err
		}
		return floatPowRat(base, v.exp, prec)
	case SinFn:
		arg, err := evalBig(v.arg, env, prec)
		if err != nil {
			return nil, err
		}
		return floatSin(arg, prec), nil
	case CosFn:
		arg, err := evalBig(v.arg, env, prec)
		if err != nil {
			return nil, err
		}
		return floatCos(arg, prec), nil
	default:
		return nil, fmt.Errorf("cannot evaluate %T", e)
	}
}

func piFloat(prec uint) *big.Float {
	f, _, err := big.ParseFloat(piDecimal, 10, prec, big.ToNearestEven)
	if err != nil {
		panic("symbolic: bad pi constant: " + err.Error())
	}
	return f
}

func floatPowRat(base *big.Float, exp *big.Rat, prec uint) (*big.Float, error) {
	if base.Sign() == 0 {
		if exp.Sign() < 0 {
			return nil, fmt.Errorf("division by zero: 0^(%s)", exp.RatString())
		}
		return new(big.Float).SetPrec(prec), nil
	}

	p := exp.Num().Int64()
	q := exp.Denom().Int64()

	x := new(big.Float).SetPrec(prec).Set(base)
	if q > 1 {
		if base.Sign() < 0 {
			return nil, fmt.Errorf("fractional power of negative base %s", base.Text('g', 10))
		}
		x = nthRoot(x, q, prec)
	}
	return floatPowInt(x, p, prec), nil
}

func floatPowInt(x *big.Float, n int64, prec uint) *big.Float {
	inv := false
	if n < 0 {
		inv = true
		n = -n
	}
	out := big.NewFloat(1).SetPrec(prec)
	b := new(big.Float).SetPrec(prec).Set(x)
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			out.Mul(out, b)
		}
		b.Mul(b, b)
	}
	if inv {
		out.Quo(big.NewFloat(1).SetPrec(prec), out)
	}
	return out
}

// nthRoot computes x^(1/n) for x > 0 by Newton iteration.
func nthRoot(x *big.Float, n int64, prec uint) *big.Float {
	if n == 1 {
		return new(big.Float).SetPrec(prec).Set(x)
	}
	if n == 2 {
		return new(big.Float).SetPrec(prec).Sqrt(x)
	}

	// Seed from float64 and refine; each step roughly doubles correct bits.
	f64, _ := x.Float64()
	guess := math.Pow(f64, 1.0/float64(n))
	r := big.NewFloat(guess).SetPrec(prec)
	if r.Sign() <= 0 {
		r = big.NewFloat(1).SetPrec(prec)
	}

	nf := big.NewFloat(float64(n)).SetPrec(prec)
	nm1 := big.NewFloat(float64(n - 1)).SetPrec(prec)
	prev := new(big.Float).SetPrec(prec)
	for i := 0; i < 200; i++ {
		prev.Set(r)
		// r = ((n-1)*r + x/r^(n-1)) / n
		rp := floatPowInt(r, n-1, prec)
		t := new(big.Float).SetPrec(prec).Quo(x, rp)
		r.Mul(r, nm1)
		r.Add(r, t)
		r.Quo(r, nf)
		if r.Cmp(prev) == 0 {
			break
		}
	}
	return r
}

// floatSin computes sin by Taylor series after reducing the argument into
// [-π, π].
func floatSin(x *big.Float, prec uint) *big.Float {
	r := reduceAngle(x, prec)
	return sinSeries(r, prec)
}

func floatCos(x *big.Float, prec uint) *big.Float {
	// cos(x) = sin(x + π/2)
	half := piFloat(prec)
	half.Quo(half, big.NewFloat(2))
	shifted := new(big.Float).SetPrec(prec).Add(x, half)
	return floatSin(shifted, prec)
}

// reduceAngle maps x into [-π, π] by subtracting the nearest multiple of 2π.
func reduceAngle(x *big.Float, prec uint) *big.Float {
	twoPi := piFloat(prec)
	twoPi.Mul(twoPi, big.NewFloat(2))

	q := new(big.Float).SetPrec(prec).Quo(x, twoPi)
	qi, _ := q.Int(nil)
	// Round to nearest rather than truncate.
	frac := new(big.Float).SetPrec(prec).Sub(q, new(big.Float).SetInt(qi))
	halfUp := big.NewFloat(0.5)
	if frac.Cmp(halfUp) >= 0 {
		qi.Add(qi, big.NewInt(1))
	} else if frac.Cmp(big.NewFloat(-0.5)) <= 0 {
		qi.Sub(qi, big.NewInt(1))
	}

	k := new(big.Float).SetPrec(prec).SetInt(qi)
	k.Mul(k, twoPi)
	return new(big.Float).SetPrec(prec).Sub(x, k)
}

func sinSeries(x *big.Float, prec uint) *big.Float {
	sum := new(big.Float).SetPrec(prec).Set(x)
	term := new(big.Float).SetPrec(prec).Set(x)
	x2 := new(big.Float).SetPrec(prec).Mul(x, x)
	x2.Neg(x2)

	// term_{k+1} = term_k * (-x²) / ((2k)(2k+1))
	eps := new(big.Float).SetPrec(prec).SetMantExp(big.NewFloat(1), -int(prec)-4)
	for k := int64(1); k < 10000; k++ {
		term.Mul(term, x2)
		den := big.NewFloat(float64(2*k) * float64(2*k+1)).SetPrec(prec)
		term.Quo(term, den)
		sum.Add(sum, term)
		if new(big.Float).Abs(term).Cmp(eps) < 0 {
			break
		}
	}
	return sum
}
