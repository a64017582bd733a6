package symbolic

import (
	"math/big"
)

// Diff returns the partial derivative of e with respect to x.
func Diff(e Expr, x Symbol) Expr {
	switch v := e.(type) {
	case Num, Constant:
		return Zero
	case Symbol:
		if v.Name == x.Name {
			return One
		}
		return Zero
	case Sum:
		parts := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			parts[i] = Diff(t, x)
		}
		return Add(parts...)
	case Product:
		// Product rule over the factor list; the rational coefficient rides
		// along unchanged.
		terms := make([]Expr, 0, len(v.factors))
		for i := range v.factors {
			parts := make([]Expr, 0, len(v.factors)+1)
			parts = append(parts, Num{rat: new(big.Rat).Set(v.coeff)})
			for j, f := range v.factors {
				if i == j {
					parts = append(parts, Diff(f, x))
				} else {
					parts = append(parts, f)
				}
			}
			terms = append(terms, Mul(parts...))
		}
		return Add(terms...)
	case Power:
		// d/dx base^c = c * base^(c-1) * base'
		dbase := Diff(v.base, x)
		if IsZero(dbase) {
			return Zero
		}
		em1 := new(big.Rat).Sub(v.exp, ratOne)
		return Mul(FromRat(v.exp), powRat(v.base, em1), dbase)
	case SinFn:
		return Mul(Cos(v.arg), Diff(v.arg, x))
	case CosFn:
		return Neg(Mul(Sin(v.arg), Diff(v.arg, x)))
	default:
		return Zero
	}
}

// Subs substitutes expressions for the named symbols and rebuilds canonically.
func Subs(e Expr, env map[string]Expr) Expr {
	if len(env) == 0 {
		return e
	}
	switch v := e.(type) {
	case Num, Constant:
		return e
	case Symbol:
		if r, ok := env[v.Name]; ok {
			return r
		}
		return e
	case Sum:
		parts := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			parts[i] = Subs(t, env)
		}
		return Add(parts...)
	case Product:
		parts := make([]Expr, 0, len(v.factors)+1)
		parts = append(parts, Num{rat: new(big.Rat).Set(v.coeff)})
		for _, f := range v.factors {
			parts = append(parts, Subs(f, env))
		}
		return Mul(parts...)
	case Power:
		return powRat(Subs(v.base, env), v.exp)
	case SinFn:
		return Sin(Subs(v.arg, env))
	case CosFn:
		return Cos(Subs(v.arg, env))
	default:
		return e
	}
}
