package symbolic

import (
	"math/big"
)

// Simplify returns the cheapest known equivalent form: the canonical input,
// its expansion, or its factored expansion, whichever renders shortest.
// Identically-zero inputs built through the constructors are already the
// literal Zero, so this stage is cheap by design.
func Simplify(e Expr) Expr {
	best := e
	for _, cand := range []Expr{Expand(e), Factor(e)} {
		if IsZero(cand) {
			return cand
		}
		if len(cand.String()) < len(best.String()) {
			best = cand
		}
	}
	return best
}

// Normalize applies the standard comparison pipeline:
// factor(together(expand(e))). Equivalent polynomial/rational expressions over
// monomial denominators normalize to equal forms.
func Normalize(e Expr) Expr {
	return Factor(Together(Expand(e)))
}

// Expand distributes products over sums and multiplies out positive integer
// powers of sums, yielding the canonical flattened polynomial form.
func Expand(e Expr) Expr {
	switch v := e.(type) {
	case Num, Symbol, Constant:
		return e
	case SinFn:
		return Sin(Expand(v.arg))
	case CosFn:
		return Cos(Expand(v.arg))
	case Sum:
		parts := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			parts[i] = Expand(t)
		}
		return Add(parts...)
	case Power:
		base := Expand(v.base)
		if v.exp.IsInt() && v.exp.Sign() > 0 {
			if _, isSum := base.(Sum); isSum {
				n := v.exp.Num().Int64()
				out := base
				for i := int64(1); i < n; i++ {
					out = expandMul(out, base)
				}
				return out
			}
		}
		return powRat(base, v.exp)
	case Product:
		acc := Expr(Num{rat: new(big.Rat).Set(v.coeff)})
		for _, f := range v.factors {
			acc = expandMul(acc, Expand(f))
		}
		return acc
	default:
		return e
	}
}

func termsOf(e Expr) []Expr {
	if s, ok := e.(Sum); ok {
		return s.terms
	}
	return []Expr{e}
}

func expandMul(a, b Expr) Expr {
	at, bt := termsOf(a), termsOf(b)
	out := make([]Expr, 0, len(at)*len(bt))
	for _, x := range at {
		for _, y := range bt {
			out = append(out, Mul(x, y))
		}
	}
	return Add(out...)
}

// Factor extracts the greatest common rational coefficient and the common
// monomial from a sum: 4*x^2*y + 6*x^3 -> 2*x^2*(2*y + 3*x).
func Factor(e Expr) Expr {
	s, ok := Expand(e).(Sum)
	if !ok {
		return Expand(e)
	}

	type powInfo struct {
		base Expr
		exp  *big.Rat
	}
	decompose := func(t Expr) (*big.Rat, []powInfo) {
		switch v := t.(type) {
		case Num:
			return new(big.Rat).Set(v.rat), nil
		case Product:
			ps := make([]powInfo, 0, len(v.factors))
			for _, f := range v.factors {
				if p, isPow := f.(Power); isPow {
					ps = append(ps, powInfo{base: p.base, exp: new(big.Rat).Set(p.exp)})
				} else {
					ps = append(ps, powInfo{base: f, exp: new(big.Rat).Set(ratOne)})
				}
			}
			return new(big.Rat).Set(v.coeff), ps
		case Power:
			return new(big.Rat).Set(ratOne), []powInfo{{base: v.base, exp: new(big.Rat).Set(v.exp)}}
		default:
			return new(big.Rat).Set(ratOne), []powInfo{{base: t, exp: new(big.Rat).Set(ratOne)}}
		}
	}

	coeffs := make([]*big.Rat, len(s.terms))
	monos := make([]map[string]powInfo, len(s.terms))
	for i, t := range s.terms {
		c, ps := decompose(t)
		coeffs[i] = c
		m := map[string]powInfo{}
		for _, p := range ps {
			m[p.base.String()] = p
		}
		monos[i] = m
	}

	gcd := ratGCD(coeffs)

	// Common bases: present in every term with positive minimum exponent.
	common := []powInfo{}
	for key, p0 := range monos[0] {
		minExp := new(big.Rat).Set(p0.exp)
		present := true
		for _, m := range monos[1:] {
			p, ok := m[key]
			if !ok {
				present = false
				break
			}
			if p.exp.Cmp(minExp) < 0 {
				minExp.Set(p.exp)
			}
		}
		if present && minExp.Sign() > 0 {
			common = append(common, powInfo{base: p0.base, exp: minExp})
		}
	}

	if gcd.Cmp(ratOne) == 0 && len(common) == 0 {
		return s
	}

	extracted := make([]Expr, 0, len(common)+2)
	extracted = append(extracted, Num{rat: gcd})
	inverse := make([]Expr, 0, len(common)+1)
	inverse = append(inverse, Num{rat: new(big.Rat).Inv(gcd)})
	for _, p := range common {
		extracted = append(extracted, powRat(p.base, p.exp))
		inverse = append(inverse, powRat(p.base, new(big.Rat).Neg(p.exp)))
	}

	reduced := make([]Expr, len(s.terms))
	for i, t := range s.terms {
		parts := append([]Expr{t}, inverse...)
		reduced[i] = Mul(parts...)
	}
	extracted = append(extracted, Add(reduced...))
	return Mul(extracted...)
}

// Together combines a sum over monomial denominators into a single fraction.
func Together(e Expr) Expr {
	s, ok := e.(Sum)
	if !ok {
		return e
	}

	// Collect, per base, the deepest negative exponent across all terms.
	denoms := map[string]struct {
		base Expr
		exp  *big.Rat
	}{}
	order := []string{}
	scan := func(base Expr, exp *big.Rat) {
		if exp.Sign() >= 0 {
			return
		}
		k := base.String()
		d, ok := denoms[k]
		if !ok {
			denoms[k] = struct {
				base Expr
				exp  *big.Rat
			}{base: base, exp: new(big.Rat).Set(exp)}
			order = append(order, k)
			return
		}
		if exp.Cmp(d.exp) < 0 {
			d.exp.Set(exp)
		}
	}
	for _, t := range s.terms {
		switch v := t.(type) {
		case Product:
			for _, f := range v.factors {
				if p, isPow := f.(Power); isPow {
					scan(p.base, p.exp)
				}
			}
		case Power:
			scan(v.base, v.exp)
		}
	}
	if len(order) == 0 {
		return e
	}

	clear := make([]Expr, 0, len(order))
	restore := make([]Expr, 0, len(order))
	for _, k := range order {
		d := denoms[k]
		clear = append(clear, powRat(d.base, new(big.Rat).Neg(d.exp)))
		restore = append(restore, powRat(d.base, d.exp))
	}

	numer := make([]Expr, len(s.terms))
	for i, t := range s.terms {
		numer[i] = Mul(append([]Expr{t}, clear...)...)
	}
	return Mul(append([]Expr{Add(numer...)}, restore...)...)
}

// Cancel normalizes a rational expression over monomial denominators by
// expanding the combined numerator. Zero numerators collapse the whole
// expression to Zero.
func Cancel(e Expr) Expr {
	t := Together(Expand(e))
	p, ok := t.(Product)
	if !ok {
		return t
	}
	parts := make([]Expr, 0, len(p.factors)+1)
	parts = append(parts, Num{rat: p.coeff})
	for _, f := range p.factors {
		if s, isSum := f.(Sum); isSum {
			parts = append(parts, Expand(s))
		} else {
			parts = append(parts, f)
		}
	}
	return Mul(parts...)
}

// TrigSimp eliminates sin²+cos² combinations by rewriting even trig powers
// through the Pythagorean identity in both directions and keeping whichever
// result is zero or shortest.
func TrigSimp(e Expr) Expr {
	c1 := Expand(rewritePythagorean(e, true))
	if IsZero(c1) {
		return c1
	}
	c2 := Expand(rewritePythagorean(e, false))
	if IsZero(c2) {
		return c2
	}
	best := e
	if len(c1.String()) < len(best.String()) {
		best = c1
	}
	if len(c2.String()) < len(best.String()) {
		best = c2
	}
	return best
}

// rewritePythagorean replaces cos(u)^2 with 1-sin(u)^2 (or the converse) in
// every even trig power.
func rewritePythagorean(e Expr, cosToSin bool) Expr {
	switch v := e.(type) {
	case Num, Symbol, Constant:
		return e
	case SinFn:
		return Sin(rewritePythagorean(v.arg, cosToSin))
	case CosFn:
		return Cos(rewritePythagorean(v.arg, cosToSin))
	case Sum:
		parts := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			parts[i] = rewritePythagorean(t, cosToSin)
		}
		return Add(parts...)
	case Product:
		parts := make([]Expr, 0, len(v.factors)+1)
		parts = append(parts, Num{rat: new(big.Rat).Set(v.coeff)})
		for _, f := range v.factors {
			parts = append(parts, rewritePythagorean(f, cosToSin))
		}
		return Mul(parts...)
	case Power:
		base := rewritePythagorean(v.base, cosToSin)
		if v.exp.IsInt() && v.exp.Sign() > 0 {
			n := v.exp.Num().Int64()
			if n >= 2 {
				if c, isCos := base.(CosFn); isCos && cosToSin {
					sq := Sub(One, PowInt(Sin(c.arg), 2))
					rest := powRat(base, big.NewRat(n%2, 1))
					return Mul(PowInt(sq, int64(n/2)), rest)
				}
				if s, isSin := base.(SinFn); isSin && !cosToSin {
					sq := Sub(One, PowInt(Cos(s.arg), 2))
					rest := powRat(base, big.NewRat(n%2, 1))
					return Mul(PowInt(sq, int64(n/2)), rest)
				}
			}
		}
		return powRat(base, v.exp)
	default:
		return e
	}
}

func ratGCD(vals []*big.Rat) *big.Rat {
	if len(vals) == 0 {
		return big.NewRat(1, 1)
	}
	num := new(big.Int).Abs(vals[0].Num())
	den := new(big.Int).Set(vals[0].Denom())
	for _, v := range vals[1:] {
		num.GCD(nil, nil, num, new(big.Int).Abs(v.Num()))
		den = lcm(den, v.Denom())
	}
	if num.Sign() == 0 {
		return big.NewRat(1, 1)
	}
	return new(big.Rat).SetFrac(num, den)
}

func lcm(a, b *big.Int) *big.Int {
	g := new(big.Int).GCD(nil, nil, a, b)
	out := new(big.Int).Div(a, g)
	return out.Mul(out, b)
}
