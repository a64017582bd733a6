// Package symbolic implements the expression engine underlying the tensor
// calculus pipeline: exact rational arithmetic, named symbols with positivity
// assumptions, rational powers, sin/cos and π, with canonicalizing
// constructors so that structurally equal expressions compare equal.
//
// Expressions are immutable values. All rewriting (Expand, Factor, TrigSimp,
// Diff, ...) returns new expressions and never mutates inputs.
package symbolic

import (
	"math/big"
	"sort"
	"strings"
)

// Expr is a symbolic expression in canonical form.
//
// Canonical invariants maintained by the constructors:
//   - a Sum contains no nested Sum and at most one rational term; like
//     monomials are merged and terms are sorted
//   - a product carries its rational coefficient separately; equal bases are
//     merged by adding exponents; factors are sorted
//   - powers have rational exponents; x^0 and x^1 never survive construction
type Expr interface {
	// String renders the canonical textual form accepted by Parse.
	String() string

	sealed()
}

// Num is an exact rational constant.
type Num struct {
	rat *big.Rat
}

// Symbol is a named free parameter. Positive symbols are sampled in (0.1, 10)
// by the witness search instead of (-10, 10).
type Symbol struct {
	Name     string
	Positive bool
}

// Constant is a named transcendental constant (only π for now).
type Constant struct {
	name string
}

// Sum is a canonical sum of terms.
type Sum struct {
	terms []Expr
}

// Product is coeff * factors[0] * factors[1] * ...
type Product struct {
	coeff   *big.Rat
	factors []Expr
}

// Power is base^exp with a rational exponent.
type Power struct {
	base Expr
	exp  *big.Rat
}

// SinFn and CosFn are the trigonometric function applications.
type SinFn struct{ arg Expr }
type CosFn struct{ arg Expr }

func (Num) sealed()      {}
func (Symbol) sealed()   {}
func (Constant) sealed() {}
func (Sum) sealed()      {}
func (Product) sealed()  {}
func (Power) sealed()    {}
func (SinFn) sealed()    {}
func (CosFn) sealed()    {}

// Pi is the circle constant.
var Pi = Constant{name: "pi"}

var (
	ratZero = big.NewRat(0, 1)
	ratOne  = big.NewRat(1, 1)
)

// Zero and One are shared canonical constants.
var (
	Zero = Num{rat: big.NewRat(0, 1)}
	One  = Num{rat: big.NewRat(1, 1)}
)

// Int returns the integer constant n.
func Int(n int64) Expr { return Num{rat: big.NewRat(n, 1)} }

// Rat returns the exact rational p/q. q must be nonzero.
func Rat(p, q int64) Expr { return Num{rat: big.NewRat(p, q)} }

// FromRat wraps a big.Rat (copied) as an expression.
func FromRat(r *big.Rat) Expr { return Num{rat: new(big.Rat).Set(r)} }

// Sym returns a real-valued symbol.
func Sym(name string) Symbol { return Symbol{Name: name} }

// PosSym returns a symbol assumed strictly positive.
func PosSym(name string) Symbol { return Symbol{Name: name, Positive: true} }

// Rat reports the numeric value of a constant term.
func (n Num) Rat() *big.Rat { return new(big.Rat).Set(n.rat) }

// Terms exposes the canonical term list of a sum.
func (s Sum) Terms() []Expr { return append([]Expr(nil), s.terms...) }

// Coeff and Factors expose the parts of a product.
func (p Product) Coeff() *big.Rat    { return new(big.Rat).Set(p.coeff) }
func (p Product) Factors() []Expr    { return append([]Expr(nil), p.factors...) }

// Base and Exp expose the parts of a power.
func (p Power) Base() Expr   { return p.base }
func (p Power) Exp() *big.Rat { return new(big.Rat).Set(p.exp) }

// Arg exposes the argument of a trig application.
func (s SinFn) Arg() Expr { return s.arg }
func (c CosFn) Arg() Expr { return c.arg }

// Sin and Cos apply the trig functions, folding sin(0)=0 and cos(0)=1.
func Sin(arg Expr) Expr {
	if IsZero(arg) {
		return Zero
	}
	return SinFn{arg: arg}
}

func Cos(arg Expr) Expr {
	if IsZero(arg) {
		return One
	}
	return CosFn{arg: arg}
}

// IsZero reports whether e is the literal rational zero.
func IsZero(e Expr) bool {
	n, ok := e.(Num)
	return ok && n.rat.Sign() == 0
}

// IsOne reports whether e is the literal rational one.
func IsOne(e Expr) bool {
	n, ok := e.(Num)
	return ok && n.rat.Cmp(ratOne) == 0
}

// Equal reports structural equality of canonical forms.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// Add builds the canonical sum of the arguments.
func Add(args ...Expr) Expr {
	constant := new(big.Rat)
	type group struct {
		coeff   *big.Rat
		monomial []Expr // product factors with unit coefficient
	}
	order := []string{}
	groups := map[string]*group{}

	accumulate := func(coeff *big.Rat, factors []Expr) {
		if coeff.Sign() == 0 {
			return
		}
		keys := make([]string, len(factors))
		for i, f := range factors {
			keys[i] = f.String()
		}
		k := strings.Join(keys, "*")
		g, ok := groups[k]
		if !ok {
			g = &group{coeff: new(big.Rat), monomial: factors}
			groups[k] = g
			order = append(order, k)
		}
		g.coeff.Add(g.coeff, coeff)
	}

	var walk func(e Expr)
	walk = func(e Expr) {
		switch v := e.(type) {
		case Num:
			constant.Add(constant, v.rat)
		case Sum:
			for _, t := range v.terms {
				walk(t)
			}
		case Product:
			accumulate(v.coeff, v.factors)
		default:
			accumulate(ratOne, []Expr{e})
		}
	}
	for _, a := range args {
		walk(a)
	}

	terms := make([]Expr, 0, len(order)+1)
	for _, k := range order {
		g := groups[k]
		if g.coeff.Sign() == 0 {
			continue
		}
		terms = append(terms, mulWithCoeff(g.coeff, g.monomial))
	}
	if constant.Sign() != 0 {
		terms = append(terms, Num{rat: new(big.Rat).Set(constant)})
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].String() < terms[j].String() })

	switch len(terms) {
	case 0:
		return Zero
	case 1:
		return terms[0]
	default:
		return Sum{terms: terms}
	}
}

// Sub is a - b.
func Sub(a, b Expr) Expr { return Add(a, Neg(b)) }

// Neg is -e.
func Neg(e Expr) Expr { return Mul(Int(-1), e) }

// Div is a / b.
func Div(a, b Expr) Expr { return Mul(a, PowInt(b, -1)) }

// Mul builds the canonical product of the arguments.
func Mul(args ...Expr) Expr {
	coeff := big.NewRat(1, 1)
	type powAcc struct {
		base Expr
		exp  *big.Rat
	}
	order := []string{}
	pows := map[string]*powAcc{}

	addPow := func(base Expr, exp *big.Rat) {
		k := base.String()
		p, ok := pows[k]
		if !ok {
			p = &powAcc{base: base, exp: new(big.Rat)}
			pows[k] = p
			order = append(order, k)
		}
		p.exp.Add(p.exp, exp)
	}

	var walk func(e Expr)
	walk = func(e Expr) {
		switch v := e.(type) {
		case Num:
			coeff.Mul(coeff, v.rat)
		case Product:
			coeff.Mul(coeff, v.coeff)
			for _, f := range v.factors {
				walk(f)
			}
		case Power:
			addPow(v.base, v.exp)
		default:
			addPow(e, ratOne)
		}
	}
	for _, a := range args {
		walk(a)
	}
	if coeff.Sign() == 0 {
		return Zero
	}

	factors := make([]Expr, 0, len(order))
	for _, k := range order {
		p := pows[k]
		if p.exp.Sign() == 0 {
			continue
		}
		built := powRat(p.base, p.exp)
		switch b := built.(type) {
		case Num:
			coeff.Mul(coeff, b.rat)
		case Product:
			// Rational-base folding can produce coeff*rest.
			coeff.Mul(coeff, b.coeff)
			factors = append(factors, b.factors...)
		default:
			factors = append(factors, built)
		}
	}
	if coeff.Sign() == 0 {
		return Zero
	}
	sort.Slice(factors, func(i, j int) bool { return factors[i].String() < factors[j].String() })

	return mulWithCoeff(coeff, factors)
}

// mulWithCoeff assembles coeff*factors assuming factors are already canonical,
// sorted and free of Num/Product entries.
func mulWithCoeff(coeff *big.Rat, factors []Expr) Expr {
	if coeff.Sign() == 0 || len(factors) == 0 {
		return Num{rat: new(big.Rat).Set(coeff)}
	}
	if coeff.Cmp(ratOne) == 0 && len(factors) == 1 {
		return factors[0]
	}
	return Product{coeff: new(big.Rat).Set(coeff), factors: append([]Expr(nil), factors...)}
}

// PowInt is base^n for an integer exponent.
func PowInt(base Expr, n int64) Expr { return powRat(base, big.NewRat(n, 1)) }

// PowRat is base^(p/q).
func PowRat(base Expr, p, q int64) Expr { return powRat(base, big.NewRat(p, q)) }

func powRat(base Expr, exp *big.Rat) Expr {
	if exp.Sign() == 0 {
		return One
	}
	if exp.Cmp(ratOne) == 0 {
		return base
	}
	switch b := base.(type) {
	case Num:
		if b.rat.Sign() == 0 {
			if exp.Sign() > 0 {
				return Zero
			}
			// 0 to a negative power is left symbolic; evaluation reports it.
			return Power{base: base, exp: new(big.Rat).Set(exp)}
		}
		if exp.IsInt() {
			return Num{rat: ratPowInt(b.rat, exp.Num().Int64())}
		}
		if b.rat.Cmp(ratOne) == 0 {
			return One
		}
		return Power{base: base, exp: new(big.Rat).Set(exp)}
	case Power:
		if exp.IsInt() {
			// (x^a)^n = x^(a*n) holds for integer n.
			return powRat(b.base, new(big.Rat).Mul(b.exp, exp))
		}
		if s, ok := b.base.(Symbol); ok && s.Positive {
			return powRat(b.base, new(big.Rat).Mul(b.exp, exp))
		}
		return Power{base: base, exp: new(big.Rat).Set(exp)}
	case Product:
		if exp.IsInt() {
			parts := make([]Expr, 0, len(b.factors)+1)
			parts = append(parts, powRat(Num{rat: b.coeff}, exp))
			for _, f := range b.factors {
				parts = append(parts, powRat(f, exp))
			}
			return Mul(parts...)
		}
		return Power{base: base, exp: new(big.Rat).Set(exp)}
	default:
		return Power{base: base, exp: new(big.Rat).Set(exp)}
	}
}

func ratPowInt(r *big.Rat, n int64) *big.Rat {
	out := big.NewRat(1, 1)
	inv := false
	if n < 0 {
		inv = true
		n = -n
	}
	b := new(big.Rat).Set(r)
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			out.Mul(out, b)
		}
		b.Mul(b, b)
	}
	if inv {
		out.Inv(out)
	}
	return out
}

// FreeSymbols returns the distinct symbols of e sorted by name.
func FreeSymbols(e Expr) []Symbol {
	seen := map[string]Symbol{}
	var walk func(Expr)
	walk = func(x Expr) {
		switch v := x.(type) {
		case Symbol:
			seen[v.Name] = v
		case Sum:
			for _, t := range v.terms {
				walk(t)
			}
		case Product:
			for _, f := range v.factors {
				walk(f)
			}
		case Power:
			walk(v.base)
		case SinFn:
			walk(v.arg)
		case CosFn:
			walk(v.arg)
		}
	}
	walk(e)
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]Symbol, len(names))
	for i, n := range names {
		out[i] = seen[n]
	}
	return out
}
