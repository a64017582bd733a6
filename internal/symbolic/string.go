package symbolic

import (
	"math/big"
	"strings"
)

func (n Num) String() string {
	if n.rat.IsInt() {
		return n.rat.Num().String()
	}
	return n.rat.Num().String() + "/" + n.rat.Denom().String()
}

func (s Symbol) String() string   { return s.Name }
func (c Constant) String() string { return c.name }

func (s Sum) String() string {
	var b strings.Builder
	for i, t := range s.terms {
		ts := t.String()
		if i == 0 {
			b.WriteString(ts)
			continue
		}
		if strings.HasPrefix(ts, "-") {
			b.WriteString(" - ")
			b.WriteString(ts[1:])
		} else {
			b.WriteString(" + ")
			b.WriteString(ts)
		}
	}
	return b.String()
}

func (p Product) String() string {
	var b strings.Builder
	switch {
	case p.coeff.Cmp(ratOne) == 0:
	case p.coeff.Cmp(big.NewRat(-1, 1)) == 0:
		b.WriteString("-")
	default:
		b.WriteString((Num{rat: p.coeff}).String())
		b.WriteString("*")
	}
	for i, f := range p.factors {
		if i > 0 {
			b.WriteString("*")
		}
		b.WriteString(maybeParen(f))
	}
	return b.String()
}

func (p Power) String() string {
	base := maybeParen(p.base)
	if _, isPow := p.base.(Power); isPow {
		base = "(" + p.base.String() + ")"
	}
	if p.exp.IsInt() && p.exp.Sign() > 0 {
		return base + "^" + p.exp.Num().String()
	}
	return base + "^(" + (Num{rat: p.exp}).String() + ")"
}

func (s SinFn) String() string { return "sin(" + s.arg.String() + ")" }
func (c CosFn) String() string { return "cos(" + c.arg.String() + ")" }

// maybeParen wraps composite or negative subexpressions so the rendered form
// re-parses to the same tree.
func maybeParen(e Expr) string {
	switch v := e.(type) {
	case Sum, Product:
		return "(" + e.String() + ")"
	case Num:
		if v.rat.Sign() < 0 || !v.rat.IsInt() {
			return "(" + e.String() + ")"
		}
		return e.String()
	default:
		return e.String()
	}
}
