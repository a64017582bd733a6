package symbolic

import (
	"fmt"
	"math/big"
	"unicode"
)

// Parse reads the canonical textual form produced by Expr.String. All symbols
// are parsed without assumptions; use ParseWith to restore positivity.
func Parse(input string) (Expr, error) {
	return ParseWith(input, nil)
}

// ParseWith reads an expression, marking the named symbols as positive.
// Positivity is not part of the textual form, so callers that persist
// expressions (the checkpoint store) must persist assumptions separately.
func ParseWith(input string, positive map[string]bool) (Expr, error) {
	p := &parser{src: input, positive: positive}
	e, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("unexpected trailing input at offset %d: %q", p.pos, p.src[p.pos:])
	}
	return e, nil
}

type parser struct {
	src      string
	pos      int
	positive map[string]bool
}

// Binding powers: additive < multiplicative < unary minus < power.
const (
	bpAdd = 10
	bpMul = 20
	bpNeg = 30
	bpPow = 40
)

func (p *parser) parseExpr(minBP int) (Expr, error) {
	lhs, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return lhs, nil
		}
		var (
			bp    int
			right int
			op    byte
		)
		switch p.src[p.pos] {
		case '+', '-':
			bp, right, op = bpAdd, bpAdd+1, p.src[p.pos]
		case '*', '/':
			bp, right, op = bpMul, bpMul+1, p.src[p.pos]
		case '^':
			bp, right, op = bpPow, bpPow, '^' // right-associative
		default:
			return lhs, nil
		}
		if bp < minBP {
			return lhs, nil
		}
		p.pos++
		rhs, err := p.parseExpr(right)
		if err != nil {
			return nil, err
		}
		switch op {
		case '+':
			lhs = Add(lhs, rhs)
		case '-':
			lhs = Sub(lhs, rhs)
		case '*':
			lhs = Mul(lhs, rhs)
		case '/':
			lhs = Div(lhs, rhs)
		case '^':
			exp, ok := rhs.(Num)
			if !ok {
				return nil, fmt.Errorf("exponent must be rational, got %q", rhs.String())
			}
			lhs = powRat(lhs, exp.rat)
		}
	}
}

func (p *parser) parsePrefix() (Expr, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("unexpected end of input")
	}
	c := p.src[p.pos]
	switch {
	case c == '-':
		p.pos++
		e, err := p.parseExpr(bpNeg)
		if err != nil {
			return nil, err
		}
		return Neg(e), nil
	case c == '(':
		p.pos++
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return e, nil
	case c >= '0' && c <= '9':
		return p.parseNumber()
	case isIdentStart(rune(c)):
		return p.parseIdent()
	default:
		return nil, fmt.Errorf("unexpected character %q at offset %d", c, p.pos)
	}
}

func (p *parser) parseNumber() (Expr, error) {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	n := new(big.Int)
	if _, ok := n.SetString(p.src[start:p.pos], 10); !ok {
		return nil, fmt.Errorf("bad integer %q", p.src[start:p.pos])
	}
	return Num{rat: new(big.Rat).SetInt(n)}, nil
}

func (p *parser) parseIdent() (Expr, error) {
	start := p.pos
	for p.pos < len(p.src) && isIdentPart(rune(p.src[p.pos])) {
		p.pos++
	}
	name := p.src[start:p.pos]
	switch name {
	case "pi":
		return Pi, nil
	case "sin", "cos":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		arg, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		if name == "sin" {
			return Sin(arg), nil
		}
		return Cos(arg), nil
	default:
		return Symbol{Name: name, Positive: p.positive[name]}, nil
	}
}

func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != c {
		return fmt.Errorf("expected %q at offset %d", c, p.pos)
	}
	p.pos++
	return nil
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
