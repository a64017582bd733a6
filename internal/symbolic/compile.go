package symbolic

import (
	"fmt"
	"math"
)

// Compile lowers e to a float64 evaluator over the given argument order. Every
// free symbol of e must appear in order; extra arguments are permitted and
// ignored. The compiled function is safe for concurrent use.
func Compile(e Expr, order []Symbol) (func(args []float64) float64, error) {
	idx := make(map[string]int, len(order))
	for i, s := range order {
		idx[s.Name] = i
	}
	for _, s := range FreeSymbols(e) {
		if _, ok := idx[s.Name]; !ok {
			return nil, fmt.Errorf("free symbol %q not in argument list", s.Name)
		}
	}
	return compileNode(e, idx), nil
}

func compileNode(e Expr, idx map[string]int) func([]float64) float64 {
	switch v := e.(type) {
	case Num:
		c, _ := v.rat.Float64()
		return func([]float64) float64 { return c }
	case Symbol:
		i := idx[v.Name]
		return func(args []float64) float64 { return args[i] }
	case Constant:
		return func([]float64) float64 { return math.Pi }
	case Sum:
		parts := make([]func([]float64) float64, len(v.terms))
		for i, t := range v.terms {
			parts[i] = compileNode(t, idx)
		}
		return func(args []float64) float64 {
			acc := 0.0
			for _, p := range parts {
				acc += p(args)
			}
			return acc
		}
	case Product:
		c, _ := v.coeff.Float64()
		parts := make([]func([]float64) float64, len(v.factors))
		for i, f := range v.factors {
			parts[i] = compileNode(f, idx)
		}
		return func(args []float64) float64 {
			acc := c
			for _, p := range parts {
				acc *= p(args)
			}
			return acc
		}
	case Power:
		base := compileNode(v.base, idx)
		if v.exp.IsInt() {
			n := v.exp.Num().Int64()
			switch n {
			case -1:
				return func(args []float64) float64 { return 1 / base(args) }
			case 2:
				return func(args []float64) float64 { b := base(args); return b * b }
			case 3:
				return func(args []float64) float64 { b := base(args); return b * b * b }
			}
			nf := float64(n)
			return func(args []float64) float64 { return math.Pow(base(args), nf) }
		}
		ef, _ := v.exp.Float64()
		return func(args []float64) float64 { return math.Pow(base(args), ef) }
	case SinFn:
		arg := compileNode(v.arg, idx)
		return func(args []float64) float64 { return math.Sin(arg(args)) }
	case CosFn:
		arg := compileNode(v.arg, idx)
		return func(args []float64) float64 { return math.Cos(arg(args)) }
	default:
		return func([]float64) float64 { return math.NaN() }
	}
}
