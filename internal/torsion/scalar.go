package torsion

import (
	"dppu/internal/symbolic"
	"dppu/internal/tensor"
)

// Scalar computes the quadratic torsion invariant T_abc T^abc, which in the
// euclidean orthonormal frame is the plain sum of squared components.
func Scalar(t *tensor.Tensor3) symbolic.Expr {
	dim := t.Dim()
	parts := []symbolic.Expr{}
	for a := 0; a < dim; a++ {
		for b := 0; b < dim; b++ {
			for c := 0; c < dim; c++ {
				e := t.At(a, b, c)
				if symbolic.IsZero(e) {
					continue
				}
				parts = append(parts, symbolic.PowInt(e, 2))
			}
		}
	}
	return symbolic.Simplify(symbolic.Add(parts...))
}

// Pseudoscalar computes the parity-odd torsion invariant
//
//	1/4 eps_abcd T^e_ab T^e_cd  (summed over all indices),
//
// which coincides with the torsion-torsion part of the Nieh-Yan density.
func Pseudoscalar(t *tensor.Tensor3) symbolic.Expr {
	dim := t.Dim()
	quarter := symbolic.Rat(1, 4)
	parts := []symbolic.Expr{}
	for a := 0; a < dim; a++ {
		for b := 0; b < dim; b++ {
			for c := 0; c < dim; c++ {
				for d := 0; d < dim; d++ {
					s := tensor.EpsilonN(a, b, c, d)
					if s == 0 {
						continue
					}
					for e := 0; e < dim; e++ {
						parts = append(parts, symbolic.Mul(
							symbolic.Int(int64(s)), quarter,
							t.At(e, a, b), t.At(e, c, d),
						))
					}
				}
			}
		}
	}
	return symbolic.Simplify(symbolic.Add(parts...))
}

// Trace contracts the torsion on its first two indices, T_b = T^a_ab.
func Trace(t *tensor.Tensor3) []symbolic.Expr {
	dim := t.Dim()
	out := make([]symbolic.Expr, dim)
	for b := 0; b < dim; b++ {
		parts := make([]symbolic.Expr, 0, dim)
		for a := 0; a < dim; a++ {
			parts = append(parts, t.At(a, a, b))
		}
		out[b] = symbolic.Simplify(symbolic.Add(parts...))
	}
	return out
}

// TraceNorm is the squared norm of the trace vector.
func TraceNorm(t *tensor.Tensor3) symbolic.Expr {
	parts := []symbolic.Expr{}
	for _, tb := range Trace(t) {
		if symbolic.IsZero(tb) {
			continue
		}
		parts = append(parts, symbolic.PowInt(tb, 2))
	}
	return symbolic.Simplify(symbolic.Add(parts...))
}
