package curvature

import (
	"dppu/internal/symbolic"
	"dppu/internal/tensor"
)

// Ricci contracts the mixed Riemann tensor, R_bd = R^a_b a d.
func Ricci(riemann *tensor.Tensor4) *tensor.Matrix {
	dim := riemann.Dim()
	ric := tensor.NewMatrix(dim)
	for b := 0; b < dim; b++ {
		for d := 0; d < dim; d++ {
			parts := make([]symbolic.Expr, 0, dim)
			for a := 0; a < dim; a++ {
				parts = append(parts, riemann.At(a, b, a, d))
			}
			sum := symbolic.Add(parts...)
			if symbolic.IsZero(sum) {
				continue
			}
			ric.Set(b, d, symbolic.Simplify(sum))
		}
	}
	return ric
}

// RicciScalar contracts the mixed Riemann tensor twice, R = R^a_b a b, which
// equals the metric trace of the Ricci tensor in an orthonormal frame.
func RicciScalar(riemann *tensor.Tensor4) symbolic.Expr {
	dim := riemann.Dim()
	parts := make([]symbolic.Expr, 0, dim*dim)
	for a := 0; a < dim; a++ {
		for b := 0; b < dim; b++ {
			parts = append(parts, riemann.At(a, b, a, b))
		}
	}
	return symbolic.Simplify(symbolic.Add(parts...))
}

// DecomposeRicci splits the Ricci tensor into its symmetric and
// antisymmetric halves. With torsion the antisymmetric half is generally
// nonzero.
func DecomposeRicci(ric *tensor.Matrix) (sym, antisym *tensor.Matrix) {
	dim := ric.Dim()
	sym = tensor.NewMatrix(dim)
	antisym = tensor.NewMatrix(dim)
	half := symbolic.Rat(1, 2)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			sym.Set(i, j, symbolic.Mul(half, symbolic.Add(ric.At(i, j), ric.At(j, i))))
			antisym.Set(i, j, symbolic.Mul(half, symbolic.Sub(ric.At(i, j), ric.At(j, i))))
		}
	}
	return sym, antisym
}
