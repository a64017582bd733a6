package curvature

import (
	"fmt"

	"dppu/internal/symbolic"
	"dppu/internal/tensor"
)

// Weyl computes the fully lowered Weyl tensor from the lowered Riemann
// tensor, Ricci tensor and Ricci scalar,
//
//	C_abcd = R_abcd
//	       - 1/(n-2) (g_ac R_bd - g_ad R_bc - g_bc R_ad + g_bd R_ac)
//	       + 1/((n-1)(n-2)) R (g_ac g_bd - g_ad g_bc).
//
// For n = 4 the coefficients are 1/2 and 1/6.
func Weyl(lowered *tensor.Tensor4, ric *tensor.Matrix, scalar symbolic.Expr, metric *tensor.Matrix) (*tensor.Tensor4, error) {
	n := int64(lowered.Dim())
	if n < 3 {
		return nil, fmt.Errorf("Weyl tensor needs dimension >= 3, got %d", n)
	}
	cRicci := symbolic.Rat(1, n-2)
	cScalar := symbolic.Rat(1, (n-1)*(n-2))

	dim := lowered.Dim()
	w := tensor.NewTensor4(dim)
	for a := 0; a < dim; a++ {
		for b := 0; b < dim; b++ {
			for c := 0; c < dim; c++ {
				for d := 0; d < dim; d++ {
					ricciPart := symbolic.Add(
						symbolic.Mul(metric.At(a, c), ric.At(b, d)),
						symbolic.Neg(symbolic.Mul(metric.At(a, d), ric.At(b, c))),
						symbolic.Neg(symbolic.Mul(metric.At(b, c), ric.At(a, d))),
						symbolic.Mul(metric.At(b, d), ric.At(a, c)),
					)
					scalarPart := symbolic.Sub(
						symbolic.Mul(metric.At(a, c), metric.At(b, d)),
						symbolic.Mul(metric.At(a, d), metric.At(b, c)),
					)
					e := symbolic.Add(
						lowered.At(a, b, c, d),
						symbolic.Neg(symbolic.Mul(cRicci, ricciPart)),
						symbolic.Mul(cScalar, scalar, scalarPart),
					)
					if symbolic.IsZero(e) {
						continue
					}
					w.Set(a, b, c, d, symbolic.Simplify(e))
				}
			}
		}
	}
	return w, nil
}

// WeylScalar contracts the Weyl tensor with itself, C_abcd C^abcd. Diagonal
// metrics take the componentwise fast path; general metrics pay for the full
// four-fold contraction.
func WeylScalar(w *tensor.Tensor4, metric *tensor.Matrix) (symbolic.Expr, error) {
	inv, err := metric.Inverse()
	if err != nil {
		return nil, err
	}
	if metric.IsDiagonal() {
		return weylScalarDiagonal(w, inv), nil
	}
	return weylScalarGeneral(w, inv), nil
}

func weylScalarDiagonal(w *tensor.Tensor4, inv *tensor.Matrix) symbolic.Expr {
	dim := w.Dim()
	parts := []symbolic.Expr{}
	for a := 0; a < dim; a++ {
		for b := 0; b < dim; b++ {
			for c := 0; c < dim; c++ {
				for d := 0; d < dim; d++ {
					e := w.At(a, b, c, d)
					if symbolic.IsZero(e) {
						continue
					}
					parts = append(parts, symbolic.Mul(
						inv.At(a, a), inv.At(b, b), inv.At(c, c), inv.At(d, d),
						symbolic.PowInt(e, 2),
					))
				}
			}
		}
	}
	return symbolic.Simplify(symbolic.Add(parts...))
}

func weylScalarGeneral(w *tensor.Tensor4, inv *tensor.Matrix) symbolic.Expr {
	dim := w.Dim()
	parts := []symbolic.Expr{}
	for a := 0; a < dim; a++ {
		for b := 0; b < dim; b++ {
			for c := 0; c < dim; c++ {
				for d := 0; d < dim; d++ {
					low := w.At(a, b, c, d)
					if symbolic.IsZero(low) {
						continue
					}
					// Raise all four indices against the lowered component.
					up := []symbolic.Expr{}
					for e := 0; e < dim; e++ {
						for f := 0; f < dim; f++ {
							for g := 0; g < dim; g++ {
								for h := 0; h < dim; h++ {
									we := w.At(e, f, g, h)
									if symbolic.IsZero(we) {
										continue
									}
									up = append(up, symbolic.Mul(
										inv.At(a, e), inv.At(b, f), inv.At(c, g), inv.At(d, h), we,
									))
								}
							}
						}
					}
					parts = append(parts, symbolic.Mul(low, symbolic.Add(up...)))
				}
			}
		}
	}
	return symbolic.Simplify(symbolic.Add(parts...))
}
