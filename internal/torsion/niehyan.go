package torsion

import (
	"fmt"

	"dppu/internal/symbolic"
	"dppu/internal/tensor"
)

// NiehYan holds the Nieh-Yan density split into its two terms.
type NiehYan struct {
	// TT is the torsion-torsion term, 1/4 eps_abcd T^e_ab T^e_cd.
	TT symbolic.Expr
	// Ree is the curvature term, 1/4 eps_abcd R_abcd.
	Ree symbolic.Expr
	// Full is TT - Ree, the total derivative combination.
	Full symbolic.Expr
}

// ComputeNiehYan evaluates both Nieh-Yan terms from the torsion and the
// lowered Einstein-Cartan Riemann tensor.
func ComputeNiehYan(t *tensor.Tensor3, lowered *tensor.Tensor4) NiehYan {
	tt := Pseudoscalar(t)

	dim := lowered.Dim()
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
					parts = append(parts, symbolic.Mul(
						symbolic.Int(int64(s)), quarter, lowered.At(a, b, c, d),
					))
				}
			}
		}
	}
	ree := symbolic.Simplify(symbolic.Add(parts...))

	return NiehYan{
		TT:   tt,
		Ree:  ree,
		Full: symbolic.Simplify(symbolic.Sub(tt, ree)),
	}
}

// Select returns the density adopted by the given variant.
func (n NiehYan) Select(v Variant) (symbolic.Expr, error) {
	switch v {
	case VariantFull:
		return n.Full, nil
	case VariantTT:
		return n.TT, nil
	case VariantRee:
		return n.Ree, nil
	default:
		return nil, fmt.Errorf("unknown Nieh-Yan variant %d", int(v))
	}
}
