package torsion

import (
	"fmt"

	"dppu/internal/geometry"
	"dppu/internal/symbolic"
	"dppu/internal/tensor"
)

// Construct builds the torsion ansatz T^a_bc on the frame for the given
// mode. The axial part is totally antisymmetric over the spatial indices,
//
//	T_ijk = 2*eta*eps_ijk / r,
//
// and the vector-trace part points along the circle direction,
//
//	T_abc = (g_ac V_b - g_ab V_c) / 3,  V = (0, 0, 0, V).
func Construct(f *geometry.Frame, mode Mode) (*tensor.Tensor3, error) {
	t := tensor.NewTensor3(f.Dim)

	ax, err := mode.HasAxial()
	if err != nil {
		return nil, err
	}
	vt, err := mode.HasVectorTrace()
	if err != nil {
		return nil, err
	}

	if ax {
		eta, err := f.Params.Symbol("eta")
		if err != nil {
			return nil, fmt.Errorf("mode %s: %w", mode, err)
		}
		r, err := f.Radius()
		if err != nil {
			return nil, err
		}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				for k := 0; k < 3; k++ {
					s := tensor.Epsilon3(i, j, k)
					if s == 0 {
						continue
					}
					t.Update(i, j, k, symbolic.Mul(
						symbolic.Int(int64(2*s)), eta, symbolic.PowInt(r, -1),
					))
				}
			}
		}
	}

	if vt {
		v, err := f.Params.Symbol("V")
		if err != nil {
			return nil, fmt.Errorf("mode %s: %w", mode, err)
		}
		circle := f.Dim - 1
		third := symbolic.Rat(1, 3)
		vec := func(i int) symbolic.Expr {
			if i == circle {
				return v
			}
			return symbolic.Zero
		}
		for a := 0; a < f.Dim; a++ {
			for b := 0; b < f.Dim; b++ {
				for c := 0; c < f.Dim; c++ {
					e := symbolic.Mul(third, symbolic.Sub(
						symbolic.Mul(f.Metric.At(a, c), vec(b)),
						symbolic.Mul(f.Metric.At(a, b), vec(c)),
					))
					if symbolic.IsZero(e) {
						continue
					}
					t.Update(a, b, c, e)
				}
			}
		}
	}

	return t, nil
}

// ExtractParameters reads eta and V back from a torsion tensor built by
// Construct, using the components where each part appears in isolation:
// the axial part alone feeds T_012 and the vector-trace part alone feeds
// T_030.
func ExtractParameters(t *tensor.Tensor3, radius symbolic.Symbol) (eta, v symbolic.Expr) {
	eta = symbolic.Simplify(symbolic.Mul(symbolic.Rat(1, 2), t.At(0, 1, 2), radius))
	v = symbolic.Simplify(symbolic.Mul(symbolic.Int(3), t.At(0, 3, 0)))
	return eta, v
}
