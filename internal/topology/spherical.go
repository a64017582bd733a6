package topology

import (
	"dppu/internal/geometry"
	"dppu/internal/symbolic"
	"dppu/internal/tensor"
	"dppu/internal/torsion"
)

// Spherical builds the squashed S³×S¹ frame. The three-sphere of radius r
// carries a one-parameter squashing epsilon that rescales the frame
// directions anisotropically: directions 0 and 1 by (1+epsilon)^(2/3) and
// direction 2 by (1+epsilon)^(-4/3), which preserves the volume.
func Spherical(mode torsion.Mode) (*geometry.Frame, error) {
	params, err := baseParams("r", mode)
	if err != nil {
		return nil, err
	}
	r := params["r"]
	eps := params["epsilon"]

	onePlusEps := symbolic.Add(symbolic.One, eps)
	squash := func(upper int) symbolic.Expr {
		if upper == 2 {
			return symbolic.PowRat(onePlusEps, -4, 3)
		}
		return symbolic.PowRat(onePlusEps, 2, 3)
	}

	c := tensor.NewTensor3(Dim)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				s := tensor.Epsilon3(i, j, k)
				if s == 0 {
					continue
				}
				c.Set(i, j, k, symbolic.Mul(
					symbolic.Int(int64(4*s)),
					symbolic.PowInt(r, -1),
					squash(i),
				))
			}
		}
	}
	if err := verifyAntisymmetry(c); err != nil {
		return nil, err
	}

	// Vol = 2*pi^2 * L * r^3
	volume := symbolic.Mul(
		symbolic.Int(2), symbolic.PowInt(symbolic.Pi, 2),
		params["L"], symbolic.PowInt(r, 3),
	)

	derived := map[string]symbolic.Expr{}
	if eta, ok := params["eta"]; ok {
		// q is the axial charge conventionally quoted alongside eta.
		derived["q"] = symbolic.Mul(symbolic.Int(2), eta)
	}

	return &geometry.Frame{
		Name:               "S3xS1",
		Dim:                Dim,
		Params:             params,
		Metric:             euclideanMetric(),
		StructureConstants: c,
		Volume:             volume,
		Derived:            derived,
	}, nil
}
