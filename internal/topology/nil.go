package topology

import (
	"dppu/internal/geometry"
	"dppu/internal/symbolic"
	"dppu/internal/tensor"
	"dppu/internal/torsion"
)

// Nil builds the Heisenberg Nil³×S¹ frame. The nilmanifold has a single
// nontrivial bracket, [e0, e1] = lambda*e2, with the squashing folded into
// lambda = (1/R) * (1+epsilon)^(-4/3).
func Nil(mode torsion.Mode) (*geometry.Frame, error) {
	params, err := baseParams("R", mode)
	if err != nil {
		return nil, err
	}
	radius := params["R"]
	eps := params["epsilon"]

	lambda := symbolic.Mul(
		symbolic.PowInt(radius, -1),
		symbolic.PowRat(symbolic.Add(symbolic.One, eps), -4, 3),
	)

	c := tensor.NewTensor3(Dim)
	c.Set(2, 0, 1, symbolic.Neg(lambda))
	c.Set(2, 1, 0, lambda)
	if err := verifyAntisymmetry(c); err != nil {
		return nil, err
	}

	// Vol = (2*pi)^4 * L * R^3
	volume := symbolic.Mul(
		symbolic.Int(16), symbolic.PowInt(symbolic.Pi, 4),
		params["L"], symbolic.PowInt(radius, 3),
	)

	derived := map[string]symbolic.Expr{"lambda": lambda}
	if eta, ok := params["eta"]; ok {
		derived["q"] = symbolic.Mul(symbolic.Int(2), eta)
	}

	return &geometry.Frame{
		Name:               "Nil3xS1",
		Dim:                Dim,
		Params:             params,
		Metric:             euclideanMetric(),
		StructureConstants: c,
		Volume:             volume,
		Derived:            derived,
	}, nil
}
