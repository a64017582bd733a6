package topology

import (
	"dppu/internal/geometry"
	"dppu/internal/symbolic"
	"dppu/internal/tensor"
	"dppu/internal/torsion"
)

// Toroidal builds the flat T³×S¹ frame. The torus is abelian, so all
// structure constants vanish and the Levi-Civita curvature is identically
// zero; any nontrivial dynamics comes from torsion alone.
func Toroidal(mode torsion.Mode) (*geometry.Frame, error) {
	params, err := baseParams("r", mode)
	if err != nil {
		return nil, err
	}
	r := params["r"]

	// Vol = (2*pi)^4 * L * r^3, the isotropic case R1 = R2 = R3 = r.
	volume := symbolic.Mul(
		symbolic.Int(16), symbolic.PowInt(symbolic.Pi, 4),
		params["L"], symbolic.PowInt(r, 3),
	)

	derived := map[string]symbolic.Expr{
		"R1": r, "R2": r, "R3": r,
	}
	if eta, ok := params["eta"]; ok {
		derived["q"] = symbolic.Mul(symbolic.Int(2), eta)
	}

	return &geometry.Frame{
		Name:               "T3xS1",
		Dim:                Dim,
		Params:             params,
		Metric:             euclideanMetric(),
		StructureConstants: tensor.NewTensor3(Dim),
		Volume:             volume,
		Derived:            derived,
	}, nil
}
