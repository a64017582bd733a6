// Package topology constructs the three compactified background geometries:
// the squashed three-sphere, the flat three-torus and the Heisenberg
// nilmanifold, each crossed with a circle.
package topology

import (
	"fmt"

	"dppu/internal/geometry"
	"dppu/internal/symbolic"
	"dppu/internal/tensor"
	"dppu/internal/torsion"
)

// Dim is the frame dimension of every built-in topology: three spatial frame
// directions plus the circle.
const Dim = 4

// Names lists the supported topology names in presentation order.
func Names() []string {
	return []string{"S3xS1", "T3xS1", "Nil3xS1"}
}

// ForName builds the named topology with the given torsion mode.
func ForName(name string, mode torsion.Mode) (*geometry.Frame, error) {
	switch name {
	case "S3xS1":
		return Spherical(mode)
	case "T3xS1":
		return Toroidal(mode)
	case "Nil3xS1":
		return Nil(mode)
	default:
		return nil, fmt.Errorf("unknown topology %q (want one of %v)", name, Names())
	}
}

// baseParams builds the parameter set shared by all topologies. The radius
// symbol name differs per topology; eta and V are present only when the
// torsion mode uses them.
func baseParams(radius string, mode torsion.Mode) (geometry.Params, error) {
	p := geometry.Params{
		radius:     symbolic.PosSym(radius),
		"L":        symbolic.PosSym("L"),
		"kappa":    symbolic.PosSym("kappa"),
		"theta_NY": symbolic.Sym("theta_NY"),
		"epsilon":  symbolic.Sym("epsilon"),
		"alpha":    symbolic.Sym("alpha"),
	}
	ax, err := mode.HasAxial()
	if err != nil {
		return nil, err
	}
	vt, err := mode.HasVectorTrace()
	if err != nil {
		return nil, err
	}
	if ax {
		p["eta"] = symbolic.Sym("eta")
	}
	if vt {
		p["V"] = symbolic.PosSym("V")
	}
	return p, nil
}

// verifyAntisymmetry checks C^a_bc = -C^a_cb for every component. Structure
// constants failing this are a construction bug, not a runtime condition.
func verifyAntisymmetry(c *tensor.Tensor3) error {
	dim := c.Dim()
	for a := 0; a < dim; a++ {
		for b := 0; b < dim; b++ {
			for cc := b; cc < dim; cc++ {
				residual := symbolic.Add(c.At(a, b, cc), c.At(a, cc, b))
				if !symbolic.IsZero(symbolic.Expand(residual)) {
					return fmt.Errorf("structure constants not antisymmetric: C(%d,%d,%d) + C(%d,%d,%d) = %s",
						a, b, cc, a, cc, b, residual)
				}
			}
		}
	}
	return nil
}

func euclideanMetric() *tensor.Matrix {
	return tensor.Eye(Dim)
}
