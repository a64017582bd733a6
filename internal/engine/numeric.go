package engine

import (
	"fmt"

	"dppu/internal/curvature"
	"dppu/internal/symbolic"
)

// PotentialFunc evaluates the effective potential numerically. The argument
// order is fixed: radius, V, eta, theta_NY, L, kappa, epsilon, alpha.
// Parameters absent from the state's torsion mode are accepted and ignored.
type PotentialFunc func(r, v, eta, thetaNY, l, kappa, epsilon, alpha float64) float64

// potentialArgNames is the canonical argument order, radius first.
var potentialArgNames = []string{"r", "V", "eta", "theta_NY", "L", "kappa", "epsilon", "alpha"}

// argSymbols resolves the canonical argument list against the state's
// parameters. The radius slot takes the frame's radius symbol whatever its
// name; parameters missing from the state become placeholder symbols so the
// compiled function keeps its arity.
func argSymbols(st *State) ([]symbolic.Symbol, error) {
	radius, ok := st.Params["r"]
	if !ok {
		if radius, ok = st.Params["R"]; !ok {
			return nil, fmt.Errorf("state has no radius parameter")
		}
	}
	out := make([]symbolic.Symbol, len(potentialArgNames))
	out[0] = radius
	for i, name := range potentialArgNames[1:] {
		if s, ok := st.Params[name]; ok {
			out[i+1] = s
		} else {
			out[i+1] = symbolic.Sym(name)
		}
	}
	return out, nil
}

// NewPotentialFunc compiles the state's effective potential.
func NewPotentialFunc(st *State) (PotentialFunc, error) {
	if st.Potential == nil {
		return nil, fmt.Errorf("effective potential not derived yet")
	}
	order, err := argSymbols(st)
	if err != nil {
		return nil, err
	}
	fn, err := symbolic.Compile(st.Potential, order)
	if err != nil {
		return nil, fmt.Errorf("compiling potential: %w", err)
	}
	return func(r, v, eta, thetaNY, l, kappa, epsilon, alpha float64) float64 {
		return fn([]float64{r, v, eta, thetaNY, l, kappa, epsilon, alpha})
	}, nil
}

// CurvatureEvaluator numerically evaluates the lowered Einstein-Cartan
// curvature and its self-duality diagnostics. It composes the compiled
// component grid with the duality analysis rather than extending either.
type CurvatureEvaluator struct {
	dim   int
	comps []func([]float64) float64
}

// NewCurvatureEvaluator compiles every component of the state's lowered
// Einstein-Cartan Riemann tensor.
func NewCurvatureEvaluator(st *State) (*CurvatureEvaluator, error) {
	if st.RiemannAbcd == nil {
		return nil, fmt.Errorf("Einstein-Cartan curvature not derived yet")
	}
	order, err := argSymbols(st)
	if err != nil {
		return nil, err
	}

	dim := st.RiemannAbcd.Dim()
	comps := make([]func([]float64) float64, dim*dim*dim*dim)
	for a := 0; a < dim; a++ {
		for b := 0; b < dim; b++ {
			for c := 0; c < dim; c++ {
				for d := 0; d < dim; d++ {
					fn, err := symbolic.Compile(st.RiemannAbcd.At(a, b, c, d), order)
					if err != nil {
						return nil, fmt.Errorf("compiling R(%d,%d,%d,%d): %w", a, b, c, d, err)
					}
					comps[curvature.Index(a, b, c, d, dim)] = fn
				}
			}
		}
	}
	return &CurvatureEvaluator{dim: dim, comps: comps}, nil
}

// Evaluate fills the flattened numeric curvature at the given arguments,
// ordered as in PotentialFunc.
func (ce *CurvatureEvaluator) Evaluate(args [8]float64) []float64 {
	out := make([]float64, len(ce.comps))
	for i, fn := range ce.comps {
		out[i] = fn(args[:])
	}
	return out
}

// SelfDuality evaluates the curvature and its duality diagnostics at one
// parameter point.
func (ce *CurvatureEvaluator) SelfDuality(args [8]float64) (curvature.SDStatus, error) {
	return curvature.SelfDuality(ce.Evaluate(args), ce.dim)
}

// PlanePoint is one grid point of a parameter-plane scan.
type PlanePoint struct {
	Eta    float64
	V      float64
	Status curvature.SDStatus
}

// ScanParameterPlane sweeps the (eta, V) plane at fixed remaining
// parameters, returning row-major grid points.
func (ce *CurvatureEvaluator) ScanParameterPlane(etas, vs []float64, base [8]float64) ([]PlanePoint, error) {
	out := make([]PlanePoint, 0, len(etas)*len(vs))
	for _, eta := range etas {
		for _, v := range vs {
			args := base
			args[1] = v
			args[2] = eta
			st, err := ce.SelfDuality(args)
			if err != nil {
				return nil, fmt.Errorf("scan at eta=%g V=%g: %w", eta, v, err)
			}
			out = append(out, PlanePoint{Eta: eta, V: v, Status: st})
		}
	}
	return out, nil
}
