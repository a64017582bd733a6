// Package geometry defines the orthonormal-frame data shared by the topology
// providers and the derivation pipeline: the frame metric, the parameter set,
// and the metric-compatibility diagnostic.
package geometry

import (
	"fmt"
	"sort"

	"dppu/internal/oracle"
	"dppu/internal/symbolic"
	"dppu/internal/tensor"
)

// Signature selects the frame metric signature.
type Signature int

const (
	// Euclidean is the all-plus signature used by the compactified
	// geometries.
	Euclidean Signature = iota
	// Lorentzian is the mostly-plus signature diag(-1, +1, ..., +1).
	Lorentzian
)

func (s Signature) String() string {
	switch s {
	case Euclidean:
		return "euclidean"
	case Lorentzian:
		return "lorentzian"
	default:
		return fmt.Sprintf("Signature(%d)", int(s))
	}
}

// FrameMetric returns the constant orthonormal-frame metric for the given
// dimension and signature.
func FrameMetric(dim int, sig Signature) (*tensor.Matrix, error) {
	if dim < 1 {
		return nil, fmt.Errorf("frame dimension must be positive, got %d", dim)
	}
	switch sig {
	case Euclidean:
		return tensor.Eye(dim), nil
	case Lorentzian:
		m := tensor.Eye(dim)
		m.Set(0, 0, symbolic.Int(-1))
		return m, nil
	default:
		return nil, fmt.Errorf("unknown metric signature %d", int(sig))
	}
}

// Params is the named symbol set of a frame: geometric radii, coupling
// constants and torsion parameters.
type Params map[string]symbolic.Symbol

// Symbol returns the named parameter.
func (p Params) Symbol(name string) (symbolic.Symbol, error) {
	s, ok := p[name]
	if !ok {
		return symbolic.Symbol{}, fmt.Errorf("unknown parameter %q", name)
	}
	return s, nil
}

// Names returns the parameter names in sorted order.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for n := range p {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Assumptions returns the positivity map used to restore symbols after
// deserialization.
func (p Params) Assumptions() map[string]bool {
	out := make(map[string]bool, len(p))
	for n, s := range p {
		out[n] = s.Positive
	}
	return out
}

// Frame is a fully specified compactified geometry: an orthonormal frame
// with constant metric, structure constants and total volume.
type Frame struct {
	// Name identifies the topology (e.g. "S3xS1").
	Name string
	// Dim is the frame dimension, 4 for all built-in topologies.
	Dim int
	// Params holds the free symbols of the geometry.
	Params Params
	// Metric is the constant frame metric.
	Metric *tensor.Matrix
	// StructureConstants is C^a_bc, antisymmetric in b, c.
	StructureConstants *tensor.Tensor3
	// Volume is the total spatial volume times the circle circumference.
	Volume symbolic.Expr
	// Derived maps convenience names to expressions over Params (e.g. the
	// squashing charge q = 2*eta, or the isotropic radius aliases).
	Derived map[string]symbolic.Expr
}

// Radius returns the spatial radius symbol of the frame, named "r" or "R"
// depending on the topology.
func (f *Frame) Radius() (symbolic.Symbol, error) {
	if s, ok := f.Params["r"]; ok {
		return s, nil
	}
	if s, ok := f.Params["R"]; ok {
		return s, nil
	}
	return symbolic.Symbol{}, fmt.Errorf("frame %q has no radius parameter", f.Name)
}

// CompatibilityViolation records one index pair where the lowered connection
// fails the metric-compatibility condition.
type CompatibilityViolation struct {
	A, B, C  int
	Residual symbolic.Expr
}

func (v CompatibilityViolation) String() string {
	return fmt.Sprintf("Gamma(%d,%d,%d) + Gamma(%d,%d,%d) = %s",
		v.A, v.B, v.C, v.B, v.A, v.C, v.Residual)
}

// VerifyMetricCompatibility checks that the connection lowered with the frame
// metric is antisymmetric in its first two indices, Γ_abc + Γ_bac = 0. With a
// constant frame metric this is exactly metric compatibility. The returned
// violations are diagnostic; callers decide severity.
func VerifyMetricCompatibility(conn *tensor.Tensor3, metric *tensor.Matrix, o *oracle.Oracle) []CompatibilityViolation {
	dim := conn.Dim()
	lower := func(a, b, c int) symbolic.Expr {
		parts := make([]symbolic.Expr, 0, dim)
		for d := 0; d < dim; d++ {
			parts = append(parts, symbolic.Mul(metric.At(a, d), conn.At(d, b, c)))
		}
		return symbolic.Add(parts...)
	}

	var violations []CompatibilityViolation
	for a := 0; a < dim; a++ {
		for b := a; b < dim; b++ {
			for c := 0; c < dim; c++ {
				residual := symbolic.Add(lower(a, b, c), lower(b, a, c))
				if symbolic.IsZero(residual) {
					continue
				}
				if p := o.ProveZero(residual); p.Proved {
					continue
				}
				violations = append(violations, CompatibilityViolation{A: a, B: b, C: c, Residual: residual})
			}
		}
	}
	return violations
}
