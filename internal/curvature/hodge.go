package curvature

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"dppu/internal/tensor"
)

// Numeric self-duality analysis works on flattened rank-4 float64 tensors,
// indexed as ((a*dim+b)*dim+c)*dim+d.

// Index flattens a rank-4 index for the numeric tensors.
func Index(a, b, c, d, dim int) int {
	return ((a*dim+b)*dim+c)*dim + d
}

// HodgeDual computes the dual on the second index pair,
//
//	(*R)^ab_cd = 1/2 eps_cdef R^ab_ef  (summed over e, f),
//
// valid in the euclidean orthonormal frame where index position is free.
func HodgeDual(r []float64, dim int) ([]float64, error) {
	if len(r) != dim*dim*dim*dim {
		return nil, fmt.Errorf("tensor length %d does not match dimension %d", len(r), dim)
	}
	out := make([]float64, len(r))
	for a := 0; a < dim; a++ {
		for b := 0; b < dim; b++ {
			for c := 0; c < dim; c++ {
				for d := 0; d < dim; d++ {
					acc := 0.0
					for e := 0; e < dim; e++ {
						for f := 0; f < dim; f++ {
							s := tensor.EpsilonN(c, d, e, f)
							if s == 0 {
								continue
							}
							acc += 0.5 * float64(s) * r[Index(a, b, e, f, dim)]
						}
					}
					out[Index(a, b, c, d, dim)] = acc
				}
			}
		}
	}
	return out, nil
}

const (
	// epsSD is the residual threshold below which the curvature counts as
	// (anti-)self-dual.
	epsSD = 1e-6
	// epsR is the norm threshold below which the curvature counts as
	// trivial.
	epsR = 1e-8
)

// SDStatus summarizes how close a numeric curvature is to (anti-)self-dual.
type SDStatus struct {
	// E is the curvature inner product <R, R>.
	E float64
	// P is the Pontryagin-type pairing <R, *R>.
	P float64
	// SDResidual is ||R - *R||, ASDResidual is ||R + *R||.
	SDResidual  float64
	ASDResidual float64
	// PRatio is P / max(E, tiny); +1 for self-dual, -1 for anti-self-dual.
	PRatio float64
	// PlusNorm and MinusNorm are ||R±||^2 = (E ± P)/2.
	PlusNorm  float64
	MinusNorm float64

	IsSelfDual     bool
	IsAntiSelfDual bool
	IsNontrivial   bool
}

// SelfDuality computes the duality diagnostics of a flattened curvature.
// The residual norms are cross-checked against the inner-product identities
// ||R -+ *R||^2 = 2(E -+ P), which hold because the dual is an isometry.
func SelfDuality(r []float64, dim int) (SDStatus, error) {
	dual, err := HodgeDual(r, dim)
	if err != nil {
		return SDStatus{}, err
	}

	e := floats.Dot(r, r)
	p := floats.Dot(r, dual)

	diff := make([]float64, len(r))
	sum := make([]float64, len(r))
	copy(diff, r)
	floats.Sub(diff, dual)
	copy(sum, r)
	floats.Add(sum, dual)
	sdSq := floats.Dot(diff, diff)
	asdSq := floats.Dot(sum, sum)

	if identity := 2 * (e - p); !closeEnough(sdSq, identity) {
		return SDStatus{}, fmt.Errorf("self-duality identity violated: ||R-*R||^2 = %g but 2(E-P) = %g", sdSq, identity)
	}
	if identity := 2 * (e + p); !closeEnough(asdSq, identity) {
		return SDStatus{}, fmt.Errorf("self-duality identity violated: ||R+*R||^2 = %g but 2(E+P) = %g", asdSq, identity)
	}

	const tiny = 1e-300
	denom := e
	if denom < tiny {
		denom = tiny
	}

	st := SDStatus{
		E:           e,
		P:           p,
		SDResidual:  sqrtNonneg(sdSq),
		ASDResidual: sqrtNonneg(asdSq),
		PRatio:      p / denom,
		PlusNorm:    (e + p) / 2,
		MinusNorm:   (e - p) / 2,
	}
	st.IsSelfDual = st.SDResidual < epsSD
	st.IsAntiSelfDual = st.ASDResidual < epsSD
	st.IsNontrivial = sqrtNonneg(e) > epsR
	return st, nil
}

func closeEnough(a, b float64) bool {
	scale := 1.0
	if ab := abs(a) + abs(b); ab > scale {
		scale = ab
	}
	return abs(a-b) < 1e-9*scale
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func sqrtNonneg(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Sqrt(x)
}
