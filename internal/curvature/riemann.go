// Package curvature computes the Riemann, Ricci and Weyl tensors of a frame
// connection, enforces the Riemann antisymmetry identities through the proof
// oracle, and provides numeric self-duality diagnostics.
package curvature

import (
	"fmt"
	"strings"

	"dppu/internal/oracle"
	"dppu/internal/symbolic"
	"dppu/internal/tensor"
)

// Riemann computes the curvature of a frame connection with structure
// constants,
//
//	R^a_bcd = Gamma^a_ec Gamma^e_bd - Gamma^a_ed Gamma^e_bc
//	        + Gamma^a_be C^e_cd   (summed over e),
//
// simplifying each nonzero component.
func Riemann(conn, c *tensor.Tensor3) *tensor.Tensor4 {
	dim := conn.Dim()
	r := tensor.NewTensor4(dim)
	for a := 0; a < dim; a++ {
		for b := 0; b < dim; b++ {
			for cc := 0; cc < dim; cc++ {
				for d := 0; d < dim; d++ {
					parts := make([]symbolic.Expr, 0, 3*dim)
					for e := 0; e < dim; e++ {
						parts = append(parts,
							symbolic.Mul(conn.At(a, e, cc), conn.At(e, b, d)),
							symbolic.Neg(symbolic.Mul(conn.At(a, e, d), conn.At(e, b, cc))),
							symbolic.Mul(conn.At(a, b, e), c.At(e, cc, d)),
						)
					}
					sum := symbolic.Add(parts...)
					if symbolic.IsZero(sum) {
						continue
					}
					r.Set(a, b, cc, d, symbolic.Simplify(sum))
				}
			}
		}
	}
	return r
}

// LowerFirstIndex converts R^a_bcd to R_abcd with the frame metric.
func LowerFirstIndex(r *tensor.Tensor4, metric *tensor.Matrix) *tensor.Tensor4 {
	dim := r.Dim()
	out := tensor.NewTensor4(dim)
	for a := 0; a < dim; a++ {
		for b := 0; b < dim; b++ {
			for c := 0; c < dim; c++ {
				for d := 0; d < dim; d++ {
					parts := make([]symbolic.Expr, 0, dim)
					for e := 0; e < dim; e++ {
						parts = append(parts, symbolic.Mul(metric.At(a, e), r.At(e, b, c, d)))
					}
					sum := symbolic.Add(parts...)
					if symbolic.IsZero(sum) {
						continue
					}
					out.Set(a, b, c, d, sum)
				}
			}
		}
	}
	return out
}

// AntisymmetryViolation is one failed antisymmetry check on the lowered
// Riemann tensor.
type AntisymmetryViolation struct {
	// Pair is "ab" for first-pair checks, "cd" for second-pair checks.
	Pair string
	// Indices are the a, b, c, d of the residual.
	Indices [4]int
	// Residual is the symbolic sum that failed to prove zero.
	Residual symbolic.Expr
	// Witness is the nonzero evaluation point, when one was found.
	Witness *oracle.Witness
}

func (v AntisymmetryViolation) String() string {
	s := fmt.Sprintf("%s antisymmetry broken at R(%d,%d,%d,%d): %s",
		v.Pair, v.Indices[0], v.Indices[1], v.Indices[2], v.Indices[3], v.Residual)
	if v.Witness != nil {
		s += fmt.Sprintf(" [witness %v -> %s]", v.Witness.Point, v.Witness.Value.Text('e', 6))
	}
	return s
}

// AntisymmetryError reports every violated antisymmetry component. Any
// violation invalidates the curvature derivation.
type AntisymmetryError struct {
	Violations []AntisymmetryViolation
}

func (e *AntisymmetryError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Riemann antisymmetry violated in %d component(s)", len(e.Violations))
	show := e.Violations
	if len(show) > 3 {
		show = show[:3]
	}
	for _, v := range show {
		b.WriteString("; ")
		b.WriteString(v.String())
	}
	if len(e.Violations) > 3 {
		fmt.Fprintf(&b, "; and %d more", len(e.Violations)-3)
	}
	return b.String()
}

// VerifyAntisymmetryStrict checks R_abcd = -R_bacd over a < b and
// R_abcd = -R_abdc over c < d on the lowered tensor. Residuals that cannot
// be proved zero are run through the witness search; any residual that is
// not proved zero fails the gate.
func VerifyAntisymmetryStrict(lowered *tensor.Tensor4, o *oracle.Oracle) error {
	dim := lowered.Dim()
	var violations []AntisymmetryViolation

	check := func(pair string, idx [4]int, residual symbolic.Expr) {
		if symbolic.IsZero(residual) {
			return
		}
		if p := o.ProveZero(residual); p.Proved {
			return
		}
		violations = append(violations, AntisymmetryViolation{
			Pair:     pair,
			Indices:  idx,
			Residual: residual,
			Witness:  o.FindNonzeroWitness(residual),
		})
	}

	for a := 0; a < dim; a++ {
		for b := a + 1; b < dim; b++ {
			for c := 0; c < dim; c++ {
				for d := 0; d < dim; d++ {
					check("ab", [4]int{a, b, c, d},
						symbolic.Add(lowered.At(a, b, c, d), lowered.At(b, a, c, d)))
				}
			}
		}
	}
	for a := 0; a < dim; a++ {
		for b := 0; b < dim; b++ {
			for c := 0; c < dim; c++ {
				for d := c + 1; d < dim; d++ {
					check("cd", [4]int{a, b, c, d},
						symbolic.Add(lowered.At(a, b, c, d), lowered.At(a, b, d, c)))
				}
			}
		}
	}

	if len(violations) > 0 {
		return &AntisymmetryError{Violations: violations}
	}
	return nil
}
