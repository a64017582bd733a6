// Package connection derives the Levi-Civita and Einstein-Cartan connections
// in the orthonormal frame via the Koszul formula, and the contortion that
// relates them.
package connection

import (
	"fmt"

	"dppu/internal/oracle"
	"dppu/internal/symbolic"
	"dppu/internal/tensor"
)

// Violation records one component where a connection identity fails.
type Violation struct {
	A, B, C  int
	Residual symbolic.Expr
}

func (v Violation) String() string {
	return fmt.Sprintf("(%d,%d,%d): %s", v.A, v.B, v.C, v.Residual)
}

// LeviCivita derives the torsion-free metric-compatible connection from the
// structure constants via the Koszul formula,
//
//	Gamma^a_bc = (C^a_bc + C^c_ba - C^b_ac) / 2.
//
// Each nonzero component is simplified before storage.
func LeviCivita(c *tensor.Tensor3) *tensor.Tensor3 {
	dim := c.Dim()
	gamma := tensor.NewTensor3(dim)
	for a := 0; a < dim; a++ {
		for b := 0; b < dim; b++ {
			for cc := 0; cc < dim; cc++ {
				e := symbolic.Mul(symbolic.Rat(1, 2), symbolic.Add(
					c.At(a, b, cc),
					c.At(cc, b, a),
					symbolic.Neg(c.At(b, a, cc)),
				))
				if symbolic.IsZero(e) {
					continue
				}
				gamma.Set(a, b, cc, symbolic.Simplify(e))
			}
		}
	}
	return gamma
}

// Contortion builds the contortion tensor from the torsion,
//
//	K^a_bc = (T^a_bc + T^b_ca - T^c_ab) / 2,
//
// which satisfies K_abc = -K_bac for a frame-index torsion.
func Contortion(t *tensor.Tensor3) *tensor.Tensor3 {
	dim := t.Dim()
	k := tensor.NewTensor3(dim)
	for a := 0; a < dim; a++ {
		for b := 0; b < dim; b++ {
			for c := 0; c < dim; c++ {
				e := symbolic.Mul(symbolic.Rat(1, 2), symbolic.Add(
					t.At(a, b, c),
					t.At(b, c, a),
					symbolic.Neg(t.At(c, a, b)),
				))
				if symbolic.IsZero(e) {
					continue
				}
				k.Set(a, b, c, symbolic.Simplify(e))
			}
		}
	}
	return k
}

// EinsteinCartan assembles the full connection as Levi-Civita plus
// contortion, componentwise.
func EinsteinCartan(lc, k *tensor.Tensor3) *tensor.Tensor3 {
	dim := lc.Dim()
	ec := tensor.NewTensor3(dim)
	for a := 0; a < dim; a++ {
		for b := 0; b < dim; b++ {
			for c := 0; c < dim; c++ {
				e := symbolic.Add(lc.At(a, b, c), k.At(a, b, c))
				if symbolic.IsZero(e) {
					continue
				}
				ec.Set(a, b, c, e)
			}
		}
	}
	return ec
}

// Decompose recovers the contortion from a full connection, the exact
// inverse of EinsteinCartan.
func Decompose(ec, lc *tensor.Tensor3) *tensor.Tensor3 {
	dim := ec.Dim()
	k := tensor.NewTensor3(dim)
	for a := 0; a < dim; a++ {
		for b := 0; b < dim; b++ {
			for c := 0; c < dim; c++ {
				e := symbolic.Sub(ec.At(a, b, c), lc.At(a, b, c))
				if symbolic.IsZero(e) {
					continue
				}
				k.Set(a, b, c, symbolic.Simplify(e))
			}
		}
	}
	return k
}

// torsionOf computes the torsion of a connection in the frame,
// T^a_bc = Gamma^a_bc - Gamma^a_cb - C^a_bc.
func torsionOf(conn, c *tensor.Tensor3, a, b, cc int) symbolic.Expr {
	return symbolic.Add(
		conn.At(a, b, cc),
		symbolic.Neg(conn.At(a, cc, b)),
		symbolic.Neg(c.At(a, b, cc)),
	)
}

// CheckTorsionFree verifies that the connection has vanishing torsion with
// respect to the structure constants. Returns the failing components.
func CheckTorsionFree(conn, c *tensor.Tensor3, o *oracle.Oracle) []Violation {
	dim := conn.Dim()
	var violations []Violation
	for a := 0; a < dim; a++ {
		for b := 0; b < dim; b++ {
			for cc := b + 1; cc < dim; cc++ {
				residual := torsionOf(conn, c, a, b, cc)
				if symbolic.IsZero(residual) {
					continue
				}
				if p := o.ProveZero(residual); p.Proved {
					continue
				}
				violations = append(violations, Violation{A: a, B: b, C: cc, Residual: residual})
			}
		}
	}
	return violations
}

// VerifyTorsion checks that the connection's torsion reproduces the
// prescribed torsion tensor exactly. Returns the failing components.
func VerifyTorsion(conn, c, want *tensor.Tensor3, o *oracle.Oracle) []Violation {
	dim := conn.Dim()
	var violations []Violation
	for a := 0; a < dim; a++ {
		for b := 0; b < dim; b++ {
			for cc := 0; cc < dim; cc++ {
				residual := symbolic.Sub(torsionOf(conn, c, a, b, cc), want.At(a, b, cc))
				if symbolic.IsZero(residual) {
					continue
				}
				if p := o.ProveZero(residual); p.Proved {
					continue
				}
				violations = append(violations, Violation{A: a, B: b, C: cc, Residual: residual})
			}
		}
	}
	return violations
}
