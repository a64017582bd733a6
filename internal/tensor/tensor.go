// Package tensor provides dense symbolic tensors of rank 2 to 4 and the
// Levi-Civita permutation symbols used throughout the curvature pipeline.
//
// Tensors are index-addressed containers over symbolic expressions; unset
// components read as zero. All indices are zero-based frame indices.
package tensor

import (
	"fmt"

	"dppu/internal/symbolic"
)

// Matrix is a dim×dim rank-2 symbolic tensor.
type Matrix struct {
	dim  int
	data []symbolic.Expr
}

// NewMatrix returns a zero dim×dim matrix.
func NewMatrix(dim int) *Matrix {
	return &Matrix{dim: dim, data: make([]symbolic.Expr, dim*dim)}
}

// Eye returns the dim×dim identity.
func Eye(dim int) *Matrix {
	m := NewMatrix(dim)
	for i := 0; i < dim; i++ {
		m.Set(i, i, symbolic.One)
	}
	return m
}

// Diag returns the diagonal matrix with the given entries.
func Diag(entries ...symbolic.Expr) *Matrix {
	m := NewMatrix(len(entries))
	for i, e := range entries {
		m.Set(i, i, e)
	}
	return m
}

func (m *Matrix) Dim() int { return m.dim }

func (m *Matrix) At(i, j int) symbolic.Expr {
	e := m.data[i*m.dim+j]
	if e == nil {
		return symbolic.Zero
	}
	return e
}

func (m *Matrix) Set(i, j int, e symbolic.Expr) {
	m.data[i*m.dim+j] = e
}

// IsDiagonal reports whether every off-diagonal component is zero.
func (m *Matrix) IsDiagonal() bool {
	for i := 0; i < m.dim; i++ {
		for j := 0; j < m.dim; j++ {
			if i != j && !symbolic.IsZero(m.At(i, j)) {
				return false
			}
		}
	}
	return true
}

// DiagonalInverse inverts a diagonal matrix componentwise. It fails on
// off-diagonal entries and on zero diagonal entries.
func (m *Matrix) DiagonalInverse() (*Matrix, error) {
	if !m.IsDiagonal() {
		return nil, fmt.Errorf("matrix is not diagonal")
	}
	inv := NewMatrix(m.dim)
	for i := 0; i < m.dim; i++ {
		d := m.At(i, i)
		if symbolic.IsZero(d) {
			return nil, fmt.Errorf("singular metric: zero diagonal entry at index %d", i)
		}
		inv.Set(i, i, symbolic.PowInt(d, -1))
	}
	return inv, nil
}

// Determinant computes the determinant by Laplace expansion along the first
// row. Intended for the small constant frame metrics.
func (m *Matrix) Determinant() symbolic.Expr {
	if m.dim == 1 {
		return m.At(0, 0)
	}
	parts := make([]symbolic.Expr, 0, m.dim)
	for j := 0; j < m.dim; j++ {
		e := m.At(0, j)
		if symbolic.IsZero(e) {
			continue
		}
		term := symbolic.Mul(e, m.minor(0, j).Determinant())
		if j%2 == 1 {
			term = symbolic.Neg(term)
		}
		parts = append(parts, term)
	}
	return symbolic.Add(parts...)
}

func (m *Matrix) minor(row, col int) *Matrix {
	out := NewMatrix(m.dim - 1)
	for i, oi := 0, 0; i < m.dim; i++ {
		if i == row {
			continue
		}
		for j, oj := 0, 0; j < m.dim; j++ {
			if j == col {
				continue
			}
			out.Set(oi, oj, m.At(i, j))
			oj++
		}
		oi++
	}
	return out
}

// Inverse inverts the matrix, taking the componentwise path for diagonal
// matrices and the adjugate otherwise.
func (m *Matrix) Inverse() (*Matrix, error) {
	if m.IsDiagonal() {
		return m.DiagonalInverse()
	}
	det := symbolic.Simplify(m.Determinant())
	if symbolic.IsZero(det) {
		return nil, fmt.Errorf("singular matrix: zero determinant")
	}
	inv := NewMatrix(m.dim)
	detInv := symbolic.PowInt(det, -1)
	for i := 0; i < m.dim; i++ {
		for j := 0; j < m.dim; j++ {
			cof := m.minor(i, j).Determinant()
			if (i+j)%2 == 1 {
				cof = symbolic.Neg(cof)
			}
			// Adjugate transposes the cofactor matrix.
			inv.Set(j, i, symbolic.Simplify(symbolic.Mul(cof, detInv)))
		}
	}
	return inv, nil
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	out := NewMatrix(m.dim)
	copy(out.data, m.data)
	return out
}

// Tensor3 is a dense rank-3 symbolic tensor with dim^3 components.
type Tensor3 struct {
	dim  int
	data []symbolic.Expr
}

func NewTensor3(dim int) *Tensor3 {
	return &Tensor3{dim: dim, data: make([]symbolic.Expr, dim*dim*dim)}
}

func (t *Tensor3) Dim() int { return t.dim }

func (t *Tensor3) At(a, b, c int) symbolic.Expr {
	e := t.data[(a*t.dim+b)*t.dim+c]
	if e == nil {
		return symbolic.Zero
	}
	return e
}

func (t *Tensor3) Set(a, b, c int, e symbolic.Expr) {
	t.data[(a*t.dim+b)*t.dim+c] = e
}

// Update adds e to the component at (a, b, c).
func (t *Tensor3) Update(a, b, c int, e symbolic.Expr) {
	t.Set(a, b, c, symbolic.Add(t.At(a, b, c), e))
}

func (t *Tensor3) Clone() *Tensor3 {
	out := NewTensor3(t.dim)
	copy(out.data, t.data)
	return out
}

// IsZero reports whether every component is zero.
func (t *Tensor3) IsZero() bool {
	for _, e := range t.data {
		if e != nil && !symbolic.IsZero(e) {
			return false
		}
	}
	return true
}

// NonZeroCount returns the number of structurally nonzero components.
func (t *Tensor3) NonZeroCount() int {
	n := 0
	for _, e := range t.data {
		if e != nil && !symbolic.IsZero(e) {
			n++
		}
	}
	return n
}

// Tensor4 is a dense rank-4 symbolic tensor with dim^4 components.
type Tensor4 struct {
	dim  int
	data []symbolic.Expr
}

func NewTensor4(dim int) *Tensor4 {
	return &Tensor4{dim: dim, data: make([]symbolic.Expr, dim*dim*dim*dim)}
}

func (t *Tensor4) Dim() int { return t.dim }

func (t *Tensor4) At(a, b, c, d int) symbolic.Expr {
	e := t.data[((a*t.dim+b)*t.dim+c)*t.dim+d]
	if e == nil {
		return symbolic.Zero
	}
	return e
}

func (t *Tensor4) Set(a, b, c, d int, e symbolic.Expr) {
	t.data[((a*t.dim+b)*t.dim+c)*t.dim+d] = e
}

func (t *Tensor4) Update(a, b, c, d int, e symbolic.Expr) {
	t.Set(a, b, c, d, symbolic.Add(t.At(a, b, c, d), e))
}

func (t *Tensor4) Clone() *Tensor4 {
	out := NewTensor4(t.dim)
	copy(out.data, t.data)
	return out
}

func (t *Tensor4) IsZero() bool {
	for _, e := range t.data {
		if e != nil && !symbolic.IsZero(e) {
			return false
		}
	}
	return true
}

func (t *Tensor4) NonZeroCount() int {
	n := 0
	for _, e := range t.data {
		if e != nil && !symbolic.IsZero(e) {
			n++
		}
	}
	return n
}
