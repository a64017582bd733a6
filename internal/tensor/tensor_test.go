package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dppu/internal/symbolic"
)

func TestEpsilon(t *testing.T) {
	tests := []struct {
		name string
		idx  []int
		want int
	}{
		{"identity 3", []int{0, 1, 2}, 1},
		{"single swap 3", []int{1, 0, 2}, -1},
		{"cyclic 3", []int{2, 0, 1}, 1},
		{"repeated index", []int{0, 0, 2}, 0},
		{"identity 4", []int{0, 1, 2, 3}, 1},
		{"single swap 4", []int{1, 0, 2, 3}, -1},
		{"double swap 4", []int{1, 0, 3, 2}, 1},
		{"reversal 4", []int{3, 2, 1, 0}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EpsilonN(tt.idx...))
		})
	}
}

func TestEpsilon3TotalAntisymmetry(t *testing.T) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				assert.Equal(t, -Epsilon3(j, i, k), Epsilon3(i, j, k))
				assert.Equal(t, -Epsilon3(i, k, j), Epsilon3(i, j, k))
			}
		}
	}
}

func TestTensorAccess(t *testing.T) {
	x := symbolic.Sym("x")

	t3 := NewTensor3(4)
	assert.True(t, t3.IsZero())
	assert.True(t, symbolic.IsZero(t3.At(1, 2, 3)))

	t3.Set(1, 2, 3, x)
	t3.Update(1, 2, 3, x)
	assert.True(t, symbolic.Equal(t3.At(1, 2, 3), symbolic.Mul(symbolic.Int(2), x)))
	assert.Equal(t, 1, t3.NonZeroCount())
	assert.False(t, t3.IsZero())

	clone := t3.Clone()
	clone.Set(1, 2, 3, symbolic.Zero)
	assert.False(t, t3.IsZero(), "clone must not alias the original")

	t4 := NewTensor4(4)
	t4.Update(0, 1, 2, 3, x)
	assert.True(t, symbolic.Equal(t4.At(0, 1, 2, 3), x))
	assert.Equal(t, 1, t4.NonZeroCount())
}

func TestMatrix(t *testing.T) {
	r := symbolic.PosSym("r")

	eye := Eye(4)
	assert.True(t, eye.IsDiagonal())
	assert.True(t, symbolic.IsOne(eye.At(2, 2)))
	assert.True(t, symbolic.IsZero(eye.At(0, 1)))

	g := Diag(symbolic.PowInt(r, 2), symbolic.PowInt(r, 2), symbolic.PowInt(r, 2), symbolic.One)
	inv, err := g.DiagonalInverse()
	require.NoError(t, err)
	assert.True(t, symbolic.Equal(inv.At(0, 0), symbolic.PowInt(r, -2)))
	assert.True(t, symbolic.IsOne(inv.At(3, 3)))

	t.Run("singular", func(t *testing.T) {
		_, err := Diag(symbolic.One, symbolic.Zero).DiagonalInverse()
		assert.ErrorContains(t, err, "singular")
	})

	t.Run("non-diagonal", func(t *testing.T) {
		m := Eye(2)
		m.Set(0, 1, r)
		_, err := m.DiagonalInverse()
		assert.ErrorContains(t, err, "not diagonal")
	})
}
