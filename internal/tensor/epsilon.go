package tensor

// Epsilon3 is the rank-3 Levi-Civita symbol ε_ijk over indices 0..2.
func Epsilon3(i, j, k int) int {
	return EpsilonN(i, j, k)
}

// Epsilon4 is the rank-4 Levi-Civita symbol ε_abcd over indices 0..3.
func Epsilon4(a, b, c, d int) int {
	return EpsilonN(a, b, c, d)
}

// EpsilonN returns the sign of the permutation given by the indices: +1 for
// even, -1 for odd, 0 when any index repeats.
func EpsilonN(idx ...int) int {
	n := len(idx)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if idx[i] == idx[j] {
				return 0
			}
		}
	}
	sign := 1
	perm := make([]int, n)
	copy(perm, idx)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if perm[i] > perm[j] {
				perm[i], perm[j] = perm[j], perm[i]
				sign = -sign
			}
		}
	}
	return sign
}
