// SPDX-License-Identifier: MIT

package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAxpyScalNrm2Float64(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{4, 5, 6}
	Axpy(2.0, x, y)
	assert.Equal(t, []float64{6, 9, 12}, y)

	Scal(0.5, y)
	assert.Equal(t, []float64{3, 4.5, 6}, y)

	assert.InDelta(t, 8.077747, Nrm2(y), 1e-5)
}

func TestScprComplex(t *testing.T) {
	x := []complex128{complex(1, 1), complex(2, 0)}
	y := []complex128{complex(1, 0), complex(0, 1)}
	got := Scpr(x, y)
	// sum(conj(x_i)*y_i) = conj(1+i)*1 + conj(2)*i = (1-i) + 2i = 1+i
	assert.InDelta(t, 1.0, real(got), 1e-12)
	assert.InDelta(t, 1.0, imag(got), 1e-12)
}

func TestGemmFloat64Identity(t *testing.T) {
	// A (2x2) * I (2x2) = A, column-major.
	a := []float64{1, 3, 2, 4} // col0=[1,3], col1=[2,4] => A = [[1,2],[3,4]]
	ident := []float64{1, 0, 0, 1}
	c := make([]float64, 4)
	Gemm(false, false, 2, 2, 2, 1.0, a, 2, ident, 2, 0.0, c, 2)
	assert.Equal(t, a, c)
}

func TestGemmTransA(t *testing.T) {
	// A = [[1,2],[3,4]] col-major {1,3,2,4}; A^T*A.
	a := []float64{1, 3, 2, 4}
	c := make([]float64, 4)
	Gemm(true, false, 2, 2, 2, 1.0, a, 2, a, 2, 0.0, c, 2)
	// A^T = [[1,3],[2,4]]; A^T*A = [[10,14],[14,20]] col-major {10,14,14,20}
	assert.InDeltaSlice(t, []float64{10, 14, 14, 20}, c, 1e-9)
}

func TestGeqrfOrgqrOrthogonalFloat64(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6} // 3x2 column-major
	tau, err := Geqrf(3, 2, a, 3)
	require.NoError(t, err)
	require.NoError(t, Orgqr(3, 2, 2, a, 3, tau))

	// Q^T*Q should be I (2x2).
	qtq := make([]float64, 4)
	Gemm(true, false, 2, 2, 3, 1.0, a, 3, a, 3, 0.0, qtq, 2)
	assert.InDelta(t, 1.0, qtq[0], 1e-9)
	assert.InDelta(t, 1.0, qtq[3], 1e-9)
	assert.InDelta(t, 0.0, qtq[1], 1e-9)
}

func TestGetrfFloat64Reconstructs(t *testing.T) {
	a := []float64{4, 2, 7, 6} // col-major: A = [[4,7],[2,6]]
	orig := append([]float64(nil), a...)
	ipiv, err := Getrf(2, 2, a, 2)
	require.NoError(t, err)

	// a now holds unit-lower L below the diagonal and U on/above it.
	l10, u00, u01, u11 := a[1], a[0], a[2], a[3]
	lu := []float64{u00, l10 * u00, u01, l10*u01 + u11} // L*U, col-major
	// Undo the row swaps in reverse order to recover A.
	for i := len(ipiv) - 1; i >= 0; i-- {
		p := ipiv[i]
		for c := 0; c < 2; c++ {
			lu[c*2+i], lu[c*2+p] = lu[c*2+p], lu[c*2+i]
		}
	}
	assert.InDeltaSlice(t, orig, lu, 1e-12)
}

func TestGesvdFloat64SingularValuesDescending(t *testing.T) {
	a := []float64{3, 0, 0, 0, 2, 0, 0, 0, 1} // diag(3,2,1), col-major 3x3
	s, _, _, err := Gesvd(3, 3, a, 3)
	require.NoError(t, err)
	require.Len(t, s, 3)
	assert.InDelta(t, 3.0, s[0], 1e-9)
	assert.InDelta(t, 2.0, s[1], 1e-9)
	assert.InDelta(t, 1.0, s[2], 1e-9)
}

func TestGesvdComplexMatchesReal(t *testing.T) {
	a := []complex128{3, 0, 0, 0, 2, 0, 0, 0, 1}
	s, _, _, err := gesvdComplex[complex128](3, 3, a, 3)
	require.NoError(t, err)
	require.Len(t, s, 3)
	assert.InDelta(t, 3.0, s[0], 1e-6)
	assert.InDelta(t, 2.0, s[1], 1e-6)
	assert.InDelta(t, 1.0, s[2], 1e-6)
}

func TestUtrmmh(t *testing.T) {
	// R upper-triangular 2x2: [[2,1],[0,3]] col-major {2,0,1,3}.
	r := []float64{2, 0, 1, 3}
	// B 2x2 identity.
	b := []float64{1, 0, 0, 1}
	c := make([]float64, 4)
	Utrmmh(2, 2, r, 2, b, 2, c, 2)
	// C = B * R^H = I * R^H = R^H = [[2,0],[1,3]] col-major {2,1,0,3}
	assert.InDeltaSlice(t, []float64{2, 1, 0, 3}, c, 1e-9)
}
