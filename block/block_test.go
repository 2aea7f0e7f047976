// SPDX-License-Identifier: MIT

package block

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLrMRejectsRankExceedingShape(t *testing.T) {
	b := &Block[float64]{}
	// rows=2, cols=2: memory-saving bound is r*(2+2) <= 4 => r <= 1.
	u := make([]float64, 2*2)
	v := make([]float64, 2*2)
	err := b.SetLrM(2, 2, 2, u, v)
	require.ErrorIs(t, err, ErrRankExceedsShape)
}

func TestSetLrMAcceptsBoundaryRank(t *testing.T) {
	b := &Block[float64]{}
	u := make([]float64, 2*1)
	v := make([]float64, 2*1)
	require.NoError(t, b.SetLrM(2, 2, 1, u, v))
	assert.Equal(t, 1, b.Rank())
}

func TestConvGeMToLrMRoundTrip(t *testing.T) {
	dense := &Block[float64]{}
	// A rank-1 dense matrix: outer product of [1,2,3] and [4,5].
	data := []float64{4, 8, 12, 5, 10, 15} // 3x2 col-major
	require.NoError(t, dense.SetGeM(3, 2, data))

	lr, err := ConvGeMToLrM(dense, WithTolerance(1e-10))
	require.NoError(t, err)
	assert.Equal(t, 1, lr.Rank())

	back, err := ConvLrMToGeM(lr)
	require.NoError(t, err)
	for i := range data {
		assert.InDelta(t, data[i], back.Data()[i], 1e-8)
	}
}

func TestConvHeMToGeMConjugateSymmetric(t *testing.T) {
	b := &Block[complex128]{}
	n := 2
	data := make([]complex128, n*n)
	data[0*n+0] = complex(1, 0)
	data[1*n+0] = complex(2, 3) // upper triangle (col=1,row=0)
	data[1*n+1] = complex(4, 0)
	require.NoError(t, b.SetHeM(n, data))

	dense, err := ConvHeMToGeM(b)
	require.NoError(t, err)
	// dense(1,0) must be conj(dense(0,1))
	d := dense.Data()
	assert.Equal(t, complex(2, 3), d[1*n+0])
	assert.Equal(t, complex(2, -3), d[0*n+1])
}

func TestAddGeMAccumulatesLrM(t *testing.T) {
	dst := &Block[float64]{}
	require.NoError(t, dst.SetGeM(2, 2, []float64{1, 2, 3, 4}))

	src := &Block[float64]{}
	require.NoError(t, src.SetLrM(2, 2, 1, []float64{1, 1}, []float64{1, 1}))

	require.NoError(t, AddGeM(dst, src))
	assert.InDeltaSlice(t, []float64{2, 3, 4, 5}, dst.Data(), 1e-12)
}

func TestAddLrMWidensRank(t *testing.T) {
	a := &Block[float64]{}
	require.NoError(t, a.SetLrM(4, 4, 1, []float64{1, 0, 0, 0}, []float64{1, 0, 0, 0}))
	b := &Block[float64]{}
	require.NoError(t, b.SetLrM(4, 4, 1, []float64{0, 1, 0, 0}, []float64{0, 1, 0, 0}))

	require.NoError(t, AddLrM(a, b))
	assert.Equal(t, 2, a.Rank())
}

func TestAddTrLLTruncatesToSharedRank(t *testing.T) {
	// Two rank-1 blocks spanning the SAME direction should truncate to rank 1.
	a := &Block[float64]{}
	require.NoError(t, a.SetLrM(3, 3, 1, []float64{1, 2, 3}, []float64{1, 0, 0}))
	b := &Block[float64]{}
	require.NoError(t, b.SetLrM(3, 3, 1, []float64{2, 4, 6}, []float64{1, 0, 0}))

	out, err := AddTrLL(a, b, WithTolerance(1e-8))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Rank())

	dense, err := ConvLrMToGeM(out)
	require.NoError(t, err)
	// Expected sum: outer([1,2,3],[1,0,0]) + outer([2,4,6],[1,0,0])
	// = outer([3,6,9],[1,0,0])
	want := []float64{3, 6, 9, 0, 0, 0, 0, 0, 0}
	assert.InDeltaSlice(t, want, dense.Data(), 1e-8)
}

func TestGetSValsLrMMatchesDirectSVD(t *testing.T) {
	b := &Block[float64]{}
	require.NoError(t, b.SetLrM(4, 4, 2,
		[]float64{1, 0, 0, 0, 0, 1, 0, 0},
		[]float64{3, 0, 0, 0, 0, 2, 0, 0}))
	s, err := GetSValsLrM(b)
	require.NoError(t, err)
	require.Len(t, s, 2)
	assert.InDelta(t, 3.0, s[0], 1e-8)
	assert.InDelta(t, 2.0, s[1], 1e-8)
}

func TestUnifyColsMergesSharedRowSpace(t *testing.T) {
	a := &Block[float64]{}
	require.NoError(t, a.SetLrM(3, 2, 1, []float64{1, 0, 0}, []float64{1, 2}))
	b := &Block[float64]{}
	require.NoError(t, b.SetLrM(3, 2, 1, []float64{1, 0, 0}, []float64{3, 4}))

	out, err := UnifyCols(a, b, WithTolerance(1e-8))
	require.NoError(t, err)
	assert.Equal(t, 3, out.Rows())
	assert.Equal(t, 4, out.Cols())
	// shared row space => rank should collapse to 1
	assert.Equal(t, 1, out.Rank())
}

func TestDecompLUReconstructs(t *testing.T) {
	dense := &Block[float64]{}
	require.NoError(t, dense.SetGeM(3, 3, []float64{
		4, 3, 0,
		8, 7, 2,
		4, 5, 6,
	}))

	l, u, err := DecompLU(dense)
	require.NoError(t, err)
	require.True(t, l.IsLtM())
	require.True(t, u.IsUtM())

	n := 3
	for col := 0; col < n; col++ {
		rhs := make([]float64, n)
		rhs[col] = 1

		y := make([]float64, n)
		copy(y, dense.Data()[col*n:(col+1)*n])

		// Solve L*z = P*b via LtrSolve (applies the permutation internally),
		// then U*x = z via UtrSolveLeft.
		b := make([]float64, n)
		copy(b, y)
		require.NoError(t, LtrSolve(l, b))
		require.NoError(t, UtrSolveLeft(u, b))

		// x should be the col-th standard basis vector (solving A*x = A[:,col]).
		assert.InDelta(t, 1.0, b[col], 1e-6)
	}
}

func TestUtrSolveLeftSingular(t *testing.T) {
	u := &Block[float64]{}
	require.NoError(t, u.SetUtM(2, []float64{0, 0, 1, 0}))
	err := UtrSolveLeft(u, []float64{1, 1})
	assert.True(t, errors.Is(err, ErrSingular))
}

func TestEPS0FloorNeverGoesBelowDefault(t *testing.T) {
	o := gatherOptions(WithTolerance(0))
	assert.Equal(t, DefaultTolerance, o.tol)
}

func TestAddGeMLowRankDestinationRecompresses(t *testing.T) {
	dst := &Block[float64]{}
	u := make([]float64, 4)
	v := make([]float64, 4)
	u[0], v[0] = 1, 1
	require.NoError(t, dst.SetLrM(4, 4, 1, u, v))

	srcData := make([]float64, 16)
	srcData[1*4+1] = 5
	src := &Block[float64]{}
	require.NoError(t, src.SetGeM(4, 4, srcData))

	require.NoError(t, AddGeM(dst, src, WithTolerance(1e-10)))
	require.True(t, dst.IsLrM())
	assert.Equal(t, 2, dst.Rank())

	dense, err := ConvLrMToGeM(dst)
	require.NoError(t, err)
	want := make([]float64, 16)
	want[0] = 1
	want[1*4+1] = 5
	assert.InDeltaSlice(t, want, dense.Data(), 1e-8)
}

func TestUnifyColsDenseFallback(t *testing.T) {
	a := &Block[float64]{}
	require.NoError(t, a.SetGeM(2, 1, []float64{2, 4}))
	b := &Block[float64]{}
	require.NoError(t, b.SetLrM(2, 2, 1, []float64{1, 2}, []float64{1, 1}))

	out, err := UnifyCols(a, b, WithTolerance(1e-8))
	require.NoError(t, err)
	assert.Equal(t, 2, out.Rows())
	assert.Equal(t, 3, out.Cols())
	assert.Equal(t, 1, out.Rank())

	dense, err := ConvLrMToGeM(out)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 4, 1, 2, 1, 2}, dense.Data(), 1e-8)
}

func TestUnifyRowsDenseFallback(t *testing.T) {
	a := &Block[float64]{}
	require.NoError(t, a.SetGeM(1, 2, []float64{2, 4}))
	b := &Block[float64]{}
	require.NoError(t, b.SetLrM(2, 2, 1, []float64{1, 1}, []float64{1, 2}))

	out, err := UnifyRows(a, b, WithTolerance(1e-8))
	require.NoError(t, err)
	assert.Equal(t, 3, out.Rows())
	assert.Equal(t, 2, out.Cols())
	assert.Equal(t, 1, out.Rank())

	dense, err := ConvLrMToGeM(out)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 1, 1, 4, 2, 2}, dense.Data(), 1e-8)
}

// TestDecompLUMatchesScenario5 hand-traces spec scenario 5: A = [[4,3],[6,3]]
// pivots to ip=[1,0] (not the raw, non-permutation ipiv=[1,1] Getrf returns),
// L = [[1,0],[2/3,1]], U = [[6,3],[0,1]].
func TestDecompLUMatchesScenario5(t *testing.T) {
	a := &Block[float64]{}
	require.NoError(t, a.SetGeM(2, 2, []float64{4, 6, 3, 3})) // col0=[4,6], col1=[3,3]

	l, u, err := DecompLU(a)
	require.NoError(t, err)

	perm, err := l.Permutation()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, perm)

	assert.InDelta(t, 2.0/3.0, l.Data()[0*2+1], 1e-12) // strict-lower L[1,0]
	assert.InDeltaSlice(t, []float64{6, 0, 3, 1}, u.Data(), 1e-12)
}

// ltMFixture builds a 3x3 LtM block with permutation [2,0,1] and strict
// lower entries L[1,0]=0.5, L[2,0]=0.25, L[2,1]=0.75, used to exercise the
// gather/scatter behavior of the Lt-tagged triangular kernels directly.
func ltMFixture(t *testing.T) *Block[float64] {
	t.Helper()
	data := []float64{
		2, 0.5, 0.25, // col0: diag=perm[0]=2, L[1,0], L[2,0]
		0, 0, 0.75, // col1: (unused), diag=perm[1]=0, L[2,1]
		0, 0, 1, // col2: (unused), (unused), diag=perm[2]=1
	}
	b := &Block[float64]{}
	require.NoError(t, b.SetLtM(3, data))
	return b
}

func TestMltaLtMVecAppliesScatterAfterMultiply(t *testing.T) {
	lt := ltMFixture(t)
	x := []float64{1, 2, 3}
	y := make([]float64, 3)
	require.NoError(t, MltaLtMVec(1, lt, x, y))
	assert.InDeltaSlice(t, []float64{2.5, 4.75, 1}, y, 1e-12)
}

func TestMltaLtMhVecAppliesGatherBeforeMultiply(t *testing.T) {
	lt := ltMFixture(t)
	x := []float64{1, 2, 3}
	y := make([]float64, 3)
	require.NoError(t, MltaLtMhVec(1, lt, x, y))
	assert.InDeltaSlice(t, []float64{4, 2.5, 2}, y, 1e-12)
}

func TestLtrhSolveAppliesScatterAfterSolve(t *testing.T) {
	data := []float64{1, 2.0 / 3.0, 0, 0} // n=2, perm=[1,0], L[1,0]=2/3
	lt := &Block[float64]{}
	require.NoError(t, lt.SetLtM(2, data))

	b := []float64{5, 7}
	require.NoError(t, LtrhSolve(lt, b))
	assert.InDeltaSlice(t, []float64{7, 1.0 / 3.0}, b, 1e-12)
}

func TestMltaUtMhVec(t *testing.T) {
	ut := &Block[float64]{}
	require.NoError(t, ut.SetUtM(2, []float64{1, 0, 2, 3})) // U = [[1,2],[0,3]]
	x := []float64{1, 1}
	y := make([]float64, 2)
	require.NoError(t, MltaUtMhVec(1, ut, x, y))
	assert.InDeltaSlice(t, []float64{1, 5}, y, 1e-12)
}
