// SPDX-License-Identifier: MIT

// SVDReducer: the default rank-reduction strategy, grounded on the same
// QR-then-small-SVD scratch-buffer construction AHMED's addtrll uses in
// H/mblock_Z.cpp, factored out here so block's combinators can either
// call it directly or accept an alternative RankReducer.

package reducer

import (
	"errors"
	"math"

	"github.com/ah9000ad/ahmed-1/numeric"
	"github.com/ah9000ad/ahmed-1/scalar"
)

// ErrKernelFailed reports an underlying numeric-kernel failure (QR or SVD
// non-convergence) while reducing rank.
var ErrKernelFailed = errors.New("reducer: numeric kernel failed")

// SVDReducer truncates via a joint QR/SVD of the stacked factors,
// keeping singular directions above tol (relative to the largest singular
// value) and capping the rank at rankCap when rankCap > 0.
type SVDReducer[T scalar.Scalar] struct{}

// NewSVDReducer constructs the default SVD-based RankReducer.
func NewSVDReducer[T scalar.Scalar]() SVDReducer[T] { return SVDReducer[T]{} }

func (SVDReducer[T]) AddLowRank(rows, cols, rankA int, ua, va []T, rankB int, ub, vb []T, tol float64, rankCap int) (int, []T, []T, error) {
	r := rankA + rankB
	if r == 0 {
		return 0, nil, nil, nil
	}

	ucat := make([]T, rows*r)
	copy(ucat[:rows*rankA], ua)
	copy(ucat[rows*rankA:], ub)
	vcat := make([]T, cols*r)
	copy(vcat[:cols*rankA], va)
	copy(vcat[cols*rankA:], vb)

	tauU, err := numeric.Geqrf(rows, r, ucat, rows)
	if err != nil {
		return 0, nil, nil, ErrKernelFailed
	}
	tauV, err := numeric.Geqrf(cols, r, vcat, cols)
	if err != nil {
		return 0, nil, nil, ErrKernelFailed
	}

	ru := packTriangle(ucat, rows, r)
	rv := packTriangle(vcat, cols, r)

	m := make([]T, r*r)
	numeric.Utrmmh(r, r, rv, r, ru, r, m, r)

	s, um, vtm, err := numeric.Gesvd(r, r, m, r)
	if err != nil {
		return 0, nil, nil, ErrKernelFailed
	}

	k := truncatedRank(s, tol, rankCap)
	if k == 0 {
		return 0, nil, nil, nil
	}

	umFull := make([]T, rows*r)
	for j := 0; j < r; j++ {
		for i := 0; i < r; i++ {
			umFull[j*rows+i] = um[j*r+i]
		}
	}
	if err := numeric.Ormqr(rows, r, r, ucat, rows, tauU, umFull, rows, r, false); err != nil {
		return 0, nil, nil, err
	}

	vmFull := make([]T, cols*r)
	for j := 0; j < r; j++ {
		for i := 0; i < r; i++ {
			vmFull[j*cols+i] = scalar.Conj(vtm[i*r+j])
		}
	}
	if err := numeric.Ormqr(cols, r, r, vcat, cols, tauV, vmFull, cols, r, false); err != nil {
		return 0, nil, nil, err
	}

	u := make([]T, rows*k)
	v := make([]T, cols*k)
	for c := 0; c < k; c++ {
		sq := scalar.FromReal[T](math.Sqrt(s[c]))
		for i := 0; i < rows; i++ {
			u[c*rows+i] = umFull[c*rows+i] * sq
		}
		for i := 0; i < cols; i++ {
			v[c*cols+i] = vmFull[c*cols+i] * sq
		}
	}
	return k, u, v, nil
}

func packTriangle[T scalar.Scalar](a []T, m, k int) []T {
	r := make([]T, k*k)
	for j := 0; j < k; j++ {
		for i := 0; i <= j; i++ {
			r[j*k+i] = a[j*m+i]
		}
	}
	return r
}

// truncatedRank mirrors block's EPS0-floored relative-tolerance policy so
// the default reducer truncates the same way block's internal SVD path
// does.
func truncatedRank(s []float64, tol float64, rankCap int) int {
	const eps0 = 1e-64
	if tol < eps0 {
		tol = eps0
	}
	if len(s) == 0 || s[0] <= eps0 {
		return 0
	}
	k := 1
	for k < len(s) {
		if s[k] <= eps0 || s[k] <= tol*s[0] {
			break
		}
		k++
	}
	if rankCap > 0 && k > rankCap {
		k = rankCap
	}
	return k
}
