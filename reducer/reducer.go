// SPDX-License-Identifier: MIT

package reducer

import "github.com/ah9000ad/ahmed-1/scalar"

// RankReducer truncates the rank of a sum of two low-rank factorizations
// U_a*V_aᴴ + U_b*V_bᴴ (both rows x cols, with independent ranks ra, rb) to
// a new low-rank factorization U*Vᴴ satisfying the given relative
// tolerance and optional rank cap (0 means uncapped). Implementations may
// choose any strategy — SVD truncation, randomized projection, a
// Haar-measure-preserving scheme — as long as the contract holds: the
// returned u has rows*k elements, v has cols*k elements, both
// column-major with leading dimension rows/cols respectively.
//
// This mirrors AHMED's contLowLevel<T> collaborator: block combinators
// never inspect how truncation happens, only that it respects tol/rankCap.
type RankReducer[T scalar.Scalar] interface {
	AddLowRank(rows, cols, rankA int, ua, va []T, rankB int, ub, vb []T, tol float64, rankCap int) (k int, u, v []T, err error)
}
