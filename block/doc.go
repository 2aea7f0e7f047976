// SPDX-License-Identifier: MIT

// Package block: the leaf-block entity of a hierarchical matrix.
//
// A Block[T] is a tagged union over six storage variants (low-rank,
// dense, packed upper/lower-triangular, packed Hermitian/symmetric) plus
// the rank-truncating combinators AHMED builds its H-matrix arithmetic
// on: addtrll, addGeM, addLrM, unify_cols/unify_rows and the
// permutation-encoding LU/triangular-solve family.
//
//	go get github.com/ah9000ad/ahmed-1/block
package block
