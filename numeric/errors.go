// SPDX-License-Identifier: MIT
// Package numeric: sentinel error set.
//
// All kernels return these sentinels on failure; tests check them via
// errors.Is. DO NOT %w wrap when returning directly; wrap with
// fmt.Errorf("ctx: %w", ErrX) only at an outer boundary.

package numeric

import "errors"

var (
	// ErrBadShape is returned when a requested shape is invalid (rows/cols <= 0).
	ErrBadShape = errors.New("numeric: invalid shape")

	// ErrDimensionMismatch indicates incompatible operand dimensions.
	ErrDimensionMismatch = errors.New("numeric: dimension mismatch")

	// ErrNoConverge indicates an SVD kernel failed to converge: gonum's
	// Gesvd on the float64 path, or the hand-rolled Jacobi eigendecomposition
	// behind the complex128 SVD within its iteration budget.
	ErrNoConverge = errors.New("numeric: kernel failed to converge")

	// ErrSingular indicates a zero (or numerically negligible) pivot during LU.
	ErrSingular = errors.New("numeric: singular matrix")
)
