// SPDX-License-Identifier: MIT
// Package block: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors used across the
// block package. All algorithms MUST return these sentinels and tests
// MUST check them via errors.Is. No algorithm should panic on
// user-triggered error conditions.

package block

import "errors"

// ERROR PRIORITY: most entry points check
// nil receiver -> bad tag -> dimension mismatch -> rank/shape invariant
// violation -> kernel failure. AddGeM, UnifyCols and UnifyRows check
// shapes before tags.

var (
	// ErrNilBlock indicates a nil *Block[T] receiver or argument.
	ErrNilBlock = errors.New("block: nil receiver")

	// ErrBadTag is returned when an operation is invoked on a Block
	// whose storage tag it does not support.
	ErrBadTag = errors.New("block: unsupported storage tag for this operation")

	// ErrDimensionMismatch indicates incompatible shapes between operands.
	ErrDimensionMismatch = errors.New("block: dimension mismatch")

	// ErrInvalidShape is returned when requested rows/cols are <= 0 or a
	// requested rank is negative.
	ErrInvalidShape = errors.New("block: invalid shape")

	// ErrRankExceedsShape signals that a low-rank factor's rank r would
	// violate the memory-saving invariant r*(n1+n2) <= n1*n2.
	ErrRankExceedsShape = errors.New("block: rank exceeds memory-saving bound")

	// ErrNotTriangular names a non-triangular block. No function in this
	// package returns it: the triangular kernels (DecompLU, LtrSolve,
	// UtrSolveLeft, ...) report a wrong tag with ErrBadTag.
	ErrNotTriangular = errors.New("block: block is not triangular")

	// ErrSingular is returned when decomp_LU encounters a zero pivot.
	ErrSingular = errors.New("block: singular matrix")

	// ErrKernelFailed reports a lower-level numeric-facade failure; it
	// replaces the numeric error rather than wrapping it.
	ErrKernelFailed = errors.New("block: numeric kernel failed")
)
