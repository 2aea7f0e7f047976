// SPDX-License-Identifier: MIT
// Package block: centralized validation helpers.
//
// Purpose:
//   - Single source of truth for shape/tag/nil checks.
//   - Keep combinators minimal by delegating guard logic here.
//   - Return plain sentinel errors (no wrapping); call sites wrap uniformly.

package block

import "github.com/ah9000ad/ahmed-1/scalar"

// validateNotNil ensures b is non-nil.
func validateNotNil[T scalar.Scalar](b *Block[T]) error {
	if b == nil {
		return ErrNilBlock
	}
	return nil
}

// validateTag ensures b carries exactly one of the allowed tags.
func validateTag[T scalar.Scalar](b *Block[T], allowed ...Tag) error {
	for _, t := range allowed {
		if b.tag == t {
			return nil
		}
	}
	return ErrBadTag
}

// validateSquare ensures b.rows == b.cols.
func validateSquare[T scalar.Scalar](b *Block[T]) error {
	if b.rows != b.cols {
		return ErrDimensionMismatch
	}
	return nil
}

// validateSameRows ensures a and b share a row count (unify_cols
// precondition).
func validateSameRows[T scalar.Scalar](a, b *Block[T]) error {
	if a.rows != b.rows {
		return ErrDimensionMismatch
	}
	return nil
}

// validateSameCols ensures a and b share a column count (unify_rows
// precondition).
func validateSameCols[T scalar.Scalar](a, b *Block[T]) error {
	if a.cols != b.cols {
		return ErrDimensionMismatch
	}
	return nil
}

// validateSameShape ensures a and b share both dimensions (addGeM/addtrll
// precondition).
func validateSameShape[T scalar.Scalar](a, b *Block[T]) error {
	if a.rows != b.rows || a.cols != b.cols {
		return ErrDimensionMismatch
	}
	return nil
}

// validateVecLen ensures x has length n (triangular mat-vec precondition).
func validateVecLen[T scalar.Scalar](x []T, n int) error {
	if len(x) != n {
		return ErrDimensionMismatch
	}
	return nil
}
