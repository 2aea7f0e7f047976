// SPDX-License-Identifier: MIT

// Storage-variant conversions, grounded on convLrM_toGeM/convGeM_toLrM/
// convHeM_toGeM/convSyM_toGeM/convGeM_toGeM in H/mblock_Z.cpp.

package block

import (
	"fmt"

	"github.com/ah9000ad/ahmed-1/numeric"
	"github.com/ah9000ad/ahmed-1/scalar"
)

// ConvGeMToGeM copies b's dense buffer into a fresh GeM block (the
// identity conversion AHMED uses purely to take an independent copy
// before a destructive in-place kernel runs).
func ConvGeMToGeM[T scalar.Scalar](b *Block[T]) (*Block[T], error) {
	if err := validateNotNil(b); err != nil {
		return nil, err
	}
	if err := validateTag(b, TagGeM); err != nil {
		return nil, fmt.Errorf("ConvGeMToGeM: %w", err)
	}
	out := &Block[T]{}
	_ = out.SetGeM(b.rows, b.cols, append([]T(nil), b.data...))
	return out, nil
}

// ConvHeMToGeM expands a packed Hermitian block into a full dense one:
// the stored upper triangle is copied verbatim, the strict lower
// triangle is filled by conjugate-transposing it.
func ConvHeMToGeM[T scalar.Scalar](b *Block[T]) (*Block[T], error) {
	if err := validateNotNil(b); err != nil {
		return nil, err
	}
	if err := validateTag(b, TagHeM); err != nil {
		return nil, fmt.Errorf("ConvHeMToGeM: %w", err)
	}
	n := b.rows
	data := make([]T, n*n)
	for j := 0; j < n; j++ {
		for i := 0; i <= j; i++ {
			v := b.data[j*n+i]
			data[j*n+i] = v
			data[i*n+j] = scalar.Conj(v)
		}
	}
	out := &Block[T]{}
	_ = out.SetGeM(n, n, data)
	return out, nil
}

// ConvSyMToGeM expands a packed complex-symmetric block (A = Aᵗ, no
// conjugation) into a full dense one.
func ConvSyMToGeM[T scalar.Scalar](b *Block[T]) (*Block[T], error) {
	if err := validateNotNil(b); err != nil {
		return nil, err
	}
	if err := validateTag(b, TagSyM); err != nil {
		return nil, fmt.Errorf("ConvSyMToGeM: %w", err)
	}
	n := b.rows
	data := make([]T, n*n)
	for j := 0; j < n; j++ {
		for i := 0; i <= j; i++ {
			v := b.data[j*n+i]
			data[j*n+i] = v
			data[i*n+j] = v
		}
	}
	out := &Block[T]{}
	_ = out.SetGeM(n, n, data)
	return out, nil
}

// ConvLrMToGeM materializes a low-rank block's product U*Vᴴ into a fresh
// dense block.
func ConvLrMToGeM[T scalar.Scalar](b *Block[T]) (*Block[T], error) {
	if err := validateNotNil(b); err != nil {
		return nil, err
	}
	if err := validateTag(b, TagLrM); err != nil {
		return nil, fmt.Errorf("ConvLrMToGeM: %w", err)
	}
	out := &Block[T]{}
	if err := out.SetGeM(b.rows, b.cols, nil); err != nil {
		return nil, err
	}
	if b.rank > 0 {
		conjV := conjugateTranspose(b.V(), b.cols, b.rank)
		numeric.Gemm(false, false, b.rows, b.cols, b.rank,
			scalar.One[T](), b.U(), b.rows, conjV, b.rank,
			scalar.Zero[T](), out.Data(), b.rows)
	}
	return out, nil
}

// ConvLrMToGeMInto materializes b's product into the caller-supplied
// dense buffer dst (column-major, rows x cols), matching AHMED's
// external-buffer convLrM_toGeM overload that avoids an allocation when
// the destination already exists (e.g. UnifyCols's dense fallback).
func ConvLrMToGeMInto[T scalar.Scalar](b *Block[T], dst []T) error {
	if err := validateNotNil(b); err != nil {
		return err
	}
	if err := validateTag(b, TagLrM); err != nil {
		return fmt.Errorf("ConvLrMToGeMInto: %w", err)
	}
	if len(dst) != b.rows*b.cols {
		return ErrDimensionMismatch
	}
	for i := range dst {
		dst[i] = scalar.Zero[T]()
	}
	if b.rank == 0 {
		return nil
	}
	conjV := conjugateTranspose(b.V(), b.cols, b.rank)
	numeric.Gemm(false, false, b.rows, b.cols, b.rank,
		scalar.One[T](), b.U(), b.rows, conjV, b.rank,
		scalar.Zero[T](), dst, b.rows)
	return nil
}

// ConvGeMToLrM compresses a dense block into a low-rank one via SVD
// truncation at relative tolerance eps, matching AHMED's
// convGeM_toLrM(eps). The caller may additionally cap the rank via
// WithRankCap.
func ConvGeMToLrM[T scalar.Scalar](b *Block[T], opts ...Option) (*Block[T], error) {
	if err := validateNotNil(b); err != nil {
		return nil, err
	}
	if err := validateTag(b, TagGeM); err != nil {
		return nil, fmt.Errorf("ConvGeMToLrM: %w", err)
	}
	o := gatherOptions(opts...)

	buf := append([]T(nil), b.data...)
	s, u, vt, err := numeric.Gesvd(b.rows, b.cols, buf, b.rows)
	if err != nil {
		return nil, fmt.Errorf("ConvGeMToLrM: %w", ErrKernelFailed)
	}
	k := truncatedRank(s, o.tol, o.rankCap)

	out := &Block[T]{}
	if k == 0 {
		if err := out.SetLrM(b.rows, b.cols, 0, nil, nil); err != nil {
			return nil, err
		}
		return out, nil
	}

	uk := make([]T, b.rows*k)
	for j := 0; j < k; j++ {
		copy(uk[j*b.rows:(j+1)*b.rows], u[j*b.rows:(j+1)*b.rows])
	}
	// V's columns are conj(VT rows) scaled by sigma so that U*Vᴴ == A_k.
	vk := make([]T, b.cols*k)
	for j := 0; j < k; j++ {
		for i := 0; i < b.cols; i++ {
			vk[j*b.cols+i] = scalar.Conj(vt[i*b.cols+j]) * scalar.FromReal[T](s[j])
		}
	}
	if err := out.SetLrM(b.rows, b.cols, k, uk, vk); err != nil {
		return nil, err
	}
	return out, nil
}

// conjugateTranspose returns the k x m conjugate transpose of the m x k
// column-major matrix a.
func conjugateTranspose[T scalar.Scalar](a []T, m, k int) []T {
	out := make([]T, k*m)
	for j := 0; j < k; j++ {
		for i := 0; i < m; i++ {
			out[i*k+j] = scalar.Conj(a[j*m+i])
		}
	}
	return out
}
