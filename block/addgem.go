// SPDX-License-Identifier: MIT

// AddGeM/AddLrM family: combinators that accumulate one block's value
// into another's storage, grounded on addGeM/addGeM_toHeM/addLrM/
// addLrM_Exact/addLrM_rmnd/addLrM_toHeM/addLrM_toUtM/append in
// H/mblock_Z.cpp.

package block

import (
	"fmt"

	"github.com/ah9000ad/ahmed-1/numeric"
	"github.com/ah9000ad/ahmed-1/reducer"
	"github.com/ah9000ad/ahmed-1/scalar"
)

// AddGeM accumulates src's value into dst in place: dst += src. src may
// be GeM or LrM (materialized on the fly). dst may be GeM (plain
// accumulate) or LrM — per §4.4, a low-rank dst is materialized, src is
// added into the dense copy, and the sum is recompressed via SVD
// truncation at (opts' tolerance, rank cap) or, when a WithReducer
// collaborator is supplied, delegated to it instead. opts is only
// consulted on the LrM-destination path; it is accepted unconditionally
// so callers don't need to branch on dst's current tag.
func AddGeM[T scalar.Scalar](dst, src *Block[T], opts ...Option) error {
	if err := validateNotNil(dst); err != nil {
		return err
	}
	if err := validateNotNil(src); err != nil {
		return err
	}
	if err := validateSameShape(dst, src); err != nil {
		return fmt.Errorf("AddGeM: %w", err)
	}

	switch dst.tag {
	case TagGeM:
		return addGeMDense(dst, src)
	case TagLrM:
		return addGeMLowRank(dst, src, opts...)
	default:
		return fmt.Errorf("AddGeM: dst: %w", ErrBadTag)
	}
}

// addGeMDense is AddGeM's dense-destination path: dst += src in place.
func addGeMDense[T scalar.Scalar](dst, src *Block[T]) error {
	switch src.tag {
	case TagGeM:
		numeric.Axpy(scalar.One[T](), src.data, dst.data)
		return nil
	case TagLrM:
		if src.rank == 0 {
			return nil
		}
		conjV := conjugateTranspose(src.V(), src.cols, src.rank)
		numeric.Gemm(false, false, dst.rows, dst.cols, src.rank,
			scalar.One[T](), src.U(), src.rows, conjV, src.rank,
			scalar.One[T](), dst.data, dst.rows)
		return nil
	default:
		return fmt.Errorf("AddGeM: src: %w", ErrBadTag)
	}
}

// addGeMLowRank is AddGeM's low-rank-destination path (§4.4): materialize
// dst, add src into the dense copy, SVD the result, then either truncate
// directly at (tol, rankCap) or hand the full SVD factorization to a
// WithReducer collaborator (the opaque Haar-preserving strategy) and use
// whichever (k, U, V) it returns. dst is reassigned to the recompressed
// LrM result.
func addGeMLowRank[T scalar.Scalar](dst, src *Block[T], opts ...Option) error {
	dense, err := ConvLrMToGeM(dst)
	if err != nil {
		return err
	}
	if err := addGeMDense(dense, src); err != nil {
		return err
	}

	o := gatherOptions(opts...)
	buf := append([]T(nil), dense.data...)
	s, u, vt, kerr := numeric.Gesvd(dense.rows, dense.cols, buf, dense.rows)
	if kerr != nil {
		return fmt.Errorf("AddGeM: %w", ErrKernelFailed)
	}

	var k int
	var uk, vk []T
	if rr, ok := o.reducer.(reducer.RankReducer[T]); ok {
		full := len(s)
		fu, fv := lrFactorsFromSVD(u, vt, s, 0, full, dense.rows, dense.cols)
		k, uk, vk, err = rr.AddLowRank(dense.rows, dense.cols, 0, nil, nil, full, fu, fv, o.tol, o.rankCap)
		if err != nil {
			return fmt.Errorf("AddGeM: %w", err)
		}
	} else {
		k = truncatedRank(s, o.tol, o.rankCap)
		uk, vk = lrFactorsFromSVD(u, vt, s, 0, k, dense.rows, dense.cols)
	}
	return dst.SetLrM(dense.rows, dense.cols, k, uk, vk)
}

// AddGeMToHeM accumulates the upper triangle of src's value into the
// packed Hermitian block dst in place, matching AHMED's addGeM_toHeM
// (used when assembling a Hermitian H-matrix from dense leaf updates).
// src must be square and share dst's dimension.
func AddGeMToHeM[T scalar.Scalar](dst, src *Block[T]) error {
	if err := validateNotNil(dst); err != nil {
		return err
	}
	if err := validateNotNil(src); err != nil {
		return err
	}
	if err := validateTag(dst, TagHeM); err != nil {
		return fmt.Errorf("AddGeMToHeM: dst: %w", err)
	}
	if err := validateTag(src, TagGeM); err != nil {
		return fmt.Errorf("AddGeMToHeM: src: %w", err)
	}
	if err := validateSquare(src); err != nil {
		return fmt.Errorf("AddGeMToHeM: %w", err)
	}
	if dst.rows != src.rows {
		return fmt.Errorf("AddGeMToHeM: %w", ErrDimensionMismatch)
	}
	n := dst.rows
	for j := 0; j < n; j++ {
		for i := 0; i <= j; i++ {
			dst.data[j*n+i] += src.data[j*n+i]
		}
	}
	return nil
}

// AddLrM accumulates a low-rank block's value into dst in place via an
// exact rank-sum widening (no truncation): dst's factors grow to
// rank(dst)+rank(src) columns. Use AddTrLL when truncation is wanted;
// AddLrMExact is the non-mutating, likewise non-truncating variant.
// dst and src must both be tagged LrM and share dst's shape. When the
// widened rank breaks the memory-saving bound, SetLrM's
// ErrRankExceedsShape is returned and dst is left unchanged; dst is not
// promoted to GeM.
func AddLrM[T scalar.Scalar](dst, src *Block[T]) error {
	if err := validateNotNil(dst); err != nil {
		return err
	}
	if err := validateNotNil(src); err != nil {
		return err
	}
	if err := validateTag(dst, TagLrM); err != nil {
		return fmt.Errorf("AddLrM: dst: %w", err)
	}
	if err := validateTag(src, TagLrM); err != nil {
		return fmt.Errorf("AddLrM: src: %w", err)
	}
	if err := validateSameShape(dst, src); err != nil {
		return fmt.Errorf("AddLrM: %w", err)
	}
	if src.rank == 0 {
		return nil
	}
	newRank := dst.rank + src.rank
	u := make([]T, dst.rows*newRank)
	v := make([]T, dst.cols*newRank)
	copy(u[:dst.rows*dst.rank], dst.U())
	copy(u[dst.rows*dst.rank:], src.U())
	copy(v[:dst.cols*dst.rank], dst.V())
	copy(v[dst.cols*dst.rank:], src.V())
	return dst.SetLrM(dst.rows, dst.cols, newRank, u, v)
}

// AddLrMExact is AddTrLL without truncation: it returns the exact
// rank(a)+rank(b) combination of a and b as a fresh block, matching
// AHMED's addLrM_Exact fast path used when the caller already knows no
// truncation is needed (e.g. accumulating a single rank-1 update).
func AddLrMExact[T scalar.Scalar](a, b *Block[T]) (*Block[T], error) {
	if err := validateNotNil(a); err != nil {
		return nil, err
	}
	if err := validateNotNil(b); err != nil {
		return nil, err
	}
	if err := validateTag(a, TagLrM); err != nil {
		return nil, fmt.Errorf("AddLrMExact: a: %w", err)
	}
	if err := validateTag(b, TagLrM); err != nil {
		return nil, fmt.Errorf("AddLrMExact: b: %w", err)
	}
	if err := validateSameShape(a, b); err != nil {
		return nil, fmt.Errorf("AddLrMExact: %w", err)
	}
	out := a.Clone()
	if err := AddLrM(out, b); err != nil {
		return nil, err
	}
	return out, nil
}

// AddLrMToHeM accumulates a low-rank block's value into the packed
// Hermitian block dst's upper triangle in place, matching AHMED's
// addLrM_toHeM. src must be square and share dst's dimension.
func AddLrMToHeM[T scalar.Scalar](dst, src *Block[T]) error {
	if err := validateNotNil(dst); err != nil {
		return err
	}
	if err := validateNotNil(src); err != nil {
		return err
	}
	if err := validateTag(dst, TagHeM); err != nil {
		return fmt.Errorf("AddLrMToHeM: dst: %w", err)
	}
	if err := validateTag(src, TagLrM); err != nil {
		return fmt.Errorf("AddLrMToHeM: src: %w", err)
	}
	if dst.rows != src.rows || dst.rows != src.cols {
		return fmt.Errorf("AddLrMToHeM: %w", ErrDimensionMismatch)
	}
	if src.rank == 0 {
		return nil
	}
	n := dst.rows
	u, v := src.U(), src.V()
	for j := 0; j < n; j++ {
		for i := 0; i <= j; i++ {
			var sum T
			for k := 0; k < src.rank; k++ {
				sum += u[k*n+i] * scalar.Conj(v[k*n+j])
			}
			dst.data[j*n+i] += sum
		}
	}
	return nil
}

// AddLrMToUtM accumulates a low-rank block's upper-triangular part into
// the packed upper-triangular block dst in place, matching AHMED's
// addLrM_toUtM. src must be square and share dst's dimension.
func AddLrMToUtM[T scalar.Scalar](dst, src *Block[T]) error {
	if err := validateNotNil(dst); err != nil {
		return err
	}
	if err := validateNotNil(src); err != nil {
		return err
	}
	if err := validateTag(dst, TagUtM); err != nil {
		return fmt.Errorf("AddLrMToUtM: dst: %w", err)
	}
	if err := validateTag(src, TagLrM); err != nil {
		return fmt.Errorf("AddLrMToUtM: src: %w", err)
	}
	if dst.rows != src.rows || dst.rows != src.cols {
		return fmt.Errorf("AddLrMToUtM: %w", ErrDimensionMismatch)
	}
	if src.rank == 0 {
		return nil
	}
	n := dst.rows
	u, v := src.U(), src.V()
	for j := 0; j < n; j++ {
		for i := 0; i <= j; i++ {
			var sum T
			for k := 0; k < src.rank; k++ {
				sum += u[k*n+i] * scalar.Conj(v[k*n+j])
			}
			dst.data[j*n+i] += sum
		}
	}
	return nil
}

// AddLrMRemainder combines a and b exactly (AddLrMExact), then
// immediately splits the result via SVD truncation into a kept part and
// a discarded remainder, following the same remainder-cutoff policy as
// AddTrLLRemainder. This is AHMED's addLrM_rmnd: unlike AddTrLLRemainder
// (which never materializes the exact sum), it is used when a itself may
// already carry more than two merged updates and an exact intermediate
// is cheap to keep.
func AddLrMRemainder[T scalar.Scalar](a, b *Block[T], opts ...Option) (result, remainder *Block[T], err error) {
	exact, err := AddLrMExact(a, b)
	if err != nil {
		return nil, nil, err
	}
	dense, err := ConvLrMToGeM(exact)
	if err != nil {
		return nil, nil, err
	}
	o := gatherOptions(opts...)
	buf := append([]T(nil), dense.data...)
	s, u, vt, err := numeric.Gesvd(dense.rows, dense.cols, buf, dense.rows)
	if err != nil {
		return nil, nil, fmt.Errorf("AddLrMRemainder: %w", ErrKernelFailed)
	}
	k := truncatedRank(s, o.tol, o.rankCap)

	result = &Block[T]{}
	ku, kv := lrFactorsFromSVD(u, vt, s, 0, k, dense.rows, dense.cols)
	if err := result.SetLrM(dense.rows, dense.cols, k, ku, kv); err != nil {
		return nil, nil, err
	}

	total := len(s)
	cutoff := o.remainderCutoff * s[0]
	rk := 0
	for i := k; i < total; i++ {
		if s[i] <= cutoff {
			break
		}
		rk++
	}
	remainder = &Block[T]{}
	ru, rv := lrFactorsFromSVD(u, vt, s, k, k+rk, dense.rows, dense.cols)
	if err := remainder.SetLrM(dense.rows, dense.cols, rk, ru, rv); err != nil {
		return nil, nil, err
	}
	return result, remainder, nil
}

// lrFactorsFromSVD extracts columns [lo,hi) of a Gesvd result (u: m x m,
// vt: n x n holding Vᴴ, both column-major) into rank-(hi-lo) LrM factors
// U*Vᴴ = A restricted to those singular directions.
func lrFactorsFromSVD[T scalar.Scalar](u, vt []T, s []float64, lo, hi, rows, cols int) (uo, vo []T) {
	k := hi - lo
	if k <= 0 {
		return nil, nil
	}
	uo = make([]T, rows*k)
	vo = make([]T, cols*k)
	for c := 0; c < k; c++ {
		copy(uo[c*rows:(c+1)*rows], u[(lo+c)*rows:(lo+c+1)*rows])
		sv := scalar.FromReal[T](s[lo+c])
		for i := 0; i < cols; i++ {
			vo[c*cols+i] = scalar.Conj(vt[i*cols+(lo+c)]) * sv
		}
	}
	return uo, vo
}
