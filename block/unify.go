// SPDX-License-Identifier: MIT

// UnifyCols/UnifyRows: side-by-side and stacked low-rank concatenation
// with shared-basis recompression, grounded on unify_cols_LrMLrM and
// unify_rows_LrMLrM in H/mblock_Z.cpp.
//
// AHMED implements unify_rows as its own mirror-image routine; this
// package instead derives it from UnifyCols on conjugate-transposed
// operands (see DESIGN.md's Open-Question-2 resolution), since
// (A|B)ᴴ == (Aᴴ; Bᴴ) stacked and a Hermitian-conjugate round trip is
// cheaper to keep correct than a second hand-written kernel.

package block

import (
	"fmt"

	"github.com/ah9000ad/ahmed-1/numeric"
	"github.com/ah9000ad/ahmed-1/reducer"
	"github.com/ah9000ad/ahmed-1/scalar"
)

// UnifyCols concatenates a (rows x colsA) and b (rows x colsB) into a
// single low-rank block of shape rows x (colsA+colsB), truncated to the
// tolerance/rank-cap carried by opts. When both operands are tagged LrM,
// the combined column space is re-orthogonalized via QR before
// truncation (unifyColsLrMLrM) so the result's rank reflects shared
// structure between a and b's row spaces, not merely rank(a)+rank(b).
// Otherwise (§4.5's dense fallback), both operands are materialized side
// by side into one dense buffer and the whole thing is SVD-truncated, or
// handed to a WithReducer collaborator, the same way addGeMLowRank does.
func UnifyCols[T scalar.Scalar](a, b *Block[T], opts ...Option) (*Block[T], error) {
	if err := validateNotNil(a); err != nil {
		return nil, err
	}
	if err := validateNotNil(b); err != nil {
		return nil, err
	}
	if err := validateSameRows(a, b); err != nil {
		return nil, fmt.Errorf("UnifyCols: %w", err)
	}

	if a.tag == TagLrM && b.tag == TagLrM {
		o := gatherOptions(opts...)
		rows := a.rows
		cols := a.cols + b.cols
		k, u, v, err := unifyColsLrMLrM(a, b, o)
		if err != nil {
			return nil, err
		}
		out := &Block[T]{}
		if err := out.SetLrM(rows, cols, k, u, v); err != nil {
			return nil, err
		}
		return out, nil
	}

	if err := validateTag(a, TagGeM, TagLrM); err != nil {
		return nil, fmt.Errorf("UnifyCols: a: %w", err)
	}
	if err := validateTag(b, TagGeM, TagLrM); err != nil {
		return nil, fmt.Errorf("UnifyCols: b: %w", err)
	}
	return unifyColsDense(a, b, opts...)
}

// UnifyRows stacks a (rowsA x cols) atop b (rowsB x cols) into a single
// low-rank block of shape (rowsA+rowsB) x cols, truncated the same way
// UnifyCols truncates. Implemented as UnifyCols on the
// conjugate-transposed operands (see package doc), so the dense fallback
// applies here too whenever either operand is not tagged LrM.
func UnifyRows[T scalar.Scalar](a, b *Block[T], opts ...Option) (*Block[T], error) {
	if err := validateNotNil(a); err != nil {
		return nil, err
	}
	if err := validateNotNil(b); err != nil {
		return nil, err
	}
	if err := validateSameCols(a, b); err != nil {
		return nil, fmt.Errorf("UnifyRows: %w", err)
	}

	at, err := conjugateTransposeBlock(a)
	if err != nil {
		return nil, fmt.Errorf("UnifyRows: a: %w", err)
	}
	bt, err := conjugateTransposeBlock(b)
	if err != nil {
		return nil, fmt.Errorf("UnifyRows: b: %w", err)
	}
	merged, err := UnifyCols(at, bt, opts...)
	if err != nil {
		return nil, err
	}
	return transposeLrM(merged), nil
}

// transposeLrM returns a new LrM block representing bᴴ: swapping U and V
// turns U*Vᴴ into V*Uᴴ == (U*Vᴴ)ᴴ.
func transposeLrM[T scalar.Scalar](b *Block[T]) *Block[T] {
	out := &Block[T]{}
	_ = out.SetLrM(b.cols, b.rows, b.rank, append([]T(nil), b.V()...), append([]T(nil), b.U()...))
	return out
}

// conjugateTransposeBlock returns bᴴ for a GeM or LrM block, used by
// UnifyRows so the §4.5 dense fallback is available on the
// transpose-and-UnifyCols path too, not just the LrM/LrM fast path.
func conjugateTransposeBlock[T scalar.Scalar](b *Block[T]) (*Block[T], error) {
	switch b.tag {
	case TagLrM:
		return transposeLrM(b), nil
	case TagGeM:
		m, n := b.rows, b.cols
		data := make([]T, n*m)
		for i := 0; i < n; i++ {
			for j := 0; j < m; j++ {
				data[j*n+i] = scalar.Conj(b.data[i*m+j])
			}
		}
		out := &Block[T]{}
		if err := out.SetGeM(n, m, data); err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, fmt.Errorf("conjugateTransposeBlock: %w", ErrBadTag)
	}
}

// unifyColsDense is UnifyCols's §4.5 dense-fallback path: materialize a
// and b side by side into one rows x (colsA+colsB) buffer, SVD the
// whole thing, then truncate or hand off to a WithReducer collaborator
// exactly like addGeMLowRank.
func unifyColsDense[T scalar.Scalar](a, b *Block[T], opts ...Option) (*Block[T], error) {
	rows := a.rows
	colsA, colsB := a.cols, b.cols
	cols := colsA + colsB

	data := make([]T, rows*cols)
	if err := materializeInto(a, data[:rows*colsA]); err != nil {
		return nil, fmt.Errorf("UnifyCols: a: %w", err)
	}
	if err := materializeInto(b, data[rows*colsA:]); err != nil {
		return nil, fmt.Errorf("UnifyCols: b: %w", err)
	}

	o := gatherOptions(opts...)
	s, u, vt, kerr := numeric.Gesvd(rows, cols, append([]T(nil), data...), rows)
	if kerr != nil {
		return nil, fmt.Errorf("UnifyCols: %w", ErrKernelFailed)
	}

	var k int
	var uk, vk []T
	var err error
	if rr, ok := o.reducer.(reducer.RankReducer[T]); ok {
		full := len(s)
		fu, fv := lrFactorsFromSVD(u, vt, s, 0, full, rows, cols)
		k, uk, vk, err = rr.AddLowRank(rows, cols, 0, nil, nil, full, fu, fv, o.tol, o.rankCap)
		if err != nil {
			return nil, fmt.Errorf("UnifyCols: %w", err)
		}
	} else {
		k = truncatedRank(s, o.tol, o.rankCap)
		uk, vk = lrFactorsFromSVD(u, vt, s, 0, k, rows, cols)
	}

	out := &Block[T]{}
	if err := out.SetLrM(rows, cols, k, uk, vk); err != nil {
		return nil, err
	}
	return out, nil
}

// materializeInto fills dst (length b.rows*b.cols) with b's dense value.
func materializeInto[T scalar.Scalar](b *Block[T], dst []T) error {
	switch b.tag {
	case TagGeM:
		copy(dst, b.data)
		return nil
	case TagLrM:
		return ConvLrMToGeMInto(b, dst)
	default:
		return ErrBadTag
	}
}

// unifyColsLrMLrM is UnifyCols's core kernel, factored out so AddTrLL-style
// callers elsewhere in the package can reuse it without allocating the
// wrapper Block.
func unifyColsLrMLrM[T scalar.Scalar](a, b *Block[T], o options) (k int, u, v []T, err error) {
	rows := a.rows
	ra, rb := a.rank, b.rank
	r := ra + rb
	if r == 0 {
		return 0, nil, nil, nil
	}

	// Stack U side by side (same row space) and orthogonalize via QR.
	ucat := make([]T, rows*r)
	copy(ucat[:rows*ra], a.U())
	copy(ucat[rows*ra:], b.U())

	tauU, e := numeric.Geqrf(rows, r, ucat, rows)
	if e != nil {
		return 0, nil, nil, fmt.Errorf("unifyColsLrMLrM: %w", ErrKernelFailed)
	}
	ru := packTriangle(ucat, rows, r)

	// Block-diagonal V factor: a's V occupies the first colsA rows, b's V
	// the remaining colsB rows, each only in its own ra/rb columns.
	colsA, colsB := a.cols, b.cols
	cols := colsA + colsB
	vBlock := make([]T, cols*r)
	for c := 0; c < ra; c++ {
		copy(vBlock[c*cols:c*cols+colsA], a.V()[c*colsA:(c+1)*colsA])
	}
	for c := 0; c < rb; c++ {
		copy(vBlock[(ra+c)*cols+colsA:(ra+c)*cols+cols], b.V()[c*colsB:(c+1)*colsB])
	}

	// M = Ru * vBlockᴴ (r x cols), then SVD it directly: cheaper than a
	// second QR since vBlock's column space is already the natural basis.
	conjV := conjugateTranspose(vBlock, cols, r)
	m := make([]T, r*cols)
	numeric.Gemm(false, false, r, cols, r,
		scalar.One[T](), ru, r, conjV, r,
		scalar.Zero[T](), m, r)

	s, um, vtm, e := numeric.Gesvd(r, cols, m, r)
	if e != nil {
		return 0, nil, nil, fmt.Errorf("unifyColsLrMLrM: %w", ErrKernelFailed)
	}
	k = truncatedRank(s, o.tol, o.rankCap)
	if k == 0 {
		return 0, nil, nil, nil
	}

	// U_full = Qu * Um[:, :k].
	umFull := make([]T, rows*k)
	for j := 0; j < k; j++ {
		for i := 0; i < r; i++ {
			umFull[j*rows+i] = um[j*r+i]
		}
	}
	if err := numeric.Ormqr(rows, k, r, ucat, rows, tauU, umFull, rows, k, false); err != nil {
		return 0, nil, nil, err
	}

	// V columns: conj(Vtm rows) scaled by sigma.
	vFull := make([]T, cols*k)
	for c := 0; c < k; c++ {
		sq := scalar.FromReal[T](s[c])
		for i := 0; i < cols; i++ {
			vFull[c*cols+i] = scalar.Conj(vtm[i*cols+c]) * sq
		}
	}

	return k, umFull, vFull, nil
}
