// SPDX-License-Identifier: MIT

// AddTrLL/AddTrLLRemainder: rank-truncated combination of two low-rank
// factors sharing the same row/column space widths, grounded on
// addtrll/addtrll_rmnd in H/mblock_Z.cpp.

package block

import (
	"fmt"
	"math"

	"github.com/ah9000ad/ahmed-1/numeric"
	"github.com/ah9000ad/ahmed-1/reducer"
	"github.com/ah9000ad/ahmed-1/scalar"
)

// AddTrLL combines two low-rank blocks a, b (same rows x cols shape)
// into a new low-rank block approximating a+b, truncated to the
// tolerance/rank-cap carried by opts. When a WithReducer collaborator is
// supplied, truncation is delegated to it (the opaque Haar-preserving
// strategy AHMED's contLowLevel<T> models); otherwise an SVD truncator
// is used directly.
func AddTrLL[T scalar.Scalar](a, b *Block[T], opts ...Option) (*Block[T], error) {
	if err := validateNotNil(a); err != nil {
		return nil, err
	}
	if err := validateNotNil(b); err != nil {
		return nil, err
	}
	if err := validateTag(a, TagLrM); err != nil {
		return nil, fmt.Errorf("AddTrLL: a: %w", err)
	}
	if err := validateTag(b, TagLrM); err != nil {
		return nil, fmt.Errorf("AddTrLL: b: %w", err)
	}
	if err := validateSameShape(a, b); err != nil {
		return nil, fmt.Errorf("AddTrLL: %w", err)
	}

	o := gatherOptions(opts...)
	k, u, v, err := combineAndTruncate(a, b, o)
	if err != nil {
		return nil, err
	}

	out := &Block[T]{}
	if err := out.SetLrM(a.rows, a.cols, k, u, v); err != nil {
		return nil, err
	}
	return out, nil
}

// AddTrLLRemainder is AddTrLL's remainder-returning sibling: it returns
// both the truncated combination and a second low-rank block capturing
// the discarded singular directions, scaled by sqrt(sigma) on each side
// per AHMED's addtrll_rmnd so that AddTrLL(result, remainder) recovers
// a+b to machine precision. Directions whose singular value falls below
// opts' remainder cutoff (relative to sigma0) are dropped entirely,
// matching AHMED's "negligible remainder" short-circuit.
//
// AddTrLLRemainder always uses the internal joint QR/SVD path: a
// WithReducer collaborator in opts is not consulted. The √sigma
// rescaling is applied to both the kept and the remainder factors (see
// DESIGN.md's resolution of the Haar-branch column-scaling open question).
func AddTrLLRemainder[T scalar.Scalar](a, b *Block[T], opts ...Option) (result, remainder *Block[T], err error) {
	if err := validateNotNil(a); err != nil {
		return nil, nil, err
	}
	if err := validateNotNil(b); err != nil {
		return nil, nil, err
	}
	if err := validateTag(a, TagLrM); err != nil {
		return nil, nil, fmt.Errorf("AddTrLLRemainder: a: %w", err)
	}
	if err := validateTag(b, TagLrM); err != nil {
		return nil, nil, fmt.Errorf("AddTrLLRemainder: b: %w", err)
	}
	if err := validateSameShape(a, b); err != nil {
		return nil, nil, fmt.Errorf("AddTrLLRemainder: %w", err)
	}

	o := gatherOptions(opts...)

	u, vt, s, err := jointSVD(a, b)
	if err != nil {
		return nil, nil, err
	}
	total := len(s)
	k := truncatedRank(s, o.tol, o.rankCap)

	result = &Block[T]{}
	ku, kv := columnsScaledBySqrtSigma(u, vt, s, 0, k, a.rows, a.cols)
	if err := result.SetLrM(a.rows, a.cols, k, ku, kv); err != nil {
		return nil, nil, err
	}

	cutoff := 0.0
	if total > 0 {
		cutoff = o.remainderCutoff * s[0]
	}
	rk := 0
	for i := k; i < total; i++ {
		if s[i] <= cutoff {
			break
		}
		rk++
	}
	remainder = &Block[T]{}
	ru, rv := columnsScaledBySqrtSigma(u, vt, s, k, k+rk, a.rows, a.cols)
	if err := remainder.SetLrM(a.rows, a.cols, rk, ru, rv); err != nil {
		return nil, nil, err
	}
	return result, remainder, nil
}

// combineAndTruncate concatenates a and b's factors, re-orthogonalizes
// via QR, and truncates the small joint-product SVD, delegating to a
// WithReducer collaborator when one is supplied.
func combineAndTruncate[T scalar.Scalar](a, b *Block[T], o options) (k int, u, v []T, err error) {
	if rr, ok := o.reducer.(reducer.RankReducer[T]); ok {
		return rr.AddLowRank(a.rows, a.cols, a.rank, a.U(), a.V(), b.rank, b.U(), b.V(), o.tol, o.rankCap)
	}

	u2, vt2, s, err := jointSVD(a, b)
	if err != nil {
		return 0, nil, nil, err
	}
	k = truncatedRank(s, o.tol, o.rankCap)
	uk, vk := columnsScaledBySqrtSigma(u2, vt2, s, 0, k, a.rows, a.cols)
	return k, uk, vk, nil
}

// jointSVD stacks a and b's factors as [Ua|Ub] and [Va|Vb], orthogonalizes
// each via QR, forms the small (ra+rb) x (ra+rb) joint product via
// Utrmmh and SVDs it: exactly the scratch-buffer construction AHMED's
// addtrll performs to avoid ever forming the dense rows x cols sum.
func jointSVD[T scalar.Scalar](a, b *Block[T]) (u, vt []T, s []float64, err error) {
	ra, rb := a.rank, b.rank
	r := ra + rb
	if r == 0 {
		return nil, nil, nil, nil
	}

	ucat := make([]T, a.rows*r)
	copy(ucat[:a.rows*ra], a.U())
	copy(ucat[a.rows*ra:], b.U())
	vcat := make([]T, a.cols*r)
	copy(vcat[:a.cols*ra], a.V())
	copy(vcat[a.cols*ra:], b.V())

	tauU, e := numeric.Geqrf(a.rows, r, ucat, a.rows)
	if e != nil {
		return nil, nil, nil, fmt.Errorf("jointSVD: %w", ErrKernelFailed)
	}
	tauV, e := numeric.Geqrf(a.cols, r, vcat, a.cols)
	if e != nil {
		return nil, nil, nil, fmt.Errorf("jointSVD: %w", ErrKernelFailed)
	}
	_ = tauU
	_ = tauV

	ru := packTriangle(ucat, a.rows, r)
	rv := packTriangle(vcat, a.cols, r)

	m := make([]T, r*r)
	numeric.Utrmmh(r, r, rv, r, ru, r, m, r)

	sm, um, vtm, e := numeric.Gesvd(r, r, m, r)
	if e != nil {
		return nil, nil, nil, fmt.Errorf("jointSVD: %w", ErrKernelFailed)
	}

	// U_full = Qu * Um, reconstructed by applying the Qu reflectors.
	uFull := make([]T, a.rows*r)
	for j := 0; j < r; j++ {
		for i := 0; i < r; i++ {
			uFull[j*a.rows+i] = um[j*r+i]
		}
	}
	if err := numeric.Ormqr(a.rows, r, r, ucat, a.rows, tauU, uFull, a.rows, r, false); err != nil {
		return nil, nil, nil, err
	}

	vFull := make([]T, a.cols*r)
	for j := 0; j < r; j++ {
		for i := 0; i < r; i++ {
			// vtm holds Vmᴴ; its conjugate-transpose columns are Vm's columns.
			vFull[j*a.cols+i] = scalar.Conj(vtm[i*r+j])
		}
	}
	if err := numeric.Ormqr(a.cols, r, r, vcat, a.cols, tauV, vFull, a.cols, r, false); err != nil {
		return nil, nil, nil, err
	}

	// Re-derive Vᴴ_full from vFull for columnsScaledBySqrtSigma's contract.
	vtFull := make([]T, r*a.cols)
	for j := 0; j < a.cols; j++ {
		for i := 0; i < r; i++ {
			vtFull[j*r+i] = scalar.Conj(vFull[i*a.cols+j])
		}
	}

	return uFull, vtFull, sm, nil
}

// columnsScaledBySqrtSigma extracts columns [lo,hi) of u/vt (u: rows x r
// column-major, vt: r x cols column-major holding Vᴴ) and rescales each
// pair by sqrt(sigma) on both sides, so that U*Vᴴ reproduces the
// sigma-weighted sum exactly (AHMED's addtrll_rmnd convention).
func columnsScaledBySqrtSigma[T scalar.Scalar](u, vt []T, s []float64, lo, hi, rows, cols int) (uo, vo []T) {
	k := hi - lo
	if k <= 0 {
		return nil, nil
	}
	uo = make([]T, rows*k)
	vo = make([]T, cols*k)
	for c := 0; c < k; c++ {
		sq := scalar.FromReal[T](math.Sqrt(s[lo+c]))
		for i := 0; i < rows; i++ {
			uo[c*rows+i] = u[(lo+c)*rows+i] * sq
		}
		for i := 0; i < cols; i++ {
			vo[c*cols+i] = scalar.Conj(vt[i*len(s)+lo+c]) * sq
		}
	}
	return uo, vo
}
