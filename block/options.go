// SPDX-License-Identifier: MIT

// Package block: functional configuration for the rank-truncating
// combinators (addtrll, addGeM, addLrM, unify_cols/unify_rows).
//
// Design goals mirror the teacher's matrix/options.go:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - Safe by construction: panic only on invalid parameters (programmer error).
//   - Single source of truth for zero-value behavior (Default* constants).
package block

import (
	"math"

	"github.com/ah9000ad/ahmed-1/reducer"
	"github.com/ah9000ad/ahmed-1/scalar"
)

// DEFAULTS - single source of truth for zero-value behavior.
const (
	// DefaultTolerance is AHMED's EPS0 floor: singular values below this
	// are always discarded regardless of the caller's requested tolerance.
	DefaultTolerance = 1e-64

	// DefaultRankCap bounds k_goal when the caller does not supply one;
	// 0 means "no cap beyond min(rows,cols)".
	DefaultRankCap = 0

	// DefaultRemainderCutoff is the 1e-16*sigma0 remainder-discard
	// threshold used by AddTrLLRemainder.
	DefaultRemainderCutoff = 1e-16
)

const (
	panicToleranceInvalid = "block: WithTolerance: tol must be finite and >= 0"
	panicRankCapInvalid   = "block: WithRankCap: k must be >= 0"

	panicRemainderCutoffInvalid = "block: WithRemainderCutoff: cutoff must be finite and >= 0"
)

// Option mutates internal truncation options. Safe to apply repeatedly.
type Option func(*options)

type options struct {
	tol             float64
	rankCap         int
	remainderCutoff float64
	reducer         any // reducer.RankReducer[T], type-asserted back at each call site
}

// WithTolerance sets the relative singular-value truncation tolerance
// (AHMED's delta/eps) used by AddTrLL, AddGeM and ConvGeMToLrM.
func WithTolerance(tol float64) Option {
	if tol < 0 || tol != tol || math.IsInf(tol, 1) {
		panic(panicToleranceInvalid)
	}
	return func(o *options) { o.tol = tol }
}

// WithRankCap bounds the truncated rank k_goal. k=0 means unbounded
// (only min(rows,cols) applies).
func WithRankCap(k int) Option {
	if k < 0 {
		panic(panicRankCapInvalid)
	}
	return func(o *options) { o.rankCap = k }
}

// WithRemainderCutoff overrides the remainder-discard threshold used by
// AddTrLLRemainder (default DefaultRemainderCutoff * sigma0).
func WithRemainderCutoff(cutoff float64) Option {
	if cutoff < 0 || cutoff != cutoff || math.IsInf(cutoff, 1) {
		panic(panicRemainderCutoffInvalid)
	}
	return func(o *options) { o.remainderCutoff = cutoff }
}

// WithReducer plugs a rank-reducer strategy (Haar-preserving or SVD) into
// the combinator, matching AHMED's contLowLevel<T> collaborator.
func WithReducer[T scalar.Scalar](r reducer.RankReducer[T]) Option {
	return func(o *options) { o.reducer = r }
}

func defaultOptions() options {
	return options{
		tol:             DefaultTolerance,
		rankCap:         DefaultRankCap,
		remainderCutoff: DefaultRemainderCutoff,
	}
}

func gatherOptions(opts ...Option) options {
	o := defaultOptions()
	for _, set := range opts {
		set(&o)
	}
	if o.tol < DefaultTolerance {
		o.tol = DefaultTolerance // EPS0 floor, never go below it
	}
	return o
}
