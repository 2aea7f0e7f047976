// SPDX-License-Identifier: MIT

// Package reducer defines the rank-reduction collaborator interface that
// block.Option's WithReducer plugs into the low-rank combinators. AHMED
// keeps this strategy opaque behind contLowLevel<T>; this package mirrors
// that boundary — callers may supply any RankReducer, and the block
// package falls back to an internal SVD truncator when none is given.
package reducer
