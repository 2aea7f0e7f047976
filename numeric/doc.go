// SPDX-License-Identifier: MIT

// Package numeric: the dense-kernel facade underneath block.
//
// It exposes the level-1/3 BLAS-style primitives and the QR/SVD/LU
// factorisations the block package builds its combinators on. float64
// call sites dispatch to gonum.org/v1/gonum; complex128 call sites run
// generic hand-rolled kernels (see DESIGN.md for why no ecosystem
// complex-LAPACK binding is wired).
package numeric
