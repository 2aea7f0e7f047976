// Package ahmed1 is a hierarchical-matrix leaf-block engine: the
// low-rank/dense/packed-triangular storage variants, rank-truncating
// combinators and the flexible GMRES solver that sit underneath an
// H-matrix implementation.
//
// Everything is organized under five subpackages:
//
//	scalar/  — the float64/complex128 dual-instantiation trait every
//	           other package is written against
//	numeric/ — BLAS/LAPACK-shaped kernels (copy/axpy/gemm, QR, SVD, LU)
//	block/   — Block[T], the six-tag leaf storage type, and its
//	           rank-truncating combinators (AddTrLL, AddGeM, UnifyCols, ...)
//	reducer/ — the pluggable rank-reduction strategy interface
//	gmres/   — flexible restarted GMRES over a block-backed operator
//
//	go get github.com/ah9000ad/ahmed-1
package ahmed1
