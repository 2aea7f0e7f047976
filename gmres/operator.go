// SPDX-License-Identifier: MIT

package gmres

import "github.com/ah9000ad/ahmed-1/scalar"

// Operator is the linear system FGMRes solves: y += alpha*A*x (MatVec,
// matching AHMED's Matrix<T>::amux convention) plus an independently
// pluggable preconditioner (Precond, applied in place). A no-op Precond
// recovers plain restarted GMRES.
type Operator[T scalar.Scalar] interface {
	// Dim returns the system size n.
	Dim() int
	// MatVec computes y += alpha*A*x.
	MatVec(alpha T, x, y []T)
	// Precond applies the preconditioner to z in place (z := M^-1 z, or
	// any flexible per-step approximation of it).
	Precond(z []T)
}
