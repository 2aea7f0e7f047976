// SPDX-License-Identifier: MIT

// Package gmres implements the flexible restarted GMRES solver, grounded
// on solvers/FGMRES.cpp's genPlRot/applPlRot/update triple (both the real
// and complex overloads). The "flexible" variant allows the
// preconditioner applied at each Arnoldi step to vary, which is why
// Operator separates MatVec from Precond rather than folding
// preconditioning into the matrix-vector product.
package gmres
