// SPDX-License-Identifier: MIT

// Level-1/3 dense kernels. float64 dispatches to gonum's blas64
// implementation; complex128 is a direct generic translation of the
// blas::{copy,scal,axpy,scpr,nrm2,gemva} call shapes used throughout
// solvers/FGMRES.cpp and H/mblock_Z.cpp.

package numeric

import (
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/ah9000ad/ahmed-1/scalar"
)

// Copy sets dst[i] = src[i] for i in [0,len(dst)).
func Copy[T scalar.Scalar](dst, src []T) {
	n := len(dst)
	if v, ok := any(dst).([]float64); ok {
		blas64.Implementation().Dcopy(n, any(src).([]float64), 1, v, 1)
		return
	}
	for i := 0; i < n; i++ {
		dst[i] = src[i]
	}
}

// Scal scales x in place by alpha.
func Scal[T scalar.Scalar](alpha T, x []T) {
	n := len(x)
	if a, ok := any(alpha).(float64); ok {
		blas64.Implementation().Dscal(n, a, any(x).([]float64), 1)
		return
	}
	for i := range x {
		x[i] = x[i] * alpha
	}
}

// Axpy computes y += alpha*x.
func Axpy[T scalar.Scalar](alpha T, x, y []T) {
	n := len(x)
	if a, ok := any(alpha).(float64); ok {
		blas64.Implementation().Daxpy(n, a, any(x).([]float64), 1, any(y).([]float64), 1)
		return
	}
	for i := 0; i < n; i++ {
		y[i] = y[i] + alpha*x[i]
	}
}

// Scpr computes the conjugate-linear scalar product sum(conj(x_i)*y_i),
// matching blas::scpr's convention in solvers/FGMRES.cpp (used to build
// the Arnoldi Hessenberg entries).
func Scpr[T scalar.Scalar](x, y []T) T {
	if xf, ok := any(x).([]float64); ok {
		return any(blas64.Implementation().Ddot(len(x), xf, 1, any(y).([]float64), 1)).(T)
	}
	var sum T
	for i := range x {
		sum = sum + scalar.Conj(x[i])*y[i]
	}
	return sum
}

// Nrm2 returns the Euclidean norm of x.
func Nrm2[T scalar.Scalar](x []T) float64 {
	if xf, ok := any(x).([]float64); ok {
		return blas64.Implementation().Dnrm2(len(xf), xf, 1)
	}
	var sum float64
	for _, v := range x {
		a := scalar.Abs(v)
		sum += a * a
	}
	return math.Sqrt(sum)
}

// SetZero zeroes x.
func SetZero[T scalar.Scalar](x []T) {
	var z T
	for i := range x {
		x[i] = z
	}
}

// Gemva computes x += alpha * A * y, where A is stored column-major with
// n rows and k columns (A[:,j] occupies A[j*n:(j+1)*n]), matching
// blas::gemva's layout in solvers/FGMRES.cpp.
func Gemva[T scalar.Scalar](n, k int, alpha T, a, y, x []T) {
	for j := 0; j < k; j++ {
		col := a[j*n : (j+1)*n]
		Axpy(alpha*y[j], col, x)
	}
}

// Gemm computes C = alpha*op(A)*op(B) + beta*C. All buffers use AHMED's
// column-major convention (see numeric/lapack.go); float64 dispatches
// to blas64.Dgemm via a row-major transpose shim, complex128 runs a
// generic triple loop (no gonum complex surface exists in the pack).
func Gemm[T scalar.Scalar](transA, transB bool, m, n, k int, alpha T, a []T, lda int, b []T, ldb int, beta T, c []T, ldc int) {
	if af, ok := any(a).([]float64); ok {
		am, ak := m, k
		if transA {
			am, ak = k, m
		}
		bk, bn := k, n
		if transB {
			bk, bn = n, k
		}
		rowA := toRowMajor(am, ak, af, lda)
		rowB := toRowMajor(bk, bn, any(b).([]float64), ldb)
		rowC := toRowMajor(m, n, any(c).([]float64), ldc)
		ta, tb := blas.NoTrans, blas.NoTrans
		if transA {
			ta = blas.Trans
		}
		if transB {
			tb = blas.Trans
		}
		blas64.Implementation().Dgemm(ta, tb, m, n, k,
			any(alpha).(float64), rowA, ak, rowB, bn,
			any(beta).(float64), rowC, n)
		fromRowMajor(m, n, rowC, any(c).([]float64), ldc)
		return
	}

	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum T
			for p := 0; p < k; p++ {
				var av, bv T
				if transA {
					av = a[i*lda+p] // A stored k x m; op(A)[i,p] = A[p,i]
				} else {
					av = a[p*lda+i] // A stored m x k; op(A)[i,p] = A[i,p]
				}
				if transB {
					bv = b[p*ldb+j] // B stored n x k; op(B)[p,j] = B[j,p]
				} else {
					bv = b[j*ldb+p] // B stored k x n; op(B)[p,j] = B[p,j]
				}
				sum = sum + av*bv
			}
			c[j*ldc+i] = alpha*sum + beta*c[j*ldc+i]
		}
	}
}
