// SPDX-License-Identifier: MIT

// FGMRes: flexible restarted GMRES, grounded on FGMRes in
// solvers/FGMRES.cpp. The Arnoldi basis V and the (possibly
// preconditioned) search directions Z are kept separate so a different
// preconditioner application can be used at every step, matching the
// "flexible" in FGMRES.

package gmres

import (
	"errors"

	"github.com/ah9000ad/ahmed-1/block"
	"github.com/ah9000ad/ahmed-1/numeric"
	"github.com/ah9000ad/ahmed-1/scalar"
)

// ErrNoConverge reports that FGMRes exhausted nsteps iterations without
// reaching the requested relative residual.
var ErrNoConverge = errors.New("gmres: did not converge within nsteps")

// Config bundles FGMRes's restart width and convergence target.
type Config struct {
	// Restart is the Arnoldi subspace width m before a restart.
	Restart int
	// Tolerance is the relative-residual target ||b-Ax||/||b||.
	Tolerance float64
}

// FGMRes solves A*x = b for x in place (x holds the initial guess on
// entry, the approximate solution on exit), restarting every cfg.Restart
// iterations, for at most maxSteps Arnoldi iterations (each costs one
// matrix-vector product; every residual check at a restart costs one
// more). It returns the number of steps taken and the final relative residual;
// err is ErrNoConverge if maxSteps was exhausted without reaching
// cfg.Tolerance.
func FGMRes[T scalar.Scalar](op Operator[T], b, x []T, cfg Config, maxSteps int) (steps int, resid float64, err error) {
	n := op.Dim()
	m := cfg.Restart

	normb := numeric.Nrm2(b)
	if normb == 0 {
		numeric.SetZero(x)
		return 0, 0, nil
	}

	r := make([]T, n)
	numeric.Copy(r, b)
	op.MatVec(scalar.MinusOne[T](), x, r)
	beta := numeric.Nrm2(r)

	if resid = beta / normb; resid <= cfg.Tolerance {
		return 0, resid, nil
	}

	v := make([][]T, m+1)
	z := make([][]T, m+1)
	for i := range v {
		v[i] = make([]T, n)
		z[i] = make([]T, n)
	}
	h := make([]T, (m+1)*m) // column-major, ld=m+1
	cs := make([]float64, m+1)
	sn := make([]T, m+1)
	s := make([]T, m+1)

	j := 1
	for j <= maxSteps {
		numeric.Copy(v[0], r)
		numeric.Scal(scalar.FromReal[T](1.0/beta), v[0])

		s[0] = scalar.FromReal[T](beta)
		numeric.SetZero(s[1:])

		i := 0
		for ; i < m && j <= maxSteps; i, j = i+1, j+1 {
			numeric.Copy(z[i], v[i])
			op.Precond(z[i])

			numeric.SetZero(v[i+1])
			op.MatVec(scalar.One[T](), z[i], v[i+1])

			for k := 0; k <= i; k++ {
				hk := numeric.Scpr(v[k], v[i+1])
				h[k+i*(m+1)] = hk
				numeric.Axpy(-hk, v[k], v[i+1])
			}

			hNorm := numeric.Nrm2(v[i+1])
			h[i+1+i*(m+1)] = scalar.FromReal[T](hNorm)
			numeric.Scal(scalar.FromReal[T](1.0/hNorm), v[i+1])

			for k := 0; k < i; k++ {
				applPlRot(&h[k+i*(m+1)], &h[k+1+i*(m+1)], cs[k], sn[k])
			}

			cs[i], sn[i] = genPlRot(h[i+i*(m+1)], h[i+1+i*(m+1)])
			applPlRot(&h[i+i*(m+1)], &h[i+1+i*(m+1)], cs[i], sn[i])
			applPlRot(&s[i], &s[i+1], cs[i], sn[i])

			if resid = scalar.Abs(s[i+1]) / normb; resid < cfg.Tolerance {
				updateSolution(op.Dim(), i+1, h, m+1, s, z, x)
				return j, resid, nil
			}
		}

		updateSolution(n, i, h, m+1, s, z, x)

		numeric.Copy(r, b)
		op.MatVec(scalar.MinusOne[T](), x, r)
		beta = numeric.Nrm2(r)
		if resid = beta / normb; resid < cfg.Tolerance {
			return j - 1, resid, nil
		}
	}

	return j - 1, resid, ErrNoConverge
}

// updateSolution solves the k x k upper-triangular system H*y = s (H
// column-major with leading dimension ldH) by repacking it into a
// block.Block[T] UtM leaf and reusing block.UtrSolveLeft for the back
// substitution, then applies x += Z*y, matching FGMRES.cpp's static
// update(). Reusing the block package's triangular solve here (rather
// than re-deriving back substitution) keeps the Hessenberg solve and
// H-matrix triangular solves behaviorally identical by construction.
func updateSolution[T scalar.Scalar](n, k int, h []T, ldH int, s []T, z [][]T, x []T) {
	packed := make([]T, k*k)
	for col := 0; col < k; col++ {
		for row := 0; row <= col; row++ {
			packed[col*k+row] = h[row+col*ldH]
		}
	}
	ut := &block.Block[T]{}
	if err := ut.SetUtM(k, packed); err != nil {
		panic(err) // k is always > 0 here; a malformed call is a programmer error
	}

	y := make([]T, k)
	copy(y, s[:k])
	if err := block.UtrSolveLeft(ut, y); err != nil {
		return // singular Hessenberg submatrix: leave x at its last converged value
	}

	for col := 0; col < k; col++ {
		numeric.Axpy(y[col], z[col], x)
	}
}
