// SPDX-License-Identifier: MIT

// Triangular mat-vec and solve kernels, grounded on MltaLtMVec/
// MltaLtMhVec/MltaUtMVec/MltaUtMhVec/ltr_solve/ltr_solveh/utr_solve_left
// in H/mblock_Z.cpp.

package block

import (
	"fmt"

	"github.com/ah9000ad/ahmed-1/scalar"
)

// MltaUtMVec computes y += alpha * U * x, where U is b's packed
// upper-triangular value (only the upper triangle incl. diagonal is
// read). b must be tagged UtM.
func MltaUtMVec[T scalar.Scalar](alpha T, b *Block[T], x, y []T) error {
	if err := validateNotNil(b); err != nil {
		return err
	}
	if err := validateTag(b, TagUtM); err != nil {
		return fmt.Errorf("MltaUtMVec: %w", err)
	}
	n := b.rows
	if err := validateVecLen(x, n); err != nil {
		return fmt.Errorf("MltaUtMVec: x: %w", err)
	}
	if err := validateVecLen(y, n); err != nil {
		return fmt.Errorf("MltaUtMVec: y: %w", err)
	}
	for j := 0; j < n; j++ {
		for i := 0; i <= j; i++ {
			y[i] += alpha * b.data[j*n+i] * x[j]
		}
	}
	return nil
}

// MltaUtMhVec computes y += alpha * Uᴴ * x. b must be tagged UtM.
func MltaUtMhVec[T scalar.Scalar](alpha T, b *Block[T], x, y []T) error {
	if err := validateNotNil(b); err != nil {
		return err
	}
	if err := validateTag(b, TagUtM); err != nil {
		return fmt.Errorf("MltaUtMhVec: %w", err)
	}
	n := b.rows
	if err := validateVecLen(x, n); err != nil {
		return fmt.Errorf("MltaUtMhVec: x: %w", err)
	}
	if err := validateVecLen(y, n); err != nil {
		return fmt.Errorf("MltaUtMhVec: y: %w", err)
	}
	for j := 0; j < n; j++ {
		var sum T
		for i := 0; i <= j; i++ {
			sum += scalar.Conj(b.data[j*n+i]) * x[i]
		}
		y[j] += alpha * sum
	}
	return nil
}

// MltaLtMVec computes y += alpha * P * L * x, where L is b's unit-
// lower-triangular value and P is the permutation encoded on b's
// diagonal (SetLtM's convention): the plain unit-lower-triangular
// product is accumulated into a scratch buffer z, then scattered into y
// at y[ip[i]], matching AHMED's mltaLtMVec. b must be tagged LtM.
func MltaLtMVec[T scalar.Scalar](alpha T, b *Block[T], x, y []T) error {
	if err := validateNotNil(b); err != nil {
		return err
	}
	if err := validateTag(b, TagLtM); err != nil {
		return fmt.Errorf("MltaLtMVec: %w", err)
	}
	n := b.rows
	if err := validateVecLen(x, n); err != nil {
		return fmt.Errorf("MltaLtMVec: x: %w", err)
	}
	if err := validateVecLen(y, n); err != nil {
		return fmt.Errorf("MltaLtMVec: y: %w", err)
	}
	z := make([]T, n)
	ip := make([]int, n)
	for j := 0; j < n; j++ {
		ip[j] = int(scalar.Re(b.data[j*n+j]))
		e := alpha * x[j]
		z[j] += e // unit diagonal
		for i := j + 1; i < n; i++ {
			z[i] += e * b.data[j*n+i]
		}
	}
	for i := 0; i < n; i++ {
		y[ip[i]] += z[i]
	}
	return nil
}

// MltaLtMhVec computes y += alpha * Lᴴ * P⁻¹ * x: x is first gathered
// through b's diagonal-encoded permutation into a scratch buffer z
// (z[j] = x[ip[j]]), Lᴴ is applied to z in place, then z is scaled by
// alpha and accumulated into y, matching AHMED's mltaLtMhVec. b must be
// tagged LtM.
func MltaLtMhVec[T scalar.Scalar](alpha T, b *Block[T], x, y []T) error {
	if err := validateNotNil(b); err != nil {
		return err
	}
	if err := validateTag(b, TagLtM); err != nil {
		return fmt.Errorf("MltaLtMhVec: %w", err)
	}
	n := b.rows
	if err := validateVecLen(x, n); err != nil {
		return fmt.Errorf("MltaLtMhVec: x: %w", err)
	}
	if err := validateVecLen(y, n); err != nil {
		return fmt.Errorf("MltaLtMhVec: y: %w", err)
	}
	z := make([]T, n)
	for j := 0; j < n; j++ {
		ip := int(scalar.Re(b.data[j*n+j]))
		z[j] = x[ip]
	}
	for j := 0; j < n; j++ {
		sum := z[j] // unit diagonal
		for i := j + 1; i < n; i++ {
			sum += scalar.Conj(b.data[j*n+i]) * z[i]
		}
		z[j] = sum
	}
	for j := 0; j < n; j++ {
		y[j] += alpha * z[j]
	}
	return nil
}

// LtrSolve solves (P*L)*x = b in place for x (b holds the right-hand
// side on entry, the solution on exit): b is first gathered through lt's
// diagonal-encoded permutation into a scratch buffer z (z[i] = b[ip[i]]),
// the unit-lower-triangular system L*z = z is forward-substituted, and z
// is copied back into b — matching AHMED's ltr_solve, which needs no
// closing scatter because the gather already puts each unknown at its
// solved position. lt must be tagged LtM.
func LtrSolve[T scalar.Scalar](lt *Block[T], b []T) error {
	if err := validateNotNil(lt); err != nil {
		return err
	}
	if err := validateTag(lt, TagLtM); err != nil {
		return fmt.Errorf("LtrSolve: %w", err)
	}
	n := lt.rows
	if err := validateVecLen(b, n); err != nil {
		return fmt.Errorf("LtrSolve: %w", err)
	}
	z := make([]T, n)
	for i := 0; i < n; i++ {
		ip := int(scalar.Re(lt.data[i*n+i]))
		z[i] = b[ip]
	}
	for i := 0; i < n; i++ {
		sum := z[i]
		for j := 0; j < i; j++ {
			sum -= lt.data[j*n+i] * z[j]
		}
		z[i] = sum // unit diagonal
	}
	copy(b, z)
	return nil
}

// LtrhSolve solves Lᴴ*P⁻¹*x = b in place for x, matching AHMED's
// ltrh_solve: b is copied into a scratch buffer z (no gather — the
// permutation applies only on the output side here), the unit-upper
// system Lᴴ*z = z is back-substituted, then z is scattered into b at
// b[ip[i]]. lt must be tagged LtM.
func LtrhSolve[T scalar.Scalar](lt *Block[T], b []T) error {
	if err := validateNotNil(lt); err != nil {
		return err
	}
	if err := validateTag(lt, TagLtM); err != nil {
		return fmt.Errorf("LtrhSolve: %w", err)
	}
	n := lt.rows
	if err := validateVecLen(b, n); err != nil {
		return fmt.Errorf("LtrhSolve: %w", err)
	}
	ip := make([]int, n)
	for i := 0; i < n; i++ {
		ip[i] = int(scalar.Re(lt.data[i*n+i]))
	}
	z := append([]T(nil), b...)
	for i := n - 1; i >= 0; i-- {
		sum := z[i]
		for j := i + 1; j < n; j++ {
			sum -= scalar.Conj(lt.data[i*n+j]) * z[j]
		}
		z[i] = sum
	}
	for i := 0; i < n; i++ {
		b[ip[i]] = z[i]
	}
	return nil
}

// UtrSolveLeft solves U*x = b in place for x via back substitution,
// matching AHMED's utr_solve_left. ut must be tagged UtM.
func UtrSolveLeft[T scalar.Scalar](ut *Block[T], b []T) error {
	if err := validateNotNil(ut); err != nil {
		return err
	}
	if err := validateTag(ut, TagUtM); err != nil {
		return fmt.Errorf("UtrSolveLeft: %w", err)
	}
	n := ut.rows
	if err := validateVecLen(b, n); err != nil {
		return fmt.Errorf("UtrSolveLeft: %w", err)
	}
	for i := n - 1; i >= 0; i-- {
		sum := b[i]
		for j := i + 1; j < n; j++ {
			sum -= ut.data[j*n+i] * b[j]
		}
		piv := ut.data[i*n+i]
		if scalar.Abs(piv) == 0 {
			return ErrSingular
		}
		b[i] = sum / piv
	}
	return nil
}
