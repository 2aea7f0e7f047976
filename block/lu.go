// SPDX-License-Identifier: MIT

// DecompLU: partial-pivot LU factorization of a dense block,
// grounded on decomp_LU in H/mblock_Z.cpp. The permutation is encoded on
// the result's diagonal per SetLtM's documented convention, so the
// factorization's row-swap history travels with the block itself instead
// of a separate return value.

package block

import (
	"fmt"

	"github.com/ah9000ad/ahmed-1/numeric"
	"github.com/ah9000ad/ahmed-1/scalar"
)

// DecompLU factors the square dense block b's value as P*L*U, returning
// a fresh LtM block whose strict lower triangle holds L's off-diagonal
// entries, whose diagonal holds the composed row permutation (diag[i] =
// the row of the original matrix now in position i, stored via
// scalar.FromReal), and a fresh UtM block holding U. b is left
// unmodified.
//
// numeric.Getrf returns LAPACK-style sequential swap targets (ipiv[i] is
// the row swapped with row i at step i, not the final permutation), so
// those swaps are replayed against an identity array to compose the
// actual permutation before it is stored — matching decomp_LU's own
// perm[j] bookkeeping loop rather than writing ipiv straight through.
// Use (*Block[T]).Permutation to decode the result back into an []int.
func DecompLU[T scalar.Scalar](b *Block[T]) (l, u *Block[T], err error) {
	if err := validateNotNil(b); err != nil {
		return nil, nil, err
	}
	if err := validateTag(b, TagGeM); err != nil {
		return nil, nil, fmt.Errorf("DecompLU: %w", err)
	}
	if err := validateSquare(b); err != nil {
		return nil, nil, fmt.Errorf("DecompLU: %w", err)
	}
	n := b.rows

	buf := append([]T(nil), b.data...)
	ipiv, kerr := numeric.Getrf(n, n, buf, n)
	if kerr != nil {
		return nil, nil, fmt.Errorf("DecompLU: %w", ErrSingular)
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i, p := range ipiv {
		perm[i], perm[p] = perm[p], perm[i]
	}

	ldata := make([]T, n*n)
	udata := make([]T, n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			v := buf[j*n+i]
			switch {
			case i > j:
				ldata[j*n+i] = v
			default:
				udata[j*n+i] = v
			}
		}
	}
	for i := 0; i < n; i++ {
		ldata[i*n+i] = scalar.FromReal[T](float64(perm[i]))
	}

	l = &Block[T]{}
	if err := l.SetLtM(n, ldata); err != nil {
		return nil, nil, err
	}
	u = &Block[T]{}
	if err := u.SetUtM(n, udata); err != nil {
		return nil, nil, err
	}
	return l, u, nil
}

// Permutation decodes an LtM block's diagonal-encoded row permutation
// into a proper integer array, so callers never need to know about the
// in-band scalar.FromReal encoding themselves. perm[i] is the row of the
// original matrix now in position i.
func (b *Block[T]) Permutation() ([]int, error) {
	if err := validateNotNil(b); err != nil {
		return nil, err
	}
	if err := validateTag(b, TagLtM); err != nil {
		return nil, fmt.Errorf("Permutation: %w", err)
	}
	n := b.rows
	perm := make([]int, n)
	for i := 0; i < n; i++ {
		perm[i] = int(scalar.Re(b.data[i*n+i]))
	}
	return perm, nil
}
