// SPDX-License-Identifier: MIT

package block

import (
	"fmt"

	"github.com/ah9000ad/ahmed-1/numeric"
	"github.com/ah9000ad/ahmed-1/scalar"
)

// GetSValsLrM returns the singular values of a low-rank block's product
// U*Vᴴ in descending order, computed via QR of U and V followed by an
// SVD of the small (rank x rank) product of the triangular factors —
// AHMED's get_svals_LrM avoids ever forming the dense rows x cols
// product. b must be tagged LrM.
func GetSValsLrM[T scalar.Scalar](b *Block[T]) ([]float64, error) {
	if err := validateNotNil(b); err != nil {
		return nil, err
	}
	if err := validateTag(b, TagLrM); err != nil {
		return nil, fmt.Errorf("GetSValsLrM: %w", err)
	}
	if b.rank == 0 {
		return nil, nil
	}

	u := append([]T(nil), b.U()...)
	v := append([]T(nil), b.V()...)

	tauU, err := numeric.Geqrf(b.rows, b.rank, u, b.rows)
	if err != nil {
		return nil, fmt.Errorf("GetSValsLrM: %w", ErrKernelFailed)
	}
	tauV, err := numeric.Geqrf(b.cols, b.rank, v, b.cols)
	if err != nil {
		return nil, fmt.Errorf("GetSValsLrM: %w", ErrKernelFailed)
	}
	_ = tauU
	_ = tauV

	// Ru, Rv are the rank x rank upper-triangular QR factors packed into
	// the leading rank rows of u, v respectively (column-major, ld=rows/cols).
	ru := packTriangle(u, b.rows, b.rank)
	rv := packTriangle(v, b.cols, b.rank)

	// M = Ru * Rvᴴ (rank x rank), then svals(M) == svals(U*Vᴴ).
	m := make([]T, b.rank*b.rank)
	numeric.Utrmmh(b.rank, b.rank, rv, b.rank, ru, b.rank, m, b.rank)

	s, _, _, err := numeric.Gesvd(b.rank, b.rank, m, b.rank)
	if err != nil {
		return nil, fmt.Errorf("GetSValsLrM: %w", ErrKernelFailed)
	}
	return s, nil
}

// packTriangle extracts the leading k x k upper-triangular block from an
// m x k column-major QR result, repacked densely with leading dimension k.
func packTriangle[T scalar.Scalar](a []T, m, k int) []T {
	r := make([]T, k*k)
	for j := 0; j < k; j++ {
		for i := 0; i <= j; i++ {
			r[j*k+i] = a[j*m+i]
		}
	}
	return r
}
