// SPDX-License-Identifier: MIT

package reducer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSVDReducerCollapsesSharedDirection(t *testing.T) {
	r := NewSVDReducer[float64]()
	// Both factors are multiples of the same rank-1 direction.
	k, u, v, err := r.AddLowRank(3, 3,
		1, []float64{1, 2, 3}, []float64{1, 0, 0},
		1, []float64{2, 4, 6}, []float64{1, 0, 0},
		1e-8, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, k)
	require.Len(t, u, 3)
	require.Len(t, v, 3)
}

func TestSVDReducerRespectsRankCap(t *testing.T) {
	r := NewSVDReducer[float64]()
	// Two independent directions; cap forces rank down to 1.
	k, _, _, err := r.AddLowRank(2, 2,
		1, []float64{1, 0}, []float64{1, 0},
		1, []float64{0, 1}, []float64{0, 1},
		1e-12, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, k)
}

func TestSVDReducerZeroRankInputs(t *testing.T) {
	r := NewSVDReducer[complex128]()
	k, u, v, err := r.AddLowRank(2, 2, 0, nil, nil, 0, nil, nil, 1e-8, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, k)
	assert.Nil(t, u)
	assert.Nil(t, v)
}
