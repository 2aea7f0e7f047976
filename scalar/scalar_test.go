// SPDX-License-Identifier: MIT

package scalar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConj(t *testing.T) {
	assert.Equal(t, 3.0, Conj(3.0))
	assert.Equal(t, complex(2, -5), Conj[complex128](complex(2, 5)))
}

func TestAbs(t *testing.T) {
	assert.Equal(t, 4.0, Abs(-4.0))
	assert.InDelta(t, 5.0, Abs[complex128](complex(3, 4)), 1e-12)
}

func TestIdentities(t *testing.T) {
	assert.Equal(t, 0.0, Zero[float64]())
	assert.Equal(t, complex(0, 0), Zero[complex128]())
	assert.Equal(t, 1.0, One[float64]())
	assert.Equal(t, complex(1, 0), One[complex128]())
	assert.Equal(t, -1.0, MinusOne[float64]())
	assert.Equal(t, complex(-1, 0), MinusOne[complex128]())
}

func TestFromReal(t *testing.T) {
	assert.Equal(t, 2.5, FromReal[float64](2.5))
	assert.Equal(t, complex(2.5, 0), FromReal[complex128](2.5))
}

func TestIsComplex(t *testing.T) {
	assert.False(t, IsComplex[float64]())
	assert.True(t, IsComplex[complex128]())
}

func TestReIm(t *testing.T) {
	assert.Equal(t, 7.0, Re(7.0))
	assert.Equal(t, 0.0, Im(7.0))
	assert.Equal(t, 3.0, Re[complex128](complex(3, 4)))
	assert.Equal(t, 4.0, Im[complex128](complex(3, 4)))
}

func TestSqrt(t *testing.T) {
	require.InDelta(t, 3.0, Sqrt(9.0), 1e-12)

	got := Sqrt[complex128](complex(-4, 0))
	assert.InDelta(t, 0.0, real(got), 1e-9)
	assert.InDelta(t, 2.0, math.Abs(imag(got)), 1e-9)

	got2 := Sqrt[complex128](complex(3, 4))
	assert.InDelta(t, 3.0, real(got2)*real(got2)-imag(got2)*imag(got2), 1e-9)
	assert.InDelta(t, 4.0, 2*real(got2)*imag(got2), 1e-9)
}
