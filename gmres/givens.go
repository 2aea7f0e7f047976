// SPDX-License-Identifier: MIT

// Plane-rotation generation and application, generalized from
// solvers/FGMRES.cpp's genPlRot/applPlRot real/complex overload pair into
// a single generic implementation. cs is always real (the cosine of a
// Givens rotation is always real even for complex inputs); sn carries T's
// full type so the complex branch's phase survives.

package gmres

import (
	"math"

	"github.com/ah9000ad/ahmed-1/scalar"
)

// genPlRot computes the cosine/sine pair of the plane rotation that zeros
// dy against dx: [cs sn; -conj(sn) cs] * [dx; dy] = [r; 0].
func genPlRot[T scalar.Scalar](dx, dy T) (cs float64, sn T) {
	if !scalar.IsComplex[T]() {
		x, y := scalar.Re(dx), scalar.Re(dy)
		switch {
		case y == 0:
			return 1, scalar.Zero[T]()
		case abs(y) > abs(x):
			tmp := x / y
			s := 1.0 / sqrt(1.0+tmp*tmp)
			return tmp * s, scalar.FromReal[T](s)
		default:
			tmp := y / x
			c := 1.0 / sqrt(1.0+tmp*tmp)
			return c, scalar.FromReal[T](tmp * c)
		}
	}

	ar, ai := scalar.Re(dx), scalar.Im(dx)
	br, bi := scalar.Re(dy), scalar.Im(dy)
	switch {
	case br == 0 && bi == 0:
		return 1, scalar.Zero[T]()
	case ar == 0 && ai == 0:
		return 0, scalar.FromReal[T](1)
	default:
		abs2a := ar*ar + ai*ai
		var k1, k2 float64
		if ar >= ai {
			k1 = (ar*br + ai*bi) / abs2a
			k2 = (k1*ai - bi) / ar
		} else {
			k1 = (ar*br + ai*bi) / abs2a
			k2 = (br - k1*ar) / ai
		}
		c := 1.0 / sqrt(1+k1*k1+k2*k2)
		return c, complexLift[T](c*k1, c*k2)
	}
}

// applPlRot applies the rotation (cs, sn) to (dx, dy) in place:
// dx' = cs*dx + sn*dy, dy' = cs*dy - conj(sn)*dx.
func applPlRot[T scalar.Scalar](dx, dy *T, cs float64, sn T) {
	if !scalar.IsComplex[T]() {
		x, y := scalar.Re(*dx), scalar.Re(*dy)
		s := scalar.Re(sn)
		tmp := cs*x + s*y
		*dy = scalar.FromReal[T](cs*y - s*x)
		*dx = scalar.FromReal[T](tmp)
		return
	}
	ar, ai := scalar.Re(*dx), scalar.Im(*dx)
	br, bi := scalar.Re(*dy), scalar.Im(*dy)
	sr, si := scalar.Re(sn), scalar.Im(sn)

	ra := cs*ar + sr*br - si*bi
	ia := cs*ai + sr*bi + si*br
	rb := cs*br - sr*ar - si*ai
	ib := cs*bi - sr*ai + si*ar

	*dx = complexLift[T](ra, ia)
	*dy = complexLift[T](rb, ib)
}

func complexLift[T scalar.Scalar](re, im float64) T {
	return any(complex(re, im)).(T)
}

func abs(x float64) float64  { return math.Abs(x) }
func sqrt(x float64) float64 { return math.Sqrt(x) }
