// SPDX-License-Identifier: MIT

package scalar

import "math"

// Scalar is the type set every numeric/block/reducer/gmres kernel is
// written against. It mirrors AHMED's double/dcomp specialisation pair.
//
// AI-Hints:
//   - Dispatch on the concrete instantiation with any(x).(type) at the
//     few call sites that must drop to a type-specific BLAS/LAPACK
//     backend (see numeric/blas.go, numeric/lapack.go); never duplicate
//     whole algorithms per type.
type Scalar interface {
	float64 | complex128
}

// Conj returns the complex conjugate of x, or x itself for float64.
func Conj[T Scalar](x T) T {
	switch v := any(x).(type) {
	case complex128:
		return any(complex(real(v), -imag(v))).(T)
	default:
		return x
	}
}

// Abs returns the magnitude of x.
func Abs[T Scalar](x T) float64 {
	switch v := any(x).(type) {
	case complex128:
		return cmplxAbs(v)
	case float64:
		return math.Abs(v)
	default:
		return 0
	}
}

func cmplxAbs(v complex128) float64 {
	return math.Hypot(real(v), imag(v))
}

// Zero returns the additive identity of T.
func Zero[T Scalar]() T {
	var z T
	return z
}

// One returns the multiplicative identity of T.
func One[T Scalar]() T {
	var z T
	switch any(z).(type) {
	case complex128:
		return any(complex128(1)).(T)
	default:
		return any(float64(1)).(T)
	}
}

// MinusOne returns -1 in T.
func MinusOne[T Scalar]() T {
	var z T
	switch any(z).(type) {
	case complex128:
		return any(complex128(-1)).(T)
	default:
		return any(float64(-1)).(T)
	}
}

// FromReal lifts a real value into T.
func FromReal[T Scalar](r float64) T {
	var z T
	switch any(z).(type) {
	case complex128:
		return any(complex(r, 0)).(T)
	default:
		return any(r).(T)
	}
}

// IsComplex reports whether T is instantiated as complex128.
func IsComplex[T Scalar]() bool {
	var z T
	_, ok := any(z).(complex128)
	return ok
}

// Re returns the real part of x (x itself for float64).
func Re[T Scalar](x T) float64 {
	switch v := any(x).(type) {
	case complex128:
		return real(v)
	case float64:
		return v
	default:
		return 0
	}
}

// Im returns the imaginary part of x (0 for float64).
func Im[T Scalar](x T) float64 {
	if v, ok := any(x).(complex128); ok {
		return imag(v)
	}
	return 0
}

// Sqrt returns a square root of x, matching the branch the underlying
// scalar type would take (principal branch for complex128).
func Sqrt[T Scalar](x T) T {
	switch v := any(x).(type) {
	case complex128:
		return any(complexSqrt(v)).(T)
	case float64:
		return any(math.Sqrt(v)).(T)
	default:
		return Zero[T]()
	}
}

func complexSqrt(v complex128) complex128 {
	r := cmplxAbs(v)
	if r == 0 {
		return 0
	}
	re := math.Sqrt((r + real(v)) / 2)
	im := math.Sqrt((r - real(v)) / 2)
	if imag(v) < 0 {
		im = -im
	}
	return complex(re, im)
}
