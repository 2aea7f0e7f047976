// SPDX-License-Identifier: MIT

// Package scalar: the real/complex dual-instantiation trait shared by
// numeric, block, reducer and gmres.
//
// Every kernel in this module is written once against the Scalar type set
// and instantiated at call sites for float64 or complex128. This file
// defines ONLY the trait and its arithmetic helpers; it carries no
// algorithmic logic of its own.
package scalar
