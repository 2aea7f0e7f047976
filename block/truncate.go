// SPDX-License-Identifier: MIT

// Shared singular-value truncation policy used by AddTrLL, AddGeM,
// ConvGeMToLrM and AddLrMRemainder. Grounded on the truncation criteria
// embedded throughout H/mblock_Z.cpp's addtrll/addGeM/convGeM_toLrM: keep
// the leading singular values down to the EPS0 floor, the caller's
// relative tolerance, and the caller's rank cap, whichever binds first.

package block

// truncatedRank returns how many of the descending singular values s
// should be kept under tolerance tol and an optional cap (0 = uncapped).
// It always returns at least 1 when s is non-empty and s[0] > DefaultTolerance, and 0
// when s is empty or s[0] <= DefaultTolerance (the EPS0 floor).
func truncatedRank(s []float64, tol float64, cap int) int {
	if len(s) == 0 || s[0] <= DefaultTolerance {
		return 0
	}
	k := 1
	for k < len(s) {
		if s[k] <= DefaultTolerance || s[k] <= tol*s[0] {
			break
		}
		k++
	}
	if cap > 0 && k > cap {
		k = cap
	}
	return k
}
