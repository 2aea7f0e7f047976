// SPDX-License-Identifier: MIT

package gmres

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tridiagOperator implements Operator[float64] over A = tridiag(-1,2,-1),
// with an identity preconditioner, matching spec scenario 6's setup.
type tridiagOperator struct {
	n int
}

func (t *tridiagOperator) Dim() int { return t.n }

func (t *tridiagOperator) MatVec(alpha float64, x, y []float64) {
	n := t.n
	for i := 0; i < n; i++ {
		v := 2 * x[i]
		if i > 0 {
			v -= x[i-1]
		}
		if i < n-1 {
			v -= x[i+1]
		}
		y[i] += alpha * v
	}
}

func (t *tridiagOperator) Precond(z []float64) {}

func TestFGMResTridiagonalSystem(t *testing.T) {
	n := 100
	op := &tridiagOperator{n: n}
	b := make([]float64, n)
	for i := range b {
		b[i] = 1
	}
	x := make([]float64, n)

	steps, resid, err := FGMRes[float64](op, b, x, Config{Restart: 20, Tolerance: 1e-8}, 200)
	require.NoError(t, err)
	assert.LessOrEqual(t, resid, 1e-8)
	assert.LessOrEqual(t, steps, 200)

	// Verify the residual directly against the operator.
	r := make([]float64, n)
	copy(r, b)
	op.MatVec(-1, x, r)
	var normR, normB float64
	for i := range r {
		normR += r[i] * r[i]
		normB += b[i] * b[i]
	}
	assert.LessOrEqual(t, math.Sqrt(normR)/math.Sqrt(normB), 1e-6)
}

func TestFGMResZeroRHS(t *testing.T) {
	op := &tridiagOperator{n: 5}
	b := make([]float64, 5)
	x := make([]float64, 5)
	steps, resid, err := FGMRes[float64](op, b, x, Config{Restart: 3, Tolerance: 1e-8}, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, steps)
	assert.Equal(t, 0.0, resid)
	for _, v := range x {
		assert.Equal(t, 0.0, v)
	}
}
