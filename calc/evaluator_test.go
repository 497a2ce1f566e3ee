package calc_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/calc-engine/calc"
)

func TestEvaluate_ValidOperations(t *testing.T) {
	tests := []struct {
		op   string
		a, b float64
		want float64
	}{
		{"add", 5, 3, 8},
		{"add", 10, 5, 15},
		{"subtract", 10, 3, 7},
		{"subtract", 3, 10, -7},
		{"multiply", 4, 6, 24},
		{"multiply", -2.5, 4, -10},
		{"divide", 15, 3, 5},
		{"divide", 1, 4, 0.25},
		{"power", 2, 3, 8},
		{"power", 2, -1, 0.5},
		{"power", 9, 0.5, 3},
		{"power", 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			got, err := calc.Evaluate(tt.op, tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestEvaluate_FloatingPointAddition(t *testing.T) {
	got, err := calc.Evaluate("add", 0.1, 0.2)
	require.NoError(t, err)
	assert.Equal(t, 0.1+0.2, got)
}

func TestEvaluate_DivisionByZero(t *testing.T) {
	for _, x := range []float64{0, 1, -5, 1e300, math.Inf(1)} {
		_, err := calc.Evaluate("divide", x, 0)
		assert.ErrorIs(t, err, calc.ErrDivisionByZero, "x=%v", x)
	}

	_, err := calc.Evaluate("divide", 1, math.Copysign(0, -1))
	assert.ErrorIs(t, err, calc.ErrDivisionByZero, "negative zero is still zero")

	got, err := calc.Evaluate("divide", 1, 1e-300)
	require.NoError(t, err, "tiny divisors are not treated as zero")
	assert.InEpsilon(t, 1e300, got, 1e-12)
}

func TestEvaluate_InvalidOperation(t *testing.T) {
	for _, name := range []string{"foo", "", "ADD", "modulo"} {
		_, err := calc.Evaluate(name, 1, 2)
		assert.ErrorIs(t, err, calc.ErrInvalidOperation, "operation %q", name)
	}
}

func TestEvaluate_NonFiniteResults(t *testing.T) {
	tests := []struct {
		op   string
		a, b float64
	}{
		{"power", 0, -1},
		{"power", -8, 1.0 / 3},
		{"power", 10, 400},
		{"multiply", 1e308, 10},
		{"add", math.MaxFloat64, math.MaxFloat64},
	}

	for _, tt := range tests {
		_, err := calc.Evaluate(tt.op, tt.a, tt.b)
		assert.ErrorIs(t, err, calc.ErrNotFinite, "%s(%v, %v)", tt.op, tt.a, tt.b)
	}
}

func TestParseOperation(t *testing.T) {
	op, err := calc.ParseOperation("multiply")
	require.NoError(t, err)
	assert.Equal(t, calc.OpMultiply, op)
	assert.Equal(t, "×", op.Symbol())

	assert.Len(t, calc.Operations(), 5)
	for _, op := range calc.Operations() {
		assert.True(t, op.Valid())
		assert.NotEmpty(t, op.Symbol())
	}
}

func TestErrors_Classification(t *testing.T) {
	assert.True(t, calc.IsClientError(calc.ErrInvalidOperation))
	assert.True(t, calc.IsClientError(calc.ErrDivisionByZero))
	assert.True(t, calc.IsClientError(calc.ErrNotFinite))

	storeErr := calc.NewStoreError("append", assert.AnError)
	assert.False(t, calc.IsClientError(storeErr))
	assert.ErrorIs(t, storeErr, calc.ErrStoreUnavailable)
	assert.ErrorIs(t, storeErr, assert.AnError)
	assert.Nil(t, calc.NewStoreError("append", nil))
}
