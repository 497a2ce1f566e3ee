package calc_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/calc-engine/calc"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{5, "5.0"},
		{8, "8.0"},
		{-2.5, "-2.5"},
		{0, "0.0"},
		{math.Copysign(0, -1), "-0.0"},
		{0.1 + 0.2, "0.30000000000000004"},
		{2.0 / 3, "0.6666666666666666"},
		{0.0001, "0.0001"},
		{0.000015, "1.5e-05"},
		{123456789, "123456789.0"},
		{1e15, "1000000000000000.0"},
		{1e16, "1e+16"},
		{-1.2345e20, "-1.2345e+20"},
		{math.Inf(1), "inf"},
		{math.NaN(), "nan"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, calc.FormatNumber(tt.in), "FormatNumber(%v)", tt.in)
	}
}

func TestFormatExpression(t *testing.T) {
	assert.Equal(t, "10.0 + 5.0 = 15.0", calc.FormatExpression(calc.OpAdd, 10, 5, 15))
	assert.Equal(t, "5.0 + 3.0 = 8.0", calc.FormatExpression(calc.OpAdd, 5, 3, 8))
	assert.Equal(t, "10.0 - 3.0 = 7.0", calc.FormatExpression(calc.OpSubtract, 10, 3, 7))
	assert.Equal(t, "4.0 × 6.0 = 24.0", calc.FormatExpression(calc.OpMultiply, 4, 6, 24))
	assert.Equal(t, "15.0 ÷ 3.0 = 5.0", calc.FormatExpression(calc.OpDivide, 15, 3, 5))
	assert.Equal(t, "2.0 ^ 3.0 = 8.0", calc.FormatExpression(calc.OpPower, 2, 3, 8))
}
