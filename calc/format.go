package calc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Outside this range numbers are written in exponent form.
const (
	minPlainMagnitude = 1e-4
	maxPlainMagnitude = 1e16
)

// FormatNumber renders v with the fewest digits that round-trip, always
// keeping a fractional part: 5 -> "5.0", 0.1+0.2 -> "0.30000000000000004",
// 1e16 -> "1e+16", 0.000015 -> "1.5e-05".
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case v == 0:
		if math.Signbit(v) {
			return "-0.0"
		}
		return "0.0"
	}

	abs := math.Abs(v)
	if abs < minPlainMagnitude || abs >= maxPlainMagnitude {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := decimal.NewFromFloat(v).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatExpression renders "<a> <symbol> <b> = <result>".
func FormatExpression(op Operation, a, b, result float64) string {
	return fmt.Sprintf("%s %s %s = %s", FormatNumber(a), op.Symbol(), FormatNumber(b), FormatNumber(result))
}
