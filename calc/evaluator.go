package calc

import "math"

// Evaluate applies the named operation to a and b.
// It has no side effects and touches no shared state.
func Evaluate(operation string, a, b float64) (float64, error) {
	op, err := ParseOperation(operation)
	if err != nil {
		return 0, err
	}
	return op.Apply(a, b)
}

// Apply computes a <op> b.
// Division checks b == 0 exactly; there is no epsilon.
func (o Operation) Apply(a, b float64) (float64, error) {
	var result float64
	switch o {
	case OpAdd:
		result = a + b
	case OpSubtract:
		result = a - b
	case OpMultiply:
		result = a * b
	case OpDivide:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		result = a / b
	case OpPower:
		result = math.Pow(a, b)
	default:
		return 0, ErrInvalidOperation
	}

	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, ErrNotFinite
	}
	return result, nil
}
