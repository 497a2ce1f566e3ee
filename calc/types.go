/*
types.go - Core types for the calculator engine

PURPOSE:
  Defines the arithmetic operations the engine understands and the record
  shape the history store persists for every successful calculation.

OPERATIONS:
  add       a + b     symbol "+"
  subtract  a - b     symbol "-"
  multiply  a × b     symbol "×"
  divide    a ÷ b     symbol "÷"
  power     a ^ b     symbol "^"

RECORDS:
  A Record is created exactly once per successful calculation and is never
  updated. The store assigns ID and CreatedAt. The only way to remove a
  record is HistoryStore.Clear, which removes all of them.

SEE ALSO:
  - evaluator.go: Applies an Operation to two operands
  - format.go: Renders operands and results into an expression string
  - history.go: HistoryStore interface
*/
package calc

import "time"

// Operation is the name of an arithmetic operation, as sent by clients.
type Operation string

const (
	OpAdd      Operation = "add"
	OpSubtract Operation = "subtract"
	OpMultiply Operation = "multiply"
	OpDivide   Operation = "divide"
	OpPower    Operation = "power"
)

var operations = []Operation{OpAdd, OpSubtract, OpMultiply, OpDivide, OpPower}

var symbols = map[Operation]string{
	OpAdd:      "+",
	OpSubtract: "-",
	OpMultiply: "×",
	OpDivide:   "÷",
	OpPower:    "^",
}

// Operations returns every supported operation in menu order.
func Operations() []Operation {
	out := make([]Operation, len(operations))
	copy(out, operations)
	return out
}

// ParseOperation resolves an operation name. Names are case-sensitive.
func ParseOperation(name string) (Operation, error) {
	op := Operation(name)
	if !op.Valid() {
		return "", ErrInvalidOperation
	}
	return op, nil
}

// Valid reports whether o is one of the supported operations.
func (o Operation) Valid() bool {
	_, ok := symbols[o]
	return ok
}

// Symbol returns the operator used when formatting expressions.
func (o Operation) Symbol() string {
	return symbols[o]
}

func (o Operation) String() string { return string(o) }

// Record is one persisted calculation.
type Record struct {
	ID         int64
	Expression string
	Result     float64
	CreatedAt  time.Time
}
