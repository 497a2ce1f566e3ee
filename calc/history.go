/*
history.go - Persistence interface for calculation history

PURPOSE:
  Defines the boundary between the calculator and whatever holds past
  calculations. Handlers and the CLI only ever see this interface.

CONTRACT:
  - Append is the only write besides Clear. Records are never updated.
  - Recent/Records return newest first, strictly by descending ID, and
    never more than limit entries. limit <= 0 yields an empty result.
  - An empty store yields an empty result, not an error.
  - Clear removes everything and is idempotent. IDs keep increasing
    after a Clear.
  - Nothing is cached: every Recent call re-reads the backend.
  - Backend failures are returned as *StoreError.

IMPLEMENTATIONS:
  - calc/store/memory.go: In-memory, for tests and the "memory" driver
  - store/sqlite/sqlite.go: SQLite
  - store/postgres/postgres.go: PostgreSQL

SEE ALSO:
  - service.go: Uses HistoryStore with best-effort persistence
*/
package calc

import "context"

// HistoryStore is an append-only, clearable, recency-ordered log of
// calculations.
type HistoryStore interface {
	// Append persists a new record. ID and creation time are assigned by
	// the store.
	Append(ctx context.Context, expression string, result float64) error

	// Recent returns up to limit expressions, newest first.
	Recent(ctx context.Context, limit int) ([]string, error)

	// Records returns up to limit full records, newest first.
	Records(ctx context.Context, limit int) ([]Record, error)

	// Clear deletes all records.
	Clear(ctx context.Context) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}

// Expressions extracts the expression strings from records, keeping order.
func Expressions(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Expression
	}
	return out
}
