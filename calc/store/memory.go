// Package store provides HistoryStore implementations.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/warp/calc-engine/calc"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	records []calc.Record
	nextID  int64
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{nextID: 1, now: time.Now}
}

// Append adds a record. Append-only.
func (m *Memory) Append(_ context.Context, expression string, result float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, calc.Record{
		ID:         m.nextID,
		Expression: expression,
		Result:     result,
		CreatedAt:  m.now().UTC(),
	})
	m.nextID++
	return nil
}

func (m *Memory) Recent(ctx context.Context, limit int) ([]string, error) {
	records, err := m.Records(ctx, limit)
	if err != nil {
		return nil, err
	}
	return calc.Expressions(records), nil
}

// Records walks the slice backwards; insertion order is ID order.
func (m *Memory) Records(_ context.Context, limit int) ([]calc.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.records)
	if limit < n {
		n = limit
	}
	if n < 0 {
		n = 0
	}

	result := make([]calc.Record, 0, n)
	for i := len(m.records) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, m.records[i])
	}
	return result, nil
}

// Clear drops all records. IDs are not reused.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
	return nil
}

func (m *Memory) Ping(_ context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
