package calc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/warp/calc-engine/calc"
	"github.com/warp/calc-engine/calc/store"
)

// failingStore wraps a memory store and fails selected operations.
type failingStore struct {
	*store.Memory
	failAppend bool
	failRecent bool
	failClear  bool
}

var errConnRefused = errors.New("connection refused")

func (f *failingStore) Append(ctx context.Context, expression string, result float64) error {
	if f.failAppend {
		return calc.NewStoreError("append", errConnRefused)
	}
	return f.Memory.Append(ctx, expression, result)
}

func (f *failingStore) Recent(ctx context.Context, limit int) ([]string, error) {
	if f.failRecent {
		return nil, calc.NewStoreError("recent", errConnRefused)
	}
	return f.Memory.Recent(ctx, limit)
}

func (f *failingStore) Clear(ctx context.Context) error {
	if f.failClear {
		return calc.NewStoreError("clear", errConnRefused)
	}
	return f.Memory.Clear(ctx)
}

type recordingObserver struct {
	calculations map[string]int
	storeErrors  map[string]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{calculations: map[string]int{}, storeErrors: map[string]int{}}
}

func (o *recordingObserver) ObserveCalculation(operation string, err error) {
	key := operation + ":ok"
	if err != nil {
		key = operation + ":" + err.Error()
	}
	o.calculations[key]++
}

func (o *recordingObserver) ObserveStoreError(op string, _ error) {
	o.storeErrors[op]++
}

func TestService_CalculatePersistsAndReturnsHistory(t *testing.T) {
	// GIVEN: An empty history
	svc := calc.NewService(store.NewMemory(), nil)
	ctx := context.Background()

	// WHEN: Two calculations run
	_, err := svc.Calculate(ctx, "add", 5, 3)
	require.NoError(t, err)
	c, err := svc.Calculate(ctx, "add", 10, 5)
	require.NoError(t, err)

	// THEN: The newest expression comes first
	assert.Equal(t, 15.0, c.Result)
	assert.Equal(t, "10.0 + 5.0 = 15.0", c.Expression)
	assert.Equal(t, []string{"10.0 + 5.0 = 15.0", "5.0 + 3.0 = 8.0"}, c.History)
	assert.NoError(t, c.HistoryErr)
}

func TestService_ClientErrorsNeverReachStore(t *testing.T) {
	mem := store.NewMemory()
	obs := newRecordingObserver()
	svc := calc.NewService(mem, nil, calc.WithObserver(obs))
	ctx := context.Background()

	_, err := svc.Calculate(ctx, "divide", 1, 0)
	assert.ErrorIs(t, err, calc.ErrDivisionByZero)

	_, err = svc.Calculate(ctx, "foo", 1, 2)
	assert.ErrorIs(t, err, calc.ErrInvalidOperation)

	_, err = svc.Calculate(ctx, "power", 0, -1)
	assert.ErrorIs(t, err, calc.ErrNotFinite)

	history, err := svc.History(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, history)

	assert.Equal(t, 1, obs.calculations["divide:Cannot divide by zero!"])
	assert.Equal(t, 1, obs.calculations["foo:Invalid operation"])
	assert.Empty(t, obs.storeErrors)
}

func TestService_AppendFailureDoesNotFailCalculation(t *testing.T) {
	// GIVEN: A store that rejects writes
	core, logs := observer.New(zap.WarnLevel)
	obs := newRecordingObserver()
	fs := &failingStore{Memory: store.NewMemory(), failAppend: true}
	svc := calc.NewService(fs, zap.New(core), calc.WithObserver(obs))

	// WHEN: Calculating
	c, err := svc.Calculate(context.Background(), "multiply", 4, 6)

	// THEN: The result is returned and the failure is logged
	require.NoError(t, err)
	assert.Equal(t, 24.0, c.Result)
	assert.Empty(t, c.History)
	assert.ErrorIs(t, c.HistoryErr, calc.ErrStoreUnavailable)
	assert.Equal(t, 1, logs.FilterMessage("failed to persist calculation").Len())
	assert.Equal(t, 1, obs.storeErrors["append"])
	assert.Equal(t, 1, obs.calculations["multiply:ok"])
}

func TestService_RecentFailureReturnsEmptyHistory(t *testing.T) {
	fs := &failingStore{Memory: store.NewMemory(), failRecent: true}
	svc := calc.NewService(fs, nil)

	c, err := svc.Calculate(context.Background(), "subtract", 10, 3)
	require.NoError(t, err)
	assert.Equal(t, 7.0, c.Result)
	assert.NotNil(t, c.History)
	assert.Empty(t, c.History)
	assert.ErrorIs(t, c.HistoryErr, calc.ErrStoreUnavailable)

	records, err := fs.Memory.Records(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, records, 1, "append still happened")
}

func TestService_HistoryEndpointsSurfaceStoreErrors(t *testing.T) {
	fs := &failingStore{Memory: store.NewMemory(), failRecent: true, failClear: true}
	svc := calc.NewService(fs, nil)
	ctx := context.Background()

	_, err := svc.History(ctx, 50)
	assert.ErrorIs(t, err, calc.ErrStoreUnavailable)

	err = svc.ClearHistory(ctx)
	assert.ErrorIs(t, err, calc.ErrStoreUnavailable)
}

func TestService_RecentLimit(t *testing.T) {
	svc := calc.NewService(store.NewMemory(), nil, calc.WithRecentLimit(3))
	ctx := context.Background()

	var c *calc.Calculation
	var err error
	for i := 0; i < 5; i++ {
		c, err = svc.Calculate(ctx, "add", float64(i), 1)
		require.NoError(t, err)
	}
	assert.Len(t, c.History, 3)
	assert.Equal(t, "4.0 + 1.0 = 5.0", c.History[0])

	require.NoError(t, svc.ClearHistory(ctx))
	history, err := svc.History(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}
