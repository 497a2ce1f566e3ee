package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/calc-engine/calc"
)

// Set POSTGRES_TEST_DSN to run these against a real server, e.g.
// "host=localhost user=postgres password=postgres dbname=calc_test sslmode=disable".
func newTestStore(t *testing.T) *Store {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}

	store, err := New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Clear(context.Background()))
	return store
}

func TestStore_AppendRecentClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "5.0 + 3.0 = 8.0", 8))
	require.NoError(t, store.Append(ctx, "10.0 + 5.0 = 15.0", 15))

	got, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0 + 5.0 = 15.0", "5.0 + 3.0 = 8.0"}, got)

	got, err = store.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	records, err := store.Records(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 15.0, records[0].Result)
	assert.WithinDuration(t, time.Now(), records[0].CreatedAt, time.Minute)

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	got, err = store.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNew_UnreachableServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := New(ctx, "host=127.0.0.1 port=1 user=nobody dbname=none sslmode=disable connect_timeout=1")
	assert.Error(t, err)
}

func TestStore_ClosedStoreIsUnavailable(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Close())

	err := store.Append(context.Background(), "x", 1)
	assert.ErrorIs(t, err, calc.ErrStoreUnavailable)
}
