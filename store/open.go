// Package store selects and opens the configured history backend.
package store

import (
	"context"
	"fmt"

	"github.com/warp/calc-engine/calc"
	memstore "github.com/warp/calc-engine/calc/store"
	"github.com/warp/calc-engine/config"
	"github.com/warp/calc-engine/store/postgres"
	"github.com/warp/calc-engine/store/sqlite"
)

// History is a HistoryStore that owns a connection.
type History interface {
	calc.HistoryStore
	Close() error
}

// Open returns the backend named by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (History, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memstore.NewMemory(), nil
	case config.DriverSQLite:
		s, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverPostgres:
		s, err := postgres.New(ctx, cfg.Postgres.DSN())
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
