/*
Package postgres provides a PostgreSQL-backed calc.HistoryStore.

PURPOSE:
  Shared durable history when several API instances run behind a load
  balancer. Mirrors store/sqlite statement for statement.

CONNECTION:
  The DSN is assembled from POSTGRES_* settings by config.PostgresConfig.DSN
  and includes connect_timeout, so an unreachable server fails the call
  instead of blocking it.

KEY TABLES:
  calculations: id BIGSERIAL, expression TEXT, result DOUBLE PRECISION,
                created_at TIMESTAMPTZ DEFAULT now()

  Clear uses DELETE, not TRUNCATE ... RESTART IDENTITY, so ids keep growing.

SEE ALSO:
  - store/sqlite/sqlite.go: SQLite variant
  - config/config.go: DSN assembly
*/
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/warp/calc-engine/calc"
)

const schema = `
CREATE TABLE IF NOT EXISTS calculations (
	id BIGSERIAL PRIMARY KEY,
	expression TEXT NOT NULL,
	result DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store implements calc.HistoryStore using PostgreSQL.
type Store struct {
	db *sql.DB
}

// New connects using a lib/pq DSN and creates the schema.
func New(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Append(ctx context.Context, expression string, result float64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO calculations (expression, result) VALUES ($1, $2)",
		expression, result,
	)
	return calc.NewStoreError("append", err)
}

func (s *Store) Recent(ctx context.Context, limit int) ([]string, error) {
	history := []string{}
	if limit <= 0 {
		return history, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT expression FROM calculations ORDER BY id DESC LIMIT $1", limit)
	if err != nil {
		return nil, calc.NewStoreError("recent", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expr string
		if err := rows.Scan(&expr); err != nil {
			return nil, calc.NewStoreError("recent", err)
		}
		history = append(history, expr)
	}
	if err := rows.Err(); err != nil {
		return nil, calc.NewStoreError("recent", err)
	}
	return history, nil
}

func (s *Store) Records(ctx context.Context, limit int) ([]calc.Record, error) {
	records := []calc.Record{}
	if limit <= 0 {
		return records, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, expression, result, created_at
		FROM calculations
		ORDER BY id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, calc.NewStoreError("records", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r calc.Record
		if err := rows.Scan(&r.ID, &r.Expression, &r.Result, &r.CreatedAt); err != nil {
			return nil, calc.NewStoreError("records", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, calc.NewStoreError("records", err)
	}
	return records, nil
}

func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM calculations")
	return calc.NewStoreError("clear", err)
}

func (s *Store) Ping(ctx context.Context) error {
	return calc.NewStoreError("ping", s.db.PingContext(ctx))
}
