/*
Package sqlite provides a SQLite-backed calc.HistoryStore.

PURPOSE:
  Durable calculation history for single-node deployments and the CLI.
  The same statements run on PostgreSQL with only placeholder changes
  (see store/postgres).

APPEND-ONLY ENFORCEMENT:
  - Append is a single INSERT; a record is either fully written or absent
  - No UPDATE statements on the calculations table
  - The only DELETE is Clear, which removes every row

KEY TABLES:
  calculations: id (AUTOINCREMENT, never reused after Clear), expression,
                result, created_at (defaults to insertion time)

CONCURRENCY:
  The pool is limited to one connection, so SQLite's single writer never
  returns SQLITE_BUSY to concurrent requests and ":memory:" databases are
  shared by every caller. Each statement is its own transaction.

WAL MODE:
  Opened with WAL and a 5 second busy timeout so a second process (the CLI
  next to a running server) waits instead of failing.

USAGE:
  store, err := sqlite.New("./data/calculator.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := calc.NewService(store, logger)

SEE ALSO:
  - calc/history.go: Interface definition
  - calc/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/calc-engine/calc"
)

// Store implements calc.HistoryStore using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calculations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		expression TEXT NOT NULL,
		result REAL NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Append inserts one calculation.
func (s *Store) Append(ctx context.Context, expression string, result float64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO calculations (expression, result) VALUES (?, ?)",
		expression, result,
	)
	return calc.NewStoreError("append", err)
}

// Recent returns up to limit expressions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]string, error) {
	history := []string{}
	if limit <= 0 {
		return history, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT expression FROM calculations ORDER BY id DESC LIMIT ?", limit)
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

// Records returns up to limit full records, newest first.
func (s *Store) Records(ctx context.Context, limit int) ([]calc.Record, error) {
	records := []calc.Record{}
	if limit <= 0 {
		return records, nil
	}

	query := `
		SELECT id, expression, result, created_at
		FROM calculations
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
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

// Clear deletes every calculation. The AUTOINCREMENT counter is kept.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM calculations")
	return calc.NewStoreError("clear", err)
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return calc.NewStoreError("ping", s.db.PingContext(ctx))
}
