/*
service.go - Calculation and history orchestration

PURPOSE:
  Shared by the HTTP API and the CLI. Runs one calculation per call:

    1. Resolve the operation and evaluate it (pure, no store access)
    2. Format the expression and append it to the HistoryStore
    3. Read back the most recent expressions

  Steps 2 and 3 are best-effort. Their failures are logged, reported to the
  Observer and attached to the Calculation, but the result is still
  returned. Client errors from step 1 stop the call before any store access.

  History, Records and ClearHistory exist only to talk to the store, so
  their failures are returned to the caller.
*/
package calc

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// DefaultRecentLimit is how many expressions Calculate returns.
const DefaultRecentLimit = 10

// Calculation is the outcome of a successful Service.Calculate call.
type Calculation struct {
	Operation  Operation
	Operand1   float64
	Operand2   float64
	Result     float64
	Expression string

	// History holds the most recent expressions, newest first. It is empty,
	// never nil, when the store could not be read.
	History []string

	// HistoryErr is the first store failure hit while persisting or reading
	// history. The calculation itself is still valid.
	HistoryErr error
}

// Observer receives calculation outcomes and store failures.
type Observer interface {
	ObserveCalculation(operation string, err error)
	ObserveStoreError(op string, err error)
}

// Option configures a Service.
type Option func(*Service)

// WithRecentLimit sets how many expressions Calculate returns.
func WithRecentLimit(n int) Option {
	return func(s *Service) { s.recentLimit = n }
}

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// Service evaluates calculations and records them in a HistoryStore.
type Service struct {
	history     HistoryStore
	log         *zap.Logger
	observer    Observer
	recentLimit int
}

// NewService creates a Service. A nil logger disables logging.
func NewService(history HistoryStore, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		history:     history,
		log:         logger,
		recentLimit: DefaultRecentLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calculate evaluates a <operation> b, persists the expression and returns
// the result together with recent history.
func (s *Service) Calculate(ctx context.Context, operation string, a, b float64) (*Calculation, error) {
	op, err := ParseOperation(operation)
	if err != nil {
		s.observeCalculation(operation, err)
		return nil, err
	}

	result, err := op.Apply(a, b)
	if err != nil {
		s.observeCalculation(operation, err)
		return nil, err
	}
	s.observeCalculation(operation, nil)

	c := &Calculation{
		Operation:  op,
		Operand1:   a,
		Operand2:   b,
		Result:     result,
		Expression: FormatExpression(op, a, b, result),
		History:    []string{},
	}

	if err := s.history.Append(ctx, c.Expression, result); err != nil {
		s.log.Warn("failed to persist calculation",
			zap.String("expression", c.Expression),
			zap.Error(err))
		s.observeStoreError("append", err)
		c.HistoryErr = err
	}

	recent, err := s.history.Recent(ctx, s.recentLimit)
	if err != nil {
		s.log.Warn("failed to load recent history", zap.Error(err))
		s.observeStoreError("recent", err)
		if c.HistoryErr == nil {
			c.HistoryErr = err
		}
		return c, nil
	}
	c.History = recent
	return c, nil
}

// History returns up to limit expressions, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]string, error) {
	history, err := s.history.Recent(ctx, limit)
	if err != nil {
		s.observeStoreError("recent", err)
		return nil, err
	}
	return history, nil
}

// Records returns up to limit full records, newest first.
func (s *Service) Records(ctx context.Context, limit int) ([]Record, error) {
	records, err := s.history.Records(ctx, limit)
	if err != nil {
		s.observeStoreError("records", err)
		return nil, err
	}
	return records, nil
}

// ClearHistory deletes every record.
func (s *Service) ClearHistory(ctx context.Context) error {
	if err := s.history.Clear(ctx); err != nil {
		s.observeStoreError("clear", err)
		return err
	}
	s.log.Info("history cleared")
	return nil
}

// Ping checks the history backend.
func (s *Service) Ping(ctx context.Context) error {
	return s.history.Ping(ctx)
}

func (s *Service) observeCalculation(operation string, err error) {
	if s.observer != nil {
		s.observer.ObserveCalculation(operation, err)
	}
}

func (s *Service) observeStoreError(op string, err error) {
	if s.observer == nil {
		return
	}
	var se *StoreError
	if errors.As(err, &se) {
		op = se.Op
	}
	s.observer.ObserveStoreError(op, err)
}
