// Package cli implements the calc command-line tool.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/calc-engine/calc"
	"github.com/warp/calc-engine/config"
	"github.com/warp/calc-engine/store"
)

// Opener opens the history backend for a command.
type Opener func(ctx context.Context, cfg config.StoreConfig) (store.History, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Driver     string
	DBPath     string
	LogLevel   string

	open Opener
}

// NewRootCommand creates the root command for the calc CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(store.Open)
}

func newRootCommand(open Opener) *cobra.Command {
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:           "calc",
		Short:         "Simple calculator with persistent history",
		Long:          "Performs add, subtract, multiply, divide and power and keeps a history of results.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Driver, "store", "", "history store (memory|sqlite|postgres)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "SQLite database path")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "WARN", "logging level")

	// Add subcommands
	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewMenuCommand(opts))

	return cmd
}

// session is an open service plus what must be closed afterwards.
type session struct {
	svc   *calc.Service
	store store.History
	log   *zap.Logger
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.log.Warn("failed to close history store", zap.Error(err))
	}
	_ = s.log.Sync()
}

// openSession loads config, applies flags and opens the store.
func (o *RootOptions) openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if o.Driver != "" {
		cfg.Store.Driver = o.Driver
	}
	if o.DBPath != "" {
		cfg.Store.SQLitePath = o.DBPath
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := config.NewLogger(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	hs, err := o.open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}

	svc := calc.NewService(hs, logger, calc.WithRecentLimit(cfg.Server.CalculateHistoryLimit))
	return &session{svc: svc, store: hs, log: logger}, nil
}
