/*
main.go - Calculator API entry point

PURPOSE:
  Initializes and starts the calculator HTTP server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (defaults, YAML file, environment, flags)
  2. Build the zap logger
  3. Open the history store (memory, sqlite or postgres)
  4. Create metrics, service and API handler
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config     YAML config file (optional)
  -port       HTTP server port (default: 5000)
  -store      History backend: memory | sqlite | postgres (default: sqlite)
  -db         SQLite database path (default: calculator.db)
              Use ":memory:" for a throwaway database
  -log-level  DEVELOPMENT | DEBUG | INFO | WARN | ERROR

  Flags override environment variables, which override the config file.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (shutdown_timeout)
  3. Close the history store
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/calculator.db"

  # Run without persistence
  ./server -store=memory

  # Run against PostgreSQL
  POSTGRES_HOST=db POSTGRES_PASSWORD=secret ./server -store=postgres

ENVIRONMENT:
  PORT, LOGGING_LEVEL, STATIC_DIR, CORS_ALLOWED_ORIGINS, STORE_DRIVER,
  SQLITE_PATH, POSTGRES_HOST, POSTGRES_PORT, POSTGRES_USER,
  POSTGRES_PASSWORD, POSTGRES_DATABASE, POSTGRES_SSLMODE,
  POSTGRES_CONNECT_TIMEOUT

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - config/config.go: Configuration layering
  - store/open.go: History store selection
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/warp/calc-engine/api"
	"github.com/warp/calc-engine/calc"
	"github.com/warp/calc-engine/config"
	"github.com/warp/calc-engine/store"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "YAML config file")
	port := flag.Int("port", 0, "HTTP server port")
	driver := flag.String("store", "", "history store (memory|sqlite|postgres)")
	dbPath := flag.String("db", "", "SQLite database path")
	logLevel := flag.String("log-level", "", "logging level")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = *port
		case "store":
			cfg.Store.Driver = *driver
		case "db":
			cfg.Store.SQLitePath = *dbPath
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	// Initialize store
	history, err := store.Open(context.Background(), cfg.Store)
	if err != nil {
		logger.Fatal("Failed to open history store",
			zap.String("driver", cfg.Store.Driver),
			zap.Error(err))
	}
	defer history.Close()

	// Initialize handler
	metrics := api.NewMetrics()
	svc := calc.NewService(history, logger,
		calc.WithRecentLimit(cfg.Server.CalculateHistoryLimit),
		calc.WithObserver(metrics))
	handler := api.NewHandler(svc, logger, cfg.Server, metrics)

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting",
			zap.Int("port", cfg.Server.Port),
			zap.String("store", cfg.Store.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("Server stopped")
}
