/*
config.go - Runtime configuration for the server and the CLI

PRECEDENCE (lowest to highest):
  1. Default()
  2. YAML file passed with -config / --config
  3. Environment variables
  4. Command-line flags (applied by the binaries)

ENVIRONMENT:
  PORT                      HTTP port
  LOGGING_LEVEL             DEVELOPMENT | DEBUG | INFO | WARN | ERROR
  STORE_DRIVER              memory | sqlite | postgres
  SQLITE_PATH               SQLite file, ":memory:" allowed
  STATIC_DIR                Frontend directory served at /
  CORS_ALLOWED_ORIGINS      Comma separated origins, "*" for any
  POSTGRES_HOST, POSTGRES_PORT, POSTGRES_USER, POSTGRES_PASSWORD,
  POSTGRES_DATABASE, POSTGRES_SSLMODE, POSTGRES_CONNECT_TIMEOUT

EXAMPLE FILE:
  server:
    port: 5000
    allowed_origins: ["http://localhost:5173"]
  store:
    driver: postgres
    postgres:
      host: db
      user: calc
      database: calc
*/
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/united-manufacturing-hub/umh-utils/env"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	StaticDir       string        `yaml:"static_dir"`

	// CalculateHistoryLimit is the history size returned by /calculate.
	CalculateHistoryLimit int `yaml:"calculate_history_limit"`
	// HistoryLimit is the default size of /history.
	HistoryLimit int `yaml:"history_limit"`
	// MaxHistoryLimit caps ?limit= on /history.
	MaxHistoryLimit int `yaml:"max_history_limit"`
}

type StoreConfig struct {
	Driver     string         `yaml:"driver"`
	SQLitePath string         `yaml:"sqlite_path"`
	Postgres   PostgresConfig `yaml:"postgres"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	// ConnectTimeout is in seconds, as lib/pq expects.
	ConnectTimeout int `yaml:"connect_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:                  5000,
			ReadTimeout:           15 * time.Second,
			WriteTimeout:          15 * time.Second,
			IdleTimeout:           60 * time.Second,
			ShutdownTimeout:       30 * time.Second,
			AllowedOrigins:        []string{"*"},
			StaticDir:             "./web",
			CalculateHistoryLimit: 10,
			HistoryLimit:          50,
			MaxHistoryLimit:       500,
		},
		Store: StoreConfig{
			Driver:     DriverSQLite,
			SQLitePath: "calculator.db",
			Postgres: PostgresConfig{
				Host:           "localhost",
				Port:           5432,
				User:           "postgres",
				Database:       "calculator",
				SSLMode:        "disable",
				ConnectTimeout: 5,
			},
		},
		Log: LogConfig{Level: "INFO"},
	}
}

// Load builds a Config from defaults, the optional YAML file at path and
// the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	var err error

	if c.Server.Port, err = env.GetAsInt("PORT", false, c.Server.Port); err != nil {
		return err
	}
	if c.Log.Level, err = env.GetAsString("LOGGING_LEVEL", false, c.Log.Level); err != nil {
		return err
	}
	if c.Server.StaticDir, err = env.GetAsString("STATIC_DIR", false, c.Server.StaticDir); err != nil {
		return err
	}
	origins, err := env.GetAsString("CORS_ALLOWED_ORIGINS", false, "")
	if err != nil {
		return err
	}
	if origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	if c.Store.Driver, err = env.GetAsString("STORE_DRIVER", false, c.Store.Driver); err != nil {
		return err
	}
	if c.Store.SQLitePath, err = env.GetAsString("SQLITE_PATH", false, c.Store.SQLitePath); err != nil {
		return err
	}

	pg := &c.Store.Postgres
	if pg.Host, err = env.GetAsString("POSTGRES_HOST", false, pg.Host); err != nil {
		return err
	}
	if pg.Port, err = env.GetAsInt("POSTGRES_PORT", false, pg.Port); err != nil {
		return err
	}
	if pg.User, err = env.GetAsString("POSTGRES_USER", false, pg.User); err != nil {
		return err
	}
	if pg.Password, err = env.GetAsString("POSTGRES_PASSWORD", false, pg.Password); err != nil {
		return err
	}
	if pg.Database, err = env.GetAsString("POSTGRES_DATABASE", false, pg.Database); err != nil {
		return err
	}
	if pg.SSLMode, err = env.GetAsString("POSTGRES_SSLMODE", false, pg.SSLMode); err != nil {
		return err
	}
	if pg.ConnectTimeout, err = env.GetAsInt("POSTGRES_CONNECT_TIMEOUT", false, pg.ConnectTimeout); err != nil {
		return err
	}
	return nil
}

// Validate checks the values that would otherwise fail late at startup.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Server.CalculateHistoryLimit < 0 {
		return fmt.Errorf("calculate_history_limit must not be negative")
	}
	if c.Server.HistoryLimit <= 0 || c.Server.MaxHistoryLimit <= 0 {
		return fmt.Errorf("history limits must be positive")
	}
	if c.Server.HistoryLimit > c.Server.MaxHistoryLimit {
		return fmt.Errorf("history_limit %d exceeds max_history_limit %d",
			c.Server.HistoryLimit, c.Server.MaxHistoryLimit)
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Store.Postgres.Host == "" || c.Store.Postgres.Database == "" {
			return fmt.Errorf("postgres host and database are required")
		}
	default:
		return fmt.Errorf("unknown store driver %q (want %s, %s or %s)",
			c.Store.Driver, DriverMemory, DriverSQLite, DriverPostgres)
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// DSN assembles a lib/pq key=value connection string.
func (p PostgresConfig) DSN() string {
	parts := []string{
		"host=" + quoteDSN(p.Host),
		fmt.Sprintf("port=%d", p.Port),
		"user=" + quoteDSN(p.User),
	}
	if p.Password != "" {
		parts = append(parts, "password="+quoteDSN(p.Password))
	}
	parts = append(parts,
		"dbname="+quoteDSN(p.Database),
		"sslmode="+quoteDSN(p.SSLMode),
	)
	if p.ConnectTimeout > 0 {
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", p.ConnectTimeout))
	}
	return strings.Join(parts, " ")
}

// quoteDSN single-quotes values lib/pq would otherwise split.
func quoteDSN(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
