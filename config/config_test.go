package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Server.CalculateHistoryLimit)
	assert.Equal(t, 50, cfg.Server.HistoryLimit)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8081
  read_timeout: 3s
  allowed_origins: ["http://localhost:5173"]
store:
  driver: postgres
  postgres:
    host: db.internal
    user: calc
    database: history
log:
  level: warn
`), 0o600))

	t.Setenv("POSTGRES_PASSWORD", "s3cret")
	t.Setenv("PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port, "env overrides file")
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout, "unset keys keep defaults")
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "db.internal", cfg.Store.Postgres.Host)
	assert.Equal(t, 5432, cfg.Store.Postgres.Port)
	assert.Equal(t, "s3cret", cfg.Store.Postgres.Password)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example,")
	t.Setenv("LOGGING_LEVEL", "DEVELOPMENT")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("PORT", "not-a-port")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mysql" }},
		{"empty sqlite path", func(c *Config) { c.Store.SQLitePath = "" }},
		{"postgres without host", func(c *Config) {
			c.Store.Driver = DriverPostgres
			c.Store.Postgres.Host = ""
		}},
		{"history limit above max", func(c *Config) { c.Server.HistoryLimit = 1000 }},
		{"zero history limit", func(c *Config) { c.Server.HistoryLimit = 0 }},
		{"unknown log level", func(c *Config) { c.Log.Level = "chatty" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{
		Host:           "db",
		Port:           5432,
		User:           "calc",
		Password:       "it's secret",
		Database:       "history",
		SSLMode:        "require",
		ConnectTimeout: 5,
	}
	assert.Equal(t,
		`host=db port=5432 user=calc password='it\'s secret' dbname=history sslmode=require connect_timeout=5`,
		p.DSN())

	p.Password = ""
	p.ConnectTimeout = 0
	assert.Equal(t, "host=db port=5432 user=calc dbname=history sslmode=require", p.DSN())
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEVELOPMENT")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)

	lvl, err = ParseLevel("error")
	require.NoError(t, err)
	assert.Equal(t, zapcore.ErrorLevel, lvl)

	logger, err := NewLogger("warn")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}
