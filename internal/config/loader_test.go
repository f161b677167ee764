package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/ticket-registration-service/internal/config"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func clearPostgresEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_POSTGRES_USER", "")
	t.Setenv("APP_POSTGRES_PASSWORD", "")
	t.Setenv("APP_POSTGRES_DB", "")
}

func TestConfigLoad_FromYAMLAndEnv(t *testing.T) {
	// Minimal YAML; secrets will come from ENV
	yaml := `
app:
  name: ticket-registration-service
  version: 0.2.0
  env: test
  port: 18080
  shutdown_timeout: 3s

logger:
  level: info
  format: json
  output_target: stdout
  time_format: rfc3339

router:
  append_slash: true

storage:
  driver: postgres

postgres:
  host: 127.0.0.1
  port: 5432
  sslmode: disable
  max_conns: 5
  min_conns: 1
`
	path := writeTempConfig(t, yaml)

	t.Setenv("APP_POSTGRES_USER", "testuser")
	t.Setenv("APP_POSTGRES_PASSWORD", "testpass")
	t.Setenv("APP_POSTGRES_DB", "testdb")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 18080, cfg.App.Port)
	assert.Equal(t, ":18080", cfg.App.Addr())
	assert.Equal(t, 3*time.Second, cfg.App.ShutdownTimeout)
	assert.Equal(t, 10*time.Second, cfg.App.ReadTimeout, "default applies when the key is absent")
	assert.True(t, cfg.Router.AppendSlash)
	assert.Equal(t, config.DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "stdout", cfg.Logger.OutputTarget)
	assert.Equal(t, "rfc3339", cfg.Logger.TimeFormat)
	assert.Equal(t, "testuser", cfg.Postgres.User)
	assert.Equal(t, "testpass", cfg.Postgres.Password)
	assert.Equal(t, "testdb", cfg.Postgres.DBName)
	assert.Equal(t, "127.0.0.1", cfg.Postgres.Host)
	assert.Equal(t, int32(5), cfg.Postgres.MaxConns)
	assert.Equal(t, 3600, cfg.Postgres.MaxConnLifetime)
}

func TestConfigLoad_EnvOverridesFile(t *testing.T) {
	path := writeTempConfig(t, `
app:
  port: 9000
`)
	clearPostgresEnv(t)
	t.Setenv("APP_APP_PORT", "9100")
	t.Setenv("APP_STORAGE_DRIVER", "memory")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.App.Port)
}

func TestConfigLoad_DefaultsWithoutFile(t *testing.T) {
	clearPostgresEnv(t)
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "ticket-registration-service", cfg.App.Name)
	assert.Equal(t, 8000, cfg.App.Port)
	assert.Equal(t, config.DriverMemory, cfg.Storage.Driver)
	assert.False(t, cfg.Router.AppendSlash)
	assert.True(t, cfg.Postgres.Migrate)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.CORS.AllowedOrigins)
}

func TestConfigLoad_CORSOrigins(t *testing.T) {
	clearPostgresEnv(t)
	path := writeTempConfig(t, `
cors:
  allowed_origins:
    - https://tickets.example.com
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://tickets.example.com"}, cfg.CORS.AllowedOrigins)

	t.Setenv("APP_CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")
	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestConfigLoad_MissingRequiredEnvFails(t *testing.T) {
	path := writeTempConfig(t, `
storage:
  driver: postgres
postgres:
  host: localhost
  port: 5432
`)
	clearPostgresEnv(t)

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_POSTGRES_USER")
}

func TestConfigLoad_InvalidValues(t *testing.T) {
	clearPostgresEnv(t)
	cases := map[string]string{
		"unknown driver": "storage:\n  driver: mongo\n",
		"bad port":       "app:\n  port: 70000\n",
		"bad env":        "app:\n  env: qa\n",
		"bad origin":     "cors:\n  allowed_origins: [\"not an origin\"]\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeTempConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestConfigLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
