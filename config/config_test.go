package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"asset-vault/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// запуск из временного каталога, чтобы случайный .env не подмешался
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdirTemp(t)
	path := writeConfig(t, `
databaseConfig:
  dsn: "postgres://localhost/db"
jwt:
  secret_key: "secret"
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, int64(100<<20), cfg.Server.MaxUploadSize)
	assert.Equal(t, "disk", cfg.Storage.Driver)
	assert.Equal(t, 4, cfg.Pin.MinLength)
	assert.Equal(t, 6, cfg.Pin.MaxLength)
	assert.Equal(t, int64(5), cfg.Pin.MaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.LockoutDuration())
	assert.Equal(t, 900*time.Second, cfg.PresignedURLTTL())
	assert.Equal(t, "15m", cfg.JWT.AccessTokenTTL)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DAM_DATABASE_DSN", "postgres://env/db")
	t.Setenv("DAM_JWT_SECRET", "env-secret")
	t.Setenv("DAM_ADMIN_EMAILS", " root@example.com, ,ops@example.com")

	path := writeConfig(t, `
databaseConfig:
  dsn: "postgres://file/db"
admin:
  emails: ["file@example.com"]
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env/db", cfg.DatabaseConfig.DSN)
	assert.Equal(t, "env-secret", cfg.JWT.SecretKey)
	assert.Equal(t, []string{"root@example.com", "ops@example.com"}, cfg.Admin.Emails)
}

func TestLoadConfig_Invalid(t *testing.T) {
	chdirTemp(t)

	tests := []struct {
		name    string
		content string
	}{
		{"нет секрета JWT", `databaseConfig: {dsn: "x"}`},
		{"нет DSN", `jwt: {secret_key: "s"}`},
		{"min больше max", "databaseConfig: {dsn: \"x\"}\njwt: {secret_key: \"s\"}\npin: {min_length: 8, max_length: 4}"},
		{"неверный lockout", "databaseConfig: {dsn: \"x\"}\njwt: {secret_key: \"s\"}\npin: {lockout: \"soon\"}"},
		{"неизвестный драйвер", "databaseConfig: {dsn: \"x\"}\njwt: {secret_key: \"s\"}\nstorage: {driver: \"ftp\"}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSetupServer(t *testing.T) {
	srv, router := config.SetupServer(":9999")

	assert.Equal(t, ":9999", srv.Addr)
	assert.Equal(t, router, srv.Handler)
}
