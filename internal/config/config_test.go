package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimalConfig = `
[database]
host = "localhost"
user = "salon"
dbname = "salon"

[yclients]
company_id = 123
partner_token = "file-token"
`

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvPartnerToken, "")

	cfg, err := Load(writeConfig(t, minimalConfig))

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.YClients.Timeout)
	assert.Equal(t, "file-token", cfg.YClients.PartnerToken)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, 24, cfg.Booking.NotifyBySMSHours)
	assert.Equal(t, 10000, cfg.Booking.GuardSize)
	assert.Equal(t, "host=localhost port=5432 user=salon password= dbname=salon sslmode=disable", cfg.Database.DSN())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvPartnerToken, "env-token")
	t.Setenv(EnvUserToken, "user-token")
	t.Setenv(EnvDBPassword, "secret")

	cfg, err := Load(writeConfig(t, minimalConfig))

	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.YClients.PartnerToken)
	assert.Equal(t, "user-token", cfg.YClients.UserToken)
	assert.Equal(t, "secret", cfg.Database.Password)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("YCLIENTS_LOGIN=admin@example.com\n"), 0o600))
	t.Setenv(EnvLogin, "")
	require.NoError(t, os.Unsetenv(EnvLogin))

	cfg, err := Load(writeConfig(t, minimalConfig))

	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", cfg.YClients.Login)
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvPartnerToken, "")

	tests := []struct {
		name    string
		content string
	}{
		{"missing company", `
[database]
host = "localhost"
user = "salon"
dbname = "salon"
[yclients]
partner_token = "t"
`},
		{"redis without addr", minimalConfig + `
[cache]
backend = "redis"
`},
		{"unknown log level", minimalConfig + `
[logs]
level = "verbose"
`},
		{"broken toml", `[database`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}
