package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 8090

[database]
host = "db"
port = 5433
user = "booking"
password = "from-file"
dbname = "sessions"

[payments]
secret_key = "sk_test_file"
platform_fee_rate = "0.20"
currency = "eur"

[reaper]
abandoned_minutes = 45
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileValuesAndDefaults(t *testing.T) {
	t.Setenv(EnvDatabasePassword, "")
	t.Setenv(EnvStripeSecretKey, "")
	t.Setenv(EnvPlatformFeeRate, "")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, "from-file", cfg.Database.Password)
	assert.Equal(t, "eur", cfg.Payments.Currency)
	assert.True(t, cfg.Payments.FeeRate().Equal(decimal.RequireFromString("0.20")))
	assert.Equal(t, 45, cfg.Reaper.AbandonedMinutes)
	assert.Equal(t, 100, cfg.Reaper.BatchSize)
	assert.Equal(t, "host=db port=5433 user=booking password=from-file dbname=sessions sslmode=disable", cfg.Database.DSN())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv(EnvDatabasePassword, "secret")
	t.Setenv(EnvStripeSecretKey, "sk_test_env")
	t.Setenv(EnvPlatformFeeRate, "0.1")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "sk_test_env", cfg.Payments.SecretKey)
	assert.True(t, cfg.Payments.FeeRate().Equal(decimal.RequireFromString("0.1")))
}

func TestLoad_RejectsFeeRateOutOfRange(t *testing.T) {
	t.Setenv(EnvDatabasePassword, "")
	t.Setenv(EnvStripeSecretKey, "")
	t.Setenv(EnvPlatformFeeRate, "1")

	_, err := Load(writeConfig(t, sampleConfig))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, ErrReadConfig)
}

func TestValidate_ReaperWindow(t *testing.T) {
	cfg := defaults()
	cfg.Reaper.AbandonedMinutes = 0
	require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg.Reaper.Enabled = false
	require.NoError(t, cfg.Validate())
}
