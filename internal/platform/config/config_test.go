package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Verification.InitialDelay)
	assert.Equal(t, time.Hour, cfg.Verification.MaxDelay)
	assert.Equal(t, 3, cfg.Verification.MaxAttempts)
	assert.Equal(t, 7*24*time.Hour, cfg.Verification.InstructionTTL)
	assert.Equal(t, 5*time.Minute, cfg.Verification.ResolutionTTL)
	assert.Equal(t, devSigningKey, cfg.Auth.JWTSigningKey)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("VERIFY_MAX_ATTEMPTS", "5")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("HOSTING_TIMEOUT", "3s")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Verification.MaxAttempts)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3*time.Second, cfg.Provider.Timeout)
}

func TestFromEnv_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SIGNING_KEY", "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SIGNING_KEY")
	assert.Contains(t, err.Error(), "HOSTING_WEBHOOK_SECRET")
}

func TestValidate_DelayBounds(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("VERIFY_INITIAL_DELAY", "2h")
	t.Setenv("VERIFY_MAX_DELAY", "1h")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VERIFY_MAX_DELAY")
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("DOMAINFLOW_TEST_VALUE=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("DOMAINFLOW_TEST_VALUE") })

	require.NoError(t, LoadEnvFiles(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "from-file", os.Getenv("DOMAINFLOW_TEST_VALUE"))
}
