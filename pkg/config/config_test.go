package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 2*time.Second, cfg.Scanner.Cooldown)
	assert.Equal(t, 10*time.Millisecond, cfg.Scanner.TickInterval)
	assert.Equal(t, "/tmp/frames", cfg.Scanner.FrameDir)
	assert.False(t, cfg.Catalog.FromDB())
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "scanpos:bill", cfg.Display.Channel)
}

func TestLoad_Overrides(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvScanCooldown, "1500ms")
	t.Setenv(EnvCatalogSource, "DB")
	t.Setenv(EnvDBDriver, "sqlite")
	t.Setenv(EnvDBDSN, "file::memory:")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvCORSOrigins, "http://till.local,http://display.local")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"http://till.local", "http://display.local"}, cfg.App.CORSOrigins)

	assert.Equal(t, 1500*time.Millisecond, cfg.Scanner.Cooldown)
	assert.True(t, cfg.Catalog.FromDB())
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	require.NoError(t, os.Unsetenv(EnvAppEnv))

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "negative cooldown", key: EnvScanCooldown, val: "-1s"},
		{name: "zero tick", key: EnvScanTickInterval, val: "0s"},
		{name: "unknown catalog source", key: EnvCatalogSource, val: "csv"},
		{name: "db catalog without dsn", key: EnvCatalogSource, val: "db"},
		{name: "unknown driver", key: EnvDBDriver, val: "mysql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setMinimalEnv(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "dev")
	t.Setenv(EnvFrameDir, "/tmp/frames")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	assert.True(t, devConfig.IsDev())
	assert.False(t, devConfig.IsProd())

	prodConfig := AppConfig{Env: "prod"}
	assert.True(t, prodConfig.IsProd())
	assert.False(t, prodConfig.IsDev())
}
