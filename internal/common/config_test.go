package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, 0.01, config.Analysis.RiskFreeRate)
	assert.Equal(t, "SPY", config.Analysis.Benchmark)
	assert.Equal(t, 8080, config.Server.Port)
	assert.True(t, config.Cache.Enabled)
	assert.True(t, config.Clients.Yahoo.Enabled)
	assert.False(t, config.IsProduction())
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "perfolio.toml")
	content := `
environment = "production"

[analysis]
risk_free_rate = 0.03
benchmark = "VTI"

[server]
port = 9090

[clients.eodhd]
api_key = "file-key"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.True(t, config.IsProduction())
	assert.Equal(t, 0.03, config.Analysis.RiskFreeRate)
	assert.Equal(t, "VTI", config.Analysis.Benchmark)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "file-key", config.Clients.EODHD.APIKey)

	// Unset keys keep their defaults.
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, "2023-01-01", config.Analysis.StartDate)
}

func TestLoadConfig_MissingFileIsSkipped(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "development", config.Environment)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PERFOLIO_ENV", "production")
	t.Setenv("PERFOLIO_PORT", "7001")
	t.Setenv("PERFOLIO_BENCHMARK", "QQQ")
	t.Setenv("PERFOLIO_RISK_FREE_RATE", "0.045")
	t.Setenv("EODHD_API_KEY", "env-key")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, 7001, config.Server.Port)
	assert.Equal(t, "QQQ", config.Analysis.Benchmark)
	assert.Equal(t, 0.045, config.Analysis.RiskFreeRate)
	assert.Equal(t, "env-key", config.Clients.EODHD.APIKey)
}

func TestLoadConfig_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "perfolio.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = 9090\n"), 0644))

	t.Setenv("PERFOLIO_PORT", "7002")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7002, config.Server.Port)
}

func TestEODHDConfig_GetTimeout(t *testing.T) {
	c := EODHDConfig{Timeout: "5s"}
	assert.Equal(t, "5s", c.GetTimeout().String())

	// Unparseable values fall back to the default.
	c.Timeout = "soon"
	assert.Equal(t, "30s", c.GetTimeout().String())
}
