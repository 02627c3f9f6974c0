package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chTempDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "eval.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "baselines", cfg.Eval.BaselineDir)
	assert.Equal(t, 10, cfg.Eval.MaxIterations)
	assert.Equal(t, 4, cfg.Eval.Concurrency)
	assert.Equal(t, 300, cfg.Eval.BackendTimeoutSecs)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.HaikuModel)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.SonnetModel)
	assert.Equal(t, int64(2048), cfg.Anthropic.MaxTokens)
	assert.Equal(t, "https://api.perplexity.ai", cfg.Perplexity.BaseURL)
	assert.Equal(t, "sonar-pro", cfg.Perplexity.Model)
}

func TestLoadFromYAML(t *testing.T) {
	chTempDir(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/eval
log:
  level: debug
  format: console
eval:
  max_iterations: 5
  backends:
    - name: haiku-a
      provider: anthropic
      params:
        model: claude-haiku-4-5-20251001
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Eval.MaxIterations)
	require.Len(t, cfg.Eval.Backends, 1)
	assert.Equal(t, "haiku-a", cfg.Eval.Backends[0].Name)
	assert.Equal(t, "anthropic", cfg.Eval.Backends[0].Provider)
}

func TestBackendConfigs_Defaults(t *testing.T) {
	chTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	backends := cfg.BackendConfigs()
	require.Len(t, backends, 3)
	assert.Equal(t, "claude-haiku", backends[0].Name)
	assert.Equal(t, "anthropic", backends[0].ProviderID)
	assert.Equal(t, cfg.Anthropic.HaikuModel, backends[0].Param("model", ""))
	assert.Equal(t, "perplexity", backends[2].ProviderID)
}

func TestBackendConfigs_Configured(t *testing.T) {
	cfg := &Config{Eval: EvalConfig{Backends: []BackendSpec{
		{Name: "custom", Provider: "anthropic", Params: map[string]any{"model": "m"}},
	}}}

	backends := cfg.BackendConfigs()
	require.Len(t, backends, 1)
	assert.Equal(t, "custom", backends[0].Name)
	assert.Equal(t, "m", backends[0].Param("model", ""))
}

func TestInitLogger(t *testing.T) {
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
