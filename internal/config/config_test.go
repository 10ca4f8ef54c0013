package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the loader from an empty directory with a clean environment.
func isolate(t *testing.T) {
	t.Helper()
	os.Clearenv()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "/api", cfg.Server.APIBaseURL)
	assert.Equal(t, "openrouter", cfg.DefaultProvider)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.OpenRouter.APIBase)
	assert.Empty(t, cfg.OpenRouter.APIKey)
	assert.Equal(t, "Aurora Chat", cfg.OpenRouter.Title)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.APIBase)
	assert.True(t, cfg.Ollama.Enabled)
	assert.Equal(t, "x-ai/grok-4-fast:free", cfg.Catalog.OpenRouter.DefaultModel)
	assert.Equal(t, "llama3", cfg.Catalog.Ollama.DefaultModel)
	assert.Equal(t, "ollama", cfg.Catalog.Ollama.ID)
	assert.Equal(t, time.Duration(0), cfg.Cache.ModelsTTL)
	assert.False(t, cfg.Analytics.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadConfig_LegacyEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("DEFAULT_PROVIDER", "claude")
	t.Setenv("OPENROUTER_API_KEY", "sk-or-test")
	t.Setenv("OPENROUTER_API_BASE", "https://proxy.example.com/v1")
	t.Setenv("OLLAMA_API_BASE", "http://gpu-box:11434")
	t.Setenv("ALLOW_OLLAMA", "no")
	t.Setenv("API_BASE_URL", "/chat-api")
	t.Setenv("CLAUDE_DEFAULT_MODEL", "anthropic/claude-3-haiku")
	t.Setenv("OLLAMA_DEFAULT_MODEL", "mistral")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "claude", cfg.DefaultProvider)
	assert.Equal(t, "sk-or-test", cfg.OpenRouter.APIKey)
	assert.Equal(t, "https://proxy.example.com/v1", cfg.OpenRouter.APIBase)
	assert.Equal(t, "http://gpu-box:11434", cfg.Ollama.APIBase)
	assert.False(t, cfg.Ollama.Enabled)
	assert.Equal(t, "/chat-api", cfg.Server.APIBaseURL)
	assert.Equal(t, "anthropic/claude-3-haiku", cfg.Catalog.Claude.DefaultModel)
	assert.Equal(t, "mistral", cfg.Catalog.Ollama.DefaultModel)
}

func TestLoadConfig_AllowOllamaYes(t *testing.T) {
	isolate(t)
	t.Setenv("ALLOW_OLLAMA", "YES")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Ollama.Enabled)
}

func TestLoadConfig_EmptyEnvironmentValues(t *testing.T) {
	isolate(t)
	t.Setenv("ALLOW_OLLAMA", "")
	t.Setenv("OPENROUTER_DEFAULT_MODEL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Ollama.Enabled)
	assert.Empty(t, cfg.Catalog.OpenRouter.DefaultModel)
	assert.Equal(t, "google/gemini-pro-1.5", cfg.Catalog.Gemini.DefaultModel)
}

func TestLoadConfig_File(t *testing.T) {
	isolate(t)

	content := `
server:
  port: "9090"
catalog:
  qwen:
    id: "qwen-intl"
cache:
  models_ttl: 30s
`
	path := filepath.Join(t.TempDir(), "aurora.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "qwen-intl", cfg.Catalog.Qwen.ID)
	assert.Equal(t, "qwen/qwen2.5-7b-instruct", cfg.Catalog.Qwen.DefaultModel)
	assert.Equal(t, 30*time.Second, cfg.Cache.ModelsTTL)
}

func TestLoadConfig_Invalid(t *testing.T) {
	isolate(t)
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestParseFlag(t *testing.T) {
	for _, s := range []string{"1", "true", "TRUE", "yes", " Yes "} {
		assert.True(t, ParseFlag(s), s)
	}
	for _, s := range []string{"", "0", "false", "no", "on"} {
		assert.False(t, ParseFlag(s), s)
	}
}
