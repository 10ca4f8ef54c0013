package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is built once at startup and never mutated afterwards.
type Config struct {
	Server          ServerConfig     `mapstructure:"server"`
	DefaultProvider string           `mapstructure:"default_provider" validate:"required"`
	OpenRouter      OpenRouterConfig `mapstructure:"openrouter"`
	Ollama          OllamaConfig     `mapstructure:"ollama"`
	Catalog         CatalogConfig    `mapstructure:"catalog"`
	Log             LogConfig        `mapstructure:"log"`
	Tracing         TracingConfig    `mapstructure:"tracing"`
	Metrics         MetricsConfig    `mapstructure:"metrics"`
	Cache           CacheConfig      `mapstructure:"cache"`
	Redis           RedisConfig      `mapstructure:"redis"`
	Analytics       AnalyticsConfig  `mapstructure:"analytics"`
}

type ServerConfig struct {
	Port       string `mapstructure:"port" validate:"required"`
	Env        string `mapstructure:"env"`
	APIBaseURL string `mapstructure:"api_base_url"`
}

type OpenRouterConfig struct {
	APIBase string `mapstructure:"api_base" validate:"required,url"`
	// APIKey is the process-wide fallback credential for remote providers.
	APIKey  string `mapstructure:"api_key" json:"-"`
	Referer string `mapstructure:"referer"`
	Title   string `mapstructure:"title"`
}

type OllamaConfig struct {
	APIBase string `mapstructure:"api_base" validate:"required,url"`
	// Enabled is parsed by ParseFlag so that "yes" also counts as true.
	Enabled    bool   `mapstructure:"-"`
	MinVersion string `mapstructure:"min_version"`
}

// CatalogConfig holds the per-provider overrides for the registry.
type CatalogConfig struct {
	OpenRouter CatalogEntry `mapstructure:"openrouter"`
	Gemini     CatalogEntry `mapstructure:"gemini"`
	Claude     CatalogEntry `mapstructure:"claude"`
	Qwen       CatalogEntry `mapstructure:"qwen"`
	Ollama     CatalogEntry `mapstructure:"ollama"`
}

type CatalogEntry struct {
	ID           string `mapstructure:"id" validate:"required"`
	DefaultModel string `mapstructure:"default_model"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error fatal"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

type CacheConfig struct {
	// ModelsTTL caches local model listings; zero disables caching.
	ModelsTTL time.Duration `mapstructure:"models_ttl" validate:"gte=0"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password" json:"-"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

type AnalyticsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn" validate:"required_if=Enabled true"`
}

// legacyEnv maps config keys to the environment variable names the service
// has always accepted, in addition to the automatic KEY_PATH form.
var legacyEnv = map[string][]string{
	"server.api_base_url":              {"API_BASE_URL"},
	"server.port":                      {"PORT"},
	"ollama.enabled":                   {"ALLOW_OLLAMA"},
	"catalog.openrouter.default_model": {"OPENROUTER_DEFAULT_MODEL"},
	"catalog.gemini.default_model":     {"GEMINI_DEFAULT_MODEL"},
	"catalog.claude.default_model":     {"CLAUDE_DEFAULT_MODEL"},
	"catalog.qwen.default_model":       {"QWEN_DEFAULT_MODEL"},
	"catalog.ollama.default_model":     {"OLLAMA_DEFAULT_MODEL"},
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("./internal/config")
	}

	setDefaults(v)

	// Environment Variables. A variable set to "" counts as set, so
	// ALLOW_OLLAMA= disables the local provider and OPENROUTER_DEFAULT_MODEL=
	// clears the default model.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	for key, names := range legacyEnv {
		automatic := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(append([]string{key, automatic}, names...)...); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	cfg.Ollama.Enabled = ParseFlag(v.GetString("ollama.enabled"))
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.api_base_url", "/api")
	v.SetDefault("default_provider", "openrouter")

	v.SetDefault("openrouter.api_base", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.api_key", "")
	v.SetDefault("openrouter.referer", "localhost")
	v.SetDefault("openrouter.title", "Aurora Chat")

	v.SetDefault("ollama.api_base", "http://localhost:11434")
	v.SetDefault("ollama.enabled", "true")
	v.SetDefault("ollama.min_version", "0.1.14")

	v.SetDefault("catalog.openrouter.id", "openrouter")
	v.SetDefault("catalog.openrouter.default_model", "x-ai/grok-4-fast:free")
	v.SetDefault("catalog.gemini.id", "gemini")
	v.SetDefault("catalog.gemini.default_model", "google/gemini-pro-1.5")
	v.SetDefault("catalog.claude.id", "claude")
	v.SetDefault("catalog.claude.default_model", "anthropic/claude-3.5-sonnet")
	v.SetDefault("catalog.qwen.id", "qwen")
	v.SetDefault("catalog.qwen.default_model", "qwen/qwen2.5-7b-instruct")
	v.SetDefault("catalog.ollama.id", "ollama")
	v.SetDefault("catalog.ollama.default_model", "llama3")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "aurora-chat")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("cache.models_ttl", "0s")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("analytics.enabled", false)
	v.SetDefault("analytics.dsn", "file:aurora.db?cache=shared&mode=rwc&_journal_mode=WAL&_busy_timeout=5000")
}

// ParseFlag accepts 1, true and yes (any case) as true; everything else is false.
func ParseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
