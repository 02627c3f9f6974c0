package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/eval-cli/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Eval       EvalConfig       `yaml:"eval" mapstructure:"eval"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the results database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	HaikuModel  string  `yaml:"haiku_model" mapstructure:"haiku_model"`
	SonnetModel string  `yaml:"sonnet_model" mapstructure:"sonnet_model"`
	MaxTokens   int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// PerplexityConfig holds Perplexity API settings.
type PerplexityConfig struct {
	Key        string  `yaml:"key" mapstructure:"key"`
	BaseURL    string  `yaml:"base_url" mapstructure:"base_url"`
	Model      string  `yaml:"model" mapstructure:"model"`
	RatePerSec float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// BackendSpec declares one evaluation backend in config.
type BackendSpec struct {
	Name     string         `yaml:"name" mapstructure:"name"`
	Provider string         `yaml:"provider" mapstructure:"provider"`
	Params   map[string]any `yaml:"params" mapstructure:"params"`
}

// EvalConfig configures evaluation runs.
type EvalConfig struct {
	BaselineDir        string        `yaml:"baseline_dir" mapstructure:"baseline_dir"`
	MaxIterations      int           `yaml:"max_iterations" mapstructure:"max_iterations"`
	Concurrency        int           `yaml:"concurrency" mapstructure:"concurrency"`
	BackendTimeoutSecs int           `yaml:"backend_timeout_secs" mapstructure:"backend_timeout_secs"`
	Backends           []BackendSpec `yaml:"backends" mapstructure:"backends"`
}

// ServerConfig configures the results API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// BackendConfigs converts the configured backend specs to runtime
// backend configurations. When none are configured, a default trio of
// Anthropic tiers plus Perplexity is returned so `eval run` works out of
// the box.
func (c *Config) BackendConfigs() []model.BackendConfig {
	if len(c.Eval.Backends) > 0 {
		out := make([]model.BackendConfig, len(c.Eval.Backends))
		for i, b := range c.Eval.Backends {
			out[i] = model.BackendConfig{
				Name:             b.Name,
				ProviderID:       b.Provider,
				ConnectionParams: b.Params,
			}
		}
		return out
	}

	return []model.BackendConfig{
		{Name: "claude-haiku", ProviderID: "anthropic", ConnectionParams: map[string]any{"model": c.Anthropic.HaikuModel}},
		{Name: "claude-sonnet", ProviderID: "anthropic", ConnectionParams: map[string]any{"model": c.Anthropic.SonnetModel}},
		{Name: "sonar", ProviderID: "perplexity", ConnectionParams: map[string]any{"model": c.Perplexity.Model}},
	}
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("EVAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "eval.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("eval.baseline_dir", "baselines")
	v.SetDefault("eval.max_iterations", 10)
	v.SetDefault("eval.concurrency", 4)
	v.SetDefault("eval.backend_timeout_secs", 300)
	v.SetDefault("anthropic.haiku_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.sonnet_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("anthropic.rate_per_sec", 2.0)
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	v.SetDefault("perplexity.rate_per_sec", 1.0)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
