// Package config provides configuration loading and validation for the
// screener commands. Values come from an optional YAML file, SCREENER_*
// environment variables, and defaults, in ascending precedence of env over
// file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jonathan/cv-screener/internal/ingestion"
	"github.com/jonathan/cv-screener/internal/llm"
	"github.com/jonathan/cv-screener/internal/ranking"
	"github.com/jonathan/cv-screener/internal/screening"
	"github.com/jonathan/cv-screener/internal/session"
)

// Config is the root configuration for all screener commands.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Web       WebConfig       `mapstructure:"web"`
	AI        AIConfig        `mapstructure:"ai"`
	Screening ScreeningConfig `mapstructure:"screening"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig configures the screening API server.
type ServerConfig struct {
	Host           string          `mapstructure:"host"`
	Port           int             `mapstructure:"port" validate:"gte=1,lte=65535"`
	AllowedOrigins []string        `mapstructure:"allowed_origins" validate:"dive,url"`
	MaxUploadMB    int             `mapstructure:"max_upload_mb" validate:"gte=0"` // 0 disables the cap
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig bounds POST /api/screen per client IP.
type RateLimitConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	PerMinute int  `mapstructure:"per_minute" validate:"gte=0"`
	Burst     int  `mapstructure:"burst" validate:"gte=0"`
}

// WebConfig configures the upload UI server. The mock/remote choice is a
// per-session form switch, not configuration; only the remote target lives
// here.
type WebConfig struct {
	Host       string        `mapstructure:"host"`
	Port       int           `mapstructure:"port" validate:"gte=1,lte=65535"`
	BackendURL string        `mapstructure:"backend_url" validate:"omitempty,url"`
	MockDelay  time.Duration `mapstructure:"mock_delay"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// AIConfig configures the scoring model.
type AIConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Provider string `mapstructure:"provider" validate:"omitempty,oneof=openai gemini"`
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
}

// ScreeningConfig bounds the scoring pipeline.
type ScreeningConfig struct {
	MaxCVChars  int `mapstructure:"max_cv_chars" validate:"gte=0"`
	Concurrency int `mapstructure:"concurrency" validate:"gte=0"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Pretty     bool   `mapstructure:"pretty"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// defaultAllowedOrigins covers the local Vite dev servers the UI ships with.
var defaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:5174",
	"http://127.0.0.1:5173",
	"http://127.0.0.1:5174",
}

// Load reads configuration from the named file, falling back to
// screener.yaml in the working directory. A missing default file is fine;
// defaults and environment variables cover every setting.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("screener")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("SCREENER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = providerKeyFromEnv(cfg.AI.Provider)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.AI.Enabled && c.AI.APIKey == "" {
		return fmt.Errorf("config error: ai.enabled requires an API key (set ai.api_key or %s)", providerKeyEnvName(c.AI.Provider))
	}

	return nil
}

// ModelConfig builds the llm configuration for the selected provider,
// applying the model override to every tier when set.
func (c *Config) ModelConfig() *llm.Config {
	modelCfg := llm.DefaultConfigFor(llm.Provider(c.AI.Provider))
	if c.AI.Model != "" {
		for tier := range modelCfg.Models {
			modelCfg.Models[tier] = c.AI.Model
		}
	}
	return modelCfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.allowed_origins", defaultAllowedOrigins)
	v.SetDefault("server.max_upload_mb", 50)
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.per_minute", 30)
	v.SetDefault("server.rate_limit.burst", 10)

	v.SetDefault("web.host", "0.0.0.0")
	v.SetDefault("web.port", 8080)
	v.SetDefault("web.backend_url", ranking.DefaultBaseURL)
	v.SetDefault("web.mock_delay", ranking.DefaultMockDelay)
	v.SetDefault("web.session_ttl", session.DefaultTTL)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.provider", string(llm.ProviderOpenAI))
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.api_key", "")

	v.SetDefault("screening.max_cv_chars", ingestion.DefaultMaxCVChars)
	v.SetDefault("screening.concurrency", screening.DefaultConcurrency)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.pretty", false)
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 50)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 14)
	v.SetDefault("logging.compress", false)
}

func providerKeyFromEnv(provider string) string {
	return os.Getenv(providerKeyEnvName(provider))
}

func providerKeyEnvName(provider string) string {
	if provider == string(llm.ProviderGemini) {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}
