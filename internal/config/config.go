// Package config loads studyhelper settings from the environment. A .env file
// in the working directory is read first when present; variables already set
// in the process environment take precedence over it.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/geegl/studyhelper/internal/logging"
	"github.com/geegl/studyhelper/internal/utils"
)

// Provider names accepted in LLM_PROVIDER.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Log formats accepted in LOG_FORMAT.
const (
	LogFormatText    = string(logging.FormatText)
	LogFormatJSON    = string(logging.FormatJSON)
	LogFormatCompact = string(logging.FormatCompact)
)

// Config is the typed process configuration.
type Config struct {
	Port string
	// CORSOrigins is a comma-separated list of browser origins.
	CORSOrigins  string
	MaxBodyBytes int64

	LLMProvider    string
	LLMAPIKey      string
	LLMBaseURL     string
	LLMModel       string
	LLMTemperature float32
	LLMTimeout     time.Duration
	LLMMaxRetries  int
	// Prices in USD per million tokens; zero disables the cost estimate.
	LLMInputPrice  float64
	LLMOutputPrice float64

	RepairEnabled     bool
	RepairModel       string
	RepairTemperature float32

	DatabaseURL  string
	HistoryTable string

	HTMLToMarkdown bool

	LogLevel  slog.Level
	LogFormat string
}

// Default returns the configuration used for unset variables.
func Default() Config {
	return Config{
		Port:              "8080",
		MaxBodyBytes:      1 << 20,
		LLMProvider:       ProviderOpenAI,
		LLMTemperature:    0.7,
		LLMTimeout:        60 * time.Second,
		LLMMaxRetries:     2,
		RepairEnabled:     true,
		RepairTemperature: 0.1,
		HistoryTable:      "studyhelper_history",
		LogLevel:          slog.LevelInfo,
		LogFormat:         LogFormatText,
	}
}

// Load reads an optional .env file and then the environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load env file: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup. All problems are reported together.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("PORT", &cfg.Port)
	str("CORS_ORIGINS", &cfg.CORSOrigins)
	str("LLM_PROVIDER", &cfg.LLMProvider)
	str("LLM_API_KEY", &cfg.LLMAPIKey)
	str("LLM_BASE_URL", &cfg.LLMBaseURL)
	str("LLM_MODEL", &cfg.LLMModel)
	str("REPAIR_MODEL", &cfg.RepairModel)
	str("DATABASE_URL", &cfg.DatabaseURL)
	str("HISTORY_TABLE", &cfg.HistoryTable)
	str("LOG_FORMAT", &cfg.LogFormat)

	cfg.LLMProvider = strings.ToLower(cfg.LLMProvider)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if cfg.LLMAPIKey == "" {
		// Name used by the first deployment.
		str("SILICONFLOW_API_KEY", &cfg.LLMAPIKey)
	}

	errs = append(errs,
		parseInto(lookup, "MAX_BODY_BYTES", &cfg.MaxBodyBytes),
		parseInto(lookup, "LLM_TEMPERATURE", &cfg.LLMTemperature),
		parseInto(lookup, "LLM_TIMEOUT", &cfg.LLMTimeout),
		parseInto(lookup, "LLM_MAX_RETRIES", &cfg.LLMMaxRetries),
		parseInto(lookup, "LLM_INPUT_PRICE", &cfg.LLMInputPrice),
		parseInto(lookup, "LLM_OUTPUT_PRICE", &cfg.LLMOutputPrice),
		parseInto(lookup, "REPAIR_ENABLED", &cfg.RepairEnabled),
		parseInto(lookup, "REPAIR_TEMPERATURE", &cfg.RepairTemperature),
		parseInto(lookup, "HTML_TO_MARKDOWN", &cfg.HTMLToMarkdown),
	)

	if v, ok := lookup("LOG_LEVEL"); ok && strings.TrimSpace(v) != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
			errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
		}
	}

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks required values and ranges.
func (c Config) Validate() error {
	var errs []error

	switch c.LLMProvider {
	case ProviderOpenAI, ProviderGemini:
	default:
		errs = append(errs, fmt.Errorf("LLM_PROVIDER: unknown provider %q", c.LLMProvider))
	}
	if c.LLMAPIKey == "" {
		errs = append(errs, errors.New("LLM_API_KEY: required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT: required"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES: must be positive"))
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		errs = append(errs, fmt.Errorf("LLM_TEMPERATURE: %v out of range [0, 2]", c.LLMTemperature))
	}
	if c.RepairTemperature < 0 || c.RepairTemperature > 2 {
		errs = append(errs, fmt.Errorf("REPAIR_TEMPERATURE: %v out of range [0, 2]", c.RepairTemperature))
	}
	if c.LLMInputPrice < 0 || c.LLMOutputPrice < 0 {
		errs = append(errs, errors.New("LLM_INPUT_PRICE, LLM_OUTPUT_PRICE: must not be negative"))
	}
	if c.LLMTimeout < 0 {
		errs = append(errs, errors.New("LLM_TIMEOUT: must not be negative"))
	}
	if _, ok := logging.ParseFormat(c.LogFormat); !ok {
		errs = append(errs, fmt.Errorf("LOG_FORMAT: unknown format %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// Addr returns the listen address for Port.
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// Origins splits CORSOrigins, dropping empty items.
func (c Config) Origins() []string {
	var out []string
	for _, origin := range strings.Split(c.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

// NewLogger returns a logger writing to stderr in LogFormat at LogLevel.
func (c Config) NewLogger() *slog.Logger {
	format, _ := logging.ParseFormat(c.LogFormat)
	return logging.New(os.Stderr, format, c.LogLevel)
}

func parseInto[T any](lookup func(string) (string, bool), key string, dst *T) error {
	v, ok := lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	parsed, err := utils.ParseStringAs[T](v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = parsed
	return nil
}
