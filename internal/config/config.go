// Package config loads syllogiz settings from an optional config file,
// a .env file and SYLLOGIZ_* environment variables, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/syllogiz/internal/llm"
	"github.com/abhisek/syllogiz/internal/session"
	"github.com/abhisek/syllogiz/internal/store"
)

// EnvPrefix prefixes every environment override: db.driver is read from
// SYLLOGIZ_DB_DRIVER.
const EnvPrefix = "SYLLOGIZ"

// Config is the resolved application configuration.
type Config struct {
	DB    DBConfig
	Log   LogConfig
	Drill session.Config
	Seed  SeedConfig
	LLM   llm.Config
}

type DBConfig struct {
	Driver string
	DSN    string
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

type SeedConfig struct {
	BatchSize int
}

// NewViper returns a viper instance with defaults, env binding and, when
// found, the config file. An explicit file must exist; the default
// syllogiz.yaml lookup is optional.
func NewViper(file string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
		return v, nil
	}

	v.SetConfigName("syllogiz")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "syllogiz"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	drill := session.DefaultConfig()
	ai := llm.DefaultConfig()

	v.SetDefault("db.driver", store.DriverSQLite)
	v.SetDefault("db.dsn", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")

	v.SetDefault("drill.micro_count", drill.MicroCount)
	v.SetDefault("drill.micro_sample", drill.MicroSample)
	v.SetDefault("drill.macro_sample", drill.MacroSample)
	v.SetDefault("drill.micro_timeout", drill.MicroTimeout)
	v.SetDefault("drill.macro_timeout", drill.MacroTimeout)
	v.SetDefault("drill.fetch_attempts", drill.FetchAttempts)
	v.SetDefault("drill.retry_wait", drill.RetryWait)
	v.SetDefault("drill.tick_interval", drill.TickInterval)

	v.SetDefault("seed.batch_size", store.DefaultBatchSize)

	v.SetDefault("llm.provider", ai.Provider)
	v.SetDefault("llm.timeout", ai.Timeout)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", ai.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", ai.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", ai.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", ai.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", ai.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", ai.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", ai.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", ai.Retry.Multiplier)
}

// Load resolves a Config from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		DB: DBConfig{
			Driver: v.GetString("db.driver"),
			DSN:    v.GetString("db.dsn"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			File:   v.GetString("log.file"),
		},
		Drill: session.Config{
			MicroCount:    v.GetInt("drill.micro_count"),
			MicroSample:   v.GetInt("drill.micro_sample"),
			MacroSample:   v.GetInt("drill.macro_sample"),
			MicroTimeout:  v.GetDuration("drill.micro_timeout"),
			MacroTimeout:  v.GetDuration("drill.macro_timeout"),
			FetchAttempts: v.GetInt("drill.fetch_attempts"),
			RetryWait:     v.GetDuration("drill.retry_wait"),
			TickInterval:  v.GetDuration("drill.tick_interval"),
		},
		Seed: SeedConfig{BatchSize: v.GetInt("seed.batch_size")},
		LLM: llm.Config{
			Provider: v.GetString("llm.provider"),
			Timeout:  v.GetDuration("llm.timeout"),
			Anthropic: llm.AnthropicConfig{
				APIKey: v.GetString("llm.anthropic.api_key"),
				Model:  v.GetString("llm.anthropic.model"),
			},
			OpenAI: llm.OpenAIConfig{
				APIKey:  v.GetString("llm.openai.api_key"),
				Model:   v.GetString("llm.openai.model"),
				BaseURL: v.GetString("llm.openai.base_url"),
			},
			Gemini: llm.GeminiConfig{
				APIKey: v.GetString("llm.gemini.api_key"),
				Model:  v.GetString("llm.gemini.model"),
			},
			OpenRouter: llm.OpenRouterConfig{
				APIKey:  v.GetString("llm.openrouter.api_key"),
				Model:   v.GetString("llm.openrouter.model"),
				BaseURL: v.GetString("llm.openrouter.base_url"),
			},
			Retry: llm.RetryConfig{
				MaxAttempts: v.GetInt("llm.retry.max_attempts"),
				InitialWait: v.GetDuration("llm.retry.initial_wait"),
				MaxWait:     v.GetDuration("llm.retry.max_wait"),
				Multiplier:  v.GetFloat64("llm.retry.multiplier"),
			},
		},
	}

	if cfg.DB.Driver == store.DriverSQLite && cfg.DB.DSN == "" {
		path, err := store.DefaultDBPath()
		if err != nil {
			return Config{}, fmt.Errorf("resolve database path: %w", err)
		}
		cfg.DB.DSN = path
	}

	return cfg, cfg.Validate()
}

// Validate rejects settings the rest of the program cannot work with.
func (c Config) Validate() error {
	switch c.DB.Driver {
	case store.DriverSQLite, store.DriverPostgres:
	default:
		return fmt.Errorf("db.driver: unsupported driver %q", c.DB.Driver)
	}
	if c.DB.Driver == store.DriverPostgres && c.DB.DSN == "" {
		return errors.New("db.dsn is required for postgres")
	}
	if c.Drill.MicroCount < 1 {
		return fmt.Errorf("drill.micro_count must be positive, got %d", c.Drill.MicroCount)
	}
	if c.Drill.MicroSample < c.Drill.MicroCount {
		return fmt.Errorf("drill.micro_sample (%d) must be at least drill.micro_count (%d)",
			c.Drill.MicroSample, c.Drill.MicroCount)
	}
	for name, d := range map[string]time.Duration{
		"drill.micro_timeout": c.Drill.MicroTimeout,
		"drill.macro_timeout": c.Drill.MacroTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if c.Seed.BatchSize < 1 {
		return fmt.Errorf("seed.batch_size must be positive, got %d", c.Seed.BatchSize)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	return nil
}

// LoadEnvFile loads KEY=VALUE pairs from the given .env files into the
// process environment without overriding variables that are already set.
// Missing files are skipped.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}
