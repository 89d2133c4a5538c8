// Package config loads runtime settings from defaults, an optional YAML
// file and SCHEDULER_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/aadipatodia/Scheduler/internal/llm"
	"github.com/aadipatodia/Scheduler/internal/scheduler"
)

const envPrefix = "SCHEDULER"

type Config struct {
	DBPath              string        `mapstructure:"db_path"`
	LogLevel            string        `mapstructure:"log_level"`
	LogFormat           string        `mapstructure:"log_format"`
	ServerAddr          string        `mapstructure:"server_addr"`
	DefaultDaysPerPhase int           `mapstructure:"default_days_per_phase"`
	LLM                 llm.LLMConfig `mapstructure:"llm"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() Config {
	return Config{
		DBPath:              filepath.Join(HomeDir(), "scheduler.db"),
		LogLevel:            "info",
		LogFormat:           "console",
		ServerAddr:          "127.0.0.1:8000",
		DefaultDaysPerPhase: scheduler.DefaultDaysPerPhase,
		LLM:                 llm.DefaultConfig(),
	}
}

// HomeDir is the directory holding the default database and config file.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".scheduler"
	}
	return filepath.Join(home, ".scheduler")
}

// DefaultPath returns the config file read when no path is given.
func DefaultPath() string {
	return filepath.Join(HomeDir(), "config.yaml")
}

// Load reads configuration. An explicit path must exist; the default path
// is optional.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.api_key", envPrefix+"_LLM_API_KEY", "GOOGLE_API_KEY"); err != nil {
		return cfg, fmt.Errorf("binding api key env: %w", err)
	}

	switch {
	case path != "":
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	default:
		if _, err := os.Stat(DefaultPath()); err == nil {
			v.SetConfigFile(DefaultPath())
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return cfg, fmt.Errorf("reading config %s: %w", DefaultPath(), err)
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.LLM.Tasks == nil {
		cfg.LLM.Tasks = llm.DefaultConfig().Tasks
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("db_path", cfg.DBPath)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_format", cfg.LogFormat)
	v.SetDefault("server_addr", cfg.ServerAddr)
	v.SetDefault("default_days_per_phase", cfg.DefaultDaysPerPhase)
	v.SetDefault("llm.enabled", cfg.LLM.Enabled)
	v.SetDefault("llm.log_calls", cfg.LLM.LogCalls)
	v.SetDefault("llm.provider", string(cfg.LLM.Provider))
	v.SetDefault("llm.endpoint", cfg.LLM.Endpoint)
	v.SetDefault("llm.model", cfg.LLM.Model)
	v.SetDefault("llm.api_key", cfg.LLM.APIKey)
	v.SetDefault("llm.timeout_ms", cfg.LLM.TimeoutMs)
	v.SetDefault("llm.max_retries", cfg.LLM.MaxRetries)
}

// Validate rejects settings the rest of the program cannot run with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	if c.DefaultDaysPerPhase <= 0 {
		errs = append(errs, fmt.Errorf("default_days_per_phase must be positive, got %d", c.DefaultDaysPerPhase))
	}
	switch c.LLM.Provider {
	case llm.ProviderOllama, llm.ProviderGemini:
	default:
		errs = append(errs, fmt.Errorf("llm.provider must be %q or %q, got %q", llm.ProviderOllama, llm.ProviderGemini, c.LLM.Provider))
	}
	if c.LLM.TimeoutMs <= 0 {
		errs = append(errs, fmt.Errorf("llm.timeout_ms must be positive, got %d", c.LLM.TimeoutMs))
	}
	if c.LLM.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("llm.max_retries must not be negative, got %d", c.LLM.MaxRetries))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
