package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. DRILL_SCORING_BASE overrides scoring.base.
const EnvPrefix = "DRILL"

// Load configuration from environment variables and an optional drill.yaml
// found in the working directory or $HOME/.scry-drill.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return load("")
}

// LoadFile loads configuration from an explicit file, still honoring
// environment overrides.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config file path cannot be empty")
	}
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("drill")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".scry-drill"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.dsn", "")

	v.SetDefault("scoring.base", 0.15)
	v.SetDefault("scoring.decay_mult", 5.0)
	v.SetDefault("scoring.decay_offset_days", 5.0)
	v.SetDefault("scoring.never_seen_days", 36500.0)
	v.SetDefault("scoring.mastery_threshold", 0.99)

	v.SetDefault("sampling.max_uniform_prob", 0.05)
	v.SetDefault("sampling.mastery_exponent", 1.0)
	v.SetDefault("sampling.max_trials", 1000)
	v.SetDefault("sampling.recency_size", 5)

	v.SetDefault("planner.similar_mc_floor", 0.5)
	v.SetDefault("planner.mc_floor", 0.05)
	v.SetDefault("planner.distractor_mastery_gate", 0.7)

	v.SetDefault("evaluator.dist_allowed", 0.3)

	v.SetDefault("session.card_limit", 0)
	v.SetDefault("session.refresh_concurrency", 4)
}
