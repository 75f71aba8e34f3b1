// Package config loads and validates the elixir-sense configuration from
// config file, environment and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the full tool configuration.
type Config struct {
	// CodePaths are the directories searched for compiled .beam files,
	// in order. Each path's ebin/ subdirectory is searched too.
	CodePaths []string `mapstructure:"code_paths" validate:"min=1,dive,required"`

	// Listen is the address the docs HTTP server binds.
	Listen string `mapstructure:"listen" validate:"hostname_port"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`

	// LogPretty switches to a human-readable console log format.
	LogPretty bool `mapstructure:"log_pretty"`
}

// Load reads configuration from the given file, or from the default
// locations when path is empty: ./elixir-sense.yaml and
// ~/.config/elixir-sense/. Environment variables prefixed ELIXIR_SENSE_
// override file values. A missing config file is not an error; the defaults
// apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("code_paths", []string{"."})
	v.SetDefault("listen", "127.0.0.1:4355")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("elixir-sense")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "elixir-sense"))
		}
	}

	v.SetEnvPrefix("ELIXIR_SENSE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
