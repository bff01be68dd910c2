// Package config provides configuration management for fmcheck using Viper.
package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/thoreinstein/fmcheck/internal/errors"
	"github.com/thoreinstein/fmcheck/internal/paths"
)

// EnvPrefix prefixes every environment variable read by fmcheck.
const EnvPrefix = "FMCHECK"

// ActionInputEnv is the variable GitHub Actions sets for the
// content-directory input of the action.
const ActionInputEnv = "INPUT_CONTENT_DIRECTORY"

// Defaults.
const (
	DefaultContentDirectory = "content"
	DefaultFormat           = "text"
	DefaultMode             = "enforce"
)

// Config represents the top-level configuration structure.
type Config struct {
	Version          int    `mapstructure:"version" yaml:"version"`
	ContentDirectory string `mapstructure:"content_directory" yaml:"content_directory"`
	Format           string `mapstructure:"format" yaml:"format"`
	Mode             string `mapstructure:"mode" yaml:"mode"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()
	// The first variable set wins.
	_ = viper.BindEnv("content_directory", EnvPrefix+"_CONTENT_DIRECTORY", ActionInputEnv)

	viper.SetDefault("version", 1)
	viper.SetDefault("content_directory", DefaultContentDirectory)
	viper.SetDefault("format", DefaultFormat)
	viper.SetDefault("mode", DefaultMode)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches the default locations and falls back to
// defaults when no file exists.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// Implicit search found nothing; defaults apply.
		case errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist):
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	return &cfg, nil
}

// Used returns the config file Viper read, or "" when defaults apply.
func Used() string {
	return viper.ConfigFileUsed()
}
