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

// EnvPrefix is prepended to every environment variable, e.g. SCRY_LOG_LEVEL.
const EnvPrefix = "SCRY"

// configKeys lists every key so that environment variables are honoured
// even when no config file mentions them.
var configKeys = []string{
	"log.level",
	"storage.driver",
	"storage.data_dir",
	"storage.database_url",
	"study.show_only_due",
	"study.lessons",
}

// DefaultDataDir returns $HOME/.scry, or .scry when no home directory is known.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".scry"
	}
	return filepath.Join(home, ".scry")
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile behaves like Load but reads the given config file instead of
// searching for config.yaml. An empty path enables the search.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("storage.driver", DriverFile)
	v.SetDefault("storage.data_dir", DefaultDataDir())
	v.SetDefault("storage.database_url", "")
	v.SetDefault("study.show_only_due", false)
	v.SetDefault("study.lessons", []string{})

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultDataDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
