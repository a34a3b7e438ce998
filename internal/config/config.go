// Package config loads the log configuration from config files, .env files
// and LOGMAGIC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/phobologic/logmagic/internal/render"
)

// EnvPrefix is the prefix of environment overrides, e.g.
// LOGMAGIC_DEFAULT_LOG_LEVEL.
const EnvPrefix = "LOGMAGIC"

// FileName is the config file base name searched in the working directory
// and the home directory; yaml, json and toml extensions are accepted.
const FileName = ".logmagic"

// Config is the read-only log configuration.
type Config struct {
	AlwaysLogFilename       bool   `mapstructure:"always_log_filename" yaml:"always_log_filename"`
	DefaultLogLevel         string `mapstructure:"default_log_level" yaml:"default_log_level"`
	MaxIdentifierLength     int    `mapstructure:"max_identifier_length" yaml:"max_identifier_length"`
	PrintTrailingSemicolons bool   `mapstructure:"print_trailing_semicolons" yaml:"print_trailing_semicolons"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{DefaultLogLevel: "log"}
}

// Error is a validation failure of a single field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

var levelRe = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

// Validate checks the configuration and returns a *Error for the first bad
// field.
func (c *Config) Validate() error {
	if !levelRe.MatchString(c.DefaultLogLevel) {
		return &Error{Field: "default_log_level", Message: fmt.Sprintf("%q is not a method name", c.DefaultLogLevel)}
	}
	if c.MaxIdentifierLength < 0 {
		return &Error{Field: "max_identifier_length", Message: "must not be negative"}
	}
	return nil
}

// Levels returns the severity cycle, including a custom default level.
func (c *Config) Levels() []string {
	return render.Levels(c.DefaultLogLevel)
}

// RenderOptions returns the renderer's view of the configuration.
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		AlwaysLogFilename:       c.AlwaysLogFilename,
		MaxIdentifierLength:     c.MaxIdentifierLength,
		PrintTrailingSemicolons: c.PrintTrailingSemicolons,
	}
}

// Load reads the configuration. When path is empty, .logmagic.{yaml,json,toml}
// is searched in the working directory and then the home directory; a missing
// file is not an error.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	cfg := Default()
	v.SetDefault("always_log_filename", cfg.AlwaysLogFilename)
	v.SetDefault("default_log_level", cfg.DefaultLogLevel)
	v.SetDefault("max_identifier_length", cfg.MaxIdentifierLength)
	v.SetDefault("print_trailing_semicolons", cfg.PrintTrailingSemicolons)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFiles loads .env files without overriding variables already set.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		file := filepath.Join(home, ".logmagic.env")
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}
