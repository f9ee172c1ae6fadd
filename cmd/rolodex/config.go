package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the environment configuration of the CLI. Flags override it.
type Config struct {
	Path    string `envconfig:"ROLODEX_PATH"`
	Adapter string `envconfig:"ROLODEX_ADAPTER" default:"fs"`
	Format  string `envconfig:"ROLODEX_FORMAT" default:".json"`
	// ROLODEX_LOG_LEVEL accepts debug, info, warn or error
	LogLevel string `envconfig:"ROLODEX_LOG_LEVEL" default:"info"`
	// ROLODEX_VERSIONING forces git commits on (true) or off (false); empty means auto-detect
	Versioning string `envconfig:"ROLODEX_VERSIONING"`
}

// LoadConfig reads an optional .env file, then the process environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}

// Level maps LogLevel to a slog level.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// VersioningMode reports whether versioning was set explicitly and to what.
func (c Config) VersioningMode() (enabled, explicit bool, err error) {
	if c.Versioning == "" || c.Versioning == "auto" {
		return false, false, nil
	}
	enabled, err = strconv.ParseBool(c.Versioning)
	if err != nil {
		return false, false, fmt.Errorf("invalid versioning mode %q: %w", c.Versioning, err)
	}
	return enabled, true, nil
}
