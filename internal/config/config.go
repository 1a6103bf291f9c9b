// Package config loads interpreter settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v3"
)

// DefaultPath is looked up in the working directory when no path is given.
const DefaultPath = ".lox.yaml"

// Config holds settings for the command-line host. Flags override them.
type Config struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
	Color       bool   `yaml:"color"`
	LogLevel    string `yaml:"log_level"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		Prompt:      "> ",
		HistoryFile: ".lox_history",
		Color:       true,
		LogLevel:    "warn",
	}
}

// Load reads the config at path. A missing file yields the defaults; an
// empty path means DefaultPath. Fields absent from the file keep their
// default values. LogLevel is left unchecked; callers validate it with
// Level after applying overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg := Default()

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, tracerr.Wrap(fmt.Errorf("config: open %s: %w", path, err))
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, tracerr.Wrap(fmt.Errorf("config: parse %s: %w", path, err))
	}
	return cfg, nil
}

// Level parses LogLevel into a slog level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelWarn, fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	return level, nil
}
