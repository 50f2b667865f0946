// Package config handles configuration loading from files and environment.
package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/runar-rkmedia/termkit/strutil"
	"github.com/runar-rkmedia/termkit/term"
)

// Config holds all termkit configuration settings.
// Config is merged from multiple sources: user config, parent directories,
// git root, current directory, environment variables, and command-line flags.
type Config struct {
	// Global settings
	Verbose  bool   `koanf:"verbose" json:"verbose" yaml:"verbose" toml:"verbose"`
	Quiet    bool   `koanf:"quiet" json:"quiet" yaml:"quiet" toml:"quiet"`
	Color    string `koanf:"color" json:"color" yaml:"color" toml:"color"`                 // auto, always, never
	TermType string `koanf:"term_type" json:"term_type" yaml:"term_type" toml:"term_type"` // empty = detect
	Encoding string `koanf:"encoding" json:"encoding" yaml:"encoding" toml:"encoding"`     // empty = detect

	Input   InputConfig   `koanf:"input" json:"input" yaml:"input" toml:"input"`
	History HistoryConfig `koanf:"history" json:"history" yaml:"history" toml:"history"`
	Watch   WatchConfig   `koanf:"watch" json:"watch" yaml:"watch" toml:"watch"`
}

// InputConfig holds keystroke reading settings.
type InputConfig struct {
	RepeatThreshold Duration `koanf:"repeat_threshold" json:"repeat_threshold" yaml:"repeat_threshold" toml:"repeat_threshold"` // <= 0 disables
	KeepClean       bool     `koanf:"keep_clean" json:"keep_clean" yaml:"keep_clean" toml:"keep_clean"`
}

// HistoryConfig holds keystroke history settings.
type HistoryConfig struct {
	Enabled bool   `koanf:"enabled" json:"enabled" yaml:"enabled" toml:"enabled"`
	Path    string `koanf:"path" json:"path" yaml:"path" toml:"path"` // empty = <root>/.termkit/history.db
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	DebounceMs int `koanf:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms" toml:"debounce_ms"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Color: "auto",

		Input: InputConfig{
			RepeatThreshold: Duration(term.DefaultRepeatThreshold),
			KeepClean:       true,
		},

		History: HistoryConfig{
			Enabled: false,
		},

		Watch: WatchConfig{
			DebounceMs: 100,
		},
	}
}

// Validate checks values that cannot be expressed by the type system.
// Errors name the offending key.
func (c *Config) Validate() error {
	if _, err := term.ParseColorMode(c.Color); err != nil {
		return fmt.Errorf("color: %w", err)
	}
	if _, err := term.ParseType(c.TermType); err != nil {
		return fmt.Errorf("term_type: %w", err)
	}
	if c.Encoding != "" {
		if _, err := strutil.LookupEncoding(c.Encoding); err != nil {
			return fmt.Errorf("encoding: %w", err)
		}
	}
	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms: must not be negative, got %d", c.Watch.DebounceMs)
	}
	return nil
}

// HistoryPath returns the history database path, resolving the default
// relative to root.
func (c *Config) HistoryPath(root string) string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return filepath.Join(root, ConfigDirName, "history.db")
}

// Duration is a time.Duration written as "300ms". Plain numbers are read as
// seconds.
type Duration time.Duration

func (d Duration) String() string { return time.Duration(d).String() }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if v, err := time.ParseDuration(s); err == nil {
		*d = Duration(v)
		return nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	*d = Duration(secs * float64(time.Second))
	return nil
}
