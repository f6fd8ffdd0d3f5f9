// Package config handles configuration loading from TOML files and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Cargo   CargoConfig   `toml:"cargo"`
	Parser  ParserConfig  `toml:"parser"`
	History HistoryConfig `toml:"history"`
	Output  OutputConfig  `toml:"output"`
}

// CargoConfig holds compiler invocation settings.
type CargoConfig struct {
	// Toolchain is the rustup toolchain used for the build. Type-size
	// diagnostics require a nightly compiler.
	Toolchain string `toml:"toolchain"`
	// Args are extra arguments passed to `cargo rustc`.
	Args []string `toml:"args"`
	// Touch is a source file whose mtime is bumped before the build to
	// force re-linking. Empty disables touching.
	Touch string `toml:"touch"`
}

// ToolchainOrDefault returns the configured toolchain or "nightly" if unset.
func (c CargoConfig) ToolchainOrDefault() string {
	if c.Toolchain == "" {
		return "nightly"
	}
	return c.Toolchain
}

// ParserConfig holds diagnostic parsing settings.
type ParserConfig struct {
	// Strict rejects diagnostic lines with misaligned indentation
	// instead of rounding them to the nearest nesting level.
	Strict bool `toml:"strict"`
}

// HistoryConfig holds run-history database settings.
type HistoryConfig struct {
	Path string `toml:"path"`
}

// PathOrDefault returns the configured database path or a file under the
// user config directory.
func (h HistoryConfig) PathOrDefault() string {
	if h.Path != "" {
		return h.Path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "typesizes.db"
	}
	return filepath.Join(dir, "typesizes", "history.db")
}

// OutputConfig holds rendering settings.
type OutputConfig struct {
	// Mode selects the default output: "text", "html" or "tui".
	Mode string `toml:"mode"`
	// HTMLPath is where the html mode writes its document.
	HTMLPath string `toml:"html_path"`
}

// ModeOrDefault returns the configured output mode or "text" if unset.
func (o OutputConfig) ModeOrDefault() string {
	if o.Mode == "" {
		return "text"
	}
	return o.Mode
}

// HTMLPathOrDefault returns the configured html output path or
// "type-sizes.html" if unset.
func (o OutputConfig) HTMLPathOrDefault() string {
	if o.HTMLPath == "" {
		return "type-sizes.html"
	}
	return o.HTMLPath
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "typesizes", "config.toml")
}

// Load reads configuration from a TOML file and applies environment
// variable overrides. A missing file is not an error: the tool works with
// zero configuration, so defaults are returned instead.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	switch c.Output.Mode {
	case "", "text", "html", "tui":
	default:
		errs = append(errs, fmt.Errorf("output.mode=%q must be text, html or tui", c.Output.Mode))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration.
func applyEnvOverrides(cfg *Config) {
	for _, setter := range []struct {
		env   string
		apply func(string)
	}{
		{"TYPESIZES_TOOLCHAIN", func(v string) { cfg.Cargo.Toolchain = v }},
		{"TYPESIZES_HISTORY_PATH", func(v string) { cfg.History.Path = v }},
	} {
		if v := os.Getenv(setter.env); v != "" {
			setter.apply(v)
		}
	}
}
