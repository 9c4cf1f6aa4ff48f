// Package config provides configuration file handling for keepfmt.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/thirteen37/keepfmt/internal/format"
	"github.com/thirteen37/keepfmt/internal/format/ini"
	"github.com/thirteen37/keepfmt/internal/format/jsonc"
	"github.com/thirteen37/keepfmt/internal/format/registry"
	"github.com/thirteen37/keepfmt/internal/path"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = ".keepfmt.json"

// Environment variables overriding the file settings.
const (
	EnvIndent              = "KEEPFMT_INDENT"
	EnvPreserveIndentation = "KEEPFMT_PRESERVE_INDENTATION"
	EnvPreserveWhitespace  = "KEEPFMT_PRESERVE_WHITESPACE"
	EnvSampleSize          = "KEEPFMT_SAMPLE_SIZE"
)

// Config represents the .keepfmt.json configuration file.
// Unset fields fall back to format.DefaultOptions.
type Config struct {
	Indent              *int  `json:"indent,omitempty"`
	PreserveIndentation *bool `json:"preserveIndentation,omitempty"`
	PreserveWhitespace  *bool `json:"preserveWhitespace,omitempty"`
	SampleSize          *int  `json:"sampleSize,omitempty"`

	JSONC jsonc.Options `json:"jsonc"`
	INI   ini.Options   `json:"ini"`

	// Keep is a list of paths whose values merge keeps from the current
	// document. Each path is a JSON array of string keys.
	Keep [][]string `json:"keep,omitempty"`
}

// Default returns a configuration with every default spelled out.
func Default() *Config {
	d := format.DefaultOptions()
	return &Config{
		PreserveIndentation: &d.PreserveIndentation,
		PreserveWhitespace:  &d.PreserveWhitespace,
		SampleSize:          &d.SampleSize,
	}
}

// Load reads a Config from a file.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	return &cfg, nil
}

// LoadOptional reads filename, returning an empty Config when it does not exist.
func LoadOptional(filename string) (*Config, error) {
	cfg, err := Load(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// Save writes the Config to a file.
func (c *Config) Save(filename string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored; variables already set win.
func LoadDotEnv(filenames ...string) error {
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from KEEPFMT_* variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(EnvIndent)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvIndent, v, err)
		}
		c.Indent = &n
	}
	if v := strings.TrimSpace(getenv(EnvSampleSize)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvSampleSize, v, err)
		}
		c.SampleSize = &n
	}
	if v := strings.TrimSpace(getenv(EnvPreserveIndentation)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPreserveIndentation, v, err)
		}
		c.PreserveIndentation = &b
	}
	if v := strings.TrimSpace(getenv(EnvPreserveWhitespace)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPreserveWhitespace, v, err)
		}
		c.PreserveWhitespace = &b
	}
	return nil
}

// Validate checks value ranges and flag combinations.
func (c *Config) Validate() error {
	if c.Indent != nil && *c.Indent < 0 {
		return fmt.Errorf("indent must be >= 0, got %d", *c.Indent)
	}
	if c.SampleSize != nil && *c.SampleSize < 0 {
		return fmt.Errorf("sampleSize must be >= 0, got %d", *c.SampleSize)
	}
	if err := c.INI.Validate(); err != nil {
		return err
	}
	for _, p := range c.Keep {
		if len(p) == 0 {
			return fmt.Errorf("keep paths must not be empty")
		}
	}
	return nil
}

// FormatOptions returns the formatting options described by the Config.
func (c *Config) FormatOptions() *format.Options {
	opts := format.DefaultOptions()
	if c.Indent != nil {
		opts.Indent = format.IndentWidth(*c.Indent)
	}
	if c.PreserveIndentation != nil {
		opts.PreserveIndentation = *c.PreserveIndentation
	}
	if c.PreserveWhitespace != nil {
		opts.PreserveWhitespace = *c.PreserveWhitespace
	}
	if c.SampleSize != nil {
		opts.SampleSize = *c.SampleSize
	}
	return &opts
}

// Settings returns the per-format handler settings.
func (c *Config) Settings() registry.Settings {
	return registry.Settings{
		JSONC: c.JSONC,
		INI:   c.INI,
	}
}

// GetPaths returns the kept paths as path.Path objects.
func (c *Config) GetPaths() []path.Path {
	result := make([]path.Path, len(c.Keep))
	for i, p := range c.Keep {
		result[i] = path.NewArrayPath(p)
	}
	return result
}

// AddPath adds a new kept path.
// Returns true if the path was added, false if it already exists.
func (c *Config) AddPath(p []string) bool {
	if slices.ContainsFunc(c.Keep, func(existing []string) bool { return slices.Equal(existing, p) }) {
		return false
	}
	c.Keep = append(c.Keep, p)
	return true
}

// RemovePath removes a kept path.
// Returns true if the path was removed, false if it wasn't found.
func (c *Config) RemovePath(p []string) bool {
	i := slices.IndexFunc(c.Keep, func(existing []string) bool { return slices.Equal(existing, p) })
	if i < 0 {
		return false
	}
	c.Keep = slices.Delete(c.Keep, i, i+1)
	return true
}
