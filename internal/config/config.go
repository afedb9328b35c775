// internal/config/config.go
//
// Run configuration: built-in defaults, optionally overlaid by a YAML file,
// then by command-line flags. The resulting value is passed explicitly to the
// pipeline; nothing is read at package scope.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"gwasdb/internal/schema"
)

const (
	ReportText = "text"
	ReportJSON = "json"

	// LogFileName is created under Root unless log_file is set.
	LogFileName = "gwasdb.log"
)

// Config holds everything a run needs.
type Config struct {
	// Root is walked recursively for .gz summary-statistics files.
	Root string `yaml:"root" validate:"required"`
	// Target receives each .gz archive once it has been decompressed.
	Target string `yaml:"target" validate:"required"`
	// OutDir receives the _p.txt and _loc.txt tables.
	OutDir string `yaml:"out_dir" validate:"required"`
	// DefaultN fills the sample size when a file has no n column; 0 disables it.
	DefaultN int `yaml:"default_n" validate:"gte=0"`

	LogFile   string `yaml:"log_file"`
	LogLevel  string `yaml:"log_level" validate:"omitempty,oneof=trace debug info warn warning error"`
	LogFormat string `yaml:"log_format" validate:"oneof=console json"`

	// DB is an optional sqlite:<path> or postgres:// DSN the tables are loaded into.
	DB     string `yaml:"db"`
	Report string `yaml:"report" validate:"oneof=text json"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OutDir:    ".",
		DefaultN:  schema.DefaultSampleSize,
		LogLevel:  "debug",
		LogFormat: "console",
		Report:    ReportText,
	}
}

// Load overlays the YAML file at path onto c. Keys absent from the file keep
// their current value.
func (c *Config) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// LogPath is the log file location: LogFile, or LogFileName under Root.
func (c Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	if c.Root == "" {
		return ""
	}
	return filepath.Join(c.Root, LogFileName)
}

// Schemas returns the canonical schemas in processing order.
func (c Config) Schemas() []schema.Schema {
	return schema.Defaults(c.DefaultN)
}

// Validate checks field constraints and that Root is a directory.
func (c Config) Validate() error {
	if err := validate(c); err != nil {
		return err
	}
	st, err := os.Stat(c.Root)
	if err != nil {
		return fmt.Errorf("root: %w", err)
	}
	if !st.IsDir() {
		return errors.New("root: not a directory")
	}
	return nil
}
