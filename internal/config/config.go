package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/feeaudit/internal/tariff"
)

// FileName is the conventional name of the config file.
const FileName = "audit.yaml"

// Formats lists the report formats the audit command can write.
var Formats = []string{"text", "csv", "json", "xlsx"}

// Config represents the top-level audit.yaml configuration.
type Config struct {
	Tariff  tariff.Schedule `yaml:"tariff"`
	Output  OutputConfig    `yaml:"output"`
	Server  ServerConfig    `yaml:"server"`
	Logging LoggingConfig   `yaml:"logging"`
}

// OutputConfig controls how reports are written.
type OutputConfig struct {
	Format     string   `yaml:"format"`
	Categories []string `yaml:"categories,omitempty"` // empty means all
	Parallel   bool     `yaml:"parallel"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	BodyLimitMB int    `yaml:"body_limit_mb"`
}

// LoggingConfig selects log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// Load reads an audit.yaml file from disk. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to Default otherwise.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config carrying the published tariff.
func Default() *Config {
	return &Config{
		Tariff: tariff.DefaultSchedule(),
		Output: OutputConfig{
			Format: "text",
		},
		Server: ServerConfig{
			Addr:        ":8080",
			BodyLimitMB: 32,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate rejects settings no command could run with.
func (c *Config) Validate() error {
	if !slices.Contains(Formats, c.Output.Format) {
		return fmt.Errorf("output.format %q: want one of %v", c.Output.Format, Formats)
	}
	t := c.Tariff.Transfer
	if t.LowerBound.GreaterThan(t.UpperBound) {
		return fmt.Errorf("tariff.transfer: lower_bound %s above upper_bound %s", t.LowerBound, t.UpperBound)
	}
	if c.Tariff.ATM.FreePerMonth < 0 {
		return fmt.Errorf("tariff.atm.free_per_month must not be negative")
	}
	if c.Server.BodyLimitMB <= 0 {
		return fmt.Errorf("server.body_limit_mb must be positive")
	}
	return nil
}
