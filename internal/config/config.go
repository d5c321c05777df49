// Package config loads optional defaults for the twozhakes CLI from a
// TOML file.
//
// Example:
//
//	[defaults]
//	zone   = "America/New_York"
//	output = "json"
//
//	[journal]
//	path   = "$HOME/.local/state/twozhakes/journal.db"
//	record = true
//
//	[recipes]
//	dir = "./recipes"
//
//	[metrics]
//	out = "./twozhakes.prom"
//
//	[calendar.formats]
//	sameDay = "[Today at] HH:mm"
//
// Command-line flags always take precedence over file values.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// EnvVar names the environment variable consulted when no --config flag
// is given.
const EnvVar = "TWOZHAKES_CONFIG"

// Output formats accepted by the CLI.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds the complete CLI configuration.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Journal  JournalConfig  `toml:"journal"`
	Recipes  RecipesConfig  `toml:"recipes"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Calendar CalendarConfig `toml:"calendar"`

	// Path is the file the configuration was read from; empty for defaults.
	Path string `toml:"-"`
}

// DefaultsConfig holds values used when a flag is not given.
type DefaultsConfig struct {
	// Zone is the zone identifier used for parsing and operating.
	Zone string `toml:"zone"`
	// Output is "text" or "json".
	Output string `toml:"output"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// JournalConfig configures the SQLite evaluation journal.
type JournalConfig struct {
	Path string `toml:"path"`
	// Record appends every operate/extract evaluation when true.
	Record bool `toml:"record"`
}

// RecipesConfig locates the CUE recipe directory.
type RecipesConfig struct {
	Dir string `toml:"dir"`
}

// MetricsConfig configures the Prometheus text-file export.
type MetricsConfig struct {
	Out string `toml:"out"`
}

// CalendarConfig overrides calendar-text formats by key
// (sameDay, nextDay, nextWeek, lastDay, lastWeek, sameElse).
type CalendarConfig struct {
	Formats map[string]string `toml:"formats"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a TOML file. Unknown keys are an error.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.Path = path
	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Resolve returns the configuration named by path, or by the EnvVar
// environment variable when path is empty. With neither set it returns
// Default().
func Resolve(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	var errs []error
	switch c.Defaults.Output {
	case OutputText, OutputJSON:
	default:
		errs = append(errs, fmt.Errorf("defaults.output: must be %q or %q, got %q", OutputText, OutputJSON, c.Defaults.Output))
	}
	switch c.Defaults.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("defaults.log_level: unknown level %q", c.Defaults.LogLevel))
	}
	return errors.Join(errs...)
}

func (c *Config) applyDefaults() {
	if c.Defaults.Output == "" {
		c.Defaults.Output = OutputText
	}
	if c.Defaults.LogLevel == "" {
		c.Defaults.LogLevel = "warn"
	}
	if c.Journal.Path == "" {
		c.Journal.Path = "twozhakes.db"
	}
	if c.Recipes.Dir == "" {
		c.Recipes.Dir = "recipes"
	}
}

func (c *Config) expandEnvVars() {
	c.Journal.Path = os.ExpandEnv(c.Journal.Path)
	c.Recipes.Dir = os.ExpandEnv(c.Recipes.Dir)
	c.Metrics.Out = os.ExpandEnv(c.Metrics.Out)
}
