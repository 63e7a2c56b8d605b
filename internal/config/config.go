// Package config loads, validates and persists govlist configuration.
//
// Configuration is resolved in layers: built-in defaults, the user file at
// ~/.govlist/config.yaml (directory overridable with GOVLIST_HOME), an optional
// overlay file given with --config, and finally GOVLIST_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rshade/govlist/internal/window"
	"github.com/rshade/govlist/pkg/version"
)

// Defaults.
const (
	DefaultItemHeight      = 3
	DefaultContainerHeight = 20
	DefaultWheelStep       = 3
	DefaultThrottleMS      = 100
	DefaultOutputFormat    = "table"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"

	configFileName = "config.yaml"
	configFilePerm = 0o600
	configDirPerm  = 0o700
)

// Environment variables that override file values.
const (
	EnvHome      = "GOVLIST_HOME"
	EnvLogLevel  = "GOVLIST_LOG_LEVEL"
	EnvLogFormat = "GOVLIST_LOG_FORMAT"
	EnvOverscan  = "GOVLIST_OVERSCAN"
)

// Validation errors.
var (
	ErrInvalidWheelStep      = errors.New("list.wheel_step must be >= 1")
	ErrInvalidThrottle       = errors.New("list.throttle_ms must be >= 0")
	ErrInvalidOutputFormat   = errors.New("output.default_format must be one of table, json, yaml")
	ErrInvalidLogFormat      = errors.New("logging.format must be json or console")
	ErrInvalidLogLevel       = errors.New("logging.level is not a valid level")
	ErrVersionNotSatisfied   = errors.New("govlist version does not satisfy requires_version")
	errNoConfigPathAvailable = errors.New("no config path available")
)

// validOutputFormats lists the formats accepted by output.default_format.
var validOutputFormats = []string{"table", "json", "yaml"} //nolint:gochecknoglobals // Lookup table.

// validLogLevels lists the accepted logging.level values.
var validLogLevels = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"} //nolint:gochecknoglobals // Lookup table.

// Config is the complete govlist configuration.
type Config struct {
	List            ListConfig    `json:"list"                       yaml:"list"`
	Output          OutputConfig  `json:"output"                     yaml:"output"`
	Logging         LoggingConfig `json:"logging"                    yaml:"logging"`
	RequiresVersion string        `json:"requires_version,omitempty" yaml:"requires_version,omitempty"`

	configPath string
}

// ListConfig controls the windowed list.
type ListConfig struct {
	ItemHeight      int `json:"item_height"      yaml:"item_height"`
	ContainerHeight int `json:"container_height" yaml:"container_height"`
	Overscan        int `json:"overscan"         yaml:"overscan"`
	WheelStep       int `json:"wheel_step"       yaml:"wheel_step"`
	ThrottleMS      int `json:"throttle_ms"      yaml:"throttle_ms"`
}

// OutputConfig controls non-interactive output.
type OutputConfig struct {
	DefaultFormat string `json:"default_format" yaml:"default_format"`
}

// LoggingConfig controls logging.
type LoggingConfig struct {
	Level  string `json:"level"          yaml:"level"`
	Format string `json:"format"         yaml:"format"`
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
}

// Defaults returns the built-in configuration, without reading any file.
func Defaults() *Config {
	cfg := &Config{
		List: ListConfig{
			ItemHeight:      DefaultItemHeight,
			ContainerHeight: DefaultContainerHeight,
			Overscan:        window.DefaultOverscan,
			WheelStep:       DefaultWheelStep,
			ThrottleMS:      DefaultThrottleMS,
		},
		Output:  OutputConfig{DefaultFormat: DefaultOutputFormat},
		Logging: LoggingConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}

	if dir, err := GetConfigDir(); err == nil {
		cfg.configPath = filepath.Join(dir, configFileName)
		cfg.Logging.File = filepath.Join(dir, "logs", "govlist.log")
	}
	return cfg
}

// New returns the effective configuration: defaults, then the user config
// file if present, then environment overrides. A malformed user file is
// ignored so that `govlist config init --force` can repair it.
func New() *Config {
	cfg := Defaults()
	if cfg.configPath != "" {
		_ = cfg.loadFile(cfg.configPath)
	}
	cfg.ApplyEnvOverrides()
	return cfg
}

// Load reads the config file at path on top of the defaults and applies
// environment overrides. Unlike New, a missing or malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.configPath = path
	cfg.ApplyEnvOverrides()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnvOverrides applies GOVLIST_* environment variables.
// Unparseable numeric values are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvOverscan); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.List.Overscan = n
		}
	}
}

// ConfigPath returns the file Save writes to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes the file Save writes to.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the configuration as YAML, creating the parent directory.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errNoConfigPathAvailable
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), configDirPerm); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, configFilePerm); err != nil {
		return fmt.Errorf("writing config file %s: %w", c.configPath, err)
	}
	return nil
}

// WindowParams returns the validated window parameters for the list section.
func (c *Config) WindowParams() (window.Params, error) {
	return window.NewParams(c.List.ItemHeight, c.List.ContainerHeight, c.List.Overscan)
}

// Validate checks every section and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.WindowParams(); err != nil {
		errs = append(errs, fmt.Errorf("list: %w", err))
	}
	if c.List.WheelStep < 1 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidWheelStep, c.List.WheelStep))
	}
	if c.List.ThrottleMS < 0 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidThrottle, c.List.ThrottleMS))
	}
	if !slices.Contains(validOutputFormats, strings.ToLower(c.Output.DefaultFormat)) {
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidOutputFormat, c.Output.DefaultFormat))
	}
	if f := c.Logging.Format; f != "" && f != "json" && f != "console" {
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidLogFormat, f))
	}
	if l := c.Logging.Level; l != "" && !slices.Contains(validLogLevels, strings.ToLower(l)) {
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidLogLevel, l))
	}
	if c.RequiresVersion != "" {
		ok, err := version.Satisfies(c.RequiresVersion)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("requires_version: %w", err))
		case !ok:
			errs = append(errs, fmt.Errorf("%w: %s does not match %q",
				ErrVersionNotSatisfied, version.GetVersion(), c.RequiresVersion))
		}
	}

	return errors.Join(errs...)
}
