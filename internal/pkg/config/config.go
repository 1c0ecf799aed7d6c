package config

import (
	"fmt"
	"strings"
	"time"

	"golang-pingcompare/internal/adapter/scanner"
	"golang-pingcompare/internal/pkg/logging"
	"golang-pingcompare/internal/port"
	"golang-pingcompare/internal/types"

	"gopkg.in/yaml.v3"
)

// Probe methods
const (
	MethodICMP = "icmp"
	MethodPing = "ping"
)

// Report formats
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Defaults follow the scanner's own
const (
	DefaultProbeTimeout   = scanner.DefaultProbeTimeout
	DefaultAttempts       = scanner.DefaultAttempts
	DefaultMaxConcurrency = scanner.DefaultMaxConcurrency
)

// ProbeConfig selects and tunes the reachability probe
type ProbeConfig struct {
	Method     string        `yaml:"method"`
	Timeout    time.Duration `yaml:"timeout"`
	Attempts   int           `yaml:"attempts"`
	Privileged bool          `yaml:"privileged"`
	RouteCheck bool          `yaml:"route_check"`
}

// ScanConfig bounds a single network scan
type ScanConfig struct {
	MaxConcurrency int           `yaml:"max_concurrency"`
	Timeout        time.Duration `yaml:"timeout"`
}

// ReportConfig controls the optional report file
type ReportConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
}

// Config represents the main configuration structure
type Config struct {
	Logging  logging.LogConfig `yaml:"logging"`
	Networks []string          `yaml:"networks"`
	Exclude  []string          `yaml:"exclude"`
	Probe    ProbeConfig       `yaml:"probe"`
	Scan     ScanConfig        `yaml:"scan"`
	Report   ReportConfig      `yaml:"report"`
}

// Default returns a configuration with every tunable at its default and no networks.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// Load loads configuration from a YAML file read through fileMgr. Unset tunables take their defaults.
func Load(fileMgr port.FileManager, configPath string) (*Config, error) {
	if !fileMgr.FileExists(configPath) {
		return nil, fmt.Errorf("failed to read config file %s: file does not exist", configPath)
	}

	data, err := fileMgr.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.ApplyDefaults()
	return &config, nil
}

// ApplyDefaults fills zero-valued tunables.
func (c *Config) ApplyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "compact"
	}
	if c.Probe.Method == "" {
		c.Probe.Method = MethodICMP
	}
	if c.Probe.Timeout == 0 {
		c.Probe.Timeout = DefaultProbeTimeout
	}
	if c.Probe.Attempts == 0 {
		c.Probe.Attempts = DefaultAttempts
	}
	if c.Scan.MaxConcurrency == 0 {
		c.Scan.MaxConcurrency = DefaultMaxConcurrency
	}
	if c.Report.Format == "" {
		c.Report.Format = FormatYAML
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Networks) != 2 {
		return fmt.Errorf("exactly two networks are required, got %d", len(c.Networks))
	}

	for _, cidr := range c.Networks {
		if _, err := types.ParseNetwork(cidr); err != nil {
			return err
		}
	}

	if _, err := types.NewExclusionSet(c.Exclude); err != nil {
		return err
	}

	switch strings.ToLower(c.Probe.Method) {
	case MethodICMP, MethodPing:
	default:
		return fmt.Errorf("unknown probe method %q: must be %s or %s", c.Probe.Method, MethodICMP, MethodPing)
	}

	if c.Probe.Timeout <= 0 {
		return fmt.Errorf("probe timeout must be positive, got %s", c.Probe.Timeout)
	}
	if c.Probe.Attempts < 1 {
		return fmt.Errorf("probe attempts must be at least 1, got %d", c.Probe.Attempts)
	}
	if c.Scan.MaxConcurrency < 1 {
		return fmt.Errorf("scan max_concurrency must be at least 1, got %d", c.Scan.MaxConcurrency)
	}
	if c.Scan.Timeout < 0 {
		return fmt.Errorf("scan timeout must not be negative, got %s", c.Scan.Timeout)
	}

	switch strings.ToLower(c.Report.Format) {
	case FormatYAML, FormatJSON:
	default:
		return fmt.Errorf("unknown report format %q: must be %s or %s", c.Report.Format, FormatYAML, FormatJSON)
	}

	return nil
}
