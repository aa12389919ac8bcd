// Package config provides configuration loading and parsing functionality
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFormat represents the configuration file format
type ConfigFormat string

const (
	FormatYAML ConfigFormat = "yaml"
	FormatJSON ConfigFormat = "json"
)

// DefaultEnvPrefix prefixes every environment override, e.g.
// ACTORPATH_NODE_SYSTEM.
const DefaultEnvPrefix = "ACTORPATH"

// Loader handles configuration loading from various sources
type Loader struct {
	// Configuration search paths
	searchPaths []string

	// Environment variable prefix
	envPrefix string

	// Default configuration
	defaultConfig *Config

	// Environment lookup, os.LookupEnv by default
	lookupEnv func(string) (string, bool)
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	paths := []string{".", "./config", "/etc/actorpath"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".actorpath"))
	}
	return &Loader{
		searchPaths:   paths,
		envPrefix:     DefaultEnvPrefix,
		defaultConfig: DefaultConfig(),
		lookupEnv:     os.LookupEnv,
	}
}

// SetSearchPaths sets the configuration file search paths
func (l *Loader) SetSearchPaths(paths []string) *Loader {
	l.searchPaths = paths
	return l
}

// SetEnvPrefix sets the environment variable prefix
func (l *Loader) SetEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// SetDefaultConfig sets the default configuration
func (l *Loader) SetDefaultConfig(config *Config) *Loader {
	l.defaultConfig = config
	return l
}

// Load loads configuration from the specified file, or discovers one
// in the search paths when filename is empty.
func (l *Loader) Load(filename string) (*Config, error) {
	if filename == "" {
		return l.AutoLoad()
	}
	return l.LoadFromFile(filename)
}

// LoadFromFile loads configuration from a specific file. Missing
// fields take their defaults and environment overrides apply.
func (l *Loader) LoadFromFile(filename string) (*Config, error) {
	format, err := formatOf(filename)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	return l.finish(data, format)
}

// LoadFromReader loads configuration from an io.Reader
func (l *Loader) LoadFromReader(reader io.Reader, format ConfigFormat) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration data: %w", err)
	}

	return l.finish(data, format)
}

// AutoLoad automatically discovers and loads configuration. Without a
// config file the defaults plus environment overrides are used.
func (l *Loader) AutoLoad() (*Config, error) {
	configFile, format, err := l.findConfigFile()
	if errors.Is(err, ErrConfigFileNotFound) {
		config := l.defaults()
		if err := l.loadFromEnv(config); err != nil {
			return nil, fmt.Errorf("failed to load config from environment: %w", err)
		}
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
		return config, nil
	}
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	config, err := l.finish(data, format)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", configFile, err)
	}
	return config, nil
}

// finish parses data, fills defaults, applies the environment and
// validates.
func (l *Loader) finish(data []byte, format ConfigFormat) (*Config, error) {
	config, err := l.parseConfig(data, format, l.defaults())
	if err != nil {
		return nil, err
	}

	if err := l.loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func (l *Loader) defaults() *Config {
	if l.defaultConfig == nil {
		return DefaultConfig()
	}
	return l.defaultConfig.Clone()
}

// findConfigFile searches for configuration files in search paths
func (l *Loader) findConfigFile() (string, ConfigFormat, error) {
	filenames := []string{
		"actorpath.yaml", "actorpath.yml",
		"config.yaml", "config.yml",
		"actorpath.json", "config.json",
	}

	for _, searchPath := range l.searchPaths {
		for _, filename := range filenames {
			fullPath := filepath.Join(searchPath, filename)
			if _, err := os.Stat(fullPath); err != nil {
				continue
			}
			format, err := formatOf(filename)
			if err != nil {
				continue
			}
			return fullPath, format, nil
		}
	}

	return "", "", ErrConfigFileNotFound
}

// formatOf determines the format from a file extension
func formatOf(filename string) (ConfigFormat, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// parseConfig decodes data onto base, so that only the keys present in
// data replace the defaults; an explicit zero value is kept.
func (l *Loader) parseConfig(data []byte, format ConfigFormat, base *Config) (*Config, error) {
	config := base

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("%w: YAML: %w", ErrConfigParseError, err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("%w: JSON: %w", ErrConfigParseError, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	return config, nil
}

// loadFromEnv loads configuration overrides from environment variables
func (l *Loader) loadFromEnv(config *Config) error {
	env := func(key string) (string, bool) {
		val, ok := l.lookupEnv(l.envPrefix + "_" + key)
		return val, ok && val != ""
	}

	// App configuration
	if val, ok := env("APP_NAME"); ok {
		config.App.Name = val
	}
	if val, ok := env("APP_VERSION"); ok {
		config.App.Version = val
	}
	if val, ok := env("APP_ENVIRONMENT"); ok {
		config.App.Environment = Environment(val)
	}
	if val, ok := env("APP_DEBUG"); ok {
		config.App.Debug = strings.ToLower(val) == "true"
	}

	// Log configuration
	if val, ok := env("LOG_LEVEL"); ok {
		config.Log.Level = LogLevel(strings.ToLower(val))
	}
	if val, ok := env("LOG_FORMAT"); ok {
		config.Log.Format = val
	}
	if val, ok := env("LOG_OUTPUT"); ok {
		config.Log.Output = val
	}

	// Node configuration
	if val, ok := env("NODE_PROTOCOL"); ok {
		config.Node.Protocol = val
	}
	if val, ok := env("NODE_SYSTEM"); ok {
		config.Node.System = val
	}
	if val, ok := env("NODE_HOST"); ok {
		config.Node.Host = val
	}
	if val, ok := env("NODE_PORT"); ok {
		port, err := parsePort(val)
		if err != nil {
			return fmt.Errorf("%w: %s_NODE_PORT: %w", ErrEnvironmentVarError, l.envPrefix, err)
		}
		config.Node.Port = port
	}

	// Naming configuration
	if val, ok := env("NAMING_GUARDIANS"); ok {
		var guardians []string
		for _, name := range strings.Split(val, ",") {
			if name = strings.TrimSpace(name); name != "" {
				guardians = append(guardians, name)
			}
		}
		config.Naming.Guardians = guardians
	}

	// Scheduler configuration
	if val, ok := env("SCHEDULER_QUEUE_SIZE"); ok {
		size, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: %s_SCHEDULER_QUEUE_SIZE: %w", ErrEnvironmentVarError, l.envPrefix, err)
		}
		config.Scheduler.QueueSize = size
	}
	if val, ok := env("SCHEDULER_SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("%w: %s_SCHEDULER_SHUTDOWN_TIMEOUT: %w", ErrEnvironmentVarError, l.envPrefix, err)
		}
		config.Scheduler.ShutdownTimeout = d
	}
	if val, ok := env("SCHEDULER_STATS_INTERVAL"); ok {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("%w: %s_SCHEDULER_STATS_INTERVAL: %w", ErrEnvironmentVarError, l.envPrefix, err)
		}
		config.Scheduler.StatsInterval = d
	}

	return nil
}

// Helper function to parse port number
func parsePort(val string) (int, error) {
	port, err := strconv.Atoi(val)
	if err != nil {
		return 0, err
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid port number: %d", port)
	}
	return port, nil
}
