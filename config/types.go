// Package config provides configuration management for actorpath nodes
package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/najoast/actorpath/core"
)

// Environment represents the deployment environment
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// String returns the string representation of Environment
func (e Environment) String() string {
	return string(e)
}

// IsValid checks if the environment is valid
func (e Environment) IsValid() bool {
	switch e {
	case EnvDevelopment, EnvTesting, EnvStaging, EnvProduction:
		return true
	default:
		return false
	}
}

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// String returns the string representation of LogLevel
func (l LogLevel) String() string {
	return string(l)
}

// IsValid checks if the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	default:
		return false
	}
}

// Log output formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config represents the complete node configuration
type Config struct {
	// Application configuration
	App AppConfig `yaml:"app" json:"app"`

	// Logging configuration
	Log LogConfig `yaml:"log" json:"log"`

	// Address of the local actor system
	Node NodeConfig `yaml:"node" json:"node"`

	// Paths allocated at startup
	Naming NamingConfig `yaml:"naming" json:"naming"`

	// Timer loop configuration
	Scheduler SchedulerConfig `yaml:"scheduler" json:"scheduler"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	// Application name
	Name string `yaml:"name" json:"name"`

	// Application version
	Version string `yaml:"version" json:"version"`

	// Deployment environment
	Environment Environment `yaml:"environment" json:"environment"`

	// Debug forces debug-level logging regardless of Log.Level
	Debug bool `yaml:"debug" json:"debug"`

	// Application description
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	// Log level
	Level LogLevel `yaml:"level" json:"level"`

	// Log format (json, text)
	Format string `yaml:"format" json:"format"`

	// Output destination (stdout, stderr, file path)
	Output string `yaml:"output" json:"output"`
}

// NodeConfig describes the address every local path is rooted at.
// An empty Host yields a local address.
type NodeConfig struct {
	Protocol string `yaml:"protocol" json:"protocol"`
	System   string `yaml:"system" json:"system"`
	Host     string `yaml:"host,omitempty" json:"host,omitempty"`
	Port     int    `yaml:"port,omitempty" json:"port,omitempty"`
}

// Address builds and validates the node address.
func (n NodeConfig) Address() (core.Address, error) {
	addr := core.NewRemoteAddress(n.Protocol, n.System, n.Host, n.Port)
	if err := addr.Validate(); err != nil {
		return core.Address{}, err
	}
	return addr, nil
}

// NamingConfig lists the top-level paths created under the root
type NamingConfig struct {
	Guardians []string `yaml:"guardians" json:"guardians"`
}

// SchedulerConfig contains timer loop settings. Durations are written
// as strings such as "10s" in both YAML and JSON; JSON also accepts
// integer nanoseconds.
type SchedulerConfig struct {
	// Fired timers that may wait for the loop
	QueueSize int `yaml:"queue_size" json:"queue_size"`

	// Upper bound on waiting for the loop at shutdown
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`

	// Period of the naming statistics log line; zero disables it
	StatsInterval time.Duration `yaml:"stats_interval" json:"stats_interval"`
}

// UnmarshalJSON decodes onto the current values, so fields absent from
// the document keep them.
func (s *SchedulerConfig) UnmarshalJSON(data []byte) error {
	type plain SchedulerConfig
	raw := struct {
		*plain
		ShutdownTimeout json.RawMessage `json:"shutdown_timeout"`
		StatsInterval   json.RawMessage `json:"stats_interval"`
	}{plain: (*plain)(s)}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := decodeDuration(raw.ShutdownTimeout, &s.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown_timeout: %w", err)
	}
	if err := decodeDuration(raw.StatsInterval, &s.StatsInterval); err != nil {
		return fmt.Errorf("stats_interval: %w", err)
	}
	return nil
}

func decodeDuration(raw json.RawMessage, d *time.Duration) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		parsed, err := time.ParseDuration(text)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}

	var nanos int64
	if err := json.Unmarshal(raw, &nanos); err != nil {
		return fmt.Errorf("want a duration string or integer nanoseconds, got %s", raw)
	}
	*d = time.Duration(nanos)
	return nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "actorpath",
			Version:     "1.0.0",
			Environment: EnvDevelopment,
			Debug:       false,
			Description: "actor path naming node",
		},
		Log: LogConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
			Output: "stderr",
		},
		Node: NodeConfig{
			Protocol: core.DefaultProtocol,
			System:   "default",
		},
		Naming: NamingConfig{
			Guardians: []string{"user", "system"},
		},
		Scheduler: SchedulerConfig{
			QueueSize:       1024,
			ShutdownTimeout: 10 * time.Second,
			StatsInterval:   time.Minute,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate app config
	if c.App.Name == "" {
		return ErrInvalidAppName
	}
	if !c.App.Environment.IsValid() {
		return ErrInvalidEnvironment
	}

	// Validate log config
	if !c.Log.Level.IsValid() {
		return ErrInvalidLogLevel
	}
	if c.Log.Format != LogFormatText && c.Log.Format != LogFormatJSON {
		return ErrInvalidLogFormat
	}

	// Validate node address
	if _, err := c.Node.Address(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidNode, err)
	}

	// Validate guardians
	seen := make(map[string]struct{}, len(c.Naming.Guardians))
	for _, name := range c.Naming.Guardians {
		if err := core.ValidateName(name); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidGuardian, err)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate %q", ErrInvalidGuardian, name)
		}
		seen[name] = struct{}{}
	}

	// Validate scheduler config
	if c.Scheduler.QueueSize <= 0 {
		return ErrInvalidQueueSize
	}
	if c.Scheduler.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownTimeout
	}
	if c.Scheduler.StatsInterval < 0 {
		return ErrInvalidStatsInterval
	}

	return nil
}

// Clone returns a deep copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	clone.Naming.Guardians = append([]string(nil), c.Naming.Guardians...)
	return &clone
}

// IsDebugEnabled returns true if debug mode is enabled
func (c *Config) IsDebugEnabled() bool {
	return c.App.Debug || c.Log.Level == LogLevelDebug
}
