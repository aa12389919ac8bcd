// Package config provides error definitions for configuration management
package config

import "errors"

// Configuration validation errors
var (
	ErrInvalidAppName         = errors.New("invalid application name")
	ErrInvalidEnvironment     = errors.New("invalid environment")
	ErrInvalidLogLevel        = errors.New("invalid log level")
	ErrInvalidLogFormat       = errors.New("invalid log format")
	ErrInvalidNode            = errors.New("invalid node address")
	ErrInvalidGuardian        = errors.New("invalid guardian name")
	ErrInvalidQueueSize       = errors.New("invalid scheduler queue size")
	ErrInvalidShutdownTimeout = errors.New("invalid scheduler shutdown timeout")
	ErrInvalidStatsInterval   = errors.New("invalid scheduler stats interval")
)

// Configuration loading errors
var (
	ErrConfigFileNotFound  = errors.New("configuration file not found")
	ErrConfigParseError    = errors.New("configuration parse error")
	ErrUnsupportedFormat   = errors.New("unsupported configuration format")
	ErrEnvironmentVarError = errors.New("environment variable error")
	ErrConfigWatchError    = errors.New("configuration watch error")
)
