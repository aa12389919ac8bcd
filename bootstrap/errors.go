package bootstrap

import "errors"

// Lifecycle errors
var (
	ErrServiceExists       = errors.New("service already registered")
	ErrUnknownDependency   = errors.New("dependency is not registered")
	ErrCircularDependency  = errors.New("circular dependency detected")
	ErrAlreadyStarted      = errors.New("lifecycle manager already started")
	ErrApplicationRunning  = errors.New("application is already running")
	ErrInvalidRegistration = errors.New("invalid service registration")
)
