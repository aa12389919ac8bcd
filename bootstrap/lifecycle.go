package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// DefaultLifecycleManager implements the LifecycleManager interface
type DefaultLifecycleManager struct {
	// services holds all registered services
	services map[string]Service

	// dependencies tracks service dependencies
	dependencies map[string][]string

	// startOrder tracks the order services were started
	startOrder []string

	// mutex protects concurrent access
	mutex sync.RWMutex

	// started indicates if the lifecycle manager has been started
	started bool

	// listeners for lifecycle events
	listeners []func(LifecycleEvent)

	logger *slog.Logger

	// timeout for service operations
	timeout time.Duration
}

var _ LifecycleManager = (*DefaultLifecycleManager)(nil)

// NewLifecycleManager creates a new lifecycle manager
func NewLifecycleManager(logger *slog.Logger) *DefaultLifecycleManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultLifecycleManager{
		services:     make(map[string]Service),
		dependencies: make(map[string][]string),
		logger:       logger,
		timeout:      30 * time.Second,
	}
}

// Register registers a service under its Name with the lifecycle manager
func (lm *DefaultLifecycleManager) Register(service Service, deps ...string) error {
	if service == nil {
		return fmt.Errorf("%w: service cannot be nil", ErrInvalidRegistration)
	}
	name := service.Name()
	if name == "" {
		return fmt.Errorf("%w: service name cannot be empty", ErrInvalidRegistration)
	}

	lm.mutex.Lock()
	defer lm.mutex.Unlock()

	if lm.started {
		return fmt.Errorf("cannot register service %s: %w", name, ErrAlreadyStarted)
	}
	if _, exists := lm.services[name]; exists {
		return fmt.Errorf("%w: %s", ErrServiceExists, name)
	}

	lm.services[name] = service
	lm.dependencies[name] = append([]string(nil), deps...)

	lm.broadcastEvent(LifecycleEvent{
		Type:    EventServiceRegistered,
		Service: name,
		Data:    map[string]interface{}{"dependencies": deps},
	})

	return nil
}

// Start starts all services in dependency order. If a service fails to
// start, the services already started are stopped again in reverse order.
func (lm *DefaultLifecycleManager) Start(ctx context.Context) error {
	lm.mutex.Lock()
	defer lm.mutex.Unlock()

	if lm.started {
		return ErrAlreadyStarted
	}

	startOrder, err := lm.calculateStartOrder()
	if err != nil {
		return &ApplicationError{Operation: "start", Err: err}
	}

	lm.broadcastEvent(LifecycleEvent{
		Type: EventLifecycleStarting,
		Data: map[string]interface{}{"order": startOrder},
	})

	for _, serviceName := range startOrder {
		service := lm.services[serviceName]

		lm.broadcastEvent(LifecycleEvent{Type: EventServiceStarting, Service: serviceName})

		startCtx, cancel := context.WithTimeout(ctx, lm.timeout)
		err := service.Start(startCtx)
		cancel()

		if err != nil {
			lm.broadcastEvent(LifecycleEvent{Type: EventServiceStartFailed, Service: serviceName, Error: err})
			lm.stopStarted(ctx)
			return &ApplicationError{Operation: "start", Service: serviceName, Err: err}
		}

		lm.startOrder = append(lm.startOrder, serviceName)
		lm.broadcastEvent(LifecycleEvent{Type: EventServiceStarted, Service: serviceName})
	}

	lm.started = true
	lm.broadcastEvent(LifecycleEvent{Type: EventLifecycleStarted})

	return nil
}

// Stop stops all services in reverse start order. Every service is
// asked to stop even if an earlier one fails; the last error is returned.
func (lm *DefaultLifecycleManager) Stop(ctx context.Context) error {
	lm.mutex.Lock()
	defer lm.mutex.Unlock()

	if !lm.started {
		return nil // Already stopped
	}

	lm.broadcastEvent(LifecycleEvent{Type: EventLifecycleStopping})
	err := lm.stopStarted(ctx)
	lm.started = false
	lm.broadcastEvent(LifecycleEvent{Type: EventLifecycleStopped})

	return err
}

// stopStarted stops what startOrder records, newest first. Callers hold
// the mutex.
func (lm *DefaultLifecycleManager) stopStarted(ctx context.Context) error {
	var lastError error

	for i := len(lm.startOrder) - 1; i >= 0; i-- {
		serviceName := lm.startOrder[i]
		service := lm.services[serviceName]

		lm.broadcastEvent(LifecycleEvent{Type: EventServiceStopping, Service: serviceName})

		stopCtx, cancel := context.WithTimeout(ctx, lm.timeout)
		err := service.Stop(stopCtx)
		cancel()

		if err != nil {
			lastError = &ApplicationError{Operation: "stop", Service: serviceName, Err: err}
			lm.broadcastEvent(LifecycleEvent{Type: EventServiceStopFailed, Service: serviceName, Error: err})
		} else {
			lm.broadcastEvent(LifecycleEvent{Type: EventServiceStopped, Service: serviceName})
		}
	}

	lm.startOrder = nil
	return lastError
}

// Health returns the health status of all services
func (lm *DefaultLifecycleManager) Health(ctx context.Context) map[string]HealthStatus {
	lm.mutex.RLock()
	defer lm.mutex.RUnlock()

	health := make(map[string]HealthStatus, len(lm.services))

	for name, service := range lm.services {
		healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		status, err := service.Health(healthCtx)
		cancel()

		if err != nil {
			status = HealthStatus{State: HealthUnhealthy, Message: err.Error()}
		}
		if status.LastCheck.IsZero() {
			status.LastCheck = time.Now()
		}
		health[name] = status
	}

	return health
}

// Services returns all registered service names
func (lm *DefaultLifecycleManager) Services() []string {
	lm.mutex.RLock()
	defer lm.mutex.RUnlock()

	names := make([]string, 0, len(lm.services))
	for name := range lm.services {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// AddListener adds a lifecycle event listener
func (lm *DefaultLifecycleManager) AddListener(listener func(LifecycleEvent)) {
	lm.mutex.Lock()
	defer lm.mutex.Unlock()

	lm.listeners = append(lm.listeners, listener)
}

// calculateStartOrder calculates the order to start services based on
// dependencies. Ties are broken by name so the order is stable.
func (lm *DefaultLifecycleManager) calculateStartOrder() ([]string, error) {
	// Topological sort using Kahn's algorithm
	inDegree := make(map[string]int, len(lm.services))
	graph := make(map[string][]string, len(lm.services))

	for service := range lm.services {
		inDegree[service] = 0
	}

	for service, deps := range lm.dependencies {
		for _, dep := range deps {
			if _, exists := lm.services[dep]; !exists {
				return nil, fmt.Errorf("%w: %s (required by %s)", ErrUnknownDependency, dep, service)
			}
			graph[dep] = append(graph[dep], service)
			inDegree[service]++
		}
	}

	var queue []string
	for service, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, service)
		}
	}
	sort.Strings(queue)

	result := make([]string, 0, len(lm.services))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		dependents := graph[current]
		sort.Strings(dependents)
		for _, dependent := range dependents {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(result) != len(lm.services) {
		return nil, ErrCircularDependency
	}

	return result, nil
}

// broadcastEvent logs a lifecycle event and hands it to all listeners.
// Callers hold the mutex.
func (lm *DefaultLifecycleManager) broadcastEvent(event LifecycleEvent) {
	event.Timestamp = time.Now()

	if event.Error != nil {
		lm.logger.Error("lifecycle event", "type", event.Type, "service", event.Service, "error", event.Error)
	} else {
		lm.logger.Debug("lifecycle event", "type", event.Type, "service", event.Service)
	}

	for _, listener := range lm.listeners {
		go func(l func(LifecycleEvent)) {
			defer func() {
				if r := recover(); r != nil {
					lm.logger.Error("lifecycle listener panicked", "type", event.Type, "panic", r)
				}
			}()
			l(event)
		}(listener)
	}
}

// SetTimeout sets the timeout for service operations
func (lm *DefaultLifecycleManager) SetTimeout(timeout time.Duration) {
	lm.mutex.Lock()
	defer lm.mutex.Unlock()

	lm.timeout = timeout
}

// IsStarted returns true if the lifecycle manager has been started
func (lm *DefaultLifecycleManager) IsStarted() bool {
	lm.mutex.RLock()
	defer lm.mutex.RUnlock()

	return lm.started
}

// GetService returns a registered service by name
func (lm *DefaultLifecycleManager) GetService(name string) (Service, bool) {
	lm.mutex.RLock()
	defer lm.mutex.RUnlock()

	service, exists := lm.services[name]
	return service, exists
}
