package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/najoast/actorpath/config"
	"github.com/najoast/actorpath/core"
	"github.com/najoast/actorpath/logging"
	"github.com/najoast/actorpath/scheduler"
)

// Service names registered by every Application
const (
	NamingServiceName        = "naming"
	SchedulerServiceName     = "scheduler"
	ConfigWatcherServiceName = "config-watcher"
)

// NamingService allocates the configured guardians under the root path
// and releases every registered path on stop.
type NamingService struct {
	app *Application
}

func (s *NamingService) Name() string {
	return NamingServiceName
}

func (s *NamingService) Start(ctx context.Context) error {
	logger := logging.FromContext(ctx).With("service", NamingServiceName)

	for _, name := range s.app.Config().Naming.Guardians {
		guardian, err := s.app.registry.Allocate(s.app.root, name)
		if err != nil && !errors.Is(err, core.ErrPathExists) {
			return fmt.Errorf("allocate guardian %q: %w", name, err)
		}
		if err == nil {
			logger.Info("guardian allocated", "path", guardian)
		}
	}
	return nil
}

// Stop releases registered paths deepest first, so that every release
// finds its children already gone.
func (s *NamingService) Stop(ctx context.Context) error {
	paths := s.app.registry.List()
	sort.SliceStable(paths, func(i, j int) bool {
		return paths[i].Depth() > paths[j].Depth()
	})

	var lastError error
	for _, p := range paths {
		if p.Depth() == 0 {
			continue
		}
		if err := s.app.registry.Release(p); err != nil && !errors.Is(err, core.ErrPathNotFound) {
			lastError = err
		}
	}
	return lastError
}

func (s *NamingService) Health(ctx context.Context) (HealthStatus, error) {
	return HealthStatus{
		State:   HealthHealthy,
		Message: "root " + s.app.root.String(),
		Data: map[string]interface{}{
			"paths":     s.app.registry.Len(),
			"guardians": len(s.app.registry.Children(s.app.root)),
		},
	}, nil
}

// SchedulerService runs the timer loop and, when configured, a periodic
// statistics task on it.
type SchedulerService struct {
	app   *Application
	stats scheduler.Cancellable
}

func (s *SchedulerService) Name() string {
	return SchedulerServiceName
}

// Start launches the loop. The loop outlives ctx, which only bounds the
// start itself; it ends with Stop.
func (s *SchedulerService) Start(ctx context.Context) error {
	if err := s.app.scheduler.Start(context.WithoutCancel(ctx)); err != nil {
		return err
	}

	if interval := s.app.Config().Scheduler.StatsInterval; interval > 0 {
		logger := logging.FromContext(ctx).With("service", SchedulerServiceName)
		s.stats = s.app.scheduler.Schedule(interval, interval, func() {
			stats := s.app.scheduler.Stats()
			logger.Debug("naming statistics",
				"paths", s.app.registry.Len(),
				"outstanding", stats.Outstanding,
				"executed", stats.Executed,
				"panicked", stats.Panicked)
		})
	}
	return nil
}

func (s *SchedulerService) Stop(ctx context.Context) error {
	if s.stats != nil {
		s.stats.Cancel()
	}
	stopCtx, cancel := context.WithTimeout(ctx, s.app.Config().Scheduler.ShutdownTimeout)
	defer cancel()
	return s.app.scheduler.Stop(stopCtx)
}

func (s *SchedulerService) Health(ctx context.Context) (HealthStatus, error) {
	stats := s.app.scheduler.Stats()
	state := HealthHealthy
	if stats.Panicked > 0 {
		state = HealthUnhealthy
	}
	return HealthStatus{
		State: state,
		Data: map[string]interface{}{
			"outstanding":   stats.Outstanding,
			"executed":      stats.Executed,
			"panicked":      stats.Panicked,
			"max_frequency": s.app.scheduler.MaxFrequency(),
		},
	}, nil
}

// ConfigWatcherService reloads the configuration file on change.
type ConfigWatcherService struct {
	watcher *config.Watcher
}

func (s *ConfigWatcherService) Name() string {
	return ConfigWatcherServiceName
}

func (s *ConfigWatcherService) Start(ctx context.Context) error {
	return s.watcher.Start()
}

func (s *ConfigWatcherService) Stop(ctx context.Context) error {
	return s.watcher.Stop()
}

func (s *ConfigWatcherService) Health(ctx context.Context) (HealthStatus, error) {
	return HealthStatus{
		State:   HealthHealthy,
		Message: "watching",
		Data:    map[string]interface{}{"app": s.watcher.GetConfig().App.Name},
	}, nil
}
