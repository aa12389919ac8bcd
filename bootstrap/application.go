package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/najoast/actorpath/config"
	"github.com/najoast/actorpath/core"
	"github.com/najoast/actorpath/logging"
	"github.com/najoast/actorpath/scheduler"
)

// Options contains configuration options for creating an Application.
type Options struct {
	// ConfigFile is reloaded on change when Watch is set
	ConfigFile string
	Watch      bool

	// Logger defaults to slog.Default()
	Logger *slog.Logger

	// Clock drives the scheduler; the real clock when nil
	Clock scheduler.Clock
}

// Application owns the root path of the local node, the registry of
// paths allocated under it and the scheduler, and runs them as services.
type Application struct {
	config *config.Config
	logger *slog.Logger

	root      *core.RootPath
	registry  *core.Registry
	scheduler *scheduler.LoopScheduler
	lifecycle *DefaultLifecycleManager

	// mutex protects config and running
	mutex   sync.RWMutex
	running bool
}

// NewApplication validates cfg and builds an application rooted at the
// configured node address.
func NewApplication(cfg *config.Config, opts Options) (*Application, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, &ApplicationError{Operation: "configure", Err: err}
	}
	addr, err := cfg.Node.Address()
	if err != nil {
		return nil, &ApplicationError{Operation: "configure", Err: err}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("app", cfg.App.Name, "system", addr.System())

	root := core.NewRootPath(addr)
	app := &Application{
		config:   cfg,
		logger:   logger,
		root:     root,
		registry: core.NewRegistry(root),
		scheduler: scheduler.New(scheduler.Options{
			Clock:     opts.Clock,
			QueueSize: cfg.Scheduler.QueueSize,
			Logger:    logger.With("component", "scheduler"),
		}),
		lifecycle: NewLifecycleManager(logger.With("component", "lifecycle")),
	}

	if err := app.lifecycle.Register(&NamingService{app: app}); err != nil {
		return nil, err
	}
	if err := app.lifecycle.Register(&SchedulerService{app: app}); err != nil {
		return nil, err
	}

	if opts.Watch {
		if opts.ConfigFile == "" {
			return nil, &ApplicationError{Operation: "configure", Service: ConfigWatcherServiceName, Err: errors.New("no config file to watch")}
		}
		watcher, err := config.NewWatcher(opts.ConfigFile, config.NewLoader(), logger)
		if err != nil {
			return nil, &ApplicationError{Operation: "configure", Service: ConfigWatcherServiceName, Err: err}
		}
		watcher.OnConfigChange(app.applyConfig)
		if err := app.lifecycle.Register(&ConfigWatcherService{watcher: watcher}, NamingServiceName); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Config returns the current configuration
func (app *Application) Config() *config.Config {
	app.mutex.RLock()
	defer app.mutex.RUnlock()
	return app.config
}

// Root returns the root path of the local node
func (app *Application) Root() *core.RootPath {
	return app.root
}

// Registry returns the registry of allocated paths
func (app *Application) Registry() *core.Registry {
	return app.registry
}

// Scheduler returns the application scheduler
func (app *Application) Scheduler() scheduler.Scheduler {
	return app.scheduler
}

// LifecycleManager returns the lifecycle manager
func (app *Application) LifecycleManager() LifecycleManager {
	return app.lifecycle
}

// Guardian returns the registered top-level path with the given name
func (app *Application) Guardian(name string) (*core.ChildPath, bool) {
	child, err := app.root.Child(name)
	if err != nil {
		return nil, false
	}
	p, ok := app.registry.Lookup(child)
	if !ok {
		return nil, false
	}
	guardian, ok := p.(*core.ChildPath)
	return guardian, ok
}

// Health returns the health status of all services
func (app *Application) Health(ctx context.Context) map[string]HealthStatus {
	return app.lifecycle.Health(ctx)
}

// Start starts all services without blocking. An application runs once;
// its scheduler cannot be restarted after Shutdown.
func (app *Application) Start(ctx context.Context) error {
	app.mutex.Lock()
	if app.running {
		app.mutex.Unlock()
		return ErrApplicationRunning
	}
	app.running = true
	app.mutex.Unlock()

	ctx = logging.WithLogger(ctx, app.logger)
	if err := app.lifecycle.Start(ctx); err != nil {
		app.mutex.Lock()
		app.running = false
		app.mutex.Unlock()
		return fmt.Errorf("failed to start services: %w", err)
	}

	app.logger.Info("application started", "root", app.root, "services", app.lifecycle.Services())
	return nil
}

// Run starts the application and blocks until ctx is done or the
// process receives SIGINT or SIGTERM, then shuts down.
func (app *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	app.logger.Info("starting graceful shutdown", "cause", context.Cause(ctx))

	return app.Shutdown(context.Background())
}

// Shutdown stops all services in reverse start order
func (app *Application) Shutdown(ctx context.Context) error {
	app.mutex.Lock()
	if !app.running {
		app.mutex.Unlock()
		return nil // Already shut down
	}
	app.running = false
	app.mutex.Unlock()

	if err := app.lifecycle.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop services: %w", err)
	}

	app.logger.Info("application stopped")
	return nil
}

// applyConfig brings the registry in line with a reloaded configuration.
// Guardians that appear are allocated, guardians that disappear are
// released when nothing is registered beneath them. The node address
// cannot change while running.
func (app *Application) applyConfig(oldConfig, newConfig *config.Config) {
	app.mutex.Lock()
	defer app.mutex.Unlock()

	if newConfig.Node != oldConfig.Node {
		app.logger.Warn("node address change ignored until restart",
			"current", app.root.Address(), "configured", newConfig.Node)
	}

	wanted := make(map[string]struct{}, len(newConfig.Naming.Guardians))
	for _, name := range newConfig.Naming.Guardians {
		wanted[name] = struct{}{}
		guardian, err := app.registry.Allocate(app.root, name)
		switch {
		case err == nil:
			app.logger.Info("guardian allocated", "path", guardian)
		case !errors.Is(err, core.ErrPathExists):
			app.logger.Error("guardian allocation failed", "name", name, "error", err)
		}
	}

	for _, guardian := range app.registry.Children(app.root) {
		if _, ok := wanted[guardian.Name()]; ok {
			continue
		}
		if err := app.registry.Release(guardian); err != nil {
			app.logger.Warn("guardian kept", "path", guardian, "error", err)
			continue
		}
		app.logger.Info("guardian released", "path", guardian)
	}

	app.config = newConfig
}
