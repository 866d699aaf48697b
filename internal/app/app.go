package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/specialistvlad/behaviorkit/internal/config"
	"github.com/specialistvlad/behaviorkit/internal/ctxlog"
	"github.com/specialistvlad/behaviorkit/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *config.Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App with its own logger and a validated registry. Reports are
// written to outW and logs to logW. When no modules are given the core
// modules are registered.
func NewApp(outW, logW io.Writer, cfg *config.Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	if err := loadManifests(ctx, reg, cfg.Manifests); err != nil {
		return nil, err
	}

	if err := reg.ValidateRegistry(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Registry validation passed.")

	if err := reg.PopulateBehaviorsFromDefinitions(ctx); err != nil {
		return nil, fmt.Errorf("failed to bind manifests: %w", err)
	}
	logger.Debug("Behaviors registered.", "count", reg.Len())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfg,
	}, nil
}

// loadManifests reads the manifests directory. A missing default directory
// is not an error, since Go modules may declare every behavior themselves.
func loadManifests(ctx context.Context, reg *registry.Registry, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == config.DefaultManifests {
			ctxlog.FromContext(ctx).Debug("Default manifests directory not found, skipping.", "path", path)
			return nil
		}
		return fmt.Errorf("manifests path: %w", err)
	}
	if err := reg.LoadManifestsRecursively(ctx, path); err != nil {
		return fmt.Errorf("failed to load manifests: %w", err)
	}
	return nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Context returns ctx carrying the application's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
