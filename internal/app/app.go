package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/formgrid/internal/config"
	"github.com/specialistvlad/formgrid/internal/ctxlog"
	"github.com/specialistvlad/formgrid/internal/form"
	"github.com/specialistvlad/formgrid/internal/inmemorystore"
	"github.com/specialistvlad/formgrid/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	model    *config.Model
	forms    *form.Registry
}

// NewApp is the constructor for the main application. It loads and binds
// every form definition; mismatches between definitions and code are fatal
// and panic.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.FormsPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Form definitions loaded into unified model.", "forms", len(model.Forms))

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules(outW)
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	reg.PopulateDefinitionsFromModel(model)
	if err := reg.ValidateRegistry(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	store := inmemorystore.New[form.FormState](logger)
	opts := []form.Option{form.WithLogger(logger)}
	if appConfig.Clock != nil {
		opts = append(opts, form.WithClock(appConfig.Clock))
	}

	return &App{
		outW:     outW,
		logger:   logger,
		config:   appConfig,
		registry: reg,
		model:    model,
		forms:    form.NewRegistry(store, opts...),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Forms returns the live form instances.
func (a *App) Forms() *form.Registry {
	return a.forms
}
