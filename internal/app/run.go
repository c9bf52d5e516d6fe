package app

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/formgrid/internal/adminserver"
	"github.com/specialistvlad/formgrid/internal/bridge"
	"github.com/specialistvlad/formgrid/internal/ctxlog"
	"github.com/specialistvlad/formgrid/internal/form"
	"github.com/specialistvlad/formgrid/internal/scenario"
)

// Run instantiates every defined form, starts the configured surfaces and
// plays the scenario script, if any. With the admin server or the bridge
// enabled it serves until ctx is cancelled; otherwise it prints the result
// and returns.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")
	defer a.forms.DestroyAll(false)

	if err := a.createForms(ctx); err != nil {
		return err
	}

	serving := false
	if a.config.AdminPort > 0 {
		srv := adminserver.New(fmt.Sprintf(":%d", a.config.AdminPort), a.forms, a.logger)
		if err := srv.Start(); err != nil {
			return err
		}
		defer srv.Shutdown(context.WithoutCancel(ctx))
		serving = true
	}
	if a.config.BridgeURL != "" {
		conn, err := bridge.Dial(ctx, bridge.DialOptions{URL: a.config.BridgeURL, Namespace: a.config.BridgeNamespace})
		if err != nil {
			return fmt.Errorf("failed to start bridge: %w", err)
		}
		b := bridge.New(conn, a.forms, nil, a.logger)
		b.Start()
		defer b.Close()
		serving = true
	}

	switch {
	case a.config.ScriptPath != "":
		if err := a.runScript(ctx); err != nil {
			return err
		}
	case !serving:
		if err := a.printViews(); err != nil {
			return err
		}
	}

	if serving {
		a.logger.Info("🚀 Serving forms until interrupted.", "forms", a.forms.Names())
		<-ctx.Done()
		a.logger.Info("🏁 Shutting down.")
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) createForms(ctx context.Context) error {
	for _, name := range a.registry.FormNames() {
		cfg, err := a.registry.BuildConfig(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to build form: %w", err)
		}
		a.forms.Get(ctx, name, cfg)
	}
	a.logger.Info("Forms created.", "count", len(a.forms.Names()))
	return nil
}

func (a *App) runScript(ctx context.Context) error {
	script, err := scenario.ParseFile(a.config.ScriptPath)
	if err != nil {
		return err
	}
	f, ok := a.forms.Lookup(script.Form)
	if !ok {
		return fmt.Errorf("scenario targets unknown form %q", script.Form)
	}

	clock, _ := a.config.Clock.(scenario.Clock)
	a.logger.Info("▶️ Running scenario.", "path", a.config.ScriptPath, "form", script.Form, "steps", len(script.Steps))
	report, runErr := scenario.Run(ctx, f, clock, script)
	if report == nil {
		return fmt.Errorf("scenario aborted: %w", runErr)
	}
	if err := a.writeYAML(report); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("scenario failed: %w", runErr)
	}
	return nil
}

// printViews writes the initial view of every form, which is handy for
// checking definitions.
func (a *App) printViews() error {
	views := make([]form.View, 0, len(a.forms.Names()))
	for _, name := range a.forms.Names() {
		if f, ok := a.forms.Lookup(name); ok {
			views = append(views, f.View())
		}
	}
	return a.writeYAML(views)
}

func (a *App) writeYAML(v any) error {
	enc := yaml.NewEncoder(a.outW)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return enc.Close()
}
