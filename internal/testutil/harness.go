package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/formgrid/internal/app"
	"github.com/specialistvlad/formgrid/internal/hcl"
	"github.com/specialistvlad/formgrid/internal/registry"
	"github.com/specialistvlad/formgrid/internal/timerhost"
)

// Options tune RunIntegrationTest.
type Options struct {
	// Script is the YAML scenario to play, if any.
	Script string
	// Clock replaces real time; a *ManualClock also drives "advance" steps.
	Clock timerhost.Clock
	// Modules replace the compiled-in modules when set.
	Modules []registry.Module
	// AdminPort enables the admin server; the run then lasts until ctx ends.
	AdminPort int
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	// Output holds both the logs and whatever the app printed.
	Output string
	Err    error
	App    *app.App
}

// RunIntegrationTest writes the given .hcl files into a forms directory,
// builds the app from them and runs it to completion.
func RunIntegrationTest(t *testing.T, files map[string]string, o Options) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, o)
}

// RunIntegrationTestWithContext is RunIntegrationTest with a caller
// provided context.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, o Options) *HarnessResult {
	t.Helper()

	root := WriteFiles(t, files)
	appConfig := &app.Config{
		FormsPath: root,
		LogLevel:  "debug",
		LogFormat: "text",
		Clock:     o.Clock,
		AdminPort: o.AdminPort,
	}
	if o.Script != "" {
		appConfig.ScriptPath = filepath.Join(root, "scenario.yaml")
		if err := os.WriteFile(appConfig.ScriptPath, []byte(o.Script), 0o644); err != nil {
			t.Fatalf("failed to write scenario: %v", err)
		}
	}

	out := &SafeBuffer{}
	t.Cleanup(func() {
		if os.Getenv("FORMGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Output for %s ---\n%s", t.Name(), out.String())
		}
	})

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(out, appConfig, hcl.NewLoader(), o.Modules...)
	}()
	if panicErr != nil {
		return &HarnessResult{
			Output: out.String(),
			Err:    fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	err := testApp.Run(ctx)
	return &HarnessResult{Output: out.String(), Err: err, App: testApp}
}
