package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/formgrid/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("formgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
formgrid - declarative forms with incremental validation.

Usage:
  formgrid [options] [FORMS_PATH]

Arguments:
  FORMS_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Without -script, -admin-port or -bridge-url the initial view of every form
is printed and formgrid exits.

Options:
`)
		flagSet.PrintDefaults()
	}

	formsFlag := flagSet.String("forms", "", "Path to the form definition file or directory.")
	fFlag := flagSet.String("f", "", "Path to the form definition file or directory (shorthand).")
	scriptFlag := flagSet.String("script", "", "Path to a YAML scenario to play against a form.")
	adminPortFlag := flagSet.Int("admin-port", 0, "Port for the admin HTTP server (/health, /metrics, /forms). 0 is disabled.")
	bridgeURLFlag := flagSet.String("bridge-url", "", "socket.io URL of a render host to bridge forms to.")
	bridgeNSFlag := flagSet.String("bridge-namespace", "/", "socket.io namespace used by the bridge.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	switch {
	case *formsFlag != "":
		path = *formsFlag
	case *fFlag != "":
		path = *fFlag
	case flagSet.NArg() > 0:
		path = flagSet.Arg(0)
	}
	slog.Debug("Forms path determined.", "path", path)

	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		FormsPath:       path,
		ScriptPath:      *scriptFlag,
		AdminPort:       *adminPortFlag,
		BridgeURL:       *bridgeURLFlag,
		BridgeNamespace: *bridgeNSFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
