package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/formgrid/internal/app"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name       string
		args       []string
		want       *app.Config
		shouldExit bool
		errMsg     string
	}{
		{
			name: "positional path with defaults",
			args: []string{"forms/"},
			want: &app.Config{FormsPath: "forms/", BridgeNamespace: "/", LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "all flags",
			args: []string{
				"-f", "signup.hcl", "-script", "run.yaml", "-admin-port", "8080",
				"-bridge-url", "http://localhost:3000/socket.io/", "-bridge-namespace", "/forms",
				"-log-format", "JSON", "-log-level", "Debug",
			},
			want: &app.Config{
				FormsPath: "signup.hcl", ScriptPath: "run.yaml", AdminPort: 8080,
				BridgeURL: "http://localhost:3000/socket.io/", BridgeNamespace: "/forms",
				LogFormat: "json", LogLevel: "debug",
			},
		},
		{
			name: "long flag wins over shorthand and positional",
			args: []string{"-forms", "a", "-f", "b", "c"},
			want: &app.Config{FormsPath: "a", BridgeNamespace: "/", LogFormat: "text", LogLevel: "info"},
		},
		{name: "no path prints usage", args: nil, shouldExit: true},
		{name: "help", args: []string{"-h"}, shouldExit: true},
		{name: "unknown flag", args: []string{"-nope"}, errMsg: "flag provided but not defined"},
		{name: "bad log format", args: []string{"-log-format", "xml", "x"}, errMsg: "invalid log-format"},
		{name: "bad log level", args: []string{"-log-level", "loud", "x"}, errMsg: "invalid log-level"},
		{name: "bad admin port", args: []string{"-admin-port", "70000", "x"}, errMsg: "AdminPort must be between"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, shouldExit, err := Parse(tc.args, &out)

			if tc.errMsg != "" {
				require.Error(t, err)
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, 2, exitErr.Code)
				assert.Contains(t, exitErr.Message, tc.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.shouldExit, shouldExit)
			if tc.shouldExit {
				assert.Contains(t, out.String(), "Usage:")
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}
