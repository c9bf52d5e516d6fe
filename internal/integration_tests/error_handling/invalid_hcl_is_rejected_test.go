package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/formgrid/internal/testutil"
)

// Test for: invalid hcl is rejected
func TestErrorHandling_InvalidHCL_IsRejected(t *testing.T) {
	t.Parallel()
	files := map[string]string{
		"main.hcl": `
form "signup" {
  field "name" {
    validator = "text"
`,
	}

	result := testutil.RunIntegrationTest(t, files, testutil.Options{})

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "application startup panicked")
	assert.Contains(t, result.Err.Error(), "failed to parse")
}

// Test for: definition errors are reported before anything runs
func TestErrorHandling_InvalidDefinitions_AreRejected(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name string
		hcl  string
		want string
	}{
		{
			name: "unknown validator",
			hcl:  "form \"f\" {\n  field \"a\" {\n    validator = \"date\"\n  }\n}\n",
			want: `unknown validator "date"`,
		},
		{
			name: "duplicate form",
			hcl:  "form \"f\" {}\nform \"f\" {}\n",
			want: `form "f" is defined more than once`,
		},
		{
			name: "bad delay keyword",
			hcl:  "form \"f\" {\n  field \"a\" {\n    validate_delay = \"soon\"\n  }\n}\n",
			want: `unknown validate delay keyword "soon"`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := testutil.RunIntegrationTest(t, map[string]string{"main.hcl": tc.hcl}, testutil.Options{})
			require.Error(t, result.Err)
			assert.Contains(t, result.Err.Error(), tc.want)
		})
	}
}
