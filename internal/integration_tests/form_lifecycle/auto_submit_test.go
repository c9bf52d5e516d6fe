package integration_tests

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/formgrid/internal/testutil"
)

// Test for: submit_when_valid submits once per distinct set of committed
// values, starting with valid init values.
func TestFormLifecycle_AutoSubmit(t *testing.T) {
	t.Parallel()
	hcl := `
form "search" {
  submit_when_valid = true
  on_submit         = "print"
  submit_args       = { prefix = "> " }
  init_values       = { query = "go" }

  field "query" {}

  scope "filter" {
    field "lang" {
      specs   = { choices = ["en", "de"] }
      default = "en"
    }
  }
}
`
	script := `
form: search
steps:
  - set: {path: query, value: hcl}
  - set: {path: query, value: hcl}
  - set: {path: filter.lang, value: fr}
  - set: {path: filter.lang, value: de}
  - expect: {status: valid}
`
	result := testutil.RunIntegrationTest(t, map[string]string{"search.hcl": hcl}, testutil.Options{Script: script})

	require.NoError(t, result.Err)
	assert.Equal(t, 3, strings.Count(result.Output, "> auto-submit search\n"))
	assert.Contains(t, result.Output, ">       filter.lang = \"en\"\n>       query = \"go\"\n")
	assert.Contains(t, result.Output, ">       filter.lang = \"de\"\n>       query = \"hcl\"\n")
}
