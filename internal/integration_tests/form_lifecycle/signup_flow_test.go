package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/formgrid/internal/testutil"
)

const signupHCL = `
form "signup" {
  on_submit = "print"

  field "name" {
    specs = { max_len = 20 }
  }

  field "confirm_name" {
    depends  = [["name"]]
    biz_rule = "field_match"
    biz_args = { field = "name", message = "names do not match" }
  }

  field "age" {
    validator = "number"
    specs     = { min = 18 }
  }
}
`

// Test for: widget events, debounce, dependent revalidation and submission
// driven end to end from a scenario.
func TestFormLifecycle_SignupFlow(t *testing.T) {
	t.Parallel()
	script := `
form: signup
steps:
  - focus: name
  - change: {path: name, value: Alice}
  - expect:
      fields:
        name: {status: toBeValid}
  - advance: 200ms
  - expect:
      fields:
        name: {status: valid, value: Alice}
  - blur: name

  - focus: confirm_name
  - change: {path: confirm_name, value: Alicia}
  - keypress: {path: confirm_name, key: Enter}
  - expect:
      status: invalid
      fields:
        confirm_name: {status: invalid, message: names do not match}
  - change: {path: confirm_name, value: Alice}
  - advance: 200ms
  - blur: confirm_name
  - expect:
      fields:
        confirm_name: {status: valid}

  - set: {path: name, value: Bob}
  - expect:
      status: invalid
      fields:
        name: {status: valid, value: Bob}
        confirm_name: {status: invalid, message: names do not match}
  - set: {path: confirm_name, value: Bob}
  - set: {path: age, value: "20"}
  - submit: true
  - expect: {status: valid, submitting: false}
`
	result := testutil.RunIntegrationTest(t, map[string]string{"signup.hcl": signupHCL}, testutil.Options{
		Script: script,
		Clock:  testutil.NewManualClock(),
	})

	require.NoError(t, result.Err)
	assert.Contains(t, result.Output, "submit signup\n"+
		"      age = 20\n"+
		"      confirm_name = \"Bob\"\n"+
		"      name = \"Bob\"\n")
	assert.Contains(t, result.Output, "steps: 20")
}

// Test for: a failed expectation fails the run and is listed in the report.
func TestFormLifecycle_FailedExpectation(t *testing.T) {
	t.Parallel()
	script := `
form: signup
steps:
  - set: {path: age, value: "12"}
  - expect:
      fields:
        age: {status: valid}
`
	result := testutil.RunIntegrationTest(t, map[string]string{"signup.hcl": signupHCL}, testutil.Options{Script: script})

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "scenario failed")
	assert.Contains(t, result.Err.Error(), `field age status is "invalid", want "valid"`)
	assert.Contains(t, result.Output, "failures:")
}
