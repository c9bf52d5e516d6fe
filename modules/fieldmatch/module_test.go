package fieldmatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/formgrid/internal/fieldpath"
	"github.com/specialistvlad/formgrid/internal/form"
	"github.com/specialistvlad/formgrid/internal/scope"
	"github.com/specialistvlad/formgrid/internal/validator"
)

func stateWith(value any, valid bool) form.FormState {
	fs := form.FieldState{LatestValidValue: value, HasValidValue: valid, Status: form.StatusValid}
	return form.FormState{Fields: scope.NewBranch[form.FieldState]().MustWith(fieldpath.New("password"), fs)}
}

func run(t *testing.T, rule form.BizRule, value any, st form.FormState) validator.Result {
	t.Helper()
	out := rule(context.Background(), form.BizRequest{Value: value, Call: validator.NewCall(value), State: st})
	res, ok := out.Result()
	require.True(t, ok, "field_match settles synchronously")
	return res
}

func TestFieldMatch(t *testing.T) {
	rule, err := New(map[string]any{"field": "password", "message": "passwords differ"})
	require.NoError(t, err)

	assert.True(t, run(t, rule, "s3cret", stateWith("s3cret", true)).Valid)

	res := run(t, rule, "s3cret", stateWith("other", true))
	assert.False(t, res.Valid)
	assert.Equal(t, "passwords differ", res.Message)

	assert.False(t, run(t, rule, "s3cret", stateWith(nil, false)).Valid, "no committed value to match")
	assert.False(t, run(t, rule, "s3cret", form.FormState{}).Valid, "missing field")
}

func TestFieldMatchArgs(t *testing.T) {
	_, err := New(map[string]any{})
	assert.ErrorContains(t, err, "requires a 'field' argument")

	_, err = New(map[string]any{"field": "a..b"})
	assert.ErrorContains(t, err, "empty segment")

	a, err := parseArgs(map[string]any{"field": "address.zip"})
	require.NoError(t, err)
	assert.Equal(t, defaultMessage, a.Message)
	assert.Equal(t, fieldpath.New("address", "zip"), a.Field)
}
