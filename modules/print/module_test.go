package print

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/formgrid/internal/form"
	"github.com/specialistvlad/formgrid/internal/registry"
)

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	fn, err := New(&buf)(map[string]any{"prefix": "> "})
	require.NoError(t, err)

	out := fn(context.Background(), form.Submission{
		Form:   "signup",
		Values: map[string]any{"name": "Ann", "address": map[string]any{"zip": "123"}, "age": int64(30)},
	})
	assert.Nil(t, out.Future())
	assert.Empty(t, out.Results())

	want := "> submit signup\n" +
		">       address.zip = \"123\"\n" +
		">       age = 30\n" +
		">       name = \"Ann\"\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintAutoEmpty(t *testing.T) {
	var buf bytes.Buffer
	fn, err := New(&buf)(nil)
	require.NoError(t, err)

	fn(context.Background(), form.Submission{Form: "f", Auto: true})
	assert.Equal(t, "auto-submit f\n      (empty)\n", buf.String())
}

func TestPrintArgs(t *testing.T) {
	_, err := New(&bytes.Buffer{})(map[string]any{"prefix": int64(1)})
	assert.ErrorContains(t, err, "must be a string")
}

func TestRegister(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	assert.Panics(t, func() { (&Module{}).Register(r) })
}
