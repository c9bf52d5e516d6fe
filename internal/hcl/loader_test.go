package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/formgrid/internal/depgraph"
	"github.com/specialistvlad/formgrid/internal/fieldpath"
	"github.com/specialistvlad/formgrid/internal/form"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

const signupHCL = `
form "signup" {
  submit_when_valid = true
  on_submit         = "print"
  submit_args       = { prefix = ">" }
  init_values       = { name = "Alice", address = { city = "Oslo" } }

  field "name" {
    specs = { max_len = 20, trim = false }
  }

  field "confirm_name" {
    validator = "text"
    depends   = [["name"]]
    biz_rule  = "field_match"
    biz_args  = { field = "name", message = "names do not match" }
  }

  field "age" {
    validator     = "number"
    default       = 18
    restore_valid = true
    specs         = { min = 0, max = 150 }
  }

  scope "address" {
    field "city" {
      depends        = ["location"]
      validate_delay = "peace"
    }
    scope "geo" {
      field "lat" {
        validator      = "money"
        validate_delay = 50
      }
    }
  }
}
`

func TestLoad(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"forms/signup.hcl": signupHCL,
		"forms/README.md":  "ignored",
	})

	model, err := NewLoader().Load(context.Background(), filepath.Join(dir, "forms"))
	require.NoError(t, err)
	require.Equal(t, []string{"signup"}, model.Names())

	def := model.Forms["signup"]
	assert.True(t, def.SubmitWhenValid)
	assert.Equal(t, "print", def.OnSubmit)
	assert.Equal(t, map[string]any{"prefix": ">"}, def.SubmitArgs)
	assert.Equal(t, map[string]any{"name": "Alice", "address": map[string]any{"city": "Oslo"}}, def.InitValues)

	var paths []string
	for _, f := range def.Fields {
		paths = append(paths, f.Path.String())
	}
	assert.Equal(t, []string{"name", "confirm_name", "age", "address.city", "address.geo.lat"}, paths)

	name, ok := def.Field(fieldpath.MustParse("name"))
	require.True(t, ok)
	assert.Equal(t, "text", name.Validator)
	assert.Equal(t, map[string]any{"max_len": int64(20), "trim": false}, name.Specs)

	confirm, _ := def.Field(fieldpath.MustParse("confirm_name"))
	assert.Equal(t, []depgraph.Dependency{depgraph.Ref(fieldpath.MustParse("name"))}, confirm.Depends)
	assert.Equal(t, "field_match", confirm.BizRule)
	assert.Equal(t, "names do not match", confirm.BizArgs["message"])

	age, _ := def.Field(fieldpath.MustParse("age"))
	assert.True(t, age.HasDefault)
	assert.Equal(t, int64(18), age.Default)
	assert.True(t, age.RestoreValid)

	city, _ := def.Field(fieldpath.MustParse("address.city"))
	assert.Equal(t, []depgraph.Dependency{depgraph.Group("location")}, city.Depends)
	assert.Equal(t, form.Peace, city.ValidateDelay)

	lat, _ := def.Field(fieldpath.MustParse("address.geo.lat"))
	assert.Equal(t, "money", lat.Validator)
	assert.Equal(t, 50*time.Millisecond, lat.ValidateDelay.Duration())
	assert.False(t, lat.HasDefault)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name    string
		hcl     string
		wantErr string
	}{
		{
			name:    "unknown validator",
			hcl:     "form \"f\" {\n  field \"a\" {\n    validator = \"date\"\n  }\n}\n",
			wantErr: `unknown validator "date"`,
		},
		{
			name:    "unknown delay keyword",
			hcl:     "form \"f\" {\n  field \"a\" {\n    validate_delay = \"soon\"\n  }\n}\n",
			wantErr: `unknown validate delay keyword "soon"`,
		},
		{
			name:    "duplicate field",
			hcl:     "form \"f\" {\n  field \"a\" {}\n  field \"a\" {}\n}\n",
			wantErr: "field a is defined more than once",
		},
		{
			name:    "scope collides with field",
			hcl:     "form \"f\" {\n  field \"a\" {}\n  scope \"a\" {\n    field \"b\" {}\n  }\n}\n",
			wantErr: "scope a collides with a field",
		},
		{
			name:    "duplicate form",
			hcl:     "form \"f\" {}\nform \"f\" {}\n",
			wantErr: `form "f" is defined more than once`,
		},
		{
			name:    "malformed depends",
			hcl:     "form \"f\" {\n  field \"a\" {\n    depends = [1]\n  }\n}\n",
			wantErr: "malformed depends entry",
		},
		{
			name:    "dotted field name",
			hcl:     "form \"f\" {\n  field \"a.b\" {}\n}\n",
			wantErr: `invalid field or scope name "a.b"`,
		},
		{
			name:    "specs must be an object",
			hcl:     "form \"f\" {\n  field \"a\" {\n    specs = \"x\"\n  }\n}\n",
			wantErr: "specs must be an object",
		},
		{
			name:    "syntax error",
			hcl:     `form "f" {`,
			wantErr: "failed to parse HCL file",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeFiles(t, map[string]string{"main.hcl": tc.hcl})
			_, err := NewLoader().Load(context.Background(), dir)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoadDependsForms(t *testing.T) {
	dir := writeFiles(t, map[string]string{"f.hcl": `
form "f" {
  field "a" {}
  field "b" {}

  scope "address" {
    field "city" {}
  }

  field "c" {
    depends = ["a", ["a"], ["address", "city"]]
  }
}
`})

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	c, ok := model.Forms["f"].Field(fieldpath.MustParse("c"))
	require.True(t, ok)
	assert.Equal(t, []depgraph.Dependency{
		depgraph.Group("a"),
		depgraph.Ref(fieldpath.MustParse("a")),
		depgraph.Ref(fieldpath.MustParse("address.city")),
	}, c.Depends, "a bare string names a group, a list of strings is a field path")
}

func TestLoadMissingPathIsIgnored(t *testing.T) {
	model, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, model.Forms)
}

func TestCtyToNative(t *testing.T) {
	val := cty.ObjectVal(map[string]cty.Value{
		"int":   cty.NumberIntVal(3),
		"float": cty.NumberFloatVal(1.5),
		"str":   cty.StringVal("x"),
		"flag":  cty.True,
		"null":  cty.NullVal(cty.String),
		"list":  cty.TupleVal([]cty.Value{cty.StringVal("a"), cty.NumberIntVal(1)}),
	})

	got, err := ctyToNative(val)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"int":   int64(3),
		"float": 1.5,
		"str":   "x",
		"flag":  true,
		"null":  nil,
		"list":  []any{"a", int64(1)},
	}, got)
}
