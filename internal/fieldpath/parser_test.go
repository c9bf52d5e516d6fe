// internal/fieldpath/parser_test.go
package fieldpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expectErr bool
		expected  Path
	}{
		{name: "single segment", raw: "name", expected: Path{"name"}},
		{name: "nested path", raw: "address.city", expected: Path{"address", "city"}},
		{name: "digits and dashes", raw: "items.line-2.qty_1", expected: Path{"items", "line-2", "qty_1"}},
		{name: "error - empty string", raw: "", expectErr: true},
		{name: "error - empty segment", raw: "a..b", expectErr: true},
		{name: "error - trailing dot", raw: "a.", expectErr: true},
		{name: "error - invalid characters", raw: "a.b[0]", expectErr: true},
		{name: "error - lone dash", raw: "a.-", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse(tc.raw)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, p)
			assert.Equal(t, tc.raw, p.String())
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("a..b") })
	assert.NotPanics(t, func() { MustParse("a.b") })
}

func TestPathHelpers(t *testing.T) {
	p := MustParse("address.city")

	child := p.Child("zip")
	assert.Equal(t, "address.city.zip", child.String())
	assert.Equal(t, "address.city", p.String(), "Child must not mutate the receiver")

	assert.Equal(t, Path{"address"}, p.Parent())
	assert.Empty(t, Path{"a"}.Parent())
	assert.Equal(t, "city", p.Name())
	assert.True(t, p.Equal(New("address", "city")))
	assert.False(t, p.Equal(New("address")))
	assert.Equal(t, []string{"a", "b.c"}, Strings([]Path{MustParse("a"), MustParse("b.c")}))
}
