package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/formgrid/internal/depgraph"
	"github.com/specialistvlad/formgrid/internal/fieldpath"
	"github.com/specialistvlad/formgrid/internal/scope"
)

func statesOf(statuses ...Status) *scope.Branch[FieldState] {
	b := scope.NewBranch[FieldState]()
	for i, s := range statuses {
		b = b.MustWith(fieldpath.New(string(rune('a'+i))), FieldState{Status: s})
	}
	return b
}

func TestComputeFormStatus(t *testing.T) {
	testCases := []struct {
		name     string
		statuses []Status
		want     FormStatus
	}{
		{"empty form", nil, FormValid},
		{"all valid", []Status{StatusValid, StatusValid}, FormValid},
		{"pending field", []Status{StatusValid, StatusToBeValid}, FormToBeConfirm},
		{"validating field", []Status{StatusValidating, StatusValid}, FormToBeConfirm},
		{"invalid wins over pending", []Status{StatusToBeValid, StatusInvalid, StatusValidating}, FormInvalid},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, computeFormStatus(statesOf(tc.statuses...)))
		})
	}
}

func TestFieldStatusChanged(t *testing.T) {
	t.Run("unchanged status leaves form alone", func(t *testing.T) {
		st := FormState{Fields: statesOf(StatusInvalid), Status: FormValid}
		assert.Equal(t, FormValid, fieldStatusChanged(st, StatusInvalid, StatusInvalid).Status)
	})

	t.Run("invalid field makes form invalid", func(t *testing.T) {
		st := FormState{Fields: statesOf(StatusInvalid), Status: FormValid}
		assert.Equal(t, FormInvalid, fieldStatusChanged(st, StatusValid, StatusInvalid).Status)
	})

	t.Run("pending field on a valid form needs confirmation", func(t *testing.T) {
		st := FormState{Fields: statesOf(StatusToBeValid), Status: FormValid}
		assert.Equal(t, FormToBeConfirm, fieldStatusChanged(st, StatusValid, StatusToBeValid).Status)
	})

	t.Run("pending field keeps another field's invalidity", func(t *testing.T) {
		st := FormState{Fields: statesOf(StatusInvalid, StatusToBeValid), Status: FormInvalid}
		assert.Equal(t, FormInvalid, fieldStatusChanged(st, StatusValid, StatusToBeValid).Status)
	})

	t.Run("leaving invalid recomputes", func(t *testing.T) {
		st := FormState{Fields: statesOf(StatusValid, StatusToBeValid), Status: FormInvalid}
		assert.Equal(t, FormToBeConfirm, fieldStatusChanged(st, StatusInvalid, StatusToBeValid).Status)
	})

	t.Run("valid field recomputes", func(t *testing.T) {
		st := FormState{Fields: statesOf(StatusValid, StatusValid), Status: FormToBeConfirm}
		assert.Equal(t, FormValid, fieldStatusChanged(st, StatusValidating, StatusValid).Status)
	})
}

func TestDelay(t *testing.T) {
	assert.Equal(t, 200*time.Millisecond, Delay{}.Duration(), "zero delay is intime")
	assert.Equal(t, time.Duration(-1), Lazy.Duration())
	assert.Equal(t, time.Duration(0), Realtime.Duration())
	assert.Equal(t, 700*time.Millisecond, Peace.Duration())
	assert.Equal(t, Lazy, After(-time.Second))
	assert.Equal(t, 50*time.Millisecond, After(50*time.Millisecond).Duration())

	d, err := ParseDelay("peace")
	require.NoError(t, err)
	assert.Equal(t, Peace, d)

	_, err = ParseDelay("soon")
	assert.ErrorContains(t, err, "unknown validate delay")
}

func TestRecoverState(t *testing.T) {
	st := FormState{Fields: statesOf(StatusValid, StatusValidating), Status: FormToBeConfirm, Submitting: true}
	got := recoverState(st)
	assert.False(t, got.Submitting)
	fs, ok := got.Fields.Get(fieldpath.New("b"))
	require.True(t, ok)
	assert.Equal(t, StatusToBeValid, fs.Status)
	assert.Equal(t, FormToBeConfirm, got.Status)
}

func TestConfigValidate(t *testing.T) {
	a := fieldpath.New("a")
	ok := Config{Fields: scope.NewBranch[FieldConfig]().
		MustWith(a, FieldConfig{Depends: []depgraph.Dependency{depgraph.Group("g"), depgraph.Ref(fieldpath.New("b"))}})}
	assert.NoError(t, ok.Validate())

	bad := Config{Fields: scope.NewBranch[FieldConfig]().
		MustWith(a, FieldConfig{Depends: []depgraph.Dependency{depgraph.Ref(a), depgraph.Group("")}})}
	err := bad.Validate()
	assert.ErrorContains(t, err, "field a: depends on itself")
	assert.ErrorContains(t, err, "field a: empty dependency group")
}
