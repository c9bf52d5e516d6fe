package form

import (
	"github.com/specialistvlad/formgrid/internal/fieldpath"
)

// KeyEnter is the key that validates a field immediately.
const KeyEnter = "Enter"

func (f *Form) focus(path fieldpath.Path) {
	f.updateField("widgetOnFocus", path, func(fs FieldState) FieldState {
		fs.HasFocus = true
		return fs
	})
}

func (f *Form) blur(path fieldpath.Path) {
	f.blurred(path)
	fs := f.fieldState(path)
	if fs.Status == StatusToBeValid && fs.EverHadValue {
		f.validate(path, false)
	}
}

func (f *Form) keyPress(path fieldpath.Path, key string) {
	if key == KeyEnter {
		f.validate(path, false)
	}
}

// change records a user edit. A focused field validates after its
// debounce; OnChange fires when any widget value differs from last time.
func (f *Form) change(path fieldpath.Path, v any) {
	f.setValue(path, v)

	fi := f.field(path)
	if f.fieldState(path).HasFocus {
		switch d := fi.config.ValidateDelay.Duration(); {
		case d == 0:
			f.validate(path, false)
		case d > 0:
			f.clearValidateTimer(fi)
			f.scheduleValidation(fi, d)
		}
	}

	if f.config.OnChange == nil {
		return
	}
	props := f.extractValues(true)
	if f.hasLatestProps && sameValue(props, f.latestPropsValues) {
		return
	}
	f.latestPropsValues, f.hasLatestProps = props, true
	f.post = append(f.post, f.config.OnChange)
}
