package form

import (
	"github.com/specialistvlad/formgrid/internal/fieldpath"
	"github.com/specialistvlad/formgrid/internal/scope"
)

// computeFormStatus rolls field statuses up: any invalid field makes the
// form invalid, otherwise any unsettled field makes it toBeConfirm.
func computeFormStatus(fields *scope.Branch[FieldState]) FormStatus {
	status := FormValid
	fields.Walk(func(_ fieldpath.Path, fs FieldState) bool {
		switch fs.Status {
		case StatusInvalid:
			status = FormInvalid
			return false
		case StatusToBeValid, StatusValidating:
			status = FormToBeConfirm
		}
		return true
	})
	return status
}

// fieldStatusChanged adjusts the form status after one field moved from
// prev to curr, avoiding a full scan where the outcome is known.
func fieldStatusChanged(st FormState, prev, curr Status) FormState {
	if prev == curr {
		return st
	}
	switch curr {
	case StatusInvalid:
		st.Status = FormInvalid
	case StatusToBeValid, StatusValidating:
		switch {
		case st.Status != FormInvalid:
			st.Status = FormToBeConfirm
		case prev == StatusInvalid:
			st.Status = computeFormStatus(st.Fields)
		}
	case StatusValid:
		st.Status = computeFormStatus(st.Fields)
	}
	return st
}
