package core

import "strings"

// FieldError is a message attached to one form field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is returned when submitted input is rejected, before or by the API.
// Err, when set, is the form-level message; Fields hold the per-field messages in form order.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err *ValidationError) Add(field, msg string) {
	err.Fields = append(err.Fields, FieldError{Field: field, Error: msg})
}

func (err ValidationError) Error() string {
	switch {
	case err.Err != nil:
		return err.Err.Error()
	case len(err.Fields) == 0:
		return ""
	}
	f := err.Fields[0]
	return f.Field + ": " + f.Error
}

// FieldMap indexes the field messages by field name. The first message wins for a repeated field.
func (err ValidationError) FieldMap() map[string]string {
	flds := make(map[string]string, len(err.Fields))
	for _, f := range err.Fields {
		if _, seen := flds[f.Field]; !seen {
			flds[f.Field] = f.Error
		}
	}
	return flds
}

// Summary joins every field message, for outputs without inline errors (logs, the CLI).
func (err ValidationError) Summary() string {
	parts := make([]string, 0, len(err.Fields))
	for _, f := range err.Fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	return strings.Join(parts, "; ")
}
