// Package forms validates the site's forms and hands valid submissions to
// a Submitter.
package forms

import (
	"context"
	"regexp"
	"strings"
)

// Kind selects the format check applied to a field.
type Kind int

const (
	Text Kind = iota
	Email
	Phone
)

// Whitespace here includes the Unicode space separators, \v and the BOM,
// matching what browsers treat as \s. RE2's \s is ASCII only.
var (
	emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s\v\p{Z}\x{FEFF}\-()+]{10,}$`)
)

// Validation messages.
const (
	MsgRequired     = "This field is required"
	MsgInvalidEmail = "Enter a valid email address"
	MsgInvalidPhone = "Enter a valid phone number"
)

// Field describes one input.
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
}

// FieldError is a validation failure on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Values holds submitted input keyed by field name.
type Values map[string]string

// Form is a named set of fields with its status messages.
type Form struct {
	ID      string
	Title   string
	Fields  []Field
	Sending string
	Success string
	Failure string
}

// ValidateField checks one value. Blank optional fields pass; anything
// non-blank must match the field's kind.
func ValidateField(f Field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		if f.Required {
			return FieldError{Field: f.Name, Message: MsgRequired}
		}
		return nil
	}
	switch f.Kind {
	case Email:
		if !emailPattern.MatchString(value) {
			return FieldError{Field: f.Name, Message: MsgInvalidEmail}
		}
	case Phone:
		if !phonePattern.MatchString(value) {
			return FieldError{Field: f.Name, Message: MsgInvalidPhone}
		}
	}
	return nil
}

// Validate checks every field and returns the failures in field order.
func (f Form) Validate(values Values) []FieldError {
	var errs []FieldError
	for _, field := range f.Fields {
		if err := ValidateField(field, values[field.Name]); err != nil {
			errs = append(errs, err.(FieldError))
		}
	}
	return errs
}

// Field returns the field with the given name.
func (f Form) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Status is the lifecycle of one submission as shown to the user.
type Status int

const (
	StatusIdle Status = iota
	StatusInvalid
	StatusSending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusInvalid:
		return "invalid"
	case StatusSending:
		return "sending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Result is the outcome of Submit.
type Result struct {
	Status  Status
	Message string
	Errors  []FieldError
	Err     error
}

// Submit validates values and, if they pass, sends them through s. Failed
// sends are reported in the result and never retried.
func Submit(ctx context.Context, s Submitter, form Form, values Values) Result {
	if errs := form.Validate(values); len(errs) > 0 {
		return Result{Status: StatusInvalid, Errors: errs}
	}
	clean := make(Values, len(values))
	for k, v := range values {
		clean[k] = strings.TrimSpace(v)
	}
	if err := s.Submit(ctx, Submission{Form: form.ID, Values: clean}); err != nil {
		return Result{Status: StatusError, Message: form.Failure, Err: err}
	}
	return Result{Status: StatusSuccess, Message: form.Success}
}
