package spec

import (
	"errors"
	"fmt"
)

// SpecErrorKind categorizes spec compilation failures.
type SpecErrorKind int

const (
	// KindMalformed indicates the document is not valid JSON.
	KindMalformed SpecErrorKind = iota
	// KindUnsupported indicates the document is valid JSON but neither a
	// Postman collection nor an OpenAPI document.
	KindUnsupported
	// KindMissingField indicates a required top-level field is absent.
	KindMissingField
	// KindBadPlaceholder indicates a path template placeholder that cannot
	// be resolved into a path parameter.
	KindBadPlaceholder
)

// String returns a human-readable name for the error kind.
func (k SpecErrorKind) String() string {
	switch k {
	case KindMalformed:
		return "malformed JSON"
	case KindUnsupported:
		return "unsupported spec format"
	case KindMissingField:
		return "missing required field"
	case KindBadPlaceholder:
		return "unresolvable path placeholder"
	default:
		return "spec error"
	}
}

// SpecError is a fatal spec compilation failure. It names the offending
// document and, when known, the location within it.
type SpecError struct {
	// Kind categorizes the failure.
	Kind SpecErrorKind
	// Document is the name or path of the offending spec document.
	Document string
	// Location pinpoints the problem inside the document (a path template,
	// field name, or item path). May be empty.
	Location string
	// Reason is the underlying error, if any.
	Reason error
}

// Error returns a message naming the document and location.
func (e *SpecError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Document, e.Kind)
	if e.Location != "" {
		msg += fmt.Sprintf(" at %s", e.Location)
	}
	if e.Reason != nil {
		msg += fmt.Sprintf(": %v", e.Reason)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *SpecError) Unwrap() error {
	return e.Reason
}

// Is reports whether target is a *SpecError, enabling errors.Is checks
// against the type without comparing fields.
func (e *SpecError) Is(target error) bool {
	var specErr *SpecError
	return errors.As(target, &specErr)
}
