package services

import (
	"errors"
	"fmt"
)

// ErrDivisionUndefined is returned when a listing has zero monthly rent, so
// the months-of-deposit and months-of-prepaid-rent fields cannot be derived.
var ErrDivisionUndefined = errors.New("monthly rent is zero, derived months are undefined")

// ParseError reports a raw field value that could not be coerced.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("parse %s %q", e.Field, e.Value)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TranslationError reports a failed call to the translation service.
type TranslationError struct {
	Field string
	Err   error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translate %s: %v", e.Field, e.Err)
}

func (e *TranslationError) Unwrap() error { return e.Err }
