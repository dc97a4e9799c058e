package model

import "strings"

// ValidationError lists the request fields that are missing or malformed.
// Nothing is persisted when it is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

// fieldErrors accumulates invalid field names.
type fieldErrors []string

func (f *fieldErrors) add(field string) { *f = append(*f, field) }

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}
