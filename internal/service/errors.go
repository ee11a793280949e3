package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound means no task exists with the requested ID.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the task exists but the caller does not own it.
	// Returning it (rather than ErrNotFound) leaks existence; that is the
	// documented policy, matching what the guard decides for every action.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError reports user-correctable input problems with
// field-level detail. It maps to 422 at the HTTP boundary.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
