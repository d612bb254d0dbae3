package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is wrapped by every "missing entity" error returned by the services
var ErrNotFound = errors.New("not found")

var (
	ErrOrderNotFound  = fmt.Errorf("order %w", ErrNotFound)
	ErrDishNotFound   = fmt.Errorf("dish %w", ErrNotFound)
	ErrDishNotInOrder = fmt.Errorf("dish %w in order", ErrNotFound)
	ErrLineNotFound   = fmt.Errorf("order line %w", ErrNotFound)
)

// ValidationError reports malformed input, keyed by field name
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// add records a field problem, creating the error lazily
func (e *ValidationError) add(field, message string) *ValidationError {
	if e == nil {
		e = &ValidationError{}
	}
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = message
	return e
}

// orNil keeps a nil *ValidationError from turning into a non-nil error interface
func (e *ValidationError) orNil() error {
	if e == nil {
		return nil
	}
	return e
}

// wrapError prefixes err with the failing operation. Sentinel and typed
// errors stay reachable through errors.Is and errors.As.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
