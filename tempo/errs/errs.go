// Package errs holds the error taxonomy shared by the timing core.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNonPositiveDuration = errors.New("duration must be positive")
	ErrNegativeDuration    = errors.New("duration must not be negative")
	ErrInvalidRepeat       = errors.New("repeat count must be -1 or greater")
	ErrInvalidLaps         = errors.New("invalid lap count")
	ErrLengthMismatch      = errors.New("start and end values differ in length")
	ErrEmptyValue          = errors.New("value has no components")
	ErrInvalidMode         = errors.New("unknown timer mode")
)

// ConfigError reports a misconfiguration detected at construction time.
type ConfigError struct {
	Component string
	Field     string
	Value     any
	Err       error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: invalid %s %v: %v", e.Component, e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Config builds a *ConfigError.
func Config(component, field string, value any, err error) error {
	return &ConfigError{Component: component, Field: field, Value: value, Err: err}
}

// Diagnostic receives invalid state transitions, which are otherwise ignored.
type Diagnostic func(component, op string, from fmt.Stringer)
