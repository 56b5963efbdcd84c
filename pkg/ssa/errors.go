package ssa

import (
	"errors"
	"fmt"
)

// Engine errors
var (
	// ErrInvalidParameter is returned before any step runs when the inputs are out of range or inconsistent
	ErrInvalidParameter = errors.New("ssa: invalid parameter")

	// ErrSourceExhausted is returned by a random source that has no more draws to give
	ErrSourceExhausted = errors.New("ssa: random source exhausted")

	// ErrInvalidDraw is returned when a source produces a value outside its contract
	ErrInvalidDraw = errors.New("ssa: random source produced an invalid draw")

	// ErrEventBudget is returned when a caller-imposed event budget runs out before termination
	ErrEventBudget = errors.New("ssa: event budget exceeded")
)

// ParameterError describes a rejected input
type ParameterError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("ssa: invalid parameter %s=%v: %s", e.Field, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

func invalid(field string, value interface{}, reason string) error {
	return &ParameterError{Field: field, Value: value, Reason: reason}
}
