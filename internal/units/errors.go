// Package units provides dimensioned scalar types for the physical
// quantities used by the MOS/MIM engine.
//
// Every quantity is its own struct type holding a value in a canonical
// unit, so a Length can never be added to, assigned to or compared with an
// Energy. Values are built through named-unit constructors that reject
// non-finite or non-physical input with a *DomainError.
package units

import (
	"fmt"
	"math"
)

// DomainError reports an invalid value passed to a unit constructor
type DomainError struct {
	Quantity string
	Value    float64
	Reason   string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("invalid %s %g: %s", e.Quantity, e.Value, e.Reason)
}

// Must unwraps a constructor result and panics on error.
// Intended for literal constants and tables.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func finite(quantity string, v float64) error {
	if math.IsNaN(v) {
		return &DomainError{Quantity: quantity, Value: v, Reason: "value is NaN"}
	}
	if math.IsInf(v, 0) {
		return &DomainError{Quantity: quantity, Value: v, Reason: "value is infinite"}
	}
	return nil
}

func nonNegative(quantity string, v float64) error {
	if err := finite(quantity, v); err != nil {
		return err
	}
	if v < 0 {
		return &DomainError{Quantity: quantity, Value: v, Reason: "must not be negative"}
	}
	return nil
}

func positive(quantity string, v float64) error {
	if err := finite(quantity, v); err != nil {
		return err
	}
	if v <= 0 {
		return &DomainError{Quantity: quantity, Value: v, Reason: "must be positive"}
	}
	return nil
}
