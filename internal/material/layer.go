// Package material models the layers of a MOS or MIM stack.
//
// The set of layer kinds is closed: Metal, Dielectric and Semiconductor are
// the only implementations of Layer, enforced by an unexported marker method.
package material

import (
	"fmt"
	"strings"

	"github.com/alexiusacademia/gomoscap/internal/units"
)

// Kind identifies the variant of a Layer
type Kind int

const (
	KindMetal Kind = iota
	KindDielectric
	KindSemiconductor
)

func (k Kind) String() string {
	switch k {
	case KindMetal:
		return "metal"
	case KindDielectric:
		return "dielectric"
	case KindSemiconductor:
		return "semiconductor"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses a layer kind name (case-insensitive)
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "metal", "m":
		return KindMetal, nil
	case "dielectric", "oxide", "insulator", "d":
		return KindDielectric, nil
	case "semiconductor", "s":
		return KindSemiconductor, nil
	}
	return 0, fmt.Errorf("unknown layer type %q", s)
}

// Layer is one slab of the stack
type Layer interface {
	Kind() Kind
	Thickness() units.Length
	SetThickness(units.Length)

	// Clone returns an independent copy of the layer
	Clone() Layer

	isLayer()
}

// NotAttachedError is returned when a temperature-dependent semiconductor
// quantity is read before the layer belongs to a Structure
type NotAttachedError struct {
	Quantity string
}

func (e *NotAttachedError) Error() string {
	return fmt.Sprintf("%s is undefined until the semiconductor is attached to a structure", e.Quantity)
}

// AlreadyAttachedError is returned when a semiconductor attached at one
// temperature is attached again at a different one
type AlreadyAttachedError struct {
	Attached  units.Temperature
	Requested units.Temperature
}

func (e *AlreadyAttachedError) Error() string {
	return fmt.Sprintf("semiconductor already attached at %.2f K, cannot attach at %.2f K",
		e.Attached.Kelvin(), e.Requested.Kelvin())
}

// WorkFunctionError reports misuse of a metal's write-once work function
type WorkFunctionError struct {
	Reason string
}

func (e *WorkFunctionError) Error() string {
	return "metal work function: " + e.Reason
}
