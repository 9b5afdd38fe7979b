package structure

import "errors"

// ErrSolveInProgress is returned when a bias solve is requested while
// another solve on the same Structure has not finished
var ErrSolveInProgress = errors.New("a bias solve is already in progress for this structure")

// InvalidStructureError is returned when an aggregate quantity is requested
// from a structure whose layer ordering is not a valid MOS or MIM stack
type InvalidStructureError struct {
	Reason string
}

func (e *InvalidStructureError) Error() string {
	return "invalid structure: " + e.Reason
}

func invalid(reason string) error {
	return &InvalidStructureError{Reason: reason}
}
