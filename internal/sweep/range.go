package sweep

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/gomoscap/internal/units"
)

// MaxPoints bounds the number of bias points in one sweep
const MaxPoints = 100001

// Range is a monotonic bias sweep Start, Start+Step, ... up to Stop.
// Step is negative for a descending sweep.
type Range struct {
	Start units.ElectricPotential
	Stop  units.ElectricPotential
	Step  units.ElectricPotential
}

// NewRange builds a Range from volts
func NewRange(start, stop, step float64) (Range, error) {
	var r Range
	var err error
	if r.Start, err = units.PotentialFromVolts(start); err != nil {
		return Range{}, err
	}
	if r.Stop, err = units.PotentialFromVolts(stop); err != nil {
		return Range{}, err
	}
	if r.Step, err = units.PotentialFromVolts(step); err != nil {
		return Range{}, err
	}
	return r, r.Validate()
}

// Validate checks that Step is non-zero and heads from Start toward Stop
func (r Range) Validate() error {
	span := r.Stop.Sub(r.Start).Volts()
	step := r.Step.Volts()
	if span == 0 {
		return nil
	}
	if step == 0 {
		return fmt.Errorf("sweep step must be non-zero")
	}
	if (span > 0) != (step > 0) {
		return fmt.Errorf("sweep step %g V points away from stop %g V", step, r.Stop.Volts())
	}
	if n := r.count(); n > MaxPoints {
		return fmt.Errorf("sweep has %d points, more than %d", n, MaxPoints)
	}
	return nil
}

// Len returns the number of bias points
func (r Range) Len() int {
	if r.Validate() != nil {
		return 0
	}
	return r.count()
}

func (r Range) count() int {
	span := r.Stop.Sub(r.Start).Volts()
	if span == 0 {
		return 1
	}
	q := span / r.Step.Volts()
	if q >= MaxPoints {
		return MaxPoints + 1
	}
	// tolerate rounding so that Stop is included when it lies on the grid
	return int(math.Floor(q+1e-9)) + 1
}

// Points returns the bias values Start + i·Step
func (r Range) Points() []units.ElectricPotential {
	n := r.Len()
	out := make([]units.ElectricPotential, n)
	for i := range out {
		out[i] = r.Start.Add(r.Step.Scale(float64(i)))
	}
	return out
}
