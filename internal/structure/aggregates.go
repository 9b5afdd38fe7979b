package structure

import (
	"fmt"

	"github.com/alexiusacademia/gomoscap/internal/material"
	"github.com/alexiusacademia/gomoscap/internal/units"
)

// EquivalentOxideThickness sums the EOT of every dielectric in the stack
func (s *Structure) EquivalentOxideThickness() (units.Length, error) {
	if err := s.Validate(); err != nil {
		return units.Length{}, err
	}
	var eot units.Length
	for _, d := range s.dielectrics() {
		eot = eot.Add(d.EquivalentOxideThickness())
	}
	return eot, nil
}

// OxideCapacitance returns the series capacitance of all dielectric layers
func (s *Structure) OxideCapacitance() (units.CapacitanceDensity, error) {
	if err := s.Validate(); err != nil {
		return units.CapacitanceDensity{}, err
	}
	return s.oxideCapacitance()
}

func (s *Structure) oxideCapacitance() (units.CapacitanceDensity, error) {
	var caps []units.CapacitanceDensity
	for i, l := range s.layers {
		d, ok := l.(*material.Dielectric)
		if !ok {
			continue
		}
		c, err := d.Capacitance()
		if err != nil {
			return units.CapacitanceDensity{}, fmt.Errorf("dielectric at layer %d: %w", i, err)
		}
		caps = append(caps, c)
	}
	return units.Series(caps...), nil
}

// StackCapacitance returns the small-signal capacitance of the whole stack:
// the dielectrics in series with the semiconductor at its current surface
// potential. For a MIM stack it equals OxideCapacitance.
func (s *Structure) StackCapacitance() (units.CapacitanceDensity, error) {
	l, err := s.layout()
	if err != nil {
		return units.CapacitanceDensity{}, err
	}
	for i, layer := range s.layers {
		if layer.Thickness().IsZero() {
			return units.CapacitanceDensity{}, fmt.Errorf("layer %d (%s) has zero thickness", i, layer.Kind())
		}
	}
	cox, err := s.oxideCapacitance()
	if err != nil {
		return units.CapacitanceDensity{}, err
	}
	if l.kind == KindMIM {
		return cox, nil
	}
	cs, err := s.semiconductor(l).CapacitanceDensity()
	if err != nil {
		return units.CapacitanceDensity{}, err
	}
	return units.Series(cox, cs), nil
}

// FlatbandVoltage returns the gate bias at which the semiconductor bands
// are flat: Φgate - Φsemiconductor. For MIM it is the work-function
// difference of the gate and the bottom plate.
func (s *Structure) FlatbandVoltage() (units.ElectricPotential, error) {
	l, err := s.layout()
	if err != nil {
		return units.ElectricPotential{}, err
	}
	return s.flatband(l)
}

func (s *Structure) flatband(l layout) (units.ElectricPotential, error) {
	gate, err := s.layers[l.gate].(*material.Metal).WorkFunction()
	if err != nil {
		return units.ElectricPotential{}, err
	}
	var base units.Energy
	if l.kind == KindMOS {
		base, err = s.semiconductor(l).WorkFunction()
	} else {
		base, err = s.layers[l.base].(*material.Metal).WorkFunction()
	}
	if err != nil {
		return units.ElectricPotential{}, err
	}
	return gate.Sub(base).Potential(), nil
}

// ThresholdVoltage returns the gate bias that brings the surface to strong
// inversion, ψ = 2φB toward the minority band
func (s *Structure) ThresholdVoltage() (units.ElectricPotential, error) {
	l, err := s.layout()
	if err != nil {
		return units.ElectricPotential{}, err
	}
	if l.kind != KindMOS {
		return units.ElectricPotential{}, invalid("threshold voltage needs a semiconductor")
	}
	sc := s.semiconductor(l)
	vfb, err := s.flatband(l)
	if err != nil {
		return units.ElectricPotential{}, err
	}
	cox, err := s.oxideCapacitance()
	if err != nil {
		return units.ElectricPotential{}, err
	}
	psi, err := sc.InversionSurfacePotential()
	if err != nil {
		return units.ElectricPotential{}, err
	}
	q, err := sc.ChargeDensity(psi)
	if err != nil {
		return units.ElectricPotential{}, err
	}
	return vfb.Add(psi).Sub(units.PotentialAcross(q, cox)), nil
}

func (s *Structure) semiconductor(l layout) *material.Semiconductor {
	return s.layers[l.base].(*material.Semiconductor)
}

func (s *Structure) dielectrics() []*material.Dielectric {
	var out []*material.Dielectric
	for _, l := range s.layers {
		if d, ok := l.(*material.Dielectric); ok {
			out = append(out, d)
		}
	}
	return out
}

// Summary collects the scalar outputs of a valid structure at its current bias
type Summary struct {
	Kind                     Kind
	Bias                     units.ElectricPotential
	FlatbandVoltage          units.ElectricPotential
	EquivalentOxideThickness units.Length
	OxideCapacitance         units.CapacitanceDensity
	StackCapacitance         units.CapacitanceDensity
	// MOS only
	ThresholdVoltage    units.ElectricPotential
	SurfacePotential    units.ElectricPotential
	BulkPotential       units.ElectricPotential
	WorkFunction        units.Energy
	FlatbandCapacitance units.CapacitanceDensity
	DebyeLength         units.Length
}

// Summary computes every aggregate quantity
func (s *Structure) Summary() (Summary, error) {
	l, err := s.layout()
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Kind: l.kind, Bias: s.bias}
	if sum.FlatbandVoltage, err = s.flatband(l); err != nil {
		return Summary{}, err
	}
	if sum.EquivalentOxideThickness, err = s.EquivalentOxideThickness(); err != nil {
		return Summary{}, err
	}
	if sum.OxideCapacitance, err = s.oxideCapacitance(); err != nil {
		return Summary{}, err
	}
	if sum.StackCapacitance, err = s.StackCapacitance(); err != nil {
		return Summary{}, err
	}
	if l.kind != KindMOS {
		return sum, nil
	}

	sc := s.semiconductor(l)
	sum.SurfacePotential = sc.SurfacePotential()
	if sum.ThresholdVoltage, err = s.ThresholdVoltage(); err != nil {
		return Summary{}, err
	}
	if sum.BulkPotential, err = sc.BulkPotential(); err != nil {
		return Summary{}, err
	}
	if sum.WorkFunction, err = sc.WorkFunction(); err != nil {
		return Summary{}, err
	}
	if sum.DebyeLength, err = sc.DebyeLength(); err != nil {
		return Summary{}, err
	}
	cfb, err := sc.FlatbandCapacitance()
	if err != nil {
		return Summary{}, err
	}
	sum.FlatbandCapacitance = units.Series(sum.OxideCapacitance, cfb)
	return sum, nil
}
