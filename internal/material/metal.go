package material

import "github.com/alexiusacademia/gomoscap/internal/units"

// Metal is an equipotential conductor. Its work function may be set only once.
type Metal struct {
	thickness       units.Length
	workFunction    units.Energy
	hasWorkFunction bool
}

// NewMetal creates a metal layer with its work function still unset
func NewMetal(thickness units.Length) *Metal {
	return &Metal{thickness: thickness}
}

// NewMetalWithWorkFunction creates a metal layer with its work function already set
func NewMetalWithWorkFunction(thickness units.Length, workFunction units.Energy) *Metal {
	return &Metal{thickness: thickness, workFunction: workFunction, hasWorkFunction: true}
}

func (m *Metal) Kind() Kind                  { return KindMetal }
func (m *Metal) Thickness() units.Length     { return m.thickness }
func (m *Metal) SetThickness(t units.Length) { m.thickness = t }
func (m *Metal) isLayer()                    {}

func (m *Metal) Clone() Layer {
	c := *m
	return &c
}

// HasWorkFunction reports whether the work function has been set
func (m *Metal) HasWorkFunction() bool { return m.hasWorkFunction }

// WorkFunction returns the work function, failing if it was never set
func (m *Metal) WorkFunction() (units.Energy, error) {
	if !m.hasWorkFunction {
		return units.Energy{}, &WorkFunctionError{Reason: "not set"}
	}
	return m.workFunction, nil
}

// SetWorkFunction sets the work function. A second call is rejected.
func (m *Metal) SetWorkFunction(wf units.Energy) error {
	if m.hasWorkFunction {
		return &WorkFunctionError{Reason: "already set"}
	}
	m.workFunction = wf
	m.hasWorkFunction = true
	return nil
}

// Potential returns the potential at a depth inside the metal relative to
// the metal itself. A metal holds no internal field, so this is zero at
// every depth within [0, thickness].
func (m *Metal) Potential(atDepth units.Length) (units.ElectricPotential, error) {
	if m.thickness.Less(atDepth) {
		return units.ElectricPotential{}, &units.DomainError{
			Quantity: "depth",
			Value:    atDepth.Nanometers(),
			Reason:   "outside the metal layer",
		}
	}
	return units.ElectricPotential{}, nil
}
