package structure

import (
	"fmt"

	"github.com/alexiusacademia/gomoscap/internal/material"
)

// Kind classifies a stack by its layer ordering
type Kind int

const (
	KindInvalid Kind = iota
	KindMOS
	KindMIM
)

func (k Kind) String() string {
	switch k {
	case KindMOS:
		return "MOS"
	case KindMIM:
		return "MIM"
	default:
		return "invalid"
	}
}

// layout is the resolved orientation of a valid stack
type layout struct {
	kind Kind
	gate int
	// semiconductor index for MOS, bottom plate index for MIM
	base int
}

// Kind returns KindMOS or KindMIM for a valid stack and KindInvalid otherwise
func (s *Structure) Kind() Kind {
	l, err := s.layout()
	if err != nil {
		return KindInvalid
	}
	return l.kind
}

// IsValid reports whether the layer ordering forms a MOS or MIM capacitor
func (s *Structure) IsValid() bool { return s.Validate() == nil }

// Validate returns an *InvalidStructureError naming the first broken rule
func (s *Structure) Validate() error {
	_, err := s.layout()
	return err
}

// GateIndex returns the index of the gate metal
func (s *Structure) GateIndex() (int, error) {
	l, err := s.layout()
	if err != nil {
		return 0, err
	}
	return l.gate, nil
}

// SemiconductorIndex returns the index of the semiconductor of a MOS stack
func (s *Structure) SemiconductorIndex() (int, error) {
	l, err := s.layout()
	if err != nil {
		return 0, err
	}
	if l.kind != KindMOS {
		return 0, invalid("MIM stack has no semiconductor")
	}
	return l.base, nil
}

func (s *Structure) layout() (layout, error) {
	n := len(s.layers)
	if n == 0 {
		return layout{}, invalid("no layers")
	}

	semi := -1
	dielectrics := 0
	for i, l := range s.layers {
		switch l.(type) {
		case *material.Semiconductor:
			if semi >= 0 {
				return layout{}, invalid(fmt.Sprintf("second semiconductor at layer %d", i))
			}
			semi = i
		case *material.Dielectric:
			dielectrics++
		case *material.Metal:
		default:
			return layout{}, invalid(fmt.Sprintf("unsupported layer %T at %d", l, i))
		}
	}
	if dielectrics == 0 {
		return layout{}, invalid("no dielectric layer")
	}

	if semi < 0 {
		return s.mimLayout()
	}
	return s.mosLayout(semi)
}

func (s *Structure) mosLayout(semi int) (layout, error) {
	n := len(s.layers)
	var gate, next int
	switch semi {
	case 0:
		gate, next = n-1, 1
	case n - 1:
		gate, next = 0, n-2
	default:
		return layout{}, invalid(fmt.Sprintf("semiconductor at layer %d is not at either end of the stack", semi))
	}
	if _, ok := s.layers[next].(*material.Dielectric); !ok {
		return layout{}, invalid(fmt.Sprintf("layer %d next to the semiconductor is a %s, not a dielectric", next, s.layers[next].Kind()))
	}
	if err := s.checkMetals(gate); err != nil {
		return layout{}, err
	}
	return layout{kind: KindMOS, gate: gate, base: semi}, nil
}

func (s *Structure) mimLayout() (layout, error) {
	last := len(s.layers) - 1
	if _, ok := s.layers[0].(*material.Metal); !ok {
		return layout{}, invalid("MIM stack must start with a metal")
	}
	if err := s.checkMetals(last); err != nil {
		return layout{}, err
	}
	return layout{kind: KindMIM, gate: last, base: 0}, nil
}

// checkMetals requires a metal at gate and a work function on every metal
func (s *Structure) checkMetals(gate int) error {
	if _, ok := s.layers[gate].(*material.Metal); !ok {
		return invalid(fmt.Sprintf("layer %d at the gate end is a %s, not a metal", gate, s.layers[gate].Kind()))
	}
	for i, l := range s.layers {
		if m, ok := l.(*material.Metal); ok && !m.HasWorkFunction() {
			return invalid(fmt.Sprintf("metal at layer %d has no work function", i))
		}
	}
	return nil
}
