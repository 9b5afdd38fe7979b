// Package stackfile reads and writes stack definitions: an ordered list of
// layers plus the ambient temperature, as YAML or JSON.
package stackfile

import (
	"fmt"
	"strings"

	"github.com/alexiusacademia/gomoscap/internal/library"
	"github.com/alexiusacademia/gomoscap/internal/material"
)

// DefaultTemperature is used when a stack file omits temperature_k
const DefaultTemperature = 300.0

// Stack is a stack definition. Layers are listed from the bottom of the
// stack (index 0) to the top.
type Stack struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Temperature float64 `json:"temperature_k,omitempty" yaml:"temperature_k,omitempty"` // K
	Layers      []Layer `json:"layers" yaml:"layers"`
}

// Layer is one layer of a stack definition. Material names a library
// preset; explicit fields override the preset's values.
type Layer struct {
	Type      string  `json:"type,omitempty" yaml:"type,omitempty"` // metal, dielectric or semiconductor
	Material  string  `json:"material,omitempty" yaml:"material,omitempty"`
	Thickness float64 `json:"thickness_nm" yaml:"thickness_nm"`

	WorkFunction           *float64 `json:"work_function_ev,omitempty" yaml:"work_function_ev,omitempty"`
	DielectricConstant     *float64 `json:"dielectric_constant,omitempty" yaml:"dielectric_constant,omitempty"`
	BandGap                *float64 `json:"band_gap_ev,omitempty" yaml:"band_gap_ev,omitempty"`
	ElectronAffinity       *float64 `json:"electron_affinity_ev,omitempty" yaml:"electron_affinity_ev,omitempty"`
	IntrinsicConcentration *float64 `json:"intrinsic_concentration_cm3,omitempty" yaml:"intrinsic_concentration_cm3,omitempty"`
	Doping                 string   `json:"doping,omitempty" yaml:"doping,omitempty"` // n or p
	DopantConcentration    *float64 `json:"dopant_concentration_cm3,omitempty" yaml:"dopant_concentration_cm3,omitempty"`
}

// ValidationError represents a malformed stack definition
type ValidationError struct {
	Layer int // 1-based, 0 for document-level problems
	msg   string
}

func (e *ValidationError) Error() string {
	if e.Layer > 0 {
		return fmt.Sprintf("layer %d: %s", e.Layer, e.msg)
	}
	return e.msg
}

// Validate checks the definition without building any layers
func (s *Stack) Validate() error {
	if len(s.Layers) == 0 {
		return &ValidationError{msg: "stack must have at least one layer"}
	}
	if s.Temperature < 0 {
		return &ValidationError{msg: "temperature_k must be positive"}
	}
	for i := range s.Layers {
		if err := s.Layers[i].validate(); err != nil {
			return &ValidationError{Layer: i + 1, msg: err.Error()}
		}
	}
	return nil
}

// Kelvin returns the stack temperature, defaulting to 300 K
func (s *Stack) Kelvin() float64 {
	if s.Temperature == 0 {
		return DefaultTemperature
	}
	return s.Temperature
}

// spec is a layer with its preset merged under its explicit fields
type spec struct {
	kind                   material.Kind
	workFunction           float64
	hasWorkFunction        bool
	dielectricConstant     float64
	bandGap                float64
	electronAffinity       float64
	intrinsicConcentration float64
}

func (l *Layer) validate() error {
	sp, err := l.merge()
	if err != nil {
		return err
	}
	if l.Thickness <= 0 {
		return fmt.Errorf("thickness_nm must be positive")
	}

	switch sp.kind {
	case material.KindDielectric:
		if sp.dielectricConstant == 0 {
			return fmt.Errorf("dielectric needs dielectric_constant or a material")
		}
	case material.KindSemiconductor:
		switch {
		case sp.dielectricConstant == 0:
			return fmt.Errorf("semiconductor needs dielectric_constant or a material")
		case sp.bandGap == 0:
			return fmt.Errorf("semiconductor needs band_gap_ev or a material")
		case sp.intrinsicConcentration == 0:
			return fmt.Errorf("semiconductor needs intrinsic_concentration_cm3 or a material")
		}
		if _, err := material.ParseDopingType(l.Doping); err != nil {
			return err
		}
		if l.DopantConcentration == nil || *l.DopantConcentration <= 0 {
			return fmt.Errorf("semiconductor needs a positive dopant_concentration_cm3")
		}
	}
	return nil
}

func (l *Layer) merge() (spec, error) {
	kind, preset, err := l.resolve()
	if err != nil {
		return spec{}, err
	}
	sp := spec{kind: kind}
	if preset != nil {
		sp.workFunction = preset.WorkFunction
		sp.hasWorkFunction = kind == material.KindMetal
		sp.dielectricConstant = preset.DielectricConstant
		sp.bandGap = preset.BandGap
		sp.electronAffinity = preset.ElectronAffinity
		sp.intrinsicConcentration = preset.IntrinsicConcentration
	}
	override := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	if l.WorkFunction != nil {
		sp.hasWorkFunction = true
	}
	override(&sp.workFunction, l.WorkFunction)
	override(&sp.dielectricConstant, l.DielectricConstant)
	override(&sp.bandGap, l.BandGap)
	override(&sp.electronAffinity, l.ElectronAffinity)
	override(&sp.intrinsicConcentration, l.IntrinsicConcentration)
	return sp, nil
}

// resolve determines the layer kind from type and material
func (l *Layer) resolve() (material.Kind, *library.Preset, error) {
	var preset *library.Preset
	if l.Material != "" {
		p, ok := library.Lookup(l.Material)
		if !ok {
			return 0, nil, fmt.Errorf("unknown material %q (known: %s)", l.Material, strings.Join(library.Names(), ", "))
		}
		preset = &p
	}

	if l.Type == "" {
		if preset == nil {
			return 0, nil, fmt.Errorf("layer needs a type or a material")
		}
		return preset.Kind, preset, nil
	}
	kind, err := material.ParseKind(l.Type)
	if err != nil {
		return 0, nil, err
	}
	if preset != nil && preset.Kind != kind {
		return 0, nil, fmt.Errorf("material %s is a %s, not a %s", preset.Name, preset.Kind, kind)
	}
	return kind, preset, nil
}
