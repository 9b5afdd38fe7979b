package stackfile

import (
	"fmt"

	"github.com/alexiusacademia/gomoscap/internal/material"
	"github.com/alexiusacademia/gomoscap/internal/structure"
	"github.com/alexiusacademia/gomoscap/internal/units"
)

// Build creates the structure described by the stack. The result may still
// be an invalid MOS/MIM ordering; check Structure.Validate.
func (s *Stack) Build() (*structure.Structure, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	t, err := units.TemperatureFromKelvin(s.Kelvin())
	if err != nil {
		return nil, err
	}
	layers := make([]material.Layer, len(s.Layers))
	for i := range s.Layers {
		l, err := s.Layers[i].Build()
		if err != nil {
			return nil, &ValidationError{Layer: i + 1, msg: err.Error()}
		}
		layers[i] = l
	}
	return structure.New(t, layers...)
}

// Build creates the material layer described by l
func (l *Layer) Build() (material.Layer, error) {
	sp, err := l.merge()
	if err != nil {
		return nil, err
	}
	thickness, err := units.LengthFromNanometers(l.Thickness)
	if err != nil {
		return nil, err
	}

	switch sp.kind {
	case material.KindMetal:
		if !sp.hasWorkFunction {
			return material.NewMetal(thickness), nil
		}
		wf, err := units.EnergyFromElectronVolts(sp.workFunction)
		if err != nil {
			return nil, err
		}
		return material.NewMetalWithWorkFunction(thickness, wf), nil

	case material.KindDielectric:
		gap, err := units.EnergyFromElectronVolts(sp.bandGap)
		if err != nil {
			return nil, err
		}
		chi, err := units.EnergyFromElectronVolts(sp.electronAffinity)
		if err != nil {
			return nil, err
		}
		return material.NewDielectric(thickness, sp.dielectricConstant, gap, chi)

	case material.KindSemiconductor:
		doping, err := material.ParseDopingType(l.Doping)
		if err != nil {
			return nil, err
		}
		if l.DopantConcentration == nil {
			return nil, fmt.Errorf("semiconductor needs dopant_concentration_cm3")
		}
		p := material.SemiconductorParams{
			Thickness:          thickness,
			DielectricConstant: sp.dielectricConstant,
			Doping:             doping,
		}
		if p.BandGap, err = units.EnergyFromElectronVolts(sp.bandGap); err != nil {
			return nil, err
		}
		if p.ElectronAffinity, err = units.EnergyFromElectronVolts(sp.electronAffinity); err != nil {
			return nil, err
		}
		if p.IntrinsicConcentration, err = units.ConcentrationFromPerCubicCentimeter(sp.intrinsicConcentration); err != nil {
			return nil, err
		}
		if p.DopantConcentration, err = units.ConcentrationFromPerCubicCentimeter(*l.DopantConcentration); err != nil {
			return nil, err
		}
		return material.NewSemiconductor(p)
	}
	return nil, fmt.Errorf("unsupported layer kind %s", sp.kind)
}

// FromStructure describes an existing structure with explicit values for
// every layer
func FromStructure(name string, st *structure.Structure) *Stack {
	s := &Stack{Name: name, Temperature: st.Temperature().Kelvin()}
	for _, layer := range st.Layers() {
		l := Layer{Type: layer.Kind().String(), Thickness: layer.Thickness().Nanometers()}
		switch v := layer.(type) {
		case *material.Metal:
			if wf, err := v.WorkFunction(); err == nil {
				l.WorkFunction = ptr(wf.ElectronVolts())
			}
		case *material.Dielectric:
			l.DielectricConstant = ptr(v.DielectricConstant())
			l.BandGap = ptr(v.BandGap().ElectronVolts())
			l.ElectronAffinity = ptr(v.ElectronAffinity().ElectronVolts())
		case *material.Semiconductor:
			l.DielectricConstant = ptr(v.DielectricConstant())
			l.BandGap = ptr(v.BandGap().ElectronVolts())
			l.ElectronAffinity = ptr(v.ElectronAffinity().ElectronVolts())
			l.IntrinsicConcentration = ptr(v.IntrinsicConcentration().PerCubicCentimeter())
			l.Doping = v.Doping().String()
			l.DopantConcentration = ptr(v.DopantConcentration().PerCubicCentimeter())
		}
		s.Layers = append(s.Layers, l)
	}
	return s
}

func ptr(v float64) *float64 { return &v }
