// Package library holds room-temperature presets for common gate metals,
// gate dielectrics and substrates.
package library

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexiusacademia/gomoscap/internal/material"
	"github.com/alexiusacademia/gomoscap/internal/units"
)

// Preset is a named set of material parameters at 300 K.
// Fields that do not apply to the preset's kind are zero.
type Preset struct {
	Name        string
	Kind        material.Kind
	Description string

	WorkFunction           float64 // eV, metals
	DielectricConstant     float64 // relative
	BandGap                float64 // eV
	ElectronAffinity       float64 // eV
	IntrinsicConcentration float64 // cm^-3, semiconductors
}

var presets = []Preset{
	// Substrates
	{Name: "Si", Kind: material.KindSemiconductor, Description: "silicon",
		BandGap: 1.12, ElectronAffinity: 4.05, DielectricConstant: 11.7, IntrinsicConcentration: 1.0e10},
	{Name: "Ge", Kind: material.KindSemiconductor, Description: "germanium",
		BandGap: 0.66, ElectronAffinity: 4.0, DielectricConstant: 16.0, IntrinsicConcentration: 2.0e13},
	{Name: "GaAs", Kind: material.KindSemiconductor, Description: "gallium arsenide",
		BandGap: 1.424, ElectronAffinity: 4.07, DielectricConstant: 12.9, IntrinsicConcentration: 2.1e6},
	{Name: "4H-SiC", Kind: material.KindSemiconductor, Description: "4H silicon carbide",
		BandGap: 3.26, ElectronAffinity: 3.17, DielectricConstant: 9.7, IntrinsicConcentration: 5.0e-9},

	// Gate dielectrics
	{Name: "SiO2", Kind: material.KindDielectric, Description: "thermal silicon dioxide",
		DielectricConstant: 3.9, BandGap: 8.9, ElectronAffinity: 0.95},
	{Name: "Si3N4", Kind: material.KindDielectric, Description: "silicon nitride",
		DielectricConstant: 7.5, BandGap: 5.1, ElectronAffinity: 2.1},
	{Name: "Al2O3", Kind: material.KindDielectric, Description: "aluminium oxide",
		DielectricConstant: 9.0, BandGap: 8.8, ElectronAffinity: 1.35},
	{Name: "HfO2", Kind: material.KindDielectric, Description: "hafnium oxide",
		DielectricConstant: 25.0, BandGap: 5.8, ElectronAffinity: 2.0},
	{Name: "ZrO2", Kind: material.KindDielectric, Description: "zirconium oxide",
		DielectricConstant: 25.0, BandGap: 5.8, ElectronAffinity: 2.5},
	{Name: "TiO2", Kind: material.KindDielectric, Description: "titanium dioxide",
		DielectricConstant: 80.0, BandGap: 3.1, ElectronAffinity: 3.9},

	// Gate electrodes
	{Name: "Al", Kind: material.KindMetal, Description: "aluminium", WorkFunction: 4.28},
	{Name: "Au", Kind: material.KindMetal, Description: "gold", WorkFunction: 5.1},
	{Name: "Pt", Kind: material.KindMetal, Description: "platinum", WorkFunction: 5.65},
	{Name: "W", Kind: material.KindMetal, Description: "tungsten", WorkFunction: 4.55},
	{Name: "TiN", Kind: material.KindMetal, Description: "titanium nitride", WorkFunction: 4.6},
	// Degenerate polysilicon gates pin the Fermi level at a silicon band edge
	{Name: "n+poly", Kind: material.KindMetal, Description: "n+ polysilicon", WorkFunction: 4.05},
	{Name: "p+poly", Kind: material.KindMetal, Description: "p+ polysilicon", WorkFunction: 5.17},
}

// Lookup finds a preset by case-insensitive name
func Lookup(name string) (Preset, bool) {
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}

// Names returns all preset names, sorted
func Names() []string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	sort.Strings(names)
	return names
}

// All returns the presets grouped by kind in table order
func All() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// Metal builds a metal layer from a metal preset
func (p Preset) Metal(thickness units.Length) (*material.Metal, error) {
	if p.Kind != material.KindMetal {
		return nil, fmt.Errorf("%s is a %s, not a metal", p.Name, p.Kind)
	}
	wf, err := units.EnergyFromElectronVolts(p.WorkFunction)
	if err != nil {
		return nil, err
	}
	return material.NewMetalWithWorkFunction(thickness, wf), nil
}

// Dielectric builds a dielectric layer from a dielectric preset
func (p Preset) Dielectric(thickness units.Length) (*material.Dielectric, error) {
	if p.Kind != material.KindDielectric {
		return nil, fmt.Errorf("%s is a %s, not a dielectric", p.Name, p.Kind)
	}
	gap, err := units.EnergyFromElectronVolts(p.BandGap)
	if err != nil {
		return nil, err
	}
	chi, err := units.EnergyFromElectronVolts(p.ElectronAffinity)
	if err != nil {
		return nil, err
	}
	return material.NewDielectric(thickness, p.DielectricConstant, gap, chi)
}

// Semiconductor builds a doped substrate from a semiconductor preset
func (p Preset) Semiconductor(thickness units.Length, doping material.DopingType, dopant units.Concentration) (*material.Semiconductor, error) {
	if p.Kind != material.KindSemiconductor {
		return nil, fmt.Errorf("%s is a %s, not a semiconductor", p.Name, p.Kind)
	}
	params, err := p.SemiconductorParams()
	if err != nil {
		return nil, err
	}
	params.Thickness = thickness
	params.Doping = doping
	params.DopantConcentration = dopant
	return material.NewSemiconductor(params)
}

// SemiconductorParams returns the undoped band parameters of the preset
func (p Preset) SemiconductorParams() (material.SemiconductorParams, error) {
	gap, err := units.EnergyFromElectronVolts(p.BandGap)
	if err != nil {
		return material.SemiconductorParams{}, err
	}
	chi, err := units.EnergyFromElectronVolts(p.ElectronAffinity)
	if err != nil {
		return material.SemiconductorParams{}, err
	}
	ni, err := units.ConcentrationFromPerCubicCentimeter(p.IntrinsicConcentration)
	if err != nil {
		return material.SemiconductorParams{}, err
	}
	return material.SemiconductorParams{
		BandGap:                gap,
		ElectronAffinity:       chi,
		DielectricConstant:     p.DielectricConstant,
		IntrinsicConcentration: ni,
	}, nil
}
