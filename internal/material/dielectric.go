package material

import (
	"github.com/alexiusacademia/gomoscap/internal/constants"
	"github.com/alexiusacademia/gomoscap/internal/units"
)

// Dielectric is a charge-free insulator acting as a linear series capacitor
type Dielectric struct {
	thickness          units.Length
	dielectricConstant float64
	bandGap            units.Energy
	electronAffinity   units.Energy
}

// NewDielectric creates a dielectric layer.
// The relative dielectric constant must be at least 1.
func NewDielectric(thickness units.Length, dielectricConstant float64, bandGap, electronAffinity units.Energy) (*Dielectric, error) {
	if err := checkDielectricConstant(dielectricConstant); err != nil {
		return nil, err
	}
	return &Dielectric{
		thickness:          thickness,
		dielectricConstant: dielectricConstant,
		bandGap:            bandGap,
		electronAffinity:   electronAffinity,
	}, nil
}

func (d *Dielectric) Kind() Kind                  { return KindDielectric }
func (d *Dielectric) Thickness() units.Length     { return d.thickness }
func (d *Dielectric) SetThickness(t units.Length) { d.thickness = t }
func (d *Dielectric) isLayer()                    {}

func (d *Dielectric) Clone() Layer {
	c := *d
	return &c
}

func (d *Dielectric) DielectricConstant() float64    { return d.dielectricConstant }
func (d *Dielectric) BandGap() units.Energy          { return d.bandGap }
func (d *Dielectric) ElectronAffinity() units.Energy { return d.electronAffinity }

func (d *Dielectric) SetBandGap(e units.Energy)          { d.bandGap = e }
func (d *Dielectric) SetElectronAffinity(e units.Energy) { d.electronAffinity = e }

// SetDielectricConstant changes the relative dielectric constant
func (d *Dielectric) SetDielectricConstant(k float64) error {
	if err := checkDielectricConstant(k); err != nil {
		return err
	}
	d.dielectricConstant = k
	return nil
}

// Permittivity returns ε0·εr
func (d *Dielectric) Permittivity() units.Permittivity {
	return units.Must(units.PermittivityFromFaradsPerCentimeter(constants.Permittivity(d.dielectricConstant)))
}

// Capacitance returns the parallel-plate capacitance density ε0·εr/t
func (d *Dielectric) Capacitance() (units.CapacitanceDensity, error) {
	return units.ParallelPlate(d.Permittivity(), d.thickness)
}

// EquivalentOxideThickness scales the thickness to the reference oxide (εr = 3.9)
func (d *Dielectric) EquivalentOxideThickness() units.Length {
	return units.Must(d.thickness.Scale(constants.ReferenceDielectricConstant / d.dielectricConstant))
}

// ChargeDensity is always zero: the layer carries no free charge
func (d *Dielectric) ChargeDensity() units.ChargeDensity { return units.ChargeDensity{} }

// ElectricField returns the uniform field inside the layer produced by a
// sheet charge q on the gate side of the layer
func (d *Dielectric) ElectricField(q units.ChargeDensity) units.ElectricField {
	return units.FieldFromDisplacement(q, d.Permittivity())
}

// PotentialDrop returns q/C, the voltage across the layer for a sheet charge q
func (d *Dielectric) PotentialDrop(q units.ChargeDensity) (units.ElectricPotential, error) {
	c, err := d.Capacitance()
	if err != nil {
		return units.ElectricPotential{}, err
	}
	return units.PotentialAcross(q, c), nil
}

func checkDielectricConstant(k float64) error {
	if _, err := units.PermittivityFromFaradsPerCentimeter(k); err != nil {
		return &units.DomainError{Quantity: "dielectric constant", Value: k, Reason: "must be a finite number"}
	}
	if k < 1 {
		return &units.DomainError{Quantity: "dielectric constant", Value: k, Reason: "must be at least 1"}
	}
	return nil
}
