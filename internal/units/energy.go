package units

import "github.com/alexiusacademia/gomoscap/internal/constants"

// Energy is a signed energy, stored in electron-volts
type Energy struct {
	ev float64
}

// EnergyFromElectronVolts creates an Energy from electron-volts
func EnergyFromElectronVolts(v float64) (Energy, error) {
	if err := finite("energy", v); err != nil {
		return Energy{}, err
	}
	return Energy{ev: v}, nil
}

// EnergyFromJoules creates an Energy from joules
func EnergyFromJoules(v float64) (Energy, error) {
	return EnergyFromElectronVolts(v / constants.ElementaryCharge)
}

func (e Energy) ElectronVolts() float64 { return e.ev }
func (e Energy) Joules() float64        { return e.ev * constants.ElementaryCharge }

func (e Energy) Add(o Energy) Energy    { return Energy{ev: e.ev + o.ev} }
func (e Energy) Sub(o Energy) Energy    { return Energy{ev: e.ev - o.ev} }
func (e Energy) Scale(f float64) Energy { return Energy{ev: e.ev * f} }
func (e Energy) Neg() Energy            { return Energy{ev: -e.ev} }
func (e Energy) Less(o Energy) bool     { return e.ev < o.ev }
func (e Energy) Equal(o Energy) bool    { return e.ev == o.ev }

// Potential converts an electron energy to the equivalent potential (E/q)
func (e Energy) Potential() ElectricPotential { return ElectricPotential{v: e.ev} }

// ElectricPotential is a signed potential, stored in volts
type ElectricPotential struct {
	v float64
}

// PotentialFromVolts creates an ElectricPotential from volts
func PotentialFromVolts(v float64) (ElectricPotential, error) {
	if err := finite("electric potential", v); err != nil {
		return ElectricPotential{}, err
	}
	return ElectricPotential{v: v}, nil
}

// PotentialFromMillivolts creates an ElectricPotential from millivolts
func PotentialFromMillivolts(v float64) (ElectricPotential, error) {
	return PotentialFromVolts(v * 1e-3)
}

func (p ElectricPotential) Volts() float64      { return p.v }
func (p ElectricPotential) Millivolts() float64 { return p.v * 1e3 }

func (p ElectricPotential) Add(o ElectricPotential) ElectricPotential {
	return ElectricPotential{v: p.v + o.v}
}

func (p ElectricPotential) Sub(o ElectricPotential) ElectricPotential {
	return ElectricPotential{v: p.v - o.v}
}

func (p ElectricPotential) Scale(f float64) ElectricPotential { return ElectricPotential{v: p.v * f} }
func (p ElectricPotential) Neg() ElectricPotential            { return ElectricPotential{v: -p.v} }
func (p ElectricPotential) Less(o ElectricPotential) bool     { return p.v < o.v }
func (p ElectricPotential) Equal(o ElectricPotential) bool    { return p.v == o.v }

// Energy returns the potential energy of one elementary charge at p
func (p ElectricPotential) Energy() Energy { return Energy{ev: p.v} }
