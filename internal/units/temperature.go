package units

import "github.com/alexiusacademia/gomoscap/internal/constants"

// Temperature is an absolute temperature, stored in kelvin
type Temperature struct {
	k float64
}

// TemperatureFromKelvin creates a Temperature; it must be strictly positive
func TemperatureFromKelvin(v float64) (Temperature, error) {
	if err := positive("temperature", v); err != nil {
		return Temperature{}, err
	}
	return Temperature{k: v}, nil
}

// TemperatureFromCelsius creates a Temperature from degrees Celsius
func TemperatureFromCelsius(v float64) (Temperature, error) {
	return TemperatureFromKelvin(v + 273.15)
}

func (t Temperature) Kelvin() float64  { return t.k }
func (t Temperature) Celsius() float64 { return t.k - 273.15 }

// IsZero reports whether t is the uninitialized zero value
func (t Temperature) IsZero() bool { return t.k == 0 }

func (t Temperature) Less(o Temperature) bool  { return t.k < o.k }
func (t Temperature) Equal(o Temperature) bool { return t.k == o.k }

// ThermalEnergy returns kT
func (t Temperature) ThermalEnergy() Energy {
	return Energy{ev: constants.Boltzmann * t.k}
}

// ThermalVoltage returns kT/q
func (t Temperature) ThermalVoltage() ElectricPotential {
	return ElectricPotential{v: constants.ThermalVoltage(t.k)}
}
