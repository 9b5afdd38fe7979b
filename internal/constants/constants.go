package constants

// Physical constants in the unit system used throughout the engine
// (CGS lengths, SI charge and energy in electron-volts).

const (
	// Boltzmann constant (eV/K)
	Boltzmann = 8.617333262e-5

	// Elementary charge (C)
	ElementaryCharge = 1.602176634e-19

	// Vacuum permittivity (F/cm)
	VacuumPermittivity = 8.8541878128e-14

	// Relative permittivity of the reference oxide (SiO2) used for EOT
	ReferenceDielectricConstant = 3.9

	// Room temperature (K)
	RoomTemperature = 300.0
)

// ThermalVoltage returns kT/q in volts for an absolute temperature in kelvin
func ThermalVoltage(kelvin float64) float64 {
	// kT in eV is numerically equal to kT/q in V
	return Boltzmann * kelvin
}

// Permittivity returns the absolute permittivity (F/cm) for a relative dielectric constant
func Permittivity(relative float64) float64 {
	return relative * VacuumPermittivity
}
