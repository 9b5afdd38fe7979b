package material

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexiusacademia/gomoscap/internal/constants"
	"github.com/alexiusacademia/gomoscap/internal/numeric"
	"github.com/alexiusacademia/gomoscap/internal/units"
)

// DopingType is the majority carrier type of a semiconductor
type DopingType int

const (
	NType DopingType = iota
	PType
)

func (d DopingType) String() string {
	if d == PType {
		return "p"
	}
	return "n"
}

// ParseDopingType parses "n" or "p" (case-insensitive)
func ParseDopingType(s string) (DopingType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "n-type", "ntype":
		return NType, nil
	case "p", "p-type", "ptype":
		return PType, nil
	}
	return 0, fmt.Errorf("unknown doping type %q", s)
}

// SemiconductorParams holds the material constants of a semiconductor layer
type SemiconductorParams struct {
	Thickness              units.Length
	BandGap                units.Energy
	ElectronAffinity       units.Energy
	DielectricConstant     float64
	IntrinsicConcentration units.Concentration
	Doping                 DopingType
	DopantConcentration    units.Concentration
}

// Validate checks the parameters for physical consistency
func (p SemiconductorParams) Validate() error {
	if err := checkDielectricConstant(p.DielectricConstant); err != nil {
		return err
	}
	if p.BandGap.ElectronVolts() <= 0 {
		return &units.DomainError{Quantity: "band gap", Value: p.BandGap.ElectronVolts(), Reason: "must be positive"}
	}
	if p.IntrinsicConcentration.PerCubicCentimeter() <= 0 {
		return &units.DomainError{Quantity: "intrinsic carrier concentration", Value: p.IntrinsicConcentration.PerCubicCentimeter(), Reason: "must be positive"}
	}
	if p.DopantConcentration.PerCubicCentimeter() <= 0 {
		return &units.DomainError{Quantity: "dopant concentration", Value: p.DopantConcentration.PerCubicCentimeter(), Reason: "must be positive"}
	}
	if p.Doping != NType && p.Doping != PType {
		return fmt.Errorf("invalid doping type %d", int(p.Doping))
	}
	return nil
}

// Semiconductor is a uniformly doped substrate.
//
// Quantities that depend on the ambient temperature (work function, Debye
// length, charge relations) fail with *NotAttachedError until the layer has
// been attached to a Structure.
type Semiconductor struct {
	params           SemiconductorParams
	surfacePotential units.ElectricPotential
	temperature      units.Temperature
}

// NewSemiconductor creates an unattached semiconductor layer at flatband
func NewSemiconductor(p SemiconductorParams) (*Semiconductor, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Semiconductor{params: p}, nil
}

func (s *Semiconductor) Kind() Kind                  { return KindSemiconductor }
func (s *Semiconductor) Thickness() units.Length     { return s.params.Thickness }
func (s *Semiconductor) SetThickness(t units.Length) { s.params.Thickness = t }
func (s *Semiconductor) isLayer()                    {}

func (s *Semiconductor) Clone() Layer {
	c := *s
	return &c
}

func (s *Semiconductor) Params() SemiconductorParams                { return s.params }
func (s *Semiconductor) BandGap() units.Energy                      { return s.params.BandGap }
func (s *Semiconductor) ElectronAffinity() units.Energy             { return s.params.ElectronAffinity }
func (s *Semiconductor) DielectricConstant() float64                { return s.params.DielectricConstant }
func (s *Semiconductor) IntrinsicConcentration() units.Concentration { return s.params.IntrinsicConcentration }
func (s *Semiconductor) Doping() DopingType                         { return s.params.Doping }
func (s *Semiconductor) DopantConcentration() units.Concentration   { return s.params.DopantConcentration }

// SetParams replaces the material constants, keeping attachment and surface potential
func (s *Semiconductor) SetParams(p SemiconductorParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.params = p
	return nil
}

// SetDoping changes the doping type and concentration
func (s *Semiconductor) SetDoping(t DopingType, n units.Concentration) error {
	p := s.params
	p.Doping = t
	p.DopantConcentration = n
	return s.SetParams(p)
}

// Permittivity returns ε0·εr
func (s *Semiconductor) Permittivity() units.Permittivity {
	return units.Must(units.PermittivityFromFaradsPerCentimeter(constants.Permittivity(s.params.DielectricConstant)))
}

// Attach binds the layer to the temperature of its enclosing structure.
// Attaching again at the same temperature is a no-op.
func (s *Semiconductor) Attach(t units.Temperature) error {
	if t.IsZero() {
		return &units.DomainError{Quantity: "temperature", Value: 0, Reason: "must be positive"}
	}
	if s.Attached() && !s.temperature.Equal(t) {
		return &AlreadyAttachedError{Attached: s.temperature, Requested: t}
	}
	s.temperature = t
	return nil
}

// Attached reports whether the layer belongs to a structure
func (s *Semiconductor) Attached() bool { return !s.temperature.IsZero() }

// Temperature returns the temperature of the enclosing structure
func (s *Semiconductor) Temperature() (units.Temperature, error) {
	if !s.Attached() {
		return units.Temperature{}, &NotAttachedError{Quantity: "temperature"}
	}
	return s.temperature, nil
}

// SurfacePotential returns the band bending at the dielectric interface
func (s *Semiconductor) SurfacePotential() units.ElectricPotential { return s.surfacePotential }

// SetSurfacePotential stores solver state
func (s *Semiconductor) SetSurfacePotential(p units.ElectricPotential) { s.surfacePotential = p }

// EnergyFromVacuumToEfi returns the intrinsic Fermi level below vacuum.
// Equal effective densities of states put it at midgap, independent of temperature.
func (s *Semiconductor) EnergyFromVacuumToEfi() units.Energy {
	return s.params.ElectronAffinity.Add(s.params.BandGap.Scale(0.5))
}

// BulkPotential returns φB = kT/q·ln(N/ni), the separation of the Fermi
// level from the intrinsic level in the neutral bulk
func (s *Semiconductor) BulkPotential() (units.ElectricPotential, error) {
	m, err := s.model("bulk potential")
	if err != nil {
		return units.ElectricPotential{}, err
	}
	return units.PotentialFromVolts(m.vt * math.Log(s.params.DopantConcentration.Ratio(s.params.IntrinsicConcentration)))
}

// EnergyFromVacuumToFermiLevel returns the bulk Fermi level below vacuum
func (s *Semiconductor) EnergyFromVacuumToFermiLevel() (units.Energy, error) {
	phiB, err := s.BulkPotential()
	if err != nil {
		return units.Energy{}, err
	}
	efi := s.EnergyFromVacuumToEfi()
	if s.params.Doping == NType {
		return efi.Sub(phiB.Energy()), nil
	}
	return efi.Add(phiB.Energy()), nil
}

// WorkFunction returns χ + (Ec - Ef)
func (s *Semiconductor) WorkFunction() (units.Energy, error) {
	wf, err := s.EnergyFromVacuumToFermiLevel()
	if err != nil {
		return units.Energy{}, &NotAttachedError{Quantity: "semiconductor work function"}
	}
	return wf, nil
}

// InversionSurfacePotential returns the strong-inversion surface potential, ±2φB
func (s *Semiconductor) InversionSurfacePotential() (units.ElectricPotential, error) {
	phiB, err := s.BulkPotential()
	if err != nil {
		return units.ElectricPotential{}, err
	}
	if s.params.Doping == NType {
		return phiB.Scale(-2), nil
	}
	return phiB.Scale(2), nil
}

// DebyeLength returns the extrinsic Debye length sqrt(εs·kT/(q²·N))
func (s *Semiconductor) DebyeLength() (units.Length, error) {
	m, err := s.model("Debye length")
	if err != nil {
		return units.Length{}, err
	}
	return units.LengthFromCentimeters(m.debye)
}

// ChargeY returns the dimensionless charge function F(ψ) with
// Qs = -sgn(ψ)·√2·εs·(kT/q)/L_D·F(ψ)
func (s *Semiconductor) ChargeY(potential units.ElectricPotential) (float64, error) {
	m, err := s.model("charge function")
	if err != nil {
		return 0, err
	}
	return m.y(potential.Volts()), nil
}

// ChargeDensity returns the areal semiconductor charge at a surface potential.
// It is exactly zero at ψ = 0 and has the opposite sign to ψ.
func (s *Semiconductor) ChargeDensity(potential units.ElectricPotential) (units.ChargeDensity, error) {
	m, err := s.model("charge density")
	if err != nil {
		return units.ChargeDensity{}, err
	}
	return units.ChargeFromCoulombsPerSquareCentimeter(m.charge(potential.Volts()))
}

// ElectricField returns the field at the surface, -Qs/εs
func (s *Semiconductor) ElectricField(potential units.ElectricPotential) (units.ElectricField, error) {
	q, err := s.ChargeDensity(potential)
	if err != nil {
		return units.ElectricField{}, err
	}
	return units.FieldFromDisplacement(q.Neg(), s.Permittivity()), nil
}

// CapacitanceDensityAt returns the differential capacitance -dQs/dψ at a surface potential
func (s *Semiconductor) CapacitanceDensityAt(potential units.ElectricPotential) (units.CapacitanceDensity, error) {
	m, err := s.model("capacitance density")
	if err != nil {
		return units.CapacitanceDensity{}, err
	}
	return units.CapacitanceFromFaradsPerSquareCentimeter(m.capacitance(potential.Volts()))
}

// CapacitanceDensity returns the differential capacitance at the current surface potential
func (s *Semiconductor) CapacitanceDensity() (units.CapacitanceDensity, error) {
	return s.CapacitanceDensityAt(s.surfacePotential)
}

// FlatbandCapacitance returns the capacitance density at ψ = 0
func (s *Semiconductor) FlatbandCapacitance() (units.CapacitanceDensity, error) {
	return s.CapacitanceDensityAt(units.ElectricPotential{})
}

// DepletionWidth estimates the depletion width under the depletion
// approximation. It is zero in accumulation.
func (s *Semiconductor) DepletionWidth(potential units.ElectricPotential) (units.Length, error) {
	m, err := s.model("depletion width")
	if err != nil {
		return units.Length{}, err
	}
	psi := potential.Volts()
	if s.params.Doping == NType {
		psi = -psi
	}
	band := psi - m.vt
	if band <= 0 {
		return units.Length{}, nil
	}
	w := math.Sqrt(2 * m.eps * band / (constants.ElementaryCharge * s.params.DopantConcentration.PerCubicCentimeter()))
	return units.LengthFromCentimeters(w)
}

// SearchWindow returns the bounded surface-potential range ±2·Eg/q explored by the solvers
func (s *Semiconductor) SearchWindow() (lo, hi units.ElectricPotential) {
	w := s.params.BandGap.Potential().Scale(2)
	return w.Neg(), w
}

// SurfacePotentialFor inverts ChargeDensity, seeded at the current surface potential
func (s *Semiconductor) SurfacePotentialFor(q units.ChargeDensity) (units.ElectricPotential, error) {
	return s.SurfacePotentialFrom(q, s.surfacePotential, numeric.DefaultOptions())
}

// SurfacePotentialFrom inverts ChargeDensity by Newton-Raphson from seed,
// falling back to bisection inside SearchWindow
func (s *Semiconductor) SurfacePotentialFrom(q units.ChargeDensity, seed units.ElectricPotential, opts numeric.Options) (units.ElectricPotential, error) {
	m, err := s.model("surface potential")
	if err != nil {
		return units.ElectricPotential{}, err
	}
	target := q.CoulombsPerSquareCentimeter()
	lo, hi := s.SearchWindow()

	res, err := numeric.FindRoot(func(psi float64) (float64, float64) {
		return m.charge(psi) - target, -m.capacitance(psi)
	}, lo.Volts(), hi.Volts(), seed.Volts(), opts)
	if err != nil {
		return units.ElectricPotential{}, err
	}
	return units.PotentialFromVolts(res.Root)
}

// model gathers the temperature-dependent constants of the charge relation
func (s *Semiconductor) model(quantity string) (chargeModel, error) {
	if !s.Attached() {
		return chargeModel{}, &NotAttachedError{Quantity: quantity}
	}
	vt := constants.ThermalVoltage(s.temperature.Kelvin())
	eps := constants.Permittivity(s.params.DielectricConstant)
	n := s.params.DopantConcentration.PerCubicCentimeter()
	ratio := s.params.IntrinsicConcentration.Ratio(s.params.DopantConcentration)
	debye := math.Sqrt(eps * vt / (constants.ElementaryCharge * n))

	return chargeModel{
		vt:        vt,
		eps:       eps,
		debye:     debye,
		minority:  ratio * ratio,
		amplitude: math.Sqrt2 * eps * vt / debye,
		nType:     s.params.Doping == NType,
	}, nil
}

// PotentialProfile returns ψ at each depth below the surface (ascending)
// for a given surface potential, from the exact field relation dψ/dx = -E
func (s *Semiconductor) PotentialProfile(surface units.ElectricPotential, depths []units.Length) ([]units.ElectricPotential, error) {
	m, err := s.model("potential profile")
	if err != nil {
		return nil, err
	}
	ds := make([]float64, len(depths))
	for i, d := range depths {
		if i > 0 && d.Less(depths[i-1]) {
			return nil, fmt.Errorf("depths must be ascending: %g nm after %g nm", d.Nanometers(), depths[i-1].Nanometers())
		}
		ds[i] = d.Centimeters()
	}

	psi := m.profile(surface.Volts(), ds)
	out := make([]units.ElectricPotential, len(psi))
	for i, v := range psi {
		out[i] = units.Must(units.PotentialFromVolts(v))
	}
	return out, nil
}
