package units

import "math"

// ChargeDensity is a signed areal charge density, stored in C/cm²
type ChargeDensity struct {
	cPerCm2 float64
}

// ChargeFromCoulombsPerSquareCentimeter creates a ChargeDensity from C/cm²
func ChargeFromCoulombsPerSquareCentimeter(v float64) (ChargeDensity, error) {
	if err := finite("charge density", v); err != nil {
		return ChargeDensity{}, err
	}
	return ChargeDensity{cPerCm2: v}, nil
}

// ChargeFromCoulombsPerSquareMeter creates a ChargeDensity from C/m²
func ChargeFromCoulombsPerSquareMeter(v float64) (ChargeDensity, error) {
	return ChargeFromCoulombsPerSquareCentimeter(v * 1e-4)
}

// ChargeFromMicrocoulombsPerSquareCentimeter creates a ChargeDensity from µC/cm²
func ChargeFromMicrocoulombsPerSquareCentimeter(v float64) (ChargeDensity, error) {
	return ChargeFromCoulombsPerSquareCentimeter(v * 1e-6)
}

func (q ChargeDensity) CoulombsPerSquareCentimeter() float64      { return q.cPerCm2 }
func (q ChargeDensity) CoulombsPerSquareMeter() float64           { return q.cPerCm2 * 1e4 }
func (q ChargeDensity) MicrocoulombsPerSquareCentimeter() float64 { return q.cPerCm2 * 1e6 }

func (q ChargeDensity) Add(o ChargeDensity) ChargeDensity { return ChargeDensity{cPerCm2: q.cPerCm2 + o.cPerCm2} }
func (q ChargeDensity) Sub(o ChargeDensity) ChargeDensity { return ChargeDensity{cPerCm2: q.cPerCm2 - o.cPerCm2} }
func (q ChargeDensity) Scale(f float64) ChargeDensity     { return ChargeDensity{cPerCm2: q.cPerCm2 * f} }
func (q ChargeDensity) Neg() ChargeDensity                { return ChargeDensity{cPerCm2: -q.cPerCm2} }
func (q ChargeDensity) Less(o ChargeDensity) bool         { return q.cPerCm2 < o.cPerCm2 }
func (q ChargeDensity) Equal(o ChargeDensity) bool        { return q.cPerCm2 == o.cPerCm2 }

// Abs returns the magnitude of the charge density
func (q ChargeDensity) Abs() ChargeDensity { return ChargeDensity{cPerCm2: math.Abs(q.cPerCm2)} }

// CapacitanceDensity is a non-negative capacitance per unit area, stored in F/cm²
type CapacitanceDensity struct {
	fPerCm2 float64
}

// CapacitanceFromFaradsPerSquareCentimeter creates a CapacitanceDensity from F/cm²
func CapacitanceFromFaradsPerSquareCentimeter(v float64) (CapacitanceDensity, error) {
	if err := nonNegative("capacitance density", v); err != nil {
		return CapacitanceDensity{}, err
	}
	return CapacitanceDensity{fPerCm2: v}, nil
}

// CapacitanceFromMicrofaradsPerSquareCentimeter creates a CapacitanceDensity from µF/cm²
func CapacitanceFromMicrofaradsPerSquareCentimeter(v float64) (CapacitanceDensity, error) {
	return CapacitanceFromFaradsPerSquareCentimeter(v * 1e-6)
}

// CapacitanceFromFaradsPerSquareMeter creates a CapacitanceDensity from F/m²
func CapacitanceFromFaradsPerSquareMeter(v float64) (CapacitanceDensity, error) {
	return CapacitanceFromFaradsPerSquareCentimeter(v * 1e-4)
}

func (c CapacitanceDensity) FaradsPerSquareCentimeter() float64      { return c.fPerCm2 }
func (c CapacitanceDensity) MicrofaradsPerSquareCentimeter() float64 { return c.fPerCm2 * 1e6 }
func (c CapacitanceDensity) FaradsPerSquareMeter() float64           { return c.fPerCm2 * 1e4 }

func (c CapacitanceDensity) Add(o CapacitanceDensity) CapacitanceDensity {
	return CapacitanceDensity{fPerCm2: c.fPerCm2 + o.fPerCm2}
}

func (c CapacitanceDensity) Scale(f float64) (CapacitanceDensity, error) {
	return CapacitanceFromFaradsPerSquareCentimeter(c.fPerCm2 * f)
}

func (c CapacitanceDensity) Less(o CapacitanceDensity) bool  { return c.fPerCm2 < o.fPerCm2 }
func (c CapacitanceDensity) Equal(o CapacitanceDensity) bool { return c.fPerCm2 == o.fPerCm2 }

// Ratio returns the dimensionless quotient c / o
func (c CapacitanceDensity) Ratio(o CapacitanceDensity) float64 { return c.fPerCm2 / o.fPerCm2 }

// Permittivity is an absolute permittivity, stored in F/cm
type Permittivity struct {
	fPerCm float64
}

// PermittivityFromFaradsPerCentimeter creates a Permittivity; it must be positive
func PermittivityFromFaradsPerCentimeter(v float64) (Permittivity, error) {
	if err := positive("permittivity", v); err != nil {
		return Permittivity{}, err
	}
	return Permittivity{fPerCm: v}, nil
}

func (e Permittivity) FaradsPerCentimeter() float64 { return e.fPerCm }
func (e Permittivity) FaradsPerMeter() float64      { return e.fPerCm * 1e2 }

// ElectricField is a signed field strength, stored in V/cm
type ElectricField struct {
	vPerCm float64
}

// FieldFromVoltsPerCentimeter creates an ElectricField from V/cm
func FieldFromVoltsPerCentimeter(v float64) (ElectricField, error) {
	if err := finite("electric field", v); err != nil {
		return ElectricField{}, err
	}
	return ElectricField{vPerCm: v}, nil
}

// FieldFromVoltsPerMeter creates an ElectricField from V/m
func FieldFromVoltsPerMeter(v float64) (ElectricField, error) {
	return FieldFromVoltsPerCentimeter(v * 1e-2)
}

// FieldFromMegavoltsPerCentimeter creates an ElectricField from MV/cm
func FieldFromMegavoltsPerCentimeter(v float64) (ElectricField, error) {
	return FieldFromVoltsPerCentimeter(v * 1e6)
}

func (f ElectricField) VoltsPerCentimeter() float64     { return f.vPerCm }
func (f ElectricField) VoltsPerMeter() float64          { return f.vPerCm * 1e2 }
func (f ElectricField) MegavoltsPerCentimeter() float64 { return f.vPerCm * 1e-6 }

func (f ElectricField) Add(o ElectricField) ElectricField { return ElectricField{vPerCm: f.vPerCm + o.vPerCm} }
func (f ElectricField) Sub(o ElectricField) ElectricField { return ElectricField{vPerCm: f.vPerCm - o.vPerCm} }
func (f ElectricField) Scale(s float64) ElectricField     { return ElectricField{vPerCm: f.vPerCm * s} }
func (f ElectricField) Neg() ElectricField                { return ElectricField{vPerCm: -f.vPerCm} }
func (f ElectricField) Less(o ElectricField) bool         { return f.vPerCm < o.vPerCm }
func (f ElectricField) Equal(o ElectricField) bool        { return f.vPerCm == o.vPerCm }

// Drop returns the potential drop of a uniform field across distance d
func (f ElectricField) Drop(d Length) ElectricPotential {
	return ElectricPotential{v: f.vPerCm * d.cm}
}

// ParallelPlate returns the capacitance density ε/t of a plate separation t
func ParallelPlate(eps Permittivity, t Length) (CapacitanceDensity, error) {
	if t.IsZero() {
		return CapacitanceDensity{}, &DomainError{Quantity: "plate separation", Value: 0, Reason: "must be positive"}
	}
	return CapacitanceDensity{fPerCm2: eps.fPerCm / t.cm}, nil
}

// Series combines capacitance densities in series. Zero inputs yield zero.
func Series(cs ...CapacitanceDensity) CapacitanceDensity {
	var inv float64
	for _, c := range cs {
		if c.fPerCm2 == 0 {
			return CapacitanceDensity{}
		}
		inv += 1 / c.fPerCm2
	}
	if inv == 0 {
		return CapacitanceDensity{}
	}
	return CapacitanceDensity{fPerCm2: 1 / inv}
}

// PotentialAcross returns the voltage Q/C across a capacitor holding charge q
func PotentialAcross(q ChargeDensity, c CapacitanceDensity) ElectricPotential {
	return ElectricPotential{v: q.cPerCm2 / c.fPerCm2}
}

// ChargeOn returns the charge C·V held by capacitance c at potential v
func ChargeOn(c CapacitanceDensity, v ElectricPotential) ChargeDensity {
	return ChargeDensity{cPerCm2: c.fPerCm2 * v.v}
}

// FieldFromDisplacement returns the field D/ε produced by a sheet charge q
func FieldFromDisplacement(q ChargeDensity, eps Permittivity) ElectricField {
	return ElectricField{vPerCm: q.cPerCm2 / eps.fPerCm}
}

// Displacement returns εE as an areal charge density
func Displacement(f ElectricField, eps Permittivity) ChargeDensity {
	return ChargeDensity{cPerCm2: f.vPerCm * eps.fPerCm}
}
