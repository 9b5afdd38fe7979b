package units

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLengthConversions(t *testing.T) {
	l, err := LengthFromNanometers(2)
	require.NoError(t, err)

	assert.InEpsilon(t, 2e-7, l.Centimeters(), 1e-12)
	assert.InEpsilon(t, 2e-9, l.Meters(), 1e-12)
	assert.InEpsilon(t, 20, l.Angstroms(), 1e-12)
	assert.InEpsilon(t, 2, l.Nanometers(), 1e-12)
	assert.InEpsilon(t, 0.002, l.Micrometers(), 1e-12)
}

func TestConstructorsRejectNonPhysicalInput(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
	}{
		{"negative length", func() error { _, err := LengthFromNanometers(-1); return err }},
		{"NaN length", func() error { _, err := LengthFromNanometers(math.NaN()); return err }},
		{"zero temperature", func() error { _, err := TemperatureFromKelvin(0); return err }},
		{"negative temperature", func() error { _, err := TemperatureFromCelsius(-300); return err }},
		{"infinite energy", func() error { _, err := EnergyFromElectronVolts(math.Inf(1)); return err }},
		{"negative concentration", func() error { _, err := ConcentrationFromPerCubicCentimeter(-1e10); return err }},
		{"negative capacitance", func() error { _, err := CapacitanceFromFaradsPerSquareCentimeter(-1); return err }},
		{"NaN potential", func() error { _, err := PotentialFromVolts(math.NaN()); return err }},
		{"zero permittivity", func() error { _, err := PermittivityFromFaradsPerCentimeter(0); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			require.Error(t, err)
			var domainErr *DomainError
			assert.True(t, errors.As(err, &domainErr))
		})
	}
}

func TestLengthSubNeverGoesNegative(t *testing.T) {
	a := Must(LengthFromNanometers(2))
	b := Must(LengthFromNanometers(3))

	_, err := a.Sub(b)
	assert.Error(t, err)

	d, err := b.Sub(a)
	require.NoError(t, err)
	assert.InEpsilon(t, 1, d.Nanometers(), 1e-12)
}

func TestTemperatureThermalEnergy(t *testing.T) {
	temp := Must(TemperatureFromKelvin(300))
	assert.InEpsilon(t, 0.025851999786, temp.ThermalEnergy().ElectronVolts(), 1e-9)
	assert.InEpsilon(t, 26.85, temp.Celsius(), 1e-9)
}

func TestEnergyPotentialEquivalence(t *testing.T) {
	e := Must(EnergyFromElectronVolts(4.45))
	assert.Equal(t, 4.45, e.Potential().Volts())
	assert.Equal(t, e, e.Potential().Energy())
	assert.InEpsilon(t, 4.45*1.602176634e-19, e.Joules(), 1e-12)
}

func TestSeriesCapacitance(t *testing.T) {
	c1 := Must(CapacitanceFromFaradsPerSquareCentimeter(2e-6))
	c2 := Must(CapacitanceFromFaradsPerSquareCentimeter(2e-6))

	assert.InEpsilon(t, 1e-6, Series(c1, c2).FaradsPerSquareCentimeter(), 1e-12)
	assert.InEpsilon(t, 2e-6, Series(c1).FaradsPerSquareCentimeter(), 1e-12)
	assert.True(t, Series().Equal(CapacitanceDensity{}))
}

func TestParallelPlateRequiresSeparation(t *testing.T) {
	eps := Must(PermittivityFromFaradsPerCentimeter(3.9 * 8.8541878128e-14))

	_, err := ParallelPlate(eps, Length{})
	assert.Error(t, err)

	c, err := ParallelPlate(eps, Must(LengthFromNanometers(2)))
	require.NoError(t, err)
	assert.InEpsilon(t, 1.7265666e-6, c.FaradsPerSquareCentimeter(), 1e-6)
}

func TestCrossQuantityRelations(t *testing.T) {
	c := Must(CapacitanceFromMicrofaradsPerSquareCentimeter(1))
	v := Must(PotentialFromVolts(0.5))

	q := ChargeOn(c, v)
	assert.InEpsilon(t, 5e-7, q.CoulombsPerSquareCentimeter(), 1e-12)
	assert.InEpsilon(t, 0.5, PotentialAcross(q, c).Volts(), 1e-12)

	eps := Must(PermittivityFromFaradsPerCentimeter(1e-12))
	f := FieldFromDisplacement(q, eps)
	assert.InEpsilon(t, 5e5, f.VoltsPerCentimeter(), 1e-12)
	assert.InEpsilon(t, q.CoulombsPerSquareCentimeter(), Displacement(f, eps).CoulombsPerSquareCentimeter(), 1e-12)

	d := Must(LengthFromNanometers(10))
	assert.InEpsilon(t, 0.5, f.Drop(d).Volts(), 1e-12)
}

func TestOrdering(t *testing.T) {
	a := Must(EnergyFromElectronVolts(1))
	b := Must(EnergyFromElectronVolts(2))
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.True(t, a.Add(a).Equal(b))
	assert.True(t, b.Sub(a).Equal(a))
	assert.Equal(t, -1.0, a.Neg().ElectronVolts())
}
