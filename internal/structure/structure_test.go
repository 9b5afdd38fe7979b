package structure

import (
	"errors"
	"testing"

	"github.com/alexiusacademia/gomoscap/internal/constants"
	"github.com/alexiusacademia/gomoscap/internal/material"
	"github.com/alexiusacademia/gomoscap/internal/numeric"
	"github.com/alexiusacademia/gomoscap/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nm(v float64) units.Length               { return units.Must(units.LengthFromNanometers(v)) }
func ev(v float64) units.Energy               { return units.Must(units.EnergyFromElectronVolts(v)) }
func volts(v float64) units.ElectricPotential { return units.Must(units.PotentialFromVolts(v)) }
func perCm3(v float64) units.Concentration    { return units.Must(units.ConcentrationFromPerCubicCentimeter(v)) }
func kelvin(v float64) units.Temperature      { return units.Must(units.TemperatureFromKelvin(v)) }

func silicon(t *testing.T) *material.Semiconductor {
	t.Helper()
	s, err := material.NewSemiconductor(material.SemiconductorParams{
		Thickness:              nm(50),
		BandGap:                ev(1.1252),
		ElectronAffinity:       ev(4.05),
		DielectricConstant:     11.7,
		IntrinsicConcentration: perCm3(1.41e10),
		Doping:                 material.NType,
		DopantConcentration:    perCm3(1e18),
	})
	require.NoError(t, err)
	return s
}

func oxide(t *testing.T, thickness float64) *material.Dielectric {
	t.Helper()
	d, err := material.NewDielectric(nm(thickness), 3.9, ev(8.9), ev(0.95))
	require.NoError(t, err)
	return d
}

func gate(wf float64) *material.Metal {
	return material.NewMetalWithWorkFunction(nm(4), ev(wf))
}

// reference returns the n-Si / 2 nm SiO2 / 4.45 eV metal stack
func reference(t *testing.T) *Structure {
	t.Helper()
	s, err := New(kelvin(300), silicon(t), oxide(t, 2), gate(4.45))
	require.NoError(t, err)
	return s
}

func cox(t *testing.T, s *Structure) float64 {
	t.Helper()
	c, err := s.OxideCapacitance()
	require.NoError(t, err)
	return c.FaradsPerSquareCentimeter()
}

func TestReferenceStack(t *testing.T) {
	s := reference(t)

	require.True(t, s.IsValid())
	assert.Equal(t, KindMOS, s.Kind())

	eot, err := s.EquivalentOxideThickness()
	require.NoError(t, err)
	assert.InDelta(t, 2.0, eot.Nanometers(), 1e-12)

	vfb, err := s.FlatbandVoltage()
	require.NoError(t, err)
	assert.InDelta(t, 0.305, vfb.Volts(), 5e-4)

	vt, err := s.ThresholdVoltage()
	require.NoError(t, err)
	assert.InDelta(t, -0.953, vt.Volts(), 5e-4)

	c, err := s.StackCapacitance()
	require.NoError(t, err)
	assert.InEpsilon(t, 5.197e-7, c.FaradsPerSquareCentimeter(), 1e-4)
}

func TestReferenceStackStartsSolvedAtZeroBias(t *testing.T) {
	s := reference(t)

	assert.Equal(t, StateConverged, s.State())
	require.NotNil(t, s.Result())
	assert.Equal(t, 0.0, s.Bias().Volts())
	assert.InDelta(t, -0.17559, s.Result().SurfacePotential.Volts(), 1e-4)
}

func TestOrientationDoesNotMatter(t *testing.T) {
	up := reference(t)
	down, err := New(kelvin(300), gate(4.45), oxide(t, 2), silicon(t))
	require.NoError(t, err)

	require.True(t, down.IsValid())
	g, err := down.GateIndex()
	require.NoError(t, err)
	assert.Equal(t, 0, g)
	sc, err := down.SemiconductorIndex()
	require.NoError(t, err)
	assert.Equal(t, 2, sc)

	for _, bias := range []float64{-2, -0.5, 0, 0.7, 2} {
		a, err := up.SolveBias(volts(bias))
		require.NoError(t, err)
		b, err := down.SolveBias(volts(bias))
		require.NoError(t, err)
		assert.InDelta(t, a.SurfacePotential.Volts(), b.SurfacePotential.Volts(), 1e-9, "bias %g", bias)
	}
}

func TestInvalidStructures(t *testing.T) {
	cases := []struct {
		name   string
		layers func(t *testing.T) []material.Layer
	}{
		{"empty", func(t *testing.T) []material.Layer { return nil }},
		{"semiconductor only", func(t *testing.T) []material.Layer {
			return []material.Layer{silicon(t)}
		}},
		{"semiconductor touching metal", func(t *testing.T) []material.Layer {
			return []material.Layer{silicon(t), gate(4.45)}
		}},
		{"metal between semiconductor and oxide", func(t *testing.T) []material.Layer {
			return []material.Layer{silicon(t), gate(4.45), oxide(t, 2), gate(4.45)}
		}},
		{"no gate", func(t *testing.T) []material.Layer {
			return []material.Layer{silicon(t), oxide(t, 2)}
		}},
		{"semiconductor in the middle", func(t *testing.T) []material.Layer {
			return []material.Layer{gate(4.45), oxide(t, 2), silicon(t), oxide(t, 2), gate(4.45)}
		}},
		{"gate without work function", func(t *testing.T) []material.Layer {
			return []material.Layer{silicon(t), oxide(t, 2), material.NewMetal(nm(4))}
		}},
		{"metals only", func(t *testing.T) []material.Layer {
			return []material.Layer{gate(4.45), gate(5.1)}
		}},
		{"MIM open at one end", func(t *testing.T) []material.Layer {
			return []material.Layer{oxide(t, 2), gate(4.45)}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := New(kelvin(300), tc.layers(t)...)
			require.NoError(t, err)

			assert.False(t, s.IsValid())
			assert.Equal(t, KindInvalid, s.Kind())
			assert.Equal(t, StateIdle, s.State())
			assert.Nil(t, s.Result())

			var invalid *InvalidStructureError
			_, err = s.FlatbandVoltage()
			assert.True(t, errors.As(err, &invalid), "flatband: %v", err)
			_, err = s.EquivalentOxideThickness()
			assert.True(t, errors.As(err, &invalid), "eot: %v", err)
			_, err = s.StackCapacitance()
			assert.True(t, errors.As(err, &invalid), "stack capacitance: %v", err)
			_, err = s.ThresholdVoltage()
			assert.True(t, errors.As(err, &invalid), "threshold: %v", err)
			_, err = s.SolveBias(volts(1))
			assert.True(t, errors.As(err, &invalid), "solve: %v", err)
		})
	}
}

func TestSecondSemiconductorIsRejected(t *testing.T) {
	s := reference(t)
	require.NoError(t, s.AddLayer(silicon(t)))
	assert.False(t, s.IsValid())
	assert.Contains(t, s.Validate().Error(), "second semiconductor")
}

func TestMIMStack(t *testing.T) {
	s, err := New(kelvin(300), gate(4.45), oxide(t, 10), gate(5.1))
	require.NoError(t, err)

	require.True(t, s.IsValid())
	assert.Equal(t, KindMIM, s.Kind())

	want := constants.Permittivity(3.9) / nm(10).Centimeters()
	c, err := s.StackCapacitance()
	require.NoError(t, err)
	assert.InEpsilon(t, want, c.FaradsPerSquareCentimeter(), 1e-12)

	vfb, err := s.FlatbandVoltage()
	require.NoError(t, err)
	assert.InDelta(t, 0.65, vfb.Volts(), 1e-12)

	_, err = s.ThresholdVoltage()
	var invalid *InvalidStructureError
	assert.True(t, errors.As(err, &invalid))
	_, err = s.SemiconductorIndex()
	assert.Error(t, err)

	res, err := s.SolveBias(volts(1.65))
	require.NoError(t, err)
	assert.InEpsilon(t, want, res.GateCharge.CoulombsPerSquareCentimeter(), 1e-12)
	assert.InEpsilon(t, -want, res.ChargeDensity.CoulombsPerSquareCentimeter(), 1e-12)
	assert.InEpsilon(t, 1e6, res.ElectricField.VoltsPerCentimeter(), 1e-9)

	top := res.LayerPotentials[2]
	assert.InDelta(t, 1.0, top.GateSide.Volts(), 1e-12)
	assert.Equal(t, 0.0, res.LayerPotentials[0].BaseSide.Volts())
}

func TestMIMWithStackedDielectrics(t *testing.T) {
	hf, err := material.NewDielectric(nm(4), 20, ev(5.8), ev(2.0))
	require.NoError(t, err)
	s, err := New(kelvin(300), gate(4.6), oxide(t, 1), hf, gate(4.6))
	require.NoError(t, err)

	eot, err := s.EquivalentOxideThickness()
	require.NoError(t, err)
	assert.InDelta(t, 1+4*3.9/20, eot.Nanometers(), 1e-12)

	c, err := s.StackCapacitance()
	require.NoError(t, err)
	assert.InEpsilon(t, constants.Permittivity(3.9)/eot.Centimeters(), c.FaradsPerSquareCentimeter(), 1e-12)
}

func TestBiasSolveSatisfiesDivider(t *testing.T) {
	s := reference(t)
	vfb, err := s.FlatbandVoltage()
	require.NoError(t, err)
	c := cox(t, s)

	for _, bias := range []float64{-3, -2, -1, -0.5, 0, 0.3, 0.5, 1, 2, 3} {
		res, err := s.SolveBias(volts(bias))
		require.NoError(t, err, "bias %g", bias)

		psi := res.SurfacePotential.Volts()
		q := res.ChargeDensity.CoulombsPerSquareCentimeter()
		assert.InDelta(t, bias, vfb.Volts()+psi-q/c, 1e-8, "bias %g", bias)
		assert.Equal(t, psi, s.Layers()[0].(*material.Semiconductor).SurfacePotential().Volts())
		assert.Equal(t, StateConverged, s.State())
	}
}

func TestFlatbandAndThresholdSolves(t *testing.T) {
	s := reference(t)

	vfb, err := s.FlatbandVoltage()
	require.NoError(t, err)
	res, err := s.SolveBias(vfb)
	require.NoError(t, err)
	assert.InDelta(t, 0, res.SurfacePotential.Volts(), 1e-9)
	assert.InDelta(t, 0, res.ChargeDensity.CoulombsPerSquareCentimeter(), 1e-12)

	vt, err := s.ThresholdVoltage()
	require.NoError(t, err)
	res, err = s.SolveBias(vt)
	require.NoError(t, err)
	inv, err := s.Layers()[0].(*material.Semiconductor).InversionSurfacePotential()
	require.NoError(t, err)
	assert.InDelta(t, inv.Volts(), res.SurfacePotential.Volts(), 1e-8)
}

func TestWarmAndColdSolvesAgree(t *testing.T) {
	warm := reference(t)
	cold := reference(t)

	for v := -2.5; v <= 2.5; v += 0.25 {
		a, err := warm.SolveBias(volts(v))
		require.NoError(t, err)
		b, err := cold.SolveBiasCold(volts(v))
		require.NoError(t, err)
		assert.InDelta(t, a.SurfacePotential.Volts(), b.SurfacePotential.Volts(), 1e-8, "bias %g", v)
	}
}

func TestLayerPotentialsReachGate(t *testing.T) {
	s := reference(t)
	vfb, err := s.FlatbandVoltage()
	require.NoError(t, err)

	res, err := s.SolveBias(volts(1.2))
	require.NoError(t, err)
	require.Len(t, res.LayerPotentials, 3)

	semi, ox, metal := res.LayerPotentials[0], res.LayerPotentials[1], res.LayerPotentials[2]
	assert.Equal(t, material.KindSemiconductor, semi.Kind)
	assert.Equal(t, 0.0, semi.BaseSide.Volts())
	assert.Equal(t, res.SurfacePotential, semi.GateSide)
	assert.Equal(t, semi.GateSide, ox.BaseSide)
	assert.InDelta(t, 1.2-vfb.Volts(), ox.GateSide.Volts(), 1e-8)
	assert.Equal(t, ox.GateSide, metal.BaseSide)
	assert.Equal(t, metal.BaseSide, metal.GateSide)
	assert.Equal(t, 0.0, metal.Field.VoltsPerCentimeter())

	// displacement is continuous across the oxide/semiconductor interface
	epsOx := constants.Permittivity(3.9)
	epsSi := constants.Permittivity(11.7)
	assert.InEpsilon(t, epsSi*semi.Field.VoltsPerCentimeter(), epsOx*ox.Field.VoltsPerCentimeter(), 1e-12)
}

func TestConvergenceFailureKeepsPreviousState(t *testing.T) {
	s := reference(t)
	before := s.Result()
	psi := before.SurfacePotential

	s.SetSolverOptions(numeric.Options{Tolerance: 1e-15, MaxIterations: 1})
	_, err := s.SolveBiasCold(volts(-3))
	require.Error(t, err)

	var conv *numeric.ConvergenceError
	assert.True(t, errors.As(err, &conv))
	assert.Equal(t, StateFailed, s.State())
	assert.Same(t, before, s.Result())
	assert.Equal(t, psi, s.Layers()[0].(*material.Semiconductor).SurfacePotential())
	assert.Equal(t, 0.0, s.Bias().Volts())
}

func TestConcurrentSolveIsRejected(t *testing.T) {
	s := reference(t)
	s.state.Store(int32(StateSolving))

	_, err := s.SolveBias(volts(1))
	assert.ErrorIs(t, err, ErrSolveInProgress)

	s.state.Store(int32(StateConverged))
	_, err = s.SolveBias(volts(1))
	assert.NoError(t, err)
}

func TestMutationsRevalidate(t *testing.T) {
	s := reference(t)

	removed, err := s.RemoveLayer(2)
	require.NoError(t, err)
	assert.False(t, s.IsValid())
	assert.Nil(t, s.Result())

	require.NoError(t, s.AddLayer(removed))
	assert.True(t, s.IsValid())
	require.NotNil(t, s.Result())

	require.NoError(t, s.MoveLayer(0, 2))
	assert.False(t, s.IsValid(), "semiconductor moved next to the gate metal")
	require.NoError(t, s.MoveLayer(2, 0))
	assert.True(t, s.IsValid())

	require.NoError(t, s.InsertLayer(2, oxide(t, 3)))
	eot, err := s.EquivalentOxideThickness()
	require.NoError(t, err)
	assert.InDelta(t, 5.0, eot.Nanometers(), 1e-12)

	_, err = s.RemoveLayer(9)
	assert.Error(t, err)
	assert.Error(t, s.InsertLayer(-1, oxide(t, 1)))
	assert.Error(t, s.MoveLayer(0, 9))
}

func TestResolveAfterPropertyEdit(t *testing.T) {
	s := reference(t)
	_, err := s.SolveBias(volts(1))
	require.NoError(t, err)

	ox := s.Layers()[1].(*material.Dielectric)
	ox.SetThickness(nm(4))

	res, err := s.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Bias.Volts())

	c, err := s.OxideCapacitance()
	require.NoError(t, err)
	vfb, err := s.FlatbandVoltage()
	require.NoError(t, err)
	q := res.ChargeDensity.CoulombsPerSquareCentimeter()
	assert.InDelta(t, 1.0, vfb.Volts()+res.SurfacePotential.Volts()-q/c.FaradsPerSquareCentimeter(), 1e-8)
}

func TestZeroThicknessStack(t *testing.T) {
	s := reference(t)
	s.Layers()[2].SetThickness(units.Length{})

	_, err := s.StackCapacitance()
	assert.Error(t, err)

	ox := s.Layers()[1]
	ox.SetThickness(units.Length{})
	_, err = s.OxideCapacitance()
	assert.Error(t, err)
}

func TestSemiconductorAttachedAtOtherTemperature(t *testing.T) {
	sc := silicon(t)
	require.NoError(t, sc.Attach(kelvin(350)))

	_, err := New(kelvin(300), sc, oxide(t, 2), gate(4.45))
	var attached *material.AlreadyAttachedError
	assert.True(t, errors.As(err, &attached))
}

func TestCloneIsIndependent(t *testing.T) {
	s := reference(t)
	c := s.Clone()

	_, err := c.SolveBias(volts(2))
	require.NoError(t, err)

	assert.Equal(t, 0.0, s.Bias().Volts())
	assert.InDelta(t, -0.17559, s.Layers()[0].(*material.Semiconductor).SurfacePotential().Volts(), 1e-4)
	assert.Equal(t, 2.0, c.Bias().Volts())
	assert.NotSame(t, s.Layers()[0], c.Layers()[0])
}

func TestSummary(t *testing.T) {
	s := reference(t)
	sum, err := s.Summary()
	require.NoError(t, err)

	assert.Equal(t, KindMOS, sum.Kind)
	assert.InDelta(t, 2.0, sum.EquivalentOxideThickness.Nanometers(), 1e-12)
	assert.InDelta(t, 0.305, sum.FlatbandVoltage.Volts(), 5e-4)
	assert.InDelta(t, -0.953, sum.ThresholdVoltage.Volts(), 5e-4)
	assert.InEpsilon(t, 5.197e-7, sum.StackCapacitance.FaradsPerSquareCentimeter(), 1e-4)
	assert.InDelta(t, 4.145, sum.WorkFunction.ElectronVolts(), 5e-4)
	assert.Less(t, sum.FlatbandCapacitance.FaradsPerSquareCentimeter(), sum.OxideCapacitance.FaradsPerSquareCentimeter())

	m, err := New(kelvin(300), gate(4.45), oxide(t, 10), gate(5.1))
	require.NoError(t, err)
	sum, err = m.Summary()
	require.NoError(t, err)
	assert.Equal(t, KindMIM, sum.Kind)
	assert.Equal(t, sum.OxideCapacitance, sum.StackCapacitance)
	assert.Zero(t, sum.ThresholdVoltage.Volts())

	empty, err := New(kelvin(300))
	require.NoError(t, err)
	_, err = empty.Summary()
	assert.Error(t, err)
}
