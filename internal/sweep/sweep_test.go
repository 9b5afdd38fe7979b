package sweep

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/alexiusacademia/gomoscap/internal/constants"
	"github.com/alexiusacademia/gomoscap/internal/material"
	"github.com/alexiusacademia/gomoscap/internal/numeric"
	"github.com/alexiusacademia/gomoscap/internal/structure"
	"github.com/alexiusacademia/gomoscap/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nm(v float64) units.Length               { return units.Must(units.LengthFromNanometers(v)) }
func ev(v float64) units.Energy               { return units.Must(units.EnergyFromElectronVolts(v)) }
func volts(v float64) units.ElectricPotential { return units.Must(units.PotentialFromVolts(v)) }
func perCm3(v float64) units.Concentration    { return units.Must(units.ConcentrationFromPerCubicCentimeter(v)) }
func kelvin(v float64) units.Temperature      { return units.Must(units.TemperatureFromKelvin(v)) }

func reference(t *testing.T) *structure.Structure {
	t.Helper()
	sc, err := material.NewSemiconductor(material.SemiconductorParams{
		Thickness:              nm(50),
		BandGap:                ev(1.1252),
		ElectronAffinity:       ev(4.05),
		DielectricConstant:     11.7,
		IntrinsicConcentration: perCm3(1.41e10),
		Doping:                 material.NType,
		DopantConcentration:    perCm3(1e18),
	})
	require.NoError(t, err)
	ox, err := material.NewDielectric(nm(2), 3.9, ev(8.9), ev(0.95))
	require.NoError(t, err)
	s, err := structure.New(kelvin(300), sc, ox, material.NewMetalWithWorkFunction(nm(4), ev(4.45)))
	require.NoError(t, err)
	return s
}

func mim(t *testing.T) *structure.Structure {
	t.Helper()
	ox, err := material.NewDielectric(nm(10), 3.9, ev(8.9), ev(0.95))
	require.NoError(t, err)
	s, err := structure.New(kelvin(300),
		material.NewMetalWithWorkFunction(nm(5), ev(4.45)),
		ox,
		material.NewMetalWithWorkFunction(nm(5), ev(5.1)))
	require.NoError(t, err)
	return s
}

func mustRange(t *testing.T, start, stop, step float64) Range {
	t.Helper()
	r, err := NewRange(start, stop, step)
	require.NoError(t, err)
	return r
}

func TestRangePoints(t *testing.T) {
	r := mustRange(t, -1, 1, 0.5)
	pts := r.Points()
	require.Len(t, pts, 5)
	assert.Equal(t, -1.0, pts[0].Volts())
	assert.InDelta(t, 1.0, pts[4].Volts(), 1e-12)

	r = mustRange(t, 1, -1, -0.1)
	assert.Equal(t, 21, r.Len())

	r = mustRange(t, 0.3, 0.3, 0)
	assert.Equal(t, 1, r.Len())

	r = mustRange(t, 0, 1, 0.3)
	pts = r.Points()
	require.Len(t, pts, 4)
	assert.InDelta(t, 0.9, pts[3].Volts(), 1e-12)
}

func TestRangeValidation(t *testing.T) {
	_, err := NewRange(0, 1, 0)
	assert.Error(t, err)
	_, err = NewRange(0, 1, -0.1)
	assert.Error(t, err)
	_, err = NewRange(0, 1e3, 1e-6)
	assert.Error(t, err)
	assert.Equal(t, 0, Range{Start: volts(0), Stop: volts(1)}.Len())
}

func TestSequentialSweep(t *testing.T) {
	s := reference(t)
	res, err := (&Generator{}).Run(context.Background(), s, mustRange(t, -2, 2, 0.1))
	require.NoError(t, err)

	require.Len(t, res.Points, 41)
	assert.Equal(t, 41, res.Solved())
	assert.Equal(t, 0, res.Failed())
	assert.Equal(t, structure.KindMOS, res.Kind)
	assert.False(t, res.Parallel)
	assert.NotEqual(t, [16]byte{}, [16]byte(res.ID))

	// the caller's structure stays at its own bias
	assert.Equal(t, 0.0, s.Bias().Volts())

	cox, err := s.OxideCapacitance()
	require.NoError(t, err)
	cv := slices.Collect(res.CV())
	require.Len(t, cv, 41)
	for _, p := range cv {
		assert.Equal(t, KindCapacitance, p.Kind)
		assert.Less(t, p.Y, cox.FaradsPerSquareCentimeter())
		assert.Greater(t, p.Y, 0.0)
	}
	assert.Greater(t, cv[40].Y/cox.FaradsPerSquareCentimeter(), 0.9, "accumulation approaches Cox")
	assert.Equal(t, cv, slices.Collect(res.CV()), "sequence is restartable")
}

func TestParallelMatchesSequential(t *testing.T) {
	s := reference(t)
	r := mustRange(t, 2, -2, -0.25)

	seq, err := (&Generator{}).Run(context.Background(), s, r)
	require.NoError(t, err)
	par, err := (&Generator{Workers: 4}).Run(context.Background(), s, r)
	require.NoError(t, err)

	assert.True(t, par.Parallel)
	require.Len(t, par.Points, len(seq.Points))
	for i := range seq.Points {
		require.True(t, par.Points[i].Solved())
		assert.Equal(t, seq.Points[i].Bias, par.Points[i].Bias)
		assert.InDelta(t,
			seq.Points[i].Result.SurfacePotential.Volts(),
			par.Points[i].Result.SurfacePotential.Volts(), 1e-8)
	}
}

func TestFailedPointsDoNotAbortSweep(t *testing.T) {
	s := reference(t)
	s.SetSolverOptions(numeric.Options{Tolerance: 1e-15, MaxIterations: 1})

	res, err := (&Generator{}).Run(context.Background(), s, mustRange(t, -2, 2, 0.5))
	require.NoError(t, err)

	assert.Len(t, res.Points, 9)
	assert.Positive(t, res.Failed())
	assert.Equal(t, len(res.Points), res.Solved()+res.Failed())
	assert.Len(t, slices.Collect(res.CV()), res.Solved())

	for _, p := range res.Points {
		if p.Solved() {
			continue
		}
		var conv *numeric.ConvergenceError
		assert.True(t, errors.As(p.Err, &conv))
		assert.Nil(t, p.Result)
		_, err := p.Profile(KindPotential, 8)
		assert.Error(t, err)
	}
}

func TestCancelledSweepKeepsPartialResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, g := range []*Generator{{}, {Workers: 3}} {
		res, err := g.Run(ctx, reference(t), mustRange(t, 0, 1, 0.1))
		assert.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, res)
		assert.Len(t, res.Points, 11)
		assert.Equal(t, 0, res.Failed())
		for _, p := range res.Points {
			assert.Equal(t, structure.StateIdle, p.Status)
		}
	}
}

func TestInvalidInputs(t *testing.T) {
	_, err := (&Generator{}).Run(context.Background(), reference(t), Range{Start: volts(0), Stop: volts(1)})
	assert.Error(t, err)

	empty, err := structure.New(kelvin(300))
	require.NoError(t, err)
	_, err = (&Generator{}).Run(context.Background(), empty, mustRange(t, 0, 1, 0.5))
	var invalid *structure.InvalidStructureError
	assert.True(t, errors.As(err, &invalid))

	_, err = Profile(empty, KindPotential, 8)
	assert.Error(t, err)
	_, err = Profile(reference(t), KindCapacitance, 8)
	assert.Error(t, err)
}

func TestPotentialProfile(t *testing.T) {
	s := reference(t)
	_, err := s.SolveBias(volts(1))
	require.NoError(t, err)
	vfb, err := s.FlatbandVoltage()
	require.NoError(t, err)

	seq, err := Profile(s, KindPotential, 32)
	require.NoError(t, err)
	pts := slices.Collect(seq)
	require.Len(t, pts, 2+2+32)

	// gate first, then oxide, then substrate
	assert.Equal(t, 2, pts[0].Layer)
	assert.Equal(t, 1, pts[2].Layer)
	assert.Equal(t, 0, pts[4].Layer)
	assert.Equal(t, 0.0, pts[0].X)
	assert.InDelta(t, 56.0, pts[len(pts)-1].X, 1e-9)
	for i := 1; i < len(pts); i++ {
		assert.GreaterOrEqual(t, pts[i].X, pts[i-1].X)
	}

	assert.InDelta(t, 1-vfb.Volts(), pts[0].Y, 1e-8)
	assert.Equal(t, pts[1].Y, pts[2].Y, "continuous at gate/oxide")
	assert.Equal(t, pts[3].Y, pts[4].Y, "continuous at oxide/substrate")
	assert.Equal(t, s.Result().SurfacePotential.Volts(), pts[4].Y)
	assert.InDelta(t, 0, pts[len(pts)-1].Y, 1e-3, "relaxes to the bulk")

	assert.Equal(t, slices.Collect(seq), pts, "sequence is restartable")

	n := 0
	for range seq {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestFieldProfileDisplacementContinuity(t *testing.T) {
	s := reference(t)
	_, err := s.SolveBias(volts(-1))
	require.NoError(t, err)

	seq, err := Profile(s, KindElectricField, 16)
	require.NoError(t, err)
	pts := slices.Collect(seq)

	assert.Equal(t, 0.0, pts[0].Y, "no field in the gate")
	oxide := pts[3].Y
	surface := pts[4].Y
	assert.InEpsilon(t, constants.Permittivity(3.9)*oxide, constants.Permittivity(11.7)*surface, 1e-12)
}

func TestBandDiagram(t *testing.T) {
	s := reference(t)
	_, err := s.SolveBias(volts(1))
	require.NoError(t, err)
	sc := s.Layers()[0].(*material.Semiconductor)
	wf, err := sc.WorkFunction()
	require.NoError(t, err)

	fermi, err := BandProfile(s, BandFermi, 16)
	require.NoError(t, err)
	pts := slices.Collect(fermi)
	require.Len(t, pts, 2+16, "no Fermi level inside the oxide")

	// gate Fermi level sits qV below the substrate Fermi level
	assert.InDelta(t, -wf.ElectronVolts()-1, pts[0].Y, 1e-8)
	for _, p := range pts[2:] {
		assert.Equal(t, -wf.ElectronVolts(), p.Y)
	}

	cond, err := BandProfile(s, BandConduction, 16)
	require.NoError(t, err)
	cpts := slices.Collect(cond)
	require.Len(t, cpts, 2+16, "no band edges in the metal")
	assert.Equal(t, 1, cpts[0].Layer)
	assert.InDelta(t, -4.05, cpts[len(cpts)-1].Y, 1e-3)

	all, err := Profile(s, KindEnergy, 16)
	require.NoError(t, err)
	count := map[Band]int{}
	for p := range all {
		assert.Equal(t, KindEnergy, p.Kind)
		count[p.Band]++
	}
	assert.Equal(t, map[Band]int{
		BandVacuum:     2 + 2 + 16,
		BandConduction: 2 + 16,
		BandValence:    2 + 16,
		BandIntrinsic:  16,
		BandFermi:      2 + 16,
	}, count)
}

func TestMIMProfile(t *testing.T) {
	s := mim(t)
	_, err := s.SolveBias(volts(1.65))
	require.NoError(t, err)

	seq, err := Profile(s, KindPotential, 8)
	require.NoError(t, err)
	pts := slices.Collect(seq)
	require.Len(t, pts, 6)
	assert.Equal(t, 2, pts[0].Layer)
	assert.InDelta(t, 1.0, pts[0].Y, 1e-12)
	assert.InDelta(t, 0.0, pts[5].Y, 1e-12)

	charge, err := Profile(s, KindChargeDensity, 8)
	require.NoError(t, err)
	cpts := slices.Collect(charge)
	assert.InDelta(t, 0, cpts[0].Y+cpts[5].Y, 1e-18, "plates carry opposite charge")
}

func TestPointProfileUsesSnapshot(t *testing.T) {
	res, err := (&Generator{}).Run(context.Background(), reference(t), mustRange(t, -1, 1, 1))
	require.NoError(t, err)

	first, err := res.Points[0].Profile(KindPotential, 8)
	require.NoError(t, err)
	last, err := res.Points[2].Profile(KindPotential, 8)
	require.NoError(t, err)

	a := slices.Collect(first)
	b := slices.Collect(last)
	assert.Less(t, a[0].Y, b[0].Y)
	assert.Equal(t, -1.0, res.Points[0].Structure().Bias().Volts())
}

func TestParseKind(t *testing.T) {
	for k, name := range kindNames {
		got, err := ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("temperature")
	assert.Error(t, err)
	assert.Equal(t, "fermi", BandFermi.String())
	for _, b := range Bands {
		got, err := ParseBand(b.String())
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}
	_, err = ParseBand("mid")
	assert.Error(t, err)
}
