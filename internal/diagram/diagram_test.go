package diagram

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gomoscap/internal/stackfile"
	"github.com/alexiusacademia/gomoscap/internal/structure"
	"github.com/alexiusacademia/gomoscap/internal/sweep"
	"github.com/alexiusacademia/gomoscap/internal/units"
)

const presetStack = `
name: tin-gate
layers:
  - material: Si
    thickness_nm: 50
    doping: n
    dopant_concentration_cm3: 1e18
  - material: SiO2
    thickness_nm: 2
  - material: TiN
    thickness_nm: 4
`

func solved(t *testing.T, bias float64) *structure.Structure {
	t.Helper()
	st, err := stackfile.Parse([]byte(presetStack), stackfile.FormatYAML)
	require.NoError(t, err)
	s, err := st.Build()
	require.NoError(t, err)
	v, err := units.PotentialFromVolts(bias)
	require.NoError(t, err)
	_, err = s.SolveBias(v)
	require.NoError(t, err)
	return s
}

func cvSweep(t *testing.T) *sweep.Result {
	t.Helper()
	r, err := sweep.NewRange(-1, 1, 0.1)
	require.NoError(t, err)
	res, err := (&sweep.Generator{}).Run(context.Background(), solved(t, 0), r)
	require.NoError(t, err)
	return res
}

func TestSplitGroupsBands(t *testing.T) {
	seq, err := sweep.Profile(solved(t, 1), sweep.KindEnergy, 12)
	require.NoError(t, err)

	series := Split(seq)
	require.Len(t, series, len(sweep.Bands))
	for i, s := range series {
		assert.Equal(t, sweep.Bands[i], s.Band)
		assert.NotEmpty(t, s.Points)
		assert.Equal(t, s.Band.String(), s.Label())
	}
}

func TestResampleLeavesGapsBetweenLayers(t *testing.T) {
	seq, err := sweep.BandProfile(solved(t, 1), sweep.BandFermi, 12)
	require.NoError(t, err)
	series := Split(seq)
	require.Len(t, series, 1)

	// gate 0-4 nm, oxide 4-6 nm, substrate 6-56 nm
	data := Resample(series[0].Points, 0, 56, 57)
	require.Len(t, data, 57)
	assert.False(t, math.IsNaN(data[2]), "inside the gate")
	assert.True(t, math.IsNaN(data[5]), "no Fermi level in the oxide")
	assert.False(t, math.IsNaN(data[30]), "inside the substrate")
	assert.InDelta(t, series[0].Points[0].Y, data[0], 1e-12)
}

func TestDrawProfile(t *testing.T) {
	seq, err := sweep.Profile(solved(t, 1), sweep.KindEnergy, 12)
	require.NoError(t, err)

	out, err := DrawProfile(Split(seq), ASCIIOptions{Width: 40, Height: 10, Caption: "band diagram at 1 V"})
	require.NoError(t, err)
	assert.Contains(t, out, "band diagram at 1 V")
	assert.Contains(t, out, "fermi")
	assert.Contains(t, out, "x: 0..56 nm")

	_, err = DrawProfile(nil, ASCIIOptions{})
	assert.Error(t, err)
}

func TestDrawCV(t *testing.T) {
	out, err := DrawCV(cvSweep(t), ASCIIOptions{Height: 8})
	require.NoError(t, err)
	assert.Contains(t, out, "C (µF/cm²) vs V")
	assert.GreaterOrEqual(t, strings.Count(out, "\n"), 8)

	_, err = DrawCV(&sweep.Result{}, ASCIIOptions{})
	assert.Error(t, err)
}

func TestDrawStack(t *testing.T) {
	out := DrawStack(solved(t, 0))
	assert.Contains(t, out, "MOS STACK  (converged)")
	assert.Contains(t, out, "2 metal 4 nm")
	assert.Contains(t, out, "1 dielectric 2 nm")
	assert.Contains(t, out, "0 semiconductor 50 nm")
	assert.Contains(t, out, "V/cm")

	// gate face first, substrate bulk last
	assert.Less(t, strings.Index(out, "metal"), strings.Index(out, "semiconductor"))
	assert.Contains(t, out, "+0.0000 V")
}

func TestDrawSummaryBoxAligns(t *testing.T) {
	out := DrawSummaryBox("MOS", []string{"Cox = 1.7266 µF/cm²", "EOT = 2 nm"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	width := len([]rune(lines[0]))
	for _, l := range lines {
		assert.Len(t, []rune(l), width, l)
	}
}

func TestExportImages(t *testing.T) {
	dir := t.TempDir()

	seq, err := sweep.Profile(solved(t, 1), sweep.KindPotential, 12)
	require.NoError(t, err)
	profile := filepath.Join(dir, "out", "potential.svg")
	require.NoError(t, ExportProfile(Split(seq), sweep.KindPotential, "potential", profile))

	cv := filepath.Join(dir, "cv.png")
	require.NoError(t, ExportCV(cvSweep(t), 1.7e-6, "C-V", cv))

	noExt := filepath.Join(dir, "bands")
	seq, err = sweep.Profile(solved(t, 1), sweep.KindEnergy, 12)
	require.NoError(t, err)
	require.NoError(t, ExportProfile(Split(seq), sweep.KindEnergy, "bands", noExt))

	for _, f := range []string{profile, cv, noExt + ".png"} {
		info, err := os.Stat(f)
		require.NoError(t, err, f)
		assert.Positive(t, info.Size())
	}

	assert.Error(t, ExportCV(&sweep.Result{}, 0, "empty", filepath.Join(dir, "empty.png")))
}
