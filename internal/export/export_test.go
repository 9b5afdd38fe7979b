package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/gomoscap/internal/material"
	"github.com/alexiusacademia/gomoscap/internal/numeric"
	"github.com/alexiusacademia/gomoscap/internal/structure"
	"github.com/alexiusacademia/gomoscap/internal/sweep"
	"github.com/alexiusacademia/gomoscap/internal/units"
)

func sweepResult(t *testing.T, opts numeric.Options) *sweep.Result {
	t.Helper()
	nm := func(v float64) units.Length { return units.Must(units.LengthFromNanometers(v)) }
	ev := func(v float64) units.Energy { return units.Must(units.EnergyFromElectronVolts(v)) }

	sc, err := material.NewSemiconductor(material.SemiconductorParams{
		Thickness:              nm(50),
		BandGap:                ev(1.1252),
		ElectronAffinity:       ev(4.05),
		DielectricConstant:     11.7,
		IntrinsicConcentration: units.Must(units.ConcentrationFromPerCubicCentimeter(1.41e10)),
		Doping:                 material.NType,
		DopantConcentration:    units.Must(units.ConcentrationFromPerCubicCentimeter(1e18)),
	})
	require.NoError(t, err)
	ox, err := material.NewDielectric(nm(2), 3.9, ev(8.9), ev(0.95))
	require.NoError(t, err)
	s, err := structure.New(units.Must(units.TemperatureFromKelvin(300)), sc, ox, material.NewMetalWithWorkFunction(nm(4), ev(4.45)))
	require.NoError(t, err)
	s.SetSolverOptions(opts)

	r, err := sweep.NewRange(-1, 1, 0.5)
	require.NoError(t, err)
	res, err := (&sweep.Generator{}).Run(context.Background(), s, r)
	require.NoError(t, err)
	return res
}

func TestFormatFor(t *testing.T) {
	for path, want := range map[string]Format{
		"cv.json":    FormatJSON,
		"cv.YAML":    FormatYAML,
		"cv.yml":     FormatYAML,
		"cv.csv":     FormatCSV,
		"cv.cbor":    FormatCBOR,
		"cv.msgpack": FormatMsgpack,
		"cv.mp":      FormatMsgpack,
	} {
		got, err := FormatFor(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatFor("cv.txt")
	assert.Error(t, err)
}

func TestFromSweep(t *testing.T) {
	res := sweepResult(t, numeric.DefaultOptions())
	doc := FromSweep(res)

	assert.Equal(t, res.ID.String(), doc.ID)
	assert.Equal(t, "MOS", doc.Structure)
	assert.Equal(t, -1.0, doc.Start)
	assert.Equal(t, 0.5, doc.Step)
	require.Len(t, doc.Points, 5)
	for i, row := range doc.Points {
		assert.Equal(t, "converged", row.Status)
		assert.Empty(t, row.Error)
		assert.Equal(t, res.Points[i].Result.Capacitance.FaradsPerSquareCentimeter(), row.Capacitance)
		assert.Equal(t, -row.Charge, row.GateCharge)
	}
}

func TestFailedRowsCarryError(t *testing.T) {
	doc := FromSweep(sweepResult(t, numeric.Options{Tolerance: 1e-15, MaxIterations: 1}))
	failed := 0
	for _, row := range doc.Points {
		if row.Status == "failed" {
			failed++
			assert.NotEmpty(t, row.Error)
			assert.Zero(t, row.Capacitance)
		}
	}
	assert.Positive(t, failed)
}

func TestBinaryRoundTrips(t *testing.T) {
	doc := FromSweep(sweepResult(t, numeric.DefaultOptions()))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCBOR, doc))
	back, err := ReadCBOR(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc.Points, back.Points)
	assert.Equal(t, doc.ID, back.ID)
	assert.True(t, doc.Started.Equal(back.Started))

	buf.Reset()
	require.NoError(t, Write(&buf, FormatMsgpack, doc))
	back, err = ReadMsgpack(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc.Points, back.Points)
	assert.Equal(t, doc.Structure, back.Structure)
	assert.True(t, doc.Started.Equal(back.Started))
}

func TestTextFormats(t *testing.T) {
	doc := FromSweep(sweepResult(t, numeric.DefaultOptions()))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, doc))
	var fromJSON Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, doc.Points, fromJSON.Points)

	buf.Reset()
	require.NoError(t, Write(&buf, FormatYAML, doc))
	var fromYAML Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, doc.Points, fromYAML.Points)

	buf.Reset()
	require.NoError(t, Write(&buf, FormatCSV, doc))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "-1", records[1][0])
	assert.Equal(t, "converged", records[1][1])

	assert.Error(t, Write(&buf, Format("xml"), doc))
}

func TestWriteFile(t *testing.T) {
	doc := FromSweep(sweepResult(t, numeric.DefaultOptions()))
	path := filepath.Join(t.TempDir(), "cv.msgpack")
	require.NoError(t, WriteFile(path, doc))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	back, err := ReadMsgpack(f)
	require.NoError(t, err)
	assert.Len(t, back.Points, 5)

	assert.Error(t, WriteFile(filepath.Join(t.TempDir(), "cv.bin"), doc))
}
