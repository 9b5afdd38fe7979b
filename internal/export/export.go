// Package export writes sweep results as JSON, YAML, CSV, CBOR or MessagePack
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexiusacademia/gomoscap/internal/sweep"
)

// Format is an output encoding
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatCSV     Format = "csv"
	FormatCBOR    Format = "cbor"
	FormatMsgpack Format = "msgpack"
)

// FormatFor picks the format from a file extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	case ".cbor":
		return FormatCBOR, nil
	case ".msgpack", ".mp":
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("cannot infer export format from %q (use .json, .yaml, .csv, .cbor or .msgpack)", path)
}

// Document is the serialised form of a sweep
type Document struct {
	ID        string    `json:"id" yaml:"id" msgpack:"id"`
	Structure string    `json:"structure" yaml:"structure" msgpack:"structure"`
	Start     float64   `json:"start_v" yaml:"start_v" msgpack:"start_v"`
	Stop      float64   `json:"stop_v" yaml:"stop_v" msgpack:"stop_v"`
	Step      float64   `json:"step_v" yaml:"step_v" msgpack:"step_v"`
	Parallel  bool      `json:"parallel" yaml:"parallel" msgpack:"parallel"`
	Started   time.Time `json:"started" yaml:"started" msgpack:"started"`
	ElapsedMs float64   `json:"elapsed_ms" yaml:"elapsed_ms" msgpack:"elapsed_ms"`
	Points    []Row     `json:"points" yaml:"points" msgpack:"points"`
}

// Row is one bias point. Solution fields are zero when Status is not converged.
type Row struct {
	Bias             float64 `json:"bias_v" yaml:"bias_v" msgpack:"bias_v"`
	Status           string  `json:"status" yaml:"status" msgpack:"status"`
	SurfacePotential float64 `json:"surface_potential_v" yaml:"surface_potential_v" msgpack:"surface_potential_v"`
	Charge           float64 `json:"charge_c_cm2" yaml:"charge_c_cm2" msgpack:"charge_c_cm2"`
	GateCharge       float64 `json:"gate_charge_c_cm2" yaml:"gate_charge_c_cm2" msgpack:"gate_charge_c_cm2"`
	Field            float64 `json:"field_v_cm" yaml:"field_v_cm" msgpack:"field_v_cm"`
	Capacitance      float64 `json:"capacitance_f_cm2" yaml:"capacitance_f_cm2" msgpack:"capacitance_f_cm2"`
	Iterations       int     `json:"iterations" yaml:"iterations" msgpack:"iterations"`
	Error            string  `json:"error,omitempty" yaml:"error,omitempty" msgpack:"error,omitempty"`
}

// FromSweep converts a sweep result
func FromSweep(res *sweep.Result) Document {
	doc := Document{
		ID:        res.ID.String(),
		Structure: res.Kind.String(),
		Start:     res.Range.Start.Volts(),
		Stop:      res.Range.Stop.Volts(),
		Step:      res.Range.Step.Volts(),
		Parallel:  res.Parallel,
		Started:   res.Started.UTC(),
		ElapsedMs: float64(res.Elapsed) / float64(time.Millisecond),
		Points:    make([]Row, len(res.Points)),
	}
	for i := range res.Points {
		p := &res.Points[i]
		row := Row{Bias: p.Bias.Volts(), Status: p.Status.String()}
		if p.Err != nil {
			row.Error = p.Err.Error()
		}
		if r := p.Result; r != nil {
			row.SurfacePotential = r.SurfacePotential.Volts()
			row.Charge = r.ChargeDensity.CoulombsPerSquareCentimeter()
			row.GateCharge = r.GateCharge.CoulombsPerSquareCentimeter()
			row.Field = r.ElectricField.VoltsPerCentimeter()
			row.Capacitance = r.Capacitance.FaradsPerSquareCentimeter()
			row.Iterations = r.Iterations
		}
		doc.Points[i] = row
	}
	return doc
}
