package api

import (
	"github.com/alexiusacademia/gomoscap/internal/stackfile"
	"github.com/alexiusacademia/gomoscap/internal/structure"
	"github.com/alexiusacademia/gomoscap/internal/sweep"
)

// BiasRequest asks for the solved state at one gate bias
type BiasRequest struct {
	Stack stackfile.Stack `json:"stack"`
	Bias  float64         `json:"bias_v"`
	Cold  bool            `json:"cold,omitempty"`
}

// ProfileRequest asks for a spatial profile at one gate bias
type ProfileRequest struct {
	Stack   stackfile.Stack `json:"stack"`
	Bias    float64         `json:"bias_v"`
	Kind    string          `json:"kind"`           // energy, potential, field or charge
	Band    string          `json:"band,omitempty"` // restricts kind energy to one level
	Samples int             `json:"samples,omitempty"`
}

// SweepRequest asks for a C-V sweep
type SweepRequest struct {
	Stack    stackfile.Stack `json:"stack"`
	Start    float64         `json:"start_v"`
	Stop     float64         `json:"stop_v"`
	Step     float64         `json:"step_v"`
	Parallel bool            `json:"parallel,omitempty"`
}

// AnalyzeResponse lists the aggregate quantities of a stack
type AnalyzeResponse struct {
	Name                string   `json:"name"`
	Kind                string   `json:"kind"`
	Bias                float64  `json:"bias_v"`
	FlatbandVoltage     float64  `json:"flatband_voltage_v"`
	EOT                 float64  `json:"eot_nm"`
	OxideCapacitance    float64  `json:"oxide_capacitance_f_cm2"`
	StackCapacitance    float64  `json:"stack_capacitance_f_cm2"`
	ThresholdVoltage    *float64 `json:"threshold_voltage_v,omitempty"`
	SurfacePotential    *float64 `json:"surface_potential_v,omitempty"`
	BulkPotential       *float64 `json:"bulk_potential_v,omitempty"`
	WorkFunction        *float64 `json:"semiconductor_work_function_ev,omitempty"`
	FlatbandCapacitance *float64 `json:"flatband_capacitance_f_cm2,omitempty"`
	DebyeLength         *float64 `json:"debye_length_nm,omitempty"`
}

// LayerState is the electrostatic state of one layer
type LayerState struct {
	Index    int     `json:"index"`
	Kind     string  `json:"kind"`
	GateSide float64 `json:"gate_side_v"`
	BaseSide float64 `json:"base_side_v"`
	Field    float64 `json:"field_v_cm"`
}

// BiasResponse is the solved state at one bias
type BiasResponse struct {
	Bias             float64      `json:"bias_v"`
	SurfacePotential float64      `json:"surface_potential_v"`
	Charge           float64      `json:"charge_c_cm2"`
	GateCharge       float64      `json:"gate_charge_c_cm2"`
	Field            float64      `json:"field_v_cm"`
	Capacitance      float64      `json:"capacitance_f_cm2"`
	Iterations       int          `json:"iterations"`
	Layers           []LayerState `json:"layers"`
}

// ProfilePoint is one sample of a profile
type ProfilePoint struct {
	X     float64 `json:"x_nm"`
	Y     float64 `json:"y"`
	Band  string  `json:"band,omitempty"`
	Layer int     `json:"layer"`
}

// ProfileResponse is a spatial profile
type ProfileResponse struct {
	Kind   string         `json:"kind"`
	Bias   float64        `json:"bias_v"`
	Points []ProfilePoint `json:"points"`
}

func newAnalyzeResponse(name string, sum structure.Summary) AnalyzeResponse {
	r := AnalyzeResponse{
		Name:             name,
		Kind:             sum.Kind.String(),
		Bias:             sum.Bias.Volts(),
		FlatbandVoltage:  sum.FlatbandVoltage.Volts(),
		EOT:              sum.EquivalentOxideThickness.Nanometers(),
		OxideCapacitance: sum.OxideCapacitance.FaradsPerSquareCentimeter(),
		StackCapacitance: sum.StackCapacitance.FaradsPerSquareCentimeter(),
	}
	if sum.Kind == structure.KindMOS {
		r.ThresholdVoltage = ptr(sum.ThresholdVoltage.Volts())
		r.SurfacePotential = ptr(sum.SurfacePotential.Volts())
		r.BulkPotential = ptr(sum.BulkPotential.Volts())
		r.WorkFunction = ptr(sum.WorkFunction.ElectronVolts())
		r.FlatbandCapacitance = ptr(sum.FlatbandCapacitance.FaradsPerSquareCentimeter())
		r.DebyeLength = ptr(sum.DebyeLength.Nanometers())
	}
	return r
}

func newBiasResponse(res *structure.BiasResult) BiasResponse {
	r := BiasResponse{
		Bias:             res.Bias.Volts(),
		SurfacePotential: res.SurfacePotential.Volts(),
		Charge:           res.ChargeDensity.CoulombsPerSquareCentimeter(),
		GateCharge:       res.GateCharge.CoulombsPerSquareCentimeter(),
		Field:            res.ElectricField.VoltsPerCentimeter(),
		Capacitance:      res.Capacitance.FaradsPerSquareCentimeter(),
		Iterations:       res.Iterations,
		Layers:           make([]LayerState, len(res.LayerPotentials)),
	}
	for i, lp := range res.LayerPotentials {
		r.Layers[i] = LayerState{
			Index:    lp.Index,
			Kind:     lp.Kind.String(),
			GateSide: lp.GateSide.Volts(),
			BaseSide: lp.BaseSide.Volts(),
			Field:    lp.Field.VoltsPerCentimeter(),
		}
	}
	return r
}

func newProfilePoint(p sweep.PlotPoint) ProfilePoint {
	return ProfilePoint{X: p.X, Y: p.Y, Band: p.Band.String(), Layer: p.Layer}
}

func ptr(v float64) *float64 { return &v }
