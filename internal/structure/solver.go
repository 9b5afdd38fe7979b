package structure

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/gomoscap/internal/material"
	"github.com/alexiusacademia/gomoscap/internal/numeric"
	"github.com/alexiusacademia/gomoscap/internal/units"
)

// State is the bias solver state of a Structure
type State int32

const (
	StateIdle State = iota
	StateSolving
	StateConverged
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSolving:
		return "solving"
	case StateConverged:
		return "converged"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// LayerPotential is the electrostatic state of one layer at a solved bias.
// Potentials are referenced to the semiconductor bulk (MOS) or the bottom
// plate (MIM). Fields are positive when pointing from the gate toward the
// substrate.
type LayerPotential struct {
	Index int
	Kind  material.Kind
	// potential at the face toward the gate and at the face away from it
	GateSide units.ElectricPotential
	BaseSide units.ElectricPotential
	// uniform field in a dielectric, surface field in the semiconductor,
	// zero in a metal
	Field units.ElectricField
}

// BiasResult is the converged state of a structure at one applied bias
type BiasResult struct {
	Bias             units.ElectricPotential
	SurfacePotential units.ElectricPotential
	// semiconductor charge (MOS) or bottom plate charge (MIM)
	ChargeDensity   units.ChargeDensity
	GateCharge      units.ChargeDensity
	ElectricField   units.ElectricField
	Capacitance     units.CapacitanceDensity
	LayerPotentials []LayerPotential
	Iterations      int
	Bisections      int
}

// State returns the solver state of the most recent solve
func (s *Structure) State() State { return State(s.state.Load()) }

// Bias returns the applied bias of the most recent successful solve
func (s *Structure) Bias() units.ElectricPotential { return s.bias }

// Result returns the most recent successful solve, or nil
func (s *Structure) Result() *BiasResult { return s.result }

// SolveBias finds the self-consistent surface potential at the applied gate
// bias, seeded from the semiconductor's current surface potential
func (s *Structure) SolveBias(v units.ElectricPotential) (*BiasResult, error) {
	return s.solve(v, true)
}

// SolveBiasCold is SolveBias seeded from flatband (ψ = 0)
func (s *Structure) SolveBiasCold(v units.ElectricPotential) (*BiasResult, error) {
	return s.solve(v, false)
}

func (s *Structure) solve(v units.ElectricPotential, warm bool) (*BiasResult, error) {
	if !s.begin() {
		return nil, ErrSolveInProgress
	}
	res, err := s.compute(v, warm)
	if err != nil {
		s.state.Store(int32(StateFailed))
		return nil, err
	}
	s.commit(res)
	s.state.Store(int32(StateConverged))
	return res, nil
}

// begin moves the state machine into Solving unless a solve is in flight
func (s *Structure) begin() bool {
	for {
		cur := s.state.Load()
		if State(cur) == StateSolving {
			return false
		}
		if s.state.CompareAndSwap(cur, int32(StateSolving)) {
			return true
		}
	}
}

func (s *Structure) commit(res *BiasResult) {
	if l, err := s.layout(); err == nil && l.kind == KindMOS {
		s.semiconductor(l).SetSurfacePotential(res.SurfacePotential)
	}
	s.bias = res.Bias
	s.result = res
}

func (s *Structure) compute(v units.ElectricPotential, warm bool) (*BiasResult, error) {
	l, err := s.layout()
	if err != nil {
		return nil, err
	}
	vfb, err := s.flatband(l)
	if err != nil {
		return nil, err
	}
	cox, err := s.oxideCapacitance()
	if err != nil {
		return nil, err
	}
	if l.kind == KindMIM {
		return s.computeMIM(l, v, vfb, cox)
	}
	return s.computeMOS(l, v, vfb, cox, warm)
}

func (s *Structure) computeMOS(l layout, v, vfb units.ElectricPotential, cox units.CapacitanceDensity, warm bool) (*BiasResult, error) {
	sc := s.semiconductor(l)
	var seed units.ElectricPotential
	if warm {
		seed = sc.SurfacePotential()
	}
	lo, hi := sc.SearchWindow()
	target := v.Sub(vfb).Volts()
	c := cox.FaradsPerSquareCentimeter()

	root, err := numeric.FindRoot(func(psi float64) (float64, float64) {
		p, err := units.PotentialFromVolts(psi)
		if err != nil {
			return math.NaN(), math.NaN()
		}
		q, err := sc.ChargeDensity(p)
		if err != nil {
			return math.NaN(), math.NaN()
		}
		cs, err := sc.CapacitanceDensityAt(p)
		if err != nil {
			return math.NaN(), math.NaN()
		}
		return psi - q.CoulombsPerSquareCentimeter()/c - target, 1 + cs.FaradsPerSquareCentimeter()/c
	}, lo.Volts(), hi.Volts(), seed.Volts(), s.options)
	if err != nil {
		return nil, fmt.Errorf("bias %.4g V: %w", v.Volts(), err)
	}

	psi, err := units.PotentialFromVolts(root.Root)
	if err != nil {
		return nil, err
	}
	q, err := sc.ChargeDensity(psi)
	if err != nil {
		return nil, err
	}
	field, err := sc.ElectricField(psi)
	if err != nil {
		return nil, err
	}
	cs, err := sc.CapacitanceDensityAt(psi)
	if err != nil {
		return nil, err
	}

	res := &BiasResult{
		Bias:             v,
		SurfacePotential: psi,
		ChargeDensity:    q,
		GateCharge:       q.Neg(),
		ElectricField:    field,
		Capacitance:      units.Series(cox, cs),
		Iterations:       root.Iterations,
		Bisections:       root.Bisections,
	}
	res.LayerPotentials = s.layerPotentials(l, res)
	return res, nil
}

// computeMIM solves the linear case Qgate = Cox·(V - Vfb)
func (s *Structure) computeMIM(l layout, v, vfb units.ElectricPotential, cox units.CapacitanceDensity) (*BiasResult, error) {
	qg := units.ChargeOn(cox, v.Sub(vfb))
	res := &BiasResult{
		Bias:          v,
		ChargeDensity: qg.Neg(),
		GateCharge:    qg,
		Capacitance:   cox,
	}
	res.LayerPotentials = s.layerPotentials(l, res)
	for _, lp := range res.LayerPotentials {
		if lp.Kind == material.KindDielectric {
			res.ElectricField = lp.Field
			break
		}
	}
	return res, nil
}

// layerPotentials walks from the base layer to the gate accumulating the
// potential drop Qgate/Ci across each dielectric
func (s *Structure) layerPotentials(l layout, res *BiasResult) []LayerPotential {
	out := make([]LayerPotential, len(s.layers))
	step := 1
	if l.gate < l.base {
		step = -1
	}
	p := res.SurfacePotential
	for i := l.base; ; i += step {
		lp := LayerPotential{Index: i, Kind: s.layers[i].Kind(), GateSide: p, BaseSide: p}
		switch layer := s.layers[i].(type) {
		case *material.Semiconductor:
			lp.BaseSide = units.ElectricPotential{}
			lp.Field = res.ElectricField
		case *material.Dielectric:
			lp.Field = layer.ElectricField(res.GateCharge)
			if c, err := layer.Capacitance(); err == nil {
				p = p.Add(units.PotentialAcross(res.GateCharge, c))
			}
			lp.GateSide = p
		}
		out[i] = lp
		if i == l.gate {
			break
		}
	}
	return out
}
