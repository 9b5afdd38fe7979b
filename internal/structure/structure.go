// Package structure assembles material layers into a MOS or MIM stack and
// computes its aggregate electrostatics and bias response.
//
// Layers are ordered; index 0 is one face of the stack and the last index
// the other. A MOS stack has its single semiconductor at one end and the
// gate metal at the opposite end. A MIM stack has metals at both ends and
// treats the last layer as the gate.
package structure

import (
	"fmt"
	"sync/atomic"

	"github.com/alexiusacademia/gomoscap/internal/material"
	"github.com/alexiusacademia/gomoscap/internal/numeric"
	"github.com/alexiusacademia/gomoscap/internal/units"
)

// Structure is an ordered stack of layers at a fixed ambient temperature.
// It has a single owner: concurrent solves are rejected, and layer
// mutations must not race with a solve.
type Structure struct {
	layers      []material.Layer
	temperature units.Temperature
	options     numeric.Options

	bias   units.ElectricPotential
	result *BiasResult
	state  atomic.Int32
}

// New creates a structure at the given temperature and appends the layers in order
func New(temperature units.Temperature, layers ...material.Layer) (*Structure, error) {
	if temperature.IsZero() {
		return nil, &units.DomainError{Quantity: "temperature", Value: 0, Reason: "must be positive"}
	}
	s := &Structure{
		temperature: temperature,
		options:     numeric.DefaultOptions(),
	}
	for _, l := range layers {
		if err := s.attach(l); err != nil {
			return nil, err
		}
		s.layers = append(s.layers, l)
	}
	s.refresh()
	return s, nil
}

// Temperature returns the ambient temperature
func (s *Structure) Temperature() units.Temperature { return s.temperature }

// SolverOptions returns the convergence settings of the bias solver
func (s *Structure) SolverOptions() numeric.Options { return s.options }

// SetSolverOptions changes the convergence settings of the bias solver
func (s *Structure) SetSolverOptions(opts numeric.Options) { s.options = opts }

// Len returns the number of layers
func (s *Structure) Len() int { return len(s.layers) }

// Layers returns the layers in stack order. The slice is a copy; the
// layers themselves are shared.
func (s *Structure) Layers() []material.Layer {
	out := make([]material.Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// Layer returns the layer at index i
func (s *Structure) Layer(i int) (material.Layer, error) {
	if i < 0 || i >= len(s.layers) {
		return nil, fmt.Errorf("layer index %d out of range [0, %d)", i, len(s.layers))
	}
	return s.layers[i], nil
}

// AddLayer appends a layer to the end of the stack
func (s *Structure) AddLayer(l material.Layer) error {
	return s.InsertLayer(len(s.layers), l)
}

// InsertLayer inserts a layer before index i (i == Len appends)
func (s *Structure) InsertLayer(i int, l material.Layer) error {
	if l == nil {
		return fmt.Errorf("nil layer")
	}
	if i < 0 || i > len(s.layers) {
		return fmt.Errorf("layer index %d out of range [0, %d]", i, len(s.layers))
	}
	if err := s.attach(l); err != nil {
		return err
	}
	s.layers = append(s.layers, nil)
	copy(s.layers[i+1:], s.layers[i:])
	s.layers[i] = l
	s.refresh()
	return nil
}

// RemoveLayer removes and returns the layer at index i
func (s *Structure) RemoveLayer(i int) (material.Layer, error) {
	l, err := s.Layer(i)
	if err != nil {
		return nil, err
	}
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	s.refresh()
	return l, nil
}

// MoveLayer moves the layer at index from to index to
func (s *Structure) MoveLayer(from, to int) error {
	l, err := s.Layer(from)
	if err != nil {
		return err
	}
	if to < 0 || to >= len(s.layers) {
		return fmt.Errorf("layer index %d out of range [0, %d)", to, len(s.layers))
	}
	s.layers = append(s.layers[:from], s.layers[from+1:]...)
	s.layers = append(s.layers, nil)
	copy(s.layers[to+1:], s.layers[to:])
	s.layers[to] = l
	s.refresh()
	return nil
}

// Clone returns a deep copy with independent layers and solver state
func (s *Structure) Clone() *Structure {
	c := &Structure{
		layers:      make([]material.Layer, len(s.layers)),
		temperature: s.temperature,
		options:     s.options,
		bias:        s.bias,
	}
	for i, l := range s.layers {
		c.layers[i] = l.Clone()
	}
	if s.result != nil {
		r := *s.result
		r.LayerPotentials = append([]LayerPotential(nil), s.result.LayerPotentials...)
		c.result = &r
	}
	c.state.Store(s.state.Load())
	if State(c.state.Load()) == StateSolving {
		c.state.Store(int32(StateIdle))
	}
	return c
}

// Resolve re-solves the structure at its current bias. Collaborators call
// it after editing layer properties in place.
func (s *Structure) Resolve() (*BiasResult, error) {
	return s.SolveBias(s.bias)
}

func (s *Structure) attach(l material.Layer) error {
	if sc, ok := l.(*material.Semiconductor); ok {
		return sc.Attach(s.temperature)
	}
	return nil
}

// refresh discards the previous solve after a layer mutation and, when the
// new stack is valid, solves it again at the current bias from flatband
func (s *Structure) refresh() {
	s.result = nil
	s.state.Store(int32(StateIdle))
	if !s.IsValid() {
		return
	}
	// A failure is recorded in State and Result; the mutation itself succeeded.
	_, _ = s.SolveBiasCold(s.bias)
}
