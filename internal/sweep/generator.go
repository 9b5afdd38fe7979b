// Package sweep drives the bias solver across a voltage range and derives
// C-V curves and spatial band, potential, field and charge profiles.
package sweep

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/alexiusacademia/gomoscap/internal/structure"
	"github.com/alexiusacademia/gomoscap/internal/units"
)

// DefaultSamples is the number of depth samples across a semiconductor layer
const DefaultSamples = 48

// Point is one bias of a sweep. Status is StateConverged or StateFailed
// for evaluated points and StateIdle for points skipped by cancellation.
type Point struct {
	Bias   units.ElectricPotential
	Status structure.State
	Result *structure.BiasResult
	Err    error

	snapshot *structure.Structure
}

// Solved reports whether the bias point converged
func (p *Point) Solved() bool { return p.Status == structure.StateConverged }

// Structure returns an independent copy of the structure solved at this bias
func (p *Point) Structure() *structure.Structure { return p.snapshot }

// Profile returns the spatial profile of kind at this bias
func (p *Point) Profile(kind Kind, samples int) (iter.Seq[PlotPoint], error) {
	if !p.Solved() {
		return nil, errUnsolved
	}
	return Profile(p.snapshot, kind, samples)
}

// Result is a completed or partially completed sweep
type Result struct {
	ID       uuid.UUID
	Kind     structure.Kind
	Range    Range
	Parallel bool
	Points   []Point
	Started  time.Time
	Elapsed  time.Duration
}

// Solved returns the number of converged points
func (r *Result) Solved() int {
	n := 0
	for i := range r.Points {
		if r.Points[i].Solved() {
			n++
		}
	}
	return n
}

// Failed returns the number of points that did not converge
func (r *Result) Failed() int {
	n := 0
	for i := range r.Points {
		if r.Points[i].Status == structure.StateFailed {
			n++
		}
	}
	return n
}

// CV yields the stack capacitance at every converged bias in sweep order
func (r *Result) CV() iter.Seq[PlotPoint] {
	return func(yield func(PlotPoint) bool) {
		for i := range r.Points {
			p := &r.Points[i]
			if !p.Solved() {
				continue
			}
			pt := PlotPoint{
				X:     p.Bias.Volts(),
				Y:     p.Result.Capacitance.FaradsPerSquareCentimeter(),
				Kind:  KindCapacitance,
				Layer: -1,
			}
			if !yield(pt) {
				return
			}
		}
	}
}

// Generator runs bias sweeps. The zero value runs sequentially without logging.
type Generator struct {
	// Workers > 1 solves points concurrently on independent clones,
	// each seeded from flatband. Otherwise points are solved in order,
	// each seeded from its predecessor.
	Workers int
	Logger  *slog.Logger
}

// Run solves s at every bias of r. The caller's structure is not modified.
// A non-converging point is recorded and the sweep continues. On
// cancellation the partial result is returned together with ctx.Err().
func (g *Generator) Run(ctx context.Context, s *structure.Structure, r Range) (*Result, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	log := g.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	biases := r.Points()
	res := &Result{
		ID:       uuid.New(),
		Kind:     s.Kind(),
		Range:    r,
		Parallel: g.Workers > 1,
		Points:   make([]Point, len(biases)),
		Started:  time.Now(),
	}
	for i, v := range biases {
		res.Points[i].Bias = v
	}

	var err error
	if res.Parallel {
		err = g.runParallel(ctx, s, res.Points, log)
	} else {
		err = runSequential(ctx, s, res.Points, log)
	}
	res.Elapsed = time.Since(res.Started)

	log.Debug("sweep finished",
		"id", res.ID,
		"points", len(res.Points),
		"solved", res.Solved(),
		"failed", res.Failed(),
		"elapsed", res.Elapsed)
	return res, err
}

func runSequential(ctx context.Context, s *structure.Structure, points []Point, log *slog.Logger) error {
	work := s.Clone()
	for i := range points {
		if err := ctx.Err(); err != nil {
			return err
		}
		solvePoint(&points[i], work, work.SolveBias, log)
	}
	return nil
}

func (g *Generator) runParallel(ctx context.Context, s *structure.Structure, points []Point, log *slog.Logger) error {
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.Workers)
	for i := range points {
		if gctx.Err() != nil {
			break
		}
		work := s.Clone()
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			solvePoint(&points[i], work, work.SolveBiasCold, log)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func solvePoint(p *Point, work *structure.Structure, solve func(units.ElectricPotential) (*structure.BiasResult, error), log *slog.Logger) {
	res, err := solve(p.Bias)
	if err != nil {
		p.Status = structure.StateFailed
		p.Err = err
		log.Warn("bias point did not converge", "bias_v", p.Bias.Volts(), "error", err)
		return
	}
	p.Status = structure.StateConverged
	p.Result = res
	p.snapshot = work.Clone()
}

var errUnsolved = errors.New("bias point has no solution")
