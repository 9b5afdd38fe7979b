// Package numeric holds the one-dimensional root finder shared by the
// semiconductor charge inversion and the bias solver.
package numeric

import (
	"fmt"
	"math"
)

// Default solver settings
const (
	DefaultTolerance     = 1e-9
	DefaultMaxIterations = 50
)

// Func evaluates a function and its derivative at x
type Func func(x float64) (fx, dfx float64)

// Options controls convergence of FindRoot
type Options struct {
	Tolerance     float64 // absolute step size below which the root is accepted
	MaxIterations int
}

// DefaultOptions returns the default solver settings
func DefaultOptions() Options {
	return Options{Tolerance: DefaultTolerance, MaxIterations: DefaultMaxIterations}
}

// Result holds a converged root and how it was reached
type Result struct {
	Root       float64
	Iterations int
	Bisections int // steps where Newton was rejected in favour of bisection
}

// ConvergenceError reports a root search that left its window or ran out of iterations
type ConvergenceError struct {
	Iterations int
	Last       float64
	Reason     string
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("no convergence after %d iterations (last x=%g): %s", e.Iterations, e.Last, e.Reason)
}

// FindRoot solves f(x) = 0 inside [lo, hi] starting from seed.
//
// Newton-Raphson steps are taken while they stay inside the current bracket
// and shrink fast enough; otherwise the bracket is bisected. The window must
// bracket a sign change of f.
func FindRoot(f Func, lo, hi, seed float64, opts Options) (Result, error) {
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if lo > hi {
		lo, hi = hi, lo
	}

	flo, _ := f(lo)
	fhi, _ := f(hi)
	switch {
	case flo == 0:
		return Result{Root: lo}, nil
	case fhi == 0:
		return Result{Root: hi}, nil
	case math.IsNaN(flo) || math.IsNaN(fhi):
		return Result{}, &ConvergenceError{Last: seed, Reason: "function undefined at window edge"}
	case (flo < 0) == (fhi < 0):
		return Result{}, &ConvergenceError{
			Last:   seed,
			Reason: fmt.Sprintf("root outside search window [%g, %g]", lo, hi),
		}
	}

	// Orient the bracket so that f(xl) < 0 < f(xh)
	xl, xh := lo, hi
	if flo > 0 {
		xl, xh = hi, lo
	}

	x := seed
	if math.IsNaN(x) || x <= lo || x >= hi {
		x = 0.5 * (lo + hi)
	}
	dxOld := hi - lo
	dx := dxOld
	fx, dfx := f(x)

	res := Result{}
	for res.Iterations = 1; res.Iterations <= opts.MaxIterations; res.Iterations++ {
		if fx == 0 {
			res.Root = x
			return res, nil
		}

		usable := !math.IsNaN(fx) && !math.IsInf(fx, 0) && !math.IsNaN(dfx) && !math.IsInf(dfx, 0) && dfx != 0
		outside := ((x-xh)*dfx-fx)*((x-xl)*dfx-fx) > 0
		slow := math.Abs(2*fx) > math.Abs(dxOld*dfx)

		if !usable || outside || slow {
			// Bisect
			dxOld = dx
			dx = 0.5 * (xh - xl)
			x = xl + dx
			res.Bisections++
			if x == xl {
				res.Root = x
				return res, nil
			}
		} else {
			dxOld = dx
			dx = fx / dfx
			prev := x
			x -= dx
			if x == prev {
				res.Root = x
				return res, nil
			}
		}

		if math.Abs(dx) < opts.Tolerance {
			res.Root = x
			return res, nil
		}

		fx, dfx = f(x)
		if fx < 0 {
			xl = x
		} else {
			xh = x
		}
	}

	return res, &ConvergenceError{
		Iterations: opts.MaxIterations,
		Last:       x,
		Reason:     "iteration cap exceeded",
	}
}
