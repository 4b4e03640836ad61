// Package optim provides derivative-free minimizers used by the solve
// driver. Optimizers see only an evaluation callback, bounds, and a starting
// point; they know nothing about the model they are driving.
package optim

import (
	"context"
	"errors"
	"math"
)

var (
	// ErrBadProblem indicates missing or inconsistent problem definition.
	ErrBadProblem = errors.New("optim: invalid problem definition")
)

// Iteration reports optimizer progress to an observer.
type Iteration struct {
	N        int
	X        []float64
	F        float64
	Best     float64
	Feasible bool
}

// Problem is a bound-constrained minimization with optional inequality
// constraints. Eval returns the objective and the constraint values for x;
// the point is feasible when every constraint value is >= 0.
type Problem struct {
	Eval        func(x []float64) (f float64, cons []float64, err error)
	Lower       []float64
	Upper       []float64
	X0          []float64
	OnIteration func(Iteration)
}

func (p *Problem) validate() error {
	n := len(p.X0)
	if p.Eval == nil || n == 0 {
		return ErrBadProblem
	}
	if len(p.Lower) != n || len(p.Upper) != n {
		return ErrBadProblem
	}
	for i := range p.Lower {
		if p.Lower[i] > p.Upper[i] {
			return ErrBadProblem
		}
	}
	return nil
}

func (p *Problem) notify(it Iteration) {
	if p.OnIteration != nil {
		p.OnIteration(it)
	}
}

// Result is the outcome of a minimization. When the optimizer stops on its
// iteration budget or is canceled, Converged is false and X holds the best
// point found so far.
type Result struct {
	X           []float64
	F           float64
	Iterations  int
	Evaluations int
	Converged   bool
}

// Optimizer is a derivative-free minimization strategy.
type Optimizer interface {
	Minimize(ctx context.Context, p Problem) (*Result, error)
}

func clamp(x, lo, hi []float64) {
	for i := range x {
		x[i] = math.Min(math.Max(x[i], lo[i]), hi[i])
	}
}

// evaluator wraps Problem.Eval with a quadratic constraint penalty and keeps
// the best point seen, preferring feasible points.
type evaluator struct {
	p       *Problem
	weight  float64
	evals   int
	hasBest bool
	bestX   []float64
	bestF   float64 // raw objective at best point
	bestP   float64 // penalized value at best point
	bestOK  bool    // best point feasible
}

func newEvaluator(p *Problem, weight float64) *evaluator {
	if weight <= 0 {
		weight = 1e6
	}
	return &evaluator{p: p, weight: weight}
}

// eval returns the penalized objective at x and records it as the incumbent
// when it improves on the best point so far.
func (e *evaluator) eval(x []float64) (float64, error) {
	f, cons, err := e.p.Eval(x)
	if err != nil {
		return 0, err
	}
	e.evals++

	viol := 0.0
	for _, g := range cons {
		if g < 0 {
			viol += g * g
		}
	}
	pen := f + e.weight*viol
	feasible := viol == 0

	if !e.hasBest || pen < e.bestP {
		e.hasBest = true
		e.bestX = append(e.bestX[:0], x...)
		e.bestF = f
		e.bestP = pen
		e.bestOK = feasible
	}
	return pen, nil
}

func (e *evaluator) result(iters int, converged bool) *Result {
	x := make([]float64, len(e.bestX))
	copy(x, e.bestX)
	return &Result{
		X:           x,
		F:           e.bestF,
		Iterations:  iters,
		Evaluations: e.evals,
		Converged:   converged,
	}
}
