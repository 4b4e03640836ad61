package mdo

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/podopt/internal/optim"
)

// DesignVar is an optimizer-controlled parameter. Bounds are given in model
// units; the optimizer works in scaled space, with stored = proposed / Scaler.
type DesignVar struct {
	Name   string
	Lower  float64
	Upper  float64
	Scaler float64
}

// Sense is the comparison direction of a constraint.
type Sense int

const (
	GreaterEqual Sense = iota
	LessEqual
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case Equal:
		return "="
	default:
		return ">="
	}
}

// Constraint compares a namespace value against a bound. The driver
// normalizes it so that feasible means g >= 0.
type Constraint struct {
	Name  string
	Sense Sense
	Bound float64
}

func (c Constraint) residual(v float64) float64 {
	switch c.Sense {
	case LessEqual:
		return c.Bound - v
	case Equal:
		return -math.Abs(v - c.Bound)
	default:
		return v - c.Bound
	}
}

// AddDesignVar declares a free parameter for the driver. The target must be
// an unconnected parameter slot.
func (p *Problem) AddDesignVar(dv DesignVar) error {
	s, err := p.slot(dv.Name)
	if err != nil {
		return err
	}
	if s.producer != nil {
		return fmt.Errorf("%w: design variable %q is an output", ErrAlreadyConnected, dv.Name)
	}
	if s.connected {
		return fmt.Errorf("%w: design variable %q", ErrAlreadyConnected, dv.Name)
	}
	if dv.Scaler == 0 {
		dv.Scaler = 1
	}
	p.desvars = append(p.desvars, dv)
	return nil
}

// AddObjective declares the namespace value to minimize.
func (p *Problem) AddObjective(name string) error {
	if _, err := p.slot(name); err != nil {
		return err
	}
	p.objective = name
	return nil
}

// AddConstraint declares an optimization constraint.
func (p *Problem) AddConstraint(c Constraint) error {
	if _, err := p.slot(c.Name); err != nil {
		return err
	}
	p.constraints = append(p.constraints, c)
	return nil
}

// DesignVars returns the declared design variables.
func (p *Problem) DesignVars() []DesignVar {
	out := make([]DesignVar, len(p.desvars))
	copy(out, p.desvars)
	return out
}

// Objective returns the declared objective name.
func (p *Problem) Objective() string { return p.objective }

// RunDriver minimizes the declared objective over the design variables with
// the given optimizer, re-running the model for every proposed point. On
// return the namespace holds the best point found. A stop on the iteration
// budget reports ErrDidNotConverge but still returns (and applies) the best
// result; context cancellation returns the best point without error.
func (p *Problem) RunDriver(ctx context.Context, opt optim.Optimizer, onIter func(optim.Iteration)) (*optim.Result, error) {
	if p.order == nil {
		return nil, ErrNotSetup
	}
	if p.objective == "" {
		return nil, fmt.Errorf("%w: no objective declared", ErrUnknownQuantity)
	}
	if len(p.desvars) == 0 {
		return nil, fmt.Errorf("%w: no design variables declared", ErrUnknownQuantity)
	}

	n := len(p.desvars)
	x0 := make([]float64, n)
	lower := make([]float64, n)
	upper := make([]float64, n)
	for i, dv := range p.desvars {
		cur, err := p.Get(dv.Name)
		if err != nil {
			return nil, err
		}
		x0[i] = cur * dv.Scaler
		lower[i] = dv.Lower * dv.Scaler
		upper[i] = dv.Upper * dv.Scaler
	}

	apply := func(x []float64) error {
		for i, dv := range p.desvars {
			if err := p.Set(dv.Name, x[i]/dv.Scaler); err != nil {
				return err
			}
		}
		return nil
	}

	op := optim.Problem{
		X0:          x0,
		Lower:       lower,
		Upper:       upper,
		OnIteration: onIter,
		Eval: func(x []float64) (float64, []float64, error) {
			if err := apply(x); err != nil {
				return 0, nil, err
			}
			if _, err := p.Run(ctx); err != nil {
				return 0, nil, err
			}
			f, err := p.Get(p.objective)
			if err != nil {
				return 0, nil, err
			}
			cons := make([]float64, len(p.constraints))
			for i, c := range p.constraints {
				v, err := p.Get(c.Name)
				if err != nil {
					return 0, nil, err
				}
				cons[i] = c.residual(v)
			}
			return f, cons, nil
		},
	}

	res, err := opt.Minimize(ctx, op)
	if err != nil {
		return nil, err
	}

	// leave the namespace at the best point
	if err := apply(res.X); err != nil {
		return nil, err
	}
	if _, err := p.Run(context.WithoutCancel(ctx)); err != nil {
		return nil, err
	}

	if !res.Converged && ctx.Err() == nil {
		return res, fmt.Errorf("%w: best objective %g after %d iterations",
			ErrDidNotConverge, res.F, res.Iterations)
	}
	return res, nil
}
