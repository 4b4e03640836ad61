package optim

import (
	"context"
)

// Compass is a bound-constrained compass (pattern) search. Each iteration
// probes one coordinate step in both directions from the incumbent and moves
// on first improvement; when no probe improves, the step shrinks. It stops
// when the step drops below Tol relative to the variable ranges.
type Compass struct {
	MaxIter int
	Tol     float64
	Step    float64 // initial step as a fraction of each variable's range
	Penalty float64 // constraint violation weight
}

func NewCompass() *Compass {
	return &Compass{MaxIter: 500, Tol: 1e-6, Step: 0.25, Penalty: 1e6}
}

func (c *Compass) Minimize(ctx context.Context, p Problem) (*Result, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	ev := newEvaluator(&p, c.Penalty)

	n := len(p.X0)
	x := make([]float64, n)
	copy(x, p.X0)
	clamp(x, p.Lower, p.Upper)

	ranges := make([]float64, n)
	for i := range ranges {
		ranges[i] = p.Upper[i] - p.Lower[i]
		if ranges[i] == 0 {
			ranges[i] = 1
		}
	}

	fx, err := ev.eval(x)
	if err != nil {
		return nil, err
	}

	step := c.Step
	if step <= 0 {
		step = 0.25
	}
	probe := make([]float64, n)

	iter := 0
	for ; iter < c.MaxIter; iter++ {
		select {
		case <-ctx.Done():
			return ev.result(iter, false), nil
		default:
		}

		improved := false
		for i := 0; i < n && !improved; i++ {
			for _, dir := range []float64{1, -1} {
				copy(probe, x)
				probe[i] += dir * step * ranges[i]
				clamp(probe, p.Lower, p.Upper)

				fp, err := ev.eval(probe)
				if err != nil {
					return nil, err
				}
				if fp < fx {
					copy(x, probe)
					fx = fp
					improved = true
					break
				}
			}
		}

		p.notify(Iteration{N: iter, X: append([]float64(nil), x...), F: fx, Best: ev.bestF, Feasible: ev.bestOK})

		if !improved {
			step *= 0.5
			if step < c.Tol {
				return ev.result(iter+1, true), nil
			}
		}
	}
	return ev.result(iter, false), nil
}
