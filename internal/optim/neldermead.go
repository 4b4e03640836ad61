package optim

import (
	"context"
	"math"
	"sort"
)

// NelderMead is a bound-constrained downhill simplex search. Vertices are
// clamped to the bounds after every move; constraints enter through the
// shared quadratic penalty.
type NelderMead struct {
	MaxIter int
	Tol     float64
	Penalty float64
}

func NewNelderMead() *NelderMead {
	return &NelderMead{MaxIter: 1000, Tol: 1e-8, Penalty: 1e6}
}

type vertex struct {
	x []float64
	f float64
}

func (nm *NelderMead) Minimize(ctx context.Context, p Problem) (*Result, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	ev := newEvaluator(&p, nm.Penalty)

	n := len(p.X0)
	simplex := make([]vertex, n+1)
	for i := range simplex {
		x := make([]float64, n)
		copy(x, p.X0)
		if i > 0 {
			span := p.Upper[i-1] - p.Lower[i-1]
			if span == 0 {
				span = 1
			}
			x[i-1] += 0.1 * span
		}
		clamp(x, p.Lower, p.Upper)
		f, err := ev.eval(x)
		if err != nil {
			return nil, err
		}
		simplex[i] = vertex{x: x, f: f}
	}

	const (
		alpha = 1.0 // reflection
		gamma = 2.0 // expansion
		rho   = 0.5 // contraction
		sigma = 0.5 // shrink
	)

	try := func(x []float64) (float64, error) {
		clamp(x, p.Lower, p.Upper)
		return ev.eval(x)
	}

	iter := 0
	for ; iter < nm.MaxIter; iter++ {
		select {
		case <-ctx.Done():
			return ev.result(iter, false), nil
		default:
		}

		sort.Slice(simplex, func(i, j int) bool { return simplex[i].f < simplex[j].f })
		best, worst := simplex[0], simplex[n]

		p.notify(Iteration{N: iter, X: append([]float64(nil), best.x...), F: best.f, Best: ev.bestF, Feasible: ev.bestOK})

		if math.Abs(worst.f-best.f) < nm.Tol {
			return ev.result(iter+1, true), nil
		}

		// centroid of all but the worst vertex
		centroid := make([]float64, n)
		for _, v := range simplex[:n] {
			for j := range centroid {
				centroid[j] += v.x[j] / float64(n)
			}
		}

		reflected := make([]float64, n)
		for j := range reflected {
			reflected[j] = centroid[j] + alpha*(centroid[j]-worst.x[j])
		}
		fr, err := try(reflected)
		if err != nil {
			return nil, err
		}

		switch {
		case fr < best.f:
			expanded := make([]float64, n)
			for j := range expanded {
				expanded[j] = centroid[j] + gamma*(reflected[j]-centroid[j])
			}
			fe, err := try(expanded)
			if err != nil {
				return nil, err
			}
			if fe < fr {
				simplex[n] = vertex{x: expanded, f: fe}
			} else {
				simplex[n] = vertex{x: reflected, f: fr}
			}
		case fr < simplex[n-1].f:
			simplex[n] = vertex{x: reflected, f: fr}
		default:
			contracted := make([]float64, n)
			for j := range contracted {
				contracted[j] = centroid[j] + rho*(worst.x[j]-centroid[j])
			}
			fc, err := try(contracted)
			if err != nil {
				return nil, err
			}
			if fc < worst.f {
				simplex[n] = vertex{x: contracted, f: fc}
			} else {
				for i := 1; i <= n; i++ {
					for j := range simplex[i].x {
						simplex[i].x[j] = best.x[j] + sigma*(simplex[i].x[j]-best.x[j])
					}
					f, err := try(simplex[i].x)
					if err != nil {
						return nil, err
					}
					simplex[i].f = f
				}
			}
		}
	}
	return ev.result(iter, false), nil
}
