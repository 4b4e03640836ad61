package optim

import (
	"context"
)

// Grid exhaustively evaluates a regular lattice over the bounds. Useful as a
// brute-force baseline and for coarse design-space sweeps.
type Grid struct {
	Points  int // points per dimension
	Penalty float64
}

func NewGrid(points int) *Grid {
	if points < 2 {
		points = 2
	}
	return &Grid{Points: points, Penalty: 1e6}
}

func (g *Grid) Minimize(ctx context.Context, p Problem) (*Result, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	ev := newEvaluator(&p, g.Penalty)

	n := len(p.X0)
	x := make([]float64, n)
	canceled := false
	cells := 0

	var sweep func(depth int) error
	sweep = func(depth int) error {
		if canceled {
			return nil
		}
		select {
		case <-ctx.Done():
			canceled = true
			return nil
		default:
		}

		if depth == n {
			fx, err := ev.eval(x)
			if err != nil {
				return err
			}
			cells++
			p.notify(Iteration{N: cells, X: append([]float64(nil), x...), F: fx, Best: ev.bestF, Feasible: ev.bestOK})
			return nil
		}
		for i := 0; i < g.Points; i++ {
			frac := float64(i) / float64(g.Points-1)
			x[depth] = p.Lower[depth] + frac*(p.Upper[depth]-p.Lower[depth])
			if err := sweep(depth + 1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := sweep(0); err != nil {
		return nil, err
	}
	return ev.result(cells, !canceled), nil
}
