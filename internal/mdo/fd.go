package mdo

import (
	"context"
	"fmt"
)

// Gradient estimates d(of)/d(wrt[i]) by forward finite differences,
// re-running the problem once per perturbed variable. Overrides are restored
// afterwards. This is a convenience over Run, not an analytic derivative
// subsystem.
func (p *Problem) Gradient(ctx context.Context, of string, wrt []string, step float64) ([]float64, error) {
	if p.order == nil {
		return nil, ErrNotSetup
	}
	if step <= 0 {
		step = 1e-6
	}
	if _, err := p.slot(of); err != nil {
		return nil, err
	}
	for _, name := range wrt {
		s, err := p.slot(name)
		if err != nil {
			return nil, err
		}
		if s.producer != nil || s.connected {
			return nil, fmt.Errorf("%w: %q is not a free parameter", ErrAlreadyConnected, name)
		}
	}

	if _, err := p.Run(ctx); err != nil {
		return nil, err
	}
	base, err := p.Get(of)
	if err != nil {
		return nil, err
	}

	grad := make([]float64, len(wrt))
	for i, name := range wrt {
		x0, err := p.Get(name)
		if err != nil {
			return nil, err
		}
		prev, had := p.overrides[name]

		p.overrides[name] = x0 + step
		_, runErr := p.Run(ctx)
		if had {
			p.overrides[name] = prev
		} else {
			delete(p.overrides, name)
		}
		if runErr != nil {
			return nil, runErr
		}
		fi, err := p.Get(of)
		if err != nil {
			return nil, err
		}
		grad[i] = (fi - base) / step
	}

	// restore the unperturbed state
	if _, err := p.Run(ctx); err != nil {
		return nil, err
	}
	return grad, nil
}
