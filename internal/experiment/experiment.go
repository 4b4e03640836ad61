package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/podopt/internal/config"
	"github.com/san-kum/podopt/internal/mdo"
	"github.com/san-kum/podopt/internal/optim"
)

// Experiment binds a built problem to the configuration that drives it.
type Experiment struct {
	Model   string
	Problem *mdo.Problem
}

func New(model string, p *mdo.Problem) *Experiment {
	return &Experiment{Model: model, Problem: p}
}

// Apply writes configuration overrides and driver declarations onto the
// problem. Driver settings already present on the problem (builder-declared
// studies like lev-opt) are kept unless the config names its own.
func (e *Experiment) Apply(cfg *config.Config) error {
	for name, v := range cfg.Overrides {
		if err := e.Problem.Set(name, v); err != nil {
			return err
		}
	}
	for _, dv := range cfg.DesignVars {
		err := e.Problem.AddDesignVar(mdo.DesignVar{
			Name: dv.Name, Lower: dv.Lower, Upper: dv.Upper, Scaler: dv.Scaler,
		})
		if err != nil {
			return err
		}
	}
	for _, c := range cfg.Constraints {
		sense, err := parseSense(c.Sense)
		if err != nil {
			return err
		}
		err = e.Problem.AddConstraint(mdo.Constraint{Name: c.Name, Sense: sense, Bound: c.Bound})
		if err != nil {
			return err
		}
	}
	if cfg.Objective != "" {
		if err := e.Problem.AddObjective(cfg.Objective); err != nil {
			return err
		}
	}
	return nil
}

func parseSense(s string) (mdo.Sense, error) {
	switch s {
	case ">=", "ge", "":
		return mdo.GreaterEqual, nil
	case "<=", "le":
		return mdo.LessEqual, nil
	case "=", "==", "eq":
		return mdo.Equal, nil
	default:
		return 0, fmt.Errorf("unknown constraint sense: %q", s)
	}
}

// Run executes a single evaluation pass.
func (e *Experiment) Run(ctx context.Context) (mdo.Snapshot, error) {
	return e.Problem.Run(ctx)
}

// Optimize runs the solve driver with the given optimizer, forwarding
// iteration events to onIter when non-nil.
func (e *Experiment) Optimize(ctx context.Context, opt optim.Optimizer, onIter func(optim.Iteration)) (*optim.Result, error) {
	return e.Problem.RunDriver(ctx, opt, onIter)
}
