package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/podopt/internal/mdo"
	"github.com/san-kum/podopt/internal/optim"
	"github.com/san-kum/podopt/internal/pod"
)

// Builder constructs a ready-to-run problem for a named model.
type Builder func() (*mdo.Problem, error)

// Registry maps model names to problem factories.
type Registry struct {
	models map[string]Builder
}

func single(name string, c mdo.Component) Builder {
	return func() (*mdo.Problem, error) {
		root := mdo.NewGroup()
		if err := root.Add(name, c); err != nil {
			return nil, err
		}
		p := mdo.NewProblem(root)
		if err := p.Setup(); err != nil {
			return nil, err
		}
		return p, nil
	}
}

func group(build func() (*mdo.Group, error)) Builder {
	return func() (*mdo.Problem, error) {
		g, err := build()
		if err != nil {
			return nil, err
		}
		p := mdo.NewProblem(g)
		if err := p.Setup(); err != nil {
			return nil, err
		}
		return p, nil
	}
}

func NewRegistry() *Registry {
	r := &Registry{models: make(map[string]Builder)}

	r.models["compressor-mass"] = single("CompressorMass", &pod.CompressorMass{})
	r.models["pod-mass"] = group(pod.NewPodMassGroup)
	r.models["levitation"] = group(pod.NewLevGroup)
	r.models["lev-opt"] = pod.NewLevOptProblem
	r.models["lim-thrust"] = single("Thrust", &pod.Thrust{})
	r.models["tube-power"] = single("TubePower", &pod.TubePower{})

	return r
}

// Build constructs the named model's problem.
func (r *Registry) Build(name string) (*mdo.Problem, error) {
	b, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return b()
}

// List returns the registered model names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Optimizer builds a named optimizer with the given budget and tolerance.
func Optimizer(name string, maxIter int, tol float64, gridPoints int) (optim.Optimizer, error) {
	switch name {
	case "compass", "":
		c := optim.NewCompass()
		if maxIter > 0 {
			c.MaxIter = maxIter
		}
		if tol > 0 {
			c.Tol = tol
		}
		return c, nil
	case "neldermead":
		nm := optim.NewNelderMead()
		if maxIter > 0 {
			nm.MaxIter = maxIter
		}
		if tol > 0 {
			nm.Tol = tol
		}
		return nm, nil
	case "grid":
		return optim.NewGrid(gridPoints), nil
	default:
		return nil, fmt.Errorf("unknown optimizer: %s", name)
	}
}
