package mdo

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Snapshot is a read-only copy of the resolved namespace after a run.
type Snapshot map[string]float64

// Names returns the snapshot's variable names sorted for stable output.
func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Problem owns a root group, its flattened namespace, and the cached
// evaluation order. All configuration errors surface in Setup, before any
// component solves.
type Problem struct {
	root      *Group
	names     map[string]*slot
	order     []*compNode
	overrides map[string]float64

	desvars     []DesignVar
	objective   string
	constraints []Constraint
}

func NewProblem(root *Group) *Problem {
	return &Problem{root: root, overrides: make(map[string]float64)}
}

// Setup flattens the group tree, resolves promotions and connections, and
// caches the topological evaluation order.
func (p *Problem) Setup() error {
	r := &resolver{}
	rootNS, err := r.flatten(p.root, "")
	if err != nil {
		return err
	}
	names, err := r.materialize(rootNS)
	if err != nil {
		return err
	}
	order, err := r.sortNodes()
	if err != nil {
		return err
	}
	p.names = names
	p.order = order
	return nil
}

func (p *Problem) slot(name string) (*slot, error) {
	if p.names == nil {
		return nil, ErrNotSetup
	}
	s, ok := p.names[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuantity, name)
	}
	return s, nil
}

// Get reads the current value of a namespace variable.
func (p *Problem) Get(name string) (float64, error) {
	s, err := p.slot(name)
	if err != nil {
		return 0, err
	}
	return s.value, nil
}

// Set records a parameter override applied at the start of every run.
// Overrides addressed to connected destinations are ignored at run time; the
// incoming connection always wins.
func (p *Problem) Set(name string, value float64) error {
	if _, err := p.slot(name); err != nil {
		return err
	}
	p.overrides[name] = value
	return nil
}

// Describe reports units and description for a namespace variable.
func (p *Problem) Describe(name string) (units, desc string, err error) {
	s, err := p.slot(name)
	if err != nil {
		return "", "", err
	}
	return s.units, s.desc, nil
}

// Run executes one full evaluation pass: defaults, overrides, then every
// component in dependency order, propagating outputs along connections after
// each solve. A failing solve aborts the run so no poisoned value reaches a
// downstream component.
func (p *Problem) Run(ctx context.Context) (Snapshot, error) {
	if p.order == nil {
		return nil, ErrNotSetup
	}

	seen := make(map[*slot]bool)
	for _, s := range p.names {
		if !seen[s] {
			seen[s] = true
			s.value = s.def
		}
	}
	for name, v := range p.overrides {
		s := p.names[name]
		if s.connected {
			continue
		}
		s.value = v
	}

	for _, node := range p.order {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		params := make(Params, len(node.params))
		for _, b := range node.params {
			params[b.name] = b.s.value
		}

		out, err := node.comp.Solve(params)
		if err != nil {
			return nil, &SolveError{Component: node.path, Wrapped: err}
		}
		for _, b := range node.outs {
			v, ok := out[b.name]
			if !ok {
				return nil, &SolveError{
					Component: node.path,
					Quantity:  b.name,
					Wrapped:   fmt.Errorf("%w: output not written", ErrUnknownQuantity),
				}
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &SolveError{
					Component: node.path,
					Quantity:  b.name,
					Wrapped:   fmt.Errorf("%w: non-finite result", ErrNumericDomain),
				}
			}
			b.s.value = v
		}
		for _, c := range node.conns {
			c.to.value = c.from.value
		}
	}

	return p.snapshot(), nil
}

func (p *Problem) snapshot() Snapshot {
	snap := make(Snapshot, len(p.names))
	for name, s := range p.names {
		snap[name] = s.value
	}
	return snap
}

// EvalOrder returns the component paths in cached evaluation order.
func (p *Problem) EvalOrder() []string {
	paths := make([]string, len(p.order))
	for i, n := range p.order {
		paths[i] = n.path
	}
	return paths
}
