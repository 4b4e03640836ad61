package mdo

import "fmt"

// Params is a read-only snapshot of a component's parameter values at solve time.
type Params map[string]float64

// Outputs carries the values a solve computed, keyed by output name.
type Outputs map[string]float64

// Component is a unit of computation. Setup declares parameters and outputs
// once at construction; Solve computes every declared output from the given
// parameter snapshot. Solve must be a pure function of its inputs so that
// identical parameters always reproduce identical outputs.
type Component interface {
	Setup(r *Registry) error
	Solve(p Params) (Outputs, error)
}

// FuncComp adapts a pure function into a Component. It covers the small glue
// calculations a model needs around its physics components, such as
// constraint and objective expressions.
type FuncComp struct {
	params  []Quantity
	outputs []string
	fn      func(Params) (Outputs, error)
}

// NewFuncComp builds a component with the given parameter defaults and output
// names. fn must return a value for every name in outputs.
func NewFuncComp(params map[string]float64, outputs []string, fn func(Params) (Outputs, error)) *FuncComp {
	qs := make([]Quantity, 0, len(params))
	for name, def := range params {
		qs = append(qs, Quantity{Name: name, Role: RoleParameter, Default: def})
	}
	// map iteration order is random; keep declarations stable
	sortQuantities(qs)
	return &FuncComp{params: qs, outputs: outputs, fn: fn}
}

func sortQuantities(qs []Quantity) {
	for i := 1; i < len(qs); i++ {
		for j := i; j > 0 && qs[j].Name < qs[j-1].Name; j-- {
			qs[j], qs[j-1] = qs[j-1], qs[j]
		}
	}
}

func (f *FuncComp) Setup(r *Registry) error {
	if err := r.DeclareAll(f.params...); err != nil {
		return err
	}
	for _, name := range f.outputs {
		if err := r.Output(name, 0, "", ""); err != nil {
			return err
		}
	}
	return nil
}

func (f *FuncComp) Solve(p Params) (Outputs, error) {
	out, err := f.fn(p)
	if err != nil {
		return nil, err
	}
	for _, name := range f.outputs {
		if _, ok := out[name]; !ok {
			return nil, fmt.Errorf("%w: output %q not computed", ErrUnknownQuantity, name)
		}
	}
	return out, nil
}
