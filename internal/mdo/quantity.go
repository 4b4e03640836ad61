package mdo

import "fmt"

// Role distinguishes externally settable parameters from computed outputs.
type Role int

const (
	RoleParameter Role = iota
	RoleOutput
)

func (r Role) String() string {
	if r == RoleOutput {
		return "output"
	}
	return "parameter"
}

// Quantity is a named scalar with default value and documentation-only
// unit tag. No unit conversion is ever performed.
type Quantity struct {
	Name    string
	Role    Role
	Default float64
	Units   string
	Desc    string
}

// Registry holds the quantities a single component declares. Parameter and
// output names share one namespace per component.
type Registry struct {
	byName map[string]Quantity
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Quantity)}
}

// Declare registers a quantity. Redeclaring a name fails.
func (r *Registry) Declare(q Quantity) error {
	if q.Name == "" {
		return fmt.Errorf("%w: empty quantity name", ErrUnknownQuantity)
	}
	if _, ok := r.byName[q.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, q.Name)
	}
	r.byName[q.Name] = q
	r.order = append(r.order, q.Name)
	return nil
}

// DeclareAll registers quantities in order, stopping at the first failure.
func (r *Registry) DeclareAll(qs ...Quantity) error {
	for _, q := range qs {
		if err := r.Declare(q); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) Parameter(name string, def float64, units, desc string) error {
	return r.Declare(Quantity{Name: name, Role: RoleParameter, Default: def, Units: units, Desc: desc})
}

func (r *Registry) Output(name string, def float64, units, desc string) error {
	return r.Declare(Quantity{Name: name, Role: RoleOutput, Default: def, Units: units, Desc: desc})
}

func (r *Registry) Lookup(name string) (Quantity, bool) {
	q, ok := r.byName[name]
	return q, ok
}

// Names returns all declared names in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) names(role Role) []string {
	var out []string
	for _, n := range r.order {
		if r.byName[n].Role == role {
			out = append(out, n)
		}
	}
	return out
}

// Parameters returns parameter names in declaration order.
func (r *Registry) Parameters() []string { return r.names(RoleParameter) }

// Outputs returns output names in declaration order.
func (r *Registry) Outputs() []string { return r.names(RoleOutput) }
