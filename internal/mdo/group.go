package mdo

import (
	"fmt"
	"strings"
)

// Group composes child components and nested groups. Connections move one
// component's output into another's parameter; promotions expose a child
// quantity under a name in this group's namespace. Children promoting to the
// same name share a single variable slot.
type Group struct {
	order    []string
	children map[string]*childEntry
	conns    []connection
	promos   []promotion
}

type childEntry struct {
	comp  Component
	group *Group
}

// connection endpoints are dotted paths relative to the declaring group.
type connection struct {
	src, dst string
}

type promotion struct {
	child, local, as string
}

func NewGroup() *Group {
	return &Group{children: make(map[string]*childEntry)}
}

func (g *Group) addChild(name string, e *childEntry) error {
	if name == "" || strings.Contains(name, ".") {
		return fmt.Errorf("%w: invalid child name %q", ErrUnknownQuantity, name)
	}
	if _, ok := g.children[name]; ok {
		return fmt.Errorf("%w: child %q", ErrDuplicateName, name)
	}
	g.children[name] = e
	g.order = append(g.order, name)
	return nil
}

// Add registers a leaf component under the given name.
func (g *Group) Add(name string, c Component) error {
	return g.addChild(name, &childEntry{comp: c})
}

// AddGroup registers a nested group under the given name.
func (g *Group) AddGroup(name string, sub *Group) error {
	return g.addChild(name, &childEntry{group: sub})
}

// Connect links a source output to a destination parameter. Endpoints are
// dotted paths relative to this group and may use promoted names. A
// destination accepts at most one incoming connection; duplicates declared in
// the same group fail immediately, everything else is validated at setup.
func (g *Group) Connect(src, dst string) error {
	for _, c := range g.conns {
		if c.dst == dst {
			return fmt.Errorf("%w: %q", ErrAlreadyConnected, dst)
		}
	}
	g.conns = append(g.conns, connection{src: src, dst: dst})
	return nil
}

// Promote exposes child quantities in this group's namespace under their own
// names.
func (g *Group) Promote(child string, names ...string) error {
	for _, n := range names {
		if err := g.PromoteAs(child, n, n); err != nil {
			return err
		}
	}
	return nil
}

// PromoteAs exposes the child quantity local under the name as in this
// group's namespace.
func (g *Group) PromoteAs(child, local, as string) error {
	if _, ok := g.children[child]; !ok {
		return fmt.Errorf("%w: child %q", ErrUnknownQuantity, child)
	}
	g.promos = append(g.promos, promotion{child: child, local: local, as: as})
	return nil
}

// joinPath builds an absolute path for error reporting.
func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
