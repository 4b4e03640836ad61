package mdo

import (
	"fmt"
)

// slot is the storage for one logical variable. Quantities merged by
// promotion share a slot; connections copy between slots.
type slot struct {
	path      string // canonical path, producer's if one exists
	def       float64
	value     float64
	units     string
	desc      string
	producer  *compNode
	connected bool
	readers   []paramRef
}

type paramRef struct {
	node *compNode
	name string
}

type binding struct {
	name string
	s    *slot
}

// propagation copies a source output slot into a connected destination slot
// immediately after the producing component solves.
type propagation struct {
	from, to *slot
}

type compNode struct {
	path   string
	comp   Component
	params []binding
	outs   []binding
	conns  []propagation
	deps   []*compNode
	depSet map[*compNode]bool
}

func (n *compNode) addDep(dep *compNode) {
	if n.depSet == nil {
		n.depSet = make(map[*compNode]bool)
	}
	if !n.depSet[dep] {
		n.depSet[dep] = true
		n.deps = append(n.deps, dep)
	}
}

// varMeta is one declared quantity before promotion merging.
type varMeta struct {
	path  string
	q     Quantity
	owner *compNode // non-nil for outputs
}

type nodeBinding struct {
	node    *compNode
	name    string
	varID   int
	isParam bool
}

type groupConn struct {
	groupPath string
	ns        map[string]int
	conn      connection
}

type resolver struct {
	vars     []varMeta
	parent   []int
	nodes    []*compNode
	bindings []nodeBinding
	conns    []groupConn
}

func (r *resolver) addVar(v varMeta) int {
	id := len(r.vars)
	r.vars = append(r.vars, v)
	r.parent = append(r.parent, id)
	return id
}

func (r *resolver) find(id int) int {
	for r.parent[id] != id {
		r.parent[id] = r.parent[r.parent[id]]
		id = r.parent[id]
	}
	return id
}

func (r *resolver) union(a, b int) {
	ra, rb := r.find(a), r.find(b)
	if ra != rb {
		// keep the lower id as root so canonical metadata follows
		// declaration order
		if ra < rb {
			r.parent[rb] = ra
		} else {
			r.parent[ra] = rb
		}
	}
}

// flatten walks the group tree, sets up every leaf component, and returns the
// group's namespace: local dotted paths and promoted aliases mapped to var ids.
func (r *resolver) flatten(g *Group, path string) (map[string]int, error) {
	ns := make(map[string]int)

	for _, childName := range g.order {
		e := g.children[childName]
		childPath := joinPath(path, childName)

		if e.comp != nil {
			reg := NewRegistry()
			if err := e.comp.Setup(reg); err != nil {
				return nil, fmt.Errorf("setup %s: %w", childPath, err)
			}
			node := &compNode{path: childPath, comp: e.comp}
			r.nodes = append(r.nodes, node)

			for _, qname := range reg.Names() {
				q, _ := reg.Lookup(qname)
				v := varMeta{path: joinPath(childPath, qname), q: q}
				if q.Role == RoleOutput {
					v.owner = node
				}
				id := r.addVar(v)
				ns[childName+"."+qname] = id
				r.bindings = append(r.bindings, nodeBinding{
					node: node, name: qname, varID: id,
					isParam: q.Role == RoleParameter,
				})
			}
			continue
		}

		sub, err := r.flatten(e.group, childPath)
		if err != nil {
			return nil, err
		}
		for k, v := range sub {
			ns[childName+"."+k] = v
		}
	}

	for _, p := range g.promos {
		id, ok := ns[p.child+"."+p.local]
		if !ok {
			return nil, fmt.Errorf("%w: promote %s.%s in group %q",
				ErrUnknownQuantity, p.child, p.local, path)
		}
		if prev, ok := ns[p.as]; ok {
			r.union(prev, id)
		} else {
			ns[p.as] = id
		}
	}

	for _, c := range g.conns {
		r.conns = append(r.conns, groupConn{groupPath: path, ns: ns, conn: c})
	}
	return ns, nil
}

// materialize turns merged var sets into slots and wires node bindings,
// connections, and dependency edges. Returns the namespace slots keyed by
// the flattened names.
func (r *resolver) materialize(rootNS map[string]int) (map[string]*slot, error) {
	slots := make(map[int]*slot)

	for id := range r.vars {
		root := r.find(id)
		v := r.vars[id]
		s, ok := slots[root]
		if !ok {
			s = &slot{path: v.path, def: v.q.Default, units: v.q.Units, desc: v.q.Desc}
			slots[root] = s
		}
		if v.owner != nil {
			if s.producer != nil && s.producer != v.owner {
				return nil, fmt.Errorf("%w: outputs %q and %q promoted to one variable",
					ErrAlreadyConnected, s.path, v.path)
			}
			// producer's metadata is canonical for the slot
			s.producer = v.owner
			s.path = v.path
			s.def = v.q.Default
			s.units = v.q.Units
			s.desc = v.q.Desc
		}
	}

	for _, b := range r.bindings {
		s := slots[r.find(b.varID)]
		bind := binding{name: b.name, s: s}
		if b.isParam {
			b.node.params = append(b.node.params, bind)
			s.readers = append(s.readers, paramRef{node: b.node, name: b.name})
		} else {
			b.node.outs = append(b.node.outs, bind)
		}
	}

	for _, gc := range r.conns {
		srcID, ok := gc.ns[gc.conn.src]
		if !ok {
			return nil, fmt.Errorf("%w: connection source %q in group %q",
				ErrUnknownQuantity, gc.conn.src, gc.groupPath)
		}
		dstID, ok := gc.ns[gc.conn.dst]
		if !ok {
			return nil, fmt.Errorf("%w: connection destination %q in group %q",
				ErrUnknownQuantity, gc.conn.dst, gc.groupPath)
		}
		src := slots[r.find(srcID)]
		dst := slots[r.find(dstID)]
		if src.producer == nil {
			return nil, fmt.Errorf("%w: connection source %q is not an output",
				ErrUnknownQuantity, gc.conn.src)
		}
		if dst.producer != nil {
			return nil, fmt.Errorf("%w: connection destination %q is an output",
				ErrAlreadyConnected, gc.conn.dst)
		}
		if dst.connected {
			return nil, fmt.Errorf("%w: %q", ErrAlreadyConnected, gc.conn.dst)
		}
		dst.connected = true
		src.producer.conns = append(src.producer.conns, propagation{from: src, to: dst})
		for _, rd := range dst.readers {
			rd.node.addDep(src.producer)
		}
	}

	// promoted outputs feed sibling parameters through the shared slot
	for _, s := range slots {
		if s.producer == nil {
			continue
		}
		for _, rd := range s.readers {
			rd.node.addDep(s.producer)
		}
	}

	named := make(map[string]*slot, len(rootNS))
	for name, id := range rootNS {
		named[name] = slots[r.find(id)]
	}
	return named, nil
}

// sortNodes returns the components in dependency order. Depth-first search
// with temporary marks; a back edge means the connection graph has a cycle.
func (r *resolver) sortNodes() ([]*compNode, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[*compNode]int, len(r.nodes))
	order := make([]*compNode, 0, len(r.nodes))

	var visit func(n *compNode) error
	visit = func(n *compNode) error {
		switch state[n] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: involving %q", ErrCyclicDependency, n.path)
		}
		state[n] = visiting
		for _, dep := range n.deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[n] = done
		order = append(order, n)
		return nil
	}

	for _, n := range r.nodes {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return order, nil
}
