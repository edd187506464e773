// Package inheritance resolves class/interface/trait hierarchies across
// files: subtype checks, virtual method dispatch, and trait-provided
// method resolution for Rust. Graph traversal uses a visit-marked,
// iterative worklist rather than unbounded recursion, so a cyclic
// extends/implements edge can't blow the stack.
package inheritance

import (
	"github.com/codeintel/symgraph/internal/intern"
	"github.com/codeintel/symgraph/internal/types"
)

// EdgeKind distinguishes an "extends" edge (class/interface inheritance)
// from an "implements" edge (interface/trait satisfaction), since method
// resolution treats them differently for languages with multiple
// interface implementation but single class inheritance.
type EdgeKind int

const (
	EdgeExtends EdgeKind = iota
	EdgeImplements
)

type edge struct {
	target intern.Handle
	kind   EdgeKind
}

// methodEntry is one member of a type's own (non-inherited) method table.
type methodEntry struct {
	symbol types.SymbolID
	// owner is the trait/interface handle this method was declared as
	// part of, when the method comes from a trait default implementation
	// rather than the type's own body (Rust-specific).
	owner intern.Handle
}

// Graph is the inheritance/implementation adjacency structure for one
// project. Type names are interned so the graph's edges are comparable
// handles rather than repeated string compares.
type Graph struct {
	table   *intern.Table
	edges   map[intern.Handle][]edge
	methods map[intern.Handle]map[string]methodEntry
}

// NewGraph creates an empty graph backed by table. The indexer passes a
// private table of its own rather than intern.Global().
func NewGraph(table *intern.Table) *Graph {
	return &Graph{
		table:   table,
		edges:   make(map[intern.Handle][]edge),
		methods: make(map[intern.Handle]map[string]methodEntry),
	}
}

// AddEdge records that child extends or implements parent.
func (g *Graph) AddEdge(child, parent string, kind EdgeKind) {
	c := g.table.Intern(child)
	p := g.table.Intern(parent)
	g.edges[c] = append(g.edges[c], edge{target: p, kind: kind})
}

// AddMethod records that typeName declares a method named name resolving
// to symbol. owner is typeName itself for a directly-declared method, or
// the trait name for a trait default implementation inherited as-is.
func (g *Graph) AddMethod(typeName, name string, symbol types.SymbolID, owner string) {
	t := g.table.Intern(typeName)
	o := t
	if owner != "" && owner != typeName {
		o = g.table.Intern(owner)
	}
	m, ok := g.methods[t]
	if !ok {
		m = make(map[string]methodEntry)
		g.methods[t] = m
	}
	m[name] = methodEntry{symbol: symbol, owner: o}
}

// IsSubtype reports whether child transitively extends or implements
// parent, walking the edge graph with a visited set so a cycle in
// malformed or adversarial input terminates rather than recursing
// forever — the same defensive posture as graph_propagator's iteration
// cap, adapted to a presence check instead of a fixed-point loop.
func (g *Graph) IsSubtype(child, parent string) bool {
	start := g.table.Intern(child)
	target := g.table.Intern(parent)
	if start == target {
		return true
	}

	visited := map[intern.Handle]bool{start: true}
	queue := []intern.Handle{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.edges[cur] {
			if e.target == target {
				return true
			}
			if !visited[e.target] {
				visited[e.target] = true
				queue = append(queue, e.target)
			}
		}
	}
	return false
}

// ResolveMethod finds the symbol implementing method name on typeName,
// searching typeName's own methods first, then walking ancestors
// breadth-first (nearest ancestor wins on a naming collision).
func (g *Graph) ResolveMethod(typeName, name string) (types.SymbolID, bool) {
	start := g.table.Intern(typeName)
	visited := map[intern.Handle]bool{start: true}
	queue := []intern.Handle{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if m, ok := g.methods[cur]; ok {
			if entry, ok := m[name]; ok {
				return entry.symbol, true
			}
		}
		for _, e := range g.edges[cur] {
			if !visited[e.target] {
				visited[e.target] = true
				queue = append(queue, e.target)
			}
		}
	}
	return 0, false
}

// ResolveMethodTrait is Rust-specific: it resolves name on typeName but
// only considers methods whose owner is traitName, i.e. a trait default
// implementation, skipping inherent impls and other traits' defaults.
func (g *Graph) ResolveMethodTrait(typeName, traitName, name string) (types.SymbolID, bool) {
	trait := g.table.Intern(traitName)
	start := g.table.Intern(typeName)
	visited := map[intern.Handle]bool{start: true}
	queue := []intern.Handle{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if m, ok := g.methods[cur]; ok {
			if entry, ok := m[name]; ok && entry.owner == trait {
				return entry.symbol, true
			}
		}
		for _, e := range g.edges[cur] {
			if !visited[e.target] {
				visited[e.target] = true
				queue = append(queue, e.target)
			}
		}
	}
	return 0, false
}

// GetAllMethods returns every method visible on typeName, its own plus
// everything inherited, with a type's own definition shadowing an
// ancestor's method of the same name.
func (g *Graph) GetAllMethods(typeName string) map[string]types.SymbolID {
	start := g.table.Intern(typeName)
	visited := map[intern.Handle]bool{start: true}
	queue := []intern.Handle{start}
	result := make(map[string]types.SymbolID)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if m, ok := g.methods[cur]; ok {
			for name, entry := range m {
				if _, exists := result[name]; !exists {
					result[name] = entry.symbol
				}
			}
		}
		for _, e := range g.edges[cur] {
			if !visited[e.target] {
				visited[e.target] = true
				queue = append(queue, e.target)
			}
		}
	}
	return result
}
