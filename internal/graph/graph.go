// Package graph is a small generic topological-sort helper, modeled on the
// teacher's internal pkg/flow/internal/dag package (referenced from
// loader.go's dag.Graph/dag.WalkTopological/dag.Validate/dag.Reduce):
// build a node+edge graph, walk it in dependency order, and validate it
// for cycles before anything downstream relies on an acyclic ordering.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Node is anything identifiable that can sit in a Graph.
type Node interface {
	NodeID() string
}

// Edge is a directed dependency: From depends on To (To must be evaluated
// first).
type Edge struct {
	From Node
	To   Node
}

// Graph is a directed graph over Node, keyed by NodeID.
type Graph struct {
	nodes    map[string]Node
	outEdges map[string][]string // from -> []to (dependencies)
	inEdges  map[string][]string // to -> []from (dependents)
}

// New constructs an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]Node),
		outEdges: make(map[string][]string),
		inEdges:  make(map[string][]string),
	}
}

// Add registers n, if not already present.
func (g *Graph) Add(n Node) {
	if _, ok := g.nodes[n.NodeID()]; !ok {
		g.nodes[n.NodeID()] = n
	}
}

// AddEdge records that from depends on to, adding either node that is not
// yet in the graph.
func (g *Graph) AddEdge(from, to Node) {
	g.Add(from)
	g.Add(to)
	g.outEdges[from.NodeID()] = append(g.outEdges[from.NodeID()], to.NodeID())
	g.inEdges[to.NodeID()] = append(g.inEdges[to.NodeID()], from.NodeID())
}

// Nodes returns every node in the graph, sorted by id for determinism.
func (g *Graph) Nodes() []Node {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = g.nodes[id]
	}
	return out
}

// Leaves returns every node with no outgoing edges (no dependencies),
// sorted by id.
func (g *Graph) Leaves() []Node {
	var out []Node
	for _, n := range g.Nodes() {
		if len(g.outEdges[n.NodeID()]) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// GetByID returns the node registered under id, if any.
func (g *Graph) GetByID(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Clone returns a deep copy of the graph's structure (node references are
// shared; the node/edge maps are not).
func (g *Graph) Clone() *Graph {
	clone := New()
	for id, n := range g.nodes {
		clone.nodes[id] = n
	}
	for from, tos := range g.outEdges {
		clone.outEdges[from] = append([]string(nil), tos...)
	}
	for to, froms := range g.inEdges {
		clone.inEdges[to] = append([]string(nil), froms...)
	}
	return clone
}

// WalkTopological visits every node in dependency order (a node's
// dependencies are visited before the node itself), calling fn once per
// node. It returns an error without calling fn further if the graph
// contains a cycle.
func (g *Graph) WalkTopological(fn func(Node) error) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(g.nodes))
	var order []string

	var visit func(id string, stack []string) error
	visit = func(id string, stack []string) error {
		switch color[id] {
		case black:
			return nil
		case gray:
			return fmt.Errorf("cycle detected: %s", strings.Join(append(stack, id), " -> "))
		}
		color[id] = gray
		for _, dep := range g.outEdges[id] {
			if err := visit(dep, append(stack, id)); err != nil {
				return err
			}
		}
		color[id] = black
		order = append(order, id)
		return nil
	}

	for _, n := range g.Nodes() {
		if err := visit(n.NodeID(), nil); err != nil {
			return err
		}
	}
	for _, id := range order {
		if err := fn(g.nodes[id]); err != nil {
			return err
		}
	}
	return nil
}

// Reduce returns the subgraph reachable from roots (inclusive).
func (g *Graph) Reduce(roots ...Node) *Graph {
	reduced := New()
	seen := make(map[string]bool)
	var visit func(id string)
	visit = func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		reduced.Add(g.nodes[id])
		for _, dep := range g.outEdges[id] {
			reduced.Add(g.nodes[dep])
			reduced.AddEdge(g.nodes[id], g.nodes[dep])
			visit(dep)
		}
	}
	for _, r := range roots {
		visit(r.NodeID())
	}
	return reduced
}

// Validate reports cycles as a combined error via go-multierror, one entry
// per back edge its depth-first walk closes; when cycles share nodes, not
// every distinct cycle gets its own entry — mirroring the teacher's
// dag.Validate()/multierrToDiags pairing.
func (g *Graph) Validate() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(g.nodes))
	var result *multierror.Error

	var visit func(id string, stack []string)
	visit = func(id string, stack []string) {
		switch color[id] {
		case black:
			return
		case gray:
			result = multierror.Append(result, fmt.Errorf("cycle detected: %s", strings.Join(append(stack, id), " -> ")))
			return
		}
		color[id] = gray
		for _, dep := range g.outEdges[id] {
			visit(dep, append(stack, id))
		}
		color[id] = black
	}

	for _, n := range g.Nodes() {
		visit(n.NodeID(), nil)
	}
	return result.ErrorOrNil()
}

// MarshalDOT renders the graph as Graphviz DOT text, for debugging.
func (g *Graph) MarshalDOT() []byte {
	var b strings.Builder
	b.WriteString("digraph sdcompile {\n")
	for _, n := range g.Nodes() {
		fmt.Fprintf(&b, "  %q;\n", n.NodeID())
	}
	for from, tos := range g.outEdges {
		for _, to := range tos {
			fmt.Fprintf(&b, "  %q -> %q;\n", from, to)
		}
	}
	b.WriteString("}\n")
	return []byte(b.String())
}
