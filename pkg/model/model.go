// Package model is the visual model: the tree of groups containing items
// (variables, operations, switches, Godley icons, plots, sheets,
// integrators) connected by wires between typed ports (§6 EXTERNAL
// INTERFACES, input). This package is the external collaborator boundary —
// the graphical editor and its layout are out of scope (§1); this package
// only holds the data the compiler walks.
package model

// Item is anything that can sit in a Group and expose ports.
type Item interface {
	ID() string
	Ports() []*Port
}

// Port is one connection point on an Item. Port 0 of an operator-like item
// is its output; ports >= 1 are inputs. A wire has a single source port and
// single destination port.
type Port struct {
	Item  Item
	Index int
	Wires []*Wire
}

// Wire connects a single source port to a single destination port.
type Wire struct {
	From *Port
	To   *Port
}

// Group scopes a set of items and nested groups, and is used to resolve a
// variable's name into a fully-qualified value-id (GLOSSARY: "Value-id:
// canonical fully-scoped identifier of a model variable, e.g. group:name").
type Group struct {
	Name   string
	Parent *Group
	Items  []Item
	Groups []*Group
}

// Scope returns the colon-separated path of enclosing group names,
// root-first, including g's own name; empty for an unnamed top-level group.
func (g *Group) Scope() string {
	if g == nil || g.Parent == nil {
		if g == nil || g.Name == "" {
			return ""
		}
		return g.Name
	}
	parent := g.Parent.Scope()
	if parent == "" {
		return g.Name
	}
	return parent + ":" + g.Name
}

// ValueID resolves name to a fully-scoped value-id within this group,
// mirroring VariableValue::valueId(group, name) from the original engine.
func (g *Group) ValueID(name string) string {
	scope := g.Scope()
	if scope == "" {
		return name
	}
	return scope + ":" + name
}

// RecursiveDo walks every item in this group and its nested groups,
// depth-first, calling fn for each. It mirrors Group::recursiveDo's role in
// the original engine (used throughout SystemOfEquations's constructor to
// find integrals, Godley icons, stocks, and sinks).
func (g *Group) RecursiveDo(fn func(Item)) {
	if g == nil {
		return
	}
	for _, it := range g.Items {
		fn(it)
	}
	for _, sub := range g.Groups {
		sub.RecursiveDo(fn)
	}
}

// AddWire connects from -> to, registering the wire on both ports.
func AddWire(from, to *Port) *Wire {
	w := &Wire{From: from, To: to}
	from.Wires = append(from.Wires, w)
	to.Wires = append(to.Wires, w)
	return w
}
