package model

import "github.com/sysdyn/sdcompile/pkg/registry"

// Variable is a visual variable item. Port 0 is its output; port 1 (when
// present) is its value/definition input — the wire defining a flow
// variable's right-hand side, or an integrator's initial-value source when
// Variable represents a stock being wired into an IntOp's init port.
type Variable struct {
	Name     string
	Kind     registry.Kind
	Init     registry.InitValue
	Group    *Group
	id       string
	outPort  *Port
	defPort  *Port
}

// NewVariable constructs a variable scoped to group, always with both an
// output port and a value/definition port, whatever its kind.
func NewVariable(id, name string, kind registry.Kind, group *Group) *Variable {
	v := &Variable{Name: name, Kind: kind, Group: group, id: id}
	v.outPort = &Port{Item: v, Index: 0}
	v.defPort = &Port{Item: v, Index: 1}
	return v
}

func (v *Variable) ID() string { return v.id }

func (v *Variable) Ports() []*Port { return []*Port{v.outPort, v.defPort} }

// OutPort returns the variable's output port.
func (v *Variable) OutPort() *Port { return v.outPort }

// DefPort returns the variable's value/definition input port.
func (v *Variable) DefPort() *Port { return v.defPort }

// ValueID returns the variable's fully-scoped value-id.
func (v *Variable) ValueID() string { return v.Group.ValueID(v.Name) }

// DefiningWire returns the wire feeding this variable's definition port, if
// any.
func (v *Variable) DefiningWire() *Wire {
	if len(v.defPort.Wires) == 0 {
		return nil
	}
	return v.defPort.Wires[0]
}
