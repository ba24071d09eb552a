// Package dag defines the expression DAG's node representation and the
// cache that deduplicates it (§3 DATA MODEL "Node (tagged variant)", §4.1).
//
// Design Notes calls for replacing a polymorphic node hierarchy with a
// tagged variant; Node is that variant: a single struct carrying a Kind
// discriminator plus the union of fields each kind needs. Callers — the
// Definition Orderer and Code Generator in pkg/compiler — dispatch on Kind
// via exhaustive switch rather than virtual methods.
package dag

import (
	"github.com/sysdyn/sdcompile/pkg/model"
	"github.com/sysdyn/sdcompile/pkg/registry"
)

// Kind discriminates Node's variant.
type Kind int

const (
	// Constant wraps a pre-existing constant VariableValue (typically
	// constant:zero, constant:one, or a literal materialized by
	// makeDAG/Godley translation).
	Constant Kind = iota
	// Variable is a named flow, stock, parameter, or tempFlow, optionally
	// defined by an RHS expression wired to its value port.
	Variable
	// IntegralInput is the synthetic "derivative expression" node that
	// breaks a stock's self-reference cycle (§4.4).
	IntegralInput
	// Operation is an arithmetic/comparison/tensor operator with a
	// variadic argument list per input port.
	Operation
	// GodleyColumn is a Godley table column lowered to credits/debits.
	GodleyColumn
)

func (k Kind) String() string {
	switch k {
	case Constant:
		return "constant"
	case Variable:
		return "variable"
	case IntegralInput:
		return "integralInput"
	case Operation:
		return "operation"
	case GodleyColumn:
		return "godleyColumn"
	default:
		return "unknown"
	}
}

// Node is the expression DAG's tagged-variant node type (§3, §9 Design
// Notes). Only the fields relevant to Kind are populated; the rest are
// zero. A Node is owned by exactly one ExpressionCache slot (or, for
// anonymous nodes, by whichever caller minted it via InsertAnonymous) —
// other references borrow it.
type Node struct {
	Kind Kind

	// ID is the item id: the value-id for Variable nodes, and icon id +
	// ":" + header for GodleyColumn nodes. It is empty for Constant nodes,
	// IntegralInput nodes and anonymous operations; the uuid minted by
	// InsertAnonymous is only the cache key and is not stored here.
	ID string

	result *registry.VariableValue
	order  int
	hasOrder bool

	// Constant
	ConstValue *registry.VariableValue

	// Variable / IntegralInput
	ValueID string
	Name    string
	VarKind registry.Kind
	Init    registry.InitValue
	RHS     *Node       // nil if undefined (stock with no wired derivative yet, or flow with no defining wire)
	IntOp   *model.IntOp // non-nil when Kind == Variable and this variable is a stock

	// Operation
	OpKind    model.OpKind
	OpState   model.OpState
	Arguments [][]*Node // Arguments[i] = nodes wired to input port i (0-indexed, port 1 of the visual item)

	// GodleyColumn
	Credits []*Node
	Debits  []*Node
}

// Result returns the node's bound storage slot, or nil if AddEvalOps has
// not yet run for it.
func (n *Node) Result() *registry.VariableValue { return n.result }

// SetResult binds the node's storage slot. Called at most once per node
// over the compiler's lifetime (§4.6: "If result already bound, skip
// generation").
func (n *Node) SetResult(v *registry.VariableValue) { n.result = v }

// Order returns the node's memoized definition order and whether it has
// been computed yet.
func (n *Node) Order() (int, bool) { return n.order, n.hasOrder }

// SetOrder memoizes the node's definition order (§4.5: "Orders are
// memoized per-node").
func (n *Node) SetOrder(order int) {
	n.order = order
	n.hasOrder = true
}

// NewConstant wraps an existing constant slot (e.g. the registry's
// constant:zero/constant:one, or a literal minted during Godley/switch
// lowering) as a Constant node. Its order is fixed at 1 (§3, §4.5).
func NewConstant(v *registry.VariableValue) *Node {
	n := &Node{Kind: Constant, ConstValue: v}
	n.SetResult(v)
	n.SetOrder(1)
	return n
}

// NewVariable constructs an unresolved Variable node. rhs may be nil
// (undefined until the DAG Builder resolves the defining wire).
func NewVariable(id, valueID, name string, kind registry.Kind, init registry.InitValue) *Node {
	return &Node{Kind: Variable, ID: id, ValueID: valueID, Name: name, VarKind: kind, Init: init}
}

// NewIntegralInput constructs the synthetic derivative-expression node for
// a stock, named after it (§4.4).
func NewIntegralInput(valueID, name string) *Node {
	return &Node{Kind: IntegralInput, ValueID: valueID, Name: name}
}

// NewOperation constructs an Operation node with numPorts empty argument
// lists, ready for the DAG Builder to populate by recursing on wires.
func NewOperation(id string, opKind model.OpKind, state model.OpState, numPorts int) *Node {
	return &Node{Kind: Operation, ID: id, OpKind: opKind, OpState: state, Arguments: make([][]*Node, numPorts)}
}

// NewGodleyColumn constructs a GodleyColumn node from its credit and debit
// argument lists (§4.3 step 5).
func NewGodleyColumn(id string, credits, debits []*Node) *Node {
	return &Node{Kind: GodleyColumn, ID: id, Credits: credits, Debits: debits}
}
