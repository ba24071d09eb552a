// Package render implements the two textual renderer sinks named in §4.8
// and §6: typeset math and procedural code. Both traverse the same
// compiled DAG the code generator lowered into an EvalOp plan; rendering
// is purely textual and has no effect on the emitted plan (§4.8: "output
// is textual only and has no effect on the plan").
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/sysdyn/sdcompile/pkg/compiler"
	"github.com/sysdyn/sdcompile/pkg/dag"
	"github.com/sysdyn/sdcompile/pkg/model"
)

// Format selects which of the two renderer sinks to emit.
type Format int

const (
	// Typeset renders LaTeX-flavored math: name = rhs equations using
	// \cdot, \frac, and dname/dt notation.
	Typeset Format = iota
	// Procedural renders a flat sequence of assignment statements in a
	// generic C-like procedural syntax.
	Procedural
)

// symbols holds the per-format tokens expr dispatches on.
type symbols struct {
	mul, lt, le, eq string
	assign          string
	divide          func(num, den string) string
	initial         func(name string) string
	derivative      func(name string) string
}

func symbolsFor(f Format) symbols {
	if f == Typeset {
		return symbols{
			mul: " \\cdot ", lt: " < ", le: " \\le ", eq: " = ",
			assign: " = ",
			divide: func(num, den string) string { return fmt.Sprintf("\\frac{%s}{%s}", num, den) },
			initial: func(name string) string { return fmt.Sprintf("%s(0)", name) },
			derivative: func(name string) string { return fmt.Sprintf("\\frac{d%s}{dt}", name) },
		}
	}
	return symbols{
		mul: " * ", lt: " < ", le: " <= ", eq: " == ",
		assign: " = ",
		divide: func(num, den string) string { return fmt.Sprintf("(%s / %s)", num, den) },
		initial: func(name string) string { return fmt.Sprintf("%s_init", name) },
		derivative: func(name string) string { return fmt.Sprintf("d%s_dt", name) },
	}
}

// Renderer traverses a compiled Compiler's variables and integration
// variables, emitting one equation per line (§4.8).
type Renderer struct {
	format Format
	sym    symbols
}

// New constructs a Renderer for the given output format.
func New(format Format) *Renderer {
	return &Renderer{format: format, sym: symbolsFor(format)}
}

// Render writes c's equation system to w: every flow variable's defining
// equation, then every stock's initial-value and derivative equations
// (§4.8). c must have already run a successful Compile.
func (r *Renderer) Render(w io.Writer, c *compiler.Compiler) error {
	for _, n := range c.OrderedFlowVariables() {
		if n.Kind != dag.Variable || n.RHS == nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", n.Name, r.sym.assign, r.expr(n.RHS)); err != nil {
			return err
		}
	}

	for _, n := range c.StockVariables() {
		initExpr := r.initExpr(n)
		if _, err := fmt.Fprintf(w, "%s%s%s\n", r.sym.initial(n.Name), r.sym.assign, initExpr); err != nil {
			return err
		}

		rhs := "0"
		if input, ok := c.IntegralInputFor(n.ValueID); ok && input.RHS != nil {
			rhs = r.expr(input.RHS)
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", r.sym.derivative(n.Name), r.sym.assign, rhs); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) initExpr(n *dag.Node) string {
	if n.Init.IsName {
		return n.Init.Name
	}
	return formatNumber(n.Init.Number)
}

// expr formats n's expression recursively, dispatching per node kind
// (§4.8: "Each renderer dispatches per node-kind to a per-kind formatting
// rule").
func (r *Renderer) expr(n *dag.Node) string {
	if n == nil {
		return "0"
	}
	switch n.Kind {
	case dag.Constant:
		if n.ConstValue == nil {
			return "0"
		}
		if n.ConstValue.Init.IsName {
			return n.ConstValue.Init.Name
		}
		return formatNumber(n.ConstValue.Init.Number)
	case dag.Variable:
		return n.Name
	case dag.IntegralInput:
		return r.expr(n.RHS)
	case dag.GodleyColumn:
		return r.cumulativeExpr(n.Credits, "+") + r.signedExpr(n.Debits, "-")
	case dag.Operation:
		return r.opExpr(n)
	default:
		return "0"
	}
}

func (r *Renderer) opExpr(n *dag.Node) string {
	switch n.OpKind {
	case model.OpAdd:
		return r.joinArgs(flatten(n.Arguments), "+")
	case model.OpMultiply:
		return r.joinArgs(flatten(n.Arguments), r.sym.mul)
	case model.OpMin:
		return r.call("min", flatten(n.Arguments))
	case model.OpMax:
		return r.call("max", flatten(n.Arguments))
	case model.OpAnd:
		if r.format == Procedural {
			return r.joinArgs(flatten(n.Arguments), " && ")
		}
		return r.joinArgs(flatten(n.Arguments), " \\wedge ")
	case model.OpOr:
		if r.format == Procedural {
			return r.joinArgs(flatten(n.Arguments), " || ")
		}
		return r.joinArgs(flatten(n.Arguments), " \\vee ")
	case model.OpSubtract:
		return r.splitPorts(n, "-")
	case model.OpDivide:
		return r.splitPortsFn(n, r.sym.divide)
	case model.OpLess:
		return r.comparisonExpr(n, r.sym.lt)
	case model.OpLessEqual:
		return r.comparisonExpr(n, r.sym.le)
	case model.OpEqual:
		return r.comparisonExpr(n, r.sym.eq)
	case model.OpRunningSum:
		return r.call("runningSum", flatten(n.Arguments))
	case model.OpRunningProduct:
		return r.call("runningProduct", flatten(n.Arguments))
	case model.OpDifference:
		return r.call("difference", flatten(n.Arguments))
	case model.OpIndex:
		return r.call("index", flatten(n.Arguments))
	case model.OpGather:
		return r.call("gather", flatten(n.Arguments))
	case model.OpData:
		return r.call("data", flatten(n.Arguments))
	case model.OpRavel:
		return r.call("ravel", flatten(n.Arguments))
	default:
		return r.call(n.OpKind.String(), flatten(n.Arguments))
	}
}

func (r *Renderer) comparisonExpr(n *dag.Node, op string) string {
	lhs, rhs := "0", "0"
	if len(n.Arguments) > 0 && len(n.Arguments[0]) > 0 {
		lhs = r.expr(n.Arguments[0][0])
	}
	if len(n.Arguments) > 1 && len(n.Arguments[1]) > 0 {
		rhs = r.expr(n.Arguments[1][0])
	}
	return lhs + op + rhs
}

func (r *Renderer) splitPorts(n *dag.Node, op string) string {
	port0 := ""
	if len(n.Arguments) > 0 {
		port0 = r.joinArgs(n.Arguments[0], "+")
	}
	if len(n.Arguments) < 2 || len(n.Arguments[1]) == 0 {
		return port0
	}
	port1 := r.joinArgs(n.Arguments[1], op)
	return fmt.Sprintf("(%s %s %s)", port0, op, port1)
}

func (r *Renderer) splitPortsFn(n *dag.Node, fn func(num, den string) string) string {
	port0 := ""
	if len(n.Arguments) > 0 {
		port0 = r.joinArgs(n.Arguments[0], r.sym.mul)
	}
	if len(n.Arguments) < 2 || len(n.Arguments[1]) == 0 {
		return port0
	}
	port1 := r.joinArgs(n.Arguments[1], r.sym.mul)
	if len(n.Arguments[1]) > 1 {
		port1 = "(" + port1 + ")"
	}
	return fn(port0, port1)
}

func (r *Renderer) cumulativeExpr(nodes []*dag.Node, op string) string {
	return r.joinArgs(nodes, op)
}

func (r *Renderer) signedExpr(nodes []*dag.Node, op string) string {
	if len(nodes) == 0 {
		return ""
	}
	return op + r.joinArgs(nodes, op)
}

func (r *Renderer) joinArgs(nodes []*dag.Node, sep string) string {
	if len(nodes) == 0 {
		return "0"
	}
	parts := make([]string, len(nodes))
	for i, a := range nodes {
		parts[i] = r.expr(a)
	}
	return strings.Join(parts, sep)
}

func (r *Renderer) call(name string, args []*dag.Node) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = r.expr(a)
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
}

func flatten(ports [][]*dag.Node) []*dag.Node {
	var out []*dag.Node
	for _, p := range ports {
		out = append(out, p...)
	}
	return out
}

func formatNumber(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}
