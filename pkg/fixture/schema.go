// Package fixture loads a textual HCL description of a visual system-
// dynamics model into pkg/model, playing the same role the teacher's
// Load() plays for its HCL config file: parse a body, decode it into
// typed blocks, and build an in-memory graph the rest of the system can
// walk. This is strictly a test/CLI fixture-loading mechanism, not "file
// persistence of models" in the sense spec.md excludes (the diagram
// editor's native save format, an external collaborator) — it exists so
// this repository has a way to construct a pkg/model.Group tree without a
// graphical editor attached.
package fixture

// file is the root of a fixture document: exactly one top-level "model"
// block, which is the unscoped root group.
type file struct {
	Model groupBlock `hcl:"model,block"`
}

// groupBlock mirrors pkg/model.Group: a named scope containing items and
// nested groups. The root group's Name is empty.
type groupBlock struct {
	Name string `hcl:"name,label"`

	Variables   []variableBlock   `hcl:"variable,block"`
	Operations  []operationBlock  `hcl:"operation,block"`
	Switches    []switchBlock     `hcl:"switch,block"`
	Godleys     []godleyBlock     `hcl:"godley,block"`
	Integrators []integratorBlock `hcl:"integrator,block"`
	Plots       []plotBlock       `hcl:"plot,block"`
	Sheets      []sheetBlock      `hcl:"sheet,block"`
	Wires       []wireBlock       `hcl:"wire,block"`
	Groups      []groupBlock      `hcl:"group,block"`
}

// variableBlock declares a visual Variable item. Kind is one of "flow",
// "stock", "parameter", "constant", "tempFlow" (§3 DATA MODEL). Init sets
// a numeric initial value; InitVar names another variable whose value
// supplies the initial value instead (mutually exclusive, §3
// "initial-value expression (string or number)").
type variableBlock struct {
	Name    string   `hcl:"name,label"`
	Kind    string   `hcl:"kind"`
	Init    *float64 `hcl:"init,optional"`
	InitVar *string  `hcl:"init_var,optional"`
	Units   *string  `hcl:"units,optional"`
}

// operationBlock declares a visual Operation item (§4.6 GLOSSARY). Ports
// overrides the default input-port count derived from Kind (most
// operators need no override); Axis/Arg/Direction populate model.OpState
// for the tensor operators.
type operationBlock struct {
	Name      string `hcl:"name,label"`
	Kind      string `hcl:"kind"`
	Ports     *int   `hcl:"ports,optional"`
	Axis      *string `hcl:"axis,optional"`
	Arg       *int   `hcl:"arg,optional"`
	Direction *int   `hcl:"direction,optional"`
}

// switchBlock declares a visual switch icon lowered by the DAG Builder
// into a sum of step-function terms (§4.2 "makeDAG(switch)").
type switchBlock struct {
	Name  string `hcl:"name,label"`
	Cases int    `hcl:"cases"`
}

// integratorBlock declares a stock and its bound IntOp in one block: the
// stock variable named Name, plus two synthetic wire destinations
// ("<Name>.deriv" and "<Name>.init") that wireBlock entries can target
// (§4.4 INTEGRAL WIRING).
type integratorBlock struct {
	Name string `hcl:"name,label"`
}

// rowBlock is one row of a Godley table; Cells[0] is the row-label column,
// ignored by the translator (the header row is Rows[0], by position).
// Initial marks an initial-condition row, skipped during translation
// (§4.3 step 3).
type rowBlock struct {
	Cells   []string `hcl:"cells"`
	Initial bool     `hcl:"initial,optional"`
}

// godleyBlock declares a Godley table (§4.3, GLOSSARY). Rows[0] is
// implicitly the header row; column 0 of every row is the row-label
// column.
type godleyBlock struct {
	Name string     `hcl:"name,label"`
	Rows []rowBlock `hcl:"row,block"`
}

// plotBlock declares a plot sink with the given number of input ports,
// each force-evaluated during populateEvalOpVector (§4.7 step 3).
type plotBlock struct {
	Name   string `hcl:"name,label"`
	Inputs *int   `hcl:"inputs,optional"`
}

// sheetBlock declares a single-input sink, force-evaluated the same way
// as a plot (§4.7 step 3).
type sheetBlock struct {
	Name string `hcl:"name,label"`
}

// wireBlock connects From's output port to To's input Port (§6 EXTERNAL
// INTERFACES: "A wire has a single source port and single destination
// port"). To may carry the suffix ".deriv" or ".init" to address an
// integrator's derivative or initial-value port instead of a plain
// item's numbered input port.
type wireBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
	Port int    `hcl:"port"`
}
