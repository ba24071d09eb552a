// Package evalop defines the compiler's output: an ordered EvalOp plan plus
// the Integral list consumed by the external numerical integrator (§6).
package evalop

// Kind identifies the operation an EvalOp performs. Names mirror
// OperationType::Type in the original engine.
type Kind int

const (
	Copy Kind = iota
	ConstantOp
	Add
	Subtract
	Multiply
	Divide
	Min
	Max
	And
	Or
	Less
	LessEqual
	Equal
	RunningSum
	RunningProduct
	Difference
	Index
	Gather
	Data
	Ravel
)

func (k Kind) String() string {
	switch k {
	case Copy:
		return "copy"
	case ConstantOp:
		return "constant"
	case Add:
		return "add"
	case Subtract:
		return "subtract"
	case Multiply:
		return "multiply"
	case Divide:
		return "divide"
	case Min:
		return "min"
	case Max:
		return "max"
	case And:
		return "and"
	case Or:
		return "or"
	case Less:
		return "lt"
	case LessEqual:
		return "le"
	case Equal:
		return "eq"
	case RunningSum:
		return "runningSum"
	case RunningProduct:
		return "runningProduct"
	case Difference:
		return "difference"
	case Index:
		return "index"
	case Gather:
		return "gather"
	case Data:
		return "data"
	case Ravel:
		return "ravel"
	default:
		return "unknown"
	}
}

// ElementMapping rewires one output element of a tensor op to a specific
// pair of input element offsets, relative to each operand's base arena
// index. Only Difference populates this (§4.6, §8 scenario 6); other
// tensor ops operate over the whole slot uniformly and leave it empty.
type ElementMapping struct {
	Dst  int
	Src1 int
	Src2 int
}

// TensorParams carries the operator-state tensor parameters snapshotted at
// compile time (Design Notes: "Operator state shared with UI" — the
// compiler takes an immutable snapshot; runtime mutation of the UI item
// must invalidate the plan, which is an external-collaborator concern).
type TensorParams struct {
	Axis      string
	Arg       int
	Direction int
}

// OperatorState is the originating operator's identity and kind, carried on
// each EvalOp so failures can be reported against the offending item
// (§6: "Each record carries its originating operator state for error
// reporting").
type OperatorState struct {
	ItemID string
	Kind   string
}

// EvalOp is a single record in the emitted plan. Dst/Src1/Src2 are arena
// indices into the value registry (never raw pointers, per Design Notes).
// Src1/Src2 are left at zero when not applicable to Kind; Kind decides
// which of them are read.
type EvalOp struct {
	Kind     Kind
	Dst      int
	Src1     int
	Src2     int
	Value    float64 // populated for ConstantOp
	Tensor   TensorParams
	Elements []ElementMapping
	State    OperatorState
}

// Integral is one stock/derivative-input pairing consumed by the
// integrator to form dstock/dt = input (§6).
type Integral struct {
	StockSlot    int
	IntegratorID string
	InputSlot    int
}

// Plan is the full compiler output: the ordered EvalOp sequence plus the
// Integral list.
type Plan struct {
	Ops       []EvalOp
	Integrals []Integral
}

func (p *Plan) Append(op EvalOp) { p.Ops = append(p.Ops, op) }

func (p *Plan) Reset() {
	p.Ops = p.Ops[:0]
	p.Integrals = p.Integrals[:0]
}
