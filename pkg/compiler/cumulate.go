package compiler

import (
	"github.com/sysdyn/sdcompile/pkg/dag"
	"github.com/sysdyn/sdcompile/pkg/diag"
	"github.com/sysdyn/sdcompile/pkg/evalop"
	"github.com/sysdyn/sdcompile/pkg/model"
	"github.com/sysdyn/sdcompile/pkg/registry"
)

// foldKind identifies the arithmetic/comparison family cumulate folds over
// a variadic operand list (§4.6 "Arithmetic fold (cumulate)").
type foldKind int

const (
	foldAdd foldKind = iota
	foldSubtract
	foldMultiply
	foldDivide
	foldMin
	foldMax
	foldAnd
	foldOr
)

// foldKindFor returns fold's binary op (applied once, across the two
// input ports a binary operator like subtract/divide splits across) and
// its accumulation op (applied repeatedly to fold a single port's variadic
// operand list into one value). The two differ for subtract and divide:
// per original_source/engine/equations.cc, subtract accumulates with add
// and divide accumulates with multiply — only the single cross-port
// application uses the binary op itself (§4.6).
func foldKindFor(k model.OpKind) (fold foldKind, binKind, accumKind evalop.Kind, ok bool) {
	switch k {
	case model.OpAdd:
		return foldAdd, evalop.Add, evalop.Add, true
	case model.OpSubtract:
		return foldSubtract, evalop.Subtract, evalop.Add, true
	case model.OpMultiply:
		return foldMultiply, evalop.Multiply, evalop.Multiply, true
	case model.OpDivide:
		return foldDivide, evalop.Divide, evalop.Multiply, true
	case model.OpMin:
		return foldMin, evalop.Min, evalop.Min, true
	case model.OpMax:
		return foldMax, evalop.Max, evalop.Max, true
	case model.OpAnd:
		return foldAnd, evalop.And, evalop.And, true
	case model.OpOr:
		return foldOr, evalop.Or, evalop.Or, true
	default:
		return 0, 0, 0, false
	}
}

// groupIdentityForAccum returns the identity element for an accumulation
// operator: 1 for multiply/and, 0 otherwise. min/max have no true
// identity; 0 is used as a harmless placeholder for the "both ports empty"
// degenerate case, which should not arise in a validly wired model.
func groupIdentityForAccum(accumKind evalop.Kind) float64 {
	switch accumKind {
	case evalop.Multiply, evalop.And:
		return 1
	default:
		return 0
	}
}

// cumulate implements the arithmetic fold shared by add, subtract,
// multiply, divide, min, max, and, or (§4.6). ports holds one operand node
// list per input port, already in port order; itemID/opKind identify the
// originating operator for error/state reporting.
func (c *Compiler) cumulate(plan *evalop.Plan, itemID string, opKind model.OpKind, ports [][]*dag.Node, result *registry.VariableValue) error {
	fold, binKind, accumKind, ok := foldKindFor(opKind)
	if !ok {
		return diag.Errorf(itemID, "variable has undefined type")
	}

	state := evalop.OperatorState{ItemID: itemID, Kind: opKind.String()}

	portValues := make([][]*registry.VariableValue, len(ports))
	var xvec registry.XVector
	haveXVec := false
	disjoint := false

	for p, nodes := range ports {
		vals := make([]*registry.VariableValue, 0, len(nodes))
		for _, arg := range nodes {
			v, err := c.addEvalOps(plan, arg, nil)
			if err != nil {
				return err
			}
			if v == nil {
				continue
			}
			vals = append(vals, v)
			if !v.XVec.Empty() {
				if !haveXVec {
					xvec = v.XVec.Clone()
					haveXVec = true
				} else {
					narrowed := xvec.Conform(v.XVec)
					if narrowed == nil {
						disjoint = true
					} else {
						xvec = narrowed
					}
				}
			}
		}
		portValues[p] = vals
	}

	if disjoint {
		// §4.6 / §8: disjoint argument axes emit no steps for this node.
		return nil
	}
	if haveXVec {
		result.SetXVector(xvec)
	}

	// multiply-family short circuit: any zero operand anywhere collapses
	// the whole node to a copy of that zero slot (§4.6, §8 "Zero
	// short-circuit"). Divide groups into this family too: a zero
	// anywhere in the denominator is rejected first as "divide by
	// constant zero", then a zero numerator short-circuits the same way.
	if fold == foldMultiply || fold == foldDivide {
		if fold == foldDivide && len(portValues) > 1 {
			for _, v := range portValues[1] {
				if v.IsZero() {
					return diag.Errorf(itemID, "divide by constant zero")
				}
			}
		}
		for p, vals := range portValues {
			if fold == foldDivide && p > 0 {
				break
			}
			for _, v := range vals {
				if v.IsZero() {
					plan.Append(evalop.EvalOp{Kind: evalop.Copy, Dst: result.Idx(), Src1: v.Idx(), State: state})
					return nil
				}
			}
		}
	}

	if len(portValues) == 1 {
		return c.foldPortInto(plan, state, accumKind, portValues[0], result, itemID)
	}

	// Binary ops split across two input ports (subtract, divide): fold
	// port 0 with the accumulation op directly into result, then apply
	// the binary op once more with port 1 — directly if it has a single
	// operand, else fold port 1 into a temporary with the accumulation op
	// first (§4.6).
	port0, port1 := portValues[0], portValues[1]
	if err := c.foldPortInto(plan, state, accumKind, port0, result, itemID); err != nil {
		return err
	}
	switch len(port1) {
	case 0:
		return nil
	case 1:
		if fold == foldDivide && port1[0].IsZero() {
			return diag.Errorf(itemID, "divide by constant zero")
		}
		plan.Append(evalop.EvalOp{Kind: binKind, Dst: result.Idx(), Src1: result.Idx(), Src2: port1[0].Idx(), State: state})
		return nil
	default:
		tmp := registry.NewVariableValue("", registry.TempFlow)
		c.Reg.AllocValue(tmp)
		if err := c.foldPortInto(plan, state, accumKind, port1, tmp, itemID); err != nil {
			return err
		}
		if fold == foldDivide && tmp.IsZero() {
			return diag.Errorf(itemID, "divide by constant zero")
		}
		plan.Append(evalop.EvalOp{Kind: binKind, Dst: result.Idx(), Src1: result.Idx(), Src2: tmp.Idx(), State: state})
		return nil
	}
}

// foldPortInto reduces vals into dst by repeated application of
// accumKind, the fold's accumulation operator — add for subtract, multiply
// for divide, the operator itself for everything else (§4.6, see
// foldKindFor): copy the first non-identity operand into dst, then
// accum(dst, dst, next) for every remaining operand (§4.6: "Emit:
// copy(result, first_non_identity_operand); for each remaining operand e:
// accum(result, result, e)"). Identity operands (constant-zero) are
// skipped only for the add-family (add/subtract accumulate with add); or
// accumulates with itself and has no such skip (§4.6 "Identity skipping
// for add-family"). An empty (post-skip) list emits constant(groupIdentity)
// into dst instead (§4.6: "If both ports are empty, emit a
// constant(groupIdentity) step").
func (c *Compiler) foldPortInto(plan *evalop.Plan, state evalop.OperatorState, accumKind evalop.Kind, vals []*registry.VariableValue, dst *registry.VariableValue, itemID string) error {
	skipIdentity := accumKind == evalop.Add
	var nonIdentity []*registry.VariableValue
	for _, v := range vals {
		if skipIdentity && v.IsZero() {
			continue
		}
		nonIdentity = append(nonIdentity, v)
	}
	if len(nonIdentity) == 0 {
		plan.Append(evalop.EvalOp{Kind: evalop.ConstantOp, Dst: dst.Idx(), Value: groupIdentityForAccum(accumKind), State: state})
		return nil
	}

	plan.Append(evalop.EvalOp{Kind: evalop.Copy, Dst: dst.Idx(), Src1: nonIdentity[0].Idx(), State: state})
	for _, v := range nonIdentity[1:] {
		plan.Append(evalop.EvalOp{Kind: accumKind, Dst: dst.Idx(), Src1: dst.Idx(), Src2: v.Idx(), State: state})
	}
	return nil
}
