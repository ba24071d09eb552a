package registry

// InitValue is a stock or constant's initial-value expression: either a
// numeric literal or a reference to another variable's name, never both
// (§3 DATA MODEL: "initial-value expression (string or number)").
type InitValue struct {
	IsName bool
	Name   string
	Number float64
}

func NumberInit(v float64) InitValue { return InitValue{Number: v} }
func NameInit(name string) InitValue { return InitValue{IsName: true, Name: name} }

// VariableValue is the external storage slot the compiler borrows: a
// backing index into the registry's arena plus metadata (kind, initial
// value, tensor axes, units). The compiler never owns these; it only
// mutates initial values/tensor descriptors and allocates indices for
// previously-unallocated temporaries.
type VariableValue struct {
	Name  string
	Kind  Kind
	idx   int // -1 until allocValue
	Init  InitValue
	XVec  XVector
	Units string

	// OnConstantInit is invoked after a stock's initial value is set from a
	// wired constant (supplemented from original_source/engine/equations.cc:
	// IntOp initial-value wiring calls adjustSliderBounds() on the stock
	// strictly after init is assigned). External/editor collaborators may
	// hook in here; left nil by default.
	OnConstantInit func(v *VariableValue)
}

// NewVariableValue constructs an unallocated slot of the given kind.
func NewVariableValue(name string, kind Kind) *VariableValue {
	return &VariableValue{Name: name, Kind: kind, idx: -1}
}

func (v *VariableValue) Idx() int { return v.idx }

func (v *VariableValue) IsFlowVar() bool { return v.Kind.IsFlowVar() }

// IsZero reports whether this slot is the canonical constant-zero slot:
// a constant kind with numeric init exactly 0. Used by the multiply-family
// short circuit and the add-family identity skip (§4.6).
func (v *VariableValue) IsZero() bool {
	return v.Kind == Constant && !v.Init.IsName && v.Init.Number == 0
}

// SetXVector replaces this slot's tensor descriptor wholesale (as
// VariableValue::setXVector does when a node first discovers tensor shape
// from one of its arguments).
func (v *VariableValue) SetXVector(x XVector) { v.XVec = x.Clone() }

// MakeXConformant narrows this slot's XVector to the intersection with
// other's, emptying it (and thus signalling "no common axes") when no
// shared axis exists.
func (v *VariableValue) MakeXConformant(other *VariableValue) {
	if other == nil {
		return
	}
	v.XVec = v.XVec.Conform(other.XVec)
}

func (v *VariableValue) NumElements() int { return v.XVec.NumElements() }
