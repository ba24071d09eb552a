package registry

import "fmt"

// Registry is the process-wide value registry: a map from value-id to a
// VariableValue storage slot, backed by an index-stable arena so the
// compiler's emitted plan can address slots by arena index rather than raw
// pointer (Design Notes: "Borrowed VariableValue*").
type Registry struct {
	byID  map[string]*VariableValue
	arena []*VariableValue
}

// New constructs an empty registry preloaded with the two canonical
// singleton slots the compiler requires to exist (§6: "expects the
// canonical entries constant:zero and constant:one to exist preloaded").
func New() *Registry {
	r := &Registry{byID: make(map[string]*VariableValue)}
	zero := NewVariableValue("zero", Constant)
	zero.Init = NumberInit(0)
	one := NewVariableValue("one", Constant)
	one.Init = NumberInit(1)
	r.put("constant:zero", zero)
	r.put("constant:one", one)
	r.AllocValue(zero)
	r.AllocValue(one)
	return r
}

func (r *Registry) put(valueID string, v *VariableValue) { r.byID[valueID] = v }

// Get returns the slot for valueID, if one exists.
func (r *Registry) Get(valueID string) (*VariableValue, bool) {
	v, ok := r.byID[valueID]
	return v, ok
}

// MustGet panics if valueID is absent; used where the caller has already
// established the invariant that the slot exists.
func (r *Registry) MustGet(valueID string) *VariableValue {
	v, ok := r.byID[valueID]
	if !ok {
		panic(fmt.Sprintf("registry: no slot for value-id %q", valueID))
	}
	return v
}

// GetOrCreate returns the existing slot for valueID, or creates and
// registers a new one of the given kind (used when makeDAG encounters a
// variable the registry has not seen yet, e.g. a tempFlow materialized
// during Godley translation).
func (r *Registry) GetOrCreate(valueID, name string, kind Kind) *VariableValue {
	if v, ok := r.byID[valueID]; ok {
		return v
	}
	v := NewVariableValue(name, kind)
	r.put(valueID, v)
	return v
}

// AllocValue assigns the slot its arena index, if it does not already have
// one. It is idempotent.
func (r *Registry) AllocValue(v *VariableValue) int {
	if v.idx >= 0 {
		return v.idx
	}
	v.idx = len(r.arena)
	r.arena = append(r.arena, v)
	return v.idx
}

// Arena returns the full backing slice, indexable by the idx stored in
// each slot and by every EvalOp's Dst/Src fields.
func (r *Registry) Arena() []*VariableValue { return r.arena }

func (r *Registry) ConstantZero() *VariableValue { return r.MustGet("constant:zero") }
func (r *Registry) ConstantOne() *VariableValue  { return r.MustGet("constant:one") }

// ValidEntries asserts the registry invariant that every allocated slot's
// arena index actually points back at itself (§5: "the value registry's
// 'validEntries' invariant must hold at every assertion point").
func (r *Registry) ValidEntries() bool {
	for i, v := range r.arena {
		if v == nil || v.idx != i {
			return false
		}
	}
	return true
}
