// Package ravel declares the external Ravel/tensor-slicing collaborator
// interface the code generator calls into when lowering a ravel operator
// (§1: "the tensor slicing library used by ravel" is explicitly out of
// scope, an external collaborator). Grounded on
// original_source/model/ravelWrap.h's minsky::Ravel: loadDataCubeFromVariable
// dimensions the output from the input's data cube; loadDataFromSlice keeps
// the output dimensioned even when the input port is unwired.
package ravel

import "github.com/sysdyn/sdcompile/pkg/registry"

// Handle is the compiler-facing view of a ravel operator's live state: the
// slicing/pivot configuration a real Ravel widget owns.
type Handle interface {
	// LoadDataCubeFromVariable projects input's data cube into the handle's
	// current slice/pivot state, ahead of dimensioning the result.
	LoadDataCubeFromVariable(input *registry.VariableValue)
	// LoadDataFromSlice dimensions result according to the handle's current
	// slice state, independent of whether the input port is wired.
	LoadDataFromSlice(result *registry.VariableValue)
}

// NoOp is a Handle that performs no projection; it is a placeholder for
// tests and for running the compiler without the real tensor library
// attached, matching the "external collaborator" boundary in §1.
type NoOp struct{}

func (NoOp) LoadDataCubeFromVariable(*registry.VariableValue) {}
func (NoOp) LoadDataFromSlice(*registry.VariableValue)        {}
