package flow

import (
	"slices"

	"github.com/gomlx/exceptions"
)

// Operation is a typed node in a Flow, consuming Inputs and producing
// Outputs.
type Operation struct {
	Name string
	Type string

	Attrs Attributes
	Task  int32 // 0 = main thread; non-zero = a parallel task id.

	Inputs  []*Variable
	Outputs []*Variable

	Func *Function

	Priority int32 // assigned by the scheduler, see the schedule package.
	Order    int32 // assigned by the scheduler.
	Missing  int32 // scratch: number of inputs without a resolved producer; the schedule package keeps this count in its own map and does not set it.
}

// IsInput reports whether v is one of op's inputs.
func (op *Operation) IsInput(v *Variable) bool {
	return slices.Contains(op.Inputs, v)
}

// IsOutput reports whether v is one of op's outputs.
func (op *Operation) IsOutput(v *Variable) bool {
	return slices.Contains(op.Outputs, v)
}

// AddInput appends v to op's inputs and registers op as one of v's
// consumers.
func (op *Operation) AddInput(v *Variable) {
	op.Inputs = append(op.Inputs, v)
	v.Consumers = append(v.Consumers, op)
}

// AddOutput appends v to op's outputs and sets op as v's producer.
//
// Panics if v already has a producer — a Variable has at most one producer
// (invariant 7).
func (op *Operation) AddOutput(v *Variable) {
	if v.Producer != nil {
		exceptions.Panicf("flow: cannot add %q as output of %q: it already has producer %q", v.Name, op.Name, v.Producer.Name)
	}
	op.Outputs = append(op.Outputs, v)
	v.Producer = op
}

// RemoveInput removes v from op's inputs and removes op from v's consumers.
//
// Panics if v is not one of op's inputs.
func (op *Operation) RemoveInput(v *Variable) {
	ci := slices.Index(v.Consumers, op)
	if ci == -1 {
		exceptions.Panicf("flow: %q is not a consumer of %q", op.Name, v.Name)
	}
	v.Consumers = slices.Delete(v.Consumers, ci, ci+1)

	ii := slices.Index(op.Inputs, v)
	if ii == -1 {
		exceptions.Panicf("flow: %q is not an input of %q", v.Name, op.Name)
	}
	op.Inputs = slices.Delete(op.Inputs, ii, ii+1)
}

// RemoveOutput removes v from op's outputs and clears v's producer.
//
// Panics if v is not one of op's outputs. (The original flow compiler this
// is ported from checked membership against the wrong list here; this
// implementation checks against Outputs, as it should.)
func (op *Operation) RemoveOutput(v *Variable) {
	if v.Producer != op {
		exceptions.Panicf("flow: %q is not the producer of %q", op.Name, v.Name)
	}
	oi := slices.Index(op.Outputs, v)
	if oi == -1 {
		exceptions.Panicf("flow: %q is not an output of %q", v.Name, op.Name)
	}
	v.Producer = nil
	op.Outputs = slices.Delete(op.Outputs, oi, oi+1)
}

// MoveInput transfers v from op's inputs to other's inputs, updating v's
// consumer list in place (so relative consumer order elsewhere is
// preserved).
//
// Panics if v is not one of op's inputs.
func (op *Operation) MoveInput(v *Variable, other *Operation) {
	ii := slices.Index(op.Inputs, v)
	if ii == -1 {
		exceptions.Panicf("flow: %q is not an input of %q", v.Name, op.Name)
	}
	op.Inputs = slices.Delete(op.Inputs, ii, ii+1)
	other.Inputs = append(other.Inputs, v)

	ci := slices.Index(v.Consumers, op)
	if ci != -1 {
		v.Consumers[ci] = other
	}
}

// MoveOutput transfers v from op's outputs to other's outputs, updating v's
// producer pointer.
//
// Panics if v is not one of op's outputs, or is not currently produced by
// op.
func (op *Operation) MoveOutput(v *Variable, other *Operation) {
	oi := slices.Index(op.Outputs, v)
	if oi == -1 {
		exceptions.Panicf("flow: %q is not an output of %q", v.Name, op.Name)
	}
	if v.Producer != op {
		exceptions.Panicf("flow: %q is not the producer of %q", op.Name, v.Name)
	}
	op.Outputs = slices.Delete(op.Outputs, oi, oi+1)
	other.Outputs = append(other.Outputs, v)
	v.Producer = other
}
