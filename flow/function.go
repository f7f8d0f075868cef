package flow

import (
	"slices"

	"github.com/gomlx/exceptions"
)

// Function is a named subset of a Flow's operations intended to execute as
// a unit.
type Function struct {
	Name string
	Ops  []*Operation
}

// AddOperation appends op to the function and sets op.Func to point back to
// it.
//
// Panics if op already belongs to a function.
func (f *Function) AddOperation(op *Operation) {
	if op.Func != nil {
		exceptions.Panicf("flow: operation %q already belongs to function %q", op.Name, op.Func.Name)
	}
	op.Func = f
	f.Ops = append(f.Ops, op)
}

// RemoveOperation removes op from the function's operation list and clears
// op.Func.
func (f *Function) RemoveOperation(op *Operation) {
	i := slices.Index(f.Ops, op)
	if i == -1 {
		exceptions.Panicf("flow: operation %q does not belong to function %q", op.Name, f.Name)
	}
	f.Ops = slices.Delete(f.Ops, i, i+1)
	op.Func = nil
}
