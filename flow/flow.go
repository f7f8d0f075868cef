// Package flow implements the core in-memory intermediate representation of
// a tensor computation: a typed dataflow graph of Variables, Operations,
// Functions and Connectors, owned exclusively by a Flow.
//
// A Flow is the only place these entities are created or destroyed —
// Variable.Producer, Operation.Func and every other cross-entity pointer
// stays valid only as long as the owning Flow is alive, and only until a
// rewrite deletes the entity it points to.
package flow

import (
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/flowc/types/dtypes"
	"github.com/gomlx/flowc/types/shapes"
)

// Flow is the top-level container for one compilation unit's IR: it owns
// every Variable, Operation, Function and Connector, plus the arena of raw
// byte buffers backing constant Variable.Data slices.
type Flow struct {
	Vars       []*Variable
	Ops        []*Operation
	Funcs      []*Function
	Connectors []*Connector

	// BatchSize substitutes for a leading dimension of -1 when loading a
	// binary IR file (see load.go).
	BatchSize int

	arena [][]byte
}

// New returns an empty Flow with the given default batch size.
func New(batchSize int) *Flow {
	return &Flow{BatchSize: batchSize}
}

// allocate claims a byte buffer of size bytes owned by the flow's arena,
// used to hold constant Variable.Data payloads loaded from a binary IR file.
func (f *Flow) allocate(size int) []byte {
	buf := make([]byte, size)
	f.arena = append(f.arena, buf)
	return buf
}

// AddVariable creates a new Variable owned by the flow.
func (f *Flow) AddVariable(name string, dtype dtypes.Type, shape shapes.Shape) *Variable {
	v := &Variable{Name: name, Type: dtype, Shape: shape}
	f.Vars = append(f.Vars, v)
	return v
}

// AddOperation creates a new, unattached Operation owned by the flow.
func (f *Flow) AddOperation(name, opType string) *Operation {
	op := &Operation{Name: name, Type: opType}
	f.Ops = append(f.Ops, op)
	return op
}

// AddOperationToFunc creates a new Operation, owned by the flow and attached
// to fn, optionally wiring up inputs and outputs.
func (f *Flow) AddOperationToFunc(fn *Function, name, opType string, inputs, outputs []*Variable) *Operation {
	op := f.AddOperation(name, opType)
	fn.AddOperation(op)
	for _, in := range inputs {
		op.AddInput(in)
	}
	for _, out := range outputs {
		op.AddOutput(out)
	}
	return op
}

// AddFunction creates a new, empty Function owned by the flow.
func (f *Flow) AddFunction(name string) *Function {
	fn := &Function{Name: name}
	f.Funcs = append(f.Funcs, fn)
	return fn
}

// AddConnector creates a new, empty Connector owned by the flow.
func (f *Flow) AddConnector(name string) *Connector {
	c := &Connector{Name: name}
	f.Connectors = append(f.Connectors, c)
	return c
}

// DeleteVariable removes v from the flow's variable list.
//
// It does not clear any dangling producer/consumer edges pointing at v —
// callers must have cleared those first (e.g. via RemoveInput/RemoveOutput).
func (f *Flow) DeleteVariable(v *Variable) {
	i := slices.Index(f.Vars, v)
	if i == -1 {
		exceptions.Panicf("flow: variable %q is not owned by this flow", v.Name)
	}
	f.Vars = slices.Delete(f.Vars, i, i+1)
}

// DeleteOperation removes op from the flow's operation list, and from its
// function's operation list if it belongs to one.
//
// It does not clear any dangling edges to op's inputs/outputs — callers
// must have cleared those first.
func (f *Flow) DeleteOperation(op *Operation) {
	if op.Func != nil {
		op.Func.RemoveOperation(op)
	}
	i := slices.Index(f.Ops, op)
	if i == -1 {
		exceptions.Panicf("flow: operation %q is not owned by this flow", op.Name)
	}
	f.Ops = slices.Delete(f.Ops, i, i+1)
}

// Var looks up a variable by name or alias. Returns nil on a miss.
func (f *Flow) Var(name string) *Variable {
	for _, v := range f.Vars {
		if v.Name == name || slices.Contains(v.Aliases, name) {
			return v
		}
	}
	return nil
}

// Op looks up an operation by name. Returns nil on a miss.
func (f *Flow) Op(name string) *Operation {
	for _, op := range f.Ops {
		if op.Name == name {
			return op
		}
	}
	return nil
}

// Func looks up a function by name. Returns nil on a miss.
func (f *Flow) Func(name string) *Function {
	for _, fn := range f.Funcs {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}
