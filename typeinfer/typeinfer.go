// Package typeinfer implements the type and shape inference pass: a single
// scheduled-order walk over a list of user-supplied Typer plug-ins.
package typeinfer

import (
	"k8s.io/klog/v2"

	"github.com/gomlx/flowc/flow"
	"github.com/gomlx/flowc/types/dtypes"
)

// Typer inspects a single operation and attempts to resolve the dtype and
// shape of any of its variables that are still undefined. It returns true
// iff it resolved something.
type Typer interface {
	InferTypes(op *flow.Operation) bool
}

// Run walks f.Ops in order, skipping any operation with an input lacking a
// concrete type or shape (warning, counted as skipped) and any operation
// whose outputs are already fully resolved. For every other operation it
// invokes typers in order until one reports it handled the operation.
//
// It returns true iff every operation was resolved: none skipped for want
// of an input type, and none left with an unresolved output afterwards.
func Run(f *flow.Flow, typers []Typer) bool {
	ok := true
	for _, op := range f.Ops {
		if !inputsResolved(op) {
			klog.Warningf("typeinfer: skipping operation %q (%s): an input's type or shape is not yet known", op.Name, op.Type)
			ok = false
			continue
		}
		if outputsResolved(op) {
			continue
		}
		for _, typer := range typers {
			if typer.InferTypes(op) {
				break
			}
		}
		if !outputsResolved(op) {
			klog.Warningf("typeinfer: could not resolve types/shapes for operation %q (%s)", op.Name, op.Type)
			ok = false
		}
	}
	return ok
}

func inputsResolved(op *flow.Operation) bool {
	for _, v := range op.Inputs {
		if !varResolved(v) {
			return false
		}
	}
	return true
}

func outputsResolved(op *flow.Operation) bool {
	for _, v := range op.Outputs {
		if !varResolved(v) {
			return false
		}
	}
	return true
}

// varResolved reports whether v's type and shape are known well enough for
// downstream operations to consume it. A partial shape (one with a dynamic
// dimension, e.g. an unknown leading batch size) is resolved; only an
// undefined shape (no dimensions ever set) is not.
func varResolved(v *flow.Variable) bool {
	if v.Type == dtypes.Invalid {
		return false
	}
	return !v.Shape.IsUndefined()
}
