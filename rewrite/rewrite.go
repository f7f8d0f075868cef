// Package rewrite implements the pattern-based graph rewriting pass: no-op
// elimination, pairwise operation fusion, and user-supplied Transformer
// plug-ins, all driven to a fixed point.
package rewrite

import (
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/flowc/flow"
	"github.com/gomlx/flowc/types/dtypes"
	"github.com/gomlx/flowc/typeinfer"
)

// Transformer is a user-supplied rewrite plug-in. It may add, delete,
// retype, or rewire entities, and must preserve the flow's invariants. It
// returns true iff it changed anything.
type Transformer interface {
	Transform(f *flow.Flow) bool
}

// Combination declares a pairwise fusion rule: every op of type First
// feeding, as its sole output, an op of type Second is fused into a single
// op of type Combined.
type Combination struct {
	First    string
	Second   string
	Combined string
}

// Transformations bundles the rewrite rules and type inference plug-ins
// that drive one Analyze pass.
type Transformations struct {
	// Noops lists operation type names to eliminate unconditionally.
	Noops []string
	// Combinations lists pairwise fusion rules, applied in order.
	Combinations []Combination
	// Transformers are user plug-ins, each invoked once per outer iteration.
	Transformers []Transformer
	// Typers are consulted by the type inference pass (see the typeinfer
	// package); carried here because they are part of the same
	// user-supplied bundle the original flow compiler threads through
	// Analyze.
	Typers []typeinfer.Typer
}

// Run drives Eliminate, Combine and the user Transformers to a fixed point:
// it keeps looping until a full pass makes no change.
func Run(f *flow.Flow, t *Transformations) {
	again := true
	for again {
		again = false

		var noops []*flow.Operation
		for _, opType := range t.Noops {
			for _, op := range f.Ops {
				if op.Type == opType {
					noops = append(noops, op)
				}
			}
		}
		for _, op := range noops {
			Eliminate(f, op)
			again = true
		}

		for _, c := range t.Combinations {
			if Combine(f, c.First, c.Second, c.Combined) {
				again = true
			}
		}

		for _, transformer := range t.Transformers {
			if transformer.Transform(f) {
				again = true
			}
		}
	}
}

// Eliminate removes a declared no-op operation from the flow.
//
// If op has inputs, it must have exactly one input and one output; every
// consumer of the output is rewired to consume the input instead, the
// output's aliases and boundary flags are merged onto the input, and the
// output variable is deleted. If op has no inputs, its outputs simply lose
// their producer (they are not deleted — see the module's design notes on
// this case) and op is deleted.
func Eliminate(f *flow.Flow, op *flow.Operation) {
	if len(op.Inputs) > 0 {
		if len(op.Inputs) != 1 || len(op.Outputs) != 1 {
			exceptions.Panicf("rewrite: no-op %q must have exactly one input and one output to be eliminated, got %d inputs and %d outputs", op.Name, len(op.Inputs), len(op.Outputs))
		}
		in := op.Inputs[0]
		out := op.Outputs[0]

		typeInvalid := in.Type == dtypes.Invalid || out.Type == dtypes.Invalid
		if !typeInvalid && in.Type != out.Type {
			exceptions.Panicf("rewrite: no-op %q input %q and output %q have incompatible types %s and %s", op.Name, in.Name, out.Name, in.Type, out.Type)
		}
		if !in.Shape.IsUndefined() && !out.Shape.IsUndefined() && !in.Shape.Equal(out.Shape) {
			exceptions.Panicf("rewrite: no-op %q input %q and output %q have incompatible shapes %s and %s", op.Name, in.Name, out.Name, in.Shape, out.Shape)
		}

		if out.In {
			in.In = true
		}
		if out.Out {
			in.Out = true
		}

		for _, target := range f.Ops {
			for i, tv := range target.Inputs {
				if tv == out {
					target.Inputs[i] = in
				}
			}
		}

		if ci := slices.Index(in.Consumers, op); ci != -1 {
			in.Consumers = slices.Delete(in.Consumers, ci, ci+1)
		}
		in.Consumers = append(in.Consumers, out.Consumers...)

		in.AddAlias(out.Name)
		for _, alias := range out.Aliases {
			in.AddAlias(alias)
		}

		for _, c := range f.Connectors {
			c.ReplaceLink(out, in)
		}

		f.DeleteVariable(out)
	} else {
		for _, out := range op.Outputs {
			out.Producer = nil
		}
	}

	f.DeleteOperation(op)
}

// Combine finds every op of type first with exactly one output consumed
// solely by an op of type second on the same task, and fuses each such pair
// into a single op of type combined. It returns true iff at least one pair
// was fused.
func Combine(f *flow.Flow, first, second, combined string) bool {
	again := false
	// Collect the matches first, then mutate: the loop body deletes operations, which
	// would otherwise invalidate iteration over f.Ops mid-scan.
	var matches []*flow.Operation
	for _, op := range f.Ops {
		if op.Type != first {
			continue
		}
		if len(op.Outputs) != 1 {
			continue
		}
		v := op.Outputs[0]
		if len(v.Consumers) != 1 {
			continue
		}
		if v.Consumers[0].Type != second {
			continue
		}
		if v.Consumers[0].Task != op.Task {
			continue
		}
		matches = append(matches, op)
	}
	for _, op := range matches {
		// op may have been mutated by an earlier fusion in this same batch
		// (e.g. absorbed as someone else's second half); re-check it is
		// still a valid match before fusing.
		if len(op.Outputs) != 1 {
			continue
		}
		v := op.Outputs[0]
		if len(v.Consumers) != 1 || v.Consumers[0].Type != second {
			continue
		}
		Fuse(f, op, v.Consumers[0], combined, true)
		again = true
	}
	return again
}

// Fuse merges second into first, retyping first to combined and deleting
// second. See the module documentation for the precise input/output
// transfer rules.
func Fuse(f *flow.Flow, first, second *flow.Operation, combined string, mergeInputs bool) *flow.Operation {
	for len(second.Inputs) > 0 {
		v := second.Inputs[0]
		switch {
		case mergeInputs && first.IsInput(v):
			second.RemoveInput(v)
		case first.IsOutput(v):
			second.RemoveInput(v)
			if len(v.Consumers) == 0 {
				first.RemoveOutput(v)
				f.DeleteVariable(v)
				for _, c := range f.Connectors {
					c.RemoveLink(v)
				}
			}
		default:
			second.MoveInput(v, first)
		}
	}

	for len(second.Outputs) > 0 {
		w := second.Outputs[0]
		switch {
		case first.IsInput(w):
			if len(w.Consumers) == 1 {
				first.RemoveInput(w)
				second.RemoveOutput(w)
				f.DeleteVariable(w)
				for _, c := range f.Connectors {
					c.RemoveLink(w)
				}
			} else {
				first.RemoveInput(w)
				second.MoveOutput(w, first)
			}
		case first.IsOutput(w):
			second.RemoveOutput(w)
		default:
			second.MoveOutput(w, first)
		}
	}

	first.Type = combined
	for _, attr := range second.Attrs {
		if !first.Attrs.Has(attr.Name) {
			first.Attrs.Set(attr.Name, attr.Value)
		}
	}

	f.DeleteOperation(second)
	return first
}

// Find locates every operation matching the backward chain of types given
// in ops (ops[len(ops)-1] is the op type to match first, then each
// preceding entry must match the producer of that op's first input, and so
// on). It panics if ops is empty.
func Find(f *flow.Flow, ops []string) []*flow.Operation {
	if len(ops) == 0 {
		exceptions.Panicf("rewrite: Find requires at least one operation type")
	}
	last := ops[len(ops)-1]
	var matches []*flow.Operation
	for _, op := range f.Ops {
		if op.Type != last {
			continue
		}
		current := op
		match := true
		for i := len(ops) - 2; i >= 0; i-- {
			if len(current.Inputs) == 0 {
				match = false
				break
			}
			current = current.Inputs[0].Producer
			if current == nil || current.Type != ops[i] {
				match = false
				break
			}
		}
		if match {
			matches = append(matches, op)
		}
	}
	return matches
}
