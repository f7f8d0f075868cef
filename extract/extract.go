// Package extract implements subgraph extraction: cloning the reachable
// ancestors of a set of output variables, stopping at a set of input
// variables, into a destination Flow.
package extract

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gomlx/flowc/flow"
)

// Subgraph clones every variable and operation reachable backwards from the
// variables in outputs, stopping at (but including) the variables in
// inputs, into a new function named name in dst.
//
// It returns the new function and the clones of every requested input and
// output variable, in the order given.
func Subgraph(dst *flow.Flow, name string, inputs, outputs []*flow.Variable) (*flow.Function, []*flow.Variable, []*flow.Variable) {
	cut := make(map[*flow.Variable]bool, len(inputs))
	for _, v := range inputs {
		cut[v] = true
	}

	fn := dst.AddFunction(name)
	varmap := make(map[*flow.Variable]*flow.Variable)
	opmap := make(map[*flow.Operation]*flow.Operation)

	// visitedOps records the order operations were first cloned in, so the
	// wiring pass below can rebuild each clone's Inputs/Outputs by walking
	// the *original* op's Inputs/Outputs slices in their original order,
	// rather than in the order the backward worklist happened to visit
	// their variables — and without ranging over opmap, whose Go map
	// iteration order is randomized.
	var visitedOps []*flow.Operation

	var worklist []*flow.Variable
	worklist = append(worklist, outputs...)
	for len(worklist) > 0 {
		v := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if _, cloned := varmap[v]; cloned {
			continue
		}
		varmap[v] = cloneVariable(dst, v)

		if cut[v] {
			continue
		}
		if v.Producer == nil {
			continue
		}
		op := v.Producer
		if _, cloned := opmap[op]; cloned {
			continue
		}
		opClone := dst.AddOperation(op.Name, op.Type)
		opClone.Attrs = op.Attrs.Clone()
		opClone.Task = op.Task
		opClone.Priority = 3
		fn.AddOperation(opClone)
		opmap[op] = opClone
		visitedOps = append(visitedOps, op)

		worklist = append(worklist, op.Inputs...)
		worklist = append(worklist, op.Outputs...)
	}

	for _, orig := range visitedOps {
		opClone := opmap[orig]
		for _, in := range orig.Inputs {
			if inClone, ok := varmap[in]; ok {
				opClone.AddInput(inClone)
			}
		}
		for _, out := range orig.Outputs {
			if outClone, ok := varmap[out]; ok {
				opClone.AddOutput(outClone)
			}
		}
	}

	inClones := make([]*flow.Variable, len(inputs))
	for i, v := range inputs {
		inClones[i] = varmap[v]
	}
	outClones := make([]*flow.Variable, len(outputs))
	for i, v := range outputs {
		outClones[i] = varmap[v]
	}
	return fn, inClones, outClones
}

// cloneVariable copies v's value fields (not its producer/consumer edges,
// which are wired up separately once every variable has been cloned) into a
// new Variable owned by dst.
func cloneVariable(dst *flow.Flow, v *flow.Variable) *flow.Variable {
	clone := dst.AddVariable(v.Name, v.Type, v.Shape.Clone())
	clone.Ref = v.Ref
	clone.In = v.In
	clone.Out = v.Out
	clone.Aliases = append([]string(nil), v.Aliases...)
	clone.Size = v.Size
	clone.Data = v.Data
	return clone
}

// UniqueName returns a name suitable for a function produced by Subgraph
// when the caller has no natural name to give it, guaranteeing no collision
// across repeated extractions from the same flow.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}
