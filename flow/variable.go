package flow

import (
	"slices"

	"github.com/gomlx/flowc/types/dtypes"
	"github.com/gomlx/flowc/types/shapes"
)

// Variable is a named tensor slot in a Flow: a constant, a graph boundary
// variable (input or output), or an intermediate result produced by exactly
// one Operation and consumed by zero or more.
type Variable struct {
	Name    string
	Aliases []string

	Type  dtypes.Type
	Ref   bool // true if this variable holds a pointer to a tensor rather than the tensor itself.
	Shape shapes.Shape

	Size uint64 // byte size of Data, 0 if this is not a constant.
	Data []byte // constant payload, nil unless this variable is a constant.

	In  bool // true if this variable is a graph-boundary input.
	Out bool // true if this variable is a graph-boundary output.

	Producer  *Operation
	Consumers []*Operation
}

// AddAlias appends alias to the variable's alias list unless it is already
// present.
func (v *Variable) AddAlias(alias string) {
	if slices.Contains(v.Aliases, alias) {
		return
	}
	v.Aliases = append(v.Aliases, alias)
}

// DependsOn reports whether op is a transitive ancestor of v: v itself (via
// its producer), or an ancestor of its producer's inputs, and so on.
//
// A variable is considered to depend on its own producer (reflexive at the
// producer edge), matching the property that DependsOn(producer) is always
// true for a variable with a producer.
func (v *Variable) DependsOn(op *Operation) bool {
	visited := make(map[*Operation]bool)
	queue := []*Variable{v}
	for len(queue) > 0 {
		cur := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		producer := cur.Producer
		if producer == nil || visited[producer] {
			continue
		}
		if producer == op {
			return true
		}
		visited[producer] = true
		queue = append(queue, producer.Inputs...)
	}
	return false
}

// TypeString renders the variable's type and shape the way the dumper does,
// e.g. "&float32[2x3]" for a reference variable.
func (v *Variable) TypeString() string {
	s := ""
	if v.Ref {
		s += "&"
	}
	s += v.Type.String()
	if !v.Shape.IsScalar() && !v.Shape.IsUndefined() {
		s += "[" + v.Shape.String() + "]"
	}
	return s
}

// IsConstant reports whether the variable carries a constant payload.
func (v *Variable) IsConstant() bool {
	return v.Data != nil
}
