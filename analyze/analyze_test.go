package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomlx/flowc/flow"
	"github.com/gomlx/flowc/rewrite"
	"github.com/gomlx/flowc/types/dtypes"
	"github.com/gomlx/flowc/types/shapes"
)

// TestAnalyzeEliminatesIdentity builds a -> Identity -> b -> Square -> c,
// with Identity declared a no-op, and checks that it's spliced out.
func TestAnalyzeEliminatesIdentity(t *testing.T) {
	f := flow.New(0)
	a := f.AddVariable("a", dtypes.Float32, shapes.Make(4))
	id := f.AddOperation("id", "Identity")
	b := f.AddVariable("b", dtypes.Float32, shapes.Make(4))
	id.AddInput(a)
	id.AddOutput(b)

	square := f.AddOperation("square", "Square")
	c := f.AddVariable("c", dtypes.Float32, shapes.Make(4))
	square.AddInput(b)
	square.AddOutput(c)

	_, err := Run(f, &rewrite.Transformations{Noops: []string{"Identity"}})
	require.NoError(t, err)

	require.Len(t, f.Ops, 1)
	assert.Same(t, square, f.Ops[0])
	assert.Equal(t, []*flow.Variable{a}, square.Inputs)
	assert.Same(t, square, c.Producer)
	assert.Contains(t, a.Aliases, "b")
	assert.True(t, f.IsConsistent())
}

// TestAnalyzeFusesMatMulAdd checks that a MatMul feeding a single Add gets
// fused into one combined operation with both ops' non-shared inputs.
func TestAnalyzeFusesMatMulAdd(t *testing.T) {
	f := flow.New(0)
	x := f.AddVariable("x", dtypes.Float32, shapes.Make(4))
	w := f.AddVariable("w", dtypes.Float32, shapes.Make(4, 4))
	matmul := f.AddOperation("matmul", "MatMul")
	m := f.AddVariable("m", dtypes.Float32, shapes.Make(4))
	matmul.AddInput(x)
	matmul.AddInput(w)
	matmul.AddOutput(m)

	bias := f.AddVariable("bias", dtypes.Float32, shapes.Make(4))
	add := f.AddOperation("add", "Add")
	y := f.AddVariable("y", dtypes.Float32, shapes.Make(4))
	add.AddInput(m)
	add.AddInput(bias)
	add.AddOutput(y)

	_, err := Run(f, &rewrite.Transformations{
		Combinations: []rewrite.Combination{{First: "MatMul", Second: "Add", Combined: "MatMulAdd"}},
	})
	require.NoError(t, err)

	require.Len(t, f.Ops, 1)
	fused := f.Ops[0]
	assert.Equal(t, "MatMulAdd", fused.Type)
	assert.ElementsMatch(t, []*flow.Variable{x, w, bias}, fused.Inputs)
	assert.Nil(t, f.Var("m"), "m must be deleted once fused")
	assert.True(t, f.IsConsistent())
}

func TestAnalyzeReturnsScheduleError(t *testing.T) {
	f := flow.New(0)
	opA := f.AddOperation("A", "Foo")
	opB := f.AddOperation("B", "Bar")
	v1 := f.AddVariable("v1", dtypes.Float32, shapes.Scalar())
	v2 := f.AddVariable("v2", dtypes.Float32, shapes.Scalar())
	opA.AddOutput(v1)
	opB.AddInput(v1)
	opB.AddOutput(v2)
	opA.AddInput(v2)

	_, err := Run(f, &rewrite.Transformations{})
	assert.Error(t, err)
}
