package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomlx/flowc/flow"
	"github.com/gomlx/flowc/types/dtypes"
	"github.com/gomlx/flowc/types/shapes"
)

func scalarVar(f *flow.Flow, name string) *flow.Variable {
	return f.AddVariable(name, dtypes.Float32, shapes.Scalar())
}

// TestParallelScheduling builds A -> B (task=1) -> D, with C an independent
// source also feeding D, and checks the priority assignment and resulting
// order.
func TestParallelScheduling(t *testing.T) {
	f := flow.New(0)
	opA := f.AddOperation("A", "Source")
	a1 := scalarVar(f, "a1")
	opA.AddOutput(a1)

	opB := f.AddOperation("B", "Work")
	opB.Task = 1
	b1 := scalarVar(f, "b1")
	opB.AddInput(a1)
	opB.AddOutput(b1)

	opC := f.AddOperation("C", "Source")
	c1 := scalarVar(f, "c1")
	opC.AddOutput(c1)

	opD := f.AddOperation("D", "Join")
	opD.AddInput(a1)
	opD.AddInput(b1)
	opD.AddInput(c1)

	require.NoError(t, Run(f))

	assert.Equal(t, int32(4), opA.Priority)
	assert.Equal(t, int32(2), opB.Priority)
	assert.Equal(t, int32(3), opC.Priority)
	assert.Equal(t, int32(1), opD.Priority)

	assert.Less(t, opA.Order, opB.Order)
	assert.Less(t, opB.Order, opD.Order)
	assert.Less(t, opC.Order, opD.Order)
	assert.Equal(t, int32(3), opD.Order, "D must be scheduled last")
}

func TestCycleDetection(t *testing.T) {
	f := flow.New(0)
	opA := f.AddOperation("A", "Foo")
	opB := f.AddOperation("B", "Bar")
	v1 := scalarVar(f, "v1") // produced by A, consumed by B.
	v2 := scalarVar(f, "v2") // produced by B, consumed by A: closes the cycle.
	opA.AddOutput(v1)
	opB.AddInput(v1)
	opB.AddOutput(v2)
	opA.AddInput(v2)

	err := Run(f)
	assert.Error(t, err)
}

// TestScheduleRespectsDataflow verifies that every op is ordered after the
// producer of each of its inputs.
func TestScheduleRespectsDataflow(t *testing.T) {
	f := flow.New(0)
	a := scalarVar(f, "a")
	op1 := f.AddOperation("op1", "Foo")
	b := scalarVar(f, "b")
	op1.AddInput(a)
	op1.AddOutput(b)

	op2 := f.AddOperation("op2", "Bar")
	c := scalarVar(f, "c")
	op2.AddInput(b)
	op2.AddOutput(c)

	require.NoError(t, Run(f))
	assert.Less(t, op1.Order, op2.Order)
}

// TestScheduleSortsFunctionOpsByOrder verifies that a function's operation
// list ends up sorted by schedule order, regardless of registration order.
func TestScheduleSortsFunctionOpsByOrder(t *testing.T) {
	f := flow.New(0)
	a := scalarVar(f, "a")
	op1 := f.AddOperation("op1", "Foo")
	b := scalarVar(f, "b")
	op1.AddInput(a)
	op1.AddOutput(b)

	op2 := f.AddOperation("op2", "Bar")
	c := scalarVar(f, "c")
	op2.AddInput(b)
	op2.AddOutput(c)

	fn := f.AddFunction("main")
	// Register in reverse topological order; Run must re-sort them.
	fn.AddOperation(op2)
	fn.AddOperation(op1)

	require.NoError(t, Run(f))
	require.Len(t, fn.Ops, 2)
	assert.Same(t, op1, fn.Ops[0])
	assert.Same(t, op2, fn.Ops[1])
}

func TestSchedulePrependsSourcelessVariables(t *testing.T) {
	f := flow.New(0)
	boundaryInput := scalarVar(f, "x") // no producer.
	op := f.AddOperation("op", "Foo")
	out := scalarVar(f, "y")
	op.AddInput(boundaryInput)
	op.AddOutput(out)

	require.NoError(t, Run(f))
	require.Len(t, f.Vars, 2)
	assert.Same(t, boundaryInput, f.Vars[0])
	assert.Same(t, out, f.Vars[1])
}
