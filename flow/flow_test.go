package flow

import (
	"testing"

	"github.com/gomlx/flowc/types/dtypes"
	"github.com/gomlx/flowc/types/shapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildChain(t *testing.T) (*Flow, *Variable, *Operation, *Variable) {
	f := New(8)
	a := f.AddVariable("a", dtypes.Float32, shapes.Make(4))
	op := f.AddOperation("square", "Square")
	b := f.AddVariable("b", dtypes.Float32, shapes.Make(4))
	op.AddInput(a)
	op.AddOutput(b)
	require.True(t, f.IsConsistent())
	return f, a, op, b
}

func TestAddInputOutput(t *testing.T) {
	f, a, op, b := buildChain(t)
	assert.Equal(t, []*Operation{op}, a.Consumers)
	assert.Same(t, op, b.Producer)
	assert.True(t, op.IsInput(a))
	assert.True(t, op.IsOutput(b))
	assert.False(t, op.IsInput(b))
	_ = f
}

func TestAddOutputPanicsOnExistingProducer(t *testing.T) {
	f := New(0)
	v := f.AddVariable("v", dtypes.Float32, shapes.Scalar())
	op1 := f.AddOperation("op1", "Foo")
	op2 := f.AddOperation("op2", "Bar")
	op1.AddOutput(v)
	assert.Panics(t, func() { op2.AddOutput(v) })
}

func TestRemoveInputOutput(t *testing.T) {
	_, a, op, b := buildChain(t)
	op.RemoveInput(a)
	assert.Empty(t, a.Consumers)
	assert.Empty(t, op.Inputs)

	op.RemoveOutput(b)
	assert.Nil(t, b.Producer)
	assert.Empty(t, op.Outputs)
}

func TestRemoveOutputFailsFastOnNonOutput(t *testing.T) {
	f := New(0)
	v := f.AddVariable("v", dtypes.Float32, shapes.Scalar())
	notProducer := f.AddOperation("notProducer", "Foo")
	assert.Panics(t, func() { notProducer.RemoveOutput(v) })
}

func TestRemoveInputFailsFastOnNonInput(t *testing.T) {
	f := New(0)
	v := f.AddVariable("v", dtypes.Float32, shapes.Scalar())
	op := f.AddOperation("op", "Foo")
	assert.Panics(t, func() { op.RemoveInput(v) })
}

func TestMoveInput(t *testing.T) {
	f, a, op, _ := buildChain(t)
	other := f.AddOperation("other", "Other")
	op.MoveInput(a, other)
	assert.Empty(t, op.Inputs)
	assert.Equal(t, []*Variable{a}, other.Inputs)
	assert.Equal(t, []*Operation{other}, a.Consumers)
}

func TestMoveOutput(t *testing.T) {
	f, _, op, b := buildChain(t)
	other := f.AddOperation("other", "Other")
	op.MoveOutput(b, other)
	assert.Empty(t, op.Outputs)
	assert.Equal(t, []*Variable{b}, other.Outputs)
	assert.Same(t, other, b.Producer)
}

func TestDependsOn(t *testing.T) {
	f := New(0)
	a := f.AddVariable("a", dtypes.Float32, shapes.Scalar())
	op1 := f.AddOperation("op1", "Op1")
	b := f.AddVariable("b", dtypes.Float32, shapes.Scalar())
	op1.AddInput(a)
	op1.AddOutput(b)

	op2 := f.AddOperation("op2", "Op2")
	c := f.AddVariable("c", dtypes.Float32, shapes.Scalar())
	op2.AddInput(b)
	op2.AddOutput(c)

	assert.True(t, c.DependsOn(op2))
	assert.True(t, c.DependsOn(op1))
	assert.False(t, b.DependsOn(op2))
	assert.False(t, a.DependsOn(op1))
}

func TestDeleteVariableAndOperation(t *testing.T) {
	f, a, op, b := buildChain(t)
	op.RemoveInput(a)
	op.RemoveOutput(b)
	f.DeleteVariable(a)
	f.DeleteVariable(b)
	f.DeleteOperation(op)
	assert.Empty(t, f.Vars)
	assert.Empty(t, f.Ops)
}

func TestFunctionMembership(t *testing.T) {
	f := New(0)
	fn := f.AddFunction("main")
	op := f.AddOperation("op", "Foo")
	fn.AddOperation(op)
	assert.Same(t, fn, op.Func)
	assert.Panics(t, func() { fn.AddOperation(op) })

	fn.RemoveOperation(op)
	assert.Nil(t, op.Func)
	assert.Empty(t, fn.Ops)
}

func TestConnector(t *testing.T) {
	f := New(0)
	a := f.AddVariable("a", dtypes.Float32, shapes.Scalar())
	b := f.AddVariable("b", dtypes.Float32, shapes.Scalar())
	c := f.AddConnector("loop")
	c.AddLink(a)
	c.AddLink(a) // no duplicate.
	assert.Equal(t, []*Variable{a}, c.Links)

	assert.True(t, c.ReplaceLink(a, b))
	assert.Equal(t, []*Variable{b}, c.Links)
	assert.False(t, c.RemoveLink(a))
}

func TestVarOpFuncLookup(t *testing.T) {
	f, a, op, _ := buildChain(t)
	a.AddAlias("alpha")
	assert.Same(t, a, f.Var("a"))
	assert.Same(t, a, f.Var("alpha"))
	assert.Nil(t, f.Var("nope"))
	assert.Same(t, op, f.Op("square"))
	assert.Nil(t, f.Func("nope"))
}
