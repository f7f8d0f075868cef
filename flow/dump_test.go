package flow

import (
	"testing"

	"github.com/gomlx/flowc/types/dtypes"
	"github.com/gomlx/flowc/types/shapes"
	"github.com/stretchr/testify/assert"
)

func TestDumpContainsVarsOpsFuncs(t *testing.T) {
	f, a, op, b := buildChain(t)
	fn := f.AddFunction("main")
	fn.AddOperation(op)
	op.Attrs.Set("note", "short")

	out := f.String()
	assert.Contains(t, out, "var a : float32[4] {")
	assert.Contains(t, out, "op square : Square {")
	assert.Contains(t, out, "func main {")
	assert.Contains(t, out, "note = short")
	assert.Contains(t, out, "to square")
	assert.Contains(t, out, "from square")
	_ = a
	_ = b
}

func TestDumpElidesLongAttributes(t *testing.T) {
	f := New(0)
	op := f.AddOperation("op", "Foo")
	long := make([]byte, maxAttrBytes+1)
	op.Attrs.Set("blob", string(long))
	out := f.String()
	assert.Contains(t, out, "blob = <<129 bytes>>")
}

func TestVariableTypeString(t *testing.T) {
	v := &Variable{Type: dtypes.Float32, Shape: shapes.Make(2, 3)}
	assert.Equal(t, "float32[2x3]", v.TypeString())
	v.Ref = true
	assert.Equal(t, "&float32[2x3]", v.TypeString())

	scalar := &Variable{Type: dtypes.Int32, Shape: shapes.Scalar()}
	assert.Equal(t, "int32", scalar.TypeString())
}
