package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsConsistentHappyPath(t *testing.T) {
	f, _, _, _ := buildChain(t)
	assert.True(t, f.IsConsistent())
}

func TestIsConsistentDetectsMissingProducerLink(t *testing.T) {
	f, _, op, b := buildChain(t)
	// Corrupt the invariant directly: clear producer without going through
	// RemoveOutput, which would keep op.Outputs in sync.
	b.Producer = nil
	_ = op
	assert.False(t, f.IsConsistent())
}

func TestIsConsistentDetectsMissingConsumerEdge(t *testing.T) {
	f, a, _, _ := buildChain(t)
	a.Consumers = nil
	assert.False(t, f.IsConsistent())
}

func TestIsConsistentDetectsBadFunctionBackpointer(t *testing.T) {
	f, _, op, _ := buildChain(t)
	fn := f.AddFunction("main")
	fn.Ops = append(fn.Ops, op) // bypass AddOperation, leaving op.Func nil.
	assert.False(t, f.IsConsistent())
}
