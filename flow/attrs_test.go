package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttributesGetSet(t *testing.T) {
	var a Attributes
	_, found := a.Get("x")
	assert.False(t, found)
	assert.False(t, a.Has("x"))

	a.Set("x", "1")
	v, found := a.Get("x")
	assert.True(t, found)
	assert.Equal(t, "1", v)

	a.Set("x", "2") // overwrite in place.
	assert.Len(t, a, 1)
	v, _ = a.Get("x")
	assert.Equal(t, "2", v)

	a.Set("y", "hello")
	assert.Len(t, a, 2)
}

func TestAttributesGetBool(t *testing.T) {
	var a Attributes
	assert.True(t, a.GetBool("missing", true))
	a.SetBool("flag", true)
	assert.True(t, a.GetBool("flag", false))
	a.SetBool("flag", false)
	assert.False(t, a.GetBool("flag", true))
}

func TestAttributesGetInt(t *testing.T) {
	var a Attributes
	assert.Equal(t, 42, a.GetInt("missing", 42))
	a.SetInt("n", 7)
	assert.Equal(t, 7, a.GetInt("n", 0))
	a.Set("bad", "not-a-number")
	assert.Equal(t, -1, a.GetInt("bad", -1))
}

func TestAttributesClone(t *testing.T) {
	var a Attributes
	a.Set("x", "1")
	b := a.Clone()
	b.Set("x", "2")
	v, _ := a.Get("x")
	assert.Equal(t, "1", v, "clone must be independent of the original")

	var nilAttrs Attributes
	assert.Nil(t, nilAttrs.Clone())
}
