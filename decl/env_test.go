package decl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvShadowingAndAssign(t *testing.T) {
	globals := NewEnv[int](nil)
	globals.Set("a", 1)
	inner := globals.Push()
	inner.Set("a", 2)

	v, ok := inner.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	assert.True(t, inner.Assign("a", 3))
	v, _ = globals.Get("a")
	assert.Equal(t, 1, v, "assign hits the nearest binding")

	assert.False(t, inner.Assign("missing", 1))
	_, ok = inner.Get("missing")
	assert.False(t, ok)
}

func TestEnvDistances(t *testing.T) {
	g := NewEnv[string](nil)
	g.Set("x", "global")
	mid := g.Extend(map[string]string{"x": "mid"})
	leaf := mid.Push()

	v, ok := leaf.GetAt(1, "x")
	assert.True(t, ok)
	assert.Equal(t, "mid", v)
	v, _ = leaf.GetAt(2, "x")
	assert.Equal(t, "global", v)
	_, ok = leaf.GetAt(0, "x")
	assert.False(t, ok, "GetAt never walks past its target")
	_, ok = leaf.GetAt(5, "x")
	assert.False(t, ok)

	assert.True(t, leaf.AssignAt(2, "x", "changed"))
	v, _ = g.Get("x")
	assert.Equal(t, "changed", v)
	assert.False(t, leaf.AssignAt(0, "x", "nope"))

	assert.Same(t, g, leaf.Ancestor(2))
	assert.Nil(t, leaf.Ancestor(3))
}

func TestEnvKeysAndAll(t *testing.T) {
	g := NewEnv[int](nil)
	child := g.Extend(map[string]int{"b": 2, "a": 1})
	g.Set("c", 3)
	assert.Equal(t, []string{"a", "b"}, child.Keys())
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, child.All())
	assert.Nil(t, g.Outer())
	assert.Same(t, g, child.Outer())
}

func TestRangeHelpers(t *testing.T) {
	r := Range{Start: Location{Line: 1, Col: 5}, End: Location{Line: 1, Col: 9}}
	assert.True(t, r.Contains(Location{Line: 1, Col: 5}))
	assert.True(t, r.Contains(Location{Line: 1, Col: 8}))
	assert.False(t, r.Contains(Location{Line: 1, Col: 9}))
	assert.False(t, r.Contains(Location{Line: 2, Col: 1}))

	other := Range{Start: Location{Line: 1, Col: 2}, End: Location{Line: 3, Col: 1}}
	assert.Equal(t, Range{Start: Location{Line: 1, Col: 2}, End: Location{Line: 3, Col: 1}}, Span(r, other))
	assert.Equal(t, "1:5-1:9", r.String())
}
