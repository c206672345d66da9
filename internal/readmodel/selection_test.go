package readmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionToggle(t *testing.T) {
	sel := NewSelection()

	assert.True(t, sel.Toggle("a"))
	assert.True(t, sel.Toggle("b"))
	assert.Equal(t, []string{"a", "b"}, sel.IDs())

	assert.False(t, sel.Toggle("a"))
	assert.False(t, sel.Contains("a"))
	assert.Equal(t, []string{"b"}, sel.IDs())

	assert.True(t, sel.Toggle("a"))
	assert.Equal(t, []string{"b", "a"}, sel.IDs(), "re-adding goes to the end")
}

func TestSelectionSelectAllReplaces(t *testing.T) {
	sel := NewSelection()
	sel.Toggle("old")

	sel.SelectAll([]string{"a", "b", "c"})
	assert.Equal(t, []string{"a", "b", "c"}, sel.IDs())
	assert.False(t, sel.Contains("old"))
	assert.Equal(t, 3, sel.Len())
}

func TestSelectionPruneIntersectsWithVisible(t *testing.T) {
	sel := NewSelection()
	sel.SelectAll([]string{"a", "b", "c", "d"})

	sel.Prune([]string{"b", "d", "e"})
	assert.Equal(t, []string{"b", "d"}, sel.IDs())
	assert.False(t, sel.Contains("a"))
	assert.False(t, sel.Contains("e"), "prune never adds")
}

func TestSelectionPruneKeepsSelectionOrder(t *testing.T) {
	sel := NewSelection()
	sel.Toggle("c")
	sel.Toggle("a")
	sel.Toggle("b")

	sel.Prune([]string{"a", "b", "c"})
	assert.Equal(t, []string{"c", "a", "b"}, sel.IDs())
}

func TestSelectionClear(t *testing.T) {
	sel := NewSelection()
	sel.SelectAll([]string{"a", "b"})

	sel.Clear()
	assert.Zero(t, sel.Len())
	assert.Empty(t, sel.IDs())
	assert.True(t, sel.Toggle("a"), "usable after clear")
}
