package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyTrieGetMisses(t *testing.T) {
	tr := New()
	assert.True(t, tr.IsEmpty())
	_, ok := tr.Get("anything")
	assert.False(t, ok)
}

func TestPutThenGet(t *testing.T) {
	tr := New().Put("cat", 1).Put("car", 2).Put("cart", 3)

	v, ok := tr.Get("cat")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = tr.Get("car")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	v, ok = tr.Get("cart")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = tr.Get("ca")
	assert.False(t, ok, "prefix with no value stored is absent")
}

func TestPutIsPersistent(t *testing.T) {
	base := New().Put("a", 1)
	updated := base.Put("a", 2)

	v, ok := base.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v, "original snapshot is unaffected by the later Put")

	v, ok = updated.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestPutSharesUntouchedSubtrees(t *testing.T) {
	base := New().Put("apple", 1).Put("apricot", 2)
	updated := base.Put("banana", 3)

	// banana's insertion must not disturb apple/apricot in either trie.
	v, ok := base.Get("apple")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	v, ok = updated.Get("apple")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = base.Get("banana")
	assert.False(t, ok)
	v, ok = updated.Get("banana")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestRemovePrunesDeadNodes(t *testing.T) {
	tr := New().Put("cat", 1)
	removed := tr.Remove("cat")

	assert.True(t, removed.IsEmpty())
	_, ok := removed.Get("cat")
	assert.False(t, ok)

	// Original snapshot is untouched.
	v, ok := tr.Get("cat")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestRemoveKeepsSiblingBranches(t *testing.T) {
	tr := New().Put("cat", 1).Put("car", 2)
	removed := tr.Remove("cat")

	_, ok := removed.Get("cat")
	assert.False(t, ok)
	v, ok := removed.Get("car")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestRemoveKeepsParentValueWhenNodeHasOtherChildren(t *testing.T) {
	tr := New().Put("car", 1).Put("cart", 2)
	removed := tr.Remove("cart")

	v, ok := removed.Get("car")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = removed.Get("cart")
	assert.False(t, ok)
}

func TestRemoveAbsentKeyIsNoOp(t *testing.T) {
	tr := New().Put("cat", 1)
	removed := tr.Remove("dog")

	v, ok := removed.Get("cat")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestEmptyKeyIsAValidSlot(t *testing.T) {
	tr := New().Put("", 42)
	v, ok := tr.Get("")
	require.True(t, ok)
	assert.Equal(t, 42, v)
}
