package replacer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagestore/page"
)

func TestEvictPrefersUnderAccessedFrames(t *testing.T) {
	r := New(4, 2)

	// Frame 0 accessed twice (fully informed, finite distance).
	require.NoError(t, r.RecordAccess(0, Unknown))
	require.NoError(t, r.RecordAccess(0, Unknown))
	require.NoError(t, r.SetEvictable(0, true))

	// Frame 1 accessed once (+inf distance): should be preferred.
	require.NoError(t, r.RecordAccess(1, Unknown))
	require.NoError(t, r.SetEvictable(1, true))

	fid, ok := r.Evict()
	require.True(t, ok)
	assert.Equal(t, page.FrameID(1), fid)
}

func TestEvictInfDistanceTieBreaksByEarliestTimestamp(t *testing.T) {
	r := New(4, 2)

	require.NoError(t, r.RecordAccess(0, Unknown)) // timestamp 0
	require.NoError(t, r.SetEvictable(0, true))
	require.NoError(t, r.RecordAccess(1, Unknown)) // timestamp 1
	require.NoError(t, r.SetEvictable(1, true))

	fid, ok := r.Evict()
	require.True(t, ok)
	assert.Equal(t, page.FrameID(0), fid, "frame with the earliest single access evicts first")
}

func TestEvictFiniteDistancePrefersLargest(t *testing.T) {
	r := New(4, 2)

	// Frame 0: four accesses (timestamps 0-3); history keeps 2 and 3, so
	// its K-back-distance at timestamp 6 is 6-2 = 4.
	require.NoError(t, r.RecordAccess(0, Unknown))
	require.NoError(t, r.RecordAccess(0, Unknown))
	require.NoError(t, r.RecordAccess(0, Unknown))
	require.NoError(t, r.RecordAccess(0, Unknown))

	// Frame 1: accesses at timestamps 4 and 5 -> distance 6-4 = 2.
	require.NoError(t, r.RecordAccess(1, Unknown))
	require.NoError(t, r.RecordAccess(1, Unknown))

	require.NoError(t, r.SetEvictable(0, true))
	require.NoError(t, r.SetEvictable(1, true))

	fid, ok := r.Evict()
	require.True(t, ok)
	assert.Equal(t, page.FrameID(0), fid)
}

func TestSetEvictableTogglesSize(t *testing.T) {
	r := New(4, 2)
	require.NoError(t, r.RecordAccess(0, Unknown))
	assert.Equal(t, 0, r.Size())

	require.NoError(t, r.SetEvictable(0, true))
	assert.Equal(t, 1, r.Size())

	require.NoError(t, r.SetEvictable(0, false))
	assert.Equal(t, 0, r.Size())
}

func TestRemoveRequiresEvictable(t *testing.T) {
	r := New(4, 2)
	require.NoError(t, r.RecordAccess(0, Unknown))

	err := r.Remove(0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	require.NoError(t, r.SetEvictable(0, true))
	require.NoError(t, r.Remove(0))
	assert.Equal(t, 0, r.Size())
}

func TestRemoveAbsentFrameIsNoOp(t *testing.T) {
	r := New(4, 2)
	assert.NoError(t, r.Remove(3))
}

func TestRecordAccessRejectsOutOfRangeFrame(t *testing.T) {
	r := New(4, 2)
	assert.ErrorIs(t, r.RecordAccess(-1, Unknown), ErrInvalidArgument)
	assert.ErrorIs(t, r.RecordAccess(4, Unknown), ErrInvalidArgument)
}

func TestSetEvictableRejectsUnknownFrame(t *testing.T) {
	r := New(4, 2)
	assert.ErrorIs(t, r.SetEvictable(0, true), ErrInvalidArgument)
}

func TestEvictReturnsFalseWhenNothingEvictable(t *testing.T) {
	r := New(4, 2)
	_, ok := r.Evict()
	assert.False(t, ok)

	require.NoError(t, r.RecordAccess(0, Unknown))
	_, ok = r.Evict()
	assert.False(t, ok, "node exists but is not evictable")
}

func TestWeightedDistanceFavorsExpensiveAccessTypes(t *testing.T) {
	r := NewWeighted(4, 2)

	// Frame 0: two Lookup accesses (weight 3 each) -> scaled distance larger.
	require.NoError(t, r.RecordAccess(0, Lookup))
	require.NoError(t, r.RecordAccess(0, Lookup))
	require.NoError(t, r.SetEvictable(0, true))

	// Frame 1: two Unknown accesses (weight 1 each), same timestamps shape.
	require.NoError(t, r.RecordAccess(1, Unknown))
	require.NoError(t, r.RecordAccess(1, Unknown))
	require.NoError(t, r.SetEvictable(1, true))

	// At timestamp 4, frame 0's weighted distance is (4-0)*6/2 = 12 and
	// frame 1's is (4-2)*2/2 = 2; Evict takes the larger, frame 0.
	fid, ok := r.Evict()
	require.True(t, ok)
	assert.Equal(t, page.FrameID(0), fid)
}
