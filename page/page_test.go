package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFrame(t *testing.T) {
	f := NewFrame()
	assert.Len(t, f.Data, Size)
	assert.Equal(t, Invalid, f.PageID)
	assert.Equal(t, int64(0), f.Pin())
	assert.False(t, f.Dirty)
}

func TestFrameReset(t *testing.T) {
	f := NewFrame()
	f.PageID = ID(7)
	f.Dirty = true
	f.PinCount.Store(3)
	f.Data[0] = 0xFF

	f.Reset()

	assert.Equal(t, Invalid, f.PageID)
	assert.False(t, f.Dirty)
	assert.Equal(t, int64(0), f.Pin())
	for _, b := range f.Data {
		assert.Equal(t, byte(0), b)
	}
}

func TestIDIsValid(t *testing.T) {
	assert.False(t, Invalid.IsValid())
	assert.True(t, ID(0).IsValid())
	assert.True(t, ID(42).IsValid())
}

func TestRWLatch(t *testing.T) {
	var l RWLatch
	l.Lock()
	l.Unlock()
	l.RLock()
	l.RLock()
	l.RUnlock()
	l.RUnlock()
}
