package guard

import "pagestore/page"

// Read holds a Basic guard plus a shared latch on the underlying page.
// Multiple Read guards may coexist over the same already-pinned frame
// ("read-guard stacking"); each NewRead call still acquires its own
// RLock, which is reentrant-safe under Go's sync.RWMutex for distinct
// goroutines holding distinct guard values.
type Read struct {
	basic *Basic
}

// NewRead wraps an already-pinned frame, acquiring its shared latch
// during construction (never after), matching the latch-before-pin
// ordering applied on drop.
func NewRead(pool Pool, frame *page.Frame) *Read {
	frame.Latch.RLock()
	return &Read{basic: NewBasic(pool, frame)}
}

// IsValid reports whether the guard still holds a frame.
func (g *Read) IsValid() bool { return g.basic != nil && g.basic.IsValid() }

// PageID returns the guarded page's id.
func (g *Read) PageID() page.ID { return g.basic.PageID() }

// Data returns the frame's raw bytes for read-only access.
func (g *Read) Data() []byte { return g.basic.Data() }

// Drop releases the shared latch, then the pin. Latch release precedes
// pin release. Idempotent.
func (g *Read) Drop() {
	if g.basic == nil || !g.basic.IsValid() {
		return
	}
	frame := g.basic.frame
	frame.Latch.RUnlock()
	g.basic.Drop()
}
