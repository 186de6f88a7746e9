package guard

import "pagestore/page"

// Write holds a Basic guard plus an exclusive latch on the underlying
// page. On Drop it marks the page dirty before releasing, since holding
// a Write guard is itself evidence the page may have been mutated.
type Write struct {
	basic *Basic
}

// NewWrite wraps an already-pinned frame, acquiring its exclusive latch
// during construction (never after).
func NewWrite(pool Pool, frame *page.Frame) *Write {
	frame.Latch.Lock()
	return &Write{basic: NewBasic(pool, frame)}
}

// IsValid reports whether the guard still holds a frame.
func (g *Write) IsValid() bool { return g.basic != nil && g.basic.IsValid() }

// PageID returns the guarded page's id.
func (g *Write) PageID() page.ID { return g.basic.PageID() }

// Data returns the frame's raw bytes for mutation.
func (g *Write) Data() []byte { return g.basic.Data() }

// Drop marks the guard dirty, releases the exclusive latch, then the
// pin. Idempotent.
func (g *Write) Drop() {
	if g.basic == nil || !g.basic.IsValid() {
		return
	}
	frame := g.basic.frame
	g.basic.dirty = true
	frame.Latch.Unlock()
	g.basic.Drop()
}
