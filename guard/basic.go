package guard

import (
	"pagestore/page"
	"pagestore/replacer"
)

// Basic is the exclusive-ownership scoped handle holding a pin on a
// cached frame, with no latch. Never copy a *Basic; transfer ownership
// with Move. A Basic is null (IsValid reports false) exactly after being
// moved-from or explicitly dropped.
type Basic struct {
	pool   Pool
	frame  *page.Frame
	pageID page.ID
	dirty  bool
}

// NewBasic wraps an already-pinned frame in a Basic guard. pool.Fetch or
// pool.NewPage must have already incremented the frame's pin count;
// NewBasic does not pin.
func NewBasic(pool Pool, frame *page.Frame) *Basic {
	return &Basic{pool: pool, frame: frame, pageID: frame.PageID}
}

// IsValid reports whether the guard still holds a frame.
func (g *Basic) IsValid() bool { return g.frame != nil }

// PageID returns the guarded page's id, or page.Invalid once the guard is
// drained by Drop or Move.
func (g *Basic) PageID() page.ID { return g.pageID }

// Data returns the frame's raw bytes. Callers are responsible for their
// own synchronization when using Basic directly instead of Read/Write;
// Basic carries no latch.
func (g *Basic) Data() []byte { return g.frame.Data }

// MarkDirty flags the underlying frame dirty, to be applied on Unpin at
// Drop time.
func (g *Basic) MarkDirty() { g.dirty = true }

// Move transfers ownership to a new *Basic and drains the receiver
// (simulating a C++ move-constructor, since Go has no move semantics to
// enforce this at compile time). After Move, g is drained: dropping it
// is a no-op.
func (g *Basic) Move() *Basic {
	moved := &Basic{pool: g.pool, frame: g.frame, pageID: g.pageID, dirty: g.dirty}
	g.drainNoUnpin()
	return moved
}

// drainNoUnpin clears the guard's claim without unpinning, used by Move
// and by UpgradeRead/UpgradeWrite which hand the pin off to a latched
// guard rather than release it.
func (g *Basic) drainNoUnpin() {
	g.pool = nil
	g.frame = nil
	g.pageID = page.Invalid
}

// Drop releases the pin if the guard still holds a frame, then drains
// it. Idempotent: calling Drop twice, or on a moved-from guard, is a
// no-op.
func (g *Basic) Drop() {
	if g.frame == nil {
		return
	}
	pool, pageID, dirty := g.pool, g.pageID, g.dirty
	g.drainNoUnpin()
	pool.Unpin(pageID, dirty, replacer.Unknown)
}

// UpgradeRead hands the pin off to a new Read guard without a second pin
// acquisition, acquiring the page's shared latch as part of the upgrade.
// g is drained afterward.
func (g *Basic) UpgradeRead() *Read {
	frame, pool, pageID, dirty := g.frame, g.pool, g.pageID, g.dirty
	g.drainNoUnpin()
	frame.Latch.RLock()
	return &Read{basic: &Basic{pool: pool, frame: frame, pageID: pageID, dirty: dirty}}
}

// UpgradeWrite hands the pin off to a new Write guard without a second
// pin acquisition, acquiring the page's exclusive latch as part of the
// upgrade. g is drained afterward.
func (g *Basic) UpgradeWrite() *Write {
	frame, pool, pageID, dirty := g.frame, g.pool, g.pageID, g.dirty
	g.drainNoUnpin()
	frame.Latch.Lock()
	return &Write{basic: &Basic{pool: pool, frame: frame, pageID: pageID, dirty: dirty}}
}
