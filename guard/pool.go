// Package guard implements scoped page handles: Basic, Read, and Write
// guards that bind a buffer pool pin — and, for Read/Write, a page latch
// — to a lexical scope. Go has no move/borrow discipline to enforce
// exclusive ownership at compile time, so it is simulated here with an
// explicit Move operation that drains the source guard, and a nil frame
// pointer marking a drained guard, checked by the idempotent Drop.
package guard

import (
	"pagestore/page"
	"pagestore/replacer"
)

// Pool is the subset of the buffer pool manager a guard needs to release
// its pin on drop. Defined here (rather than importing the buffer
// package) so buffer can depend on guard without a cycle.
type Pool interface {
	Unpin(id page.ID, dirty bool, accessType replacer.AccessType) bool
}
