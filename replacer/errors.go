package replacer

import "github.com/pkg/errors"

// ErrInvalidArgument is returned for contract violations: an out-of-range
// FrameID passed to RecordAccess, an unknown FrameID passed to
// SetEvictable, or a Remove of a frame that is not evictable.
var ErrInvalidArgument = errors.New("replacer: invalid argument")
