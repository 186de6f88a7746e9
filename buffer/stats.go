package buffer

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"pagestore/page"
)

// Stats summarizes the pool's current occupancy, extended with a
// hit-rate computed from running hit/miss counters.
type Stats struct {
	TotalPages  int
	PinnedPages int
	DirtyPages  int
	Capacity    int
	HitRate     float64
}

// Stats snapshots pool occupancy and hit rate. Taking the pool latch
// briefly to enumerate frames; individual PinCount reads are atomic so no
// per-frame latch is needed.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	s := Stats{TotalPages: len(p.directory), Capacity: len(p.frames)}
	for id := range p.directory {
		fid := p.directory[id]
		frame := p.frames[fid]
		if frame.Pin() > 0 {
			s.PinnedPages++
		}
		if frame.Dirty {
			s.DirtyPages++
		}
	}
	p.mu.Unlock()

	hits, misses := p.hits.Load(), p.misses.Load()
	if total := hits + misses; total > 0 {
		s.HitRate = float64(hits) / float64(total)
	}
	return s
}

// String renders a one-line operator summary, using humanize to present
// resident-byte size the way an operator-facing stats line would.
func (s Stats) String() string {
	bytes := uint64(s.TotalPages) * uint64(page.Size)
	return fmt.Sprintf("pages=%d/%d pinned=%d dirty=%d hit_rate=%.2f%% resident=%s",
		s.TotalPages, s.Capacity, s.PinnedPages, s.DirtyPages, s.HitRate*100, humanize.Bytes(bytes))
}
