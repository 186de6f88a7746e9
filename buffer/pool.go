// Package buffer implements the buffer pool manager: the frame array, the
// page-id→frame-id directory, the free list, the replacer, and the disk
// scheduler, using an LRU-K replacer and an asynchronous disk scheduler
// rather than a plain access-order slice and synchronous disk calls.
package buffer

import (
	"sync"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"pagestore/disk"
	"pagestore/guard"
	"pagestore/page"
	"pagestore/replacer"
)

// Pool owns every structural piece of the buffer pool core: the frame
// array, the directory, the free list, the replacer, and the disk
// scheduler. A single mutex guards the directory, free list, and
// next-page-id counter; disk I/O is always initiated while not holding
// per-frame latches, to avoid deadlock.
type Pool struct {
	mu sync.Mutex

	frames    []*page.Frame
	directory map[page.ID]page.FrameID
	freeList  []page.FrameID

	replacer   *replacer.Replacer
	scheduler  *disk.Scheduler
	nextPageID atomic.Int64

	log *logrus.Entry

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New constructs a Pool of poolSize frames, an LRU-K replacer with
// history depth k (weighted if weighted is true), and a disk scheduler
// with numWorkers background workers over device.
func New(poolSize, k int, device disk.Device, numWorkers int, weighted bool, log *logrus.Logger) *Pool {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}

	var r *replacer.Replacer
	if weighted {
		r = replacer.NewWeighted(poolSize, k)
	} else {
		r = replacer.New(poolSize, k)
	}

	p := &Pool{
		frames:    make([]*page.Frame, poolSize),
		directory: make(map[page.ID]page.FrameID, poolSize),
		freeList:  make([]page.FrameID, 0, poolSize),
		replacer:  r,
		scheduler: disk.NewScheduler(device, numWorkers, log),
		log:       log.WithField("component", "buffer_pool"),
	}
	for i := 0; i < poolSize; i++ {
		p.frames[i] = page.NewFrame()
		p.freeList = append(p.freeList, page.FrameID(i))
	}
	return p
}

// Close shuts down the underlying disk scheduler. Call once, after all
// callers have released their guards.
func (p *Pool) Close() {
	p.scheduler.Close()
}

// allocatePage returns the next monotonically increasing page id.
// Deallocation is a bookkeeping no-op in this core.
func (p *Pool) allocatePage() page.ID {
	return page.ID(p.nextPageID.Add(1) - 1)
}

// victim returns a frame to repurpose: the free list first, the replacer
// only when the free list is empty. Returns false if both are exhausted.
func (p *Pool) victim() (page.FrameID, bool) {
	if len(p.freeList) > 0 {
		fid := p.freeList[len(p.freeList)-1]
		p.freeList = p.freeList[:len(p.freeList)-1]
		return fid, true
	}
	return p.replacer.Evict()
}

// flushFrame writes a frame's bytes to disk if dirty, via the scheduler,
// waiting for the completion future. Must be called without holding
// p.mu, since disk I/O must not be initiated while holding structural or
// per-frame latches.
func (p *Pool) flushFrame(frame *page.Frame) {
	if !frame.Dirty {
		return
	}
	future := disk.NewFuture()
	p.scheduler.Schedule(disk.Request{
		Direction:  disk.Write,
		Data:       frame.Data,
		PageID:     frame.PageID,
		Completion: future,
	})
	future.Wait()
	frame.Dirty = false
}

// NewPage allocates a fresh page id, binds it to a victim frame (flushing
// the victim first if dirty), zeroes the frame, and returns it pinned
// once. Returns false if no frame is available (all frames pinned and no
// free list slack — capacity exhaustion).
func (p *Pool) NewPage() (page.ID, *page.Frame, bool) {
	p.mu.Lock()

	fid, ok := p.victim()
	if !ok {
		p.mu.Unlock()
		return page.Invalid, nil, false
	}
	frame := p.frames[fid]
	oldID := frame.PageID
	dirty := frame.Dirty
	// Remove the stale directory entry before releasing the latch for
	// I/O, so no concurrent Fetch(oldID) can observe this frame as still
	// resident under its old identity while it is being repurposed.
	if oldID.IsValid() {
		delete(p.directory, oldID)
	}
	p.mu.Unlock()

	// Disk I/O happens with no latch held.
	if dirty {
		p.flushFrame(frame)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.allocatePage()
	frame.Reset()
	frame.PageID = id
	frame.PinCount.Store(1)
	p.directory[id] = fid

	_ = p.replacer.RecordAccess(fid, replacer.Unknown)
	_ = p.replacer.SetEvictable(fid, false)

	p.log.WithFields(logrus.Fields{"page_id": id, "frame_id": fid}).Debug("new page")
	return id, frame, true
}

// Fetch returns the frame holding id, pinning it, loading it from disk
// through the scheduler on a directory miss. Returns false if id is
// absent and no frame is available to service the miss.
func (p *Pool) Fetch(id page.ID, accessType replacer.AccessType) (*page.Frame, bool) {
	p.mu.Lock()

	if fid, ok := p.directory[id]; ok {
		frame := p.frames[fid]
		frame.PinCount.Add(1)
		_ = p.replacer.RecordAccess(fid, accessType)
		_ = p.replacer.SetEvictable(fid, false)
		p.hits.Add(1)
		p.mu.Unlock()
		p.log.WithFields(logrus.Fields{"page_id": id, "frame_id": fid}).Debug("fetch hit")
		return frame, true
	}
	p.misses.Add(1)

	fid, ok := p.victim()
	if !ok {
		p.mu.Unlock()
		return nil, false
	}
	frame := p.frames[fid]
	oldID := frame.PageID
	dirty := frame.Dirty
	if oldID.IsValid() {
		delete(p.directory, oldID)
	}
	p.mu.Unlock()

	if dirty {
		p.flushFrame(frame)
	}

	p.mu.Lock()
	frame.Reset()
	frame.PageID = id
	p.directory[id] = fid
	p.mu.Unlock()

	future := disk.NewFuture()
	p.scheduler.Schedule(disk.Request{
		Direction:  disk.Read,
		Data:       frame.Data,
		PageID:     id,
		Completion: future,
	})
	future.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	frame.PinCount.Add(1)
	_ = p.replacer.RecordAccess(fid, accessType)
	_ = p.replacer.SetEvictable(fid, false)

	p.log.WithFields(logrus.Fields{"page_id": id, "frame_id": fid}).Debug("fetch miss, loaded from disk")
	return frame, true
}

// Unpin decrements id's pin count and ORs in dirtyOnUnpin. Once the pin
// count reaches zero the frame is marked evictable. Returns false if id
// is not resident or already fully unpinned.
func (p *Pool) Unpin(id page.ID, dirtyOnUnpin bool, accessType replacer.AccessType) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	fid, ok := p.directory[id]
	if !ok {
		return false
	}
	frame := p.frames[fid]
	if frame.PinCount.Load() == 0 {
		return false
	}

	remaining := frame.PinCount.Add(-1)
	if dirtyOnUnpin {
		frame.Dirty = true
	}
	if remaining == 0 {
		_ = p.replacer.SetEvictable(fid, true)
	}
	return true
}

// Flush writes id's frame to disk if dirty. Returns false if id is not
// resident.
func (p *Pool) Flush(id page.ID) bool {
	p.mu.Lock()
	fid, ok := p.directory[id]
	if !ok {
		p.mu.Unlock()
		return false
	}
	frame := p.frames[fid]
	p.mu.Unlock()

	p.flushFrame(frame)
	return true
}

// FlushAll flushes every resident dirty page.
func (p *Pool) FlushAll() {
	p.mu.Lock()
	ids := make([]page.ID, 0, len(p.directory))
	for id := range p.directory {
		ids = append(ids, id)
	}
	p.mu.Unlock()

	for _, id := range ids {
		p.Flush(id)
	}
}

// Delete removes id from the pool: a miss is idempotent (true); a pinned
// resident page fails (false); otherwise the frame is zeroed, returned to
// the free list, and the page id deallocated (a no-op bookkeeping step in
// this core).
func (p *Pool) Delete(id page.ID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	fid, ok := p.directory[id]
	if !ok {
		return true
	}
	frame := p.frames[fid]
	if frame.PinCount.Load() > 0 {
		return false
	}

	delete(p.directory, id)
	_ = p.replacer.Remove(fid)
	frame.Reset()
	p.freeList = append(p.freeList, fid)

	p.log.WithFields(logrus.Fields{"page_id": id, "frame_id": fid}).Debug("delete")
	return true
}

// Compile-time check that Pool satisfies guard.Pool, the interface
// guard.NewBasic/NewRead/NewWrite need, letting the guard package
// construct guards without importing buffer.
var _ guard.Pool = (*Pool)(nil)
