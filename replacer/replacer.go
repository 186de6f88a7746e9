// Package replacer implements the LRU-K eviction policy: per-frame access
// histories, evictability toggling, and victim selection by K-back-distance,
// with an optional access-type weighted variant.
package replacer

import (
	"sync"

	"go.uber.org/atomic"

	"pagestore/page"
)

// Replacer selects the next frame to evict among those marked evictable,
// using the K-back-distance rule. Capacity (numFrames) and history depth
// (k) are fixed at construction.
type Replacer struct {
	mu               sync.Mutex
	nodes            map[page.FrameID]*node
	numFrames        int
	k                int
	weighted         bool
	currSize         int
	currentTimestamp atomic.Uint64
}

// New constructs a Replacer for numFrames frames with history depth k.
// Unweighted K-back-distance is used; see NewWeighted for the access-type
// weighted variant.
func New(numFrames, k int) *Replacer {
	return newReplacer(numFrames, k, false)
}

// NewWeighted constructs a Replacer whose K-back-distance is scaled by
// the access-type weights of the frame's recorded history; since Evict
// takes the largest distance, frames dominated by Lookup traffic are
// evicted sooner.
func NewWeighted(numFrames, k int) *Replacer {
	return newReplacer(numFrames, k, true)
}

func newReplacer(numFrames, k int, weighted bool) *Replacer {
	return &Replacer{
		nodes:     make(map[page.FrameID]*node),
		numFrames: numFrames,
		k:         k,
		weighted:  weighted,
	}
}

// RecordAccess appends an access of the given type to fid's history,
// creating the node on first access. Fails with ErrInvalidArgument if fid
// is out of [0, numFrames).
func (r *Replacer) RecordAccess(fid page.FrameID, accessType AccessType) error {
	if int(fid) < 0 || int(fid) >= r.numFrames {
		return ErrInvalidArgument
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.nodes[fid]
	if !ok {
		n = newNode(r.k)
		r.nodes[fid] = n
	}
	ts := r.currentTimestamp.Add(1) - 1
	n.recordAccess(ts, accessType.weight())
	return nil
}

// SetEvictable toggles fid's evictable flag, adjusting currSize on
// transitions. Fails with ErrInvalidArgument if fid has no recorded node.
func (r *Replacer) SetEvictable(fid page.FrameID, evictable bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.nodes[fid]
	if !ok {
		return ErrInvalidArgument
	}

	if evictable && !n.evictable {
		n.evictable = true
		r.currSize++
	} else if !evictable && n.evictable {
		n.evictable = false
		r.currSize--
	}
	return nil
}

// Remove drops fid's node, requiring it be evictable. A node that is
// absent is a no-op; one that exists but is not evictable fails with
// ErrInvalidArgument: non-evictable removal is a contract violation, not
// a silent size adjustment.
func (r *Replacer) Remove(fid page.FrameID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.nodes[fid]
	if !ok {
		return nil
	}
	if !n.evictable {
		return ErrInvalidArgument
	}

	r.currSize--
	delete(r.nodes, fid)
	return nil
}

// Size returns the count of currently evictable frames.
func (r *Replacer) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currSize
}

// Evict selects and removes a victim frame among evictable nodes by
// K-back-distance: nodes with fewer than k accesses have +∞ distance and
// are preferred, broken by smallest earliest timestamp (classic LRU among
// under-informed frames); otherwise the node with the strictly largest
// finite distance wins, ties broken by smallest FrameID. Returns (0, false)
// if no frame is evictable.
func (r *Replacer) Evict() (page.FrameID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currSize == 0 {
		return 0, false
	}

	var (
		haveInf        bool
		bestInfFid     page.FrameID
		bestInfEarly   uint64
		haveFinite     bool
		bestFiniteFid  page.FrameID
		bestFiniteDist uint64
	)

	now := r.currentTimestamp.Load()
	for fid, n := range r.nodes {
		if !n.evictable {
			continue
		}
		dist := n.kBackDistance(now, r.weighted)
		if dist == infDistance {
			early := n.earliestTimestamp()
			if !haveInf || early < bestInfEarly || (early == bestInfEarly && fid < bestInfFid) {
				haveInf = true
				bestInfFid = fid
				bestInfEarly = early
			}
			continue
		}
		if !haveFinite || dist > bestFiniteDist || (dist == bestFiniteDist && fid < bestFiniteFid) {
			haveFinite = true
			bestFiniteFid = fid
			bestFiniteDist = dist
		}
	}

	var victim page.FrameID
	if haveInf {
		victim = bestInfFid
	} else {
		victim = bestFiniteFid
	}

	delete(r.nodes, victim)
	r.currSize--
	return victim, true
}
