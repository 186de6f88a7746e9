package hash

import (
	"github.com/pkg/errors"

	"pagestore/buffer"
	"pagestore/page"
)

// ErrFull is returned when an insert cannot proceed because the
// directory has already grown to DirectoryMaxDepth and its buckets are
// still full.
var ErrFull = errors.New("hash: table is at max depth and full")

// Table is an extendible hash table: a directory page plus bucket pages,
// built entirely on the buffer pool's guard API (fixed-size raw byte
// access and new-page allocation). It is proof that the guard contract is
// sufficient for a real index structure, not part of the core contract
// itself.
type Table struct {
	pool      *buffer.Pool
	dirPageID page.ID
}

// New allocates a directory page and one initial bucket, returning a
// ready-to-use Table.
func New(pool *buffer.Pool) (*Table, error) {
	dirID, dirGuard := pool.NewGuarded()
	if dirGuard == nil {
		return nil, errors.New("hash: failed to allocate directory page")
	}
	dir := NewDirectory(dirGuard.Data())
	dir.Init(DirectoryMaxDepth)

	bucketID, bucketGuard := pool.NewGuarded()
	if bucketGuard == nil {
		dirGuard.Drop()
		return nil, errors.New("hash: failed to allocate initial bucket page")
	}
	NewBucket(bucketGuard.Data()).Init()
	dir.SetBucketPageID(0, bucketID)

	dirGuard.MarkDirty()
	bucketGuard.MarkDirty()
	dirGuard.Drop()
	bucketGuard.Drop()

	return &Table{pool: pool, dirPageID: dirID}, nil
}

// Lookup returns the value stored for key, if present.
func (t *Table) Lookup(key string) (page.ID, bool) {
	rg := t.pool.FetchRead(t.dirPageID)
	if rg == nil {
		return page.Invalid, false
	}
	dir := NewDirectory(rg.Data())
	bucketID := dir.GetBucketPageID(dir.HashToBucketIndex(KeyHash(key)))
	rg.Drop()

	brg := t.pool.FetchRead(bucketID)
	if brg == nil {
		return page.Invalid, false
	}
	defer brg.Drop()
	return NewBucket(brg.Data()).Lookup(key)
}

// Delete removes key, returning false if it was absent.
func (t *Table) Delete(key string) bool {
	wg := t.pool.FetchWrite(t.dirPageID)
	if wg == nil {
		return false
	}
	dir := NewDirectory(wg.Data())
	bucketID := dir.GetBucketPageID(dir.HashToBucketIndex(KeyHash(key)))
	wg.Drop()

	bwg := t.pool.FetchWrite(bucketID)
	if bwg == nil {
		return false
	}
	defer bwg.Drop()
	return NewBucket(bwg.Data()).Remove(key)
}

// Insert adds (key, value), splitting the target bucket — doubling the
// directory first if the bucket's local depth has caught up with the
// global depth — as many times as needed to make room. Returns ErrFull
// if the directory is already at DirectoryMaxDepth and splitting cannot
// make room, and an error without splitting if key is already present.
func (t *Table) Insert(key string, value page.ID) error {
	for attempt := 0; attempt < DirectoryMaxDepth+1; attempt++ {
		wg := t.pool.FetchWrite(t.dirPageID)
		if wg == nil {
			return errors.New("hash: failed to fetch directory page")
		}
		dir := NewDirectory(wg.Data())
		idx := dir.HashToBucketIndex(KeyHash(key))
		bucketID := dir.GetBucketPageID(idx)

		bwg := t.pool.FetchWrite(bucketID)
		if bwg == nil {
			wg.Drop()
			return errors.New("hash: failed to fetch bucket page")
		}
		bucket := NewBucket(bwg.Data())

		if bucket.Insert(key, value) {
			bwg.Drop()
			wg.Drop()
			return nil
		}
		if _, dup := bucket.Lookup(key); dup {
			bwg.Drop()
			wg.Drop()
			return errors.Errorf("hash: key %q already present", key)
		}

		// Bucket full: split it.
		if dir.GetLocalDepth(idx) == uint8(dir.GlobalDepth()) {
			if dir.GlobalDepth() == dir.MaxDepth() {
				bwg.Drop()
				wg.Drop()
				return ErrFull
			}
			dir.IncrGlobalDepth()
		}

		newBucketID, newBucketGuard := t.pool.NewGuarded()
		if newBucketGuard == nil {
			bwg.Drop()
			wg.Drop()
			return errors.New("hash: failed to allocate split bucket page")
		}
		newBucket := NewBucket(newBucketGuard.Data())
		newBucket.Init()

		// Every directory slot still aliased to bucketID — not just idx's
		// own split image — shares its old local depth and must be
		// repointed: slots whose index has the newly significant bit set
		// move to the new bucket, the rest stay but adopt the deeper
		// local depth.
		oldLocalDepth := dir.GetLocalDepth(idx)
		newLocalDepth := oldLocalDepth + 1
		splitBit := uint32(1) << oldLocalDepth
		dirSize := dir.Size()
		for i := uint32(0); i < dirSize; i++ {
			if dir.GetBucketPageID(i) != bucketID {
				continue
			}
			dir.SetLocalDepth(i, newLocalDepth)
			if i&splitBit != 0 {
				dir.SetBucketPageID(i, newBucketID)
			}
		}

		entries := bucket.Entries()
		bucket.Init()
		for _, e := range entries {
			if KeyHash(e.Key)&splitBit != 0 {
				newBucket.Insert(e.Key, e.Value)
			} else {
				bucket.Insert(e.Key, e.Value)
			}
		}

		newBucketGuard.MarkDirty()
		newBucketGuard.Drop()
		bwg.Drop()
		wg.Drop()
	}
	return ErrFull
}
