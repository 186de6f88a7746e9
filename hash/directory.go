package hash

import (
	"encoding/binary"

	"pagestore/page"
)

// DirectoryMaxDepth bounds how deep a directory can grow; ArraySize is
// the fixed-length local-depths/bucket-page-ids array — two arrays, each
// of length 2^max_depth — sized so the whole directory fits inside a
// single page.Size buffer.
const (
	DirectoryMaxDepth = 7
	ArraySize         = 1 << DirectoryMaxDepth
)

const (
	offMaxDepth    = 0
	offGlobalDepth = 4
	offLocalDepths = 8
	offBucketIDs   = offLocalDepths + ArraySize
	directoryBytes = offBucketIDs + ArraySize*8
)

func init() {
	if directoryBytes > page.Size {
		panic("hash: directory layout exceeds page size")
	}
}

// Directory is a view over a page's raw bytes storing max_depth,
// global_depth, and the local-depths/bucket-page-ids arrays. It does not
// own the bytes; callers obtain them from a guard.Write/guard.Basic and
// pass them in, matching "fixed-size raw byte access via guards" as the
// core's only consumer-facing surface.
type Directory struct {
	buf []byte
}

// NewDirectory wraps buf, which must be exactly page.Size bytes (as
// returned by a guard's Data()).
func NewDirectory(buf []byte) *Directory {
	if len(buf) != page.Size {
		panic("hash: directory buffer must be page.Size bytes")
	}
	return &Directory{buf: buf}
}

// Init zeroes the directory to global_depth=0, one bucket slot, all
// bucket page ids invalid.
func (d *Directory) Init(maxDepth uint32) {
	binary.LittleEndian.PutUint32(d.buf[offMaxDepth:], maxDepth)
	binary.LittleEndian.PutUint32(d.buf[offGlobalDepth:], 0)
	invalidID := page.Invalid
	for i := 0; i < ArraySize; i++ {
		d.buf[offLocalDepths+i] = 0
		binary.LittleEndian.PutUint64(d.buf[offBucketIDs+i*8:], uint64(invalidID))
	}
}

func (d *Directory) MaxDepth() uint32 {
	return binary.LittleEndian.Uint32(d.buf[offMaxDepth:])
}

func (d *Directory) GlobalDepth() uint32 {
	return binary.LittleEndian.Uint32(d.buf[offGlobalDepth:])
}

func (d *Directory) setGlobalDepth(v uint32) {
	binary.LittleEndian.PutUint32(d.buf[offGlobalDepth:], v)
}

// Size returns 2^global_depth, the number of directory slots in use.
func (d *Directory) Size() uint32 { return 1 << d.GlobalDepth() }

// MaxSize returns 2^max_depth, the directory's hard capacity.
func (d *Directory) MaxSize() uint32 { return 1 << d.MaxDepth() }

// GlobalDepthMask returns (1<<global_depth)-1.
func (d *Directory) GlobalDepthMask() uint32 { return (1 << d.GlobalDepth()) - 1 }

// LocalDepthMask returns (1<<local_depth(bucketIdx))-1.
func (d *Directory) LocalDepthMask(bucketIdx uint32) uint32 {
	return (1 << uint32(d.GetLocalDepth(bucketIdx))) - 1
}

// HashToBucketIndex selects a bucket: hash & ((1<<global_depth)-1).
func (d *Directory) HashToBucketIndex(hash uint32) uint32 {
	return hash & d.GlobalDepthMask()
}

func (d *Directory) GetBucketPageID(bucketIdx uint32) page.ID {
	return page.ID(binary.LittleEndian.Uint64(d.buf[offBucketIDs+bucketIdx*8:]))
}

func (d *Directory) SetBucketPageID(bucketIdx uint32, id page.ID) {
	binary.LittleEndian.PutUint64(d.buf[offBucketIDs+bucketIdx*8:], uint64(id))
}

// GetSplitImageIndex returns the index of bucketIdx's split image: flip
// only the newly significant bit, bucketIdx XOR (1<<(local_depth-1)).
// Callers must invoke this after bucketIdx's local depth has already
// been incremented for the split in progress.
func (d *Directory) GetSplitImageIndex(bucketIdx uint32) uint32 {
	localDepth := d.GetLocalDepth(bucketIdx)
	return bucketIdx ^ (1 << (localDepth - 1))
}

func (d *Directory) GetLocalDepth(bucketIdx uint32) uint8 {
	return d.buf[offLocalDepths+bucketIdx]
}

func (d *Directory) SetLocalDepth(bucketIdx uint32, depth uint8) {
	d.buf[offLocalDepths+bucketIdx] = depth
}

func (d *Directory) IncrLocalDepth(bucketIdx uint32) {
	d.buf[offLocalDepths+bucketIdx]++
}

func (d *Directory) DecrLocalDepth(bucketIdx uint32) {
	d.buf[offLocalDepths+bucketIdx]--
}

// IncrGlobalDepth doubles the directory, duplicating every slot's bucket
// page id and local depth into its mirror half. A no-op once
// global_depth has reached max_depth.
func (d *Directory) IncrGlobalDepth() {
	if d.GlobalDepth() == d.MaxDepth() {
		return
	}
	size := d.Size()
	for i := uint32(0); i < size; i++ {
		d.SetBucketPageID(i+size, d.GetBucketPageID(i))
		d.SetLocalDepth(i+size, d.GetLocalDepth(i))
	}
	d.setGlobalDepth(d.GlobalDepth() + 1)
}

// CanShrink reports whether every occupied bucket's local depth is
// strictly less than global_depth: the directory can shrink iff each
// paired bucket at distance 2^(global_depth-1) shares the same bucket
// page id and local depth, equivalently no bucket is still using the
// full global depth.
func (d *Directory) CanShrink() bool {
	if d.GlobalDepth() == 0 {
		return false
	}
	size := d.Size()
	for i := uint32(0); i < size; i++ {
		if d.GetLocalDepth(i) == uint8(d.GlobalDepth()) {
			return false
		}
	}
	return true
}

// DecrGlobalDepth halves the directory if CanShrink, discarding the
// upper half's slots. A no-op otherwise.
func (d *Directory) DecrGlobalDepth() {
	if !d.CanShrink() {
		return
	}
	newSize := uint32(1) << (d.GlobalDepth() - 1)
	size := d.Size()
	for i := newSize; i < size; i++ {
		d.SetBucketPageID(i, page.Invalid)
		d.SetLocalDepth(i, 0)
	}
	d.setGlobalDepth(d.GlobalDepth() - 1)
}
