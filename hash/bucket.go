package hash

import (
	"encoding/binary"

	"pagestore/page"
)

const (
	bucketHeaderSize = 4  // uint32 entry count
	bucketKeyCap     = 23 // truncation limit for stored keys
	bucketSlotSize   = 1 + bucketKeyCap + 8

	// BucketCapacity is the number of (key, value) slots a single bucket
	// page holds, sized to fit page.Size bytes alongside the header.
	BucketCapacity = (page.Size - bucketHeaderSize) / bucketSlotSize
)

// Bucket is a view over a page's raw bytes holding up to BucketCapacity
// (key, PageID) entries — the leaf data a Directory entry points at.
// Like Directory, the consumer-level layout here is not part of the core
// contract; only the guard API beneath it is.
type Bucket struct {
	buf []byte
}

func NewBucket(buf []byte) *Bucket {
	if len(buf) != page.Size {
		panic("hash: bucket buffer must be page.Size bytes")
	}
	return &Bucket{buf: buf}
}

func (b *Bucket) Init() {
	binary.LittleEndian.PutUint32(b.buf, 0)
}

func (b *Bucket) Size() uint32 {
	return binary.LittleEndian.Uint32(b.buf)
}

func (b *Bucket) setSize(n uint32) {
	binary.LittleEndian.PutUint32(b.buf, n)
}

func (b *Bucket) IsFull() bool { return b.Size() >= BucketCapacity }

func (b *Bucket) slotOffset(i uint32) int {
	return bucketHeaderSize + int(i)*bucketSlotSize
}

func truncateKey(key string) []byte {
	k := []byte(key)
	if len(k) > bucketKeyCap {
		k = k[:bucketKeyCap]
	}
	return k
}

func (b *Bucket) readSlot(i uint32) (keyLen byte, key []byte, value page.ID) {
	off := b.slotOffset(i)
	keyLen = b.buf[off]
	key = b.buf[off+1 : off+1+int(keyLen)]
	value = page.ID(binary.LittleEndian.Uint64(b.buf[off+1+bucketKeyCap:]))
	return
}

func (b *Bucket) writeSlot(i uint32, key []byte, value page.ID) {
	off := b.slotOffset(i)
	b.buf[off] = byte(len(key))
	copy(b.buf[off+1:off+1+bucketKeyCap], make([]byte, bucketKeyCap))
	copy(b.buf[off+1:off+1+len(key)], key)
	binary.LittleEndian.PutUint64(b.buf[off+1+bucketKeyCap:], uint64(value))
}

// Lookup returns the value stored for key, truncated to bucketKeyCap
// bytes before comparison.
func (b *Bucket) Lookup(key string) (page.ID, bool) {
	k := truncateKey(key)
	n := b.Size()
	for i := uint32(0); i < n; i++ {
		keyLen, sk, v := b.readSlot(i)
		if int(keyLen) == len(k) && string(sk) == string(k) {
			return v, true
		}
	}
	return page.Invalid, false
}

// Insert adds (key, value), failing if the key already exists or the
// bucket is full.
func (b *Bucket) Insert(key string, value page.ID) bool {
	if _, ok := b.Lookup(key); ok {
		return false
	}
	if b.IsFull() {
		return false
	}
	k := truncateKey(key)
	n := b.Size()
	b.writeSlot(n, k, value)
	b.setSize(n + 1)
	return true
}

// Remove deletes key's entry, compacting the slot array to keep entries
// contiguous. Returns false if key is absent.
func (b *Bucket) Remove(key string) bool {
	k := truncateKey(key)
	n := b.Size()
	for i := uint32(0); i < n; i++ {
		keyLen, sk, v := b.readSlot(i)
		if int(keyLen) == len(k) && string(sk) == string(k) {
			for j := i; j < n-1; j++ {
				_, nk, nv := b.readSlot(j + 1)
				b.writeSlot(j, nk, nv)
			}
			b.setSize(n - 1)
			return true
		}
		_ = v
	}
	return false
}

// Entries returns every (key, value) pair currently stored, used when
// redistributing entries across a split's two bucket images.
func (b *Bucket) Entries() []struct {
	Key   string
	Value page.ID
} {
	n := b.Size()
	out := make([]struct {
		Key   string
		Value page.ID
	}, 0, n)
	for i := uint32(0); i < n; i++ {
		_, k, v := b.readSlot(i)
		out = append(out, struct {
			Key   string
			Value page.ID
		}{Key: string(k), Value: v})
	}
	return out
}
