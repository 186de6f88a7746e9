// Package hash implements an extendible hash table built entirely on the
// guard API's fixed-size raw byte access and new-page allocation. Its
// invariants are consumer-level, not part of the core buffer-pool
// contract.
package hash

import "github.com/cespare/xxhash/v2"

// KeyHash reduces an arbitrary key to the 32-bit hash the directory page
// masks against to select a bucket index: hash & ((1<<global_depth)-1)
// selects a bucket.
func KeyHash(key string) uint32 {
	return uint32(xxhash.Sum64String(key))
}
