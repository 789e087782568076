// Copyright (c) xrfs contributors
// Licensed under the MIT license

// Package blockcache caches decompressed archive-entry payloads, keyed by
// the owning archive's index and the entry's byte offset, so re-reading the
// same VirtualFile doesn't repeat an LZO decompression. Grounded on the
// teacher's internal/spinner package, which caches fixed-size blocks with
// go-tinylfu; here each cached value is a whole decompressed entry, sized by
// its own byte length rather than a block count.
package blockcache

import (
	"encoding/binary"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-tinylfu"
)

// Key identifies one archive entry's decompressed payload.
type Key struct {
	ArchiveIndex int
	Offset       int64
}

// Cache holds at most max(budget/16 KiB, 16) entries, the tinylfu capacity
// New derives from the byte budget. The budget itself only rejects a single
// payload larger than the whole budget; the total size of cached payloads
// is tracked in used but not bounded.
type Cache struct {
	lfu    *tinylfu.T[Key, []byte]
	budget int
	used   int
}

// hashKey follows internal/fileid/fileid_linux.go's pattern of writing
// fixed-width fields into an xxhash.Digest rather than hashing a byte slice
// built by hand.
func hashKey(k Key) uint64 {
	var h xxhash.Digest
	binary.Write(&h, binary.BigEndian, int64(k.ArchiveIndex))
	binary.Write(&h, binary.BigEndian, k.Offset)
	return h.Sum64()
}

// New creates a cache bounded by budgetBytes total cached payload size.
// Sample count mirrors the teacher's 10x-capacity rule of thumb from
// spinner.go's tinylfu.New call.
func New(budgetBytes int) *Cache {
	const avgEntrySize = 16 * 1024
	n := max(budgetBytes/avgEntrySize, 16)
	c := &Cache{budget: budgetBytes}
	c.lfu = tinylfu.New[Key, []byte](n, n*10, hashKey, tinylfu.OnEvict(func(_ Key, v []byte) {
		c.used -= len(v)
	}))
	return c
}

// NewFromEnv sizes the cache from XRFS_CACHE_MB (megabytes), generalizing
// the teacher's main.go BEGB environment variable convention to a cache
// budget instead of a hard memory ceiling. Defaults to 256 MiB.
func NewFromEnv() *Cache {
	const defaultMB = 256
	mb := defaultMB
	if e := os.Getenv("XRFS_CACHE_MB"); e != "" {
		if v, err := strconv.Atoi(e); err == nil && v >= 0 {
			mb = v
		}
	}
	return New(mb * 1024 * 1024)
}

// Get returns a cached decompressed payload, if present. The returned slice
// is owned by the cache and must not be mutated by the caller.
func (c *Cache) Get(k Key) ([]byte, bool) {
	return c.lfu.Get(k)
}

// Put stores a decompressed payload. Payloads larger than the whole budget
// are not cached.
func (c *Cache) Put(k Key, v []byte) {
	if len(v) > c.budget {
		return
	}
	c.used += len(v)
	c.lfu.Add(k, v)
}
