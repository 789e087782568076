// Copyright (c) xrfs contributors
// Licensed under the MIT license

// Package headercache is an on-disk store of raw archive header-chunk
// bytes, keyed by path, size and modification time. vfs.Options can carry
// a Cache, but the vfs scan neither reads from nor writes to it: every
// archive's header chunk is read from the archive file itself. Grounded
// on the teacher's prefetch.go persistent-cache idea (keyed by path
// identity, checked for staleness before trusting a hit), adapted from its
// sqlite/database-sql backend to pebble, the KV store already in this
// module's dependency graph.
package headercache

import (
	"encoding/binary"
	"fmt"

	"github.com/cockroachdb/pebble/v2"
)

// Cache wraps a pebble database storing raw header-chunk bytes keyed by a
// fingerprint of (canonical path, file size, modification time).
type Cache struct {
	db *pebble.DB
}

// Open opens (creating if necessary) a header cache at dir.
func Open(dir string) (*Cache, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("headercache: opening %s: %w", dir, err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

func key(path string, size, mtimeUnixNano int64) []byte {
	b := make([]byte, 0, len(path)+16+1)
	b = append(b, byte(len(path)))
	b = append(b, path...)
	b = binary.LittleEndian.AppendUint64(b, uint64(size))
	b = binary.LittleEndian.AppendUint64(b, uint64(mtimeUnixNano))
	return b
}

// Get returns the cached header bytes for path/size/mtime, if present. A
// miss includes both "never cached" and "stale" (different size or mtime),
// since both are encoded into the key.
func (c *Cache) Get(path string, size, mtimeUnixNano int64) ([]byte, bool) {
	v, closer, err := c.db.Get(key(path, size, mtimeUnixNano))
	if err != nil {
		return nil, false
	}
	defer closer.Close()
	out := make([]byte, len(v))
	copy(out, v)
	return out, true
}

// Put stores header for later lookups keyed by path/size/mtime.
func (c *Cache) Put(path string, size, mtimeUnixNano int64, header []byte) error {
	return c.db.Set(key(path, size, mtimeUnixNano), header, pebble.Sync)
}
