// Copyright (c) xrfs contributors
// Licensed under the MIT license

//go:build unix

package archive

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mappedRegion is a slice of an mmap'd file. Close unmaps the whole
// underlying mapping; the returned Bytes() slice must not be used after.
type mappedRegion struct {
	full []byte
	lo   int64
	hi   int64
}

func (r *mappedRegion) Bytes() []byte { return r.full[r.lo:r.hi] }

func (r *mappedRegion) Close() error {
	if r.full == nil {
		return nil
	}
	return unix.Munmap(r.full)
}

// mapRegion memory-maps the whole file named by path and returns the
// [offset, offset+size) slice of it. Mapping the whole file sidesteps the
// page-alignment requirement mmap places on the offset argument.
func mapRegion(path string, offset, size int64) (*mappedRegion, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	total := info.Size()
	if offset < 0 || size < 0 || offset+size > total {
		return nil, fmt.Errorf("range [%d,%d) out of bounds for %d-byte file", offset, offset+size, total)
	}
	if total == 0 {
		return &mappedRegion{}, nil
	}

	full, err := unix.Mmap(int(f.Fd()), 0, int(total), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}

	return &mappedRegion{full: full, lo: offset, hi: offset + size}, nil
}
