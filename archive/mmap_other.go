// Copyright (c) xrfs contributors
// Licensed under the MIT license

//go:build !unix

package archive

import (
	"fmt"
	"os"
)

// mappedRegion on non-unix platforms falls back to a plain ReadAt: no mmap
// syscall is available through golang.org/x/sys/unix there.
type mappedRegion struct {
	buf []byte
}

func (r *mappedRegion) Bytes() []byte { return r.buf }
func (r *mappedRegion) Close() error  { return nil }

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
	if offset < 0 || size < 0 || offset+size > info.Size() {
		return nil, fmt.Errorf("range [%d,%d) out of bounds for %d-byte file", offset, offset+size, info.Size())
	}

	buf := make([]byte, size)
	if _, err := f.ReadAt(buf, offset); err != nil {
		return nil, err
	}
	return &mappedRegion{buf: buf}, nil
}
