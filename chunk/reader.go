// Copyright (c) xrfs contributors
// Licensed under the MIT license

// Package chunk reads the typed-chunk container format used by X-Ray
// archive files: a flat sequence of { u32 type, u32 size, payload } records,
// where the top bit of type marks an LZH-compressed payload.
package chunk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/openxray/xrfs/lzh"
)

// compressFlag marks a chunk's payload as LZH-compressed; the chunk's
// identity is the type field with this bit masked off.
const compressFlag = 0x80000000

// ErrChunkNotFound is returned when the reader reaches end-of-file while
// scanning for a chunk of the requested id: the caller relies on the chunk
// existing, so running out of records is itself an error, not a miss.
var ErrChunkNotFound = errors.New("chunk: end of stream before matching chunk")

// Open scans r for a chunk record whose masked type equals id and returns
// its payload, LZH-decompressing it first if the compression flag was set.
// Records that don't match are skipped by discarding their payload bytes.
func Open(r io.Reader, id uint32) ([]byte, error) {
	var hdr [8]byte
	for {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if err == io.ErrUnexpectedEOF || err == io.EOF {
				return nil, fmt.Errorf("chunk: scanning for id %d: %w", id, ErrChunkNotFound)
			}
			return nil, fmt.Errorf("chunk: reading record header: %w", err)
		}

		typ := binary.LittleEndian.Uint32(hdr[0:4])
		size := binary.LittleEndian.Uint32(hdr[4:8])
		compressed := typ&compressFlag != 0
		masked := typ &^ compressFlag

		if masked != id {
			if _, err := io.CopyN(io.Discard, r, int64(size)); err != nil {
				return nil, fmt.Errorf("chunk: skipping payload for type %d: %w", masked, err)
			}
			continue
		}

		payload := make([]byte, size)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, fmt.Errorf("chunk: reading payload for id %d: %w", id, err)
		}

		if !compressed {
			return payload, nil
		}

		out, err := lzh.Decode(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("chunk: decompressing id %d: %w", id, err)
		}
		return out, nil
	}
}
