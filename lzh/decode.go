// Copyright (c) xrfs contributors
// Licensed under the MIT license

// Package lzh implements the adaptive-Huffman + LZSS decompressor used for
// X-Ray's LZH-compressed chunks. It is a from-scratch Go port of the
// classic lzhuf algorithm (the same family the teacher repo's
// internal/sit/lzah.go pseudocode documents for StuffIt's LZAH format),
// ported to the exact bit layout spec.md §4.1 describes.
package lzh

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Decode reads a 4-byte little-endian uncompressed-size prefix followed by
// an LZH bitstream, and returns the decompressed bytes. It never reads past
// the declared size and never allocates more than that size for the result.
func Decode(r io.Reader) ([]byte, error) {
	var sizeBuf [4]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return nil, fmt.Errorf("lzh: reading size prefix: %w", err)
	}
	textSize := binary.LittleEndian.Uint32(sizeBuf[:])
	if textSize == 0 {
		return []byte{}, nil
	}

	out := make([]byte, 0, textSize)

	var window [windowSize]byte
	for i := range window {
		window[i] = initialFill
	}

	var t tree
	t.startHuff()

	br := newBitReader(r)
	r2 := windowSize - maxMatch

	for len(out) < int(textSize) {
		c := t.decodeChar(br)
		if c < 256 {
			window[r2] = byte(c)
			out = append(out, byte(c))
			r2 = (r2 + 1) & (windowSize - 1)
			continue
		}

		matchLen := c - 256 + threshold + 1
		pos := decodePosition(br)
		srcIdx := (r2 - pos - 1) & (windowSize - 1)

		for k := 0; k < matchLen && len(out) < int(textSize); k++ {
			b := window[srcIdx]
			window[r2] = b
			out = append(out, b)
			r2 = (r2 + 1) & (windowSize - 1)
			srcIdx = (srcIdx + 1) & (windowSize - 1)
		}
	}

	return out, nil
}
