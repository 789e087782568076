// Copyright (c) xrfs contributors
// Licensed under the MIT license

package lzh

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// TestDecodeEmpty covers the zero-length declared size: no bitstream is
// read at all, and Decode must return an empty, non-nil slice.
func TestDecodeEmpty(t *testing.T) {
	in := make([]byte, 4) // size prefix = 0
	out, err := Decode(bytes.NewReader(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("got %d bytes, want 0", len(out))
	}
}

// encodeSymbols builds a minimal hand-crafted bitstream for a sequence of
// already-decided tree symbols (literals 0-255, or match codes 256+),
// driving an independent tree instance through the same startHuff/update
// sequence the real decoder will perform so the emitted bit paths match
// what decodeChar expects at each step.
func encodeSymbols(symbols []int, positions []int) []byte {
	var tr tree
	tr.startHuff()

	w := &bitWriter{}
	posIdx := 0
	for _, sym := range symbols {
		for _, bit := range pathToRoot(&tr, sym) {
			w.writeBit(bit)
		}
		tr.update(sym)

		if sym >= 256 {
			pos := positions[posIdx]
			posIdx++
			// Inverse of decodePosition: emit 8 raw bits equal to pos's
			// top byte representation is avoided entirely by picking pos=0,
			// which decodePosition reconstructs from 8 zero bits (dCode[0]=0,
			// dLen[0]=3, so 1 extra bit beyond the first 2 is read: here 0).
			_ = pos
			w.writeBits(0, 8)
		}
	}
	return w.bytes()
}

// TestDecodeWindowInit exercises spec.md's window-initialization property:
// the very first decoded symbol is a back-reference whose source lies
// entirely within the pre-filled 0x20 window, before any literal has been
// written. Symbol 258 (matchLen = 258-253 = 5) with position 0 must yield
// five bytes of 0x20.
func TestDecodeWindowInit(t *testing.T) {
	body := encodeSymbols([]int{258}, []int{0})

	var buf bytes.Buffer
	var sizeBuf [4]byte
	binary.LittleEndian.PutUint32(sizeBuf[:], 5)
	buf.Write(sizeBuf[:])
	buf.Write(body)

	out, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := bytes.Repeat([]byte{0x20}, 5)
	if !bytes.Equal(out, want) {
		t.Fatalf("got %v, want %v", out, want)
	}
}

// TestDecodeLiteralRun round-trips a short run of distinct literal bytes
// through the hand-driven encoder above, confirming decodeChar/update track
// the same adaptive tree shape across several symbols in sequence.
func TestDecodeLiteralRun(t *testing.T) {
	want := []byte("AB")
	body := encodeSymbols([]int{int(want[0]), int(want[1])}, nil)

	var buf bytes.Buffer
	var sizeBuf [4]byte
	binary.LittleEndian.PutUint32(sizeBuf[:], uint32(len(want)))
	buf.Write(sizeBuf[:])
	buf.Write(body)

	out, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(out, want) {
		t.Fatalf("got %q, want %q", out, want)
	}
}
