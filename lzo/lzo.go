// Copyright (c) xrfs contributors
// Licensed under the MIT license

// Package lzo implements an LZO1X decompressor for X-Ray archive entry
// payloads. Ported from the reference implementation retrieved alongside
// this spec (github.com/woozymasta/lzo), with the instruction-marker
// constants, options type, and back-reference copier it depended on but did
// not itself define filled in here.
package lzo

import (
	"errors"
)

// Instruction markers select which of the three back-reference encodings
// (or the literal-run/zero-distance terminator forms) a given opcode byte
// uses. Thresholds are checked highest-first, so a byte only matches markerM2
// if it is strictly too large to be markerM3 or markerM4.
const (
	markerM4 = 0x10
	markerM3 = 0x20
	markerM2 = 0x40
)

// Sentinel errors returned by Decompress and friends.
var (
	ErrOptionsRequired = errors.New("lzo: options required")
	ErrEmptyInput      = errors.New("lzo: empty input")
	ErrUnexpectedEOF   = errors.New("lzo: unexpected end of input")
	ErrInputOverrun    = errors.New("lzo: input overrun")
	ErrOutputOverrun   = errors.New("lzo: output overrun")
	ErrInputTooLarge   = errors.New("lzo: input exceeds MaxInputSize")
)

// DecompressOptions configures a single Decompress/DecompressN call.
type DecompressOptions struct {
	// OutLen is the exact decompressed size, known up front from the
	// archive entry's uncompressed-size field.
	OutLen int
	// MaxInputSize caps the number of compressed bytes DecompressFromReader
	// will accept before failing with ErrInputTooLarge. Zero means no limit.
	MaxInputSize int
}

// copyBackRef copies a match of length l starting matchDist bytes behind
// outPos within dst, byte by byte so that overlapping self-referential runs
// (matchDist < l, the common case for run-length-style repeats) replicate
// correctly rather than aliasing through a slice copy.
func copyBackRef(dst []byte, outPos, matchDist, l int) error {
	srcPos := outPos - matchDist
	if srcPos < 0 {
		return ErrInputOverrun
	}
	if outPos+l > len(dst) {
		return ErrOutputOverrun
	}
	for i := 0; i < l; i++ {
		dst[outPos+i] = dst[srcPos+i]
	}
	return nil
}
