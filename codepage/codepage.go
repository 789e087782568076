// Copyright (c) xrfs contributors
// Licensed under the MIT license

// Package codepage converts the legacy single-byte text X-Ray stores in
// archive entries and header chunks (originally Windows-1252) to UTF-8.
package codepage

import (
	"golang.org/x/text/encoding/charmap"
)

// ToUTF8 decodes b as Windows-1252 and returns the equivalent UTF-8 string.
// Windows-1252 maps every byte value to a rune (the handful of unused
// control-range codepoints decode to the replacement character), so this
// never fails.
func ToUTF8(b []byte) string {
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		// charmap.Windows1252 has no undecodable byte sequences; this is
		// unreachable but kept defensive since Bytes returns an error.
		return string(b)
	}
	return string(out)
}

// FromUTF8 encodes s back to Windows-1252 bytes, replacing any rune with no
// Windows-1252 representation with '?'. It is the inverse of ToUTF8 for text
// that has a Windows-1252 form; no other package in this module calls it.
func FromUTF8(s string) []byte {
	enc := charmap.Windows1252.NewEncoder()
	out, err := enc.Bytes([]byte(s))
	if err != nil {
		// Fall back byte-by-byte so one bad rune doesn't lose the whole string.
		b := make([]byte, 0, len(s))
		for _, r := range s {
			if eb, err := enc.Bytes([]byte(string(r))); err == nil {
				b = append(b, eb...)
			} else {
				b = append(b, '?')
			}
		}
		return b
	}
	return out
}
