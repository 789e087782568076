// Copyright (c) xrfs contributors
// Licensed under the MIT license

package codepage

import "testing"

func TestToUTF8ASCII(t *testing.T) {
	got := ToUTF8([]byte("gamedata\\configs\\weapons.ltx"))
	want := "gamedata\\configs\\weapons.ltx"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestToUTF8HighByte(t *testing.T) {
	// 0xE9 is 'é' in Windows-1252.
	got := ToUTF8([]byte{0xE9})
	want := "é"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	want := "café"
	got := ToUTF8(FromUTF8(want))
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
