// Copyright (c) xrfs contributors
// Licensed under the MIT license

package blockcache

import (
	"bytes"
	"testing"
)

func TestPutGet(t *testing.T) {
	c := New(1024 * 1024)
	k := Key{ArchiveIndex: 2, Offset: 512}
	v := []byte("decompressed payload")

	if _, ok := c.Get(k); ok {
		t.Fatalf("expected miss before Put")
	}

	c.Put(k, v)

	got, ok := c.Get(k)
	if !ok {
		t.Fatalf("expected hit after Put")
	}
	if !bytes.Equal(got, v) {
		t.Fatalf("got %q, want %q", got, v)
	}
}

func TestPutOversized(t *testing.T) {
	c := New(8)
	k := Key{ArchiveIndex: 0, Offset: 0}
	c.Put(k, make([]byte, 1024))
	if _, ok := c.Get(k); ok {
		t.Fatalf("expected oversized payload to be rejected")
	}
}
