// Copyright (c) xrfs contributors
// Licensed under the MIT license

package archive

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

type fakeResolver map[string]string

func (f fakeResolver) ResolveAlias(name string) (string, bool) {
	p, ok := f[name]
	return p, ok
}

func chunkRecord(typ, size uint32, payload []byte) []byte {
	var buf bytes.Buffer
	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:4], typ)
	binary.LittleEndian.PutUint32(hdr[4:8], size)
	buf.Write(hdr[:])
	buf.Write(payload)
	return buf.Bytes()
}

func entryRecord(uncompressed, compressed uint32, crc uint32, name string, ptr uint32) []byte {
	var body bytes.Buffer
	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], uncompressed)
	body.Write(u32[:])
	binary.LittleEndian.PutUint32(u32[:], compressed)
	body.Write(u32[:])
	binary.LittleEndian.PutUint32(u32[:], crc)
	body.Write(u32[:])
	body.WriteString(name)
	binary.LittleEndian.PutUint32(u32[:], ptr)
	body.Write(u32[:])

	var out bytes.Buffer
	var lenField [2]byte
	binary.LittleEndian.PutUint16(lenField[:], uint16(body.Len()))
	out.Write(lenField[:])
	out.Write(body.Bytes())
	return out.Bytes()
}

// writeTestArchive builds a minimal archive file: an uncompressed header
// chunk (id 666) and an uncompressed entry chunk (id 1) holding the given
// entry records (spec scenario S5 uses one).
func writeTestArchive(t *testing.T, header string, entries ...[]byte) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "resources.xdb")

	var entryPayload bytes.Buffer
	for _, e := range entries {
		entryPayload.Write(e)
	}

	var file bytes.Buffer
	file.Write(chunkRecord(headerChunkID, uint32(len(header)), []byte(header)))
	file.Write(chunkRecord(entryChunkID, uint32(entryPayload.Len()), entryPayload.Bytes()))

	if err := os.WriteFile(p, file.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// TestLoadEntryResolution mirrors spec scenario S5.
func TestLoadEntryResolution(t *testing.T) {
	header := "[header]\nauto_load=on\nentry_point=$game_data$\\textures\n"
	entry := entryRecord(10, 5, 0, "sky.tga", 0x200)
	p := writeTestArchive(t, header, entry)

	resolver := fakeResolver{"$game_data$": "/tmp/x/data"}
	ar, entries, err := Load(0, p, resolver)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ar.AutoLoad {
		t.Fatalf("expected auto_load=true")
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	got := entries[0]
	want := Entry{VirtualPath: "/tmp/x/data/textures/sky.tga", UncompressedSize: 10, CompressedSize: 5, Offset: 0x200}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestLoadUnknownAliasUsesEmptyPrefix(t *testing.T) {
	header := "[header]\nauto_load=on\nentry_point=$unknown$\\textures\n"
	entry := entryRecord(10, 10, 0, "sky.tga", 0)
	p := writeTestArchive(t, header, entry)

	_, entries, err := Load(0, p, fakeResolver{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if entries[0].VirtualPath != "textures/sky.tga" {
		t.Fatalf("got %q", entries[0].VirtualPath)
	}
}

func TestLoadGamedataEntryPointUnsupported(t *testing.T) {
	header := "[header]\nauto_load=on\nentry_point=gamedata\n"
	p := writeTestArchive(t, header)

	if _, _, err := Load(0, p, fakeResolver{}); err == nil {
		t.Fatalf("expected ErrUnsupportedEntryPoint")
	}
}

func TestLoadAutoLoadFalseSkipsEntries(t *testing.T) {
	header := "[header]\nauto_load=false\n"
	entry := entryRecord(10, 10, 0, "sky.tga", 0)
	p := writeTestArchive(t, header, entry)

	ar, entries, err := Load(0, p, fakeResolver{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ar.AutoLoad {
		t.Fatalf("expected auto_load=false")
	}
	if entries != nil {
		t.Fatalf("expected no entries, got %v", entries)
	}
}

func TestReadEntryUncompressed(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "data.db")
	payload := []byte("hello world")
	if err := os.WriteFile(p, payload, 0o644); err != nil {
		t.Fatal(err)
	}

	ar := &Archive{Path: p, Size: int64(len(payload))}
	e := Entry{UncompressedSize: uint32(len(payload)), CompressedSize: uint32(len(payload)), Offset: 0}

	got, err := ReadEntry(ar, e)
	if err != nil {
		t.Fatalf("ReadEntry: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("got %q, want %q", got, payload)
	}
}
