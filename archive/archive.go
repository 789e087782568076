// Copyright (c) xrfs contributors
// Licensed under the MIT license

// Package archive parses X-Ray's chunked archive file format: a header
// chunk in INI form, an entry-descriptor chunk enumerating embedded virtual
// files, and per-entry LZO1X-compressed payloads read back via mmap.
package archive

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/openxray/xrfs/chunk"
	"github.com/openxray/xrfs/codepage"
	"github.com/openxray/xrfs/internal/ini"
	"github.com/openxray/xrfs/internal/pathutil"
	"github.com/openxray/xrfs/lzo"
)

const (
	headerChunkID = 666
	entryChunkID  = 1
)

// ErrUnsupportedEntryPoint is returned for the literal entry_point value
// "gamedata": its original semantics were never recovered (spec.md §9), so
// loading such an archive is rejected rather than guessed at.
var ErrUnsupportedEntryPoint = errors.New("archive: entry_point \"gamedata\" is unsupported")

// AliasResolver resolves an alias name to its configured filesystem path,
// as maintained by the VFS resolver's alias table. Archive itself never
// builds or owns this table.
type AliasResolver interface {
	ResolveAlias(name string) (resolvedPath string, ok bool)
}

// Archive is a discovered archive file's identity and parsed header.
type Archive struct {
	Path     string
	Index    int
	Size     int64
	Header   ini.Doc
	AutoLoad bool
}

// Entry is one embedded virtual file discovered in an archive's
// entry-descriptor chunk.
type Entry struct {
	VirtualPath      string
	UncompressedSize uint32
	CompressedSize   uint32
	Offset           uint32
}

// Load opens path, reads its header and (if auto_load) entry chunks, and
// returns the Archive plus its entries. index is the caller-assigned,
// dense archive index (spec.md §3's "archive indices are dense").
func Load(index int, filePath string, resolver AliasResolver) (*Archive, []Entry, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("archive: opening %s: %w", filePath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("archive: stat %s: %w", filePath, err)
	}

	ar := &Archive{Path: filePath, Index: index, Size: info.Size()}

	headerBytes, err := chunk.Open(bufio.NewReader(f), headerChunkID)
	if err != nil {
		if errors.Is(err, chunk.ErrChunkNotFound) {
			// No header chunk present: auto_load defaults to true (spec.md §4.3 step 4).
			ar.AutoLoad = true
		} else {
			return nil, nil, fmt.Errorf("archive: reading header chunk: %w", err)
		}
	} else {
		ar.Header = ini.Parse(string(headerBytes))
		v, _ := ar.Header.Get("header", "auto_load")
		ar.AutoLoad = pathutil.Truthy(v)
	}

	if !ar.AutoLoad {
		return ar, nil, nil
	}

	entryPointRaw, ok := ar.Header.Get("header", "entry_point")
	if !ok {
		// Per spec.md §7: missing entry_point with auto_load true is a
		// documented panic, the archive is treated as unrecoverably broken.
		panic(fmt.Sprintf("archive %s: auto_load is set but entry_point is missing", filePath))
	}

	if entryPointRaw == "gamedata" {
		return nil, nil, fmt.Errorf("archive %s: %w", filePath, ErrUnsupportedEntryPoint)
	}

	resolvedEntryPoint := resolveEntryPoint(entryPointRaw, resolver)

	if _, err := f.Seek(0, 0); err != nil {
		return nil, nil, fmt.Errorf("archive: rewinding %s: %w", filePath, err)
	}
	entryChunkPayload, err := chunk.Open(bufio.NewReader(f), entryChunkID)
	if err != nil {
		if errors.Is(err, chunk.ErrChunkNotFound) {
			// Per spec.md §7: an archive whose top-level chunk 1 is missing
			// is a documented panic.
			panic(fmt.Sprintf("archive %s: chunk 1 (entry descriptors) is missing", filePath))
		}
		return nil, nil, fmt.Errorf("archive: reading entry chunk: %w", err)
	}

	entries, err := parseEntries(entryChunkPayload, resolvedEntryPoint)
	if err != nil {
		return nil, nil, fmt.Errorf("archive %s: %w", filePath, err)
	}

	return ar, entries, nil
}

// resolveEntryPoint splits entryPointRaw on its first backslash into an
// alias name and trailing path, resolves the alias (empty prefix if
// unknown), and joins the two into a single virtual-path prefix.
func resolveEntryPoint(entryPointRaw string, resolver AliasResolver) string {
	normalized := strings.ReplaceAll(entryPointRaw, "\\", "/")
	alias, trailing, found := strings.Cut(normalized, "/")
	if !found {
		alias, trailing = normalized, ""
	}

	root := ""
	if resolver != nil {
		if p, ok := resolver.ResolveAlias(alias); ok {
			root = p
		}
	}
	return path.Join(root, trailing)
}

// parseEntries walks chunk 1's concatenated { u16 len; body[len] } sub-records.
func parseEntries(payload []byte, entryPointResolved string) ([]Entry, error) {
	var entries []Entry
	for off := 0; off < len(payload); {
		if off+2 > len(payload) {
			return nil, fmt.Errorf("truncated entry length at offset %d", off)
		}
		recLen := int(binary.LittleEndian.Uint16(payload[off : off+2]))
		off += 2
		if off+recLen > len(payload) {
			return nil, fmt.Errorf("truncated entry body at offset %d", off)
		}
		body := payload[off : off+recLen]
		off += recLen

		e, name, err := parseEntryBody(body)
		if err != nil {
			return nil, err
		}

		name = strings.ReplaceAll(name, "\\", "/")
		e.VirtualPath = path.Join(entryPointResolved, name)
		entries = append(entries, e)
	}
	return entries, nil
}

func parseEntryBody(body []byte) (Entry, string, error) {
	const fixedHeader = 12
	const fixedTrailer = 4
	if len(body) < fixedHeader+fixedTrailer {
		return Entry{}, "", fmt.Errorf("entry body too short: %d bytes", len(body))
	}

	var e Entry
	e.UncompressedSize = binary.LittleEndian.Uint32(body[0:4])
	e.CompressedSize = binary.LittleEndian.Uint32(body[4:8])
	// bytes 8:12 are a CRC, ignored by the decoder per spec.md §4.3.
	nameBytes := body[fixedHeader : len(body)-fixedTrailer]
	e.Offset = binary.LittleEndian.Uint32(body[len(body)-fixedTrailer:])

	return e, codepage.ToUTF8(nameBytes), nil
}

// ReadEntry returns the decompressed payload of entry within ar, an owned
// copy the caller may retain indefinitely (spec.md §5: "the returned bytes
// are always owned, not borrowed from the map").
func ReadEntry(ar *Archive, e Entry) ([]byte, error) {
	region, err := mapRegion(ar.Path, int64(e.Offset), int64(e.CompressedSize))
	if err != nil {
		return nil, fmt.Errorf("archive: mapping %s entry at %d: %w", ar.Path, e.Offset, err)
	}
	defer region.Close()

	if e.CompressedSize == e.UncompressedSize {
		out := make([]byte, len(region.Bytes()))
		copy(out, region.Bytes())
		return out, nil
	}

	out, err := lzo.Decompress(region.Bytes(), &lzo.DecompressOptions{OutLen: int(e.UncompressedSize)})
	if err != nil {
		return nil, fmt.Errorf("archive: decompressing %s entry at %d: %w", ar.Path, e.Offset, err)
	}
	return out, nil
}
