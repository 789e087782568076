// Copyright (c) xrfs contributors
// Licensed under the MIT license

package vfs

import (
	"bytes"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/openxray/xrfs/archive"
	"github.com/openxray/xrfs/codepage"
	"github.com/openxray/xrfs/internal/blockcache"
)

// Read returns the raw bytes of the VirtualFile at path: the on-disk file's
// contents for a plain entry, or the decompressed archive slice for an
// archive member (spec.md §4.3's file_from_archive / §4.4's read_to_string
// share this lookup). Bytes returned are always owned by the caller.
func (fsys *Filesystem) Read(path string) ([]byte, error) {
	vf, ok := fsys.files[path]
	if !ok {
		return nil, &Error{Kind: NotFound, File: path, Err: fmt.Errorf("no VirtualFile registered")}
	}

	if !vf.HasArchive {
		b, err := os.ReadFile(vf.Path)
		if err != nil {
			return nil, &Error{Kind: Io, File: path, Err: err}
		}
		return b, nil
	}

	if vf.Archive < 0 || vf.Archive >= len(fsys.archs) {
		return nil, &Error{Kind: Io, File: path, Err: fmt.Errorf("archive index %d out of range", vf.Archive)}
	}
	ar := fsys.archs[vf.Archive]

	entry := archive.Entry{
		UncompressedSize: uint32(vf.SizeReal),
		CompressedSize:   uint32(vf.SizeCompressed),
		Offset:           uint32(vf.Ptr),
	}

	if fsys.opts.BlockCache != nil {
		key := blockcache.Key{ArchiveIndex: vf.Archive, Offset: vf.Ptr}
		if cached, ok := fsys.opts.BlockCache.Get(key); ok {
			return bytes.Clone(cached), nil
		}
		out, err := archive.ReadEntry(ar, entry)
		if err != nil {
			return nil, &Error{Kind: CompressionFailure, File: path, Err: err}
		}
		fsys.opts.BlockCache.Put(key, bytes.Clone(out))
		return out, nil
	}

	out, err := archive.ReadEntry(ar, entry)
	if err != nil {
		return nil, &Error{Kind: CompressionFailure, File: path, Err: err}
	}
	return out, nil
}

// ReadToString implements spec.md §4.4's read_to_string: a plain file is
// read as text verbatim; an archive member is decompressed and converted
// from the legacy code page to UTF-8.
func (fsys *Filesystem) ReadToString(path string) (string, error) {
	vf, ok := fsys.files[path]
	if !ok {
		return "", &Error{Kind: NotFound, File: path, Err: fmt.Errorf("no VirtualFile registered")}
	}

	b, err := fsys.Read(path)
	if err != nil {
		return "", err
	}

	if !vf.HasArchive {
		return string(b), nil
	}
	return codepage.ToUTF8(b), nil
}

// Glob matches pattern (doublestar syntax) against every registered
// virtual path, per SPEC_FULL.md's supplemented Glob feature.
func (fsys *Filesystem) Glob(pattern string) ([]string, error) {
	var out []string
	for p := range fsys.files {
		ok, err := doublestar.Match(pattern, p)
		if err != nil {
			return nil, fmt.Errorf("vfs: glob pattern %q: %w", pattern, err)
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}
