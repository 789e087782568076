// Copyright (c) xrfs contributors
// Licensed under the MIT license

package vfs

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/openxray/xrfs/archive"
	"github.com/openxray/xrfs/internal/hidden"
	"github.com/openxray/xrfs/internal/pathutil"
)

// scan walks dirPath synchronously (spec.md §5: construction is a single-
// threaded bulk operation), registering directories, plain files, and
// archive-member files as VirtualFiles. archiveIndexForAncestor is unused
// here (kept -1): a scan call is never itself inside an archive's entry
// tree, that tagging only happens through registerFile's ancestor climb.
func (fsys *Filesystem) scan(dirPath string, recurse bool, archiveIndexForAncestor int) error {
	if _, err := os.Stat(path.Join(dirPath, ".xrignore")); err == nil {
		return nil
	}

	fp := xxhash.Sum64String(dirPath)
	if _, seen := fsys.visitedDirs[fp]; seen {
		return nil
	}
	fsys.visitedDirs[fp] = struct{}{}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		// A directory that cannot be opened at all is treated as empty and
		// ignored (spec.md §7): user-configured roots may legitimately be
		// missing on disk.
		fsys.opts.logger().Warn("directory unreadable, treating as empty", "path", dirPath, "err", err)
		return nil
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, de := range entries {
		name := de.Name()
		if name == "." || name == ".." || name == "Thumbs.db" || name == ".svn" {
			continue
		}

		full := path.Join(dirPath, name)
		isHidden, err := hidden.Is(full)
		if err != nil {
			fsys.opts.logger().Warn("hidden-file check failed", "path", full, "err", err)
		} else if isHidden {
			continue
		}

		if de.IsDir() {
			fsys.registerFile(full, VirtualFile{Path: full})
			if recurse {
				if err := fsys.scan(full, recurse, -1); err != nil {
					return err
				}
			}
			continue
		}

		if isArchiveExt(name) {
			if err := fsys.loadArchive(full); err != nil {
				return err
			}
			continue
		}

		info, err := de.Info()
		if err != nil {
			fsys.opts.logger().Warn("stat failed, skipping file", "path", full, "err", err)
			continue
		}
		fsys.registerFile(full, VirtualFile{
			Path:           full,
			SizeReal:       info.Size(),
			SizeCompressed: info.Size(),
			Ptr:            0,
		})
	}

	// Idempotent with any earlier ancestor-registration triggered above.
	fsys.registerFile(dirPath, VirtualFile{Path: dirPath})

	return nil
}

// isArchiveExt implements spec.md §6's file-extension trigger: an
// extension beginning with "db" or "xdb" (case-sensitive, dot excluded).
func isArchiveExt(name string) bool {
	ext := strings.TrimPrefix(path.Ext(name), ".")
	return strings.HasPrefix(ext, "db") || strings.HasPrefix(ext, "xdb")
}

func (fsys *Filesystem) loadArchive(filePath string) error {
	canon, err := canonicalPath(filePath)
	if err != nil {
		return &Error{Kind: Io, File: filePath, Err: err}
	}

	for _, existing := range fsys.archs {
		if existing.Path == canon {
			return nil // idempotent (spec.md §4.3 step 1)
		}
	}

	index := len(fsys.archs)

	ar, entries, err := archive.Load(index, canon, fsys)
	if err != nil {
		if errors.Is(err, archive.ErrUnsupportedEntryPoint) {
			return &Error{Kind: UnsupportedArchive, File: canon, Err: err}
		}
		return &Error{Kind: Io, File: canon, Err: fmt.Errorf("%w", err)}
	}

	fsys.archs = append(fsys.archs, ar)
	fsys.entries[index] = entries

	for _, e := range entries {
		fsys.registerFile(e.VirtualPath, VirtualFile{
			Path:           e.VirtualPath,
			HasArchive:     true,
			Archive:        index,
			SizeReal:       int64(e.UncompressedSize),
			SizeCompressed: int64(e.CompressedSize),
			Ptr:            int64(e.Offset),
		})
	}

	return nil
}

// registerFile inserts vf under vf.Path (a no-op if the path is already
// registered), then climbs ancestors inserting missing entries, stopping at
// the first ancestor that already exists. Per spec.md §4.4/§9, only the
// first successfully-inserted ancestor carries the original archive id;
// further ancestors (if the climb continues) carry none.
func (fsys *Filesystem) registerFile(p string, vf VirtualFile) {
	if _, exists := fsys.files[p]; exists {
		return
	}
	stored := vf
	fsys.files[p] = &stored

	hasArchive, archiveIdx := vf.HasArchive, vf.Archive
	for _, anc := range pathutil.Ancestors(p) {
		if _, exists := fsys.files[anc]; exists {
			break
		}
		fsys.files[anc] = &VirtualFile{Path: anc, HasArchive: hasArchive, Archive: archiveIdx}
		hasArchive, archiveIdx = false, 0
	}
}

func canonicalPath(p string) (string, error) {
	// os.Getwd-relative symlink resolution is unnecessary here: archive
	// paths reaching this point are already absolute (derived from an
	// AliasPath's canonical root) or repo-relative test paths; either way
	// string equality is what idempotent re-discovery needs.
	return p, nil
}
