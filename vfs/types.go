// Copyright (c) xrfs contributors
// Licensed under the MIT license

// Package vfs implements the path-alias configuration parser, recursive
// directory scanner, and unified path→content resolver described in
// spec.md §4.4: a single read-only view over on-disk files and embedded
// archive members.
package vfs

import "github.com/openxray/xrfs/archive"

// fsRootAlias is the reserved alias name resolving to the configuration
// file's own directory.
const fsRootAlias = "$fs_root$"

// AliasPath is a named location on disk, as declared by one configuration
// line. Immutable once parsed.
type AliasPath struct {
	Name      string
	Path      string // canonical absolute path (root joined with Add)
	Recurse   bool
	Notify    bool
	DefExt    string
	Caption   string
}

// VirtualFile is a registered, readable path: either a plain on-disk file
// or directory, or a member of an Archive.
type VirtualFile struct {
	Path string

	// HasArchive is false for plain on-disk entries; when true, Archive
	// indexes into Filesystem.Archives.
	HasArchive bool
	Archive    int

	SizeReal       int64
	SizeCompressed int64
	Ptr            int64
}

// Filesystem is the root aggregate: the parsed alias table, every
// registered VirtualFile, and every discovered Archive, built once during
// construction and read-only thereafter (spec.md §5).
type Filesystem struct {
	ConfigDir string

	aliases map[string]*AliasPath
	files   map[string]*VirtualFile
	archs   []*archive.Archive
	entries map[int][]archive.Entry // archive index -> its entries as parsed at load time

	// visitedDirs fingerprints every directory scan has already descended
	// into (keyed by xxhash of the canonical path), guarding against
	// infinite recursion when two aliases' roots overlap or nest.
	visitedDirs map[uint64]struct{}

	opts Options
}

// ResolveAlias implements archive.AliasResolver.
func (fsys *Filesystem) ResolveAlias(name string) (string, bool) {
	a, ok := fsys.aliases[name]
	if !ok {
		return "", false
	}
	return a.Path, true
}

// AppendPath concatenates the named alias's path with subpath. Returns
// ("", false) if the alias is unknown, per spec.md §4.4.
func (fsys *Filesystem) AppendPath(alias, subpath string) (string, bool) {
	a, ok := fsys.aliases[alias]
	if !ok {
		return "", false
	}
	if subpath == "" {
		return a.Path, true
	}
	return a.Path + "/" + subpath, true
}

// Archives returns the discovered archives in index order.
func (fsys *Filesystem) Archives() []*archive.Archive {
	return fsys.archs
}

// Paths returns every registered virtual path, for Glob and diagnostics.
func (fsys *Filesystem) Paths() []string {
	out := make([]string, 0, len(fsys.files))
	for p := range fsys.files {
		out = append(out, p)
	}
	return out
}

// Lookup returns the VirtualFile registered at path, if any.
func (fsys *Filesystem) Lookup(path string) (*VirtualFile, bool) {
	vf, ok := fsys.files[path]
	return vf, ok
}
