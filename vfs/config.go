// Copyright (c) xrfs contributors
// Licensed under the MIT license

package vfs

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/openxray/xrfs/archive"
	"github.com/openxray/xrfs/internal/blockcache"
	"github.com/openxray/xrfs/internal/headercache"
	"github.com/openxray/xrfs/internal/pathutil"
)

// Options configures Filesystem construction. All fields are optional; the
// zero value uses slog.Default() and no caches.
type Options struct {
	Logger      *slog.Logger
	BlockCache  *blockcache.Cache
	HeaderCache *headercache.Cache
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// New parses the configuration file at configPath, scans every declared
// alias's directory tree, and returns the fully built, read-only Filesystem.
// Construction is synchronous and aborts on the first error (spec.md §7:
// "errors during initialisation abort construction").
func New(configPath string, opts Options) (*Filesystem, error) {
	text, err := readFileString(configPath)
	if err != nil {
		return nil, &Error{Kind: Io, File: configPath, Err: err}
	}

	fsys := &Filesystem{
		ConfigDir: path.Dir(configPath),
		aliases:     make(map[string]*AliasPath),
		files:       make(map[string]*VirtualFile),
		entries:     make(map[int][]archive.Entry),
		visitedDirs: make(map[uint64]struct{}),
		opts:        opts,
	}

	for i, line := range strings.Split(text, "\n") {
		lineNum := i + 1
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, ";") {
			continue
		}

		if err := fsys.parseLine(configPath, lineNum, trimmed); err != nil {
			return nil, err
		}
	}

	return fsys, nil
}

func (fsys *Filesystem) parseLine(configPath string, lineNum int, line string) error {
	aliasName, rest, ok := strings.Cut(line, "=")
	if !ok {
		return &Error{Kind: ConfigSyntax, File: configPath, Line: lineNum, Err: fmt.Errorf("no '=' in line")}
	}
	aliasName = strings.TrimSpace(aliasName)

	fields := strings.Split(rest, "|")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) < 3 {
		return &Error{Kind: ConfigSyntax, File: configPath, Line: lineNum, Err: fmt.Errorf("fewer than 3 fields")}
	}

	recurse := pathutil.Truthy(fields[0])
	notify := pathutil.Truthy(fields[1])
	rootRef := fields[2]

	var add, defExt, caption string
	if len(fields) > 3 {
		add = fields[3]
	}
	if len(fields) > 4 {
		defExt = fields[4]
	}
	if len(fields) > 5 {
		caption = fields[5]
	}

	rootPath, err := fsys.resolveRoot(rootRef, configPath, lineNum)
	if err != nil {
		return err
	}

	fullPath := rootPath
	if add != "" {
		fullPath = path.Join(rootPath, add)
	}

	ap := &AliasPath{
		Name:    aliasName,
		Path:    fullPath,
		Recurse: recurse,
		Notify:  notify,
		DefExt:  defExt,
		Caption: caption,
	}

	// The alias must be registered before scanning: archives discovered
	// under this very root commonly resolve entry_point against the alias
	// they were found beneath (spec.md §4.3).
	if _, exists := fsys.aliases[aliasName]; !exists {
		fsys.aliases[aliasName] = ap
	}

	if err := fsys.scan(fullPath, recurse, -1); err != nil {
		return err
	}

	return nil
}

// resolveRoot resolves <root> per spec.md §4.4: either an already-declared
// alias name, the lazily-created $fs_root$ alias, or a literal path.
func (fsys *Filesystem) resolveRoot(rootRef, configPath string, lineNum int) (string, error) {
	if rootRef == fsRootAlias {
		if a, ok := fsys.aliases[fsRootAlias]; ok {
			return a.Path, nil
		}
		fsys.aliases[fsRootAlias] = &AliasPath{Name: fsRootAlias, Path: fsys.ConfigDir}
		return fsys.ConfigDir, nil
	}

	if a, ok := fsys.aliases[rootRef]; ok {
		return a.Path, nil
	}

	// Not a known alias: treat as a literal filesystem path. Declaring
	// aliases in topological order is part of the contract (spec.md §9).
	return rootRef, nil
}

func readFileString(p string) (string, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
