// Copyright (c) xrfs contributors
// Licensed under the MIT license

// Command xrfs loads an X-Ray virtual filesystem configuration and either
// dumps the resolved path table or prints one file's contents.
//
// Usage:
//
//	xrfs <config.ltx>              dump every registered virtual path
//	xrfs <config.ltx> <path>       print the resolved file as text
package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/openxray/xrfs/vfs"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: xrfs <config.ltx> [path]")
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	fsys, err := vfs.New(os.Args[1], vfs.Options{Logger: logger})
	if err != nil {
		logger.Error("failed to build filesystem", "config", os.Args[1], "err", err)
		os.Exit(1)
	}

	if len(os.Args) == 2 {
		dumpPaths(fsys)
		return
	}

	text, err := fsys.ReadToString(os.Args[2])
	if err != nil {
		logger.Error("failed to read path", "path", os.Args[2], "err", err)
		os.Exit(1)
	}
	fmt.Print(text)
}

func dumpPaths(fsys *vfs.Filesystem) {
	paths := fsys.Paths()
	sort.Strings(paths)
	for _, p := range paths {
		vf, _ := fsys.Lookup(p)
		if vf.HasArchive {
			fmt.Printf("%s\t(archive %d, %d bytes)\n", p, vf.Archive, vf.SizeReal)
		} else {
			fmt.Println(p)
		}
	}
}
