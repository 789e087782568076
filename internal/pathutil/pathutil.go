// Copyright (c) xrfs contributors
// Licensed under the MIT license

// Package pathutil holds the small path-splitting helpers the VFS resolver
// needs, in the style of the teacher's pathops.go (plain string slicing,
// no filepath.Clean-style allocation churn).
package pathutil

import "path"

// Ancestors returns p's ancestor directories, nearest first, stopping
// before the filesystem root ("/" or "."). It does not include p itself.
func Ancestors(p string) []string {
	var out []string
	for {
		dir := path.Dir(p)
		if dir == p || dir == "." || dir == "/" {
			break
		}
		out = append(out, dir)
		p = dir
	}
	return out
}

// Truthy implements spec.md's "truthy string" test: case-sensitive match
// against the literal words on/yes/true/1.
func Truthy(s string) bool {
	switch s {
	case "on", "yes", "true", "1":
		return true
	default:
		return false
	}
}
