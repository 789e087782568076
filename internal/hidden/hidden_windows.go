// Copyright (c) xrfs contributors
// Licensed under the MIT license

package hidden

import "golang.org/x/sys/windows"

// Is reports whether the named entry has the Windows hidden attribute bit
// (0x2) set, per spec.md §4.5.
func Is(fullpath string) (bool, error) {
	p, err := windows.UTF16PtrFromString(fullpath)
	if err != nil {
		return false, err
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false, err
	}
	return attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0, nil
}
