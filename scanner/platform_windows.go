//go:build windows
// +build windows

package scanner

import (
	"strings"

	"golang.org/x/sys/windows"
)

func isHidden(path string, name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}

	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false
	}
	return attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0
}
