//go:build !windows
// +build !windows

package scanner

import "strings"

func isHidden(_ string, name string) bool {
	return strings.HasPrefix(name, ".")
}
