package scanner

import (
	"path/filepath"
	"strings"
)

// GenerateTags derives search tags from a path. Every directory segment
// above the final component becomes one tag, lowercased and trimmed, in
// root-to-leaf order. Empty segments from repeated separators are
// dropped. The function is deterministic and has no side effects;
// malformed input yields an empty tag list rather than an error.
func GenerateTags(path string) []string {
	dir := filepath.Dir(path)
	if dir == "." || dir == string(filepath.Separator) {
		return nil
	}

	var tags []string
	for _, segment := range strings.Split(dir, string(filepath.Separator)) {
		segment = strings.ToLower(strings.TrimSpace(segment))
		if segment == "" || segment == "." {
			continue
		}
		tags = append(tags, segment)
	}
	return tags
}
