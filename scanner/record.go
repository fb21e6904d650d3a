package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hirvin/drivemapper/models"
)

// BuildRecord captures the metadata for one filesystem entry. Directories
// always report zero size.
func BuildRecord(path string, info os.FileInfo) models.FileRecord {
	size := info.Size()
	if info.IsDir() {
		size = 0
	}

	return models.FileRecord{
		Path:         path,
		Name:         info.Name(),
		Extension:    NormalizeExtension(info.Name()),
		SizeBytes:    size,
		Tags:         GenerateTags(path),
		IsDirectory:  info.IsDir(),
		IsHidden:     isHidden(path, info.Name()),
		ModTimeUTC:   info.ModTime().UTC().Unix(),
		ScannedAtUTC: time.Now().UTC().Unix(),
	}
}

// NormalizeExtension returns the lowercase suffix after the last dot,
// without the dot itself, or "" when the name has no extension.
func NormalizeExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	return strings.TrimPrefix(ext, ".")
}
