package api

// FileEntry is the compact row shape returned by search endpoints.
type FileEntry struct {
	Name      string   `json:"name"`
	Path      string   `json:"path"`
	Extension string   `json:"extension"`
	IsDir     bool     `json:"is_dir"`
	Size      int64    `json:"size"`
	Tags      []string `json:"tags,omitempty"`
}

// FileDetail is the full record returned by /api/stat.
type FileDetail struct {
	Name      string   `json:"name"`
	Path      string   `json:"path"`
	Extension string   `json:"extension"`
	Size      int64    `json:"size"`
	Tags      []string `json:"tags,omitempty"`
	IsDir     bool     `json:"is_dir"`
	IsHidden  bool     `json:"is_hidden"`
	Modified  int64    `json:"modified"`
	ScannedAt int64    `json:"scanned_at"`
}

// ExtensionStats is one row of the per-extension rollup.
type ExtensionStats struct {
	Extension   string  `json:"extension"`
	FileCount   int     `json:"file_count"`
	TotalSize   int64   `json:"total_size"`
	AverageSize float64 `json:"average_size"`
	MinSize     int64   `json:"min_size"`
	MaxSize     int64   `json:"max_size"`
}

// ScanStats summarizes the whole database.
type ScanStats struct {
	TotalFiles       int64 `json:"total_files"`
	TotalDirectories int64 `json:"total_directories"`
	TotalSize        int64 `json:"total_size"`
	UniqueExtensions int   `json:"unique_extensions"`
	LastScannedAt    int64 `json:"last_scanned_at"`
}

// PaginatedResponse wraps list endpoints.
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Page       int         `json:"page"`
	PerPage    int         `json:"per_page"`
	Total      int         `json:"total"`
	TotalPages int         `json:"total_pages"`
	HasNext    bool        `json:"has_next"`
}
