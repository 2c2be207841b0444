package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TypeDirectory is the Type reported for directories.
const TypeDirectory = "Directory"

// TypeUnknown is the Type reported when no MIME type matches the extension.
const TypeUnknown = "Unknown"

// FileInfo describes a single directory entry as shown by the explorer.
type FileInfo struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	Modified  time.Time `json:"modified"`
	IsDir     bool      `json:"is_dir"`
	Extension string    `json:"extension,omitempty"`
	Type      string    `json:"type"`
}

// HumanSize is FormatSize for files and "-" for directories.
func (f FileInfo) HumanSize() string {
	if f.IsDir {
		return "-"
	}
	return FormatSize(f.Size)
}

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatSize renders a byte count with two decimals and a binary unit,
// e.g. 1536 -> "1.50 KB". Zero is rendered as "0 B".
func FormatSize(n int64) string {
	if n == 0 {
		return "0 B"
	}
	size := float64(n)
	i := 0
	for size >= 1024 && i < len(sizeUnits)-1 {
		size /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", size, sizeUnits[i])
}

// SortEntries orders entries directories first, then by case-insensitive name.
func SortEntries(entries []FileInfo) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}
