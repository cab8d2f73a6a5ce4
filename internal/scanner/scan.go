package scanner

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/Nomadcxx/seriesrenamer/internal/media"
)

// videoExts lists the extensions treated as video when filtering
var videoExts = []string{
	".mkv", ".mp4", ".avi", ".mov", ".wmv", ".flv",
	".webm", ".m4v", ".mpg", ".mpeg", ".m2ts", ".ts",
}

// Scan recursively enumerates regular files under root.
// Entries that fail during traversal (e.g. a permission-denied subtree) are
// skipped silently. Order is traversal order.
func Scan(root string) []media.LocalFile {
	return walk(root, nil)
}

// ScanVideos is Scan restricted to video files
func ScanVideos(root string) []media.LocalFile {
	return walk(root, isVideoFile)
}

func walk(root string, keep func(path string) bool) []media.LocalFile {
	var files []media.LocalFile

	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directory: skip its subtree and keep going
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if keep != nil && !keep(path) {
			return nil
		}

		files = append(files, media.LocalFile{Path: path})
		return nil
	})

	return files
}

// isVideoFile checks if file extension is a video format
func isVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, videoExt := range videoExts {
		if ext == videoExt {
			return true
		}
	}
	return false
}
