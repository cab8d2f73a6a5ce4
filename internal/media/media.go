package media

import "path/filepath"

// Episode is one installment of a series as reported by the catalog.
// Identity is structural, so Episode can be used directly as a map key.
type Episode struct {
	Title      string `json:"title"`
	Label      string `json:"label"` // raw episode number string, not guaranteed numeric
	ExternalID string `json:"external_id"`
}

// LocalFile is a file found under the scanned root
type LocalFile struct {
	Path string `json:"path"`
}

// Name returns the final path component
func (f LocalFile) Name() string {
	return filepath.Base(f.Path)
}

// Assignment pairs an episode with the file chosen to represent it
type Assignment struct {
	Episode Episode
	File    LocalFile
}
