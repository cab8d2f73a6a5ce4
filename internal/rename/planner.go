package rename

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/Nomadcxx/seriesrenamer/internal/media"
)

// ErrMissingExtension means no target name can be produced because the
// source file has no extension to carry over.
var ErrMissingExtension = errors.New("missing extension")

// PlanEntry is a plan assignment with its computed target name
type PlanEntry struct {
	Episode    media.Episode
	File       media.LocalFile
	TargetName string
	Err        error
}

// TargetPath returns the full destination path, in the source's directory
func (e PlanEntry) TargetPath() string {
	return filepath.Join(filepath.Dir(e.File.Path), e.TargetName)
}

// PlanName derives the canonical file name for an episode:
//
//	S{season:02}E{episode} - {title}.{ext}
//
// Numeric labels are zero-padded to two digits; anything else is used as is.
func PlanName(episode media.Episode, file media.LocalFile, season int) (string, error) {
	ext, ok := Extension(file.Path)
	if !ok {
		return "", fmt.Errorf("%s: %w", file.Name(), ErrMissingExtension)
	}

	return fmt.Sprintf("S%02dE%s - %s.%s",
		season,
		EpisodeOrdinal(episode.Label),
		SanitizeTitle(episode.Title),
		ext), nil
}

// EpisodeOrdinal formats a catalog episode label. Labels that parse as an
// unsigned integer are padded to two digits, others pass through unchanged.
func EpisodeOrdinal(label string) string {
	n, err := strconv.ParseUint(label, 10, 64)
	if err != nil {
		return label
	}
	return fmt.Sprintf("%02d", n)
}

// SanitizeTitle keeps only letters, numbers and whitespace.
// A title with none of those collapses to "".
func SanitizeTitle(title string) string {
	var sb strings.Builder
	sb.Grow(len(title))
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Extension returns the text after the last '.' of the base name.
// Names like ".hidden" or "episode." have no extension.
func Extension(path string) (string, bool) {
	base := filepath.Base(path)
	i := strings.LastIndex(base, ".")
	if i <= 0 || i == len(base)-1 {
		return "", false
	}
	return base[i+1:], true
}

// Preview computes target names for every entry without touching disk
func Preview(entries []media.Assignment, season int) []PlanEntry {
	preview := make([]PlanEntry, 0, len(entries))
	for _, a := range entries {
		name, err := PlanName(a.Episode, a.File, season)
		preview = append(preview, PlanEntry{
			Episode:    a.Episode,
			File:       a.File,
			TargetName: name,
			Err:        err,
		})
	}
	return preview
}
