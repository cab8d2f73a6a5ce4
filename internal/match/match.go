// Package match proposes file to episode assignments from file names.
package match

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/cases"

	"github.com/Nomadcxx/seriesrenamer/internal/media"
)

// Threshold is the minimum Jaro-Winkler similarity for a title match
const Threshold float32 = 0.85

var (
	episodeSERegex = regexp.MustCompile(`[Ss](\d{1,2})[Ee](\d{1,3})`)
	episodeXRegex  = regexp.MustCompile(`\b(\d{1,2})x(\d{1,3})\b`)
	releaseRegex   = regexp.MustCompile(`(?i)\b(\d{3,4}[pi]|4k|uhd|hdr\d*|x26[45]|h\.?26[45]|hevc|web-?dl|webrip|bluray|brrip|hdtv|dvdrip|aac|ac3|ddp?\d?|dts)\b`)
	spaceRegex     = regexp.MustCompile(`\s+`)
)

// ExtractEpisodeInfo extracts S##E## or #x## from a file name
// Returns season, episode, and whether a pattern was found
func ExtractEpisodeInfo(filename string) (season int, episode int, found bool) {
	for _, re := range []*regexp.Regexp{episodeSERegex, episodeXRegex} {
		m := re.FindStringSubmatch(filename)
		if len(m) < 3 {
			continue
		}
		s, err1 := strconv.Atoi(m[1])
		e, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil {
			return s, e, true
		}
	}
	return 0, 0, false
}

// Normalize reduces a file stem or episode title to case-folded words for comparison
func Normalize(name string) string {
	name = episodeSERegex.ReplaceAllString(name, " ")
	name = episodeXRegex.ReplaceAllString(name, " ")
	name = releaseRegex.ReplaceAllString(name, " ")
	name = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(name)

	name = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, name)

	name = spaceRegex.ReplaceAllString(name, " ")
	return cases.Fold().String(strings.TrimSpace(name))
}

// Similarity scores how closely a file name resembles an episode title
func Similarity(file media.LocalFile, ep media.Episode) float32 {
	a := Normalize(stem(file.Path))
	b := Normalize(ep.Title)
	if a == "" || b == "" {
		return 0
	}
	if len(b) >= 4 && strings.Contains(a, b) {
		return 1
	}
	return edlib.JaroWinklerSimilarity(a, b)
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Suggest proposes assignments for season. Files carrying an episode marker
// are matched on the number first; the rest are matched on title similarity.
// Each file and each episode appears in at most one suggestion. The result
// follows episode order.
func Suggest(episodes []media.Episode, files []media.LocalFile, season int) []media.Assignment {
	byNumber := make(map[int]int, len(episodes))
	for i, ep := range episodes {
		n, err := strconv.Atoi(strings.TrimSpace(ep.Label))
		if err != nil {
			continue
		}
		if _, dup := byNumber[n]; !dup {
			byNumber[n] = i
		}
	}

	fileFor := make(map[int]media.LocalFile)
	usedFile := make(map[string]bool)

	for _, f := range files {
		if usedFile[f.Path] {
			continue
		}
		s, e, ok := ExtractEpisodeInfo(filepath.Base(f.Path))
		if !ok || s != season {
			continue
		}
		idx, ok := byNumber[e]
		if !ok {
			continue
		}
		if _, taken := fileFor[idx]; taken {
			continue
		}
		fileFor[idx] = f
		usedFile[f.Path] = true
	}

	type candidate struct {
		ep    int
		file  media.LocalFile
		score float32
	}

	var candidates []candidate
	for i, ep := range episodes {
		if _, taken := fileFor[i]; taken {
			continue
		}
		for _, f := range files {
			if usedFile[f.Path] {
				continue
			}
			if score := Similarity(f, ep); score >= Threshold {
				candidates = append(candidates, candidate{ep: i, file: f, score: score})
			}
		}
	}

	// Greedy best-first keeps the strongest pairs when titles compete
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})
	for _, c := range candidates {
		if _, taken := fileFor[c.ep]; taken || usedFile[c.file.Path] {
			continue
		}
		fileFor[c.ep] = c.file
		usedFile[c.file.Path] = true
	}

	suggestions := make([]media.Assignment, 0, len(fileFor))
	for i, ep := range episodes {
		if f, ok := fileFor[i]; ok {
			suggestions = append(suggestions, media.Assignment{Episode: ep, File: f})
		}
	}
	return suggestions
}
