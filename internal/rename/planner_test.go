package rename

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nomadcxx/seriesrenamer/internal/media"
)

func TestPlanName(t *testing.T) {
	tests := []struct {
		name    string
		episode media.Episode
		file    string
		season  int
		want    string
	}{
		{
			name:    "punctuation stripped, numeric label padded",
			episode: media.Episode{Title: "The Beginning: Part One!", Label: "3"},
			file:    "/show/ep3.mkv",
			season:  1,
			want:    "S01E03 - The Beginning Part One.mkv",
		},
		{
			name:    "non-numeric label falls back to raw text",
			episode: media.Episode{Title: "Special", Label: "A"},
			file:    "/show/special.mp4",
			season:  2,
			want:    "S02EA - Special.mp4",
		},
		{
			name:    "three digit episode keeps all digits",
			episode: media.Episode{Title: "Century", Label: "100"},
			file:    "/show/x.avi",
			season:  12,
			want:    "S12E100 - Century.avi",
		},
		{
			name:    "title with no usable characters collapses",
			episode: media.Episode{Title: "?!", Label: "4"},
			file:    "/show/x.mkv",
			season:  1,
			want:    "S01E04 - .mkv",
		},
		{
			name:    "extension taken after the last dot verbatim",
			episode: media.Episode{Title: "Pilot", Label: "1"},
			file:    "/show/pilot.720p.MKV",
			season:  1,
			want:    "S01E01 - Pilot.MKV",
		},
		{
			name:    "slashes and colons never reach the name",
			episode: media.Episode{Title: "AC/DC: Live", Label: "07"},
			file:    "/show/x.mkv",
			season:  3,
			want:    "S03E07 - ACDC Live.mkv",
		},
		{
			name:    "unicode letters survive",
			episode: media.Episode{Title: "Café Über", Label: "2"},
			file:    "/show/x.mkv",
			season:  1,
			want:    "S01E02 - Café Über.mkv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlanName(tt.episode, media.LocalFile{Path: tt.file}, tt.season)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanName_MissingExtension(t *testing.T) {
	ep := media.Episode{Title: "Pilot", Label: "1"}

	for _, path := range []string{"/show/pilot", "/show/.hidden", "/show/pilot.", "/show.d/pilot"} {
		t.Run(path, func(t *testing.T) {
			_, err := PlanName(ep, media.LocalFile{Path: path}, 1)
			assert.ErrorIs(t, err, ErrMissingExtension)
		})
	}
}

func TestEpisodeOrdinal(t *testing.T) {
	assert.Equal(t, "01", EpisodeOrdinal("1"))
	assert.Equal(t, "09", EpisodeOrdinal("09"))
	assert.Equal(t, "10", EpisodeOrdinal("10"))
	assert.Equal(t, "N/A", EpisodeOrdinal("N/A"))
	assert.Equal(t, "-1", EpisodeOrdinal("-1"))
	assert.Equal(t, "", EpisodeOrdinal(""))
}

func TestPreview(t *testing.T) {
	entries := []media.Assignment{
		{Episode: media.Episode{Title: "Pilot", Label: "1"}, File: media.LocalFile{Path: "/show/a.mkv"}},
		{Episode: media.Episode{Title: "Second", Label: "2"}, File: media.LocalFile{Path: "/show/b"}},
	}

	preview := Preview(entries, 1)
	require.Len(t, preview, 2)
	assert.Equal(t, "/show/S01E01 - Pilot.mkv", preview[0].TargetPath())
	assert.NoError(t, preview[0].Err)
	assert.ErrorIs(t, preview[1].Err, ErrMissingExtension)
}
