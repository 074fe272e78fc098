package media

import (
	"testing"

	"medialink/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifier_ExtractMetadata(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name string
		path string
		want reconcile.Metadata
	}{
		{
			name: "episode inside show folder",
			path: "/downloads/Show (2020)/Show - S1E2.mkv",
			want: reconcile.Metadata{"type": "series", "title": "Show", "year": 2020, "season": 1, "episode": 2},
		},
		{
			name: "scene movie name",
			path: "/downloads/The.Matrix.1999.1080p.BluRay.x264.mkv",
			want: reconcile.Metadata{"type": "movie", "title": "The Matrix", "year": 1999, "quality": "1080p"},
		},
		{
			name: "scene episode name",
			path: "/tv/Breaking.Bad.S05E14.720p.HDTV.mkv",
			want: reconcile.Metadata{"type": "series", "title": "Breaking Bad", "season": 5, "episode": 14, "quality": "720p"},
		},
		{
			name: "bare episode uses show folder",
			path: "/tv/Lost/Season 1/S01E03.mkv",
			want: reconcile.Metadata{"type": "series", "title": "Lost", "season": 1, "episode": 3},
		},
		{
			name: "cross notation",
			path: "/tv/show_name_3x07.avi",
			want: reconcile.Metadata{"type": "series", "title": "show name", "season": 3, "episode": 7},
		},
		{
			name: "4k maps to 2160p",
			path: "/movies/Dune (2021) 4K.mkv",
			want: reconcile.Metadata{"type": "movie", "title": "Dune", "year": 2021, "quality": "2160p"},
		},
		{
			name: "year-like title is kept",
			path: "/movies/1917.2019.2160p.mkv",
			want: reconcile.Metadata{"type": "movie", "title": "1917", "year": 2019, "quality": "2160p"},
		},
		{
			name: "plain movie",
			path: "/movies/Heat.mkv",
			want: reconcile.Metadata{"type": "movie", "title": "Heat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ExtractMetadata(tt.path, c.ClassifyType(tt.path))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifier_ClassifyType(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, reconcile.MediaSeries, c.ClassifyType("/tv/Show.S01E01.mkv"))
	assert.Equal(t, reconcile.MediaMovie, c.ClassifyType("/movies/Heat.1995.mkv"))
}

func TestClassifier_EmptyPath(t *testing.T) {
	_, err := NewClassifier().ExtractMetadata("", reconcile.MediaMovie)
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestClassifier_ExtractMetadataHonoursType(t *testing.T) {
	c := NewClassifier()

	got, err := c.ExtractMetadata("/tv/Show.S01E01.mkv", reconcile.MediaMovie)
	require.NoError(t, err)
	assert.Equal(t, "movie", got[reconcile.MetaType])
	assert.NotContains(t, got, reconcile.MetaSeason)

	got, err = c.ExtractMetadata("/tv/Show.S01E01.mkv", reconcile.MediaUnknown)
	require.NoError(t, err)
	assert.Equal(t, "series", got[reconcile.MetaType])
	assert.Equal(t, 1, got[reconcile.MetaEpisode])
}
