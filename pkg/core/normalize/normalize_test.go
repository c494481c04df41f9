package normalize_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/angelospk/unpacksort/internal/constants"
	"github.com/angelospk/unpacksort/pkg/core/normalize"
)

func TestCleanMovieNames(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "dots, year, tags and release group",
			raw:  "Cool.Movie.2015.1080p.BluRay.x264-SPARKS.mkv",
			want: "Cool Movie",
		},
		{
			name: "bracketed annotations",
			raw:  "Cool.Movie.[RARBG].2015.1080p.WEB-DL.x265.mkv",
			want: "Cool Movie",
		},
		{
			name: "underscore separators",
			raw:  "Cool_Movie_2015_720p",
			want: "Cool Movie",
		},
		{
			name: "hyphenated title survives group stripping",
			raw:  "Spider-Man.2002.1080p.BluRay",
			want: "Spider-Man",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalize.Clean(tc.raw, false))
		})
	}
}

func TestCleanTVNames(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "season episode marker and resolution",
			raw:  "Show.S01E02.1080p.mkv",
			want: "Show",
		},
		{
			name: "season pack folder",
			raw:  "The.Show.S03.Complete.720p.WEB-DL",
			want: "The Show",
		},
		{
			name: "episode word token",
			raw:  "The Show Ep 12 HDTV",
			want: "The Show",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalize.Clean(tc.raw, true))
		})
	}
}

func TestCandidateFromPathSkipsTempSentinel(t *testing.T) {
	path := filepath.Join("watch", "Cool.Movie.2015", constants.TempDirName)
	assert.Equal(t, "Cool.Movie.2015", normalize.CandidateFromPath(path))

	direct := filepath.Join("watch", "Cool.Movie.2015")
	assert.Equal(t, "Cool.Movie.2015", normalize.CandidateFromPath(direct))
}

func TestDeriveHintEscalatesGenericSegments(t *testing.T) {
	// "Season 2" describes nothing; the parent segment carries the title.
	path := filepath.Join("watch", "The.Wire.S02.720p", "Season 2", constants.TempDirName)
	hint := normalize.DeriveHint(path, true, nil)
	assert.Equal(t, "The Wire", hint)
}

func TestDeriveHintSentinels(t *testing.T) {
	assert.Equal(t, normalize.UnknownShow, normalize.DeriveHint("Sample", true, nil))
	assert.Equal(t, normalize.UnknownMovie, normalize.DeriveHint("Extras", false, nil))
}

func TestDeriveHintAppliesOverrides(t *testing.T) {
	resolver := normalize.NewResolver([]normalize.Rule{
		{Pattern: "wire", Replacement: "The Wire (2002)"},
	})
	path := filepath.Join("watch", "The.Wire.S01E01.720p")
	assert.Equal(t, "The Wire (2002)", normalize.DeriveHint(path, true, resolver))
}
