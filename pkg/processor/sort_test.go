package processor_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelospk/unpacksort/pkg/core/sidecar"
	"github.com/angelospk/unpacksort/pkg/processor"
)

func TestTVManualFallbackPlacesMarkedEpisodes(t *testing.T) {
	cfg := newConfig(t)
	dir := sourceDir(t, cfg, "Show.S01.1080p")
	ext := &fakeExtractor{name: "fake", payloads: []string{
		"Show.S01E02.mkv",
		"Show.S01E03.mkv",
		"Behind.The.Scenes.mkv",
	}}
	srt := &fakeSorter{failing: true}

	p := processor.New(cfg, ext, nil, srt, quietLogger())
	require.NoError(t, p.Run(context.Background()))

	// The sorter was retried and gave up; the fallback placed what the
	// filenames identify and the run still counts as a success.
	assert.Equal(t, cfg.MaxRetries, srt.calls)
	assert.True(t, sidecar.IsComplete(dir))

	seasonDir := filepath.Join(cfg.DestDir, "Show", "Season 01")
	_, err := os.Stat(filepath.Join(seasonDir, "Show.S01E02.mkv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(seasonDir, "Show.S01E03.mkv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(seasonDir, "Behind.The.Scenes.mkv"))
	assert.True(t, os.IsNotExist(err), "files without an episode marker stay put")

	// Copies, not moves: the sources must still exist.
	tempVideo := filepath.Join(dir, "_unpacked", "Show.S01E02.mkv")
	_, err = os.Stat(tempVideo)
	assert.NoError(t, err)
}

func TestMovieDuplicateGuardSkipsSorter(t *testing.T) {
	cfg := newConfig(t)
	dir := sourceDir(t, cfg, "Cool.Movie.2015.1080p")
	require.NoError(t, os.Mkdir(filepath.Join(cfg.DestDir, "Cool Movie (2015)"), 0755))
	ext := &fakeExtractor{name: "fake", payloads: []string{"Cool.Movie.2015.mkv"}}
	srt := &fakeSorter{}

	p := processor.New(cfg, ext, nil, srt, quietLogger())
	require.NoError(t, p.Run(context.Background()))

	assert.Equal(t, 0, srt.calls, "existing library entry suppresses the lookup")
	assert.True(t, sidecar.IsComplete(dir))
}

func TestMovieSortFailureHasNoFallback(t *testing.T) {
	cfg := newConfig(t)
	dir := sourceDir(t, cfg, "Cool.Movie.2015.1080p")
	ext := &fakeExtractor{name: "fake", payloads: []string{"Cool.Movie.2015.mkv"}}
	srt := &fakeSorter{failing: true}

	p := processor.New(cfg, ext, nil, srt, quietLogger())
	require.NoError(t, p.Run(context.Background()))

	assert.Equal(t, cfg.MaxRetries, srt.calls)
	assert.False(t, sidecar.IsComplete(dir))

	// Nothing was copied manually for the movie.
	entries, err := os.ReadDir(cfg.DestDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMovieSortUsesMovieDatabaseAndTemplate(t *testing.T) {
	cfg := newConfig(t)
	sourceDir(t, cfg, "Cool.Movie.2015.1080p")
	ext := &fakeExtractor{name: "fake", payloads: []string{"Cool.Movie.2015.mkv"}}
	srt := &fakeSorter{}

	p := processor.New(cfg, ext, nil, srt, quietLogger())
	require.NoError(t, p.Run(context.Background()))

	require.Equal(t, 1, srt.calls)
	req := srt.requests[0]
	assert.Equal(t, "Cool Movie", req.Query)
	assert.Equal(t, cfg.DestDir, req.OutputRoot)
	assert.NotEqual(t, "", req.Format)
}
