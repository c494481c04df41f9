package verify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ffprobe "gopkg.in/vansante/go-ffprobe.v2"
)

func writeVideo(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("video"), 0644))
}

func TestHasVideoByExtension(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, HasVideo(context.Background(), dir, false))

	writeVideo(t, dir, "episode.mkv")
	assert.True(t, HasVideo(context.Background(), dir, false))
}

func TestHasVideoMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	assert.False(t, HasVideo(context.Background(), missing, false))
}

func TestHasVideoWithProbe(t *testing.T) {
	dir := t.TempDir()
	writeVideo(t, dir, "episode.mkv")

	orig := probeFunc
	t.Cleanup(func() { probeFunc = orig })

	probeFunc = func(ctx context.Context, path string, extraOpts ...string) (*ffprobe.ProbeData, error) {
		return &ffprobe.ProbeData{Streams: []*ffprobe.Stream{{CodecType: "video"}}}, nil
	}
	assert.True(t, HasVideo(context.Background(), dir, true))

	probeFunc = func(ctx context.Context, path string, extraOpts ...string) (*ffprobe.ProbeData, error) {
		return nil, errors.New("broken container")
	}
	assert.False(t, HasVideo(context.Background(), dir, true))

	// A file that probes fine but carries no video stream does not count.
	probeFunc = func(ctx context.Context, path string, extraOpts ...string) (*ffprobe.ProbeData, error) {
		return &ffprobe.ProbeData{Streams: []*ffprobe.Stream{{CodecType: "audio"}}}, nil
	}
	assert.False(t, HasVideo(context.Background(), dir, true))
}
