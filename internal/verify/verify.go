// Package verify decides whether a directory of extracted output is usable:
// at least one recognized video file, optionally confirmed to carry an
// actual video stream via ffprobe.
package verify

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	ffprobe "gopkg.in/vansante/go-ffprobe.v2"

	"github.com/angelospk/unpacksort/pkg/core/classify"
)

// probeTimeout bounds a single ffprobe invocation; probing local files is
// fast, a hang here means a broken container.
const probeTimeout = 30 * time.Second

// probeFunc is swapped out by tests.
var probeFunc = ffprobe.ProbeURL

// HasVideo reports whether dir contains playable video. With probe off the
// check is extension-only; with probe on, at least one file must expose a
// video stream to ffprobe.
func HasVideo(ctx context.Context, dir string, probe bool) bool {
	videos := classify.FindVideos(dir)
	if len(videos) == 0 {
		return false
	}
	if !probe {
		return true
	}

	for _, path := range videos {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		data, err := probeFunc(probeCtx, path)
		cancel()
		if err != nil {
			log.Warnf("ffprobe failed for %s: %v", path, err)
			continue
		}
		if data != nil && data.FirstVideoStream() != nil {
			return true
		}
	}
	log.Warnf("No file in %s exposes a video stream", dir)
	return false
}
