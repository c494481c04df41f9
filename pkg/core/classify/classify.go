// Package classify labels extracted video content as TV or Movie. Each
// heuristic is a pure predicate over the sorted video filenames so the rule
// order stays auditable and each rule testable on its own.
package classify

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	ptn "github.com/razsteinmetz/go-ptn"

	"github.com/angelospk/unpacksort/internal/constants"
	"github.com/angelospk/unpacksort/pkg/core/normalize"
)

// Kind is the classification outcome for one directory.
type Kind int

const (
	// KindNone means no recognized video content was found; the directory
	// is not processed further.
	KindNone Kind = iota
	KindTV
	KindMovie
)

func (k Kind) String() string {
	switch k {
	case KindTV:
		return "tv"
	case KindMovie:
		return "movie"
	default:
		return "none"
	}
}

// Result is the tagged classification variant, decided once per directory
// per run.
type Result struct {
	Kind Kind
	Hint string
}

var (
	seasonEpisodeRegex = regexp.MustCompile(`(?i)\bs(\d{1,2})[\s._-]?e(\d{1,3})\b`)
	crossEpisodeRegex  = regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{2,3})\b`)
	bareEpisodeRegex   = regexp.MustCompile(`(?i)(?:^|[\s._(\[-])e(\d{2,3})(?:[\s._)\]-]|\.\w+$|$)`)
	epWordRegex        = regexp.MustCompile(`(?i)(?:^|[\s._(\[-])ep(?:isode)?[\s._-]?(\d{1,3})(?:[\s._)\]-]|\.\w+$|$)`)
	partTokenRegex     = regexp.MustCompile(`(?i)(?:^|[\s._(\[-])p(?:ar)?t[\s._-]?(\d{1,2}|ix|iv|v?i{1,3}|v|x)(?:[\s._)\]-]|\.\w+$|$)`)
	yearInPathRegex    = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// miniseriesThreshold is how many "Part N" files it takes before a run of
// parts reads as episodic rather than a multi-part film.
const miniseriesThreshold = 5

// FindVideos walks root recursively and returns the full paths of all
// recognized video files. Traversal errors on individual entries are
// skipped; classification works with whatever is reachable.
func FindVideos(root string) []string {
	var videos []string
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if constants.VideoExtensions[strings.ToLower(filepath.Ext(path))] {
			videos = append(videos, path)
		}
		return nil
	})
	return videos
}

// hasEpisodeMarker fires on a season+episode pattern, a standalone episode
// number, or an "Ep N" token in any filename.
func hasEpisodeMarker(names []string) bool {
	for _, name := range names {
		if seasonEpisodeRegex.MatchString(name) ||
			crossEpisodeRegex.MatchString(name) ||
			bareEpisodeRegex.MatchString(name) ||
			epWordRegex.MatchString(name) {
			return true
		}
	}
	return false
}

// countPartTokens counts filenames carrying a "Part/Pt <number-or-roman>"
// token.
func countPartTokens(names []string) int {
	count := 0
	for _, name := range names {
		if partTokenRegex.MatchString(name) {
			count++
		}
	}
	return count
}

// movieGuard recognizes the 1–2 file "Part 1/Part 2" theatrical release:
// a Part token, a four-digit year somewhere in the path, and at most two
// video files.
func movieGuard(names []string, sourcePath string) bool {
	return countPartTokens(names) > 0 &&
		yearInPathRegex.MatchString(sourcePath) &&
		len(names) <= 2
}

// miniseries reads a long run of "Part N" files as episodic.
func miniseries(names []string) bool {
	return countPartTokens(names) >= miniseriesThreshold
}

// Classify decides TV or Movie for the videos found under a directory.
// Rules run strictly in order; later rules only run when earlier ones did
// not already decide TV. Filenames are sorted first so the outcome never
// depends on filesystem traversal order.
func Classify(videoPaths []string, sourcePath string, resolver *normalize.Resolver) Result {
	if len(videoPaths) == 0 {
		return Result{Kind: KindNone}
	}

	names := make([]string, 0, len(videoPaths))
	for _, p := range videoPaths {
		names = append(names, filepath.Base(p))
	}
	sort.Strings(names)

	tv := hasEpisodeMarker(names)
	if !tv && movieGuard(names, sourcePath) {
		return Result{
			Kind: KindMovie,
			Hint: normalize.DeriveHint(sourcePath, false, resolver),
		}
	}
	if !tv && miniseries(names) {
		tv = true
	}

	if tv {
		return Result{
			Kind: KindTV,
			Hint: normalize.DeriveHint(sourcePath, true, resolver),
		}
	}
	return Result{
		Kind: KindMovie,
		Hint: normalize.DeriveHint(sourcePath, false, resolver),
	}
}

// EpisodeRef extracts season and episode numbers straight from a filename
// for the manual placement fallback. Bare episode markers default the
// season to 1. Returns ok=false when the name carries no usable marker.
func EpisodeRef(filename string) (season, episode int, ok bool) {
	base := filepath.Base(filename)

	if parsed, err := ptn.Parse(base); err == nil && parsed.Season > 0 && parsed.Episode > 0 {
		return parsed.Season, parsed.Episode, true
	}

	if m := seasonEpisodeRegex.FindStringSubmatch(base); m != nil {
		return atoi(m[1]), atoi(m[2]), true
	}
	if m := crossEpisodeRegex.FindStringSubmatch(base); m != nil {
		return atoi(m[1]), atoi(m[2]), true
	}
	if m := epWordRegex.FindStringSubmatch(base); m != nil {
		return 1, atoi(m[1]), true
	}
	if m := bareEpisodeRegex.FindStringSubmatch(base); m != nil {
		return 1, atoi(m[1]), true
	}
	return 0, 0, false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
