// Package normalize turns noisy release names into clean, human-readable
// search titles. The pipeline order matters: later steps assume earlier
// ones already ran (e.g. the tag vocabulary is matched on space-separated
// words, so separators must be replaced first).
package normalize

import (
	"path/filepath"
	"regexp"
	"strings"

	ptn "github.com/razsteinmetz/go-ptn"

	"github.com/angelospk/unpacksort/internal/constants"
)

// Sentinel titles returned when normalization strips a name down to nothing.
const (
	UnknownShow  = "Unknown Show"
	UnknownMovie = "Unknown Movie"
)

var (
	separatorRegex    = regexp.MustCompile(`[._]+`)
	bracketRegex      = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)|\{[^}]*\}`)
	releaseGroupRegex = regexp.MustCompile(`-([A-Za-z0-9]{2,20})\s*$`)
	titleCaseRegex    = regexp.MustCompile(`^[A-Z][a-z]+$`)
	lowerWordRegex    = regexp.MustCompile(`^[a-z]+$`)
	yearRegex         = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	whitespaceRegex   = regexp.MustCompile(`\s+`)

	seasonEpisodeRegex = regexp.MustCompile(`(?i)\bS\d{1,2}[\s.]?E\d{1,3}(?:[-E]\d{1,3})?\b`)
	crossEpisodeRegex  = regexp.MustCompile(`(?i)\b\d{1,2}x\d{2,3}\b`)
	epTokenRegex       = regexp.MustCompile(`(?i)\bEp(?:isode)?\.?\s*\d{1,3}\b`)
	bareSeasonRegex    = regexp.MustCompile(`(?i)\bS\d{1,2}\b`)
	seasonWordRegex    = regexp.MustCompile(`(?i)\bSeason\s*\d+\b`)
	discWordRegex      = regexp.MustCompile(`(?i)\bDis[ck]\s*\d+\b`)
	sampleExtrasRegex  = regexp.MustCompile(`(?i)\b(?:Sample|Extras)\b`)
)

// releaseTags is the fixed vocabulary of resolution, codec, source and
// release annotations stripped from candidates. Matched as whole words,
// case-insensitively, after separators have become spaces.
var releaseTags = []string{
	"2160p", "1080p", "1080i", "720p", "576p", "480p", "4k", "uhd",
	"hdr10plus", "hdr10", "hdr", "dolby vision", "dovi", "sdr",
	"x264", "x265", "h264", "h265", "h 264", "h 265", "hevc", "avc",
	"xvid", "divx", "av1", "10bit", "8bit",
	"aac", "ac3", "eac3", "e-ac3", "dd5 1", "ddp5 1", "dts-hd", "dts hd",
	"dts", "truehd", "atmos", "flac", "mp3", "5 1", "7 1", "2 0",
	"bluray", "blu ray", "blu-ray", "bdrip", "brrip", "bdremux", "remux",
	"webrip", "web dl", "web-dl", "webdl", "web", "hdtv", "pdtv", "dsr",
	"dvdrip", "dvdscr", "dvd", "hdrip", "camrip", "cam", "telesync",
	"amzn", "nf", "hmax", "dsnp", "atvp", "hulu",
	"proper", "repack", "rerip", "internal", "limited", "extended",
	"unrated", "uncut", "remastered", "restored", "complete", "multi",
	"dubbed", "subbed", "dual audio", "hardsub", "hc", "retail",
}

var tagRegexes []*regexp.Regexp

func init() {
	for _, tag := range releaseTags {
		tagRegexes = append(tagRegexes, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(tag)+`\b`))
	}
}

// CandidateFromPath picks the deepest descriptive path segment. The fixed
// extraction directory name is a sentinel, not a description, so it is
// skipped in favor of its parent.
func CandidateFromPath(path string) string {
	clean := filepath.Clean(path)
	base := filepath.Base(clean)
	if base == constants.TempDirName {
		base = filepath.Base(filepath.Dir(clean))
	}
	return base
}

// ParentCandidate returns the next segment up from the one CandidateFromPath
// chose, for escalation when the deepest segment normalizes to nothing
// descriptive ("Season 2", "Disc 1", ...).
func ParentCandidate(path string) string {
	clean := filepath.Clean(path)
	if filepath.Base(clean) == constants.TempDirName {
		clean = filepath.Dir(clean)
	}
	parent := filepath.Dir(clean)
	base := filepath.Base(parent)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return base
}

// Clean runs the normalization pipeline over one raw name. When tv is set,
// episode and season markers and the generic season-folder words are
// stripped as well. The returned string keeps the original word casing;
// callers lowercase it for matching.
func Clean(raw string, tv bool) string {
	text := strings.TrimSuffix(raw, filepath.Ext(raw))

	// Release names parse well enough often enough that the parsed title is
	// a better starting point than the raw string. Fall back to the raw
	// text when parsing yields nothing; the pipeline below catches whatever
	// the parser leaves behind either way.
	if parsed, err := ptn.Parse(raw); err == nil && strings.TrimSpace(parsed.Title) != "" {
		text = parsed.Title
	}

	text = separatorRegex.ReplaceAllString(text, " ")
	text = bracketRegex.ReplaceAllString(text, " ")
	text = stripReleaseGroup(strings.TrimSpace(text))
	text = yearRegex.ReplaceAllString(text, " ")

	if tv {
		text = seasonEpisodeRegex.ReplaceAllString(text, " ")
		text = crossEpisodeRegex.ReplaceAllString(text, " ")
		text = epTokenRegex.ReplaceAllString(text, " ")
		text = bareSeasonRegex.ReplaceAllString(text, " ")
		text = seasonWordRegex.ReplaceAllString(text, " ")
		text = discWordRegex.ReplaceAllString(text, " ")
		text = sampleExtrasRegex.ReplaceAllString(text, " ")
	}

	for _, re := range tagRegexes {
		text = re.ReplaceAllString(text, " ")
	}

	text = strings.Trim(text, " -–")
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(text), " ")
}

// stripReleaseGroup removes a trailing "-GROUP" token. Plain dictionary
// words stay attached so hyphenated titles ("Spider-Man") survive; release
// groups are caps-heavy or carry digits ("RARBG", "NTb", "FGT").
func stripReleaseGroup(text string) string {
	match := releaseGroupRegex.FindStringSubmatch(text)
	if match == nil {
		return text
	}
	token := match[1]
	if titleCaseRegex.MatchString(token) || lowerWordRegex.MatchString(token) {
		return text
	}
	return strings.TrimSpace(text[:len(text)-len(match[0])])
}

// HasEpisodeMarker reports whether text still carries a season/episode
// token, used to decide whether to escalate to a parent path segment.
func HasEpisodeMarker(text string) bool {
	return seasonEpisodeRegex.MatchString(text) ||
		crossEpisodeRegex.MatchString(text) ||
		epTokenRegex.MatchString(text)
}

// generic reports whether a cleaned candidate carries no descriptive words.
func generic(cleaned string) bool {
	if cleaned == "" {
		return true
	}
	for _, word := range strings.Fields(strings.ToLower(cleaned)) {
		switch word {
		case "season", "disc", "disk", "sample", "extras", "part":
		default:
			if !isNumeric(word) {
				return false
			}
		}
	}
	return true
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// DeriveHint produces the final search hint for a source path: pick the
// candidate segment, clean it, escalate to the parent segment when the
// result is generic or still episode-marked, resolve overrides, and fall
// back to a sentinel rather than returning an empty hint.
func DeriveHint(sourcePath string, tv bool, resolver *Resolver) string {
	cleaned := Clean(CandidateFromPath(sourcePath), tv)

	if tv && (generic(cleaned) || HasEpisodeMarker(cleaned)) {
		if parent := ParentCandidate(sourcePath); parent != "" {
			if escalated := Clean(parent, tv); !generic(escalated) {
				cleaned = escalated
			}
		}
	}

	if generic(cleaned) {
		if tv {
			return UnknownShow
		}
		return UnknownMovie
	}

	if resolver != nil {
		return resolver.Resolve(cleaned)
	}
	return cleaned
}
