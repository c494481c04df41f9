package archive

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Member is one file belonging to an archive set, captured with the
// metadata the signature is computed from.
type Member struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Set is the group of sibling files in one directory that together form a
// single compressed release. Identity is the directory path; the set is
// rebuilt from the filesystem on every run and never persisted.
type Set struct {
	Dir     string
	Members []Member
}

// memberPatterns covers the part-naming conventions of RAR, 7z and ZIP
// releases. Order matters only for readability; a filename matching any
// pattern is a member.
var memberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\.part\d{1,3}\.rar$`),
	regexp.MustCompile(`(?i)\.rar$`),
	regexp.MustCompile(`(?i)\.r\d{2}$`),
	regexp.MustCompile(`(?i)\.7z$`),
	regexp.MustCompile(`(?i)\.7z\.\d{3}$`),
	regexp.MustCompile(`(?i)\.zip$`),
	regexp.MustCompile(`(?i)\.z\d{2}$`),
	regexp.MustCompile(`(?i)\.\d{3}$`),
}

var firstPartRar = regexp.MustCompile(`(?i)\.part0*1\.rar$`)
var anyPartRar = regexp.MustCompile(`(?i)\.part\d{1,3}\.rar$`)

// IsMember reports whether a filename looks like part of an archive set.
func IsMember(name string) bool {
	for _, re := range memberPatterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// FindSet lists the archive members at the immediate depth of dir. It never
// recurses: nested directories may hold the pipeline's own extraction
// output or unrelated archives. An unreadable directory yields an empty
// set, not an error, so the signature of such a directory is stable.
func FindSet(dir string) *Set {
	set := &Set{Dir: dir}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return set
	}

	for _, entry := range entries {
		if entry.IsDir() || !IsMember(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		set.Members = append(set.Members, Member{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(set.Members, func(i, j int) bool {
		return set.Members[i].Name < set.Members[j].Name
	})
	return set
}

// Empty reports whether the directory held no archive members at all.
func (s *Set) Empty() bool {
	return s == nil || len(s.Members) == 0
}

// Volumes returns the member paths in extraction order: the candidate first
// volume leads, followed by the remaining members sorted by name. Extractors
// are pointed at one entry at a time and are expected to pull in sibling
// volumes themselves, so in practice only the head of this list is opened.
func (s *Set) Volumes() []string {
	if s.Empty() {
		return nil
	}
	first := s.firstVolume()
	paths := make([]string, 0, len(s.Members))
	paths = append(paths, filepath.Join(s.Dir, first))
	for _, m := range s.Members {
		if m.Name != first {
			paths = append(paths, filepath.Join(s.Dir, m.Name))
		}
	}
	return paths
}

// firstVolume picks the member an extractor should be handed. Multi-volume
// conventions put the archive headers in part01 / .001 / the bare .rar,
// so those take precedence over continuation volumes like .r00 or .z01.
func (s *Set) firstVolume() string {
	var names []string
	for _, m := range s.Members {
		names = append(names, m.Name)
	}

	for _, name := range names {
		if firstPartRar.MatchString(name) {
			return name
		}
	}
	for _, name := range names {
		lower := strings.ToLower(name)
		if strings.HasSuffix(lower, ".rar") && !anyPartRar.MatchString(name) {
			return name
		}
	}
	for _, suffix := range []string{".7z.001", ".7z", ".zip", ".001"} {
		for _, name := range names {
			if strings.HasSuffix(strings.ToLower(name), suffix) {
				return name
			}
		}
	}
	return names[0]
}
