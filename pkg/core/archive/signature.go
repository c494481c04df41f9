package archive

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Signature returns a fingerprint over the set's member metadata. Two scans
// of unchanged content produce the same string; adding, removing, resizing
// or touching any member changes it. File contents are deliberately not
// read: size plus modification time is treated as a sufficient change proxy
// for multi-gigabyte archives.
func (s *Set) Signature() string {
	lines := make([]string, 0, len(s.Members))
	for _, m := range s.Members {
		lines = append(lines, fmt.Sprintf("%s|%d|%d", m.Name, m.Size, m.ModTime.UnixNano()))
	}
	// Members are already name-sorted, but sort the serialized tuples too so
	// the fingerprint does not depend on how the set was assembled.
	sort.Strings(lines)

	sum := sha1.Sum([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:])
}

// ComputeSignature fingerprints the archive set found at the immediate
// depth of dir. An unreadable or missing directory degrades to the
// signature of the empty set.
func ComputeSignature(dir string) string {
	return FindSet(dir).Signature()
}
