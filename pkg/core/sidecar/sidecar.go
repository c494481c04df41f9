// Package sidecar persists the small per-directory state files the pipeline
// uses to stay idempotent: the archive-set signature, the completion marker
// written after a successful sort, and the ownership marker that gates
// destructive cleanup of extraction output.
package sidecar

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/angelospk/unpacksort/internal/constants"
)

// ReadSignature returns the signature recorded for dir on a previous run.
// A missing or unreadable file yields the empty string: the caller treats
// that as "first seen".
func ReadSignature(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, constants.SignatureFileName))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// WriteSignature records the current signature for dir, overwriting any
// previous value. Written whenever an extraction is (re-)attempted, success
// or not, so the next run sees the attempt.
func WriteSignature(dir, signature string) error {
	path := filepath.Join(dir, constants.SignatureFileName)
	if err := os.WriteFile(path, []byte(signature+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write signature file %s: %w", path, err)
	}
	return nil
}

// IsComplete reports whether the external sort already succeeded for dir.
func IsComplete(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, constants.CompletionFileName))
	return err == nil
}

// MarkComplete flags dir as fully processed. Presence-only; the content is
// irrelevant and exists purely so the file is non-empty for inspection.
func MarkComplete(dir string) error {
	path := filepath.Join(dir, constants.CompletionFileName)
	if err := os.WriteFile(path, []byte("done\n"), 0644); err != nil {
		return fmt.Errorf("failed to write completion marker %s: %w", path, err)
	}
	return nil
}

// ClearComplete removes the completion marker, used when force mode
// re-extracts a directory that was previously finished.
func ClearComplete(dir string) {
	_ = os.Remove(filepath.Join(dir, constants.CompletionFileName))
}

// Claim writes the ownership marker inside tempDir, asserting the directory
// was created by this pipeline and may later be wiped by it.
func Claim(tempDir string) error {
	path := filepath.Join(tempDir, constants.OwnershipFileName)
	if err := os.WriteFile(path, []byte("unpacksort\n"), 0644); err != nil {
		return fmt.Errorf("failed to write ownership marker %s: %w", path, err)
	}
	return nil
}

// Owned reports whether tempDir carries the ownership marker.
func Owned(tempDir string) bool {
	_, err := os.Stat(filepath.Join(tempDir, constants.OwnershipFileName))
	return err == nil
}
