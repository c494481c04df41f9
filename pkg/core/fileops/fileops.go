package fileops

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CopyFile copies src to dest, skipping silently when dest already exists.
// This mirrors the conflict policy the external sorter runs with, so manual
// placement and sorted placement never disagree about an existing file.
func CopyFile(src, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		os.Remove(dest)
		return fmt.Errorf("failed to copy %s to %s: %w", src, dest, err)
	}
	return nil
}

// DirSize returns the total size in bytes of all regular files under root.
// Unreadable entries are skipped rather than failing the walk.
func DirSize(root string) int64 {
	var total int64
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}
