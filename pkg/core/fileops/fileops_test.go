package fileops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mkv")
	dest := filepath.Join(dir, "dest.mkv")
	require.NoError(t, os.WriteFile(src, []byte("video payload"), 0644))

	require.NoError(t, CopyFile(src, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "video payload", string(data))

	// Source survives: placement copies, never moves.
	_, err = os.Stat(src)
	assert.NoError(t, err)
}

func TestCopyFileSkipsExistingDest(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mkv")
	dest := filepath.Join(dir, "dest.mkv")
	require.NoError(t, os.WriteFile(src, []byte("new content"), 0644))
	require.NoError(t, os.WriteFile(dest, []byte("kept"), 0644))

	require.NoError(t, CopyFile(src, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "kept", string(data))
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "nope.mkv"), filepath.Join(dir, "dest.mkv"))
	assert.Error(t, err)
}

func TestDirSize(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.bin"), make([]byte, 100), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.bin"), make([]byte, 50), 0644))

	assert.Equal(t, int64(150), DirSize(dir))
}

func TestDirSizeMissingRoot(t *testing.T) {
	assert.Equal(t, int64(0), DirSize(filepath.Join(t.TempDir(), "absent")))
}
