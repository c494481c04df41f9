package archive_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelospk/unpacksort/pkg/core/archive"
)

func TestIsMember(t *testing.T) {
	tests := []struct {
		name   string
		member bool
	}{
		{"release.rar", true},
		{"release.part01.rar", true},
		{"release.part1.rar", true},
		{"RELEASE.R00", true},
		{"release.r15", true},
		{"release.001", true},
		{"release.002", true},
		{"release.7z", true},
		{"release.7z.001", true},
		{"release.zip", true},
		{"release.z01", true},
		{"release.mkv", false},
		{"release.nfo", false},
		{"release.rar.txt", false},
		{"release.sfv", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.member, archive.IsMember(tc.name))
		})
	}
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("payload "+name), 0644))
	}
}

func TestFindSetImmediateDepthOnly(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "release.rar", "release.r00", "notes.nfo")

	// Nested archives must not join the set: they may be the pipeline's own
	// output or an unrelated release.
	nested := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(nested, 0755))
	writeFiles(t, nested, "other.rar")

	set := archive.FindSet(dir)
	require.False(t, set.Empty())
	require.Len(t, set.Members, 2)
	assert.Equal(t, "release.r00", set.Members[0].Name)
	assert.Equal(t, "release.rar", set.Members[1].Name)
}

func TestFindSetEmptyAndUnreadable(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "movie.mkv")
	assert.True(t, archive.FindSet(dir).Empty())

	missing := archive.FindSet(filepath.Join(dir, "does-not-exist"))
	assert.True(t, missing.Empty())
}

func TestVolumesOrdersFirstVolumeFirst(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		first string
	}{
		{
			name:  "part naming",
			files: []string{"rel.part03.rar", "rel.part01.rar", "rel.part02.rar"},
			first: "rel.part01.rar",
		},
		{
			name:  "classic rar plus continuation volumes",
			files: []string{"rel.r01", "rel.r00", "rel.rar"},
			first: "rel.rar",
		},
		{
			name:  "7z split",
			files: []string{"rel.7z.002", "rel.7z.001", "rel.7z.003"},
			first: "rel.7z.001",
		},
		{
			name:  "zip with spanned volumes",
			files: []string{"rel.z01", "rel.zip", "rel.z02"},
			first: "rel.zip",
		},
		{
			name:  "numeric split",
			files: []string{"rel.002", "rel.001"},
			first: "rel.001",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, tc.files...)

			volumes := archive.FindSet(dir).Volumes()
			require.Len(t, volumes, len(tc.files))
			assert.Equal(t, filepath.Join(dir, tc.first), volumes[0])
		})
	}
}
