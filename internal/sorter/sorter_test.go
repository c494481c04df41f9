package sorter

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBotInvocation(t *testing.T) {
	var recorded []string
	orig := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		recorded = append([]string{name}, args...)
		return exec.CommandContext(ctx, "true")
	}
	t.Cleanup(func() { commandContext = orig })

	fb := NewFileBot()
	err := fb.Sort(context.Background(), Request{
		SourceDir:  "/watch/show/_unpacked",
		Database:   DatabaseTV,
		Query:      "The Wire",
		OutputRoot: "/library",
		Format:     TVFormat,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"filebot",
		"-rename", "-r", "/watch/show/_unpacked",
		"--db", DatabaseTV,
		"--q", "The Wire",
		"--output", "/library",
		"--format", TVFormat,
		"--action", "copy",
		"--conflict", "skip",
		"-non-strict",
	}, recorded)
}

func TestFileBotReportsFailure(t *testing.T) {
	orig := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "false")
	}
	t.Cleanup(func() { commandContext = orig })

	fb := NewFileBot()
	err := fb.Sort(context.Background(), Request{SourceDir: "/x", Query: "q"})
	assert.Error(t, err)
}
