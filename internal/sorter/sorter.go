// Package sorter wraps the external metadata/rename tool. The tool performs
// online lookup, renaming and copying; the pipeline only hands it a source
// directory, a database kind, a query hint and the destination layout.
package sorter

import (
	"context"
	"fmt"
	"os/exec"

	log "github.com/sirupsen/logrus"
)

var commandContext = exec.CommandContext

// Databases the sorter is asked to search against.
const (
	DatabaseTV    = "TheTVDB"
	DatabaseMovie = "TheMovieDB"
)

// Naming templates for the destination layout.
const (
	TVFormat    = "{n} ({y})/Season {s.pad(2)}/{n} - {s00e00}"
	MovieFormat = "{n} ({y})/{n} ({y})"
)

// Request carries one sort invocation.
type Request struct {
	SourceDir  string
	Database   string
	Query      string
	OutputRoot string
	Format     string
}

// Sorter is the capability the pipeline needs from the rename tool.
type Sorter interface {
	Name() string
	Available() bool
	// Sort must copy (never move or delete) out of SourceDir and must skip
	// rather than overwrite on destination name collisions.
	Sort(ctx context.Context, req Request) error
}

// FileBot drives the `filebot` binary.
type FileBot struct {
	Binary string
}

// NewFileBot returns a FileBot sorter with the default binary name.
func NewFileBot() *FileBot { return &FileBot{Binary: "filebot"} }

func (f *FileBot) Name() string { return "filebot" }

func (f *FileBot) Available() bool {
	_, err := exec.LookPath(f.Binary)
	return err == nil
}

func (f *FileBot) Sort(ctx context.Context, req Request) error {
	args := []string{
		"-rename", "-r", req.SourceDir,
		"--db", req.Database,
		"--q", req.Query,
		"--output", req.OutputRoot,
		"--format", req.Format,
		"--action", "copy",
		"--conflict", "skip",
		"-non-strict",
	}
	cmd := commandContext(ctx, f.Binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Debugf("filebot output for %s: %s", req.SourceDir, string(output))
		return fmt.Errorf("filebot failed for %s (query %q): %w", req.SourceDir, req.Query, err)
	}
	return nil
}
