// Package extractor wraps the external archive tools behind a single
// capability: point the tool at the first volume of a set and let it pull
// in sibling volumes on its own.
package extractor

import (
	"context"
	"fmt"
	"os/exec"

	log "github.com/sirupsen/logrus"
)

// commandContext is swapped out by tests to avoid invoking real binaries.
var commandContext = exec.CommandContext

// Extractor is the capability the orchestrator needs from an archive tool.
type Extractor interface {
	// Name identifies the tool in logs.
	Name() string
	// Available reports whether the underlying binary resolves on PATH.
	Available() bool
	// Extract unpacks the archive whose first volume is firstVolume into
	// outputDir, overwriting partial output from earlier attempts.
	Extract(ctx context.Context, firstVolume, outputDir string) error
}

// Unrar drives the `unrar` binary. RAR sets only; other formats fail and
// fall through to the secondary extractor.
type Unrar struct {
	Binary string
}

// NewUnrar returns an Unrar extractor with the default binary name.
func NewUnrar() *Unrar { return &Unrar{Binary: "unrar"} }

func (u *Unrar) Name() string { return "unrar" }

func (u *Unrar) Available() bool {
	_, err := exec.LookPath(u.Binary)
	return err == nil
}

func (u *Unrar) Extract(ctx context.Context, firstVolume, outputDir string) error {
	// -o+ overwrite, -p- never prompt for passwords.
	cmd := commandContext(ctx, u.Binary, "x", "-o+", "-p-", firstVolume, outputDir+"/")
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Debugf("unrar output for %s: %s", firstVolume, string(output))
		return fmt.Errorf("unrar failed for %s: %w", firstVolume, err)
	}
	return nil
}

// SevenZip drives the `7z` binary, which handles 7z, zip and split volumes.
type SevenZip struct {
	Binary string
}

// NewSevenZip returns a SevenZip extractor with the default binary name.
func NewSevenZip() *SevenZip { return &SevenZip{Binary: "7z"} }

func (s *SevenZip) Name() string { return "7z" }

func (s *SevenZip) Available() bool {
	_, err := exec.LookPath(s.Binary)
	return err == nil
}

func (s *SevenZip) Extract(ctx context.Context, firstVolume, outputDir string) error {
	cmd := commandContext(ctx, s.Binary, "x", "-y", "-p-", "-o"+outputDir, firstVolume)
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Debugf("7z output for %s: %s", firstVolume, string(output))
		return fmt.Errorf("7z failed for %s: %w", firstVolume, err)
	}
	return nil
}
