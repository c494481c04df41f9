// Package processor composes the per-directory pipeline: discover an
// archive set, ensure it is extracted exactly once, classify the output as
// TV or Movie, hand off to the external sorter, and record completion so a
// re-run touches nothing.
package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	log "github.com/sirupsen/logrus"

	"github.com/angelospk/unpacksort/internal/constants"
	"github.com/angelospk/unpacksort/internal/extractor"
	"github.com/angelospk/unpacksort/internal/sorter"
	"github.com/angelospk/unpacksort/pkg/core/classify"
	"github.com/angelospk/unpacksort/pkg/core/fileops"
	"github.com/angelospk/unpacksort/pkg/core/journal"
	"github.com/angelospk/unpacksort/pkg/core/normalize"
	"github.com/angelospk/unpacksort/pkg/core/sidecar"
)

// Config is the explicit pipeline configuration. There is no ambient state;
// everything the pipeline needs arrives here.
type Config struct {
	// WatchDir is the root directory scanned for archive sets: the root
	// itself first, then each immediate subdirectory.
	WatchDir string
	// DestDir is the library root handed to the external sorter.
	DestDir string
	// Force wipes and re-extracts every directory regardless of recorded
	// signatures.
	Force bool
	// MaxRetries bounds extraction attempts and sorter invocations,
	// tracked independently per operation.
	MaxRetries int
	// RetryDelay is the fixed pause between attempts. No backoff.
	RetryDelay time.Duration
	// AttemptTimeout bounds a single external tool invocation. Zero keeps
	// the historical blocking behavior.
	AttemptTimeout time.Duration
	// ProbeVideo enables ffprobe verification of extracted output before a
	// cache hit is accepted.
	ProbeVideo bool
	// RulesPath points at the user override rules file. Empty or missing
	// file means built-in rules only.
	RulesPath string
	// JournalPath points at the processed-directory history file. Empty
	// disables the journal.
	JournalPath string
}

// Pipeline processes directories strictly sequentially, one at a time.
type Pipeline struct {
	cfg       Config
	primary   extractor.Extractor
	secondary extractor.Extractor
	sorter    sorter.Sorter
	resolver  *normalize.Resolver
	journal   *journal.Journal
	logger    *log.Logger
}

// lockFileName is the advisory lock at the watch root that keeps two
// pipeline instances from interleaving sidecar writes.
const lockFileName = ".unpacksort.lock"

// New builds a Pipeline. secondary may be nil when no fallback extractor is
// configured. A nil logger gets the default stdout text logger.
func New(cfg Config, primary, secondary extractor.Extractor, srt sorter.Sorter, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New()
		logger.SetFormatter(&log.TextFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(log.InfoLevel)
	}

	rules, err := normalize.LoadRules(cfg.RulesPath)
	if err != nil {
		logger.Warnf("Failed to load override rules from %s: %v. Using built-in rules only.", cfg.RulesPath, err)
	}

	var jnl *journal.Journal
	if cfg.JournalPath != "" {
		jnl, err = journal.Open(cfg.JournalPath, logger)
		if err != nil {
			logger.Warnf("Failed to open journal at %s: %v. Continuing without history.", cfg.JournalPath, err)
		}
	}

	return &Pipeline{
		cfg:       cfg,
		primary:   primary,
		secondary: secondary,
		sorter:    srt,
		resolver:  normalize.NewResolver(rules),
		journal:   jnl,
		logger:    logger,
	}
}

// Run locks the watch root and processes it and its immediate
// subdirectories in one sequential pass. A failure in one directory never
// halts processing of the next; only a cancelled context or an unavailable
// lock stops the run.
func (p *Pipeline) Run(ctx context.Context) error {
	lock := flock.New(filepath.Join(p.cfg.WatchDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire watch lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another unpacksort instance holds the lock on %s", p.cfg.WatchDir)
	}
	defer lock.Unlock()

	dirs, err := p.collectDirectories()
	if err != nil {
		return err
	}

	p.logger.Infof("Processing %d directories under %s", len(dirs), p.cfg.WatchDir)
	failures := 0
	for _, dir := range dirs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := p.processDirectory(ctx, dir); err != nil {
			p.logger.Errorf("Directory %s failed: %v", dir, err)
			failures++
		}
	}
	p.logger.Infof("Run complete: %d directories, %d failures", len(dirs), failures)
	return nil
}

// collectDirectories yields the watch root first, then its immediate
// subdirectories, skipping the pipeline's own extraction output.
func (p *Pipeline) collectDirectories() ([]string, error) {
	entries, err := os.ReadDir(p.cfg.WatchDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read watch directory %s: %w", p.cfg.WatchDir, err)
	}

	dirs := []string{p.cfg.WatchDir}
	for _, entry := range entries {
		if entry.IsDir() && entry.Name() != constants.TempDirName {
			dirs = append(dirs, filepath.Join(p.cfg.WatchDir, entry.Name()))
		}
	}
	return dirs, nil
}

// processDirectory runs the full pipeline for one directory: extract,
// classify, sort, mark done.
func (p *Pipeline) processDirectory(ctx context.Context, dir string) error {
	tempDir, err := p.ensureExtracted(ctx, dir)
	if err != nil {
		p.record(journal.Entry{Dir: dir, Outcome: journal.OutcomeFailed, Error: err.Error()})
		return err
	}
	if tempDir == "" {
		p.logger.Debugf("Nothing to do in %s", dir)
		return nil
	}

	// Extraction output can be reused across runs; the completion marker is
	// what guards the sorter from running twice. Cache no-ops are not
	// journaled, a steady-state re-run should leave no trace anywhere.
	if !p.cfg.Force && sidecar.IsComplete(dir) {
		p.logger.Debugf("Already sorted: %s", dir)
		return nil
	}

	entry := journal.Entry{
		Dir:       dir,
		Signature: sidecar.ReadSignature(dir),
		Bytes:     fileops.DirSize(tempDir),
	}

	videos := classify.FindVideos(tempDir)
	result := classify.Classify(videos, tempDir, p.resolver)
	entry.Kind = result.Kind.String()
	entry.Hint = result.Hint

	switch result.Kind {
	case classify.KindNone:
		p.logger.Infof("No video content in %s, skipping", tempDir)
		entry.Outcome = journal.OutcomeSkipped
		p.record(entry)
		return nil
	case classify.KindTV:
		p.logger.Infof("Classified %s as TV (query %q)", dir, result.Hint)
		entry.Outcome, err = p.sortTV(ctx, tempDir, result.Hint)
	case classify.KindMovie:
		p.logger.Infof("Classified %s as Movie (query %q)", dir, result.Hint)
		entry.Outcome, err = p.sortMovie(ctx, tempDir, result.Hint)
	}
	if err != nil {
		entry.Outcome = journal.OutcomeFailed
		entry.Error = err.Error()
		p.record(entry)
		return err
	}

	if err := sidecar.MarkComplete(dir); err != nil {
		return err
	}
	p.record(entry)
	p.logger.Infof("Finished %s", dir)
	return nil
}

// record appends to the journal when one is configured. Journal trouble is
// logged, never fatal; the library placement already happened.
func (p *Pipeline) record(entry journal.Entry) {
	if p.journal == nil {
		return
	}
	if err := p.journal.Record(entry); err != nil {
		p.logger.Warnf("Failed to record journal entry for %s: %v", entry.Dir, err)
	}
}

// sleepBetweenAttempts waits the fixed retry delay, aborting early when the
// context is cancelled.
func sleepBetweenAttempts(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
