package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/angelospk/unpacksort/internal/constants"
	"github.com/angelospk/unpacksort/internal/verify"
	"github.com/angelospk/unpacksort/pkg/core/archive"
	errs "github.com/angelospk/unpacksort/pkg/core/errors"
	"github.com/angelospk/unpacksort/pkg/core/sidecar"
)

// ensureExtracted is the idempotency state machine, evaluated strictly in
// order per directory:
//
//  1. no archive members        -> nothing to do
//  2. force mode                -> wipe, re-extract, record fresh signature
//  3. signature unchanged:
//     a. temp dir has video     -> reuse (cache hit)
//     b. no completion marker   -> prior attempt left no playable output;
//        wipe and retry extraction
//     c. completion marker      -> fully processed, nothing to do
//  4. changed or first seen     -> wipe stale output, extract, persist
//     the new signature
//
// The empty string means no extraction action was taken or needed.
func (p *Pipeline) ensureExtracted(ctx context.Context, dir string) (string, error) {
	set := archive.FindSet(dir)
	if set.Empty() {
		return "", nil
	}

	tempDir := filepath.Join(dir, constants.TempDirName)
	signature := set.Signature()

	if p.cfg.Force {
		p.logger.Infof("Force mode: re-extracting %s", dir)
		if err := p.wipeTemp(tempDir); err != nil {
			return "", err
		}
		sidecar.ClearComplete(dir)
		extractErr := p.extractOne(ctx, set, tempDir)
		if err := sidecar.WriteSignature(dir, signature); err != nil {
			return "", err
		}
		if extractErr != nil {
			// Forced runs stay non-fatal: the fresh signature means the
			// next run lands on rule 3b and retries.
			p.logger.Errorf("Forced extraction failed for %s: %v", dir, extractErr)
		}
		return tempDir, nil
	}

	if sidecar.ReadSignature(dir) == signature {
		if verify.HasVideo(ctx, tempDir, p.cfg.ProbeVideo) {
			p.logger.Debugf("Cache hit: reusing extracted output in %s", tempDir)
			return tempDir, nil
		}
		if !sidecar.IsComplete(dir) {
			p.logger.Infof("Prior extraction of %s left no playable output, retrying", dir)
			if err := p.wipeTemp(tempDir); err != nil {
				return "", err
			}
			if err := p.extractOne(ctx, set, tempDir); err != nil {
				return "", err
			}
			return tempDir, nil
		}
		return "", nil
	}

	p.logger.Infof("New or changed archive set in %s, extracting", dir)
	if err := p.wipeTemp(tempDir); err != nil {
		return "", err
	}
	sidecar.ClearComplete(dir)
	extractErr := p.extractOne(ctx, set, tempDir)
	// The signature is recorded even when extraction failed, so the next
	// run treats the set as unchanged-but-unprocessed and retries via rule
	// 3b instead of rescanning from scratch.
	if err := sidecar.WriteSignature(dir, signature); err != nil {
		return "", err
	}
	if extractErr != nil {
		return "", extractErr
	}
	return tempDir, nil
}

// extractOne drives one extraction of the set into tempDir. Members are
// tried in volume order; the first member that extracts wins and the rest
// are skipped, because the extractor pulls sibling volumes in on its own.
// The whole pass is retried with a fixed delay up to the configured ceiling.
func (p *Pipeline) extractOne(ctx context.Context, set *archive.Set, tempDir string) error {
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return fmt.Errorf("failed to create extraction directory %s: %w", tempDir, err)
	}
	if err := sidecar.Claim(tempDir); err != nil {
		return err
	}

	volumes := set.Volumes()
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
		for _, volume := range volumes {
			if p.tryVolume(ctx, volume, tempDir) {
				return nil
			}
		}
		p.logger.Warnf("Extraction attempt %d/%d failed for %s", attempt, retries, set.Dir)
	}
	return fmt.Errorf("%w: %s", errs.ErrExtractionFailed, set.Dir)
}

// tryVolume runs the primary extractor on one volume, then the secondary
// fallback when configured.
func (p *Pipeline) tryVolume(ctx context.Context, volume, tempDir string) bool {
	attemptCtx, cancel := p.attemptContext(ctx)
	defer cancel()

	if err := p.primary.Extract(attemptCtx, volume, tempDir); err == nil {
		p.logger.Infof("Extracted %s with %s", volume, p.primary.Name())
		return true
	} else {
		p.logger.Warnf("%s failed on %s: %v", p.primary.Name(), volume, err)
	}

	if p.secondary == nil {
		return false
	}
	attemptCtx, cancel = p.attemptContext(ctx)
	defer cancel()
	if err := p.secondary.Extract(attemptCtx, volume, tempDir); err == nil {
		p.logger.Infof("Extracted %s with fallback %s", volume, p.secondary.Name())
		return true
	} else {
		p.logger.Warnf("Fallback %s failed on %s: %v", p.secondary.Name(), volume, err)
	}
	return false
}

// attemptContext applies the per-attempt timeout when one is configured.
func (p *Pipeline) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.cfg.AttemptTimeout > 0 {
		return context.WithTimeout(ctx, p.cfg.AttemptTimeout)
	}
	return context.WithCancel(ctx)
}

// wipeTemp removes prior extraction output. It refuses to delete a
// directory missing the ownership marker; such a directory was not created
// by this pipeline and destroying it is not ours to do.
func (p *Pipeline) wipeTemp(tempDir string) error {
	if _, err := os.Stat(tempDir); os.IsNotExist(err) {
		return nil
	}
	if !sidecar.Owned(tempDir) {
		return fmt.Errorf("%w: %s", errs.ErrNotOwned, tempDir)
	}
	if err := os.RemoveAll(tempDir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", tempDir, err)
	}
	return nil
}
