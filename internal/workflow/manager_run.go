package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"clipscribe/internal/dedup"
	"clipscribe/internal/links"
	"clipscribe/internal/logging"
	"clipscribe/internal/services"
	"clipscribe/internal/staging"
)

// Run executes one batch: alias rewrite, deduplication, the sequential clip
// loop, and the scratch sweep. The sweep runs on every return path with a
// context detached from ctx so an interrupt still leaves scratch empty.
// Per-clip failures never surface as the returned error; only losing the
// store before the clip loop starts does.
func (m *Manager) Run(ctx context.Context) (summary Summary, err error) {
	if err := m.validateStages(); err != nil {
		return summary, err
	}

	start := time.Now()
	summary.RunID = uuid.NewString()
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, m.logger)

	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)
		swept := staging.Sweep(cleanupCtx, m.cfg.Paths.ScratchDir, logger)
		summary.ScratchRemoved = len(swept.Removed)
		summary.Duration = time.Since(start)
		m.logSummary(logger, summary)
		m.notifyRunCompleted(cleanupCtx, summary)
	}()

	m.prepare(ctx, logger, &summary)

	candidates, err := m.store.Candidates(ctx, m.cfg.Workflow.Limit)
	if err != nil {
		logging.ErrorWithContext(logger, "failed to load candidate clips", "candidates_load_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check store.path and database permissions"),
		)
		return summary, fmt.Errorf("load candidates: %w", err)
	}
	summary.Candidates = len(candidates)
	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Int("candidates", len(candidates)),
		logging.Int("limit", m.cfg.Workflow.Limit),
	)
	m.notifyRunStarted(ctx, len(candidates))

	for i, clip := range candidates {
		if ctx.Err() != nil {
			logger.Info("run interrupted",
				logging.String(logging.FieldEventType, "run_interrupted"),
				logging.Int("remaining", len(candidates)-i),
			)
			break
		}
		result := m.processClip(ctx, clip)
		summary.record(result)
	}
	return summary, nil
}

func (m *Manager) validateStages() error {
	switch {
	case m.store == nil:
		return errors.New("workflow store is required")
	case m.cfg == nil:
		return errors.New("workflow config is required")
	case m.stages.Checker == nil:
		return errors.New("link checker stage not configured")
	case m.stages.Fetcher == nil:
		return errors.New("fetch stage not configured")
	case m.stages.Transcoder == nil:
		return errors.New("transcode stage not configured")
	case m.stages.Transcriber == nil:
		return errors.New("transcribe stage not configured")
	}
	return nil
}

// prepare runs the alias rewrite and deduplication passes. Both are
// maintenance: a failure is logged and the clip loop still runs.
func (m *Manager) prepare(ctx context.Context, logger *slog.Logger, summary *Summary) {
	concurrency := m.cfg.Workflow.PrepConcurrency

	rewriter := links.NewRewriter(m.store, m.normalizer, logger, concurrency)
	rewritten, err := rewriter.Run(ctx)
	summary.Rewritten = rewritten
	if err != nil {
		logging.WarnWithContext(logger, "alias rewrite incomplete", "alias_rewrite_failed",
			logging.Error(err),
			logging.Int("rewritten", rewritten),
			logging.String(logging.FieldErrorHint, "rerun to finish rewriting; the pass is idempotent"),
			logging.String(logging.FieldImpact, "some clips keep non-canonical links and may escape deduplication"),
		)
	} else if rewritten > 0 {
		logger.Info("clip links canonicalized",
			logging.String(logging.FieldEventType, "alias_rewrite"),
			logging.Int("rewritten", rewritten),
		)
	}

	deduplicator := dedup.New(m.store, logger, concurrency)
	result, err := deduplicator.Run(ctx)
	summary.DuplicatesRemoved = result.Removed
	if err != nil {
		logging.WarnWithContext(logger, "deduplication incomplete", "dedup_failed",
			logging.Error(err),
			logging.Int64("removed", result.Removed),
			logging.String(logging.FieldErrorHint, "rerun to finish deduplication; the pass is idempotent"),
			logging.String(logging.FieldImpact, "duplicate clips may be transcribed more than once"),
		)
	} else if result.Removed > 0 {
		logger.Info("duplicate clips removed",
			logging.String(logging.FieldEventType, "dedup"),
			logging.Int("groups", result.Groups),
			logging.Int64("removed", result.Removed),
		)
	}
}

func (m *Manager) logSummary(logger *slog.Logger, summary Summary) {
	logger.Info("run complete",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("rewritten", summary.Rewritten),
		logging.Int64("duplicates_removed", summary.DuplicatesRemoved),
		logging.Int("candidates", summary.Candidates),
		logging.Int("completed", summary.Completed),
		logging.Int("failed", summary.Failed),
		logging.Int("deleted", summary.Deleted),
		logging.Int("invalid", summary.Invalid),
		logging.Int("interrupted", summary.Interrupted),
		logging.Int("errored", summary.Errored),
		logging.Int("indeterminate_links", summary.Indeterminate),
		logging.Int("scratch_removed", summary.ScratchRemoved),
		logging.Duration("duration", summary.Duration),
	)
}
