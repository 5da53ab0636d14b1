package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clipscribe/internal/clips"
	"clipscribe/internal/links"
	"clipscribe/internal/logging"
	"clipscribe/internal/services"
	"clipscribe/internal/transcript"
)

// processClip walks one clip through the state machine. It never returns an
// error: every failure, including a panic, becomes the clip's outcome.
func (m *Manager) processClip(ctx context.Context, clip *clips.Clip) (result ClipResult) {
	// The rewrite pass may have left aliased links behind; stages only ever
	// see the canonical form.
	url := m.normalizer.Normalize(clip.URL)
	result = ClipResult{ClipID: clip.ID, URL: url, State: StateCandidate}
	ctx = services.WithClipID(ctx, clip.ID)
	logger := logging.WithContext(ctx, m.logger).With(logging.URL(url))
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result.Outcome = OutcomeErrored
			result.Err = fmt.Errorf("panic during %s: %v", result.State, r)
			logging.ErrorWithContext(logger, "clip processing panicked", "clip_panic",
				logging.Stage(string(result.State)),
				logging.Error(result.Err),
				logging.String(logging.FieldErrorHint, "report this clip; it stays a candidate for the next run"),
			)
		}
	}()

	if err := clip.Validate(); err != nil {
		result.Outcome = OutcomeInvalid
		result.Err = services.Wrap(services.ErrInvalidRecord, "load", "validate", "", err)
		logging.WarnWithContext(logger, "skipping invalid clip record", "invalid_record",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "fix or remove the record with clipscribe clips"),
			logging.String(logging.FieldImpact, "clip is not transcribed"),
		)
		return result
	}

	result.State = StateValidating
	check := m.stages.Checker.Check(ctx, url)
	switch check.Verdict {
	case links.Gone:
		if err := m.store.Remove(ctx, clip.ID); err != nil {
			return m.storeFailure(ctx, logger, result, "remove gone clip", err)
		}
		result.State = StateDeleted
		result.Outcome = OutcomeDeleted
		logger.Info("clip link gone; record deleted",
			logging.String(logging.FieldEventType, "clip_deleted"),
			logging.Int("status_code", check.StatusCode),
		)
		return result
	case links.Indeterminate:
		if ctx.Err() != nil {
			return m.interrupted(logger, result, ctx.Err())
		}
		result.Indeterminate = true
		logging.WarnWithContext(logger, "link check indeterminate; fetching anyway", "link_indeterminate",
			logging.Error(check.Err),
			logging.Int("status_code", check.StatusCode),
			logging.Bool("timeout", links.IsTimeout(check.Err)),
			logging.String(logging.FieldErrorHint, "check network access or links.check_timeout_seconds"),
			logging.String(logging.FieldImpact, "clip is fetched without a confirmed link"),
		)
	}

	result.State = StateFetching
	artifact, err := m.stages.Fetcher.Fetch(ctx, url)
	if err != nil {
		return m.stageFailure(ctx, logger, result, err)
	}
	logger.Debug("clip fetched", logging.String("artifact", artifact))

	result.State = StateConverting
	wav, err := m.stages.Transcoder.ToWAV(ctx, artifact)
	if err != nil {
		return m.stageFailure(ctx, logger, result, err)
	}
	logger.Debug("clip transcoded", logging.String("wav", wav))

	result.State = StateTranscribing
	textPath, err := m.stages.Transcriber.Transcribe(ctx, wav)
	if err != nil {
		return m.stageFailure(ctx, logger, result, err)
	}

	result.State = StateNormalizing
	text, err := transcript.ReadFile(textPath)
	if err != nil {
		return m.stageFailure(ctx, logger, result,
			services.Wrap(services.ErrTranscribe, "transcribe", "read transcript", textPath, err))
	}
	if err := m.store.Complete(ctx, clip.ID, text); err != nil {
		return m.storeFailure(ctx, logger, result, "persist transcript", err)
	}

	result.State = StateCompleted
	result.Outcome = OutcomeCompleted
	logger.Info("clip transcribed",
		logging.String(logging.FieldEventType, "clip_completed"),
		logging.Int("transcript_chars", len(text)),
		logging.Duration("clip_duration", time.Since(started)),
	)
	return result
}

// stageFailure sets the durable failed flag for fetch, transcode, and
// transcribe errors. An error caused by the run being interrupted leaves the
// record untouched.
func (m *Manager) stageFailure(ctx context.Context, logger *slog.Logger, result ClipResult, err error) ClipResult {
	if ctx.Err() != nil {
		return m.interrupted(logger, result, err)
	}
	if !services.MarksFailed(err) {
		return m.storeFailure(ctx, logger, result, "stage "+string(result.State), err)
	}

	stage := services.StageOf(err)
	result.Err = err
	if markErr := m.store.MarkFailed(ctx, result.ClipID, err.Error()); markErr != nil {
		return m.storeFailure(ctx, logger, result, "persist failed flag", markErr)
	}
	failedAt := result.State
	result.State = StateFailed
	result.Outcome = OutcomeFailed

	logging.ErrorWithContext(logger, "clip stage failed", "stage_failure",
		logging.Stage(stage),
		logging.String("failed_state", string(failedAt)),
		logging.Int(logging.FieldExitCode, services.ExitCode(err)),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, stageHint(stage)),
	)
	m.notifyClipError(ctx, result)
	return result
}

func (m *Manager) storeFailure(ctx context.Context, logger *slog.Logger, result ClipResult, operation string, err error) ClipResult {
	if ctx.Err() != nil {
		return m.interrupted(logger, result, err)
	}
	result.Outcome = OutcomeErrored
	result.Err = fmt.Errorf("%s: %w", operation, err)
	logging.ErrorWithContext(logger, "clip left unchanged after error", "clip_error",
		logging.String("operation", operation),
		logging.String("state", string(result.State)),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check store.path and database permissions"),
	)
	return result
}

func (m *Manager) interrupted(logger *slog.Logger, result ClipResult, err error) ClipResult {
	result.Outcome = OutcomeInterrupted
	result.Err = err
	logger.Info("clip interrupted; record left as candidate",
		logging.String(logging.FieldEventType, "clip_interrupted"),
		logging.String("state", string(result.State)),
	)
	return result
}

func stageHint(stage string) string {
	switch stage {
	case "fetch":
		return "check network access and that the clip URL still serves media"
	case "transcode":
		return "check ffmpeg.binary and the downloaded media; clear with clipscribe clips retry"
	case "transcribe":
		return "check whisper.binary and whisper.model; clear with clipscribe clips retry"
	default:
		return "check logs for details"
	}
}
