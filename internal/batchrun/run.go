// Package batchrun wires configuration, logging, the run lock, the clip
// store, and the workflow stages into one batch transcription run.
package batchrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"clipscribe/internal/clips"
	"clipscribe/internal/config"
	"clipscribe/internal/fetch"
	"clipscribe/internal/links"
	"clipscribe/internal/logging"
	"clipscribe/internal/notifications"
	"clipscribe/internal/preflight"
	"clipscribe/internal/services"
	"clipscribe/internal/services/ffmpeg"
	"clipscribe/internal/services/whispercpp"
	"clipscribe/internal/workflow"
)

// ErrRunInProgress reports that another process holds the run lock.
var ErrRunInProgress = errors.New("another clipscribe run is already in progress")

// Options configures batch run behavior.
type Options struct {
	LogLevel string
	// Limit overrides workflow.limit when positive.
	Limit int
	// Logger replaces the config-derived logger (used in tests).
	Logger *slog.Logger
	// Notifier replaces the ntfy service (used in tests).
	Notifier notifications.Service
}

// Run executes one batch. It returns an error only for startup failures:
// an unusable config, a held run lock, failed preflight checks, or an
// unreachable store. Per-clip failures are reported in the summary.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) (workflow.Summary, error) {
	if cfg == nil {
		return workflow.Summary{}, services.Wrap(services.ErrConfiguration, "startup", "config", "config is required", nil)
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return workflow.Summary{}, services.Wrap(services.ErrConfiguration, "startup", "ensure directories", "", err)
	}

	logger := opts.Logger
	if logger == nil {
		var err error
		logger, err = logging.NewFromConfig(cfg, opts.LogLevel)
		if err != nil {
			return workflow.Summary{}, fmt.Errorf("init logger: %w", err)
		}
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return workflow.Summary{}, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		logging.WarnWithContext(logger, "run lock held", "run_lock_held",
			logging.String("lock", cfg.LockPath()),
			logging.String(logging.FieldErrorHint, "wait for the running batch to finish"),
			logging.String(logging.FieldImpact, "this run did not start"),
		)
		return workflow.Summary{}, ErrRunInProgress
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	logDependencySnapshot(logger, cfg)
	if failed := preflight.Failed(preflight.RunAll(signalCtx, cfg)); len(failed) > 0 {
		for _, result := range failed {
			logging.ErrorWithContext(logger, "preflight check failed", "preflight_failed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail),
				logging.String(logging.FieldErrorHint, "run clipscribe check for details"),
			)
		}
		return workflow.Summary{}, services.Wrap(services.ErrConfiguration, "startup", "preflight",
			fmt.Sprintf("%d check(s) failed: %s", len(failed), failedNames(failed)), nil)
	}

	store, err := clips.Open(cfg)
	if err != nil {
		logger.Error("open clip store", logging.Error(err))
		return workflow.Summary{}, err
	}
	defer store.Close()

	runCfg := *cfg
	if opts.Limit > 0 {
		runCfg.Workflow.Limit = opts.Limit
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	manager := workflow.NewManagerWithNotifier(&runCfg, store, logger, notifier)
	manager.ConfigureStages(BuildStages(&runCfg))

	summary, err := manager.Run(signalCtx)
	if err != nil {
		if notifyErr := notifier.Publish(context.WithoutCancel(signalCtx), notifications.EventError, notifications.Payload{
			"context": "batch run",
			"error":   err,
		}); notifyErr != nil {
			logger.Warn("error notification failed", logging.Error(notifyErr))
		}
		return summary, err
	}
	if signalCtx.Err() != nil {
		logger.Info("clipscribe run stopped by signal")
	}
	return summary, nil
}

// BuildStages constructs the production stage implementations from config.
func BuildStages(cfg *config.Config) workflow.StageSet {
	checkTimeout := time.Duration(cfg.Links.CheckTimeoutSeconds) * time.Second
	fetchTimeout := time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second
	return workflow.StageSet{
		Checker:    links.NewChecker(checkTimeout, cfg.Links.UserAgent),
		Fetcher:    fetch.New(cfg.Paths.ScratchDir, fetchTimeout, cfg.Links.UserAgent),
		Transcoder: ffmpeg.New(cfg.FFmpeg.Binary),
		Transcriber: whispercpp.New(whispercpp.Config{
			Binary:  cfg.Whisper.Binary,
			Model:   cfg.Whisper.Model,
			Threads: cfg.Whisper.Threads,
		}),
	}
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "dependency_snapshot"),
		logging.String("scratch_dir", cfg.Paths.ScratchDir),
		logging.String("store_path", cfg.Store.Path),
		logging.Int("whisper_threads", cfg.Whisper.Threads),
		logging.Bool("ntfy_configured", strings.TrimSpace(cfg.Notifications.NtfyTopic) != ""),
	}
	for _, status := range preflight.CheckSystemDeps(cfg) {
		key := strings.ToLower(strings.NewReplacer(" ", "_", ".", "_").Replace(status.Name))
		attrs = append(attrs,
			logging.Bool(key+"_available", status.Available),
			logging.String(key+"_path", status.Command),
		)
	}
	logger.Info("dependency snapshot", logging.Args(attrs...)...)
}

func failedNames(results []preflight.Result) string {
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
	}
	return strings.Join(names, ", ")
}
