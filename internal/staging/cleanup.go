// Package staging manages the scratch directory that holds per-run working
// artifacts.
package staging

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"clipscribe/internal/logging"
)

// SweepResult contains the outcome of a scratch sweep.
type SweepResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// Sweep removes every entry inside scratchDir and keeps the directory
// itself. A missing directory is not an error. Individual failures are
// logged and collected; the sweep continues past them.
func Sweep(ctx context.Context, scratchDir string, logger *slog.Logger) SweepResult {
	result := SweepResult{}

	scratchDir = strings.TrimSpace(scratchDir)
	if scratchDir == "" {
		return result
	}

	entries, err := os.ReadDir(scratchDir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			result.Errors = append(result.Errors, CleanupError{Path: scratchDir, Error: err})
			logging.WarnWithContext(logger, "scratch directory unreadable", "scratch_sweep_failed",
				logging.String("path", scratchDir),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check paths.scratch_dir permissions"),
				logging.String(logging.FieldImpact, "working files from this run were not removed"),
			)
		}
		return result
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, CleanupError{Path: scratchDir, Error: ctx.Err()})
			return result
		}
		entryPath := filepath.Join(scratchDir, entry.Name())
		if err := os.RemoveAll(entryPath); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: entryPath, Error: err})
			logging.WarnWithContext(logger, "failed to remove scratch file", "scratch_cleanup_failed",
				logging.String("path", entryPath),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check paths.scratch_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		result.Removed = append(result.Removed, entryPath)
	}

	if logger != nil && len(result.Removed) > 0 {
		logger.Info("scratch directory swept",
			logging.String("path", scratchDir),
			logging.Int("removed", len(result.Removed)),
			logging.Int("errors", len(result.Errors)),
			logging.String(logging.FieldEventType, "scratch_sweep"),
		)
	}
	return result
}
