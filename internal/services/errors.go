package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrLinkGone          = errors.New("link gone")
	ErrLinkIndeterminate = errors.New("link check indeterminate")
	ErrFetch             = errors.New("fetch error")
	ErrTranscode         = errors.New("transcode error")
	ErrTranscribe        = errors.New("transcribe error")
	ErrExternalTool      = errors.New("external tool error")
	ErrStoreConnection   = errors.New("store connection error")
	ErrInvalidRecord     = errors.New("invalid record")
	ErrConfiguration     = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// MarksFailed reports whether a stage error should set the durable failed
// flag on the record. Interruptions and store errors leave the record as a
// candidate for the next run.
func MarksFailed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrStoreConnection) {
		return false
	}
	return errors.Is(err, ErrFetch) || errors.Is(err, ErrTranscode) || errors.Is(err, ErrTranscribe)
}

// StageOf returns the pipeline stage name associated with a marker error.
func StageOf(err error) string {
	switch {
	case errors.Is(err, ErrFetch):
		return "fetch"
	case errors.Is(err, ErrTranscode):
		return "transcode"
	case errors.Is(err, ErrTranscribe):
		return "transcribe"
	case errors.Is(err, ErrLinkGone), errors.Is(err, ErrLinkIndeterminate):
		return "validate"
	case errors.Is(err, ErrStoreConnection):
		return "store"
	default:
		return ""
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
