package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"clipscribe/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTranscode, "transcode", "ffmpeg", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTranscode) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"transcode", "ffmpeg", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestMarksFailed(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "fetch", err: services.Wrap(services.ErrFetch, "fetch", "download", "status 500", nil), want: true},
		{name: "transcode", err: services.Wrap(services.ErrTranscode, "transcode", "", "", errors.New("exit 1")), want: true},
		{name: "transcribe", err: services.Wrap(services.ErrTranscribe, "transcribe", "", "", nil), want: true},
		{name: "canceled", err: services.Wrap(services.ErrTranscode, "transcode", "", "", context.Canceled), want: false},
		{name: "store", err: services.Wrap(services.ErrStoreConnection, "store", "update", "", nil), want: false},
		{name: "gone", err: services.Wrap(services.ErrLinkGone, "validate", "", "", nil), want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.MarksFailed(tc.err); got != tc.want {
				t.Fatalf("MarksFailed(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestStageOf(t *testing.T) {
	if got := services.StageOf(services.Wrap(services.ErrTranscribe, "", "", "", nil)); got != "transcribe" {
		t.Fatalf("unexpected stage %q", got)
	}
	if got := services.StageOf(errors.New("plain")); got != "" {
		t.Fatalf("expected empty stage for unmarked error, got %q", got)
	}
}

func TestToolErrorMessage(t *testing.T) {
	err := &services.ToolError{Tool: "ffmpeg", ExitCode: 1, Output: "Invalid data found"}
	if !strings.Contains(err.Error(), "status 1") || !strings.Contains(err.Error(), "Invalid data") {
		t.Fatalf("unexpected message %q", err.Error())
	}
	wrapped := services.Wrap(services.ErrTranscode, "transcode", "", "", err)
	if code := services.ExitCode(wrapped); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if code := services.ExitCode(errors.New("plain")); code != -1 {
		t.Fatalf("expected -1 for plain error, got %d", code)
	}
}

func TestRunCommandReportsMissingBinary(t *testing.T) {
	err := services.RunCommand(context.Background(), "clipscribe-definitely-missing-binary")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	var toolErr *services.ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected ToolError, got %T", err)
	}
	if toolErr.ExitCode != -1 {
		t.Fatalf("expected exit code -1, got %d", toolErr.ExitCode)
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := services.WithClipID(context.Background(), 42)
	ctx = services.WithStage(ctx, "fetch")
	ctx = services.WithRunID(ctx, "run-1")
	if id, ok := services.ClipIDFromContext(ctx); !ok || id != 42 {
		t.Fatalf("unexpected clip id %d %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "fetch" {
		t.Fatalf("unexpected stage %q", stage)
	}
	if run, ok := services.RunIDFromContext(ctx); !ok || run != "run-1" {
		t.Fatalf("unexpected run id %q", run)
	}
	if _, ok := services.StageFromContext(services.WithStage(context.Background(), "")); ok {
		t.Fatal("expected empty stage to be ignored")
	}
}
