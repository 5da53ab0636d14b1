package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"clipscribe/internal/clips"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("FFmpeg", statusError, "not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "FFmpeg:", "[ERROR] not found")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("FFmpeg", statusOK, "ffmpeg", true)
	if !strings.HasPrefix(got, ansiGreen) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected green line, got %q", got)
	}
}

func TestClipStatusLabel(t *testing.T) {
	if got := clipStatusLabel(clips.StatusFailed, false); got != "failed" {
		t.Fatalf("expected plain label, got %q", got)
	}
	if got := clipStatusLabel(clips.StatusFailed, true); !strings.HasPrefix(got, ansiRed) {
		t.Fatalf("expected red label, got %q", got)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}
