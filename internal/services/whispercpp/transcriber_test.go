package whispercpp_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"clipscribe/internal/services"
	"clipscribe/internal/services/whispercpp"
)

func TestBuildArgs(t *testing.T) {
	tr := whispercpp.New(whispercpp.Config{Binary: "whisper.cpp/main", Model: "models/ggml-large-v3.bin"})
	got := tr.BuildArgs("/scratch/a.mp4.wav")
	want := []string{"-t", "16", "-m", "models/ggml-large-v3.bin", "-f", "/scratch/a.mp4.wav", "-otxt", "-of", "/scratch/a.mp4.wav"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected args:\n got %v\nwant %v", got, want)
	}
}

func TestTranscribeReturnsTextPath(t *testing.T) {
	wav := filepath.Join(t.TempDir(), "clip.mp4.wav")
	tr := whispercpp.New(whispercpp.Config{Binary: "whisper", Model: "m.bin", Threads: 2})
	tr.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		if name != "whisper" {
			t.Fatalf("unexpected binary %q", name)
		}
		prefix := args[len(args)-1]
		return os.WriteFile(prefix+".txt", []byte(" hello\n"), 0o644)
	})

	textPath, err := tr.Transcribe(context.Background(), wav)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if textPath != wav+".txt" {
		t.Fatalf("unexpected transcript path %q", textPath)
	}
}

func TestTranscribeFailureIsTranscribeError(t *testing.T) {
	tr := whispercpp.New(whispercpp.Config{Binary: "whisper", Model: "m.bin"})
	tr.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return &services.ToolError{Tool: name, ExitCode: 3, Output: "failed to load model"}
	})
	_, err := tr.Transcribe(context.Background(), filepath.Join(t.TempDir(), "a.wav"))
	if !errors.Is(err, services.ErrTranscribe) {
		t.Fatalf("expected ErrTranscribe, got %v", err)
	}
	if services.ExitCode(err) != 3 {
		t.Fatalf("expected exit code 3, got %d", services.ExitCode(err))
	}
}

func TestTranscribeMissingOutputIsTranscribeError(t *testing.T) {
	tr := whispercpp.New(whispercpp.Config{Binary: "whisper", Model: "m.bin"})
	tr.WithCommandRunner(func(ctx context.Context, name string, args ...string) error { return nil })
	_, err := tr.Transcribe(context.Background(), filepath.Join(t.TempDir(), "a.wav"))
	if !errors.Is(err, services.ErrTranscribe) {
		t.Fatalf("expected ErrTranscribe, got %v", err)
	}
}
