package ffmpeg_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"clipscribe/internal/services"
	"clipscribe/internal/services/ffmpeg"
)

func TestBuildArgsMatchesWhisperInputFormat(t *testing.T) {
	got := ffmpeg.BuildArgs("/scratch/in.mp4", "/scratch/in.mp4.wav")
	want := []string{
		"-nostdin", "-hide_banner", "-loglevel", "error", "-y",
		"-i", "/scratch/in.mp4",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", "16000",
		"/scratch/in.mp4.wav",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected args:\n got %v\nwant %v", got, want)
	}
}

func TestToWAVSucceedsWhenOutputExists(t *testing.T) {
	input := filepath.Join(t.TempDir(), "clip.mp4")
	var calledWith []string
	tr := ffmpeg.New("ffmpeg-test")
	tr.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		calledWith = append([]string{name}, args...)
		return os.WriteFile(args[len(args)-1], []byte("RIFF"), 0o644)
	})

	output, err := tr.ToWAV(context.Background(), input)
	if err != nil {
		t.Fatalf("ToWAV failed: %v", err)
	}
	if output != input+".wav" {
		t.Fatalf("unexpected output path %q", output)
	}
	if calledWith[0] != "ffmpeg-test" {
		t.Fatalf("expected configured binary, got %q", calledWith[0])
	}
}

func TestToWAVNonZeroExitIsTranscodeError(t *testing.T) {
	tr := ffmpeg.New("")
	tr.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return &services.ToolError{Tool: name, ExitCode: 1, Output: "Invalid data found when processing input"}
	})

	_, err := tr.ToWAV(context.Background(), filepath.Join(t.TempDir(), "clip.mp4"))
	if !errors.Is(err, services.ErrTranscode) {
		t.Fatalf("expected ErrTranscode, got %v", err)
	}
	if services.ExitCode(err) != 1 {
		t.Fatalf("expected exit code 1 to be retained, got %d", services.ExitCode(err))
	}
}

func TestToWAVMissingOutputIsTranscodeError(t *testing.T) {
	tr := ffmpeg.New("")
	tr.WithCommandRunner(func(ctx context.Context, name string, args ...string) error { return nil })

	_, err := tr.ToWAV(context.Background(), filepath.Join(t.TempDir(), "clip.mp4"))
	if !errors.Is(err, services.ErrTranscode) {
		t.Fatalf("expected ErrTranscode for missing output, got %v", err)
	}
}
