// Package whispercpp runs the whisper.cpp command line transcriber.
package whispercpp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"clipscribe/internal/services"
)

const (
	// DefaultThreads is the worker thread count passed with -t.
	DefaultThreads = 16
	// TextSuffix is appended to the -of prefix by whisper.cpp when -otxt is set.
	TextSuffix = ".txt"
)

// Config describes a whisper.cpp installation.
type Config struct {
	Binary  string
	Model   string
	Threads int
}

// Transcriber wraps the whisper.cpp executable.
type Transcriber struct {
	cfg Config
	run services.CommandRunner
}

// New constructs a transcriber.
func New(cfg Config) *Transcriber {
	if cfg.Threads <= 0 {
		cfg.Threads = DefaultThreads
	}
	return &Transcriber{cfg: cfg, run: services.RunCommand}
}

// WithCommandRunner sets a custom command runner (for testing).
func (t *Transcriber) WithCommandRunner(runner services.CommandRunner) {
	if runner == nil {
		runner = services.RunCommand
	}
	t.run = runner
}

// Binary returns the configured whisper.cpp executable.
func (t *Transcriber) Binary() string {
	return t.cfg.Binary
}

// Model returns the configured model path.
func (t *Transcriber) Model() string {
	return t.cfg.Model
}

// TranscriptPath returns where Transcribe leaves the text for wav.
func TranscriptPath(wav string) string {
	return wav + TextSuffix
}

// BuildArgs returns the whisper.cpp argument list for wav. The output prefix
// is the wav path itself so the transcript lands at <wav>.txt.
func (t *Transcriber) BuildArgs(wav string) []string {
	return []string{
		"-t", strconv.Itoa(t.cfg.Threads),
		"-m", t.cfg.Model,
		"-f", wav,
		"-otxt",
		"-of", wav,
	}
}

// Transcribe runs whisper.cpp over wav and returns the transcript file path.
// A non-zero exit, a launch failure, or a missing transcript file yields
// services.ErrTranscribe.
func (t *Transcriber) Transcribe(ctx context.Context, wav string) (string, error) {
	if wav == "" {
		return "", services.Wrap(services.ErrTranscribe, "transcribe", "whisper.cpp", "audio path required", nil)
	}
	if err := t.run(ctx, t.cfg.Binary, t.BuildArgs(wav)...); err != nil {
		return "", services.Wrap(services.ErrTranscribe, "transcribe", "whisper.cpp",
			fmt.Sprintf("exit code %d", services.ExitCode(err)), err)
	}
	textPath := TranscriptPath(wav)
	if _, err := os.Stat(textPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", services.Wrap(services.ErrTranscribe, "transcribe", "whisper.cpp", "exited 0 without writing "+textPath, nil)
		}
		return "", services.Wrap(services.ErrTranscribe, "transcribe", "stat output", "", err)
	}
	return textPath, nil
}
