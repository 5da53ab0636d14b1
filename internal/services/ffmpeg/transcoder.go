// Package ffmpeg converts fetched media into the 16 kHz mono PCM WAV audio
// whisper.cpp expects.
package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"

	"clipscribe/internal/services"
)

const (
	// SampleRate is the output sample rate in Hz.
	SampleRate = "16000"
	// Channels is the output channel count.
	Channels = "1"
	// Codec is the output audio codec.
	Codec = "pcm_s16le"
	// OutputSuffix is appended to the input path to form the output path.
	OutputSuffix = ".wav"
)

// Transcoder runs ffmpeg to produce transcription-ready audio.
type Transcoder struct {
	binary string
	run    services.CommandRunner
}

// New constructs a transcoder for the given ffmpeg executable.
func New(binary string) *Transcoder {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Transcoder{binary: binary, run: services.RunCommand}
}

// WithCommandRunner sets a custom command runner (for testing).
func (t *Transcoder) WithCommandRunner(runner services.CommandRunner) {
	if runner == nil {
		runner = services.RunCommand
	}
	t.run = runner
}

// Binary returns the configured ffmpeg executable.
func (t *Transcoder) Binary() string {
	return t.binary
}

// OutputPath returns where ToWAV writes the audio for input.
func OutputPath(input string) string {
	return input + OutputSuffix
}

// BuildArgs returns the ffmpeg argument list converting input to output.
func BuildArgs(input, output string) []string {
	return []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", input,
		"-acodec", Codec,
		"-ac", Channels,
		"-ar", SampleRate,
		output,
	}
}

// ToWAV converts input to <input>.wav. A non-zero exit, a launch failure, or
// a missing output file yields services.ErrTranscode.
func (t *Transcoder) ToWAV(ctx context.Context, input string) (string, error) {
	if input == "" {
		return "", services.Wrap(services.ErrTranscode, "transcode", "ffmpeg", "input path required", nil)
	}
	output := OutputPath(input)
	if err := t.run(ctx, t.binary, BuildArgs(input, output)...); err != nil {
		return "", services.Wrap(services.ErrTranscode, "transcode", "ffmpeg",
			fmt.Sprintf("exit code %d", services.ExitCode(err)), err)
	}
	info, err := os.Stat(output)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", services.Wrap(services.ErrTranscode, "transcode", "ffmpeg", "exited 0 without writing "+output, nil)
		}
		return "", services.Wrap(services.ErrTranscode, "transcode", "stat output", "", err)
	}
	if info.IsDir() {
		return "", services.Wrap(services.ErrTranscode, "transcode", "ffmpeg", output+" is a directory", nil)
	}
	return output, nil
}
