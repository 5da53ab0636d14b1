package services

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// maxToolOutput bounds how much combined tool output is kept on an error.
const maxToolOutput = 4096

// CommandRunner executes an external program and blocks until it exits.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// ToolError records a failed external tool invocation.
type ToolError struct {
	Tool     string
	ExitCode int // -1 when the process never started or was killed by a signal
	Output   string
	Err      error
}

func (e *ToolError) Error() string {
	var b strings.Builder
	b.WriteString(e.Tool)
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " exited with status %d", e.ExitCode)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Output != "" {
		b.WriteString(": ")
		b.WriteString(e.Output)
	}
	return b.String()
}

func (e *ToolError) Unwrap() error { return e.Err }

// RunCommand is the default CommandRunner. Combined stdout and stderr are
// attached to the returned *ToolError when the program fails.
func RunCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}
	toolErr := &ToolError{
		Tool:     name,
		ExitCode: -1,
		Output:   trimOutput(output),
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		toolErr.ExitCode = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		toolErr.Err = fmt.Errorf("%w: %w", ctxErr, err)
	}
	return toolErr
}

// ExitCode extracts the tool exit status from err, or -1 when unavailable.
func ExitCode(err error) int {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr.ExitCode
	}
	return -1
}

func trimOutput(output []byte) string {
	text := strings.TrimSpace(string(output))
	if len(text) > maxToolOutput {
		text = "..." + text[len(text)-maxToolOutput:]
	}
	return text
}
