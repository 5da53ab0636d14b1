package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"clipscribe/internal/clips"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

var statusStyles = map[statusKind]struct{ label, color string }{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

var clipStatusColors = map[clips.Status]string{
	clips.StatusPending:   ansiYellow,
	clips.StatusFailed:    ansiRed,
	clips.StatusCompleted: ansiGreen,
}

// renderStatusLine formats "  Label:   [KIND] message" for the check command.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style, ok := statusStyles[kind]
	if !ok {
		style = statusStyles[statusInfo]
	}
	marker := "[" + style.label + "]"
	if message != "" {
		marker += " " + message
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", marker)
	return paint(line, style.color, colorize)
}

func clipStatusLabel(status clips.Status, colorize bool) string {
	return paint(string(status), clipStatusColors[status], colorize)
}

func paint(s, color string, colorize bool) string {
	if !colorize || color == "" {
		return s
	}
	return color + s + ansiReset
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
