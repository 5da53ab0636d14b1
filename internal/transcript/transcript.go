// Package transcript turns raw speech-to-text output into the single-line
// form stored on clip records.
package transcript

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize composes text to NFC, turns every line break into a space,
// collapses each whitespace run to one space, and trims the ends. It is
// total and idempotent.
func Normalize(raw string) string {
	composed := norm.NFC.String(raw)
	var b strings.Builder
	b.Grow(len(composed))
	pendingSpace := false
	for _, r := range composed {
		if unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ReadFile loads a transcript file and normalizes it.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	return Normalize(string(data)), nil
}
