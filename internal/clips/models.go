package clips

import (
	"fmt"
	"strings"
	"time"
)

// Status summarizes where a clip stands. It is derived from the
// transcription and failed columns rather than stored.
type Status string

const (
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
	StatusCompleted Status = "completed"
)

// ParseStatus converts a user supplied status name. "done" is accepted for completed.
func ParseStatus(value string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(StatusPending):
		return StatusPending, true
	case string(StatusFailed):
		return StatusFailed, true
	case string(StatusCompleted), "done":
		return StatusCompleted, true
	default:
		return "", false
	}
}

// Clip is one persisted clip record.
type Clip struct {
	ID            int64
	URL           string
	Transcription *string
	Failed        bool
	LastError     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Status reports the derived lifecycle state.
func (c *Clip) Status() Status {
	switch {
	case c == nil:
		return ""
	case c.Transcription != nil:
		return StatusCompleted
	case c.Failed:
		return StatusFailed
	default:
		return StatusPending
	}
}

// IsCandidate reports whether the clip still needs processing.
func (c *Clip) IsCandidate() bool {
	return c != nil && c.Transcription == nil && !c.Failed
}

// Validate rejects records that cannot be driven through the pipeline.
func (c *Clip) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil clip", ErrInvalidClip)
	}
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("%w: clip %d has a blank url", ErrInvalidClip, c.ID)
	}
	return nil
}

// TranscriptText returns the transcript or an empty string when absent.
func (c *Clip) TranscriptText() string {
	if c == nil || c.Transcription == nil {
		return ""
	}
	return *c.Transcription
}

// DuplicateGroup lists every record sharing one URL, ordered by ID.
type DuplicateGroup struct {
	URL string
	IDs []int64
}

// Keep returns the record retained when the group is collapsed.
func (g DuplicateGroup) Keep() int64 {
	if len(g.IDs) == 0 {
		return 0
	}
	return g.IDs[0]
}

// Redundant returns the records removed when the group is collapsed.
func (g DuplicateGroup) Redundant() []int64 {
	if len(g.IDs) < 2 {
		return nil
	}
	return g.IDs[1:]
}

// Stats aggregates record counts by derived status.
type Stats struct {
	Total     int
	Pending   int
	Failed    int
	Completed int
}

// DatabaseHealth describes database diagnostics.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	SchemaVersion    int
	TableExists      bool
	TotalClips       int
	Error            string
}
