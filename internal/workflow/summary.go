package workflow

import (
	"time"

	"clipscribe/internal/notifications"
)

// Summary aggregates the results of one run.
type Summary struct {
	RunID             string
	Rewritten         int
	DuplicatesRemoved int64
	Candidates        int
	Completed         int
	Failed            int
	Deleted           int
	Invalid           int
	Interrupted       int
	Errored           int
	Indeterminate     int
	ScratchRemoved    int
	Duration          time.Duration
	Results           []ClipResult
}

func (s *Summary) record(result ClipResult) {
	if result.Indeterminate {
		s.Indeterminate++
	}
	switch result.Outcome {
	case OutcomeCompleted:
		s.Completed++
	case OutcomeFailed:
		s.Failed++
	case OutcomeDeleted:
		s.Deleted++
	case OutcomeInvalid:
		s.Invalid++
	case OutcomeInterrupted:
		s.Interrupted++
	case OutcomeErrored:
		s.Errored++
	}
	s.Results = append(s.Results, result)
}

// Processed returns the number of clips that reached a terminal state.
func (s Summary) Processed() int {
	return s.Completed + s.Failed + s.Deleted
}

func (s Summary) payload() notifications.Payload {
	return notifications.Payload{
		"candidates": s.Candidates,
		"completed":  s.Completed,
		"failed":     s.Failed + s.Errored,
		"deleted":    s.Deleted,
		"duration":   s.Duration,
	}
}
