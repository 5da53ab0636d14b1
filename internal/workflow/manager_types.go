package workflow

import (
	"context"

	"clipscribe/internal/clips"
	"clipscribe/internal/links"
)

// Store is the persistence surface a run needs.
type Store interface {
	ListContaining(ctx context.Context, fragment string) ([]*clips.Clip, error)
	UpdateURL(ctx context.Context, id int64, url string) error
	DuplicateGroups(ctx context.Context) ([]clips.DuplicateGroup, error)
	RemoveIDs(ctx context.Context, ids []int64) (int64, error)
	Candidates(ctx context.Context, limit int) ([]*clips.Clip, error)
	Remove(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string) error
	Complete(ctx context.Context, id int64, transcript string) error
}

// LinkChecker classifies a clip URL before any download happens.
type LinkChecker interface {
	Check(ctx context.Context, url string) links.Result
}

// Fetcher downloads a clip into the scratch directory.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Transcoder converts a downloaded clip into 16 kHz mono WAV.
type Transcoder interface {
	ToWAV(ctx context.Context, input string) (string, error)
}

// Transcriber runs speech-to-text and returns the raw transcript file path.
type Transcriber interface {
	Transcribe(ctx context.Context, wav string) (string, error)
}

// StageSet bundles the concrete stage implementations the manager drives.
type StageSet struct {
	Checker     LinkChecker
	Fetcher     Fetcher
	Transcoder  Transcoder
	Transcriber Transcriber
}

// State names a point in a clip's per-run lifecycle.
type State string

const (
	StateCandidate    State = "candidate"
	StateValidating   State = "validating"
	StateFetching     State = "fetching"
	StateConverting   State = "converting"
	StateTranscribing State = "transcribing"
	StateNormalizing  State = "normalizing"
	StateDeleted      State = "deleted"
	StateFailed       State = "failed"
	StateCompleted    State = "completed"
)

// Outcome is how a clip left the run.
type Outcome string

const (
	OutcomeCompleted   Outcome = "completed"
	OutcomeFailed      Outcome = "failed"
	OutcomeDeleted     Outcome = "deleted"
	OutcomeInvalid     Outcome = "invalid"
	OutcomeInterrupted Outcome = "interrupted"
	OutcomeErrored     Outcome = "errored"
)

// ClipResult records what happened to one clip.
type ClipResult struct {
	ClipID  int64
	URL     string
	Outcome Outcome
	State   State // last state reached before the outcome
	// Indeterminate is set when the link check could not classify the URL
	// and the clip went on to fetch anyway.
	Indeterminate bool
	Err           error
}
