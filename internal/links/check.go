package links

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Verdict is the outcome class of a reachability check.
type Verdict int

const (
	// Indeterminate covers transport failures and unexpected statuses. The
	// clip may still be fetchable.
	Indeterminate Verdict = iota
	// Reachable means the server answered with a success status.
	Reachable
	// Gone means the server answered 404; the clip will never be fetchable.
	Gone
)

func (v Verdict) String() string {
	switch v {
	case Reachable:
		return "reachable"
	case Gone:
		return "gone"
	default:
		return "indeterminate"
	}
}

// Result describes one link check.
type Result struct {
	Verdict    Verdict
	StatusCode int
	Err        error
}

// Checker probes clip URLs with a GET request.
type Checker struct {
	client    *http.Client
	userAgent string
}

// NewChecker constructs a checker with the given per-request timeout.
func NewChecker(timeout time.Duration, userAgent string) *Checker {
	return NewCheckerWithClient(&http.Client{Timeout: timeout}, userAgent)
}

// NewCheckerWithClient uses a caller supplied client, mainly for tests.
func NewCheckerWithClient(client *http.Client, userAgent string) *Checker {
	if client == nil {
		client = http.DefaultClient
	}
	return &Checker{client: client, userAgent: userAgent}
}

// Check issues a GET for url and classifies the response. Only a 404 yields
// Gone. At most 512 bytes of the body are read.
func (c *Checker) Check(ctx context.Context, url string) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{Verdict: Indeterminate, Err: fmt.Errorf("build request: %w", err)}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{Verdict: Indeterminate, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.CopyN(io.Discard, resp.Body, 512)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Result{Verdict: Gone, StatusCode: resp.StatusCode}
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		return Result{Verdict: Reachable, StatusCode: resp.StatusCode}
	default:
		return Result{
			Verdict:    Indeterminate,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}
}

// IsTimeout reports whether a check failed because of a deadline.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeout interface{ Timeout() bool }
	return errors.As(err, &timeout) && timeout.Timeout()
}
