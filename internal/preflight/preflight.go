package preflight

import (
	"context"

	"clipscribe/internal/config"
	"clipscribe/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every check a batch run needs: directory access, external
// tools, the whisper model, and store health.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Scratch directory", cfg.Paths.ScratchDir),
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
	}
	for _, status := range CheckSystemDeps(cfg) {
		results = append(results, FromStatus(status))
	}
	results = append(results, CheckStore(ctx, cfg.Store.Path))
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// FromStatus converts a dependency status into a preflight result.
func FromStatus(status deps.Status) Result {
	if status.Available {
		detail := status.Resolved
		if detail == "" {
			detail = status.Command
		}
		return Result{Name: status.Name, Passed: true, Detail: detail}
	}
	return Result{Name: status.Name, Passed: status.Optional, Detail: status.Detail}
}
