package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"clipscribe/internal/batchrun"
)

// exitLocked lets cron wrappers tell "another run holds the lock" apart
// from a real failure.
const exitLocked = 75

func main() {
	os.Exit(execute())
}

func execute() int {
	err := newRootCommand().ExecuteContext(context.Background())
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 1
	case errors.Is(err, batchrun.ErrRunInProgress):
		fmt.Fprintln(os.Stderr, err)
		return exitLocked
	default:
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
}
