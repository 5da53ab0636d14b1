// Package dedup collapses clip records that share a URL down to the first
// record seen.
package dedup

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"clipscribe/internal/clips"
	"clipscribe/internal/logging"
)

// Store is the persistence surface the deduplicator needs.
type Store interface {
	DuplicateGroups(ctx context.Context) ([]clips.DuplicateGroup, error)
	RemoveIDs(ctx context.Context, ids []int64) (int64, error)
}

// Result summarizes one deduplication pass.
type Result struct {
	Groups  int
	Removed int64
}

// Deduplicator removes redundant clip records.
type Deduplicator struct {
	store       Store
	logger      *slog.Logger
	concurrency int
}

// New constructs a deduplicator. concurrency bounds how many groups are
// collapsed at once; each group touches a disjoint set of rows.
func New(store Store, logger *slog.Logger, concurrency int) *Deduplicator {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Deduplicator{
		store:       store,
		logger:      logging.NewComponentLogger(logger, "dedup"),
		concurrency: concurrency,
	}
}

// Run keeps the lowest ID in every duplicate group and deletes the rest,
// whatever their transcript or failed state. A second run finds nothing.
func (d *Deduplicator) Run(ctx context.Context) (Result, error) {
	groups, err := d.store.DuplicateGroups(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load duplicate groups: %w", err)
	}
	result := Result{Groups: len(groups)}
	if len(groups) == 0 {
		return result, nil
	}

	var removed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for _, group := range groups {
		g.Go(func() error {
			redundant := group.Redundant()
			n, err := d.store.RemoveIDs(gctx, redundant)
			if err != nil {
				return fmt.Errorf("remove duplicates of %q: %w", group.URL, err)
			}
			removed.Add(n)
			d.logger.Debug("duplicate clips removed",
				logging.URL(group.URL),
				logging.Int64("kept_clip_id", group.Keep()),
				logging.Int("removed", len(redundant)),
			)
			return nil
		})
	}
	err = g.Wait()
	result.Removed = removed.Load()
	return result, err
}
