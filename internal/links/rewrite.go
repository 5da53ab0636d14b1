package links

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"clipscribe/internal/clips"
	"clipscribe/internal/logging"
)

// URLStore is the persistence surface the rewrite pass needs.
type URLStore interface {
	ListContaining(ctx context.Context, fragment string) ([]*clips.Clip, error)
	UpdateURL(ctx context.Context, id int64, url string) error
}

// Rewriter brings every stored clip URL onto canonical hosts.
type Rewriter struct {
	store       URLStore
	normalizer  *Normalizer
	logger      *slog.Logger
	concurrency int
}

// NewRewriter constructs a rewrite pass. concurrency bounds parallel updates.
func NewRewriter(store URLStore, normalizer *Normalizer, logger *slog.Logger, concurrency int) *Rewriter {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Rewriter{
		store:       store,
		normalizer:  normalizer,
		logger:      logging.NewComponentLogger(logger, "links"),
		concurrency: concurrency,
	}
}

// Run rewrites every clip whose URL contains an alias and returns the number
// of clips changed. Running it twice changes nothing the second time.
func (r *Rewriter) Run(ctx context.Context) (int, error) {
	pending := map[int64]*clips.Clip{}
	for _, rule := range r.normalizer.Rules() {
		matches, err := r.store.ListContaining(ctx, rule.Alias)
		if err != nil {
			return 0, fmt.Errorf("find aliased clips: %w", err)
		}
		for _, clip := range matches {
			pending[clip.ID] = clip
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	var rewritten atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, clip := range pending {
		g.Go(func() error {
			canonical := r.normalizer.Normalize(clip.URL)
			if canonical == clip.URL {
				return nil
			}
			if err := r.store.UpdateURL(gctx, clip.ID, canonical); err != nil {
				return fmt.Errorf("rewrite clip %d: %w", clip.ID, err)
			}
			rewritten.Add(1)
			r.logger.Debug("clip url rewritten",
				logging.ClipID(clip.ID),
				logging.String("from", clip.URL),
				logging.URL(canonical),
			)
			return nil
		})
	}
	err := g.Wait()
	return int(rewritten.Load()), err
}
