package links_test

import (
	"context"
	"fmt"
	"testing"

	"clipscribe/internal/links"
	"clipscribe/internal/logging"
	"clipscribe/internal/testsupport"
)

func TestRewriterCanonicalizesStoredURLs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	aliased := testsupport.AddClip(t, store, "https://cdn.discordapp.com/attachments/1/2/a.mp4")
	canonical := testsupport.AddClip(t, store, "https://media.discordapp.net/attachments/1/2/b.mp4")
	for i := 0; i < 10; i++ {
		testsupport.AddClip(t, store, "https://cdn.discordapp.com/attachments/9/9/bulk.mp4")
	}

	normalizer := links.NewNormalizer(cfg.Links.Aliases)
	rewriter := links.NewRewriter(store, normalizer, logging.NewNop(), 4)

	n, err := rewriter.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if n != 11 {
		t.Fatalf("expected 11 rewrites, got %d", n)
	}

	got, err := store.Get(ctx, aliased.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.URL != "https://media.discordapp.net/attachments/1/2/a.mp4" {
		t.Fatalf("unexpected url %q", got.URL)
	}
	unchanged, err := store.Get(ctx, canonical.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if unchanged.URL != "https://media.discordapp.net/attachments/1/2/b.mp4" {
		t.Fatalf("expected canonical clip untouched, got %q", unchanged.URL)
	}

	n, err = rewriter.Run(ctx)
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected second pass to be a no-op, got %d", n)
	}
}

func TestRewriterCompletesUnderConcurrentWrites(t *testing.T) {
	for _, concurrency := range []int{8, 64} {
		t.Run(fmt.Sprintf("concurrency=%d", concurrency), func(t *testing.T) {
			cfg := testsupport.NewConfig(t)
			store := testsupport.MustOpenStore(t, cfg)
			ctx := context.Background()

			const total = 2000
			urls := make([]string, 0, total)
			for i := range total {
				urls = append(urls, fmt.Sprintf("https://cdn.discordapp.com/attachments/%d/clip.mp4", i))
			}
			if _, err := store.AddMany(ctx, urls); err != nil {
				t.Fatalf("AddMany failed: %v", err)
			}

			rewriter := links.NewRewriter(store, links.NewNormalizer(cfg.Links.Aliases), logging.NewNop(), concurrency)
			n, err := rewriter.Run(ctx)
			if err != nil {
				t.Fatalf("Run failed after %d rewrites: %v", n, err)
			}
			if n != total {
				t.Fatalf("expected %d rewrites, got %d", total, n)
			}
			left, err := store.ListContaining(ctx, "cdn.discordapp.com")
			if err != nil {
				t.Fatalf("ListContaining failed: %v", err)
			}
			if len(left) != 0 {
				t.Fatalf("expected no aliased clips left, found %d", len(left))
			}
		})
	}
}
