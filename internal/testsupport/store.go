package testsupport

import (
	"context"
	"database/sql"
	"testing"

	"clipscribe/internal/clips"
	"clipscribe/internal/config"
)

// MustOpenStore opens a clips.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *clips.Store {
	t.Helper()

	store, err := clips.Open(cfg)
	if err != nil {
		t.Fatalf("clips.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddClip inserts a pending clip for url.
func AddClip(t testing.TB, store *clips.Store, url string) *clips.Clip {
	t.Helper()

	clip, err := store.Add(context.Background(), url)
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return clip
}

// InsertRaw writes a clip row directly, bypassing Add validation. It
// simulates records created by other tools.
func InsertRaw(t testing.TB, store *clips.Store, url string) int64 {
	t.Helper()

	db, err := sql.Open("sqlite", store.Path())
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	defer db.Close()

	res, err := db.Exec(`INSERT INTO clips (url, failed, created_at, updated_at) VALUES (?, 0, datetime('now'), datetime('now'))`, url)
	if err != nil {
		t.Fatalf("insert raw clip: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("raw clip id: %v", err)
	}
	return id
}
