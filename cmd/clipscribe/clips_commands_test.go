package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipscribe/internal/clipfile"
	"clipscribe/internal/testsupport"
)

func TestClipsAddNormalizesAndLists(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"clips", "add", "https://cdn.discordapp.com/attachments/1/2/a.mp4", " https://example.com/b.mp4 "}, env.configPath)
	if err != nil {
		t.Fatalf("clips add: %v", err)
	}
	requireContains(t, out, "Added clip 1: https://media.discordapp.net/attachments/1/2/a.mp4")
	requireContains(t, out, "Added clip 2: https://example.com/b.mp4")

	out, _, err = runCLI(t, []string{"clips", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("clips list: %v", err)
	}
	requireContains(t, out, "media.discordapp.net")
	requireContains(t, out, "pending")
	if strings.Contains(out, "cdn.discordapp.com") {
		t.Fatalf("expected alias host to be rewritten, got:\n%s", out)
	}
}

func TestClipsListFiltersByStatus(t *testing.T) {
	env := setupCLITestEnv(t)
	store := testsupport.MustOpenStore(t, env.cfg)
	testsupport.AddClip(t, store, "https://example.com/pending.mp4")
	failed := testsupport.AddClip(t, store, "https://example.com/failed.mp4")
	if err := store.MarkFailed(t.Context(), failed.ID, "boom"); err != nil {
		t.Fatalf("MarkFailed failed: %v", err)
	}

	out, _, err := runCLI(t, []string{"clips", "list", "--status", "failed"}, env.configPath)
	if err != nil {
		t.Fatalf("clips list: %v", err)
	}
	requireContains(t, out, "failed.mp4")
	if strings.Contains(out, "pending.mp4") {
		t.Fatalf("expected pending clip to be filtered out, got:\n%s", out)
	}

	if _, _, err := runCLI(t, []string{"clips", "list", "--status", "bogus"}, env.configPath); err == nil {
		t.Fatal("expected unknown status to fail")
	}
}

func TestClipsRetryClearsFailedFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	store := testsupport.MustOpenStore(t, env.cfg)
	clip := testsupport.AddClip(t, store, "https://example.com/a.mp4")
	if err := store.MarkFailed(t.Context(), clip.ID, "ffmpeg exited 1"); err != nil {
		t.Fatalf("MarkFailed failed: %v", err)
	}

	out, _, err := runCLI(t, []string{"clips", "show", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("clips show: %v", err)
	}
	requireContains(t, out, "Last error: ffmpeg exited 1")

	out, _, err = runCLI(t, []string{"clips", "retry"}, env.configPath)
	if err != nil {
		t.Fatalf("clips retry: %v", err)
	}
	requireContains(t, out, "Cleared failed flag on 1 clips")

	got, err := store.Get(t.Context(), clip.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.IsCandidate() {
		t.Fatalf("expected clip to be a candidate again, got %+v", got)
	}
}

func TestClipsStatusAndRemove(t *testing.T) {
	env := setupCLITestEnv(t)
	store := testsupport.MustOpenStore(t, env.cfg)
	testsupport.AddClip(t, store, "https://example.com/a.mp4")
	second := testsupport.AddClip(t, store, "https://example.com/b.mp4")
	if err := store.Complete(t.Context(), second.ID, "hello"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	out, _, err := runCLI(t, []string{"clips", "status"}, env.configPath)
	if err != nil {
		t.Fatalf("clips status: %v", err)
	}
	requireContains(t, out, "completed")
	requireContains(t, out, "total")

	out, _, err = runCLI(t, []string{"clips", "remove", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("clips remove: %v", err)
	}
	requireContains(t, out, "Removed 1 clips")

	if _, _, err := runCLI(t, []string{"clips", "remove", "nope"}, env.configPath); err == nil {
		t.Fatal("expected invalid id to fail")
	}
}

func TestClipsImportAndExport(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "links.txt")
	content := "# queued clips\nhttps://cdn.discordapp.com/x/one.mp4\n\nhttps://example.com/two.mp4\n"
	if err := os.WriteFile(input, []byte(content), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	out, _, err := runCLI(t, []string{"clips", "import", input}, env.configPath)
	if err != nil {
		t.Fatalf("clips import: %v", err)
	}
	requireContains(t, out, "Imported 2 clips")

	store := testsupport.MustOpenStore(t, env.cfg)
	if err := store.Complete(t.Context(), 1, "first transcript"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	out, _, err = runCLI(t, []string{"clips", "export", "--format", "json"}, env.configPath)
	if err != nil {
		t.Fatalf("clips export: %v", err)
	}
	var records []clipfile.Record
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("decode export: %v\n%s", err, out)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 exported record, got %d", len(records))
	}
	if records[0].URL != "https://media.discordapp.net/x/one.mp4" || records[0].Transcription != "first transcript" {
		t.Fatalf("unexpected record %+v", records[0])
	}

	target := filepath.Join(env.baseDir, "out.xlsx")
	out, _, err = runCLI(t, []string{"clips", "export", "--output", target}, env.configPath)
	if err != nil {
		t.Fatalf("clips export xlsx: %v", err)
	}
	requireContains(t, out, "Exported 1 transcripts")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected workbook at %s: %v", target, err)
	}
}
