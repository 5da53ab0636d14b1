package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"clipscribe/internal/fetch"
	"clipscribe/internal/services"
)

func TestArtifactName(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	tests := []struct {
		url  string
		want string
	}{
		{url: "https://media.discordapp.net/attachments/1/2/clip.mp4", want: id.String() + "-clip.mp4"},
		{url: "https://media.discordapp.net/attachments/1/2/clip.mp4?ex=abc&hm=def", want: id.String() + "-clip.mp4"},
		{url: "https://example.com/a%20b.webm", want: id.String() + "-a b.webm"},
		{url: "https://example.com/", want: id.String() + "-clip"},
		{url: "https://example.com/dir/..", want: id.String() + "-clip"},
	}
	for _, tc := range tests {
		if got := fetch.ArtifactName(id, tc.url); got != tc.want {
			t.Fatalf("ArtifactName(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestFetchWritesArtifact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("fake media payload"))
	}))
	defer server.Close()

	scratch := t.TempDir()
	f := fetch.New(scratch, 5*time.Second, "clipscribe-test")
	path, err := f.Fetch(context.Background(), server.URL+"/attachments/1/2/clip.mp4?ex=1")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if filepath.Dir(path) != scratch {
		t.Fatalf("expected artifact in scratch dir, got %q", path)
	}
	if !strings.HasSuffix(path, "-clip.mp4") {
		t.Fatalf("unexpected artifact name %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(data) != "fake media payload" {
		t.Fatalf("unexpected artifact content %q", data)
	}

	second, err := f.Fetch(context.Background(), server.URL+"/attachments/1/2/clip.mp4")
	if err != nil {
		t.Fatalf("second Fetch failed: %v", err)
	}
	if second == path {
		t.Fatal("expected unique artifact names for repeated fetches")
	}
}

func TestFetchNonSuccessStatusIsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	scratch := t.TempDir()
	_, err := fetch.New(scratch, 5*time.Second, "").Fetch(context.Background(), server.URL+"/clip.mp4")
	if !errors.Is(err, services.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
	if !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected status in error, got %v", err)
	}
	entries, _ := os.ReadDir(scratch)
	if len(entries) != 0 {
		t.Fatalf("expected no artifact for rejected fetch, got %d entries", len(entries))
	}
}

func TestFetchTransportErrorIsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := fetch.New(t.TempDir(), time.Second, "").Fetch(context.Background(), url+"/clip.mp4")
	if !errors.Is(err, services.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}
