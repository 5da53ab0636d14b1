// Package fetch downloads clip media into the scratch directory.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"clipscribe/internal/services"
	"clipscribe/internal/textutil"
)

const fallbackName = "clip"

// Fetcher streams remote media to uniquely named scratch files.
type Fetcher struct {
	client     *http.Client
	scratchDir string
	userAgent  string
	newID      func() (uuid.UUID, error)
}

// New constructs a fetcher writing into scratchDir.
func New(scratchDir string, timeout time.Duration, userAgent string) *Fetcher {
	return NewWithClient(&http.Client{Timeout: timeout}, scratchDir, userAgent)
}

// NewWithClient uses a caller supplied client, mainly for tests.
func NewWithClient(client *http.Client, scratchDir, userAgent string) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		client:     client,
		scratchDir: scratchDir,
		userAgent:  userAgent,
		newID:      uuid.NewUUID,
	}
}

// ArtifactName builds "<time-ordered uuid>-<last path segment>" for rawURL.
// The query string is ignored and unsafe characters are replaced.
func ArtifactName(id uuid.UUID, rawURL string) string {
	segment := ""
	if parsed, err := url.Parse(rawURL); err == nil {
		segment = path.Base(parsed.Path)
	} else {
		trimmed := rawURL
		if idx := strings.IndexAny(trimmed, "?#"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		segment = path.Base(trimmed)
	}
	if segment == "/" {
		segment = ""
	}
	return id.String() + "-" + textutil.SanitizeFileName(segment, fallbackName)
}

// Fetch downloads rawURL and returns the local artifact path. A non-2xx
// status or any transfer error yields services.ErrFetch. A partially written
// file is left in place for the scratch sweep.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	id, err := f.newID()
	if err != nil {
		return "", services.Wrap(services.ErrFetch, "fetch", "artifact name", "", err)
	}
	dest := filepath.Join(f.scratchDir, ArtifactName(id, rawURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", services.Wrap(services.ErrFetch, "fetch", "build request", "", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrFetch, "fetch", "request", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", services.Wrap(services.ErrFetch, "fetch", "request", fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	if err := os.MkdirAll(f.scratchDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrFetch, "fetch", "ensure scratch dir", "", err)
	}
	file, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", services.Wrap(services.ErrFetch, "fetch", "create artifact", "", err)
	}
	written, copyErr := io.Copy(file, resp.Body)
	closeErr := file.Close()
	if copyErr != nil {
		return dest, services.Wrap(services.ErrFetch, "fetch", "write artifact", fmt.Sprintf("%d bytes written", written), copyErr)
	}
	if closeErr != nil {
		return dest, services.Wrap(services.ErrFetch, "fetch", "close artifact", "", closeErr)
	}
	if resp.ContentLength > 0 && written != resp.ContentLength {
		return dest, services.Wrap(services.ErrFetch, "fetch", "write artifact",
			fmt.Sprintf("short body: %d of %d bytes", written, resp.ContentLength), nil)
	}
	return dest, nil
}
