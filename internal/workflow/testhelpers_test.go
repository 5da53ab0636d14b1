package workflow_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"

	"clipscribe/internal/clips"
	"clipscribe/internal/config"
	"clipscribe/internal/fetch"
	"clipscribe/internal/links"
	"clipscribe/internal/logging"
	"clipscribe/internal/notifications"
	"clipscribe/internal/services"
	"clipscribe/internal/services/ffmpeg"
	"clipscribe/internal/services/whispercpp"
	"clipscribe/internal/testsupport"
	"clipscribe/internal/workflow"
)

const aliasHost = "cdn.clips.invalid"

// clipServer serves media for the link checker and the fetcher. Paths
// starting with /gone return 404, /broken always returns 500, and /flaky
// returns 503 on its first request only.
type clipServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests map[string]int
}

func newClipServer(t *testing.T) *clipServer {
	t.Helper()
	srv := &clipServer{requests: map[string]int{}}
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.mu.Lock()
		srv.requests[r.URL.Path]++
		seen := srv.requests[r.URL.Path]
		srv.mu.Unlock()

		switch {
		case strings.HasPrefix(r.URL.Path, "/gone"):
			http.NotFound(w, r)
		case strings.HasPrefix(r.URL.Path, "/broken"):
			http.Error(w, "boom", http.StatusInternalServerError)
		case strings.HasPrefix(r.URL.Path, "/flaky") && seen == 1:
			http.Error(w, "busy", http.StatusServiceUnavailable)
		default:
			w.Header().Set("Content-Type", "video/mp4")
			_, _ = w.Write([]byte("fake media for " + r.URL.Path))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (s *clipServer) host() string {
	u, _ := url.Parse(s.URL)
	return u.Host
}

// aliasURL returns a link on the alias host that the run rewrites onto the
// test server.
func (s *clipServer) aliasURL(path string) string {
	return "http://" + aliasHost + path
}

func (s *clipServer) hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

// toolRunner fakes ffmpeg and whisper.cpp. ffmpeg writes its last argument;
// whisper.cpp writes <-of>.txt with the transcript registered for the
// matching clip path fragment. Either tool exits 1 for inputs matching a
// fragment in its fail map.
type toolRunner struct {
	mu          sync.Mutex
	transcripts map[string]string
	failFFmpeg  map[string]bool
	failWhisper map[string]bool
	onFFmpeg    func(ctx context.Context, input string) error
	calls       []string
}

func newToolRunner() *toolRunner {
	return &toolRunner{
		transcripts: map[string]string{},
		failFFmpeg:  map[string]bool{},
		failWhisper: map[string]bool{},
	}
}

func (r *toolRunner) run(ctx context.Context, name string, args ...string) error {
	r.mu.Lock()
	r.calls = append(r.calls, name)
	r.mu.Unlock()

	switch name {
	case "ffmpeg":
		input := argAfter(args, "-i")
		if r.onFFmpeg != nil {
			if err := r.onFFmpeg(ctx, input); err != nil {
				return err
			}
		}
		for fragment := range r.failFFmpeg {
			if strings.Contains(input, fragment) {
				return &services.ToolError{Tool: name, ExitCode: 1, Output: "Invalid data found when processing input", Err: errors.New("exit status 1")}
			}
		}
		return os.WriteFile(args[len(args)-1], []byte("RIFF"), 0o644)
	case "whisper-cli":
		prefix := argAfter(args, "-of")
		for fragment := range r.failWhisper {
			if strings.Contains(prefix, fragment) {
				return &services.ToolError{Tool: name, ExitCode: 1, Output: "failed to read audio data", Err: errors.New("exit status 1")}
			}
		}
		text := "(no speech)"
		for fragment, transcript := range r.transcripts {
			if strings.Contains(prefix, fragment) {
				text = transcript
			}
		}
		return os.WriteFile(prefix+whispercpp.TextSuffix, []byte(text), 0o644)
	default:
		return &services.ToolError{Tool: name, ExitCode: -1, Err: errors.New("unknown tool")}
	}
}

func (r *toolRunner) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, call := range r.calls {
		if call == name {
			n++
		}
	}
	return n
}

func argAfter(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

// rewriteFailingStore refuses every URL update so the alias rewrite pass
// cannot make progress.
type rewriteFailingStore struct {
	*clips.Store
}

func (rewriteFailingStore) UpdateURL(context.Context, int64, string) error {
	return errors.New("database is locked")
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notifications.Event
	last   map[notifications.Event]notifications.Payload
}

func (n *recordingNotifier) Publish(_ context.Context, event notifications.Event, payload notifications.Payload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.last == nil {
		n.last = map[notifications.Event]notifications.Payload{}
	}
	n.events = append(n.events, event)
	n.last[event] = payload
	return nil
}

type harness struct {
	cfg      *config.Config
	store    *clips.Store
	server   *clipServer
	tools    *toolRunner
	notifier *recordingNotifier
	manager  *workflow.Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	server := newClipServer(t)
	cfg := testsupport.NewConfig(t, testsupport.WithAlias(aliasHost, server.host()))
	cfg.Whisper.Binary = "whisper-cli"
	cfg.Workflow.PrepConcurrency = 2
	store := testsupport.MustOpenStore(t, cfg)

	h := &harness{
		cfg:      cfg,
		store:    store,
		server:   server,
		tools:    newToolRunner(),
		notifier: &recordingNotifier{},
	}
	h.manager = workflow.NewManagerWithNotifier(cfg, store, logging.NewNop(), h.notifier)
	h.manager.ConfigureStages(h.stages())
	return h
}

func (h *harness) stages() workflow.StageSet {
	transcoder := ffmpeg.New(h.cfg.FFmpeg.Binary)
	transcoder.WithCommandRunner(h.tools.run)
	transcriber := whispercpp.New(whispercpp.Config{
		Binary:  h.cfg.Whisper.Binary,
		Model:   h.cfg.Whisper.Model,
		Threads: h.cfg.Whisper.Threads,
	})
	transcriber.WithCommandRunner(h.tools.run)
	client := h.server.Client()
	return workflow.StageSet{
		Checker:     links.NewCheckerWithClient(client, "clipscribe-test"),
		Fetcher:     fetch.NewWithClient(client, h.cfg.Paths.ScratchDir, "clipscribe-test"),
		Transcoder:  transcoder,
		Transcriber: transcriber,
	}
}

func (h *harness) run(t *testing.T, ctx context.Context) workflow.Summary {
	t.Helper()
	summary, err := h.manager.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return summary
}

func (h *harness) get(t *testing.T, id int64) *clips.Clip {
	t.Helper()
	clip, err := h.store.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get(%d) failed: %v", id, err)
	}
	return clip
}

func assertScratchEmpty(t *testing.T, cfg *config.Config) {
	t.Helper()
	entries, err := os.ReadDir(cfg.Paths.ScratchDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("read scratch: %v", err)
	}
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			names = append(names, entry.Name())
		}
		t.Fatalf("expected empty scratch dir, found %v", names)
	}
}
