package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const (
	testPassword = "secret"
	testToken    = "tok-1"
)

type recordedRequest struct {
	Method      string
	Path        string
	Auth        string
	ContentType string
	Body        map[string]any
}

// fakeBackend mimics the admin API closely enough for the console.
type fakeBackend struct {
	mu         sync.Mutex
	requests   []recordedRequest
	challenges []Challenge
	reports    []Report
	logs       []LogEntry
	// forced answers keyed by "METHOD /path"
	forced map[string]int
	server *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{forced: map[string]int{}}
	b.server = httptest.NewServer(http.HandlerFunc(b.handle))
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) baseURL() string {
	return b.server.URL + "/api"
}

func (b *fakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	path := strings.TrimPrefix(r.URL.EscapedPath(), "/api")

	b.mu.Lock()
	b.requests = append(b.requests, recordedRequest{
		Method:      r.Method,
		Path:        path,
		Auth:        r.Header.Get("Authorization"),
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	})
	status, forced := b.forced[r.Method+" "+path]
	b.mu.Unlock()

	if forced {
		writeJSON(w, status, map[string]string{"detail": "forced failure"})
		return
	}

	switch {
	case r.Method == http.MethodPost && path == "/auth/login":
		if body["password"] != testPassword {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Неверный пароль."})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": testToken, "admin_id": body["admin_id"]})
	case r.Method == http.MethodPost && path == "/auth/logout":
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	case r.Method == http.MethodPost && path == "/broadcast":
		writeJSON(w, http.StatusOK, BroadcastResult{Sent: 3, Failed: 1})
	case r.Method == http.MethodGet && path == "/challenges":
		writeJSON(w, http.StatusOK, b.challenges)
	case r.Method == http.MethodPost && path == "/challenges":
		writeJSON(w, http.StatusOK, Challenge{ID: "new-1", Title: "x", Source: challengeSourceCustom, Active: true})
	case strings.HasPrefix(path, "/challenges/") && r.Method == http.MethodPatch:
		writeJSON(w, http.StatusOK, map[string]any{"challenge_id": strings.TrimPrefix(path, "/challenges/")})
	case strings.HasPrefix(path, "/challenges/") && r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodGet && path == "/reports/pending":
		writeJSON(w, http.StatusOK, b.reports)
	case r.Method == http.MethodPost && path == "/reports/resolve":
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	case r.Method == http.MethodGet && path == "/logs":
		writeJSON(w, http.StatusOK, b.logs)
	case r.Method == http.MethodGet && path == "/stats/users":
		writeJSON(w, http.StatusOK, UserStats{TotalUsers: 10, WeeklyUsers: 2})
	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// count returns how many requests hit "METHOD /path".
func (b *fakeBackend) count(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (b *fakeBackend) total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

// last returns the most recent request to "METHOD /path".
func (b *fakeBackend) last(t *testing.T, method, path string) recordedRequest {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.requests) - 1; i >= 0; i-- {
		if b.requests[i].Method == method && b.requests[i].Path == path {
			return b.requests[i]
		}
	}
	t.Fatalf("no %s %s request recorded", method, path)
	return recordedRequest{}
}

// cancelAnswer makes fakeUI.Prompt report a cancelled prompt.
const cancelAnswer = "\x00cancel"

// fakeUI plays back scripted answers and returns io.EOF once they run out.
type fakeUI struct {
	answers []string
	asked   []string
	alerts  []string
}

func (f *fakeUI) next(label string) (string, error) {
	f.asked = append(f.asked, label)
	if len(f.answers) == 0 {
		return "", io.EOF
	}
	a := f.answers[0]
	f.answers = f.answers[1:]
	return a, nil
}

func (f *fakeUI) Ask(label string) (string, error)    { return f.next(label) }
func (f *fakeUI) Secret(label string) (string, error) { return f.next(label) }

func (f *fakeUI) Prompt(label string) (string, bool, error) {
	a, err := f.next(label)
	if err != nil {
		return "", false, err
	}
	if a == cancelAnswer {
		return "", false, nil
	}
	return a, true, nil
}

func (f *fakeUI) Confirm(question string) (bool, error) {
	a, err := f.next(question)
	if err != nil {
		return false, err
	}
	return isYes(a), nil
}

func (f *fakeUI) Alert(text string) {
	f.alerts = append(f.alerts, text)
}

func (f *fakeUI) alerted(text string) bool {
	for _, a := range f.alerts {
		if a == text {
			return true
		}
	}
	return false
}

type consoleFixture struct {
	backend *fakeBackend
	store   *FileStore
	session *Session
	ui      *fakeUI
	out     *bytes.Buffer
	tx      *Texts
	console *Controller
}

type fixtureOption func(cfg *Config, store *FileStore)

func withLoggedIn() fixtureOption {
	return func(_ *Config, store *FileStore) {
		_ = store.Set(storageTokenKey, testToken)
		_ = store.Set(storageAdminIDKey, "123")
	}
}

func withCO2Entry(mode string) fixtureOption {
	return func(cfg *Config, _ *FileStore) {
		cfg.Dashboard.CO2Entry = mode
	}
}

func newConsoleFixture(t *testing.T, backend *fakeBackend, host *HostUser, answers []string, opts ...fixtureOption) *consoleFixture {
	t.Helper()

	store, err := OpenFileStore(filepath.Join(t.TempDir(), "session.yaml"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	cfg := &Config{APIBaseURL: backend.baseURL()}
	for _, opt := range opts {
		opt(cfg, store)
	}
	applyDefaults(cfg)

	session, err := LoadSession(store, host)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	tx, err := NewTexts("ru-RU")
	if err != nil {
		t.Fatalf("texts: %v", err)
	}

	ui := &fakeUI{answers: answers}
	out := &bytes.Buffer{}
	api := NewAPIClient(backend.baseURL(), session, backend.server.Client())
	return &consoleFixture{
		backend: backend,
		store:   store,
		session: session,
		ui:      ui,
		out:     out,
		tx:      tx,
		console: NewController(cfg, session, api, ui, out, tx),
	}
}
