package main

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

func newTestSession(t *testing.T, token string) (*Session, *FileStore) {
	t.Helper()
	store, err := OpenFileStore(filepath.Join(t.TempDir(), "session.yaml"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	session, err := LoadSession(store, nil)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if token != "" {
		if err := session.Save(token, 123); err != nil {
			t.Fatalf("save session: %v", err)
		}
	}
	return session, store
}

func TestRequestAuthorizationHeader(t *testing.T) {
	backend := newFakeBackend(t)

	anon, _ := newTestSession(t, "")
	if _, err := NewAPIClient(backend.baseURL(), anon, nil).Challenges(context.Background()); err != nil {
		t.Fatalf("challenges: %v", err)
	}
	if got := backend.last(t, http.MethodGet, "/challenges").Auth; got != "" {
		t.Fatalf("expected no authorization header, got %q", got)
	}

	authed, _ := newTestSession(t, "abc")
	if _, err := NewAPIClient(backend.baseURL(), authed, nil).Challenges(context.Background()); err != nil {
		t.Fatalf("challenges: %v", err)
	}
	if got := backend.last(t, http.MethodGet, "/challenges").Auth; got != "Bearer abc" {
		t.Fatalf("expected bearer header, got %q", got)
	}
}

func TestRequestContentType(t *testing.T) {
	backend := newFakeBackend(t)
	session, _ := newTestSession(t, "abc")
	api := NewAPIClient(backend.baseURL(), session, nil)

	if _, err := api.Broadcast(context.Background(), "hi"); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if got := backend.last(t, http.MethodPost, "/broadcast").ContentType; got != "application/json" {
		t.Fatalf("expected json content type, got %q", got)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("message", "hi")
	_ = mw.Close()

	raw := &RawBody{ContentType: mw.FormDataContentType(), Body: &buf}
	if err := api.Request(context.Background(), http.MethodPost, "/broadcast", raw, nil); err != nil {
		t.Fatalf("multipart request: %v", err)
	}
	got := backend.last(t, http.MethodPost, "/broadcast").ContentType
	if !strings.HasPrefix(got, "multipart/form-data; boundary=") {
		t.Fatalf("expected multipart content type, got %q", got)
	}
}

func TestUnauthorizedClearsSessionOnEveryEndpoint(t *testing.T) {
	calls := map[string]func(*APIClient) error{
		"login": func(a *APIClient) error { _, err := a.Login(context.Background(), "p", 1); return err },
		"logout": func(a *APIClient) error { return a.Logout(context.Background()) },
		"broadcast": func(a *APIClient) error {
			_, err := a.Broadcast(context.Background(), "m")
			return err
		},
		"challenges": func(a *APIClient) error { _, err := a.Challenges(context.Background()); return err },
		"create": func(a *APIClient) error {
			_, err := a.CreateChallenge(context.Background(), NewChallenge{Title: "t"})
			return err
		},
		"toggle":  func(a *APIClient) error { return a.SetChallengeActive(context.Background(), "c1", false) },
		"delete":  func(a *APIClient) error { return a.DeleteChallenge(context.Background(), "c1") },
		"reports": func(a *APIClient) error { _, err := a.PendingReports(context.Background()); return err },
		"resolve": func(a *APIClient) error {
			return a.ResolveReport(context.Background(), Resolution{UserID: 1, ChallengeID: "c1", Decision: decisionApproved})
		},
		"logs":  func(a *APIClient) error { _, err := a.Logs(context.Background()); return err },
		"stats": func(a *APIClient) error { _, err := a.UserStats(context.Background()); return err },
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Недействительный токен."})
	}))
	t.Cleanup(server.Close)

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			session, store := newTestSession(t, "abc")
			err := call(NewAPIClient(server.URL, session, nil))

			if !errors.Is(err, ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
			if session.LoggedIn() {
				t.Fatal("expected session cleared")
			}
			if _, ok := session.AdminID(); ok {
				t.Fatal("expected admin id cleared")
			}
			if _, ok, _ := store.Get(storageTokenKey); ok {
				t.Fatal("expected token removed from storage")
			}
			if _, ok, _ := store.Get(storageAdminIDKey); ok {
				t.Fatal("expected admin id removed from storage")
			}
		})
	}
}

func TestRequestErrorMessage(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		body        string
		want        string
	}{
		{name: "detail string", contentType: "application/json", body: `{"detail":"Задание не найдено."}`, want: "Задание не найдено."},
		{name: "validation list", contentType: "application/json", body: `{"detail":[{"loc":["body","title"],"msg":"too short"},{"msg":"bad points"}]}`, want: "too short; bad points"},
		{name: "raw text", contentType: "text/plain", body: "upstream exploded\n", want: "upstream exploded"},
		{name: "json without detail", contentType: "application/json", body: `{"error":"x"}`, want: ""},
		{name: "empty body", contentType: "text/plain", body: "", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tc.contentType)
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tc.body))
			}))
			t.Cleanup(server.Close)

			session, _ := newTestSession(t, "abc")
			_, err := NewAPIClient(server.URL, session, nil).Challenges(context.Background())

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if apiErr.Status != http.StatusBadRequest || apiErr.Message != tc.want {
				t.Fatalf("expected %q, got status=%d message=%q", tc.want, apiErr.Status, apiErr.Message)
			}
			if errors.Is(err, ErrUnauthenticated) {
				t.Fatal("400 is not an auth error")
			}
			if !session.LoggedIn() {
				t.Fatal("non-401 errors must keep the session")
			}
		})
	}
}

func TestAPIErrorFallbackText(t *testing.T) {
	err := &APIError{Status: 502}
	if err.Error() != "request failed with status 502" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestRequestNoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	session, _ := newTestSession(t, "abc")
	out := []Challenge{{ID: "untouched"}}
	if err := NewAPIClient(server.URL, session, nil).Request(context.Background(), http.MethodGet, "/challenges", nil, &out); err != nil {
		t.Fatalf("request: %v", err)
	}
	if len(out) != 1 || out[0].ID != "untouched" {
		t.Fatalf("204 must not touch the output, got %v", out)
	}
}

func TestRequestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	session, _ := newTestSession(t, "abc")
	_, err := NewAPIClient(url, session, nil).Logs(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failures are not API errors, got %v", err)
	}
	if !session.LoggedIn() {
		t.Fatal("transport failures must keep the session")
	}
}

func TestChallengeIDIsPathEscaped(t *testing.T) {
	backend := newFakeBackend(t)
	session, _ := newTestSession(t, "abc")
	if err := NewAPIClient(backend.baseURL(), session, nil).DeleteChallenge(context.Background(), "custom/1 a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if backend.count(http.MethodDelete, "/challenges/custom%2F1%20a") != 1 {
		t.Fatalf("expected escaped path, got %+v", backend.requests)
	}
}
