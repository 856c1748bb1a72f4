package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrUnauthenticated is returned for every 401, whatever the endpoint.
var ErrUnauthenticated = errors.New("unauthenticated")

// APIError is a non-2xx answer from the admin API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	return nil
}

// RawBody is sent untouched with its own content type, e.g. a multipart form.
type RawBody struct {
	ContentType string
	Body        io.Reader
}

// APIClient talks to the EcoStep admin API on behalf of the current session
type APIClient struct {
	baseURL string
	session *Session
	http    *http.Client
}

func NewAPIClient(baseURL string, session *Session, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		http:    httpClient,
	}
}

// Request performs one call. A 204 leaves out untouched. A 401 clears the
// session before returning.
func (c *APIClient) Request(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	contentType := "application/json"

	switch b := body.(type) {
	case nil:
	case *RawBody:
		reader = b.Body
		contentType = b.ContentType
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug("api request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	logger.Debug("api request", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.session.Clear(); err != nil {
			logger.Warn("failed to clear session", "error", err)
		}
		return &APIError{Status: resp.StatusCode, Message: readErrorDetail(resp.Body)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: readErrorDetail(resp.Body)}
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// readErrorDetail extracts the FastAPI "detail" field, falling back to the raw body.
func readErrorDetail(r io.Reader) string {
	raw, err := io.ReadAll(r)
	if err != nil {
		return ""
	}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return strings.TrimSpace(string(raw))
	}
	if len(payload.Detail) == 0 || string(payload.Detail) == "null" {
		return ""
	}

	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		return text
	}

	// validation errors come as [{"loc": [...], "msg": "..."}]
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return string(payload.Detail)
}

func (c *APIClient) Login(ctx context.Context, password string, adminID int64) (*LoginResult, error) {
	body := map[string]any{"password": password, "admin_id": adminID}
	var out LoginResult
	if err := c.Request(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) Logout(ctx context.Context) error {
	return c.Request(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

func (c *APIClient) Broadcast(ctx context.Context, message string) (*BroadcastResult, error) {
	var out BroadcastResult
	if err := c.Request(ctx, http.MethodPost, "/broadcast", map[string]string{"message": message}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) Challenges(ctx context.Context) ([]Challenge, error) {
	var out []Challenge
	if err := c.Request(ctx, http.MethodGet, "/challenges", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) CreateChallenge(ctx context.Context, ch NewChallenge) (*Challenge, error) {
	var out Challenge
	if err := c.Request(ctx, http.MethodPost, "/challenges", ch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) SetChallengeActive(ctx context.Context, id string, active bool) error {
	return c.Request(ctx, http.MethodPatch, "/challenges/"+url.PathEscape(id), map[string]bool{"active": active}, nil)
}

func (c *APIClient) DeleteChallenge(ctx context.Context, id string) error {
	return c.Request(ctx, http.MethodDelete, "/challenges/"+url.PathEscape(id), nil, nil)
}

func (c *APIClient) PendingReports(ctx context.Context) ([]Report, error) {
	var out []Report
	if err := c.Request(ctx, http.MethodGet, "/reports/pending", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) ResolveReport(ctx context.Context, res Resolution) error {
	return c.Request(ctx, http.MethodPost, "/reports/resolve", res, nil)
}

func (c *APIClient) Logs(ctx context.Context) ([]LogEntry, error) {
	var out []LogEntry
	if err := c.Request(ctx, http.MethodGet, "/logs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) UserStats(ctx context.Context) (*UserStats, error) {
	var out UserStats
	if err := c.Request(ctx, http.MethodGet, "/stats/users", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
