package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

const (
	storageTokenKey   = "ecostep_admin_token"
	storageAdminIDKey = "ecostep_admin_id"
)

// HostUser is the identity supplied by the hosting app. When present it is
// authoritative over a manually entered admin id.
type HostUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
}

// parseHostUser decodes the host identity. Blank input or an identity without a
// positive id yields nil.
func parseHostUser(raw string) (*HostUser, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var u HostUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("parse host user: %w", err)
	}
	if u.ID <= 0 {
		return nil, nil
	}
	return &u, nil
}

// Session owns the auth token and admin id. It is the only mutable state
// shared between the API client and the view controller.
type Session struct {
	mu      sync.RWMutex
	store   KeyValueStore
	token   string
	adminID int64
	host    *HostUser
}

// LoadSession reads the persisted token and admin id back from store.
func LoadSession(store KeyValueStore, host *HostUser) (*Session, error) {
	s := &Session{store: store, host: host}

	token, _, err := store.Get(storageTokenKey)
	if err != nil {
		return nil, err
	}
	s.token = token

	rawID, _, err := store.Get(storageAdminIDKey)
	if err != nil {
		return nil, err
	}
	if id, ok := parseAdminID(rawID); ok {
		s.adminID = id
	}

	if host != nil {
		s.adminID = host.ID
	}
	return s, nil
}

// Save persists a freshly issued token.
func (s *Session) Save(token string, adminID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.adminID = adminID
	if err := s.store.Set(storageTokenKey, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := s.store.Set(storageAdminIDKey, strconv.FormatInt(adminID, 10)); err != nil {
		return fmt.Errorf("save admin id: %w", err)
	}
	return nil
}

// Clear drops the token and admin id from memory and storage. The host
// identity survives since it does not come from storage.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.adminID = 0
	if s.host != nil {
		s.adminID = s.host.ID
	}
	if err := s.store.Delete(storageTokenKey); err != nil {
		return err
	}
	return s.store.Delete(storageAdminIDKey)
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) AdminID() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.adminID, s.adminID > 0
}

func (s *Session) HostUser() *HostUser {
	return s.host
}

func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

// parseAdminID accepts only a positive decimal Telegram id.
func parseAdminID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// openStore picks the adapter configured for the session.
func openStore(cfg *Config) (KeyValueStore, error) {
	path, err := sessionPath(cfg)
	if err != nil {
		return nil, err
	}
	switch cfg.Session.Backend {
	case sessionBackendSQLite:
		logger.Debug("using sqlite session store", "path", path)
		return OpenSQLiteStore(path)
	default:
		logger.Debug("using file session store", "path", path)
		return OpenFileStore(path)
	}
}
