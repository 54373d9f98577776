// Package session owns the authenticated-user context: the bearer token and
// the identity it belongs to. It replaces ad hoc global lookups with one
// explicit object handed to the request client and permission call-sites,
// with a clear begin (login success) / end (logout) lifecycle.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"faros-cli/internal/config"
)

const fileName = "session.json"

// ErrNotLoggedIn is returned by Require when no session is active.
var ErrNotLoggedIn = errors.New("not logged in (run `faros login`)")

type Session struct {
	mu sync.RWMutex

	token    string
	username string
	email    string
}

type wireSession struct {
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Load reads any persisted session from the faros home dir. A missing file
// yields an empty (unauthenticated) session, not an error.
func Load() (*Session, error) {
	s := &Session{}
	path, err := sessionPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}
	var w wireSession
	if err := json.Unmarshal(b, &w); err != nil {
		// A corrupt session file means "logged out", not a fatal error.
		return &Session{}, nil
	}
	s.token, s.username, s.email = w.Token, w.Username, w.Email
	return s, nil
}

// Begin installs the credentials from a successful login and persists them.
func (s *Session) Begin(token, username, email string) error {
	s.mu.Lock()
	s.token, s.username, s.email = token, username, email
	s.mu.Unlock()
	return s.save()
}

// End tears the session down and removes the persisted file.
func (s *Session) End() error {
	s.mu.Lock()
	s.token, s.username, s.email = "", "", ""
	s.mu.Unlock()
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Require returns ErrNotLoggedIn when no credentials are present.
func (s *Session) Require() error {
	if !s.Authenticated() {
		return ErrNotLoggedIn
	}
	return nil
}

func (s *Session) save() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	s.mu.RLock()
	w := wireSession{Token: s.token, Username: s.username, Email: s.email}
	s.mu.RUnlock()
	b, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return err
	}
	// Token material: keep the file private.
	return os.WriteFile(path, append(b, '\n'), 0o600)
}

func sessionPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}
