package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Theme is the UI color scheme preference persisted alongside the session.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Keys in the persisted store. They mirror the browser localStorage keys the
// web frontend uses, so a session file is readable at a glance.
const (
	storeKeyToken        = "token"
	storeKeyRefreshToken = "refreshToken"
	storeKeyUser         = "user"
	storeKeyTheme        = "theme"
)

type storedUser struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// FileStore persists session tokens and preferences as a flat JSON object on
// disk. Writes go through a temp file and rename so a crash mid-write never
// leaves a truncated store behind.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]json.RawMessage
}

// NewFileStore opens the store at path, loading existing contents if the file
// is present. The parent directory is created if needed.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	s := &FileStore{
		path:   path,
		values: make(map[string]json.RawMessage),
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read store file: %w", err)
	}

	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("parse store file %s: %w", path, err)
	}
	return s, nil
}

// SaveSession persists the session's tokens and identity.
func (s *FileStore) SaveSession(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := json.Marshal(storedUser{
		Name:    sess.Name,
		Email:   sess.Email,
		IsAdmin: sess.IsAdmin,
	})
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	s.values[storeKeyToken] = mustMarshal(sess.AccessToken)
	s.values[storeKeyRefreshToken] = mustMarshal(sess.RefreshToken)
	s.values[storeKeyUser] = user
	return s.flush()
}

// LoadSession reads a previously saved session. The second return value is
// false when no session has been saved.
func (s *FileStore) LoadSession() (Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.values[storeKeyToken]
	if !ok {
		return Session{}, false, nil
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess.AccessToken); err != nil {
		return Session{}, false, fmt.Errorf("parse stored token: %w", err)
	}
	if raw, ok := s.values[storeKeyRefreshToken]; ok {
		if err := json.Unmarshal(raw, &sess.RefreshToken); err != nil {
			return Session{}, false, fmt.Errorf("parse stored refresh token: %w", err)
		}
	}
	if raw, ok := s.values[storeKeyUser]; ok {
		var user storedUser
		if err := json.Unmarshal(raw, &user); err != nil {
			return Session{}, false, fmt.Errorf("parse stored user: %w", err)
		}
		sess.Name = user.Name
		sess.Email = user.Email
		sess.IsAdmin = user.IsAdmin
	}
	return sess, true, nil
}

// UpdateAccessToken persists a refreshed access token without touching the
// rest of the session.
func (s *FileStore) UpdateAccessToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[storeKeyToken] = mustMarshal(token)
	return s.flush()
}

// ClearSession removes the tokens and identity, keeping preferences such as
// the theme.
func (s *FileStore) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, storeKeyToken)
	delete(s.values, storeKeyRefreshToken)
	delete(s.values, storeKeyUser)
	return s.flush()
}

// SaveTheme persists the UI theme preference.
func (s *FileStore) SaveTheme(theme Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[storeKeyTheme] = mustMarshal(string(theme))
	return s.flush()
}

// LoadTheme reads the saved theme. The second return value is false when no
// theme has been saved.
func (s *FileStore) LoadTheme() (Theme, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.values[storeKeyTheme]
	if !ok {
		return "", false
	}
	var theme string
	if json.Unmarshal(raw, &theme) != nil {
		return "", false
	}
	return Theme(theme), true
}

func (s *FileStore) flush() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

func mustMarshal(s string) json.RawMessage {
	data, err := json.Marshal(s)
	if err != nil {
		panic(err) // marshalling a string cannot fail
	}
	return data
}
