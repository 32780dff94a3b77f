package client

import "sync"

// Session holds the authenticated user's tokens and identity as returned by
// the login endpoint.
type Session struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"isAdmin"`
}

// Authenticated reports whether the session carries an access token.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// SessionStore holds the current session and is safe for concurrent use.
// The transport reads it on every request and the refresh path updates it,
// so all access goes through the lock.
type SessionStore struct {
	mu      sync.RWMutex
	session Session
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Set replaces the whole session, typically after a successful login.
func (s *SessionStore) Set(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = sess
}

// UpdateAccessToken swaps in a freshly refreshed access token while keeping
// the refresh token and identity intact.
func (s *SessionStore) UpdateAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.AccessToken = token
}

// Clear drops the session, typically on logout or when a refresh is rejected.
func (s *SessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = Session{}
}

// Snapshot returns a copy of the current session.
func (s *SessionStore) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// AccessToken returns the current access token, or "" when signed out.
func (s *SessionStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.AccessToken
}

// RefreshToken returns the current refresh token, or "" when signed out.
func (s *SessionStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.RefreshToken
}
