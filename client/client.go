package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Ashiksyedmuhammad/React-User-Management/pkg/httpclient"
)

// SessionPersister keeps a durable copy of the session across process
// restarts. *FileStore implements it. Persistence is best-effort: a write
// failure never fails the API call that triggered it.
type SessionPersister interface {
	SaveSession(sess Session) error
	UpdateAccessToken(token string) error
	ClearSession() error
}

// Config holds the API client configuration.
type Config struct {
	// BaseURL is the portal server root, e.g. "http://localhost:3000".
	BaseURL string

	// HTTP configures the underlying transport. Zero value uses defaults.
	HTTP httpclient.Config

	// Store, when set, receives every session change: login saves the full
	// session, a silent refresh updates the stored access token, and logout
	// or a rejected refresh clears it. Optional.
	Store SessionPersister

	// OnSessionExpired is invoked once when a token refresh is rejected and
	// the session has been cleared. Optional.
	OnSessionExpired func()
}

// Client is the typed API client for the portal server. It manages the
// session tokens internally: after Login, requests carry the bearer token
// and expired access tokens are refreshed transparently.
type Client struct {
	baseURL string
	http    *http.Client
	plain   *http.Client
	store   *SessionStore
	persist SessionPersister
}

// New creates a portal API client.
func New(cfg Config) *Client {
	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP = httpclient.DefaultConfig()
	}

	base := httpclient.NewTransport(cfg.HTTP)
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		store:   NewSessionStore(),
		persist: cfg.Store,
		// plain skips the auth transport: used for login, register and the
		// refresh call itself.
		plain: &http.Client{Transport: base, Timeout: cfg.HTTP.Timeout},
	}
	c.http = &http.Client{
		Transport: &authTransport{
			base:             base,
			store:            c.store,
			persist:          cfg.Store,
			refresh:          c.refreshAccessToken,
			onSessionExpired: cfg.OnSessionExpired,
		},
		Timeout: cfg.HTTP.Timeout,
	}
	return c
}

// Session returns a copy of the current session.
func (c *Client) Session() Session {
	return c.store.Snapshot()
}

// RestoreSession installs a previously saved session, e.g. one loaded from a
// FileStore.
func (c *Client) RestoreSession(sess Session) {
	c.store.Set(sess)
}

// Logout clears the session, in memory and in the durable store. The server
// keeps no refresh state, so dropping the tokens is all there is to it.
func (c *Client) Logout() {
	c.store.Clear()
	if c.persist != nil {
		_ = c.persist.ClearSession()
	}
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	Token string `json:"token"`
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	return c.doPlain(ctx, http.MethodPost, "/api/auth/register", registerRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}, nil)
}

// Login authenticates and stores the returned session for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var sess Session
	err := c.doPlain(ctx, http.MethodPost, "/api/auth/login", loginRequest{
		Email:    email,
		Password: password,
	}, &sess)
	if err != nil {
		return Session{}, err
	}
	c.store.Set(sess)
	if c.persist != nil {
		_ = c.persist.SaveSession(sess)
	}
	return sess, nil
}

func (c *Client) refreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	var resp refreshResponse
	err := c.do(ctx, c.plain, http.MethodPost, "/api/auth/refreshToken", refreshRequest{
		RefreshToken: refreshToken,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// --- Profile ---

// Profile is the caller's own account view.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

type editProfileRequest struct {
	Name string `json:"name"`
}

// GetProfile fetches the authenticated user's profile.
func (c *Client) GetProfile(ctx context.Context) (Profile, error) {
	var p Profile
	err := c.doAuthed(ctx, http.MethodGet, "/api/auth/user", nil, &p)
	return p, err
}

// EditProfile updates the authenticated user's display name.
func (c *Client) EditProfile(ctx context.Context, name string) error {
	return c.doAuthed(ctx, http.MethodPut, "/api/user/editUser", editProfileRequest{Name: name}, nil)
}

// --- Admin ---

// UserSummary is one row in the admin user list.
type UserSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Image   string `json:"image,omitempty"`
	IsAdmin bool   `json:"isAdmin"`
}

// UserList is the paginated admin user listing.
type UserList struct {
	Users       []UserSummary `json:"users"`
	TotalUsers  int           `json:"totalUsers"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
	HasNextPage bool          `json:"hasNextPage"`
	HasPrevPage bool          `json:"hasPrevPage"`
}

// ListUsersOptions filters and paginates the admin user list. Zero values
// fall back to the server defaults.
type ListUsersOptions struct {
	SearchTerm string
	Page       int
	Limit      int
}

// AdminUserUpdate holds the fields an admin can change on a user. Nil fields
// are left unchanged.
type AdminUserUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Image *string `json:"image,omitempty"`
}

// AdminListUsers fetches a page of non-admin users. Requires an admin session.
func (c *Client) AdminListUsers(ctx context.Context, opts ListUsersOptions) (UserList, error) {
	q := url.Values{}
	if opts.SearchTerm != "" {
		q.Set("searchTerm", opts.SearchTerm)
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}

	path := "/api/admin/users"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var list UserList
	err := c.doAuthed(ctx, http.MethodGet, path, nil, &list)
	return list, err
}

// AdminEditUser updates a user's account. Requires an admin session.
func (c *Client) AdminEditUser(ctx context.Context, userID string, update AdminUserUpdate) error {
	return c.doAuthed(ctx, http.MethodPut, "/api/admin/editUser/"+url.PathEscape(userID), update, nil)
}

// AdminDeleteUser removes a user's account. Requires an admin session.
func (c *Client) AdminDeleteUser(ctx context.Context, userID string) error {
	return c.doAuthed(ctx, http.MethodDelete, "/api/admin/deleteUser/"+url.PathEscape(userID), nil, nil)
}

// --- Request plumbing ---

func (c *Client) doAuthed(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, c.http, method, path, body, out)
}

func (c *Client) doPlain(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, c.plain, method, path, body, out)
}

// do sends a JSON request and decodes the response. Bodies are buffered so
// the auth transport can replay the request after a refresh.
func (c *Client) do(ctx context.Context, httpClient *http.Client, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return httpclient.ParseResponseError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
