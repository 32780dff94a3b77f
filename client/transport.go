package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrSessionExpired is returned when the server rejects the refresh token.
// The session has been cleared; the user must log in again.
var ErrSessionExpired = errors.New("session expired, please log in again")

// refreshFunc exchanges a refresh token for a new access token.
type refreshFunc func(ctx context.Context, refreshToken string) (string, error)

const refreshTimeout = 10 * time.Second

// authTransport is an http.RoundTripper that attaches the bearer token to
// outgoing requests and transparently recovers from expired access tokens.
//
// On a 401 it refreshes the access token and replays the request exactly
// once. Concurrent 401s share a single refresh call through singleflight, so
// a burst of expired requests produces one round trip to the refresh
// endpoint. A 403 is terminal and passed through untouched, as are network
// errors and every other status.
type authTransport struct {
	base             http.RoundTripper
	store            *SessionStore
	persist          SessionPersister
	refresh          refreshFunc
	group            singleflight.Group
	onSessionExpired func()
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	sentToken := t.store.AccessToken()

	resp, err := t.base.RoundTrip(t.withBearer(req, sentToken))
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// A 401 before login (no refresh token) or on a request whose body
	// cannot be rebuilt is returned as-is.
	if t.store.RefreshToken() == "" {
		return resp, nil
	}
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	drainAndClose(resp.Body)

	// Another request may have refreshed the token while this one was in
	// flight. If so, retry with the current token instead of refreshing
	// again.
	token := t.store.AccessToken()
	if token == sentToken {
		token, err = t.refreshAccessToken(req.Context())
		if err != nil {
			return nil, err
		}
	}

	retry, err := rebuildRequest(req)
	if err != nil {
		return nil, err
	}
	return t.base.RoundTrip(t.withBearer(retry, token))
}

// refreshAccessToken performs the coalesced refresh. The shared call runs on
// its own context so one caller cancelling does not fail the refresh for the
// others; each caller still honors its own context while waiting.
func (t *authTransport) refreshAccessToken(ctx context.Context) (string, error) {
	ch := t.group.DoChan("refresh", func() (any, error) {
		refreshCtx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		token, err := t.refresh(refreshCtx, t.store.RefreshToken())
		if err != nil {
			t.store.Clear()
			if t.persist != nil {
				_ = t.persist.ClearSession()
			}
			if t.onSessionExpired != nil {
				t.onSessionExpired()
			}
			return "", fmt.Errorf("%w: %v", ErrSessionExpired, err)
		}
		t.store.UpdateAccessToken(token)
		if t.persist != nil {
			_ = t.persist.UpdateAccessToken(token)
		}
		return token, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// withBearer returns a shallow clone of req with the Authorization header
// set, leaving the caller's request untouched.
func (t *authTransport) withBearer(req *http.Request, token string) *http.Request {
	if token == "" {
		return req
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+token)
	return clone
}

// rebuildRequest clones req with a fresh body for the retry.
func rebuildRequest(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("rebuild request body: %w", err)
		}
		clone.Body = body
	}
	return clone, nil
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 1<<20))
	_ = body.Close()
}
