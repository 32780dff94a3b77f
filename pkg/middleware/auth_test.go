package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityEchoHandler writes the identity injected by the Auth middleware so
// tests can verify context propagation.
func identityEchoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, "%s:%t", UserIDFromContext(r.Context()), IsAdminFromContext(r.Context()))
	}
}

func staticValidator(claims *Claims, err error) TokenValidator {
	return func(string) (*Claims, error) {
		return claims, err
	}
}

func messageOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body.Message
}

func TestAuth_ValidToken_InjectsIdentity(t *testing.T) {
	handler := Auth(staticValidator(&Claims{UserID: "user-123", IsAdmin: true}, nil))(identityEchoHandler())

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "user-123:true", rr.Body.String())
}

func TestAuth_MissingHeader_Returns401(t *testing.T) {
	handler := Auth(staticValidator(nil, errors.New("should not be called")))(identityEchoHandler())

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "authorization header missing", messageOf(t, rr))
}

func TestAuth_MalformedHeader_Returns401(t *testing.T) {
	cases := []string{
		"some-token",
		"Basic dXNlcjpwYXNz",
		"Bearer ",
	}
	for _, header := range cases {
		t.Run(header, func(t *testing.T) {
			handler := Auth(staticValidator(nil, errors.New("should not be called")))(identityEchoHandler())

			req := httptest.NewRequest(http.MethodGet, "/profile", nil)
			req.Header.Set("Authorization", header)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestAuth_ExpiredToken_Returns401(t *testing.T) {
	// Expiry is recoverable: the client refreshes and retries, so the code
	// must be 401 rather than 403 even when the error is wrapped.
	wrapped := fmt.Errorf("validate access token: %w", jwt.ErrTokenExpired)
	handler := Auth(staticValidator(nil, wrapped))(identityEchoHandler())

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "token expired", messageOf(t, rr))
}

func TestAuth_InvalidToken_Returns403(t *testing.T) {
	handler := Auth(staticValidator(nil, jwt.ErrSignatureInvalid))(identityEchoHandler())

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer tampered-token")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "invalid token", messageOf(t, rr))
}

func TestAuth_LowercaseBearerAccepted(t *testing.T) {
	handler := Auth(staticValidator(&Claims{UserID: "user-1"}, nil))(identityEchoHandler())

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "bearer some-token")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireAdmin_AdminPasses(t *testing.T) {
	handler := Auth(staticValidator(&Claims{UserID: "admin-1", IsAdmin: true}, nil))(
		RequireAdmin()(identityEchoHandler()),
	)

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireAdmin_NonAdmin_Returns403(t *testing.T) {
	handler := Auth(staticValidator(&Claims{UserID: "user-1", IsAdmin: false}, nil))(
		RequireAdmin()(identityEchoHandler()),
	)

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "admin access required", messageOf(t, rr))
}

func TestUserIDFromContext_Unset(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, UserIDFromContext(req.Context()))
	assert.False(t, IsAdminFromContext(req.Context()))
}
