package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Ashiksyedmuhammad/React-User-Management/pkg/httputil"
)

type contextKeyType string

const (
	userIDKey  contextKeyType = "user_id"
	isAdminKey contextKeyType = "is_admin"
)

// Claims represents the identity extracted from a verified access token.
type Claims struct {
	UserID  string
	IsAdmin bool
}

// TokenValidator verifies an access token and returns its claims. A failure
// caused only by expiry must wrap jwt.ErrTokenExpired; any other failure is
// treated as a terminal rejection.
type TokenValidator func(token string) (*Claims, error)

// Auth validates bearer tokens and injects user identity into the request
// context. The status code tells the client how to react:
//
//   - 401: no usable token, or the token is well-signed but expired. The
//     client may obtain a fresh access token and retry.
//   - 403: the token is malformed or fails signature verification. Retrying
//     with the same credentials cannot succeed.
func Auth(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.WriteMessage(w, http.StatusUnauthorized, "authorization header missing")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				httputil.WriteMessage(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims, err := validate(parts[1])
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					httputil.WriteMessage(w, http.StatusUnauthorized, "token expired")
					return
				}
				httputil.WriteMessage(w, http.StatusForbidden, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, isAdminKey, claims.IsAdmin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests from authenticated non-admin users. It must
// be mounted after Auth.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdminFromContext(r.Context()) {
				httputil.WriteMessage(w, http.StatusForbidden, "admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext extracts the authenticated user ID from the request context.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// IsAdminFromContext reports whether the authenticated user is an admin.
func IsAdminFromContext(ctx context.Context) bool {
	if isAdmin, ok := ctx.Value(isAdminKey).(bool); ok {
		return isAdmin
	}
	return false
}
