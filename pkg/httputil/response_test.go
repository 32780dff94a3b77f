package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Ashiksyedmuhammad/React-User-Management/pkg/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var m Message
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&m))
	return m.Message
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSON(rr, http.StatusOK, map[string]int{"count": 3})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"count":3}`, rr.Body.String())
}

func TestWriteMessage_FlatBody(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteMessage(rr, http.StatusOK, "login successful")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"login successful"}`, rr.Body.String())
}

func TestWriteError_AppErrorStatusAndMessage(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rr := httptest.NewRecorder()

	WriteError(rr, req, apperrors.Unauthorized("invalid email or password"), testLogger())

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "invalid email or password", decodeMessage(t, rr))
}

func TestWriteError_WrappedAppError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	rr := httptest.NewRecorder()

	wrapped := apperrors.Wrap(apperrors.Forbidden("admin access required"), "list users")
	WriteError(rr, req, wrapped, testLogger())

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "admin access required", decodeMessage(t, rr))
}

func TestWriteError_UnknownError_GenericMessage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	rr := httptest.NewRecorder()

	WriteError(rr, req, errors.New("pq: connection reset by peer"), testLogger())

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	// The wrapped cause must never leak to the client.
	assert.Equal(t, "an internal error occurred", decodeMessage(t, rr))
}

func TestWriteError_BareSentinel(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/editUser/u-1", nil)
	rr := httptest.NewRecorder()

	WriteError(rr, req, apperrors.ErrNotFound, testLogger())

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "resource not found", decodeMessage(t, rr))
}
