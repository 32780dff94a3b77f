package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/Ashiksyedmuhammad/React-User-Management/pkg/errors"
	"github.com/Ashiksyedmuhammad/React-User-Management/pkg/logger"
	"github.com/Ashiksyedmuhammad/React-User-Management/pkg/validator"
)

// Message is the flat JSON body used for status and error responses
// across the portal API.
type Message struct {
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes a flat {message} JSON body with the given status code.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Message{Message: message})
}

// WriteError translates an error into the portal's flat {message} error body
// with the status from the error taxonomy. Internal errors are logged with
// the request-scoped logger (set by the RequestLogger middleware) and
// reported to the client with a generic message, never the wrapped cause.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status == http.StatusInternalServerError {
			logInternal(l, r, err)
		}
		WriteMessage(w, appErr.Status, appErr.Message)
		return
	}

	status := apperrors.HTTPStatus(err)
	message := "an internal error occurred"

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		message = "resource not found"
	case errors.Is(err, apperrors.ErrAlreadyExists):
		message = "resource already exists"
	case errors.Is(err, apperrors.ErrInvalidInput):
		message = err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		message = err.Error()
	case errors.Is(err, apperrors.ErrForbidden):
		message = err.Error()
	default:
		logInternal(l, r, err)
	}

	WriteMessage(w, status, message)
}

// WriteValidationError writes a 400 {message} response describing which
// fields failed validation.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteMessage(w, http.StatusBadRequest, valErr.Error())
		return
	}
	WriteMessage(w, http.StatusBadRequest, err.Error())
}

func logInternal(l *slog.Logger, r *http.Request, err error) {
	l.ErrorContext(r.Context(), "internal error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
}
