package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/Ashiksyedmuhammad/React-User-Management/pkg/errors"
)

// MessageResponse mirrors the flat {message} body returned by the portal API
// for status and error responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an appropriate AppError. If the body matches the flat {message}
// format the message is preserved; otherwise a generic error is returned with
// the status code and raw body.
//
// The caller should only invoke this when resp.StatusCode indicates an error.
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("server returned status %d (failed to read body: %w)", resp.StatusCode, err)
	}

	var body MessageResponse
	if json.Unmarshal(bodyBytes, &body) == nil && body.Message != "" {
		return mapResponseError(resp.StatusCode, body.Message)
	}

	return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(bodyBytes))
}

// mapResponseError translates an HTTP status code and message into an
// AppError that preserves the error semantics.
func mapResponseError(status int, message string) error {
	switch {
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(message)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(message)
	case status == http.StatusForbidden:
		return apperrors.Forbidden(message)
	case status == http.StatusNotFound:
		return &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: message,
			Status:  http.StatusNotFound,
			Err:     apperrors.ErrNotFound,
		}
	case status == http.StatusConflict:
		return &apperrors.AppError{
			Code:    "ALREADY_EXISTS",
			Message: message,
			Status:  http.StatusConflict,
			Err:     apperrors.ErrAlreadyExists,
		}
	case status >= 500:
		return fmt.Errorf("server error (%d): %s", status, message)
	default:
		return &apperrors.AppError{
			Code:    http.StatusText(status),
			Message: message,
			Status:  status,
		}
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
