package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

var (
	// ErrNotFound is returned when a title doesn't exist in TMDB.
	ErrNotFound = errors.New("not found")

	// ErrNoCredentials indicates neither an access token nor an API key is configured.
	ErrNoCredentials = errors.New("tmdb credentials not configured")

	// ErrInvalidWindow indicates a trending window other than day or week.
	ErrInvalidWindow = errors.New("time window must be day or week")
)

// APIError is a non-2xx response from TMDB.
type APIError struct {
	StatusCode    int
	Status        string // HTTP status line text, e.g. "503 Service Unavailable"
	StatusMessage string // TMDB's status_message body field, if any
	TMDBCode      int    // TMDB's status_code body field, if any
}

func (e *APIError) Error() string {
	if e.StatusMessage != "" {
		return fmt.Sprintf("TMDB API error %d: %s", e.StatusCode, e.StatusMessage)
	}
	return fmt.Sprintf("TMDB API error: %s", e.Status)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Message returns text suitable for showing to a user. TMDB's own message
// wins when present.
func (e *APIError) Message() string {
	if e.StatusMessage != "" {
		return e.StatusMessage
	}
	return StatusMessage(e.StatusCode)
}

// StatusMessage maps an HTTP status to user-facing text. Unlisted codes fall
// back to "HTTP <code>: <status text>".
func StatusMessage(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "Bad request - please check your search parameters"
	case http.StatusUnauthorized:
		return "Unauthorized - invalid API key or token"
	case http.StatusNotFound:
		return "Not found - the requested resource does not exist"
	case http.StatusTooManyRequests:
		return "Rate limit exceeded - please try again later"
	case http.StatusInternalServerError:
		return "Server error - please try again later"
	case http.StatusServiceUnavailable:
		return "Service unavailable - please try again later"
	}
	return fmt.Sprintf("HTTP %d: %s", code, http.StatusText(code))
}

// UserMessage turns any error from this package into user-facing text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timeout - please try again"
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return "Request timeout - please try again"
		}
		return "Network error - please check your internet connection"
	}
	if errors.Is(err, ErrNotFound) {
		return "Not found - the requested resource does not exist"
	}
	if errors.Is(err, ErrNoCredentials) {
		return "TMDB is not configured - set an access token or API key"
	}
	return err.Error()
}
