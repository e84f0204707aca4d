package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrServerOffline indicates the crates API is unreachable
	ErrServerOffline = errors.New("crates server is unreachable")

	// ErrUnauthorized indicates the auth token was rejected (HTTP 401)
	ErrUnauthorized = errors.New("authentication token is invalid")

	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrLibraryUpdateFailed is returned when a sync poll settles on UPDATE_FAILED
	ErrLibraryUpdateFailed = errors.New("library update failed")

	// ErrSyncTimeout is returned when a sync poll does not settle in time
	ErrSyncTimeout = errors.New("library sync timed out")

	// ErrNotSignedIn indicates no token is configured
	ErrNotSignedIn = errors.New("not signed in")
)

// DefaultErrorMessage replaces empty or placeholder server messages
const DefaultErrorMessage = "Server Error. Please Try Again."

// APIError is a structured error body returned by the server
type APIError struct {
	Timestamp string `json:"timestamp,omitempty"`
	Status    int    `json:"status"`
	ErrorText string `json:"error"`
	Exception string `json:"exception,omitempty"`
	Path      string `json:"path,omitempty"`
	Message   string `json:"message"`
}

// Error returns the user-facing message
func (e *APIError) Error() string {
	return e.UserMessage()
}

// UserMessage returns the server message, or a generic one when the server
// sent nothing useful.
func (e *APIError) UserMessage() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" || msg == "No message available" {
		return DefaultErrorMessage
	}
	return msg
}

// Detail includes status and path for logs
func (e *APIError) Detail() string {
	return fmt.Sprintf("%d %s %s: %s", e.Status, e.ErrorText, e.Path, e.Message)
}

// Is lets errors.Is match 401 and 404 API errors against the sentinels
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == 401
	case ErrNotFound:
		return e.Status == 404
	}
	return false
}

// ErrorMessage renders any error for display
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return err.Error()
}
