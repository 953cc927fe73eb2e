package s2

import (
	"errors"
	"fmt"
)

// Common errors returned by the Semantic Scholar client.
var (
	// ErrNotFound indicates the author was not found.
	ErrNotFound = errors.New("not found in Semantic Scholar")

	// ErrAuthError indicates the API key was rejected.
	ErrAuthError = errors.New("Semantic Scholar authentication error")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("Semantic Scholar rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with Semantic Scholar")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from Semantic Scholar")
)

// APIError represents an unexpected HTTP status from the API.
type APIError struct {
	StatusCode int
	AuthorID   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Semantic Scholar API error (status %d, author: %s)", e.StatusCode, e.AuthorID)
}

// IsNotFound returns true if the error indicates the author was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAuthError returns true if the error indicates an authentication problem.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthError)
}
