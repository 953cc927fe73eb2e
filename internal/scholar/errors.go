package scholar

import "errors"

// Errors returned by the Scholar client.
var (
	// ErrBlocked indicates Scholar served a CAPTCHA or refused the crawler.
	ErrBlocked = errors.New("Scholar blocked the request")

	// ErrProfileNotFound indicates the profile ID does not exist.
	ErrProfileNotFound = errors.New("Scholar profile not found")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with Scholar")

	// ErrInvalidResponse indicates the page could not be parsed as a profile.
	ErrInvalidResponse = errors.New("invalid profile page from Scholar")
)
