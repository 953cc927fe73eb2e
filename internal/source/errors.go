package source

import (
	"errors"
	"fmt"

	"github.com/matsen/bibmetrics/internal/metrics"
)

// Error kinds shared by every provider.
var (
	// ErrUnavailable indicates a provider cannot be used (missing credentials).
	ErrUnavailable = errors.New("source unavailable")

	// ErrSource indicates the remote call failed or returned malformed data.
	ErrSource = errors.New("source error")

	// ErrPartialData marks works whose fields were incomplete and coerced to zero.
	// It is reported as a warning, never returned from Fetch.
	ErrPartialData = errors.New("partial data")
)

// FetchError records which provider and group a failure came from.
type FetchError struct {
	Provider string
	Group    Group
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Group, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsUnavailable returns true if the error indicates missing credentials.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// PartialDataWarning describes works with missing citation counts, or nil if none.
func PartialDataWarning(provider string, ws *metrics.WorkSet, group Group) error {
	n := ws.PartialCount()
	if n == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s %s: %d works without citation counts, counted as 0", ErrPartialData, provider, group, n)
}
