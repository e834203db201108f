package plosapi

import (
	"errors"
	"fmt"
)

// Common errors returned by the search/fetch client.
var (
	// ErrNotFound indicates the document was not found remotely.
	ErrNotFound = errors.New("not found on remote")

	// ErrRateLimited indicates the remote rate limit was exceeded.
	ErrRateLimited = errors.New("remote rate limit exceeded")

	// ErrNetwork indicates a transport-level failure.
	ErrNetwork = errors.New("network error reaching remote")

	// ErrInvalidResponse indicates an unexpected response body.
	ErrInvalidResponse = errors.New("invalid response from remote")
)

// APIError represents a non-success HTTP status from the remote,
// carried at per-identifier granularity in batch operations.
type APIError struct {
	StatusCode int
	DOI        string
}

func (e *APIError) Error() string {
	if e.DOI != "" {
		return fmt.Sprintf("remote error (status %d) for %s", e.StatusCode, e.DOI)
	}
	return fmt.Sprintf("remote error (status %d)", e.StatusCode)
}

// IsNotFound returns true if the error indicates a missing document.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
