package internal

import "errors"

// Sentinel errors used to classify failures at the HTTP boundary.
// Wrap them with fmt.Errorf("...: %w", Err...) to attach detail.
var (
	// ErrValidation marks bad client input (400).
	ErrValidation = errors.New("invalid request")

	// ErrUnauthorized marks a missing or wrong app token (401).
	ErrUnauthorized = errors.New("invalid or missing app token")

	// ErrUpstream marks a YouTube Data API failure (502).
	ErrUpstream = errors.New("youtube api error")

	// ErrNotConfigured marks a feature whose configuration is absent (400).
	ErrNotConfigured = errors.New("not configured")

	// ErrDelivery marks a webhook delivery failure (502).
	ErrDelivery = errors.New("webhook delivery failed")

	// ErrNotFound marks a snapshot file that does not exist (404).
	ErrNotFound = errors.New("snapshot not found")

	// ErrInvalidName marks a snapshot filename that is not a plain
	// file name, e.g. a path traversal attempt (400).
	ErrInvalidName = errors.New("invalid snapshot name")
)
