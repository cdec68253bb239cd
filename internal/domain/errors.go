package domain

import (
	"errors"
	"fmt"
)

// ErrMissingInput indicates the caller supplied no share link or URL.
var ErrMissingInput = errors.New("missing url parameter")

// ErrInvalidStreamURL indicates the stream URL failed validation
// (unparseable or non-http scheme).
var ErrInvalidStreamURL = errors.New("invalid stream url: must be an absolute http(s) url")

// ErrNoDownloadURL indicates the provider call succeeded but normalization
// could not locate a playable URL anywhere in the response. This is a normal
// outcome for unsupported links, not a bug in the provider call.
var ErrNoDownloadURL = errors.New("no download url found in provider response")

// ProviderError wraps the last underlying error after the provider call
// exhausted its retry budget.
type ProviderError struct {
	Attempts int
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// UpstreamError indicates the media host answered with a non-success status.
// Snippet holds a best-effort prefix of the response body for diagnostics.
type UpstreamError struct {
	StatusCode int
	Snippet    string
}

func (e *UpstreamError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Snippet)
}
