package domain

import "context"

// MediaProvider defines the interface for external share-link extraction
// providers
type MediaProvider interface {
	// Resolve resolves a share link into the provider's raw result tree.
	// A single call, no retries; callers own the retry policy.
	Resolve(ctx context.Context, shareLink string) (ProviderResult, error)
}
