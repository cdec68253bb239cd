package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/tik-relay-go/internal/domain"
)

// Resolver wraps the extraction provider with a retry policy and turns its
// raw results into the normalized response contract.
type Resolver struct {
	provider domain.MediaProvider
	config   *domain.ProviderConfig
	logger   *zap.Logger
}

// NewResolver creates a new resolver
func NewResolver(provider domain.MediaProvider, config *domain.ProviderConfig, logger *zap.Logger) *Resolver {
	return &Resolver{
		provider: provider,
		config:   config,
		logger:   logger,
	}
}

// FetchRaw calls the provider with retries and returns its raw result tree.
// Every failure is treated as retryable up to MaxAttempts; between attempt n
// and n+1 the wait is RetryBaseDelay * n (linear backoff, no jitter). The
// last underlying error is surfaced wrapped in a ProviderError.
func (r *Resolver) FetchRaw(ctx context.Context, shareLink string) (domain.ProviderResult, error) {
	maxAttempts := r.config.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := r.provider.Resolve(ctx, shareLink)
		if err == nil {
			return result, nil
		}
		lastErr = err

		r.logger.Warn("Provider call failed",
			zap.String("link", shareLink),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.Error(err))

		if attempt == maxAttempts {
			break
		}

		delay := r.config.RetryBaseDelay * time.Duration(attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, &domain.ProviderError{Attempts: attempt, Err: ctx.Err()}
		}
	}

	return nil, &domain.ProviderError{Attempts: maxAttempts, Err: lastErr}
}

// Resolve fetches a share link through the provider and normalizes the
// response. A successful provider call that yields no playable URL still
// returns the normalized result (with Raw populated) alongside
// ErrNoDownloadURL so callers can show the payload to a human.
func (r *Resolver) Resolve(ctx context.Context, shareLink string) (*domain.NormalizedResult, error) {
	raw, err := r.FetchRaw(ctx, shareLink)
	if err != nil {
		return nil, err
	}

	result := Normalize(raw)
	if !result.HasDownloadURL() {
		r.logger.Info("No download url in provider response", zap.String("link", shareLink))
		return result, domain.ErrNoDownloadURL
	}

	return result, nil
}
