// ABOUTME: Ordered credential-pool executor for unreliable external APIs
// ABOUTME: Tries each credential in turn, falling through on quota and other provider errors
package keypool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"news-optimizer/domain"
)

// Attempt performs one provider call with a single credential.
type Attempt[T any] func(ctx context.Context, credential string) (T, error)

// Execute tries credentials in list order until one attempt succeeds.
//
// A quota/rate-limit failure (domain.ErrQuotaExceeded) moves on to the next
// credential without being recorded. Any other failure is recorded as the
// first error if none is recorded yet, and the executor still moves on: a
// different account may succeed even for transient or server errors. When
// the pool is exhausted the returned PoolExhaustedError carries that first
// error. An empty pool fails immediately with domain.ErrNoCredentials.
//
// Attempts are strictly sequential; success on an earlier credential must
// short-circuit later ones. The executor holds no state between calls and is
// safe for concurrent use with independent operations.
func Execute[T any](ctx context.Context, logger *slog.Logger, provider domain.Provider, credentials []string, attempt Attempt[T]) (T, error) {
	var zero T

	if len(credentials) == 0 {
		return zero, fmt.Errorf("%w: %s", domain.ErrNoCredentials, provider)
	}

	var firstErr error

	for i, credential := range credentials {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("credential pool aborted: %w", err)
		}

		result, err := attempt(ctx, credential)
		if err == nil {
			if i > 0 {
				logger.InfoContext(ctx, "credential fallback succeeded",
					"provider", provider,
					"credential_index", i,
					"credential", redact(credential))
			}
			return result, nil
		}

		if errors.Is(err, domain.ErrQuotaExceeded) {
			logger.WarnContext(ctx, "credential quota exceeded, trying next",
				"provider", provider,
				"credential_index", i,
				"credential", redact(credential))
			continue
		}

		logger.WarnContext(ctx, "credential attempt failed, trying next",
			"provider", provider,
			"credential_index", i,
			"credential", redact(credential),
			"error", err)

		if firstErr == nil {
			firstErr = err
		}
	}

	return zero, &domain.PoolExhaustedError{
		Provider: provider,
		Attempts: len(credentials),
		First:    firstErr,
	}
}

// redact keeps only the credential tail so logs stay diagnosable without
// leaking keys.
func redact(credential string) string {
	const visible = 5
	if len(credential) <= visible {
		return "..."
	}
	return "..." + credential[len(credential)-visible:]
}
