// ABOUTME: Domain-level sentinel errors for the news-optimizer service
// ABOUTME: These errors are used with errors.Is() for error type checking
package domain

import (
	"errors"
	"fmt"
)

// Article-related errors
var (
	// ErrArticleNotFound indicates the requested article does not exist
	ErrArticleNotFound = errors.New("article not found")

	// ErrArticleContentEmpty indicates the article exists but has no content
	// for the requested stage to work on
	ErrArticleContentEmpty = errors.New("article content is empty")

	// ErrDuplicateArticle indicates an article with the same identity key has
	// already been ingested
	ErrDuplicateArticle = errors.New("article already ingested")
)

// Configuration errors
var (
	// ErrSiteConfigMissing indicates the site configuration document is absent
	ErrSiteConfigMissing = errors.New("site configuration not found")

	// ErrNoFeedSources indicates no feed sources are registered
	ErrNoFeedSources = errors.New("no feed sources registered")

	// ErrNoCredentials indicates the credential pool for a provider is empty.
	// Distinct from PoolExhaustedError: nothing was ever attempted.
	ErrNoCredentials = errors.New("no credentials registered for provider")
)

// Provider errors
var (
	// ErrQuotaExceeded indicates a provider rejected a credential for quota
	// or rate-limit reasons (e.g. HTTP 429/456). The executor moves to the
	// next credential without recording it as a failure.
	ErrQuotaExceeded = errors.New("provider quota exceeded")

	// ErrInvalidProviderResponse indicates a provider response that could not
	// be parsed or was missing required fields. Treated like any other
	// provider failure: fall back to the next credential.
	ErrInvalidProviderResponse = errors.New("invalid provider response")
)

// Validation errors
var (
	// ErrInvalidRequest indicates the request format is invalid
	ErrInvalidRequest = errors.New("invalid request format")
)

// PoolExhaustedError is returned when every credential in a pool was tried
// without success. It carries the FIRST non-quota error encountered so an
// operator sees the most diagnostic failure, not the last one.
type PoolExhaustedError struct {
	Provider Provider
	Attempts int
	First    error
}

func (e *PoolExhaustedError) Error() string {
	if e.First == nil {
		return fmt.Sprintf("all %d credentials for %s exhausted: quota exceeded on every key", e.Attempts, e.Provider)
	}
	return fmt.Sprintf("all %d credentials for %s exhausted, first error: %v", e.Attempts, e.Provider, e.First)
}

func (e *PoolExhaustedError) Unwrap() error {
	return e.First
}
