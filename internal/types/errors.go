package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two conditions allowed to abort a run.
var (
	ErrNoTaxonomy        = errors.New("keyword source unavailable and no fallback")
	ErrLedgerUnreachable = errors.New("ledger unreachable for writing")
)

// FetchError wraps errors that occur while talking to the aggregator.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error

	// Retryable is true only for server-signaled HTTP errors (4xx/5xx).
	// Network-level failures are not retryable by policy: they are logged
	// and treated as "no results" without consuming the retry budget.
	Retryable bool
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) IsRetryable() bool { return e.Retryable }

// ExtractError wraps errors that occur while parsing a detail page.
// The extractor degrades to sentinel fields instead of propagating these.
type ExtractError struct {
	Slug string
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract error for slug %q: %v", e.Slug, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// LedgerError wraps errors from a ledger store backend.
type LedgerError struct {
	Backend string
	Op      string
	Err     error
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger error (%s, %s): %v", e.Backend, e.Op, e.Err)
}

func (e *LedgerError) Unwrap() error { return e.Err }
