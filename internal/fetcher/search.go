package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mayanews/newsdigest/internal/config"
	"github.com/mayanews/newsdigest/internal/types"
)

// SearchClient issues keyword searches against the aggregator.
//
// The resilience policy is deliberately asymmetric: HTTP-status failures
// (4xx/5xx) are retried with exponential backoff up to the attempt ceiling,
// while network-level failures (dial, timeout, reset) are logged and treated
// as "no results" without consuming the retry budget. Either way a bad
// keyword is a soft failure: Search never returns an error.
type SearchClient struct {
	cfg    *config.SearchConfig
	client *http.Client
	logger *slog.Logger

	// sleep is swappable for tests.
	sleep func(context.Context, time.Duration)
}

// NewSearchClient creates a search client for the configured endpoint.
func NewSearchClient(cfg *config.SearchConfig, logger *slog.Logger) *SearchClient {
	return &SearchClient{
		cfg:    cfg,
		client: newHTTPClient(cfg.RequestTimeout),
		logger: logger.With("component", "search_client"),
		sleep:  sleepCtx,
	}
}

// Search runs one keyword search and returns candidate results.
// An empty slice means no results, whatever the reason.
func (c *SearchClient) Search(ctx context.Context, keyword string) []types.Candidate {
	payload, err := json.Marshal(map[string]string{"url": keyword})
	if err != nil {
		c.logger.Warn("search payload encode failed", "keyword", keyword, "error", err)
		return nil
	}

	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		candidates, err := c.searchOnce(ctx, keyword, payload)
		if err == nil {
			return candidates
		}

		var fe *types.FetchError
		if !errors.As(err, &fe) || !fe.IsRetryable() {
			// Network-level failure: no results, no retry.
			c.logger.Warn("search request failed", "keyword", keyword, "error", err)
			return nil
		}

		c.logger.Warn("search attempt failed",
			"keyword", keyword,
			"attempt", attempt,
			"status", fe.StatusCode,
			"error", err,
		)

		if attempt < c.cfg.MaxRetries {
			c.sleep(ctx, c.backoff(attempt))
		}
	}

	c.logger.Warn("search retries exhausted", "keyword", keyword, "attempts", c.cfg.MaxRetries)
	return nil
}

// searchOnce performs a single POST attempt against the search endpoint.
func (c *SearchClient) searchOnce(ctx context.Context, keyword string, payload []byte) ([]types.Candidate, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &types.FetchError{URL: c.cfg.Endpoint, Err: err, Retryable: false}
	}
	setBrowserHeaders(req, c.cfg)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &types.FetchError{URL: c.cfg.Endpoint, Err: err, Retryable: false}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &types.FetchError{
			URL:        c.cfg.Endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(body)),
			Retryable:  true,
		}
	}

	reader, err := decompressReader(resp, resp.Body)
	if err != nil {
		return nil, &types.FetchError{URL: c.cfg.Endpoint, Err: err, Retryable: false}
	}

	body, err := io.ReadAll(io.LimitReader(reader, 4*1024*1024))
	if err != nil {
		return nil, &types.FetchError{URL: c.cfg.Endpoint, Err: err, Retryable: false}
	}

	candidates, ok := decodeSearchResults(body)
	if !ok {
		// Unknown payload shape is zero results, not an error.
		c.logger.Warn("unexpected search response shape", "keyword", keyword, "bytes", len(body))
		return nil, nil
	}

	c.logger.Debug("search complete", "keyword", keyword, "results", len(candidates))
	return candidates, nil
}

// decodeSearchResults accepts either {"searchResults": [...]} or a bare list.
func decodeSearchResults(body []byte) ([]types.Candidate, bool) {
	var wrapped struct {
		SearchResults []types.Candidate `json:"searchResults"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.SearchResults != nil {
		return wrapped.SearchResults, true
	}

	var bare []types.Candidate
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, true
	}

	return nil, false
}

// backoff returns the delay before the next attempt. Exponential from the
// minimum delay, clamped to the maximum, non-decreasing per attempt.
func (c *SearchClient) backoff(attempt int) time.Duration {
	delay := c.cfg.RetryDelayMin
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= c.cfg.RetryDelayMax {
			return c.cfg.RetryDelayMax
		}
	}
	if delay > c.cfg.RetryDelayMax {
		return c.cfg.RetryDelayMax
	}
	return delay
}

// sleepCtx sleeps for d or until the context is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
