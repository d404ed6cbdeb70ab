package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"github.com/mayanews/newsdigest/internal/config"
	"github.com/mayanews/newsdigest/internal/types"
)

// DetailClient fetches article detail pages by slug.
type DetailClient struct {
	searchCfg *config.SearchConfig
	cfg       *config.ExtractorConfig
	client    *http.Client
	logger    *slog.Logger
}

// NewDetailClient creates a detail-page client.
func NewDetailClient(searchCfg *config.SearchConfig, cfg *config.ExtractorConfig, logger *slog.Logger) *DetailClient {
	return &DetailClient{
		searchCfg: searchCfg,
		cfg:       cfg,
		client:    newHTTPClient(searchCfg.RequestTimeout),
		logger:    logger.With("component", "detail_client"),
	}
}

// ArticleURL derives the canonical article URL from a slug.
// The URL is never read from page content.
func (c *DetailClient) ArticleURL(slug string) string {
	return fmt.Sprintf(c.cfg.ArticleURLTemplate, slug)
}

// Page fetches and parses the detail page for a slug.
func (c *DetailClient) Page(ctx context.Context, slug string) (*goquery.Document, error) {
	pageURL := c.ArticleURL(slug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &types.FetchError{URL: pageURL, Err: err}
	}
	setBrowserHeaders(req, c.searchCfg)

	// Auxiliary render parameter carried by the aggregator's detail pages.
	q := req.URL.Query()
	q.Set("_rsc", c.cfg.RenderParam)
	req.URL.RawQuery = q.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &types.FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &types.FetchError{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	reader, err := decompressReader(resp, io.LimitReader(resp.Body, c.cfg.MaxBodySize))
	if err != nil {
		return nil, &types.FetchError{URL: pageURL, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, &types.FetchError{URL: pageURL, Err: err}
	}

	c.logger.Debug("detail page fetched", "slug", slug, "status", resp.StatusCode)
	return doc, nil
}
