// Package extractor recovers headline, source attributions, and summary text
// from loosely-structured article detail pages.
//
// Each field is extracted by an ordered cascade of strategies: tiers are
// tried in order, the first tier producing anything supplies the whole
// result, and matches are never merged across tiers.
package extractor

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mayanews/newsdigest/internal/types"
)

// PageFetcher fetches and parses detail pages by slug.
type PageFetcher interface {
	ArticleURL(slug string) string
	Page(ctx context.Context, slug string) (*goquery.Document, error)
}

// Extractor pulls ArticleFields out of detail pages.
type Extractor struct {
	pages  PageFetcher
	logger *slog.Logger
}

// New creates an Extractor over the given page fetcher.
func New(pages PageFetcher, logger *slog.Logger) *Extractor {
	return &Extractor{
		pages:  pages,
		logger: logger.With("component", "extractor"),
	}
}

// Extract fetches the detail page for slug and applies the cascades.
// Extraction failure never aborts the batch: on any fetch or parse error
// every field degrades to the sentinel, with the URL still derived from
// the slug.
func (e *Extractor) Extract(ctx context.Context, slug string) types.ArticleFields {
	url := e.pages.ArticleURL(slug)

	doc, err := e.pages.Page(ctx, slug)
	if err != nil {
		e.logger.Warn("detail page unavailable", "slug", slug, "error", err)
		return types.NotAvailable(url)
	}

	return e.FromDocument(doc, url)
}

// FromDocument applies the extraction cascades to an already-parsed page.
func (e *Extractor) FromDocument(doc *goquery.Document, url string) types.ArticleFields {
	fields := types.ArticleFields{
		Headline: firstMatch(doc, headlineTiers),
		Summary:  firstMatch(doc, summaryTiers),
		URL:      url,
	}

	if attributions := firstMatchList(doc, sourceTiers); len(attributions) > 0 {
		fields.Source = strings.Join(attributions, ", ")
	}

	if fields.Headline == "" {
		fields.Headline = types.Sentinel
	}
	if fields.Summary == "" {
		fields.Summary = types.Sentinel
	}
	if fields.Source == "" {
		fields.Source = types.Sentinel
	}

	return fields
}

// textStrategy is one tier of a single-value cascade. It returns "" when
// the tier produced nothing.
type textStrategy func(*goquery.Document) string

// listStrategy is one tier of a multi-value cascade. It returns nil when
// the tier produced nothing.
type listStrategy func(*goquery.Document) []string

// firstMatch tries tiers in order and returns the first non-empty result.
func firstMatch(doc *goquery.Document, tiers []textStrategy) string {
	for _, tier := range tiers {
		if v := tier(doc); v != "" {
			return v
		}
	}
	return ""
}

// firstMatchList tries tiers in order and returns the first non-empty result.
func firstMatchList(doc *goquery.Document, tiers []listStrategy) []string {
	for _, tier := range tiers {
		if vs := tier(doc); len(vs) > 0 {
			return vs
		}
	}
	return nil
}
