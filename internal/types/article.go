package types

import (
	"strconv"
	"strings"
	"time"
)

// Sentinel is the placeholder value used when a field cannot be extracted.
const Sentinel = "N/A"

// KeywordEntry is one row of the keyword taxonomy.
type KeywordEntry struct {
	// Category groups related keywords (e.g. "Voting Rights & Election Integrity").
	Category string

	// Keyword is the search term sent to the aggregator.
	Keyword string

	// Active marks whether this keyword participates in runs.
	Active bool
}

// Candidate is a single search result returned by the aggregator.
// Candidates are ephemeral: they exist only between search and extraction.
type Candidate struct {
	// Type distinguishes event coverage from other result kinds.
	Type string `json:"type"`

	// Start is the event timestamp as reported upstream (RFC3339, may be
	// empty or malformed; the recency filter decides what to do with that).
	Start string `json:"start,omitempty"`

	// Slug is the opaque identifier used to build the detail-page URL.
	Slug string `json:"slug"`
}

// IsEvent reports whether this candidate is event coverage.
func (c Candidate) IsEvent() bool { return c.Type == "event" }

// ArticleFields holds what the extractor recovered from a detail page.
// Fields that could not be extracted carry the Sentinel value, never "".
type ArticleFields struct {
	Headline string
	Source   string
	Summary  string
	URL      string
}

// NotAvailable returns an all-sentinel ArticleFields for the given URL.
// The URL is derived from the slug, so it survives extraction failure.
func NotAvailable(url string) ArticleFields {
	return ArticleFields{
		Headline: Sentinel,
		Source:   Sentinel,
		Summary:  Sentinel,
		URL:      url,
	}
}

// ArticleRecord is one accepted article bound for the daily ledger.
// Records are written once; a same-URL reappearance overwrites in place.
type ArticleRecord struct {
	// Date is the calendar date of the covered event.
	Date time.Time

	// Category and Keyword identify which taxonomy entry matched.
	Category string
	Keyword  string

	Headline string

	// Source is a comma-joined list of attributions, possibly the sentinel.
	Source string

	// URL uniquely identifies the record within a ledger.
	URL string

	Summary string

	// ExtractedAt is when the extractor produced this record.
	ExtractedAt time.Time
}

// Row renders the record as a ledger row in schema order:
// Date, Category, Keyword, Headline, Source, URL, Summary, Extraction Timestamp.
func (r ArticleRecord) Row() []string {
	return []string{
		r.Date.UTC().Format("2006-01-02"),
		r.Category,
		r.Keyword,
		r.Headline,
		r.Source,
		r.URL,
		r.Summary,
		r.ExtractedAt.UTC().Format(time.RFC3339),
	}
}

// Summaries formats records as the numbered block fed to the digest prompts.
func Summaries(records []ArticleRecord) string {
	var b strings.Builder
	for i, r := range records {
		b.WriteString("\n")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". [")
		b.WriteString(orUnknown(r.Category))
		b.WriteString(" - ")
		b.WriteString(orUnknown(r.Keyword))
		b.WriteString("] ")
		b.WriteString(orUnknown(r.Headline))
		b.WriteString("\n   Summary: ")
		if r.Summary == "" || r.Summary == Sentinel {
			b.WriteString("No summary available")
		} else {
			b.WriteString(r.Summary)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func orUnknown(s string) string {
	if s == "" || s == Sentinel {
		return "Unknown"
	}
	return s
}

