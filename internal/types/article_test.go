package types

import (
	"strings"
	"testing"
	"time"
)

func TestRowSchemaOrder(t *testing.T) {
	r := ArticleRecord{
		Date:        time.Date(2026, 8, 21, 9, 30, 0, 0, time.UTC),
		Category:    "A",
		Keyword:     "k",
		Headline:    "h",
		Source:      "s",
		URL:         "u",
		Summary:     "sum",
		ExtractedAt: time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC),
	}

	row := r.Row()
	want := []string{"2026-08-21", "A", "k", "h", "s", "u", "sum", "2026-08-21T12:00:00Z"}
	if len(row) != len(want) {
		t.Fatalf("row = %v", row)
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("row[%d] = %q, want %q", i, row[i], want[i])
		}
	}
}

func TestNotAvailable(t *testing.T) {
	fields := NotAvailable("https://example.com/a")
	if fields.Headline != Sentinel || fields.Source != Sentinel || fields.Summary != Sentinel {
		t.Errorf("fields = %+v", fields)
	}
	if fields.URL != "https://example.com/a" {
		t.Errorf("url = %q", fields.URL)
	}
}

func TestSummariesNormalizesSentinels(t *testing.T) {
	records := []ArticleRecord{
		{Category: "A", Keyword: "k", Headline: "First story", Summary: "Details."},
		{Category: Sentinel, Keyword: "", Headline: Sentinel, Summary: Sentinel},
	}

	got := Summaries(records)
	if !strings.Contains(got, "1. [A - k] First story") {
		t.Errorf("numbered entry missing:\n%s", got)
	}
	if !strings.Contains(got, "2. [Unknown - Unknown] Unknown") {
		t.Errorf("sentinel normalization missing:\n%s", got)
	}
	if !strings.Contains(got, "No summary available") {
		t.Errorf("sentinel summary not replaced:\n%s", got)
	}
}
