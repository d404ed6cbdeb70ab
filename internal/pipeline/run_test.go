package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mayanews/newsdigest/internal/config"
	"github.com/mayanews/newsdigest/internal/extractor"
	"github.com/mayanews/newsdigest/internal/filter"
	"github.com/mayanews/newsdigest/internal/keywords"
	"github.com/mayanews/newsdigest/internal/ledger"
	"github.com/mayanews/newsdigest/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var runClock = time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC)

// stubSearch returns fixed candidates per keyword.
type stubSearch struct {
	results map[string][]types.Candidate
}

func (s *stubSearch) Search(ctx context.Context, keyword string) []types.Candidate {
	return s.results[keyword]
}

// stubPages serves canned detail-page HTML per slug through the real
// extractor cascades.
type stubPages struct {
	pages map[string]string
}

func (s *stubPages) ArticleURL(slug string) string {
	return "https://example.com/article/" + slug
}

func (s *stubPages) Page(ctx context.Context, slug string) (*goquery.Document, error) {
	html, ok := s.pages[slug]
	if !ok {
		return nil, &types.FetchError{URL: s.ArticleURL(slug), StatusCode: 404}
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

type stubArchive struct {
	records []types.ArticleRecord
}

func (a *stubArchive) Upsert(ctx context.Context, record types.ArticleRecord) error {
	a.records = append(a.records, record)
	return nil
}

func testPipelineConfig(dataDir, snapshotDir string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Ledger.DataDir = dataDir
	cfg.Pipeline.SnapshotDir = snapshotDir
	cfg.Pipeline.RequestDelay = 0
	return cfg
}

func singleKeywordCache(keyword string) *keywords.Cache {
	taxonomy := keywords.Taxonomy{
		Categories: []string{"Press & Information Freedom"},
		Keywords:   map[string][]string{"Press & Information Freedom": {keyword}},
	}
	return keywords.NewCache(keywords.NewStaticSource(taxonomy), time.Hour, testLogger())
}

func newTestRunner(t *testing.T, cfg *config.Config, search Searcher, pages extractor.PageFetcher, opts Options) (*Runner, *ledger.CSVStore) {
	t.Helper()
	store, err := ledger.NewCSVStore(cfg.Ledger.DataDir, testLogger())
	if err != nil {
		t.Fatalf("NewCSVStore: %v", err)
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return runClock }
	}
	if opts.Sleep == nil {
		opts.Sleep = func(context.Context, time.Duration) {}
	}
	runner := NewRunner(
		cfg,
		singleKeywordCache("press freedom"),
		search,
		extractor.New(pages, testLogger()),
		filter.NewRecencyFilter(cfg.Filter.RecencyWindow, opts.Now, testLogger()),
		filter.NewRelevanceFilter(nil, testLogger()),
		store,
		opts,
		testLogger(),
	)
	return runner, store
}

func TestRunEndToEnd(t *testing.T) {
	// One event candidate from yesterday whose page carries only a main
	// heading and a meta description.
	search := &stubSearch{results: map[string][]types.Candidate{
		"press freedom": {
			{Type: "event", Start: "2026-08-20T12:00:00", Slug: "shield-law"},
			{Type: "interest", Slug: "ignored-interest"},
		},
	}}
	pages := &stubPages{pages: map[string]string{
		"shield-law": `<html><head><meta name="description" content="The bill advances."></head>` +
			`<body><h1>Senate passes shield law</h1></body></html>`,
	}}

	cfg := testPipelineConfig(t.TempDir(), t.TempDir())
	runner, store := newTestRunner(t, cfg, search, pages, Options{})

	stats, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.KeywordsSearched != 1 || stats.CandidatesSeen != 1 || stats.Inserted != 1 {
		t.Errorf("stats = %+v", stats)
	}

	table, err := store.LoadDay(runClock)
	if err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("expected 1 ledger row, got %d", table.Len())
	}

	row := table.Rows[0]
	if row[0] != "2026-08-20" {
		t.Errorf("date = %q, want the event date", row[0])
	}
	if row[3] != "Senate passes shield law" {
		t.Errorf("headline = %q", row[3])
	}
	if row[4] != types.Sentinel {
		t.Errorf("source = %q, want sentinel", row[4])
	}
	if row[5] != "https://example.com/article/shield-law" {
		t.Errorf("url = %q", row[5])
	}
	if row[6] != "The bill advances." {
		t.Errorf("summary = %q", row[6])
	}
}

func TestRunSkipsStaleCandidates(t *testing.T) {
	search := &stubSearch{results: map[string][]types.Candidate{
		"press freedom": {
			{Type: "event", Start: "2026-08-10T12:00:00", Slug: "old-news"},
		},
	}}
	pages := &stubPages{pages: map[string]string{}}

	cfg := testPipelineConfig(t.TempDir(), t.TempDir())
	runner, store := newTestRunner(t, cfg, search, pages, Options{})

	stats, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Stale != 1 || stats.Inserted != 0 {
		t.Errorf("stats = %+v", stats)
	}

	table, _ := store.LoadDay(runClock)
	if table.Len() != 0 {
		t.Errorf("stale candidate reached the ledger: %v", table.Rows)
	}
}

func TestRunSkipsDuplicateURLs(t *testing.T) {
	// The same slug surfaces under one keyword twice.
	search := &stubSearch{results: map[string][]types.Candidate{
		"press freedom": {
			{Type: "event", Start: "2026-08-21T06:00:00", Slug: "shield-law"},
			{Type: "event", Start: "2026-08-21T07:00:00", Slug: "shield-law"},
		},
	}}
	pages := &stubPages{pages: map[string]string{
		"shield-law": `<html><body><h1>Senate passes shield law</h1></body></html>`,
	}}

	cfg := testPipelineConfig(t.TempDir(), t.TempDir())
	runner, _ := newTestRunner(t, cfg, search, pages, Options{})

	stats, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Inserted != 1 || stats.Duplicates != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRunFailedExtractionStillRecorded(t *testing.T) {
	// Unknown slug: the page fetch 404s and every field degrades to the
	// sentinel, but the record still lands in the ledger.
	search := &stubSearch{results: map[string][]types.Candidate{
		"press freedom": {
			{Type: "event", Start: "2026-08-21T06:00:00", Slug: "vanished"},
		},
	}}
	pages := &stubPages{pages: map[string]string{}}

	cfg := testPipelineConfig(t.TempDir(), t.TempDir())
	runner, store := newTestRunner(t, cfg, search, pages, Options{})

	stats, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Inserted != 1 {
		t.Errorf("stats = %+v", stats)
	}

	table, _ := store.LoadDay(runClock)
	row := table.Rows[0]
	if row[3] != types.Sentinel || row[4] != types.Sentinel || row[6] != types.Sentinel {
		t.Errorf("expected sentinel fields: %v", row)
	}
	if row[5] != "https://example.com/article/vanished" {
		t.Errorf("url must derive from slug: %q", row[5])
	}
}

func TestRunMissingTimestampUsesRunDate(t *testing.T) {
	search := &stubSearch{results: map[string][]types.Candidate{
		"press freedom": {
			{Type: "event", Start: "", Slug: "undated"},
		},
	}}
	pages := &stubPages{pages: map[string]string{
		"undated": `<html><body><h1>Undated story</h1></body></html>`,
	}}

	cfg := testPipelineConfig(t.TempDir(), t.TempDir())
	runner, store := newTestRunner(t, cfg, search, pages, Options{})

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	table, _ := store.LoadDay(runClock)
	if table.Len() != 1 {
		t.Fatal("undated candidate must be accepted")
	}
	if got := table.Rows[0][0]; got != "2026-08-21" {
		t.Errorf("date = %q, want the run date", got)
	}
}

func TestRunWritesSnapshot(t *testing.T) {
	search := &stubSearch{results: map[string][]types.Candidate{
		"press freedom": {
			{Type: "event", Start: "2026-08-21T06:00:00", Slug: "shield-law"},
		},
	}}
	pages := &stubPages{pages: map[string]string{
		"shield-law": `<html><body><h1>Senate passes shield law</h1></body></html>`,
	}}

	snapshotDir := t.TempDir()
	cfg := testPipelineConfig(t.TempDir(), snapshotDir)
	runner, _ := newTestRunner(t, cfg, search, pages, Options{})

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(snapshotDir, "news_results_*.csv"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one snapshot, got %v (%v)", matches, err)
	}
	data, _ := os.ReadFile(matches[0])
	if !strings.Contains(string(data), "Senate passes shield law") {
		t.Errorf("snapshot missing record:\n%s", data)
	}
}

func TestRunArchivesAcceptedRecords(t *testing.T) {
	search := &stubSearch{results: map[string][]types.Candidate{
		"press freedom": {
			{Type: "event", Start: "2026-08-21T06:00:00", Slug: "shield-law"},
		},
	}}
	pages := &stubPages{pages: map[string]string{
		"shield-law": `<html><body><h1>Senate passes shield law</h1></body></html>`,
	}}

	archive := &stubArchive{}
	cfg := testPipelineConfig(t.TempDir(), t.TempDir())
	runner, _ := newTestRunner(t, cfg, search, pages, Options{Archive: archive})

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(archive.records) != 1 {
		t.Fatalf("expected 1 archived record, got %d", len(archive.records))
	}
	if archive.records[0].URL != "https://example.com/article/shield-law" {
		t.Errorf("archived url = %q", archive.records[0].URL)
	}
}

func TestRunSecondRunIsIdempotent(t *testing.T) {
	search := &stubSearch{results: map[string][]types.Candidate{
		"press freedom": {
			{Type: "event", Start: "2026-08-21T06:00:00", Slug: "shield-law"},
		},
	}}
	pages := &stubPages{pages: map[string]string{
		"shield-law": `<html><body><h1>Senate passes shield law</h1></body></html>`,
	}}

	dataDir := t.TempDir()
	cfg := testPipelineConfig(dataDir, t.TempDir())

	runner1, _ := newTestRunner(t, cfg, search, pages, Options{})
	if _, err := runner1.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	runner2, store := newTestRunner(t, cfg, search, pages, Options{})
	stats, err := runner2.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if stats.Duplicates != 1 || stats.Inserted != 0 {
		t.Errorf("second run stats = %+v", stats)
	}

	table, _ := store.LoadDay(runClock)
	if table.Len() != 1 {
		t.Errorf("second run grew the ledger: %d rows", table.Len())
	}
}
