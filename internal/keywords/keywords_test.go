package keywords

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseSheet(t *testing.T) {
	sheet := `Category,Keyword,Active
Press & Information Freedom,press freedom,TRUE
Press & Information Freedom,book ban,true
Press & Information Freedom,dormant keyword,FALSE
Voting Rights & Election Integrity,gerrymandering,TRUE
,orphan keyword,TRUE
`
	entries, err := parseSheet(strings.NewReader(sheet))
	if err != nil {
		t.Fatalf("parseSheet: %v", err)
	}
	taxonomy := fromEntries(entries)

	if len(taxonomy.Categories) != 2 {
		t.Fatalf("categories = %v", taxonomy.Categories)
	}
	if taxonomy.Categories[0] != "Press & Information Freedom" {
		t.Errorf("category order lost: %v", taxonomy.Categories)
	}

	press := taxonomy.Keywords["Press & Information Freedom"]
	if len(press) != 2 || press[0] != "press freedom" || press[1] != "book ban" {
		t.Errorf("active keywords = %v", press)
	}
	for _, kw := range press {
		if kw == "dormant keyword" {
			t.Error("inactive keyword survived")
		}
	}
}

func TestParseSheetBadHeader(t *testing.T) {
	sheet := "Name,Value\nfoo,bar\n"
	if _, err := parseSheet(strings.NewReader(sheet)); err == nil {
		t.Fatal("expected header error")
	}
}

func TestParseSheetHeaderCaseInsensitive(t *testing.T) {
	sheet := "category,KEYWORD,active\nA,a keyword,TRUE\n"
	entries, err := parseSheet(strings.NewReader(sheet))
	if err != nil {
		t.Fatalf("parseSheet: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("entries = %v", entries)
	}
}

func TestCSVSourceLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.csv")
	content := "Category,Keyword,Active\nA,first,TRUE\nA,second,TRUE\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	taxonomy, err := NewCSVSource(path, testLogger()).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := taxonomy.Keywords["A"]; len(got) != 2 {
		t.Errorf("keywords = %v", got)
	}
}

// countingSource counts loads and can be switched to failing mid-test.
type countingSource struct {
	taxonomy Taxonomy
	fail     bool
	loads    int
}

func (s *countingSource) Load(ctx context.Context) (Taxonomy, error) {
	s.loads++
	if s.fail {
		return Taxonomy{}, errors.New("sheet unreachable")
	}
	return s.taxonomy, nil
}

func smallTaxonomy() Taxonomy {
	return Taxonomy{
		Categories: []string{"A"},
		Keywords:   map[string][]string{"A": {"a keyword"}},
	}
}

func TestCacheReusesWithinTTL(t *testing.T) {
	source := &countingSource{taxonomy: smallTaxonomy()}
	cache := NewCache(source, 5*time.Minute, testLogger())
	ctx := context.Background()

	start := time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC)
	cache.GetOrRefresh(ctx, start)
	cache.GetOrRefresh(ctx, start.Add(1*time.Minute))
	cache.GetOrRefresh(ctx, start.Add(4*time.Minute))

	if source.loads != 1 {
		t.Errorf("expected 1 load within ttl, got %d", source.loads)
	}

	cache.GetOrRefresh(ctx, start.Add(5*time.Minute))
	if source.loads != 2 {
		t.Errorf("expected reload at ttl, got %d loads", source.loads)
	}
}

func TestCacheFallsBackOnError(t *testing.T) {
	source := &countingSource{fail: true}
	cache := NewCache(source, 5*time.Minute, testLogger())

	taxonomy := cache.GetOrRefresh(context.Background(), time.Now())
	if taxonomy.Empty() {
		t.Fatal("expected fallback taxonomy, got empty")
	}
	if len(taxonomy.Categories) != len(Fallback().Categories) {
		t.Errorf("not the fallback taxonomy: %v", taxonomy.Categories)
	}
}

func TestCacheFallsBackOnEmptyTaxonomy(t *testing.T) {
	source := &countingSource{taxonomy: Taxonomy{}}
	cache := NewCache(source, 5*time.Minute, testLogger())

	taxonomy := cache.GetOrRefresh(context.Background(), time.Now())
	if taxonomy.Empty() {
		t.Fatal("expected fallback taxonomy for empty load")
	}
}

func TestFallbackNotEmpty(t *testing.T) {
	fb := Fallback()
	if fb.Empty() {
		t.Fatal("fallback taxonomy is empty")
	}
	for _, cat := range fb.Categories {
		if len(fb.Keywords[cat]) == 0 {
			t.Errorf("category %q has no keywords", cat)
		}
	}
	if len(fb.Entries()) == 0 {
		t.Error("fallback entries empty")
	}
}
