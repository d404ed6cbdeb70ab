package keywords

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mayanews/newsdigest/internal/types"
)

// Taxonomy is the active keyword set, grouped by category. Category and
// keyword order follow the source sheet.
type Taxonomy struct {
	Categories []string
	Keywords   map[string][]string
}

// Empty reports whether the taxonomy holds no keywords at all.
func (t Taxonomy) Empty() bool {
	for _, ks := range t.Keywords {
		if len(ks) > 0 {
			return false
		}
	}
	return true
}

// Entries flattens the taxonomy back into keyword entries, in order.
func (t Taxonomy) Entries() []types.KeywordEntry {
	var entries []types.KeywordEntry
	for _, cat := range t.Categories {
		for _, kw := range t.Keywords[cat] {
			entries = append(entries, types.KeywordEntry{Category: cat, Keyword: kw, Active: true})
		}
	}
	return entries
}

// fromEntries builds a taxonomy from keyword entries, keeping only active
// ones and preserving first-seen category order.
func fromEntries(entries []types.KeywordEntry) Taxonomy {
	t := Taxonomy{Keywords: make(map[string][]string)}
	for _, e := range entries {
		if !e.Active || e.Category == "" || e.Keyword == "" {
			continue
		}
		if _, ok := t.Keywords[e.Category]; !ok {
			t.Categories = append(t.Categories, e.Category)
		}
		t.Keywords[e.Category] = append(t.Keywords[e.Category], e.Keyword)
	}
	return t
}

// Source supplies the keyword taxonomy.
type Source interface {
	Load(ctx context.Context) (Taxonomy, error)
}

// CSVSource reads a "Category,Keyword,Active" sheet from a CSV file.
type CSVSource struct {
	path   string
	logger *slog.Logger
}

// NewCSVSource creates a file-backed keyword source.
func NewCSVSource(path string, logger *slog.Logger) *CSVSource {
	return &CSVSource{
		path:   path,
		logger: logger.With("component", "keyword_source"),
	}
}

var sheetHeader = []string{"Category", "Keyword", "Active"}

// Load implements Source.
func (s *CSVSource) Load(ctx context.Context) (Taxonomy, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("open keyword sheet: %w", err)
	}
	defer f.Close()

	entries, err := parseSheet(f)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("parse keyword sheet %s: %w", s.path, err)
	}

	taxonomy := fromEntries(entries)
	s.logger.Info("keywords loaded",
		"path", s.path,
		"categories", len(taxonomy.Categories),
		"entries", len(entries),
	)
	return taxonomy, nil
}

func parseSheet(r io.Reader) ([]types.KeywordEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < len(sheetHeader) {
		return nil, fmt.Errorf("expected header %v, got %v", sheetHeader, header)
	}
	for i, want := range sheetHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return nil, fmt.Errorf("expected header %v, got %v", sheetHeader, header)
		}
	}

	var entries []types.KeywordEntry
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(row) < 3 {
			continue
		}
		entries = append(entries, types.KeywordEntry{
			Category: strings.TrimSpace(row[0]),
			Keyword:  strings.TrimSpace(row[1]),
			Active:   strings.EqualFold(strings.TrimSpace(row[2]), "TRUE"),
		})
	}
	return entries, nil
}
