package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mayanews/newsdigest/internal/types"
)

// Store persists daily ledgers.
type Store interface {
	// LoadDay returns the ledger for a calendar date, a fresh header-only
	// table when none exists yet.
	LoadDay(date time.Time) (*Table, error)

	// SaveDay persists the ledger for a calendar date.
	SaveDay(date time.Time, t *Table) error
}

// CSVStore keeps one CSV file per calendar day under a data directory.
type CSVStore struct {
	dir    string
	logger *slog.Logger
}

// NewCSVStore creates a CSV-file ledger store rooted at dir.
func NewCSVStore(dir string, logger *slog.Logger) (*CSVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &types.LedgerError{Backend: "csv", Op: "init", Err: err}
	}
	return &CSVStore{
		dir:    dir,
		logger: logger.With("component", "csv_store"),
	}, nil
}

// dayPath returns the ledger file path for a calendar date.
func (s *CSVStore) dayPath(date time.Time) string {
	return filepath.Join(s.dir, fmt.Sprintf("daily_digest_%s.csv", date.UTC().Format("2006-01-02")))
}

// LoadDay implements Store.
func (s *CSVStore) LoadDay(date time.Time) (*Table, error) {
	t, err := s.loadKeyed(s.dayPath(date), Schema, urlColumn)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// SaveDay implements Store.
func (s *CSVStore) SaveDay(date time.Time, t *Table) error {
	return s.saveTable(s.dayPath(date), t)
}

func (s *CSVStore) loadKeyed(path string, header []string, keyCol int) (*Table, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		s.logger.Debug("no existing table, starting fresh", "path", path)
		return newKeyedTable(header, keyCol), nil
	}
	if err != nil {
		return nil, &types.LedgerError{Backend: "csv", Op: "load", Err: err}
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	t := newKeyedTable(header, keyCol)
	first, err := cr.Read()
	if err == io.EOF {
		return t, nil
	}
	if err != nil {
		return nil, &types.LedgerError{Backend: "csv", Op: "load", Err: err}
	}
	t.Header = first

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &types.LedgerError{Backend: "csv", Op: "load", Err: err}
		}
		t.Rows = append(t.Rows, row)
	}

	s.logger.Debug("table loaded", "path", path, "rows", t.Len())
	return t, nil
}

func (s *CSVStore) saveTable(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return &types.LedgerError{Backend: "csv", Op: "save", Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return &types.LedgerError{Backend: "csv", Op: "save", Err: err}
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return &types.LedgerError{Backend: "csv", Op: "save", Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return &types.LedgerError{Backend: "csv", Op: "save", Err: err}
	}

	s.logger.Debug("table saved", "path", path, "rows", t.Len())
	return nil
}

// WriteSnapshot writes a standalone timestamped CSV copy of the given
// records, one file per run.
func WriteSnapshot(dir string, records []types.ArticleRecord, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &types.LedgerError{Backend: "csv", Op: "snapshot", Err: err}
	}

	path := filepath.Join(dir, fmt.Sprintf("news_results_%s.csv", now.UTC().Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", &types.LedgerError{Backend: "csv", Op: "snapshot", Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Schema); err != nil {
		return "", &types.LedgerError{Backend: "csv", Op: "snapshot", Err: err}
	}
	for _, r := range records {
		if err := w.Write(r.Row()); err != nil {
			return "", &types.LedgerError{Backend: "csv", Op: "snapshot", Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", &types.LedgerError{Backend: "csv", Op: "snapshot", Err: err}
	}
	return path, nil
}
