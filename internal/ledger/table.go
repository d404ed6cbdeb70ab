// Package ledger maintains the per-day tabular store of accepted articles.
package ledger

import (
	"github.com/mayanews/newsdigest/internal/types"
)

// Schema is the expected header row of a daily ledger, in column order.
var Schema = []string{
	"Date",
	"Category",
	"Keyword",
	"Headline",
	"Source",
	"URL",
	"Summary",
	"Extraction Timestamp",
}

// urlColumn is the fixed position of the unique key within Schema.
const urlColumn = 5

// Action describes what a merge did with a record.
type Action int

const (
	ActionInserted Action = iota
	ActionUpdated
)

func (a Action) String() string {
	switch a {
	case ActionInserted:
		return "inserted"
	case ActionUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// Table is an ordered sequence of rows under a header row, keyed on one
// column. Within a table the key column's values are unique; Merge enforces
// this by scanning existing rows before insertion.
type Table struct {
	Header []string
	Rows   [][]string

	keyCol int
}

// NewTable creates an empty daily ledger with the expected schema.
func NewTable() *Table {
	return newKeyedTable(Schema, urlColumn)
}

func newKeyedTable(header []string, keyCol int) *Table {
	return &Table{
		Header: append([]string(nil), header...),
		Rows:   nil,
		keyCol: keyCol,
	}
}

// Len returns the number of data rows (header excluded).
func (t *Table) Len() int { return len(t.Rows) }

// headerMatches reports whether the table's header row exactly equals the
// expected schema.
func (t *Table) headerMatches(expected []string) bool {
	if len(t.Header) != len(expected) {
		return false
	}
	for i, col := range expected {
		if t.Header[i] != col {
			return false
		}
	}
	return true
}

// find returns the index of the row whose key column equals key, or -1.
func (t *Table) find(key string) int {
	for i, row := range t.Rows {
		if t.keyCol < len(row) && row[t.keyCol] == key {
			return i
		}
	}
	return -1
}

// MergeRow merges a row into the table, keyed on the table's key column.
//
// If the header row has drifted from the expected schema the table is first
// reset to header-only, a destructive self-healing step that discards all
// prior rows (reported via the reset return so callers can log it). A row
// with an existing key overwrites that row in place, preserving its
// position; otherwise the row is appended. Merging the same row twice leaves
// the table unchanged after the first call.
func (t *Table) mergeRow(expected []string, row []string) (action Action, reset bool) {
	if !t.headerMatches(expected) {
		t.Header = append([]string(nil), expected...)
		t.Rows = nil
		reset = true
	}

	if i := t.find(row[t.keyCol]); i >= 0 {
		t.Rows[i] = row
		return ActionUpdated, reset
	}

	t.Rows = append(t.Rows, row)
	return ActionInserted, reset
}

// Merge merges an article record into a daily ledger. See mergeRow for the
// self-healing and overwrite semantics.
func (t *Table) Merge(record types.ArticleRecord) (action Action, reset bool) {
	return t.mergeRow(Schema, record.Row())
}

// URLs returns the URL column of every data row, in order.
func (t *Table) URLs() []string {
	urls := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if t.keyCol < len(row) {
			urls = append(urls, row[t.keyCol])
		}
	}
	return urls
}

// HasURL reports whether a row with the given URL already exists.
func (t *Table) HasURL(url string) bool { return t.find(url) >= 0 }
