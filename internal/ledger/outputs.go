package ledger

import (
	"path/filepath"
	"time"
)

// Digest output tables: two-column dated tables, one row per calendar day,
// keyed on the Date column with update-in-place semantics.
var (
	ExplainerHeader = []string{"Date", "Explainer"}
	BriefingHeader  = []string{"Date", "One Sheet Briefing"}
)

// OutputKind identifies a digest output table.
type OutputKind string

const (
	OutputExplainer OutputKind = "explainer_script"
	OutputBriefing  OutputKind = "one_sheet"
)

func (k OutputKind) header() []string {
	if k == OutputBriefing {
		return BriefingHeader
	}
	return ExplainerHeader
}

// UpsertOutput merges a dated digest text into the table for kind: an
// existing row for the same date is overwritten in place, otherwise a new
// row is appended. Header drift resets the table, same as the daily ledger.
func (s *CSVStore) UpsertOutput(kind OutputKind, date time.Time, text string) (Action, error) {
	path := filepath.Join(s.dir, string(kind)+".csv")
	header := kind.header()

	t, err := s.loadKeyed(path, header, 0)
	if err != nil {
		return 0, err
	}

	day := date.UTC().Format("2006-01-02")
	action, reset := t.mergeRow(header, []string{day, text})
	if reset {
		s.logger.Warn("output table schema drift, table reset to header only", "kind", string(kind))
	}

	if err := s.saveTable(path, t); err != nil {
		return 0, err
	}

	s.logger.Info("digest output saved", "kind", string(kind), "date", day, "action", action.String())
	return action, nil
}
