package ledger

import (
	"time"

	"github.com/mayanews/newsdigest/internal/types"
)

// Records decodes the table's data rows back into article records. Rows
// shorter than the schema are skipped; malformed timestamps decode to the
// zero time rather than dropping the row.
func (t *Table) Records() []types.ArticleRecord {
	records := make([]types.ArticleRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		if len(row) < len(Schema) {
			continue
		}
		date, _ := time.Parse("2006-01-02", row[0])
		extractedAt, _ := time.Parse(time.RFC3339, row[7])
		records = append(records, types.ArticleRecord{
			Date:        date,
			Category:    row[1],
			Keyword:     row[2],
			Headline:    row[3],
			Source:      row[4],
			URL:         row[5],
			Summary:     row[6],
			ExtractedAt: extractedAt,
		})
	}
	return records
}
