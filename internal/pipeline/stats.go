package pipeline

// Stats summarizes one pipeline run.
type Stats struct {
	KeywordsSearched int
	CandidatesSeen   int
	Stale            int
	Duplicates       int
	Irrelevant       int
	Inserted         int
	Updated          int
}

// Accepted returns the number of records written to the ledger.
func (s *Stats) Accepted() int { return s.Inserted + s.Updated }

// Snapshot returns the stats as a map for structured logging.
func (s *Stats) Snapshot() map[string]any {
	return map[string]any{
		"keywords_searched": s.KeywordsSearched,
		"candidates_seen":   s.CandidatesSeen,
		"stale":             s.Stale,
		"duplicates":        s.Duplicates,
		"irrelevant":        s.Irrelevant,
		"inserted":          s.Inserted,
		"updated":           s.Updated,
	}
}
