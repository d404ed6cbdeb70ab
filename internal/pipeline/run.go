// Package pipeline orchestrates one harvest run: keywords are processed
// strictly one at a time (search, extract, filter, merge) with a fixed
// inter-request delay as manual backpressure against the aggregator.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mayanews/newsdigest/internal/config"
	"github.com/mayanews/newsdigest/internal/digest"
	"github.com/mayanews/newsdigest/internal/filter"
	"github.com/mayanews/newsdigest/internal/keywords"
	"github.com/mayanews/newsdigest/internal/ledger"
	"github.com/mayanews/newsdigest/internal/types"
)

// Searcher runs one keyword search. An empty result is a soft failure.
type Searcher interface {
	Search(ctx context.Context, keyword string) []types.Candidate
}

// ArticleExtractor recovers article fields for a slug, degrading to
// sentinels on failure.
type ArticleExtractor interface {
	Extract(ctx context.Context, slug string) types.ArticleFields
}

// Archiver is an optional secondary sink for accepted records.
type Archiver interface {
	Upsert(ctx context.Context, record types.ArticleRecord) error
}

// Runner wires the pipeline stages together.
type Runner struct {
	cfg       *config.Config
	keywords  *keywords.Cache
	search    Searcher
	extractor ArticleExtractor
	recency   *filter.RecencyFilter
	relevance *filter.RelevanceFilter
	store     *ledger.CSVStore
	archive   Archiver
	synth     *digest.Synthesizer
	logger    *slog.Logger

	now   filter.Clock
	sleep func(context.Context, time.Duration)
}

// Options carries the optional collaborators of a Runner.
type Options struct {
	// Archive receives every accepted record in addition to the ledger.
	Archive Archiver

	// Synth generates the digest artifacts after the harvest. Nil skips
	// digest generation.
	Synth *digest.Synthesizer

	// Now overrides the clock (tests).
	Now filter.Clock

	// Sleep overrides the inter-request delay primitive (tests).
	Sleep func(context.Context, time.Duration)
}

// NewRunner creates a pipeline runner.
func NewRunner(
	cfg *config.Config,
	kw *keywords.Cache,
	search Searcher,
	extractor ArticleExtractor,
	recency *filter.RecencyFilter,
	relevance *filter.RelevanceFilter,
	store *ledger.CSVStore,
	opts Options,
	logger *slog.Logger,
) *Runner {
	r := &Runner{
		cfg:       cfg,
		keywords:  kw,
		search:    search,
		extractor: extractor,
		recency:   recency,
		relevance: relevance,
		store:     store,
		archive:   opts.Archive,
		synth:     opts.Synth,
		logger:    logger.With("component", "pipeline"),
		now:       opts.Now,
		sleep:     opts.Sleep,
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.sleep == nil {
		r.sleep = func(ctx context.Context, d time.Duration) {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
			case <-timer.C:
			}
		}
	}
	return r
}

// Run executes one full harvest. Per-item failures are logged and skipped;
// the only fatal conditions are an empty taxonomy with no fallback and an
// unreachable ledger.
func (r *Runner) Run(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	runStart := r.now().UTC()

	taxonomy := r.keywords.GetOrRefresh(ctx, runStart)
	if taxonomy.Empty() {
		return stats, types.ErrNoTaxonomy
	}

	table, err := r.store.LoadDay(runStart)
	if err != nil {
		return stats, fmt.Errorf("%w: %v", types.ErrLedgerUnreachable, err)
	}

	var accepted []types.ArticleRecord

	for _, category := range taxonomy.Categories {
		for _, keyword := range taxonomy.Keywords[category] {
			r.logger.Info("searching", "keyword", keyword, "category", category)
			stats.KeywordsSearched++

			candidates := r.search.Search(ctx, keyword)
			r.sleep(ctx, r.cfg.Pipeline.RequestDelay)

			for _, candidate := range candidates {
				if !candidate.IsEvent() {
					continue
				}
				stats.CandidatesSeen++

				record, ok, err := r.processCandidate(ctx, table, category, keyword, candidate, stats)
				if err != nil {
					return stats, err
				}
				if !ok {
					continue
				}

				if err := r.store.SaveDay(runStart, table); err != nil {
					return stats, fmt.Errorf("%w: %v", types.ErrLedgerUnreachable, err)
				}

				if r.archive != nil {
					if err := r.archive.Upsert(ctx, record); err != nil {
						r.logger.Error("archive write failed", "url", record.URL, "error", err)
					}
				}

				accepted = append(accepted, record)
				r.sleep(ctx, r.cfg.Pipeline.RequestDelay)
			}

			if ctx.Err() != nil {
				r.logger.Warn("run interrupted", "error", ctx.Err())
				return stats, ctx.Err()
			}
		}
	}

	r.finishRun(ctx, runStart, accepted, stats)
	return stats, nil
}

// processCandidate runs extract → dedup → relevance for one candidate and
// merges the resulting record into the table. ok reports whether a record
// was merged.
func (r *Runner) processCandidate(
	ctx context.Context,
	table *ledger.Table,
	category, keyword string,
	candidate types.Candidate,
	stats *Stats,
) (types.ArticleRecord, bool, error) {
	recent, eventTime := r.recency.Accept(candidate)
	if !recent {
		stats.Stale++
		return types.ArticleRecord{}, false, nil
	}

	fields := r.extractor.Extract(ctx, candidate.Slug)

	if table.HasURL(fields.URL) {
		stats.Duplicates++
		r.logger.Info("skipping duplicate article", "url", fields.URL)
		return types.ArticleRecord{}, false, nil
	}

	if !r.relevance.Accept(ctx, fields) {
		stats.Irrelevant++
		r.logger.Info("skipping irrelevant article", "headline", fields.Headline)
		return types.ArticleRecord{}, false, nil
	}

	date := eventTime
	if date.IsZero() {
		date = r.now().UTC()
	}

	record := types.ArticleRecord{
		Date:        date,
		Category:    category,
		Keyword:     keyword,
		Headline:    fields.Headline,
		Source:      fields.Source,
		URL:         fields.URL,
		Summary:     fields.Summary,
		ExtractedAt: r.now().UTC(),
	}

	action, reset := table.Merge(record)
	if reset {
		r.logger.Warn("ledger schema drift, table reset to header only (prior rows discarded)")
	}

	switch action {
	case ledger.ActionInserted:
		stats.Inserted++
	case ledger.ActionUpdated:
		stats.Updated++
	}
	r.logger.Info("article recorded", "headline", record.Headline, "action", action.String())

	return record, true, nil
}

// finishRun writes the local snapshot and synthesizes the digest artifacts.
// Everything here is best-effort: failures are logged, never fatal.
func (r *Runner) finishRun(ctx context.Context, runStart time.Time, accepted []types.ArticleRecord, stats *Stats) {
	r.logger.Info("harvest complete", "stats", stats.Snapshot())

	if len(accepted) == 0 {
		r.logger.Info("no articles accepted, skipping snapshot and digests")
		return
	}

	if path, err := ledger.WriteSnapshot(r.cfg.Pipeline.SnapshotDir, accepted, runStart); err != nil {
		r.logger.Error("snapshot write failed", "error", err)
	} else {
		r.logger.Info("snapshot written", "path", path, "records", len(accepted))
	}

	if r.synth == nil {
		return
	}

	if script, err := r.synth.ExplainerScript(ctx, accepted); err != nil {
		r.logger.Error("explainer script generation failed", "error", err)
	} else if _, err := r.store.UpsertOutput(ledger.OutputExplainer, runStart, script); err != nil {
		r.logger.Error("explainer script save failed", "error", err)
	}

	if briefing, err := r.synth.OneSheet(ctx, accepted); err != nil {
		r.logger.Error("one-sheet briefing generation failed", "error", err)
	} else if _, err := r.store.UpsertOutput(ledger.OutputBriefing, runStart, briefing); err != nil {
		r.logger.Error("one-sheet briefing save failed", "error", err)
	}
}
