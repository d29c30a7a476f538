// Package engine orchestrates a batch run: it gathers mentions, scores
// every keyword, persists the day's records and refreshes the time series.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"keyword-trends/models"
	"keyword-trends/relevance"
	"keyword-trends/timeseries"
)

var (
	// ErrPersistence marks a write that failed after every retry.
	ErrPersistence  = errors.New("persistence failure")
	ErrInvalidBatch = errors.New("invalid batch")
)

type Engine struct {
	store     Store
	models    *Models
	relevance *relevance.Scorer
	opts      Options
	logger    *slog.Logger
	now       func() time.Time
}

// New validates opts and wires the engine. A nil logger uses slog.Default.
func New(store Store, m *Models, opts Options, logger *slog.Logger) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if store == nil || m == nil || m.Sentiment == nil || m.Embedder == nil {
		return nil, fmt.Errorf("%w: store and models are required", ErrInvalidOptions)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:     store,
		models:    m,
		relevance: relevance.NewScorer(m.Embedder),
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}, nil
}

func (e *Engine) Options() Options { return e.opts }

// Report is the outcome of one run.
type Report struct {
	Run     models.BatchRun
	Records []models.ImportanceRecord
	Failed  []string
	Series  []models.TimeSeriesEntry
}

// ComputeImportance scores and persists the candidates of one group and
// day and returns the persisted records ranked by importance.
func (e *Engine) ComputeImportance(ctx context.Context, groupID, date string, docs []models.Document, cands []models.Candidate) ([]models.ImportanceRecord, error) {
	rep, err := e.Run(ctx, models.Batch{GroupID: groupID, Date: date, Documents: docs, Candidates: cands})
	if err != nil {
		return nil, err
	}
	return rep.Records, nil
}

// Run drives a batch through PENDING, EXTRACTING, SCORING and PERSISTED,
// or FAILED. A run replaces every record previously stored for the same
// group and day.
func (e *Engine) Run(ctx context.Context, batch models.Batch) (*Report, error) {
	day, err := time.Parse(models.DateLayout, batch.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q: %w", ErrInvalidBatch, batch.Date, err)
	}
	if batch.GroupID == "" {
		return nil, fmt.Errorf("%w: group id is required", ErrInvalidBatch)
	}

	weights := e.opts.WeightsFor(batch.GroupID)
	run := &models.BatchRun{
		GroupID:   batch.GroupID,
		Date:      batch.Date,
		RunID:     uuid.NewString(),
		Status:    models.RunPending,
		Weights:   datatypes.JSONMap(toAny(weights.Map())),
		StartedAt: e.now().UTC(),
	}
	log := e.logger.With("group", batch.GroupID, "date", batch.Date, "run_id", run.RunID)
	e.saveRun(ctx, log, run)

	fail := func(err error) (*Report, error) {
		run.Status = models.RunFailed
		run.Error = err.Error()
		e.finish(log, run)
		log.Error("run failed", "error", err)
		return nil, err
	}

	// EXTRACTING
	run.Status = models.RunExtracting
	e.saveRun(ctx, log, run)

	docs := prepareDocuments(batch.Documents)
	keywords, cats := candidateCategories(batch.Candidates)
	sets, stats := gatherMentions(docs, keywords, cats, e.opts)
	run.Keywords = len(sets)

	from := day.AddDate(0, 0, -e.opts.TrailingDays).Format(models.DateLayout)
	yesterday := day.AddDate(0, 0, -1).Format(models.DateLayout)
	names := make([]string, len(sets))
	for i, ms := range sets {
		names[i] = ms.keyword
	}
	var past []models.ImportanceRecord
	if len(names) > 0 {
		if err := retry(ctx, e.opts.Retry, func() error {
			var err error
			past, err = e.store.History(ctx, batch.GroupID, names, from, yesterday)
			return err
		}); err != nil {
			return fail(fmt.Errorf("%w: loading history: %w", ErrPersistence, err))
		}
	}
	hist := buildHistory(past, yesterday)
	log.Debug("mentions gathered", "documents", len(docs), "keywords", len(sets), "history", len(past))

	// SCORING
	run.Status = models.RunScoring
	e.saveRun(ctx, log, run)

	records := make([]models.ImportanceRecord, len(sets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i, ms := range sets {
		i, ms := i, ms
		g.Go(func() error {
			rec, err := e.scoreKeyword(gctx, ms, stats, hist[ms.keyword], weights)
			if err != nil {
				return fmt.Errorf("scoring %q: %w", ms.keyword, err)
			}
			rec.GroupID = batch.GroupID
			rec.Date = batch.Date
			rec.RunID = run.RunID
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fail(err)
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	persisted, failed, err := e.persist(ctx, log, batch.GroupID, batch.Date, records)
	if err != nil {
		return fail(err)
	}
	run.Persisted = len(persisted)
	run.FailedKeywords = datatypes.NewJSONType(failed)

	series, err := e.refreshSeries(ctx, batch.GroupID, models.DateRange{Start: from, End: batch.Date}, persisted)
	if err != nil {
		// Records are committed; the series is rebuilt by the next run.
		log.Warn("time series refresh failed", "error", err)
		run.Error = err.Error()
	}

	if len(failed) > 0 && len(persisted) == 0 {
		return fail(fmt.Errorf("%w: no keyword could be written", ErrPersistence))
	}
	run.Status = models.RunPersisted
	e.finish(log, run)
	log.Info("run persisted", "keywords", run.Keywords, "persisted", run.Persisted, "failed", len(failed))

	Rank(persisted)
	return &Report{Run: *run, Records: persisted, Failed: failed, Series: series}, nil
}

// persist replaces the day's records in one transaction. When that keeps
// failing it retries keyword by keyword, then replaces the day with the
// keywords that made it so failed and stale ones are absent.
func (e *Engine) persist(ctx context.Context, log *slog.Logger, groupID, date string, records []models.ImportanceRecord) (ok []models.ImportanceRecord, failed []string, err error) {
	batchErr := retry(ctx, e.opts.Retry, func() error {
		return e.store.SaveImportance(ctx, groupID, date, records)
	})
	if batchErr == nil {
		return records, nil, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, nil, ctxErr
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: clearing day: %w", ErrPersistence, batchErr)
	}
	log.Warn("batch write failed, isolating keywords", "error", batchErr)

	ok = make([]models.ImportanceRecord, 0, len(records))
	for _, rec := range records {
		single := []models.ImportanceRecord{rec}
		if err := retry(ctx, e.opts.Retry, func() error {
			return e.store.UpsertImportance(ctx, single)
		}); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			log.Error("keyword write failed", "keyword", rec.Keyword, "error", fmt.Errorf("%w: %w", ErrPersistence, err))
			failed = append(failed, rec.Keyword)
			continue
		}
		ok = append(ok, single[0])
	}
	if err := retry(ctx, e.opts.Retry, func() error {
		return e.store.SaveImportance(ctx, groupID, date, ok)
	}); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		return nil, nil, fmt.Errorf("%w: clearing failed keywords: %w", ErrPersistence, err)
	}
	return ok, failed, nil
}

func (e *Engine) refreshSeries(ctx context.Context, groupID string, r models.DateRange, records []models.ImportanceRecord) ([]models.TimeSeriesEntry, error) {
	if len(records) == 0 {
		return nil, nil
	}
	entries := make([]models.TimeSeriesEntry, 0, len(records))
	for _, rec := range records {
		var rows []models.ImportanceRecord
		if err := retry(ctx, e.opts.Retry, func() error {
			var err error
			rows, err = e.store.RecordsInRange(ctx, groupID, rec.Keyword, r)
			return err
		}); err != nil {
			return nil, fmt.Errorf("%w: reading %q: %w", ErrPersistence, rec.Keyword, err)
		}
		entry, err := e.aggregate(ctx, groupID, rows, r)
		if err != nil {
			return nil, fmt.Errorf("%w: history of %q: %w", ErrPersistence, rec.Keyword, err)
		}
		entries = append(entries, entry)
	}
	if err := retry(ctx, e.opts.Retry, func() error {
		return e.store.SaveTimeSeries(ctx, entries)
	}); err != nil {
		return nil, fmt.Errorf("%w: writing series: %w", ErrPersistence, err)
	}
	return entries, nil
}

// aggregate rolls rows into a series over r. Whether the keyword is emerging
// depends on its whole stored history, not just the days inside r.
func (e *Engine) aggregate(ctx context.Context, groupID string, rows []models.ImportanceRecord, r models.DateRange) (models.TimeSeriesEntry, error) {
	opts := e.opts.seriesOptions()
	opts.Range = &r
	if len(rows) > 0 {
		last := rows[len(rows)-1]
		var prior int
		if err := retry(ctx, e.opts.Retry, func() error {
			var err error
			prior, err = e.store.DaysBefore(ctx, groupID, last.Keyword, last.Date)
			return err
		}); err != nil {
			return models.TimeSeriesEntry{}, err
		}
		opts.PriorDays = &prior
	}
	return timeseries.Aggregate(rows, opts), nil
}

// GetTimeSeries aggregates the stored records of keyword inside r. It does
// not write anything.
func (e *Engine) GetTimeSeries(ctx context.Context, groupID, keyword string, r models.DateRange) (models.TimeSeriesEntry, error) {
	if _, err := time.Parse(models.DateLayout, r.Start); err != nil {
		return models.TimeSeriesEntry{}, fmt.Errorf("%w: start %q: %w", ErrInvalidBatch, r.Start, err)
	}
	if _, err := time.Parse(models.DateLayout, r.End); err != nil {
		return models.TimeSeriesEntry{}, fmt.Errorf("%w: end %q: %w", ErrInvalidBatch, r.End, err)
	}
	if r.End < r.Start {
		return models.TimeSeriesEntry{}, fmt.Errorf("%w: range ends before it starts", ErrInvalidBatch)
	}

	kw := models.NormalizeKeyword(keyword)
	rows, err := e.store.RecordsInRange(ctx, groupID, kw, r)
	if err != nil {
		return models.TimeSeriesEntry{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	entry, err := e.aggregate(ctx, groupID, rows, r)
	if err != nil {
		return models.TimeSeriesEntry{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	entry.Keyword = kw
	entry.GroupID = groupID
	return entry, nil
}

// Rank orders records by importance, highest first, then by keyword.
func Rank(records []models.ImportanceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].ImportanceScore != records[j].ImportanceScore {
			return records[i].ImportanceScore > records[j].ImportanceScore
		}
		return records[i].Keyword < records[j].Keyword
	})
}

// saveRun records run progress. Bookkeeping failures are logged and do not
// stop the run.
func (e *Engine) saveRun(ctx context.Context, log *slog.Logger, run *models.BatchRun) {
	if err := e.store.SaveRun(ctx, run); err != nil {
		log.Warn("saving run state", "status", run.Status, "error", err)
	}
}

// finish stamps and saves the final state even when ctx is already done.
func (e *Engine) finish(log *slog.Logger, run *models.BatchRun) {
	t := e.now().UTC()
	run.FinishedAt = &t
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	e.saveRun(ctx, log, run)
}

func toAny(m map[string]float64) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
