package engine

import (
	"context"

	"keyword-trends/models"
)

// Store is the persistence the orchestrator needs. database.Store is the
// production implementation.
type Store interface {
	// History returns the records of the given keywords for group with
	// from <= date <= to.
	History(ctx context.Context, groupID string, keywords []string, from, to string) ([]models.ImportanceRecord, error)
	// SaveImportance replaces the records of groupID on date with records in
	// one transaction. Keywords of that day missing from records are removed.
	// Either the whole day is written or nothing changes.
	SaveImportance(ctx context.Context, groupID, date string, records []models.ImportanceRecord) error
	// UpsertImportance writes records by key without touching other rows.
	UpsertImportance(ctx context.Context, records []models.ImportanceRecord) error
	RecordsInRange(ctx context.Context, groupID, keyword string, r models.DateRange) ([]models.ImportanceRecord, error)
	// DaysBefore counts the days keyword has a record in group before date.
	DaysBefore(ctx context.Context, groupID, keyword, date string) (int, error)
	SaveTimeSeries(ctx context.Context, entries []models.TimeSeriesEntry) error
	SaveRun(ctx context.Context, run *models.BatchRun) error
}
