package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"keyword-trends/models"
)

var ErrNotFound = errors.New("not found")

const insertBatchSize = 100

// Store implements engine.Store on top of gorm.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) History(ctx context.Context, groupID string, keywords []string, from, to string) ([]models.ImportanceRecord, error) {
	var out []models.ImportanceRecord
	err := s.db.WithContext(ctx).
		Where("group_id = ? AND keyword IN ? AND date >= ? AND date <= ?", groupID, keywords, from, to).
		Order("keyword ASC, date ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return out, nil
}

// SaveImportance makes records the complete set for (groupID, date) inside
// one transaction. Rows of that day whose keyword is not in records are
// deleted; the rest are upserted by (keyword, group_id, date).
func (s *Store) SaveImportance(ctx context.Context, groupID, date string, records []models.ImportanceRecord) error {
	keep := make([]string, 0, len(records))
	for _, r := range records {
		if r.GroupID != groupID || r.Date != date {
			return fmt.Errorf("saving importance records: %q on %s does not belong to %s on %s", r.Keyword, r.Date, groupID, date)
		}
		keep = append(keep, r.Keyword)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stale := tx.Where("group_id = ? AND date = ?", groupID, date)
		if len(keep) > 0 {
			stale = stale.Where("keyword NOT IN ?", keep)
		}
		if err := stale.Delete(&models.ImportanceRecord{}).Error; err != nil {
			return fmt.Errorf("clearing stale importance records: %w", err)
		}
		return upsertImportance(tx, records)
	})
}

// UpsertImportance writes records by (keyword, group_id, date) inside one
// transaction and leaves every other row alone.
func (s *Store) UpsertImportance(ctx context.Context, records []models.ImportanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return upsertImportance(tx, records)
	})
}

func upsertImportance(tx *gorm.DB, records []models.ImportanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "keyword"}, {Name: "group_id"}, {Name: "date"}},
		UpdateAll: true,
	}).CreateInBatches(&records, insertBatchSize).Error
	if err != nil {
		return fmt.Errorf("saving importance records: %w", err)
	}
	return nil
}

func (s *Store) RecordsInRange(ctx context.Context, groupID, keyword string, r models.DateRange) ([]models.ImportanceRecord, error) {
	var out []models.ImportanceRecord
	err := s.db.WithContext(ctx).
		Where("group_id = ? AND keyword = ? AND date >= ? AND date <= ?", groupID, keyword, r.Start, r.End).
		Order("date ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	return out, nil
}

func (s *Store) DaysBefore(ctx context.Context, groupID, keyword, date string) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.ImportanceRecord{}).
		Where("group_id = ? AND keyword = ? AND date < ?", groupID, keyword, date).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("counting history: %w", err)
	}
	return int(n), nil
}

// SaveTimeSeries upserts entries by (keyword, group_id). An entry whose
// window ends before the stored one is skipped, so backfilling an old day
// does not replace the current series.
func (s *Store) SaveTimeSeries(ctx context.Context, entries []models.TimeSeriesEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			var current models.TimeSeriesEntry
			err := tx.Where("keyword = ? AND group_id = ?", entries[i].Keyword, entries[i].GroupID).
				Limit(1).Find(&current).Error
			if err != nil {
				return fmt.Errorf("reading time series: %w", err)
			}
			if current.Keyword != "" && current.DateRange.End > entries[i].DateRange.End {
				continue
			}
			err = tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "keyword"}, {Name: "group_id"}},
				UpdateAll: true,
			}).Create(&entries[i]).Error
			if err != nil {
				return fmt.Errorf("saving time series: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) TimeSeries(ctx context.Context, groupID, keyword string) (models.TimeSeriesEntry, error) {
	var entry models.TimeSeriesEntry
	err := s.db.WithContext(ctx).
		Where("keyword = ? AND group_id = ?", keyword, groupID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entry, ErrNotFound
	}
	return entry, err
}

func (s *Store) SaveRun(ctx context.Context, run *models.BatchRun) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_id"}, {Name: "date"}},
		UpdateAll: true,
	}).Create(run).Error
	if err != nil {
		return fmt.Errorf("saving batch run: %w", err)
	}
	return nil
}

func (s *Store) Run(ctx context.Context, groupID, date string) (models.BatchRun, error) {
	var run models.BatchRun
	err := s.db.WithContext(ctx).
		Where("group_id = ? AND date = ?", groupID, date).
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return run, ErrNotFound
	}
	return run, err
}

// PruneResult counts the rows removed by PruneBefore.
type PruneResult struct {
	Records int64 `json:"records"`
	Series  int64 `json:"series"`
	Runs    int64 `json:"runs"`
}

// PruneBefore deletes records and runs dated before cutoff and series whose
// window ended before it.
func (s *Store) PruneBefore(ctx context.Context, cutoff string) (PruneResult, error) {
	var res PruneResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := tx.Where("date < ?", cutoff).Delete(&models.ImportanceRecord{})
		if r.Error != nil {
			return fmt.Errorf("pruning records: %w", r.Error)
		}
		res.Records = r.RowsAffected

		r = tx.Where("range_end < ?", cutoff).Delete(&models.TimeSeriesEntry{})
		if r.Error != nil {
			return fmt.Errorf("pruning time series: %w", r.Error)
		}
		res.Series = r.RowsAffected

		r = tx.Where("date < ?", cutoff).Delete(&models.BatchRun{})
		if r.Error != nil {
			return fmt.Errorf("pruning runs: %w", r.Error)
		}
		res.Runs = r.RowsAffected
		return nil
	})
	return res, err
}

// LatestDate returns the most recent day with records for the group, or ""
// when there are none.
func (s *Store) LatestDate(ctx context.Context, groupID string) (string, error) {
	var dates []string
	err := s.db.WithContext(ctx).Model(&models.ImportanceRecord{}).
		Where("group_id = ?", groupID).
		Order("date DESC").
		Limit(1).
		Pluck("date", &dates).Error
	if err != nil || len(dates) == 0 {
		return "", err
	}
	return dates[0], nil
}

// Groups lists every group with at least one record.
func (s *Store) Groups(ctx context.Context) ([]string, error) {
	var groups []string
	err := s.db.WithContext(ctx).Model(&models.ImportanceRecord{}).
		Distinct("group_id").
		Order("group_id ASC").
		Pluck("group_id", &groups).Error
	return groups, err
}
