// Package scheduler recomputes every group's batch once a day from an inbox
// directory and enforces the retention window.
package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"keyword-trends/database"
	"keyword-trends/engine"
	"keyword-trends/models"
)

// Runner scores one batch. *engine.Engine satisfies it.
type Runner interface {
	Run(ctx context.Context, batch models.Batch) (*engine.Report, error)
}

// Pruner deletes data older than a cutoff day. *database.Store satisfies it.
type Pruner interface {
	PruneBefore(ctx context.Context, cutoff string) (database.PruneResult, error)
}

type Options struct {
	Schedule      string
	Timezone      string
	InboxDir      string
	RetentionDays int
}

type Scheduler struct {
	cron     *cron.Cron
	location *time.Location
	runner   Runner
	pruner   Pruner
	opts     Options
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	entryID cron.EntryID
}

// New creates a Scheduler in the configured timezone. A nil pruner or a zero
// retention disables pruning.
func New(runner Runner, pruner Pruner, opts Options, logger *slog.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(opts.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", opts.Timezone, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		location: loc,
		runner:   runner,
		pruner:   pruner,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Start registers the daily job and starts the cron loop. The job scores
// the day that just ended, then prunes.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entryID != 0 {
		s.cron.Remove(s.entryID)
	}
	id, err := s.cron.AddFunc(s.opts.Schedule, s.daily)
	if err != nil {
		return fmt.Errorf("adding cron entry: %w", err)
	}
	s.entryID = id
	s.cron.Start()
	s.logger.Info("daily recomputation scheduled", "cron", s.opts.Schedule, "timezone", s.location.String(), "inbox", s.opts.InboxDir)
	return nil
}

// Stop halts the cron loop and waits for a running job.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Yesterday is the day that just ended in the scheduler's timezone.
func (s *Scheduler) Yesterday() string {
	return s.now().In(s.location).AddDate(0, 0, -1).Format(models.DateLayout)
}

func (s *Scheduler) daily() {
	ctx := context.Background()
	yesterday := s.Yesterday()

	if _, err := s.RunDay(ctx, yesterday); err != nil {
		s.logger.Error("daily recomputation failed", "date", yesterday, "error", err)
	}
	if _, err := s.Prune(ctx); err != nil {
		s.logger.Error("retention prune failed", "error", err)
	}
}

// DayResult is the outcome for one group.
type DayResult struct {
	GroupID   string
	Persisted int
	Failed    []string
	Err       error
}

// RunDay scores <inbox>/<group>/<date>.json for every group that has one.
// Groups are independent: one failing does not stop the others.
func (s *Scheduler) RunDay(ctx context.Context, date string) ([]DayResult, error) {
	if s.opts.InboxDir == "" {
		return nil, nil
	}
	groups, err := Groups(s.opts.InboxDir)
	if err != nil {
		return nil, err
	}

	var (
		results []DayResult
		errs    []error
	)
	for _, group := range groups {
		path := BatchPath(s.opts.InboxDir, group, date)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}

		res := DayResult{GroupID: group}
		batch, err := ReadBatch(path, group, date)
		if err == nil {
			var rep *engine.Report
			if rep, err = s.runner.Run(ctx, batch); err == nil {
				res.Persisted = len(rep.Records)
				res.Failed = rep.Failed
			}
		}
		if err != nil {
			res.Err = err
			errs = append(errs, fmt.Errorf("group %s: %w", group, err))
		}
		s.logger.Info("group recomputed", "group", group, "date", date, "persisted", res.Persisted, "failed", len(res.Failed), "error", res.Err)
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// Prune removes everything older than the retention window.
func (s *Scheduler) Prune(ctx context.Context) (database.PruneResult, error) {
	if s.pruner == nil || s.opts.RetentionDays <= 0 {
		return database.PruneResult{}, nil
	}
	cutoff := s.now().In(s.location).AddDate(0, 0, -s.opts.RetentionDays).Format(models.DateLayout)
	res, err := s.pruner.PruneBefore(ctx, cutoff)
	if err != nil {
		return res, err
	}
	s.logger.Info("retention pruned", "cutoff", cutoff, "records", res.Records, "series", res.Series, "runs", res.Runs)
	return res, nil
}

// Groups lists the group directories of an inbox in name order.
func Groups(inbox string) ([]string, error) {
	entries, err := os.ReadDir(inbox)
	if err != nil {
		return nil, fmt.Errorf("reading inbox: %w", err)
	}
	var groups []string
	for _, e := range entries {
		if e.IsDir() {
			groups = append(groups, e.Name())
		}
	}
	sort.Strings(groups)
	return groups, nil
}

func BatchPath(inbox, group, date string) string {
	return filepath.Join(inbox, group, date+".json")
}

// ReadBatch decodes a batch file. Group and date default to the values
// implied by the file location and must agree with them when present.
func ReadBatch(path, group, date string) (models.Batch, error) {
	var b models.Batch
	data, err := os.ReadFile(path)
	if err != nil {
		return b, fmt.Errorf("reading batch: %w", err)
	}
	if err := json.Unmarshal(data, &b); err != nil {
		return b, fmt.Errorf("decoding batch %s: %w", path, err)
	}

	if b.GroupID == "" {
		b.GroupID = group
	}
	if b.Date == "" {
		b.Date = date
	}
	if (group != "" && b.GroupID != group) || (date != "" && b.Date != date) {
		return b, fmt.Errorf("batch %s is for %s/%s", path, b.GroupID, b.Date)
	}
	return b, nil
}
