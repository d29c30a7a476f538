// Package timeseries rolls daily importance records into a multi-day series
// and labels its trend.
package timeseries

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"keyword-trends/models"
)

const (
	DefaultEmergingThreshold = 40.0
	DefaultTolerance         = 1.0
	// maxPriorForEmerging is the most history a keyword may have and still
	// count as emerging.
	maxPriorForEmerging = 2
	trendPoints         = 3
)

type Options struct {
	EmergingThreshold float64
	Tolerance         float64
	// Range overrides the date range reported on the entry. When nil the
	// range spans the first and last record.
	Range *models.DateRange
	// PriorDays is how many days of history the keyword has before the
	// latest point, counted over everything stored. When nil the points
	// inside the series are counted.
	PriorDays *int
}

func DefaultOptions() Options {
	return Options{
		EmergingThreshold: DefaultEmergingThreshold,
		Tolerance:         DefaultTolerance,
	}
}

// Aggregate builds the series for one keyword and group. Records are
// ordered by date; missing days are left out rather than interpolated.
func Aggregate(records []models.ImportanceRecord, opts Options) models.TimeSeriesEntry {
	sorted := make([]models.ImportanceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	entry := models.TimeSeriesEntry{
		Dates:            make([]string, 0, len(sorted)),
		ImportanceValues: make([]float64, 0, len(sorted)),
		SentimentValues:  make([]float64, 0, len(sorted)),
		Trend:            models.TrendStable,
	}
	if opts.Range != nil {
		entry.DateRange = *opts.Range
	}
	if len(sorted) == 0 {
		return entry
	}

	entry.Keyword = sorted[0].Keyword
	entry.GroupID = sorted[0].GroupID
	if opts.Range == nil {
		entry.DateRange = models.DateRange{Start: sorted[0].Date, End: sorted[len(sorted)-1].Date}
	}
	for _, r := range sorted {
		entry.Dates = append(entry.Dates, r.Date)
		entry.ImportanceValues = append(entry.ImportanceValues, r.ImportanceScore)
		entry.SentimentValues = append(entry.SentimentValues, r.SentimentScore)
	}

	entry.AverageImportance = stat.Mean(entry.ImportanceValues, nil)
	entry.MaxImportance = floats.Max(entry.ImportanceValues)
	entry.MinImportance = floats.Min(entry.ImportanceValues)
	entry.Trend = Classify(entry.ImportanceValues, opts)
	return entry
}

// Classify labels an ordered importance series.
//
// A series whose latest point has at most two days of history before it and
// exceeds the emerging threshold is emerging. Otherwise the last three points decide:
// each step up by more than the tolerance is rising, each step down is
// falling, anything else is stable.
func Classify(values []float64, opts Options) models.Trend {
	n := len(values)
	if n == 0 {
		return models.TrendStable
	}
	prior := n - 1
	if opts.PriorDays != nil {
		prior = *opts.PriorDays
	}
	if prior <= maxPriorForEmerging && values[n-1] > opts.EmergingThreshold {
		return models.TrendEmerging
	}
	if n < trendPoints {
		return models.TrendStable
	}

	a, b, c := values[n-3], values[n-2], values[n-1]
	tol := opts.Tolerance
	switch {
	case b-a > tol && c-b > tol:
		return models.TrendRising
	case a-b > tol && b-c > tol:
		return models.TrendFalling
	}
	return models.TrendStable
}
