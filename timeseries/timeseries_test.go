package timeseries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyword-trends/models"
)

func records(values ...float64) []models.ImportanceRecord {
	days := []string{"2024-03-01", "2024-03-02", "2024-03-04", "2024-03-05", "2024-03-07", "2024-03-08"}
	out := make([]models.ImportanceRecord, len(values))
	for i, v := range values {
		out[i] = models.ImportanceRecord{
			Keyword:         "tariffs",
			GroupID:         "team-a",
			Date:            days[i],
			ImportanceScore: v,
			SentimentScore:  -v / 100,
		}
	}
	return out
}

func TestClassify(t *testing.T) {
	opts := DefaultOptions()

	tests := []struct {
		name   string
		values []float64
		want   models.Trend
	}{
		{"empty", nil, models.TrendStable},
		{"brand new and strong", []float64{55}, models.TrendEmerging},
		{"brand new and weak", []float64{20}, models.TrendStable},
		{"three days and strong", []float64{10, 20, 60}, models.TrendEmerging},
		{"four days rising", []float64{10, 20, 30, 40}, models.TrendRising},
		{"four days falling", []float64{70, 60, 50, 40}, models.TrendFalling},
		{"within tolerance", []float64{50, 50, 50.5, 51}, models.TrendStable},
		{"zigzag", []float64{50, 40, 60, 45}, models.TrendStable},
		{"two weak points", []float64{10, 20}, models.TrendStable},
		{"rising but at threshold", []float64{20, 30, 40}, models.TrendRising},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.values, opts))
		})
	}
}

func TestClassifyPriorDaysOverridesSeriesLength(t *testing.T) {
	opts := DefaultOptions()
	long, none := 30, 0
	opts.PriorDays = &long
	assert.Equal(t, models.TrendStable, Classify([]float64{70}, opts))

	opts.PriorDays = &none
	assert.Equal(t, models.TrendEmerging, Classify([]float64{70}, opts))
}

func TestAggregate(t *testing.T) {
	recs := records(40, 50, 45, 60)
	// shuffled input is re-ordered by date
	recs[0], recs[3] = recs[3], recs[0]

	entry := Aggregate(recs, DefaultOptions())

	assert.Equal(t, "tariffs", entry.Keyword)
	assert.Equal(t, "team-a", entry.GroupID)
	assert.Equal(t, models.DateRange{Start: "2024-03-01", End: "2024-03-05"}, entry.DateRange)
	assert.Equal(t, []string{"2024-03-01", "2024-03-02", "2024-03-04", "2024-03-05"}, entry.Dates)
	assert.Equal(t, []float64{40, 50, 45, 60}, entry.ImportanceValues)
	assert.Equal(t, []float64{-0.4, -0.5, -0.45, -0.6}, entry.SentimentValues)
	assert.InDelta(t, 48.75, entry.AverageImportance, 1e-9)
	assert.Equal(t, 60.0, entry.MaxImportance)
	assert.Equal(t, 40.0, entry.MinImportance)
	assert.Equal(t, models.TrendStable, entry.Trend)
}

func TestAggregateDoesNotFillGaps(t *testing.T) {
	entry := Aggregate(records(10, 20, 30, 40, 50), DefaultOptions())
	// five records over an eight-day span stay five points
	require.Len(t, entry.ImportanceValues, 5)
	assert.Len(t, entry.Dates, 5)
	assert.Equal(t, models.TrendRising, entry.Trend)
}

func TestAggregateEmpty(t *testing.T) {
	r := models.DateRange{Start: "2024-03-01", End: "2024-03-07"}
	entry := Aggregate(nil, Options{Range: &r})

	assert.Empty(t, entry.ImportanceValues)
	assert.Equal(t, r, entry.DateRange)
	assert.Equal(t, models.TrendStable, entry.Trend)
}

func TestAggregateExplicitRange(t *testing.T) {
	r := models.DateRange{Start: "2024-02-25", End: "2024-03-02"}
	opts := DefaultOptions()
	opts.Range = &r

	entry := Aggregate(records(30, 70), opts)
	assert.Equal(t, r, entry.DateRange)
	assert.Equal(t, models.TrendEmerging, entry.Trend)
}
