package models

import (
	"strings"
	"time"
)

// DateLayout is the day format used for record keys and date ranges.
const DateLayout = "2006-01-02"

type SentimentBreakdown struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// ComponentScores holds the six 0-100 inputs of the importance score.
type ComponentScores struct {
	Frequency  float64 `json:"frequency"`
	Contextual float64 `json:"contextual"`
	Entity     float64 `json:"entity"`
	Temporal   float64 `json:"temporal"`
	Diversity  float64 `json:"diversity"`
	Sentiment  float64 `json:"sentiment"`
}

// ImportanceRecord is the per (keyword, group, day) signal. Recomputing a
// day overwrites the row addressed by the composite key.
type ImportanceRecord struct {
	Keyword            string             `json:"keyword" gorm:"primaryKey"`
	GroupID            string             `json:"group_id" gorm:"primaryKey;index:idx_importance_group_date,priority:1"`
	Date               string             `json:"date" gorm:"primaryKey;index:idx_importance_group_date,priority:2"`
	ImportanceScore    float64            `json:"importance_score" gorm:"index"`
	SentimentScore     float64            `json:"sentiment_score"`
	SentimentMagnitude float64            `json:"sentiment_magnitude"`
	SentimentBreakdown SentimentBreakdown `json:"sentiment_breakdown" gorm:"embedded;embeddedPrefix:sentiment_"`
	Frequency          int                `json:"frequency"`
	DocumentCount      int                `json:"document_count"`
	SourceDiversity    int                `json:"source_diversity"`
	Velocity           float64            `json:"velocity"`
	Acceleration       float64            `json:"acceleration"`
	ComponentScores    ComponentScores    `json:"component_scores" gorm:"serializer:json"`
	SampleSnippets     []string           `json:"sample_snippets" gorm:"serializer:json"`
	ContentIDs         []string           `json:"content_ids" gorm:"serializer:json"`
	RunID              string             `json:"run_id"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains reports whether day falls inside the inclusive range.
func (r DateRange) Contains(day string) bool {
	return day >= r.Start && day <= r.End
}

type Trend string

const (
	TrendEmerging Trend = "emerging"
	TrendRising   Trend = "rising"
	TrendStable   Trend = "stable"
	TrendFalling  Trend = "falling"
)

// TimeSeriesEntry is derived from a run of ImportanceRecords and is only
// ever written by the aggregator.
type TimeSeriesEntry struct {
	Keyword           string    `json:"keyword" gorm:"primaryKey"`
	GroupID           string    `json:"group_id" gorm:"primaryKey"`
	DateRange         DateRange `json:"date_range" gorm:"embedded;embeddedPrefix:range_"`
	Dates             []string  `json:"dates" gorm:"serializer:json"`
	ImportanceValues  []float64 `json:"importance_values" gorm:"serializer:json"`
	SentimentValues   []float64 `json:"sentiment_values" gorm:"serializer:json"`
	AverageImportance float64   `json:"average_importance"`
	MaxImportance     float64   `json:"max_importance"`
	MinImportance     float64   `json:"min_importance"`
	Trend             Trend     `json:"trend" gorm:"index"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NormalizeKeyword case-folds and collapses whitespace.
func NormalizeKeyword(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
