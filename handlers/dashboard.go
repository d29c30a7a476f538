package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"keyword-trends/database"
	"keyword-trends/models"
)

const dashboardSize = 10

type DashboardData struct {
	GroupID  string                    `json:"group_id"`
	Date     string                    `json:"date"`
	Top      []models.ImportanceRecord `json:"top"`
	Emerging []models.TimeSeriesEntry  `json:"emerging"`
	Rising   []models.TimeSeriesEntry  `json:"rising"`
	Falling  []models.TimeSeriesEntry  `json:"falling"`
	Stats    *StatsData                `json:"stats"`
}

// Dashboard bundles the day's top keywords, the series that are moving and
// the summary counts for one group.
func Dashboard(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	data := DashboardData{
		GroupID: f.GroupID,
		Date:    f.Date,
		Top:     loadTop(ctx, f),
	}
	data.Emerging = loadSeries(ctx, f, models.TrendEmerging)
	data.Rising = loadSeries(ctx, f, models.TrendRising)
	data.Falling = loadSeries(ctx, f, models.TrendFalling)

	// Stats only when a day is selected
	if f.Date != "" {
		stats, err := loadStats(ctx, f)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		data.Stats = stats
	}

	c.JSON(http.StatusOK, data)
}

func loadTop(ctx context.Context, f KeywordFilter) []models.ImportanceRecord {
	records := []models.ImportanceRecord{}
	if f.Date == "" {
		return records
	}
	filtered(ctx, f).Order("importance_score DESC, keyword ASC").Limit(dashboardSize).Find(&records)
	return records
}

// loadSeries returns the series of the given trend whose window ends on the
// selected day, most important first.
func loadSeries(ctx context.Context, f KeywordFilter, trend models.Trend) []models.TimeSeriesEntry {
	entries := []models.TimeSeriesEntry{}
	if f.Date == "" {
		return entries
	}
	database.GetDB().WithContext(ctx).
		Where("group_id = ? AND range_end = ? AND trend = ?", f.GroupID, f.Date, trend).
		Order("max_importance DESC, keyword ASC").
		Limit(dashboardSize).
		Find(&entries)
	return entries
}
