package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"keyword-trends/database"
	"keyword-trends/models"
	"keyword-trends/sentiment"
)

const maxLimit = 500

// KeywordFilter narrows the ranked day view.
type KeywordFilter struct {
	GroupID   string
	Date      string
	MinScore  float64
	Sentiment string
	Limit     int
}

func parseFilter(c *gin.Context) (KeywordFilter, bool) {
	f := KeywordFilter{
		GroupID:   c.Query("group"),
		Date:      c.Query("date"),
		Sentiment: c.Query("sentiment"),
	}
	if f.GroupID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "group is required"})
		return f, false
	}

	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if f.Limit <= 0 || f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	f.MinScore, _ = strconv.ParseFloat(c.DefaultQuery("min_score", "0"), 64)

	switch f.Sentiment {
	case "", "positive", "negative", "neutral":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "sentiment must be positive, negative or neutral"})
		return f, false
	}

	if f.Date == "" {
		date, err := database.NewStore(database.GetDB()).LatestDate(c.Request.Context(), f.GroupID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return f, false
		}
		f.Date = date
	}
	return f, true
}

// filtered applies the group, day and sentiment filters. Each call starts
// a fresh statement so counts can be chained off it.
func filtered(ctx context.Context, f KeywordFilter) *gorm.DB {
	query := database.GetDB().WithContext(ctx).Model(&models.ImportanceRecord{}).
		Where("group_id = ? AND date = ?", f.GroupID, f.Date)

	switch f.Sentiment {
	case "positive":
		query = query.Where("sentiment_score > ?", sentiment.PositiveThreshold)
	case "negative":
		query = query.Where("sentiment_score < ?", sentiment.NegativeThreshold)
	case "neutral":
		query = query.Where("sentiment_score >= ? AND sentiment_score <= ?", sentiment.NegativeThreshold, sentiment.PositiveThreshold)
	}
	return query
}

// GetKeywords serves the ranked keywords of one group and day.
func GetKeywords(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}

	records := []models.ImportanceRecord{}
	if f.Date != "" {
		query := filtered(c.Request.Context(), f)
		if f.MinScore > 0 {
			query = query.Where("importance_score >= ?", f.MinScore)
		}
		err := query.Order("importance_score DESC, keyword ASC").Limit(f.Limit).Find(&records).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"group_id": f.GroupID,
		"date":     f.Date,
		"keywords": records,
	})
}

type StatsData struct {
	Total            int64   `json:"total"`
	HighImportance   int64   `json:"high_importance"`
	MediumImportance int64   `json:"medium_importance"`
	AvgImportance    float64 `json:"avg_importance"`
	Positive         int64   `json:"positive"`
	Negative         int64   `json:"negative"`
	Emerging         int64   `json:"emerging"`
}

func loadStats(ctx context.Context, f KeywordFilter) (*StatsData, error) {
	var stats StatsData
	if f.Date == "" {
		return &stats, nil
	}

	steps := []*gorm.DB{
		filtered(ctx, f).Count(&stats.Total),
		// 70 and above
		filtered(ctx, f).Where("importance_score >= ?", 70).Count(&stats.HighImportance),
		// 50 to 69
		filtered(ctx, f).Where("importance_score >= ? AND importance_score < ?", 50, 70).Count(&stats.MediumImportance),
		filtered(ctx, f).Select("COALESCE(AVG(importance_score), 0)").Scan(&stats.AvgImportance),
		filtered(ctx, f).Where("sentiment_score > ?", sentiment.PositiveThreshold).Count(&stats.Positive),
		filtered(ctx, f).Where("sentiment_score < ?", sentiment.NegativeThreshold).Count(&stats.Negative),
		database.GetDB().WithContext(ctx).Model(&models.TimeSeriesEntry{}).
			Where("group_id = ? AND range_end = ? AND trend = ?", f.GroupID, f.Date, models.TrendEmerging).
			Count(&stats.Emerging),
	}
	for _, s := range steps {
		if s.Error != nil {
			return nil, s.Error
		}
	}
	return &stats, nil
}

// GetStats summarises one group and day.
func GetStats(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}
	stats, err := loadStats(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"group_id": f.GroupID,
		"date":     f.Date,
		"stats":    stats,
	})
}
