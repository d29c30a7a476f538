package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"keyword-trends/database"
	"keyword-trends/models"
	"keyword-trends/scoring"
)

type BreakdownResponse struct {
	Keyword         string             `json:"keyword"`
	GroupID         string             `json:"group_id"`
	Date            string             `json:"date"`
	ImportanceScore float64            `json:"importance_score"`
	Components      scoring.Components `json:"components"`
	Weights         scoring.Weights    `json:"weights"`
	Contributions   scoring.Components `json:"contributions"`
}

// GetBreakdown explains a stored score: each component next to the weight
// the run used and its weighted contribution.
func GetBreakdown(c *gin.Context) {
	keyword := models.NormalizeKeyword(c.Param("keyword"))
	groupID := c.Query("group")
	date := c.Query("date")
	if groupID == "" || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "group and date are required"})
		return
	}

	db := database.GetDB().WithContext(c.Request.Context())
	var record models.ImportanceRecord
	err := db.Where("keyword = ? AND group_id = ? AND date = ?", keyword, groupID, date).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Keyword not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	weights := runWeights(c, groupID, date)
	components := scoring.Components(record.ComponentScores)
	c.JSON(http.StatusOK, BreakdownResponse{
		Keyword:         record.Keyword,
		GroupID:         record.GroupID,
		Date:            record.Date,
		ImportanceScore: record.ImportanceScore,
		Components:      components,
		Weights:         weights,
		Contributions:   scoring.Contributions(components, weights),
	})
}

// runWeights prefers the weights recorded on the run that wrote the day and
// falls back to the engine configuration.
func runWeights(c *gin.Context, groupID, date string) scoring.Weights {
	fallback := scoring.DefaultWeights()
	if trendEngine != nil {
		fallback = trendEngine.Options().WeightsFor(groupID)
	}

	run, err := database.NewStore(database.GetDB()).Run(c.Request.Context(), groupID, date)
	if err != nil || len(run.Weights) == 0 {
		return fallback
	}
	w, ok := weightsFromMap(run.Weights)
	if !ok {
		return fallback
	}
	return w
}

func weightsFromMap(m map[string]any) (scoring.Weights, bool) {
	var w scoring.Weights
	fields := map[string]*float64{
		"frequency":  &w.Frequency,
		"contextual": &w.Contextual,
		"entity":     &w.Entity,
		"temporal":   &w.Temporal,
		"diversity":  &w.Diversity,
		"sentiment":  &w.Sentiment,
	}
	for name, dst := range fields {
		v, ok := m[name].(float64)
		if !ok {
			return w, false
		}
		*dst = v
	}
	return w, true
}
