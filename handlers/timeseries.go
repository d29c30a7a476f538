package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"keyword-trends/database"
	"keyword-trends/engine"
	"keyword-trends/models"
)

// GetTimeSeries returns the stored series of a keyword, or aggregates a
// custom window when start and end are given.
func GetTimeSeries(c *gin.Context) {
	groupID := c.Query("group")
	keyword := models.NormalizeKeyword(c.Query("keyword"))
	if groupID == "" || keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "group and keyword are required"})
		return
	}
	start, end := c.Query("start"), c.Query("end")

	if start == "" && end == "" {
		entry, err := database.NewStore(database.GetDB()).TimeSeries(c.Request.Context(), groupID, keyword)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Series not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		c.JSON(http.StatusOK, entry)
		return
	}

	if trendEngine == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Engine not configured"})
		return
	}
	entry, err := trendEngine.GetTimeSeries(c.Request.Context(), groupID, keyword, models.DateRange{Start: start, End: end})
	if err != nil {
		if errors.Is(err, engine.ErrInvalidBatch) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if len(entry.Dates) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Series not found"})
		return
	}
	c.JSON(http.StatusOK, entry)
}
