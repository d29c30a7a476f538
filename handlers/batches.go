package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"keyword-trends/database"
	"keyword-trends/engine"
	"keyword-trends/models"
)

// SubmitBatch scores a batch synchronously and returns the persisted,
// ranked records.
func SubmitBatch(c *gin.Context) {
	if trendEngine == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Engine not configured"})
		return
	}

	var batch models.Batch
	if err := c.ShouldBindJSON(&batch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	rep, err := trendEngine.Run(c.Request.Context(), batch)
	switch {
	case errors.Is(err, engine.ErrInvalidBatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, engine.ErrPersistence):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run":      rep.Run,
		"keywords": rep.Records,
		"failed":   rep.Failed,
	})
}

// GetRun reports the state of the latest run for a group and day.
func GetRun(c *gin.Context) {
	run, err := database.NewStore(database.GetDB()).Run(c.Request.Context(), c.Param("group"), c.Param("date"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, run)
}
