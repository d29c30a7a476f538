package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"keyword-trends/engine"
)

var trendEngine *engine.Engine

// NewRouter registers every route. The database must be initialised with
// database.InitDB first.
func NewRouter(e *engine.Engine) *gin.Engine {
	trendEngine = e

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/keywords", GetKeywords)
		api.GET("/keywords/:keyword/breakdown", GetBreakdown)
		api.GET("/stats", GetStats)
		api.GET("/dashboard", Dashboard)
		api.GET("/timeseries", GetTimeSeries)
		api.POST("/batches", SubmitBatch)
		api.GET("/batches/:group/:date", GetRun)
	}

	return r
}
