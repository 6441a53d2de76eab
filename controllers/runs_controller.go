package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"market-summary/database"
)

// RunsController exposes the report-run audit log.
type RunsController struct {
	storage *database.LocalStorage
}

// NewRunsController creates a new runs controller
func NewRunsController(storage *database.LocalStorage) *RunsController {
	return &RunsController{storage: storage}
}

// HandleListRuns lists recent report runs
// GET /api/v1/runs?status=partial_failure&limit=20
func (rc *RunsController) HandleListRuns(c *gin.Context) {
	status := c.Query("status")
	limit, _ := strconv.Atoi(c.Query("limit"))

	runs, err := rc.storage.ListReportRuns(status, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list report runs",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(runs),
		"runs":  runs,
	})
}

// HandleGetRun retrieves a single report run
// GET /api/v1/runs/:id
func (rc *RunsController) HandleGetRun(c *gin.Context) {
	runID := c.Param("id")
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "run ID required",
		})
		return
	}

	run, err := rc.storage.GetReportRun(runID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Report run not found",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, run)
}
