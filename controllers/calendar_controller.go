package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"market-summary/services"
)

// CalendarController serves option-expiration calendar event bodies.
type CalendarController struct {
	summaryService *services.SummaryService
}

// NewCalendarController creates a new calendar controller
func NewCalendarController(summaryService *services.SummaryService) *CalendarController {
	return &CalendarController{summaryService: summaryService}
}

// HandleGetExpirationEvents builds calendar events for every option position
// GET /api/v1/calendar/expirations?mode=test
func (cc *CalendarController) HandleGetExpirationEvents(c *gin.Context) {
	opts := services.SummaryOptions{
		TestMode: c.Query("mode") == "test",
	}

	summary, err := cc.summaryService.Generate(c.Request.Context(), opts)
	if err != nil {
		var sourceErr *services.DataSourceError
		if errors.As(err, &sourceErr) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"timestamp": time.Now(),
				"status":    services.StatusError,
				"error":     sourceErr.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to build expiration events",
			"details": err.Error(),
		})
		return
	}

	events := services.BuildExpirationEvents(summary.ActionRecommendations.AllPositionsByPriority)

	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}
