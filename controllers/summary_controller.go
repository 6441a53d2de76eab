package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"market-summary/services"
)

// SummaryController serves the market summary report.
type SummaryController struct {
	summaryService *services.SummaryService
	store          services.RunStore
	logger         *logrus.Logger
}

// NewSummaryController creates a new summary controller
func NewSummaryController(summaryService *services.SummaryService, store services.RunStore) *SummaryController {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &SummaryController{
		summaryService: summaryService,
		store:          store,
		logger:         logger,
	}
}

// HandleGetMarketSummary generates one report
// GET /market-summary?timing=morning|close&mode=test
func (sc *SummaryController) HandleGetMarketSummary(c *gin.Context) {
	timing := c.Query("timing")
	switch timing {
	case services.TimingDefault, services.TimingMorning, services.TimingClose:
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid timing",
			"details": "timing must be one of: morning, close",
		})
		return
	}

	opts := services.SummaryOptions{
		Timing:   timing,
		TestMode: c.Query("mode") == "test",
	}

	start := time.Now()
	summary, err := sc.summaryService.Generate(c.Request.Context(), opts)
	sc.recordRun(summary, err, timing, time.Since(start))

	// The report viewer is served from another origin.
	c.Header("Access-Control-Allow-Origin", "*")

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
			"error":   "Failed to generate market summary",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (sc *SummaryController) recordRun(summary *services.MarketSummary, err error, timing string, duration time.Duration) {
	if sc.store == nil {
		return
	}
	run := services.BuildRunRecord(summary, err, timing, "http", duration)
	if saveErr := sc.store.SaveReportRun(run); saveErr != nil {
		sc.logger.WithError(saveErr).Warn("Failed to record report run")
	}
}
