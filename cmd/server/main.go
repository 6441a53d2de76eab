package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"market-summary/controllers"
	"market-summary/database"
	"market-summary/interfaces"
	"market-summary/services"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	config := services.DefaultMarketConfig(getenv("PORTFOLIO_CSV", "private_data/portfolio.csv"))

	var quotes interfaces.QuoteService
	switch os.Getenv("MARKET_DATA_PROVIDER") {
	case "alpaca":
		quotes = services.NewAlpacaMarketDataService(
			os.Getenv("APCA_API_KEY_ID"),
			os.Getenv("APCA_API_SECRET_KEY"),
			config,
		)
		logger.Info("Using Alpaca market data")
	default:
		quotes = services.NewYahooMarketDataService(config)
		logger.Info("Using Yahoo Finance market data")
	}

	summaryService := services.NewSummaryService(config, quotes)

	storage, err := database.NewLocalStorage(getenv("DB_PATH", "data/market-summary.db"))
	if err != nil {
		logger.WithError(err).Fatal("Failed to open storage")
	}
	defer storage.Close()

	scheduler := services.NewScheduler(summaryService, storage)
	if err := scheduler.Start(os.Getenv("MORNING_CRON"), os.Getenv("CLOSE_CRON")); err != nil {
		logger.WithError(err).Fatal("Failed to start scheduler")
	}
	defer scheduler.Stop()

	summaryController := controllers.NewSummaryController(summaryService, storage)
	runsController := controllers.NewRunsController(storage)
	calendarController := controllers.NewCalendarController(summaryService)

	router := gin.Default()
	router.GET("/market-summary", summaryController.HandleGetMarketSummary)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.GET("/runs", runsController.HandleListRuns)
	api.GET("/runs/:id", runsController.HandleGetRun)
	api.GET("/calendar/expirations", calendarController.HandleGetExpirationEvents)

	addr := ":" + getenv("PORT", "8080")
	logger.WithField("addr", addr).Info("Market Summary API running")
	logger.Info("Endpoints: /market-summary, /market-summary?timing=morning, /market-summary?timing=close")

	if err := router.Run(addr); err != nil {
		logger.WithError(err).Fatal("Server stopped")
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
