package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-summary/services"
)

const testExport = `Symbol,Quantity,Last Price $,Day's Gain $,Total Gain $,Total Gain %,Value $,Price Paid $
AAPL,10,185.92,15.20,125.00,7.21,1859.20,173.42
AAPL250207C00190000,-1,8.50,-25.00,400.00,32.00,-850.00,12.50
`

func newTestSummaryService(t *testing.T) *services.SummaryService {
	t.Helper()

	path := filepath.Join(t.TempDir(), "portfolio.csv")
	require.NoError(t, os.WriteFile(path, []byte(testExport), 0o644))

	config := services.DefaultMarketConfig(path)
	return services.NewSummaryService(config, services.NewTestMarketDataService(config))
}

func newSummaryRouter(svc *services.SummaryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/market-summary", NewSummaryController(svc, nil).HandleGetMarketSummary)
	return router
}

func TestHandleGetMarketSummary(t *testing.T) {
	router := newSummaryRouter(newTestSummaryService(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/market-summary?mode=test", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "test", body["mode"])
	assert.NotContains(t, body, "summary_type")
	assert.Contains(t, body, "indices")
	assert.Contains(t, body, "stocks")
	assert.Contains(t, body, "portfolio")
	assert.Contains(t, body, "options")
	assert.Contains(t, body, "action_recommendations")
}

func TestHandleGetMarketSummaryMorningTiming(t *testing.T) {
	router := newSummaryRouter(newTestSummaryService(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/market-summary?timing=morning&mode=test", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "morning_preview", body["summary_type"])
	assert.Contains(t, body, "market_preview")
}

func TestHandleGetMarketSummaryCloseTiming(t *testing.T) {
	router := newSummaryRouter(newTestSummaryService(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/market-summary?timing=close&mode=test", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "market_close", body["summary_type"])
	assert.Contains(t, body, "market_recap")
}

func TestHandleGetMarketSummaryRejectsUnknownTiming(t *testing.T) {
	router := newSummaryRouter(newTestSummaryService(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/market-summary?timing=noon", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid timing", body["error"])
}

func TestHandleGetMarketSummaryMissingExport(t *testing.T) {
	config := services.DefaultMarketConfig(filepath.Join(t.TempDir(), "missing.csv"))
	svc := services.NewSummaryService(config, services.NewTestMarketDataService(config))
	router := newSummaryRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/market-summary?mode=test", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["error"], "missing.csv")
}
