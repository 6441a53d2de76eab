package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-summary/database"
	"market-summary/models"
)

func newRunsRouter(t *testing.T) (*gin.Engine, *database.LocalStorage) {
	t.Helper()

	storage, err := database.NewLocalStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })

	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller := NewRunsController(storage)
	router.GET("/api/v1/runs", controller.HandleListRuns)
	router.GET("/api/v1/runs/:id", controller.HandleGetRun)
	return router, storage
}

func TestHandleListRuns(t *testing.T) {
	router, storage := newRunsRouter(t)

	require.NoError(t, storage.SaveReportRun(&models.ReportRun{RunID: "run-1", Status: "success"}))
	require.NoError(t, storage.SaveReportRun(&models.ReportRun{RunID: "run-2", Status: "partial_failure"}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count int                 `json:"count"`
		Runs  []*models.ReportRun `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Len(t, body.Runs, 2)
}

func TestHandleListRunsFiltersByStatus(t *testing.T) {
	router, storage := newRunsRouter(t)

	require.NoError(t, storage.SaveReportRun(&models.ReportRun{RunID: "run-1", Status: "success"}))
	require.NoError(t, storage.SaveReportRun(&models.ReportRun{RunID: "run-2", Status: "partial_failure"}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs?status=partial_failure", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count int                 `json:"count"`
		Runs  []*models.ReportRun `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "run-2", body.Runs[0].RunID)
}

func TestHandleGetRun(t *testing.T) {
	router, storage := newRunsRouter(t)

	require.NoError(t, storage.SaveReportRun(&models.ReportRun{RunID: "run-1", Status: "success", Timing: "close"}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/run-1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var run models.ReportRun
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.Equal(t, "run-1", run.RunID)
	assert.Equal(t, "close", run.Timing)
}

func TestHandleGetRunNotFound(t *testing.T) {
	router, _ := newRunsRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/unknown", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
