package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"market-summary/models"
)

// LocalStorage persists report-run audit records in SQLite.
type LocalStorage struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewLocalStorage creates a new local storage service
func NewLocalStorage(dbPath string) (*LocalStorage, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&models.ReportRun{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &LocalStorage{
		db:     db,
		logger: log,
	}, nil
}

// SaveReportRun records one report generation.
func (s *LocalStorage) SaveReportRun(run *models.ReportRun) error {
	result := s.db.Save(run)
	if result.Error != nil {
		return fmt.Errorf("failed to save report run: %w", result.Error)
	}

	s.logger.WithFields(logrus.Fields{
		"run_id": run.RunID,
		"status": run.Status,
	}).Debug("Report run recorded")

	return nil
}

// GetReportRun retrieves a report run by its run id.
func (s *LocalStorage) GetReportRun(runID string) (*models.ReportRun, error) {
	var run models.ReportRun

	result := s.db.Where("run_id = ?", runID).First(&run)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get report run: %w", result.Error)
	}

	return &run, nil
}

// ListReportRuns retrieves recent report runs, newest first, optionally
// filtered by status.
func (s *LocalStorage) ListReportRuns(status string, limit int) ([]*models.ReportRun, error) {
	if limit <= 0 {
		limit = 50
	}

	query := s.db.Model(&models.ReportRun{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var runs []*models.ReportRun
	result := query.Order("created_at DESC").Limit(limit).Find(&runs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list report runs: %w", result.Error)
	}

	return runs, nil
}

// Close closes the database connection
func (s *LocalStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
