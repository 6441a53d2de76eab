package models

import (
	"gorm.io/gorm"
)

// ReportRun records metadata about one report generation in the database.
// Only run metadata is kept; snapshot contents are never persisted.
type ReportRun struct {
	gorm.Model
	RunID       string `gorm:"uniqueIndex"`
	Timing      string
	Mode        string
	Status      string `gorm:"index"`
	Trigger     string // "http" or "cron"
	StockCount  int
	OptionCount int
	ErrorCount  int
	DurationMs  int64
}

// TableName overrides for cleaner table names
func (ReportRun) TableName() string {
	return "report_runs"
}
