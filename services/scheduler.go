package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"market-summary/models"
)

// RunStore is the slice of storage the scheduler and controllers need to
// record report runs.
type RunStore interface {
	SaveReportRun(run *models.ReportRun) error
}

// Scheduler triggers morning and close report runs on cron specs. Each
// scheduled run goes through the same engine path as an HTTP request and
// is recorded in the audit log.
type Scheduler struct {
	summaries *SummaryService
	store     RunStore
	cron      *cron.Cron
	logger    *logrus.Logger
}

// NewScheduler creates a new report scheduler
func NewScheduler(summaries *SummaryService, store RunStore) *Scheduler {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &Scheduler{
		summaries: summaries,
		store:     store,
		cron:      cron.New(),
		logger:    logger,
	}
}

// Start registers the configured cron entries and starts the scheduler.
// Empty specs leave that run disabled.
func (s *Scheduler) Start(morningSpec, closeSpec string) error {
	if morningSpec != "" {
		if _, err := s.cron.AddFunc(morningSpec, func() { s.run(TimingMorning) }); err != nil {
			return err
		}
		s.logger.WithField("spec", morningSpec).Info("Morning report scheduled")
	}
	if closeSpec != "" {
		if _, err := s.cron.AddFunc(closeSpec, func() { s.run(TimingClose) }); err != nil {
			return err
		}
		s.logger.WithField("spec", closeSpec).Info("Close report scheduled")
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) run(timing string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	summary, err := s.summaries.Generate(ctx, SummaryOptions{Timing: timing})
	run := BuildRunRecord(summary, err, timing, "cron", time.Since(start))

	if err != nil {
		s.logger.WithError(err).WithField("timing", timing).Error("Scheduled report failed")
	} else {
		s.logger.WithFields(logrus.Fields{
			"timing": timing,
			"status": summary.Status,
		}).Info("Scheduled report generated")
	}

	if s.store != nil {
		if saveErr := s.store.SaveReportRun(run); saveErr != nil {
			s.logger.WithError(saveErr).Warn("Failed to record report run")
		}
	}
}

// BuildRunRecord turns the outcome of one Generate call into an audit row.
func BuildRunRecord(summary *MarketSummary, err error, timing, trigger string, duration time.Duration) *models.ReportRun {
	run := &models.ReportRun{
		RunID:      uuid.New().String(),
		Timing:     timing,
		Trigger:    trigger,
		DurationMs: duration.Milliseconds(),
	}

	if err != nil {
		run.Status = StatusError
		return run
	}

	run.Status = summary.Status
	run.Mode = summary.Mode
	run.ErrorCount = len(summary.Errors)
	if summary.Portfolio != nil {
		run.StockCount = len(summary.Portfolio.PerStockHoldings)
	}
	if summary.Options != nil {
		run.OptionCount = summary.Options.Count
	}

	return run
}
