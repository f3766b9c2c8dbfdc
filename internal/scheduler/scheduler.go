package scheduler

import (
	"github.com/robfig/cron/v3"

	"gameplaza-backend/internal/jobs"
	"gameplaza-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner. Specs
// are evaluated in the venue time zone and carry a seconds field.
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	settings := jobRunner.Settings()
	c := cron.New(
		cron.WithLocation(settings.Location),
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(settings); err != nil {
		return nil, err
	}
	return s, nil
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs(settings jobs.Settings) error {
	if _, err := s.cron.AddFunc(settings.MarkNoShowsSpec, s.jobs.MarkNoShows); err != nil {
		logger.Error("Failed to register MarkNoShows job", "spec", settings.MarkNoShowsSpec, "error", err)
		return err
	}
	if _, err := s.cron.AddFunc(settings.PendingPaymentsSpec, s.jobs.ReportPendingPayments); err != nil {
		logger.Error("Failed to register ReportPendingPayments job", "spec", settings.PendingPaymentsSpec, "error", err)
		return err
	}

	logger.Info("All cron jobs registered successfully", "count", len(s.cron.Entries()))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// Entries returns the number of registered jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
