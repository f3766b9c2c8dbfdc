package jobs

import (
	"context"
	"time"

	"gameplaza-backend/internal/logger"
	"gameplaza-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	settings Settings
	timeout  time.Duration
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Reservation service.ReservationService
	CheckIn     service.CheckInService
}

// Settings carries the job-related knobs from the configuration.
type Settings struct {
	// PendingPaymentAlert is how long a check-in may wait for payment
	// before it is reported.
	PendingPaymentAlert time.Duration
	MarkNoShowsSpec     string
	PendingPaymentsSpec string
	Location            *time.Location
	Now                 func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services, settings Settings) *JobRunner {
	if settings.Now == nil {
		settings.Now = time.Now
	}
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &JobRunner{
		services: services,
		settings: settings,
		timeout:  2 * time.Minute,
	}
}

// Settings returns the schedule and thresholds the runner was built with.
func (jr *JobRunner) Settings() Settings {
	return jr.settings
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
	defer cancel()

	start := time.Now()
	logger.Info("Starting job", "job", jobName)
	jobFunc(ctx)
	logger.Info("Job completed", "job", jobName, "elapsed", time.Since(start))
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.MarkNoShows()
	jr.ReportPendingPayments()
}
