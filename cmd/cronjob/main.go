package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"gameplaza-backend/internal/config"
	"gameplaza-backend/internal/jobs"
	"gameplaza-backend/internal/logger"
	"gameplaza-backend/internal/repository/postgres"
	"gameplaza-backend/internal/scheduler"
	"gameplaza-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'mark-no-shows', 'all')")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting GamePlaza Cronjob Runner...", "log_level", cfg.Log.Level, "timezone", cfg.Venue.Timezone)

	if cfg.Store.Type != config.StorePostgres {
		log.Fatalf("Cronjob runner requires the postgres store, got %q", cfg.Store.Type)
	}

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	policy := service.VenuePolicy{
		Location:              cfg.Venue.Location(),
		CheckInEarlyBy:        cfg.Venue.CheckInEarlyBy(),
		NoShowGrace:           cfg.Venue.NoShowGrace(),
		AutoNoShowAfter:       cfg.Venue.AutoNoShowAfter(),
		BookingLeadTime:       cfg.Venue.BookingLeadTime(),
		BookingHorizon:        cfg.Venue.BookingHorizon(),
		MaxActiveReservations: cfg.Venue.ActiveReservationLimit(),
		Now:                   time.Now,
	}

	jobServices := &jobs.Services{
		Reservation: service.NewReservationService(
			store.ReservationRepository,
			store.CheckInRepository,
			store.DeviceRepository,
			store.DeviceTypeRepository,
			store.UserRepository,
			store.TxManager,
			policy,
		),
		CheckIn: service.NewCheckInService(
			store.ReservationRepository,
			store.CheckInRepository,
			store.DeviceRepository,
			store.DeviceTypeRepository,
			store.UserRepository,
			store.TxManager,
			policy,
		),
	}

	jobRunner := jobs.NewJobRunner(jobServices, jobs.Settings{
		PendingPaymentAlert: cfg.Venue.PendingPaymentAlert(),
		MarkNoShowsSpec:     cfg.Scheduler.MarkNoShows,
		PendingPaymentsSpec: cfg.Scheduler.ReportPendingPayments,
		Location:            policy.Location,
		Now:                 time.Now,
	})

	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		logger.Error("Failed to register jobs", "error", err)
		log.Fatalf("Failed to register jobs: %v", err)
	}

	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.", "jobs", cronScheduler.Entries())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "mark-no-shows":
		jobRunner.MarkNoShows()
	case "report-pending-payments":
		jobRunner.ReportPendingPayments()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - mark-no-shows\n")
		fmt.Printf("  - report-pending-payments\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
