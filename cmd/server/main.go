package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	api "gameplaza-backend/internal/api/grpc"
	"gameplaza-backend/internal/api/grpc/interceptor"
	httpapi "gameplaza-backend/internal/api/http"
	"gameplaza-backend/internal/config"
	"gameplaza-backend/internal/domain"
	"gameplaza-backend/internal/jobs"
	"gameplaza-backend/internal/logger"
	"gameplaza-backend/internal/repository"
	"gameplaza-backend/internal/repository/memory"
	"gameplaza-backend/internal/repository/postgres"
	"gameplaza-backend/internal/scheduler"
	"gameplaza-backend/internal/security"
	"gameplaza-backend/internal/service"
)

// backend is the storage selected by configuration.
type backend struct {
	reservations repository.ReservationRepository
	checkIns     repository.CheckInRepository
	devices      repository.DeviceRepository
	deviceTypes  repository.DeviceTypeRepository
	users        repository.UserRepository
	tx           repository.TxManager
	pinger       httpapi.Pinger
	close        func()
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if cfg.Store.Type == config.StoreMemory {
		logger.Warn("Using in-memory store; data is lost on restart")
		s := memory.NewStore()
		seedDemoVenue(s)
		return &backend{
			reservations: s.ReservationRepository,
			checkIns:     s.CheckInRepository,
			devices:      s.DeviceRepository,
			deviceTypes:  s.DeviceTypeRepository,
			users:        s.UserRepository,
			tx:           s.TxManager,
			pinger:       s,
			close:        func() {},
		}, nil
	}

	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("Database connection established")

	if cfg.Database.Migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("Database schema applied")
	}

	s := postgres.NewStore(db)
	return &backend{
		reservations: s.ReservationRepository,
		checkIns:     s.CheckInRepository,
		devices:      s.DeviceRepository,
		deviceTypes:  s.DeviceTypeRepository,
		users:        s.UserRepository,
		tx:           s.TxManager,
		pinger:       s,
		close:        func() { db.Close() },
	}, nil
}

// seedDemoVenue gives the in-memory store something to book.
func seedDemoVenue(s *memory.Store) {
	s.AddDeviceType(domain.DeviceType{ID: "pc", Name: "PC", HourlyRate: 15000, MinReservationHours: 1, MaxReservationHours: 6, IsActive: true})
	for i, id := range []string{"pc-1", "pc-2", "pc-3"} {
		s.AddDevice(domain.Device{ID: id, DeviceTypeID: "pc", DeviceNumber: i + 1, Status: domain.DeviceStatusAvailable})
	}
	now := time.Now()
	s.AddUser(domain.User{ID: "superadmin", FullName: "최고 관리자", Role: domain.RoleSuperAdmin, Status: domain.UserStatusActive, CreatedAt: now, UpdatedAt: now})
	s.AddUser(domain.User{ID: "admin", FullName: "관리자", Role: domain.RoleAdmin, Status: domain.UserStatusActive, CreatedAt: now, UpdatedAt: now})
	s.AddUser(domain.User{ID: "guest", FullName: "손님", Role: domain.RoleUser, Status: domain.UserStatusActive, CreatedAt: now, UpdatedAt: now})
}

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting GamePlaza Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "http_address", cfg.GetHTTPAddress(), "store", cfg.Store.Type)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer be.close()

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

	// Initialize Services
	authz := service.NewAuthorizationService(policy)
	reservationSvc := service.NewReservationService(be.reservations, be.checkIns, be.devices, be.deviceTypes, be.users, be.tx, policy)
	checkInSvc := service.NewCheckInService(be.reservations, be.checkIns, be.devices, be.deviceTypes, be.users, be.tx, policy)
	accountSvc := service.NewAccountService(be.users, authz, be.tx, policy)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)
	authInterceptor := interceptor.NewAuthInterceptor(tokenManager)

	lis, err := net.Listen("tcp", cfg.GetServerAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetServerAddress())
		log.Fatalf("Failed to listen: %v", err)
	}

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(interceptor.LoggingUnary(), authInterceptor.Unary()),
	)
	api.Register(s,
		api.NewReservationHandler(reservationSvc, accountSvc, authz),
		api.NewCheckInHandler(checkInSvc, accountSvc, authz),
		api.NewAccountHandler(accountSvc, authz),
	)
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(s, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	// Register reflection service for grpcurl
	reflection.Register(s)

	var httpSrv *http.Server
	if addr := cfg.GetHTTPAddress(); addr != "" {
		router := mux.NewRouter()
		httpapi.RegisterOpsRoutes(router, httpapi.NewOpsHandler(be.pinger))
		httpSrv = &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("Ops HTTP server listening", "address", addr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP server error", "error", err)
			}
		}()
	}

	var cronScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		runner := jobs.NewJobRunner(&jobs.Services{Reservation: reservationSvc, CheckIn: checkInSvc}, jobSettings(cfg))
		cronScheduler, err = scheduler.NewScheduler(runner)
		if err != nil {
			log.Fatalf("Failed to configure scheduler: %v", err)
		}
		cronScheduler.Start()
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down...")
		healthSrv.Shutdown()
		if cronScheduler != nil {
			cronScheduler.Stop()
		}
		if httpSrv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP shutdown error", "error", err)
			}
		}
		s.GracefulStop()
	}()

	logger.Info("gRPC server listening", "address", cfg.GetServerAddress())
	if err := s.Serve(lis); err != nil {
		logger.Error("Failed to serve gRPC", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
	logger.Info("Server stopped")
}

func jobSettings(cfg *config.Config) jobs.Settings {
	return jobs.Settings{
		PendingPaymentAlert: cfg.Venue.PendingPaymentAlert(),
		MarkNoShowsSpec:     cfg.Scheduler.MarkNoShows,
		PendingPaymentsSpec: cfg.Scheduler.ReportPendingPayments,
		Location:            cfg.Venue.Location(),
		Now:                 time.Now,
	}
}
