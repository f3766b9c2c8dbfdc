package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"gameplaza-backend/internal/logger"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Store     StoreConfig     `yaml:"store"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Venue     VenueConfig     `yaml:"venue"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains gRPC and ops HTTP listener settings
type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	HTTPPort int    `yaml:"http_port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
	Migrate  bool   `yaml:"migrate"`
}

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type StoreConfig struct {
	Type string `yaml:"type"` // "postgres" or "memory"
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	Issuer            string `yaml:"issuer"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// VenueConfig holds the operating rules of the venue. Durations are minutes
// unless the field name says otherwise. A negative booking rule turns it off.
type VenueConfig struct {
	Timezone              string `yaml:"timezone"`
	CheckInEarlyMinutes   int    `yaml:"check_in_early_minutes"`
	NoShowGraceMinutes    int    `yaml:"no_show_grace_minutes"`
	AutoNoShowMinutes     int    `yaml:"auto_no_show_minutes"`
	PendingPaymentMinutes int    `yaml:"pending_payment_alert_minutes"`
	BookingLeadHours      int    `yaml:"booking_lead_hours"`
	BookingHorizonDays    int    `yaml:"booking_horizon_days"`
	MaxActiveReservations int    `yaml:"max_active_reservations"`
}

// SchedulerConfig contains cron schedule settings (with seconds field)
type SchedulerConfig struct {
	Enabled               bool   `yaml:"enabled"`
	MarkNoShows           string `yaml:"mark_no_shows"`
	ReportPendingPayments string `yaml:"report_pending_payments"`
}

// Load reads configuration from a YAML file. A .env file next to the
// working directory is loaded first when present; it never overrides
// variables already set in the environment.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Failed to load .env file", "error", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes, applies environment overrides and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	if val := os.Getenv("STORE_TYPE"); val != "" {
		c.Store.Type = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}
	if val := os.Getenv("HTTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.HTTPPort)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if val := os.Getenv("VENUE_TIMEZONE"); val != "" {
		c.Venue.Timezone = val
	}
	if val := os.Getenv("VENUE_BOOKING_LEAD_HOURS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Venue.BookingLeadHours)
	}
	if val := os.Getenv("VENUE_MAX_ACTIVE_RESERVATIONS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Venue.MaxActiveReservations)
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.HTTPPort < 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port: %d", c.Server.HTTPPort)
	}

	if c.Store.Type == "" {
		c.Store.Type = StorePostgres
	}
	switch c.Store.Type {
	case StorePostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store type: %s", c.Store.Type)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "gameplaza"
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	// Venue defaults
	if c.Venue.Timezone == "" {
		c.Venue.Timezone = "Asia/Seoul"
	}
	if _, err := time.LoadLocation(c.Venue.Timezone); err != nil {
		return fmt.Errorf("invalid venue timezone %q: %w", c.Venue.Timezone, err)
	}
	if c.Venue.CheckInEarlyMinutes == 0 {
		c.Venue.CheckInEarlyMinutes = 60
	}
	if c.Venue.NoShowGraceMinutes == 0 {
		c.Venue.NoShowGraceMinutes = 30
	}
	if c.Venue.AutoNoShowMinutes == 0 {
		c.Venue.AutoNoShowMinutes = 60
	}
	if c.Venue.PendingPaymentMinutes == 0 {
		c.Venue.PendingPaymentMinutes = 15
	}
	if c.Venue.BookingLeadHours == 0 {
		c.Venue.BookingLeadHours = 24
	}
	if c.Venue.BookingHorizonDays == 0 {
		c.Venue.BookingHorizonDays = 21
	}
	if c.Venue.MaxActiveReservations == 0 {
		c.Venue.MaxActiveReservations = 3
	}
	if c.Venue.AutoNoShowMinutes < c.Venue.NoShowGraceMinutes {
		return fmt.Errorf("auto no-show cutoff (%d min) must not be shorter than the no-show grace period (%d min)",
			c.Venue.AutoNoShowMinutes, c.Venue.NoShowGraceMinutes)
	}

	// Scheduler defaults
	if c.Scheduler.MarkNoShows == "" {
		c.Scheduler.MarkNoShows = "0 */5 * * * *" // every 5 minutes
	}
	if c.Scheduler.ReportPendingPayments == "" {
		c.Scheduler.ReportPendingPayments = "0 */10 * * * *"
	}

	return nil
}

// Location returns the venue time zone. Validate has already checked it loads.
func (v VenueConfig) Location() *time.Location {
	loc, err := time.LoadLocation(v.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (v VenueConfig) CheckInEarlyBy() time.Duration {
	return time.Duration(v.CheckInEarlyMinutes) * time.Minute
}

func (v VenueConfig) NoShowGrace() time.Duration {
	return time.Duration(v.NoShowGraceMinutes) * time.Minute
}

func (v VenueConfig) AutoNoShowAfter() time.Duration {
	return time.Duration(v.AutoNoShowMinutes) * time.Minute
}

func (v VenueConfig) PendingPaymentAlert() time.Duration {
	return time.Duration(v.PendingPaymentMinutes) * time.Minute
}

func (v VenueConfig) BookingLeadTime() time.Duration {
	return time.Duration(max(v.BookingLeadHours, 0)) * time.Hour
}

func (v VenueConfig) BookingHorizon() time.Duration {
	return time.Duration(max(v.BookingHorizonDays, 0)) * 24 * time.Hour
}

// ActiveReservationLimit is the per-user cap, zero when turned off.
func (v VenueConfig) ActiveReservationLimit() int {
	return max(v.MaxActiveReservations, 0)
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the gRPC server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetHTTPAddress returns the ops HTTP address, or "" when disabled
func (c *Config) GetHTTPAddress() string {
	if c.Server.HTTPPort == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}
