package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
server:
  port: 50051
store:
  type: memory
jwt:
  secret: "0123456789abcdef0123456789abcdef"
`

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.Store.Type)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "gameplaza", cfg.JWT.Issuer)
	assert.Equal(t, "Asia/Seoul", cfg.Venue.Timezone)
	assert.Equal(t, time.Hour, cfg.Venue.CheckInEarlyBy())
	assert.Equal(t, 30*time.Minute, cfg.Venue.NoShowGrace())
	assert.Equal(t, time.Hour, cfg.Venue.AutoNoShowAfter())
	assert.Equal(t, 15*time.Minute, cfg.Venue.PendingPaymentAlert())
	assert.Equal(t, 24*time.Hour, cfg.Venue.BookingLeadTime())
	assert.Equal(t, 21*24*time.Hour, cfg.Venue.BookingHorizon())
	assert.Equal(t, 3, cfg.Venue.ActiveReservationLimit())
	assert.Equal(t, "0 */5 * * * *", cfg.Scheduler.MarkNoShows)
	assert.Equal(t, "", cfg.GetHTTPAddress())
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "6000")
	t.Setenv("HTTP_PORT", "8081")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORE_TYPE", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "gp")
	t.Setenv("DB_NAME", "gameplaza")

	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, ":6000", cfg.GetServerAddress())
	assert.Equal(t, ":8081", cfg.GetHTTPAddress())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "postgres://gp:@db:0/gameplaza?sslmode=disable", cfg.GetDatabaseConnectionString())
}

func TestParse_BookingRules(t *testing.T) {
	t.Setenv("VENUE_MAX_ACTIVE_RESERVATIONS", "5")

	cfg, err := Parse([]byte(minimalYAML + `
venue:
  booking_lead_hours: -1
  booking_horizon_days: 14
`))
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), cfg.Venue.BookingLeadTime())
	assert.Equal(t, 14*24*time.Hour, cfg.Venue.BookingHorizon())
	assert.Equal(t, 5, cfg.Venue.ActiveReservationLimit())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server: ServerConfig{Port: 50051},
			Store:  StoreConfig{Type: StoreMemory},
			JWT:    JWTConfig{Secret: "0123456789abcdef0123456789abcdef"},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"Bad port", func(c *Config) { c.Server.Port = 0 }, "invalid server port: 0"},
		{"Short secret", func(c *Config) { c.JWT.Secret = "short" }, "JWT secret must be at least 32 characters"},
		{"Unknown store", func(c *Config) { c.Store.Type = "redis" }, "unknown store type: redis"},
		{"Postgres needs host", func(c *Config) { c.Store.Type = StorePostgres }, "database host is required"},
		{"Bad timezone", func(c *Config) { c.Venue.Timezone = "Mars/Olympus" }, "invalid venue timezone"},
		{"Auto cutoff before grace", func(c *Config) {
			c.Venue.NoShowGraceMinutes = 90
			c.Venue.AutoNoShowMinutes = 60
		}, "must not be shorter than the no-show grace period"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	c := valid()
	assert.NoError(t, c.Validate())
	assert.Equal(t, "Asia/Seoul", c.Venue.Location().String())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50051, cfg.Server.Port)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestGetSecurityLevel(t *testing.T) {
	assert.Equal(t, SecurityPublic, GetSecurityLevel("/grpc.health.v1.Health/Check"))
	assert.Equal(t, SecurityAccess, GetSecurityLevel("/gameplaza.v1.CheckInService/ProcessCheckIn"))
	assert.Equal(t, SecurityService, GetSecurityLevel("/gameplaza.v1.ReservationService/ProcessAutoNoShow"))
	assert.Equal(t, SecurityService, GetSecurityLevel("/gameplaza.v1.AccountService/RecordLoginAttempt"))
	assert.Equal(t, SecurityService, GetSecurityLevel("/unknown.Service/Method"))
}
