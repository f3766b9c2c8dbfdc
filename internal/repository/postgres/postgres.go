package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"gameplaza-backend/internal/logger"
	"gameplaza-backend/internal/repository"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

type Store struct {
	db *sql.DB
	repository.ReservationRepository
	repository.CheckInRepository
	repository.DeviceRepository
	repository.DeviceTypeRepository
	repository.UserRepository
	repository.TxManager
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		ReservationRepository: NewReservationRepository(db),
		CheckInRepository:     NewCheckInRepository(db),
		DeviceRepository:      NewDeviceRepository(db),
		DeviceTypeRepository:  NewDeviceTypeRepository(db),
		UserRepository:        NewUserRepository(db),
		TxManager:             NewTxManager(db),
	}
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate applies the embedded schema. Statements are idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	logger.DatabaseCall("Migrate", "schema.sql")
	_, err := db.ExecContext(ctx, schemaSQL)
	logger.DatabaseResult("Migrate", 0, err)
	if err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
