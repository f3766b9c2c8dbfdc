package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"gameplaza-backend/internal/logger"
	"gameplaza-backend/internal/repository"
)

type contextKey string

const txKey contextKey = "pg_tx"

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn returns the transaction carried by ctx, or db when there is none.
func conn(ctx context.Context, db *sql.DB) querier {
	if tx, ok := ctx.Value(txKey).(*sql.Tx); ok {
		return tx
	}
	return db
}

type txManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) repository.TxManager {
	return &txManager{db: db}
}

func (m *txManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("Failed to roll back transaction", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapError(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

const (
	pqUniqueViolation    = "23505"
	pqExclusionViolation = "23P01"

	constraintReservationOverlap   = "reservations_no_overlap"
	constraintReservationNumber    = "reservations_reservation_number_key"
	constraintActiveReservationCIn = "check_ins_active_reservation_idx"
	constraintActiveDeviceCIn      = "check_ins_active_device_idx"
)

// mapError turns constraint violations and missing rows into repository
// sentinels; anything else is returned unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch string(pqErr.Code) {
	case pqExclusionViolation:
		if pqErr.Constraint == constraintReservationOverlap {
			return repository.ErrSlotTaken
		}
	case pqUniqueViolation:
		switch pqErr.Constraint {
		case constraintActiveReservationCIn:
			return repository.ErrReservationCheckInExists
		case constraintActiveDeviceCIn:
			return repository.ErrDeviceCheckInExists
		case constraintReservationNumber:
			return repository.ErrDuplicateNumber
		}
	}
	return err
}
