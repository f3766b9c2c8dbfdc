package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"gameplaza-backend/internal/domain"
	"gameplaza-backend/internal/logger"
	"gameplaza-backend/internal/repository"
)

const checkInColumns = `id, reservation_id, device_id, check_in_time, check_out_time, status, payment_status, payment_method, payment_amount, adjusted_amount, adjustment_reason, actual_start_time, actual_end_time, notes, created_at, updated_at`

type checkInRepository struct {
	db *sql.DB
}

func NewCheckInRepository(db *sql.DB) repository.CheckInRepository {
	return &checkInRepository{db: db}
}

func nullTimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func scanCheckIn(s scanner) (*domain.CheckIn, error) {
	c := &domain.CheckIn{}
	var checkOut, actualStart, actualEnd sql.NullTime
	var adjusted sql.NullInt64
	var method string
	err := s.Scan(&c.ID, &c.ReservationID, &c.DeviceID, &c.CheckInTime, &checkOut, &c.Status, &c.PaymentStatus,
		&method, &c.PaymentAmount, &adjusted, &c.AdjustmentReason, &actualStart, &actualEnd, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.PaymentMethod = domain.PaymentMethod(method)
	c.CheckOutTime = nullTimePtr(checkOut)
	c.ActualStartTime = nullTimePtr(actualStart)
	c.ActualEndTime = nullTimePtr(actualEnd)
	if adjusted.Valid {
		v := adjusted.Int64
		c.AdjustedAmount = &v
	}
	return c, nil
}

func (r *checkInRepository) queryOne(ctx context.Context, query string, args ...any) (*domain.CheckIn, error) {
	c, err := scanCheckIn(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *checkInRepository) queryList(ctx context.Context, query string, args ...any) ([]domain.CheckIn, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.CheckIn
	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *c)
	}
	return list, rows.Err()
}

func (r *checkInRepository) Create(ctx context.Context, c *domain.CheckIn) error {
	query := `INSERT INTO check_ins (` + checkInColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	logger.DatabaseCall("CreateCheckIn", "check_ins", "reservation_id", c.ReservationID, "device_id", c.DeviceID)
	result, err := conn(ctx, r.db).ExecContext(ctx, query,
		c.ID, c.ReservationID, c.DeviceID, c.CheckInTime, c.CheckOutTime, c.Status, c.PaymentStatus,
		string(c.PaymentMethod), c.PaymentAmount, c.AdjustedAmount, c.AdjustmentReason,
		c.ActualStartTime, c.ActualEndTime, c.Notes, c.CreatedAt, c.UpdatedAt)
	var n int64
	if result != nil {
		n, _ = result.RowsAffected()
	}
	logger.DatabaseResult("CreateCheckIn", n, err)
	return mapError(err)
}

func (r *checkInRepository) Update(ctx context.Context, c *domain.CheckIn) error {
	query := `UPDATE check_ins SET check_out_time=$1, status=$2, payment_status=$3, payment_method=$4,
	          adjusted_amount=$5, adjustment_reason=$6, actual_start_time=$7, actual_end_time=$8, notes=$9, updated_at=$10
	          WHERE id=$11`
	result, err := conn(ctx, r.db).ExecContext(ctx, query,
		c.CheckOutTime, c.Status, c.PaymentStatus, string(c.PaymentMethod), c.AdjustedAmount, c.AdjustmentReason,
		c.ActualStartTime, c.ActualEndTime, c.Notes, c.UpdatedAt, c.ID)
	if err != nil {
		return mapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *checkInRepository) FindByID(ctx context.Context, id string) (*domain.CheckIn, error) {
	return r.queryOne(ctx, `SELECT `+checkInColumns+` FROM check_ins WHERE id = $1`, id)
}

func (r *checkInRepository) FindByReservationID(ctx context.Context, reservationID string) (*domain.CheckIn, error) {
	query := `SELECT ` + checkInColumns + ` FROM check_ins WHERE reservation_id = $1 ORDER BY check_in_time DESC LIMIT 1`
	return r.queryOne(ctx, query, reservationID)
}

func (r *checkInRepository) FindActiveByDeviceID(ctx context.Context, deviceID string) (*domain.CheckIn, error) {
	query := `SELECT ` + checkInColumns + ` FROM check_ins WHERE device_id = $1 AND status = ANY($2) LIMIT 1`
	return r.queryOne(ctx, query, deviceID, pq.Array(activeCheckInStatuses()))
}

func (r *checkInRepository) FindActiveCheckIns(ctx context.Context) ([]domain.CheckIn, error) {
	query := `SELECT ` + checkInColumns + ` FROM check_ins WHERE status = ANY($1) ORDER BY check_in_time`
	return r.queryList(ctx, query, pq.Array(activeCheckInStatuses()))
}

func (r *checkInRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]domain.CheckIn, error) {
	query := `SELECT ` + checkInColumns + ` FROM check_ins WHERE check_in_time >= $1 AND check_in_time <= $2 ORDER BY check_in_time`
	return r.queryList(ctx, query, start, end)
}

func (r *checkInRepository) FindPendingPayments(ctx context.Context) ([]domain.CheckIn, error) {
	query := `SELECT ` + checkInColumns + ` FROM check_ins WHERE status = $1 AND payment_status = $2 ORDER BY check_in_time`
	return r.queryList(ctx, query, domain.CheckInStatusCheckedIn, domain.PaymentStatusPending)
}

func activeCheckInStatuses() []string {
	out := make([]string, 0, len(domain.ActiveCheckInStatuses))
	for _, s := range domain.ActiveCheckInStatuses {
		out = append(out, string(s))
	}
	return out
}
