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

const reservationColumns = `id, user_id, device_id, reservation_date, start_hour, end_hour, start_at, end_at, status, reservation_number, assigned_device_number, rejection_reason, note, checked_in_at, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

func scanReservation(s scanner) (*domain.Reservation, error) {
	r := &domain.Reservation{}
	var date time.Time
	var checkedInAt sql.NullTime
	err := s.Scan(&r.ID, &r.UserID, &r.DeviceID, &date, &r.TimeSlot.StartHour, &r.TimeSlot.EndHour,
		&r.StartAt, &r.EndAt, &r.Status, &r.ReservationNumber, &r.AssignedDeviceNumber,
		&r.RejectionReason, &r.Note, &checkedInAt, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.Date = date.Format(domain.DateLayout)
	if checkedInAt.Valid {
		t := checkedInAt.Time
		r.CheckedInAt = &t
	}
	return r, nil
}

func (r *reservationRepository) queryList(ctx context.Context, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *res)
	}
	return list, rows.Err()
}

func (r *reservationRepository) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return res, nil
}

func (r *reservationRepository) FindByDeviceID(ctx context.Context, deviceID string) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE device_id = $1 ORDER BY start_at`
	return r.queryList(ctx, query, deviceID)
}

func (r *reservationRepository) FindConflicting(ctx context.Context, deviceID string, start, end time.Time, excludeID string) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE device_id = $1 AND status = ANY($2) AND start_at < $4 AND $3 < end_at AND id <> $5
	          ORDER BY start_at`
	logger.DatabaseCall("FindConflicting", "reservations", "device_id", deviceID, "exclude_id", excludeID)
	list, err := r.queryList(ctx, query, deviceID, pq.Array(statusNames(domain.SlotHoldingStatuses)), start, end, excludeID)
	logger.DatabaseResult("FindConflicting", int64(len(list)), err)
	return list, err
}

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	query := `INSERT INTO reservations (` + reservationColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		res.ID, res.UserID, res.DeviceID, res.Date, res.TimeSlot.StartHour, res.TimeSlot.EndHour,
		res.StartAt, res.EndAt, res.Status, res.ReservationNumber, res.AssignedDeviceNumber,
		res.RejectionReason, res.Note, res.CheckedInAt, res.CreatedAt, res.UpdatedAt)
	return mapError(err)
}

// Update never touches reservation_number or created_at.
func (r *reservationRepository) Update(ctx context.Context, res *domain.Reservation) error {
	query := `UPDATE reservations SET reservation_date=$1, start_hour=$2, end_hour=$3, start_at=$4, end_at=$5,
	          status=$6, assigned_device_number=$7, rejection_reason=$8, note=$9, checked_in_at=$10, updated_at=$11
	          WHERE id=$12`
	result, err := conn(ctx, r.db).ExecContext(ctx, query,
		res.Date, res.TimeSlot.StartHour, res.TimeSlot.EndHour, res.StartAt, res.EndAt,
		res.Status, res.AssignedDeviceNumber, res.RejectionReason, res.Note, res.CheckedInAt, res.UpdatedAt,
		res.ID)
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

func (r *reservationRepository) FindApprovedStartedBefore(ctx context.Context, cutoff time.Time) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE status = $1 AND start_at < $2 ORDER BY start_at`
	return r.queryList(ctx, query, domain.ReservationStatusApproved, cutoff)
}

func (r *reservationRepository) FindActiveByUserID(ctx context.Context, userID string) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = $1 AND status = ANY($2) ORDER BY start_at`
	logger.DatabaseCall("FindActiveByUserID", "reservations", "user_id", userID)
	list, err := r.queryList(ctx, query, userID, pq.Array(statusNames(domain.OpenStatuses)))
	logger.DatabaseResult("FindActiveByUserID", int64(len(list)), err)
	return list, err
}

func statusNames(statuses []domain.ReservationStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}
