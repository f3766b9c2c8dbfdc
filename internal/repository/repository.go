package repository

import (
	"context"
	"errors"
	"time"

	"gameplaza-backend/internal/domain"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrSlotTaken is returned when storage rejects an overlapping
	// slot-holding reservation for the same device.
	ErrSlotTaken = errors.New("device slot already held")
	// ErrReservationCheckInExists and ErrDeviceCheckInExists are returned
	// when a second active check-in would be stored.
	ErrReservationCheckInExists = errors.New("active check-in already exists for reservation")
	ErrDeviceCheckInExists      = errors.New("active check-in already exists for device")
	// ErrDuplicateNumber means the generated reservation number is taken.
	ErrDuplicateNumber = errors.New("reservation number already exists")
)

type ReservationRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Reservation, error)
	FindByDeviceID(ctx context.Context, deviceID string) ([]domain.Reservation, error)
	// FindConflicting returns slot-holding reservations on deviceID whose
	// [start, end) overlaps the given interval. excludeID may be empty.
	FindConflicting(ctx context.Context, deviceID string, start, end time.Time, excludeID string) ([]domain.Reservation, error)
	Create(ctx context.Context, r *domain.Reservation) error
	Update(ctx context.Context, r *domain.Reservation) error
	// FindApprovedStartedBefore lists approved reservations starting before cutoff.
	FindApprovedStartedBefore(ctx context.Context, cutoff time.Time) ([]domain.Reservation, error)
	// FindActiveByUserID lists the user's reservations that are not terminal.
	FindActiveByUserID(ctx context.Context, userID string) ([]domain.Reservation, error)
}

type CheckInRepository interface {
	Create(ctx context.Context, c *domain.CheckIn) error
	Update(ctx context.Context, c *domain.CheckIn) error
	FindByID(ctx context.Context, id string) (*domain.CheckIn, error)
	// FindByReservationID returns the most recent check-in for a reservation.
	FindByReservationID(ctx context.Context, reservationID string) (*domain.CheckIn, error)
	FindActiveByDeviceID(ctx context.Context, deviceID string) (*domain.CheckIn, error)
	FindActiveCheckIns(ctx context.Context) ([]domain.CheckIn, error)
	// FindByDateRange matches check_in_time within [start, end].
	FindByDateRange(ctx context.Context, start, end time.Time) ([]domain.CheckIn, error)
	FindPendingPayments(ctx context.Context) ([]domain.CheckIn, error)
}

type DeviceRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Device, error)
}

type DeviceTypeRepository interface {
	FindByID(ctx context.Context, id string) (*domain.DeviceType, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

// TxManager runs fn in a single storage transaction. Repositories used
// inside fn with the passed ctx join that transaction.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
