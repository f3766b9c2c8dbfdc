package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"gameplaza-backend/internal/domain"
)

// MockReservationRepo
type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) FindByDeviceID(ctx context.Context, deviceID string) ([]domain.Reservation, error) {
	args := m.Called(ctx, deviceID)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) FindConflicting(ctx context.Context, deviceID string, start, end time.Time, excludeID string) ([]domain.Reservation, error) {
	args := m.Called(ctx, deviceID, start, end, excludeID)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) Create(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReservationRepo) Update(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReservationRepo) FindApprovedStartedBefore(ctx context.Context, cutoff time.Time) ([]domain.Reservation, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) FindActiveByUserID(ctx context.Context, userID string) ([]domain.Reservation, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

// MockCheckInRepo
type MockCheckInRepo struct {
	mock.Mock
}

func (m *MockCheckInRepo) Create(ctx context.Context, c *domain.CheckIn) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCheckInRepo) Update(ctx context.Context, c *domain.CheckIn) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCheckInRepo) FindByID(ctx context.Context, id string) (*domain.CheckIn, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckIn), args.Error(1)
}
func (m *MockCheckInRepo) FindByReservationID(ctx context.Context, reservationID string) (*domain.CheckIn, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckIn), args.Error(1)
}
func (m *MockCheckInRepo) FindActiveByDeviceID(ctx context.Context, deviceID string) (*domain.CheckIn, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckIn), args.Error(1)
}
func (m *MockCheckInRepo) FindActiveCheckIns(ctx context.Context) ([]domain.CheckIn, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.CheckIn), args.Error(1)
}
func (m *MockCheckInRepo) FindByDateRange(ctx context.Context, start, end time.Time) ([]domain.CheckIn, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]domain.CheckIn), args.Error(1)
}
func (m *MockCheckInRepo) FindPendingPayments(ctx context.Context) ([]domain.CheckIn, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.CheckIn), args.Error(1)
}

// MockDeviceRepo
type MockDeviceRepo struct {
	mock.Mock
}

func (m *MockDeviceRepo) FindByID(ctx context.Context, id string) (*domain.Device, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Device), args.Error(1)
}

// MockDeviceTypeRepo
type MockDeviceTypeRepo struct {
	mock.Mock
}

func (m *MockDeviceTypeRepo) FindByID(ctx context.Context, id string) (*domain.DeviceType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeviceType), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

// passThroughTx runs fn directly; the mocks have no transaction to join.
type passThroughTx struct{}

func (passThroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type txKey struct{}

// markingTx tags the context it hands to fn so tests can tell whether a
// repository call ran inside the transaction.
type markingTx struct{}

func (markingTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, txKey{}, true))
}

func inTx(ctx context.Context) bool {
	marked, _ := ctx.Value(txKey{}).(bool)
	return marked
}
