package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gameplaza-backend/internal/domain"
	"gameplaza-backend/internal/repository"
	"gameplaza-backend/internal/service"
)

var kst = time.FixedZone("KST", 9*60*60)

type checkInFixture struct {
	resRepo  *MockReservationRepo
	ciRepo   *MockCheckInRepo
	devRepo  *MockDeviceRepo
	dtRepo   *MockDeviceTypeRepo
	userRepo *MockUserRepo
	now      time.Time
	svc      service.CheckInService
}

func newCheckInFixture() *checkInFixture {
	f := &checkInFixture{
		resRepo:  new(MockReservationRepo),
		ciRepo:   new(MockCheckInRepo),
		devRepo:  new(MockDeviceRepo),
		dtRepo:   new(MockDeviceTypeRepo),
		userRepo: new(MockUserRepo),
		now:      time.Date(2025, 7, 1, 10, 30, 0, 0, kst),
	}
	policy := service.VenuePolicy{
		Location:        kst,
		CheckInEarlyBy:  time.Hour,
		NoShowGrace:     30 * time.Minute,
		AutoNoShowAfter: time.Hour,
		Now:             func() time.Time { return f.now },
	}
	f.svc = service.NewCheckInService(f.resRepo, f.ciRepo, f.devRepo, f.dtRepo, f.userRepo, passThroughTx{}, policy)
	return f
}

func approvedReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:                "R1",
		UserID:            "U1",
		DeviceID:          "D1",
		Date:              "2025-07-01",
		TimeSlot:          domain.TimeSlot{StartHour: 10, EndHour: 12},
		StartAt:           time.Date(2025, 7, 1, 10, 0, 0, 0, kst),
		EndAt:             time.Date(2025, 7, 1, 12, 0, 0, 0, kst),
		Status:            domain.ReservationStatusApproved,
		ReservationNumber: "GP-20250701-0001",
	}
}

func availableDevice() *domain.Device {
	return &domain.Device{ID: "D1", DeviceTypeID: "T1", DeviceNumber: 3, Status: domain.DeviceStatusAvailable}
}

func pcType() *domain.DeviceType {
	return &domain.DeviceType{ID: "T1", Name: "PC", HourlyRate: 15000, MinReservationHours: 1, MaxReservationHours: 6, IsActive: true}
}

func TestCheckInService_ProcessCheckIn(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newCheckInFixture()
		f.resRepo.On("FindByID", mock.Anything, "R1").Return(approvedReservation(), nil)
		f.ciRepo.On("FindByReservationID", mock.Anything, "R1").Return(nil, repository.ErrNotFound)
		f.devRepo.On("FindByID", mock.Anything, "D1").Return(availableDevice(), nil)
		f.ciRepo.On("FindActiveByDeviceID", mock.Anything, "D1").Return(nil, repository.ErrNotFound)
		f.dtRepo.On("FindByID", mock.Anything, "T1").Return(pcType(), nil)
		f.ciRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.CheckIn")).Return(nil)
		f.resRepo.On("Update", mock.Anything, mock.MatchedBy(func(r *domain.Reservation) bool {
			return r.Status == domain.ReservationStatusCheckedIn && r.CheckedInAt != nil
		})).Return(nil)

		res, err := f.svc.ProcessCheckIn(ctx, "R1", "D1")
		require.NoError(t, err)
		assert.Equal(t, domain.CheckInStatusCheckedIn, res.CheckIn.Status)
		assert.Equal(t, domain.PaymentStatusPending, res.CheckIn.PaymentStatus)
		assert.Equal(t, int64(30000), res.CheckIn.PaymentAmount)
		assert.Equal(t, f.now, res.CheckIn.CheckInTime)
		assert.Contains(t, res.Message, "30,000원")
		f.resRepo.AssertExpectations(t)
		f.ciRepo.AssertExpectations(t)
	})

	t.Run("Reservation not found", func(t *testing.T) {
		f := newCheckInFixture()
		f.resRepo.On("FindByID", mock.Anything, "R1").Return(nil, repository.ErrNotFound)

		_, err := f.svc.ProcessCheckIn(ctx, "R1", "D1")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
		assert.EqualError(t, err, "예약을 찾을 수 없습니다")
	})

	t.Run("Not approved", func(t *testing.T) {
		f := newCheckInFixture()
		r := approvedReservation()
		r.Status = domain.ReservationStatusPending
		f.resRepo.On("FindByID", mock.Anything, "R1").Return(r, nil)

		_, err := f.svc.ProcessCheckIn(ctx, "R1", "D1")
		assert.True(t, errors.Is(err, domain.ErrInvalidState))
		assert.EqualError(t, err, "승인되지 않은 예약은 체크인할 수 없습니다")
	})

	t.Run("Already checked in", func(t *testing.T) {
		f := newCheckInFixture()
		f.resRepo.On("FindByID", mock.Anything, "R1").Return(approvedReservation(), nil)
		f.ciRepo.On("FindByReservationID", mock.Anything, "R1").Return(&domain.CheckIn{ID: "C0", Status: domain.CheckInStatusInUse}, nil)

		_, err := f.svc.ProcessCheckIn(ctx, "R1", "D1")
		assert.True(t, errors.Is(err, domain.ErrAlreadyCheckedIn))
	})

	t.Run("Device missing", func(t *testing.T) {
		f := newCheckInFixture()
		f.resRepo.On("FindByID", mock.Anything, "R1").Return(approvedReservation(), nil)
		f.ciRepo.On("FindByReservationID", mock.Anything, "R1").Return(nil, repository.ErrNotFound)
		f.devRepo.On("FindByID", mock.Anything, "D1").Return(nil, repository.ErrNotFound)

		_, err := f.svc.ProcessCheckIn(ctx, "R1", "D1")
		assert.EqualError(t, err, "기기를 찾을 수 없습니다")
	})

	t.Run("Device under maintenance", func(t *testing.T) {
		f := newCheckInFixture()
		d := availableDevice()
		d.Status = domain.DeviceStatusMaintenance
		f.resRepo.On("FindByID", mock.Anything, "R1").Return(approvedReservation(), nil)
		f.ciRepo.On("FindByReservationID", mock.Anything, "R1").Return(nil, repository.ErrNotFound)
		f.devRepo.On("FindByID", mock.Anything, "D1").Return(d, nil)

		_, err := f.svc.ProcessCheckIn(ctx, "R1", "D1")
		assert.True(t, errors.Is(err, domain.ErrDeviceUnavailable))
	})

	t.Run("Device in use", func(t *testing.T) {
		f := newCheckInFixture()
		f.resRepo.On("FindByID", mock.Anything, "R1").Return(approvedReservation(), nil)
		f.ciRepo.On("FindByReservationID", mock.Anything, "R1").Return(nil, repository.ErrNotFound)
		f.devRepo.On("FindByID", mock.Anything, "D1").Return(availableDevice(), nil)
		f.ciRepo.On("FindActiveByDeviceID", mock.Anything, "D1").Return(&domain.CheckIn{ID: "C9", Status: domain.CheckInStatusInUse}, nil)

		_, err := f.svc.ProcessCheckIn(ctx, "R1", "D1")
		assert.True(t, errors.Is(err, domain.ErrDeviceInUse))
		assert.EqualError(t, err, "이미 사용 중인 기기입니다")
	})

	t.Run("Too early", func(t *testing.T) {
		f := newCheckInFixture()
		f.now = time.Date(2025, 7, 1, 8, 0, 0, 0, kst)
		f.resRepo.On("FindByID", mock.Anything, "R1").Return(approvedReservation(), nil)
		f.ciRepo.On("FindByReservationID", mock.Anything, "R1").Return(nil, repository.ErrNotFound)
		f.devRepo.On("FindByID", mock.Anything, "D1").Return(availableDevice(), nil)
		f.ciRepo.On("FindActiveByDeviceID", mock.Anything, "D1").Return(nil, repository.ErrNotFound)

		_, err := f.svc.ProcessCheckIn(ctx, "R1", "D1")
		assert.True(t, errors.Is(err, domain.ErrInvalidState))
		assert.EqualError(t, err, "체크인은 예약 시작 60분 전부터 가능합니다")
		f.ciRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Storage rejects second active check-in", func(t *testing.T) {
		f := newCheckInFixture()
		f.resRepo.On("FindByID", mock.Anything, "R1").Return(approvedReservation(), nil)
		f.ciRepo.On("FindByReservationID", mock.Anything, "R1").Return(nil, repository.ErrNotFound)
		f.devRepo.On("FindByID", mock.Anything, "D1").Return(availableDevice(), nil)
		f.ciRepo.On("FindActiveByDeviceID", mock.Anything, "D1").Return(nil, repository.ErrNotFound)
		f.dtRepo.On("FindByID", mock.Anything, "T1").Return(pcType(), nil)
		f.ciRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrReservationCheckInExists)

		_, err := f.svc.ProcessCheckIn(ctx, "R1", "D1")
		assert.True(t, errors.Is(err, domain.ErrAlreadyCheckedIn))
	})
}

func pendingPaymentCheckIn(now time.Time) *domain.CheckIn {
	return &domain.CheckIn{
		ID:            "C1",
		ReservationID: "R1",
		DeviceID:      "D1",
		CheckInTime:   now,
		Status:        domain.CheckInStatusCheckedIn,
		PaymentStatus: domain.PaymentStatusPending,
		PaymentAmount: 30000,
	}
}

func TestCheckInService_ConfirmPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newCheckInFixture()
		f.ciRepo.On("FindByID", mock.Anything, "C1").Return(pendingPaymentCheckIn(f.now), nil)
		f.ciRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.CheckIn")).Return(nil)

		res, err := f.svc.ConfirmPayment(ctx, "C1", domain.PaymentMethodCash)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusCompleted, res.CheckIn.PaymentStatus)
		assert.Equal(t, domain.CheckInStatusInUse, res.CheckIn.Status)
		assert.Equal(t, domain.PaymentMethodCash, res.CheckIn.PaymentMethod)
		require.NotNil(t, res.CheckIn.ActualStartTime)
		assert.Equal(t, f.now, *res.CheckIn.ActualStartTime)
	})

	t.Run("Second confirmation fails", func(t *testing.T) {
		f := newCheckInFixture()
		c := pendingPaymentCheckIn(f.now)
		c.Status = domain.CheckInStatusInUse
		c.PaymentStatus = domain.PaymentStatusCompleted
		f.ciRepo.On("FindByID", mock.Anything, "C1").Return(c, nil)

		_, err := f.svc.ConfirmPayment(ctx, "C1", domain.PaymentMethodCard)
		assert.True(t, errors.Is(err, domain.ErrInvalidState))
		f.ciRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Not found", func(t *testing.T) {
		f := newCheckInFixture()
		f.ciRepo.On("FindByID", mock.Anything, "C1").Return(nil, repository.ErrNotFound)

		_, err := f.svc.ConfirmPayment(ctx, "C1", domain.PaymentMethodCash)
		assert.EqualError(t, err, "체크인 정보를 찾을 수 없습니다")
	})
}

func TestCheckInService_AdjustTimeAndAmount(t *testing.T) {
	ctx := context.Background()
	amount := int64(20000)

	t.Run("Amount without reason", func(t *testing.T) {
		f := newCheckInFixture()
		f.ciRepo.On("FindByID", mock.Anything, "C1").Return(pendingPaymentCheckIn(f.now), nil)

		_, err := f.svc.AdjustTimeAndAmount(ctx, service.AdjustRequest{CheckInID: "C1", AdjustedAmount: &amount})
		assert.True(t, errors.Is(err, domain.ErrReasonRequired))
		assert.EqualError(t, err, "금액 조정 시 사유를 입력해주세요")
		f.ciRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Missing check-in is reported before the reason", func(t *testing.T) {
		f := newCheckInFixture()
		f.ciRepo.On("FindByID", mock.Anything, "C9").Return(nil, repository.ErrNotFound)

		_, err := f.svc.AdjustTimeAndAmount(ctx, service.AdjustRequest{CheckInID: "C9", AdjustedAmount: &amount})
		assert.True(t, errors.Is(err, domain.ErrNotFound))
		assert.EqualError(t, err, "체크인 정보를 찾을 수 없습니다")
	})

	t.Run("Closed check-in is reported before the reason", func(t *testing.T) {
		f := newCheckInFixture()
		c := pendingPaymentCheckIn(f.now)
		c.Status = domain.CheckInStatusCompleted
		f.ciRepo.On("FindByID", mock.Anything, "C1").Return(c, nil)

		_, err := f.svc.AdjustTimeAndAmount(ctx, service.AdjustRequest{CheckInID: "C1", AdjustedAmount: &amount})
		assert.True(t, errors.Is(err, domain.ErrInvalidState))
		assert.EqualError(t, err, "활성 상태의 체크인만 조정할 수 있습니다")
	})

	t.Run("Negative amount", func(t *testing.T) {
		f := newCheckInFixture()
		f.ciRepo.On("FindByID", mock.Anything, "C1").Return(pendingPaymentCheckIn(f.now), nil)
		negative := int64(-1)

		_, err := f.svc.AdjustTimeAndAmount(ctx, service.AdjustRequest{CheckInID: "C1", AdjustedAmount: &negative, AdjustmentReason: "오류"})
		assert.True(t, errors.Is(err, domain.ErrInvalidAmount))
		assert.EqualError(t, err, "금액 조정 실패: 금액은 0원 이상이어야 합니다")
	})

	t.Run("Time and amount", func(t *testing.T) {
		f := newCheckInFixture()
		f.ciRepo.On("FindByID", mock.Anything, "C1").Return(pendingPaymentCheckIn(f.now), nil)
		f.ciRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.CheckIn")).Return(nil)
		start := f.now.Add(-time.Hour)

		res, err := f.svc.AdjustTimeAndAmount(ctx, service.AdjustRequest{
			CheckInID:        "C1",
			ActualStartTime:  &start,
			AdjustedAmount:   &amount,
			AdjustmentReason: "기기 점검",
		})
		require.NoError(t, err)
		assert.Equal(t, "시간이 조정되었습니다. 금액이 20,000원으로 조정되었습니다", res.Message)
		assert.Equal(t, int64(20000), res.CheckIn.FinalAmount())
		assert.Equal(t, "기기 점검", res.CheckIn.AdjustmentReason)
		assert.Equal(t, start, *res.CheckIn.ActualStartTime)
	})

	t.Run("Inactive check-in", func(t *testing.T) {
		f := newCheckInFixture()
		c := pendingPaymentCheckIn(f.now)
		c.Status = domain.CheckInStatusCompleted
		f.ciRepo.On("FindByID", mock.Anything, "C1").Return(c, nil)
		end := f.now

		_, err := f.svc.AdjustTimeAndAmount(ctx, service.AdjustRequest{CheckInID: "C1", ActualEndTime: &end})
		assert.EqualError(t, err, "활성 상태의 체크인만 조정할 수 있습니다")
	})
}

func TestCheckInService_ProcessCheckOut(t *testing.T) {
	ctx := context.Background()

	t.Run("Before payment confirmation", func(t *testing.T) {
		f := newCheckInFixture()
		f.ciRepo.On("FindByID", mock.Anything, "C1").Return(pendingPaymentCheckIn(f.now), nil)

		_, err := f.svc.ProcessCheckOut(ctx, "C1", "")
		assert.True(t, errors.Is(err, domain.ErrInvalidState))
		assert.EqualError(t, err, "결제가 완료되지 않은 체크인은 체크아웃할 수 없습니다")
		f.ciRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Success completes reservation", func(t *testing.T) {
		f := newCheckInFixture()
		start := f.now.Add(-150 * time.Minute)
		c := pendingPaymentCheckIn(start)
		c.Status = domain.CheckInStatusInUse
		c.PaymentStatus = domain.PaymentStatusCompleted
		c.PaymentMethod = domain.PaymentMethodCash
		c.ActualStartTime = &start
		r := approvedReservation()
		r.Status = domain.ReservationStatusCheckedIn

		f.ciRepo.On("FindByID", mock.Anything, "C1").Return(c, nil)
		f.ciRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.CheckIn")).Return(nil)
		f.resRepo.On("FindByID", mock.Anything, "R1").Return(r, nil)
		f.resRepo.On("Update", mock.Anything, mock.MatchedBy(func(r *domain.Reservation) bool {
			return r.Status == domain.ReservationStatusCompleted
		})).Return(nil)

		res, err := f.svc.ProcessCheckOut(ctx, "C1", "즐거운 시간")
		require.NoError(t, err)
		assert.Equal(t, domain.CheckInStatusCompleted, res.CheckIn.Status)
		assert.Equal(t, "즐거운 시간", res.CheckIn.Notes)
		assert.Equal(t, 150, res.Summary.TotalMinutes)
		assert.Equal(t, "2시간 30분", res.Summary.TotalTime)
		assert.Equal(t, int64(30000), res.Summary.FinalAmount)
		assert.Equal(t, "현금", res.Summary.PaymentMethod)
		assert.Contains(t, res.Message, "체크아웃이 완료되었습니다")
		assert.Contains(t, res.Message, "2시간 30분")
		f.resRepo.AssertExpectations(t)
	})

	t.Run("Missing reservation is tolerated", func(t *testing.T) {
		f := newCheckInFixture()
		c := pendingPaymentCheckIn(f.now)
		c.Status = domain.CheckInStatusInUse
		c.PaymentStatus = domain.PaymentStatusCompleted
		c.PaymentMethod = domain.PaymentMethodCard
		f.ciRepo.On("FindByID", mock.Anything, "C1").Return(c, nil)
		f.ciRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
		f.resRepo.On("FindByID", mock.Anything, "R1").Return(nil, repository.ErrNotFound)

		res, err := f.svc.ProcessCheckOut(ctx, "C1", "")
		require.NoError(t, err)
		assert.Equal(t, domain.CheckInStatusCompleted, res.CheckIn.Status)
		f.resRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestCheckInService_GetCheckInsByDateRange(t *testing.T) {
	ctx := context.Background()
	f := newCheckInFixture()
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, kst)
	end := time.Date(2025, 7, 1, 23, 59, 59, 0, kst)

	usedFrom := start.Add(10 * time.Hour)
	usedTo := usedFrom.Add(120 * time.Minute)
	adjusted := int64(20000)
	list := []domain.CheckIn{
		{ID: "C1", ReservationID: "R1", DeviceID: "D1", Status: domain.CheckInStatusCompleted, PaymentAmount: 30000, ActualStartTime: &usedFrom, ActualEndTime: &usedTo},
		{ID: "C2", ReservationID: "R2", DeviceID: "D2", Status: domain.CheckInStatusInUse, PaymentAmount: 25000, AdjustedAmount: &adjusted, AdjustmentReason: "할인"},
		{ID: "C3", ReservationID: "R3", DeviceID: "D3", Status: domain.CheckInStatusCheckedIn, PaymentAmount: 20000},
	}

	f.ciRepo.On("FindByDateRange", mock.Anything, start, end).Return(list, nil)
	f.resRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, repository.ErrNotFound)
	f.devRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	t.Run("With statistics", func(t *testing.T) {
		res, err := f.svc.GetCheckInsByDateRange(ctx, start, end, true)
		require.NoError(t, err)
		assert.Equal(t, 3, res.TotalCount)
		require.NotNil(t, res.Statistics)
		assert.Equal(t, 3, res.Statistics.TotalCheckIns)
		assert.Equal(t, 2, res.Statistics.ActiveCheckIns)
		assert.Equal(t, 1, res.Statistics.CompletedCheckIns)
		assert.Equal(t, int64(70000), res.Statistics.TotalRevenue)
		assert.Equal(t, 120, res.Statistics.AverageUsageTime)
		for _, d := range res.CheckIns {
			assert.Equal(t, "Unknown", d.UserName)
			assert.Equal(t, "Unknown", d.DeviceName)
			assert.Nil(t, d.Reservation)
		}
	})

	t.Run("Without statistics", func(t *testing.T) {
		res, err := f.svc.GetCheckInsByDateRange(ctx, start, end, false)
		require.NoError(t, err)
		assert.Nil(t, res.Statistics)
	})

	t.Run("Inverted range", func(t *testing.T) {
		_, err := f.svc.GetCheckInsByDateRange(ctx, end, start, true)
		assert.True(t, errors.Is(err, domain.ErrInvalidRange))
	})
}

func TestCheckInService_GetActiveCheckIns(t *testing.T) {
	ctx := context.Background()

	t.Run("User lookups are de-duplicated", func(t *testing.T) {
		f := newCheckInFixture()
		active := []domain.CheckIn{
			{ID: "C1", ReservationID: "R1", DeviceID: "D1", Status: domain.CheckInStatusInUse, PaymentStatus: domain.PaymentStatusCompleted},
			{ID: "C2", ReservationID: "R2", DeviceID: "D2", Status: domain.CheckInStatusCheckedIn, PaymentStatus: domain.PaymentStatusPending},
		}
		f.ciRepo.On("FindActiveCheckIns", mock.Anything).Return(active, nil)
		f.resRepo.On("FindByID", mock.Anything, "R1").Return(&domain.Reservation{ID: "R1", UserID: "U1", ReservationNumber: "GP-20250701-0001"}, nil)
		f.resRepo.On("FindByID", mock.Anything, "R2").Return(&domain.Reservation{ID: "R2", UserID: "U1", ReservationNumber: "GP-20250701-0002"}, nil)
		f.devRepo.On("FindByID", mock.Anything, "D1").Return(&domain.Device{ID: "D1", DeviceNumber: 1}, nil)
		f.devRepo.On("FindByID", mock.Anything, "D2").Return(&domain.Device{ID: "D2", DeviceNumber: 2}, nil)
		f.userRepo.On("FindByID", mock.Anything, "U1").Return(&domain.User{ID: "U1", FullName: "홍길동"}, nil)

		list, err := f.svc.GetActiveCheckIns(ctx, service.ActiveCheckInFilter{})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "홍길동", list[0].UserName)
		assert.Equal(t, "홍길동", list[1].UserName)
		assert.Equal(t, "1번 기기", list[0].DeviceName)
		assert.Equal(t, "GP-20250701-0002", list[1].ReservationNumber)
		f.userRepo.AssertNumberOfCalls(t, "FindByID", 1)
	})

	t.Run("Excluding waiting payment", func(t *testing.T) {
		f := newCheckInFixture()
		active := []domain.CheckIn{
			{ID: "C1", ReservationID: "R1", DeviceID: "D1", Status: domain.CheckInStatusInUse, PaymentStatus: domain.PaymentStatusCompleted},
			{ID: "C2", ReservationID: "R2", DeviceID: "D2", Status: domain.CheckInStatusCheckedIn, PaymentStatus: domain.PaymentStatusPending},
		}
		f.ciRepo.On("FindActiveCheckIns", mock.Anything).Return(active, nil)
		f.resRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, repository.ErrNotFound)
		f.devRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, repository.ErrNotFound)

		list, err := f.svc.GetActiveCheckIns(ctx, service.ActiveCheckInFilter{ExcludeWaitingPayment: true})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "C1", list[0].CheckIn.ID)
		assert.Equal(t, "Unknown", list[0].ReservationNumber)
	})

	t.Run("Single device", func(t *testing.T) {
		f := newCheckInFixture()
		f.ciRepo.On("FindActiveByDeviceID", mock.Anything, "D9").Return(nil, repository.ErrNotFound)

		list, err := f.svc.GetActiveCheckIns(ctx, service.ActiveCheckInFilter{DeviceID: "D9"})
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestCheckInService_GetCheckInDetails(t *testing.T) {
	ctx := context.Background()
	f := newCheckInFixture()
	f.ciRepo.On("FindByID", mock.Anything, "C1").Return(pendingPaymentCheckIn(f.now), nil)
	f.resRepo.On("FindByID", mock.Anything, "R1").Return(approvedReservation(), nil)
	f.devRepo.On("FindByID", mock.Anything, "D1").Return(availableDevice(), nil)
	f.userRepo.On("FindByID", mock.Anything, "U1").Return(nil, repository.ErrNotFound)

	d, err := f.svc.GetCheckInDetails(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, "C1", d.CheckIn.ID)
	require.NotNil(t, d.Reservation)
	assert.Equal(t, "GP-20250701-0001", d.ReservationNumber)
	assert.Equal(t, "Unknown", d.UserName)
	assert.Equal(t, "3번 기기", d.DeviceName)
}
