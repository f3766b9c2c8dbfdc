package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gameplaza-backend/internal/domain"
	"gameplaza-backend/internal/repository"
	"gameplaza-backend/internal/service"
)

func TestReservationService_NoShowReadsInsideTransaction(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 7, 1, 11, 30, 0, 0, kst)

	resRepo := new(MockReservationRepo)
	ciRepo := new(MockCheckInRepo)
	userRepo := new(MockUserRepo)
	policy := service.VenuePolicy{
		Location:        kst,
		CheckInEarlyBy:  time.Hour,
		NoShowGrace:     30 * time.Minute,
		AutoNoShowAfter: time.Hour,
		Now:             func() time.Time { return now },
	}
	svc := service.NewReservationService(resRepo, ciRepo, new(MockDeviceRepo), new(MockDeviceTypeRepo), userRepo, markingTx{}, policy)

	txCtx := mock.MatchedBy(inTx)
	userRepo.On("FindByID", mock.Anything, "A1").Return(&domain.User{ID: "A1", Role: domain.RoleAdmin, Status: domain.UserStatusActive}, nil)
	resRepo.On("FindByID", txCtx, "R1").Return(approvedReservation(), nil)
	resRepo.On("FindApprovedStartedBefore", mock.Anything, now.Add(-time.Hour)).Return([]domain.Reservation{*approvedReservation()}, nil)
	ciRepo.On("FindByReservationID", txCtx, "R1").Return(nil, repository.ErrNotFound)
	resRepo.On("Update", txCtx, mock.AnythingOfType("*domain.Reservation")).Return(nil)

	t.Run("Manual", func(t *testing.T) {
		r, err := svc.MarkNoShow(ctx, "A1", "R1")
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationStatusNoShow, r.Status)
	})

	t.Run("Automatic", func(t *testing.T) {
		n, err := svc.ProcessAutoNoShow(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	ciRepo.AssertNumberOfCalls(t, "FindByReservationID", 2)
	resRepo.AssertNumberOfCalls(t, "Update", 2)
}
