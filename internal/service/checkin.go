package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gameplaza-backend/internal/domain"
	"gameplaza-backend/internal/logger"
	"gameplaza-backend/internal/repository"
	"gameplaza-backend/internal/utils"
)

type CheckInResult struct {
	CheckIn domain.CheckIn
	Message string
}

// AdjustRequest overrides the usage window and/or the billed amount of an
// active check-in. Nil fields are left unchanged.
type AdjustRequest struct {
	CheckInID        string
	ActualStartTime  *time.Time
	ActualEndTime    *time.Time
	AdjustedAmount   *int64
	AdjustmentReason string
}

type CheckOutSummary struct {
	TotalTime     string
	TotalMinutes  int
	FinalAmount   int64
	PaymentMethod string
}

type CheckOutResult struct {
	CheckIn domain.CheckIn
	Summary CheckOutSummary
	Message string
}

type checkInService struct {
	reservations repository.ReservationRepository
	checkIns     repository.CheckInRepository
	devices      repository.DeviceRepository
	deviceTypes  repository.DeviceTypeRepository
	users        repository.UserRepository
	tx           repository.TxManager
	policy       VenuePolicy
}

func NewCheckInService(
	reservations repository.ReservationRepository,
	checkIns repository.CheckInRepository,
	devices repository.DeviceRepository,
	deviceTypes repository.DeviceTypeRepository,
	users repository.UserRepository,
	tx repository.TxManager,
	policy VenuePolicy,
) CheckInService {
	return &checkInService{
		reservations: reservations,
		checkIns:     checkIns,
		devices:      devices,
		deviceTypes:  deviceTypes,
		users:        users,
		tx:           tx,
		policy:       policy,
	}
}

func (s *checkInService) ProcessCheckIn(ctx context.Context, reservationID, deviceID string) (*CheckInResult, error) {
	logger.EnterMethod("checkInService.ProcessCheckIn", "reservationID", reservationID, "deviceID", deviceID)

	var created domain.CheckIn
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		r, err := s.reservations.FindByID(ctx, reservationID)
		if err != nil {
			return storeError(err, msgReservationNotFound)
		}
		if r.Status != domain.ReservationStatusApproved {
			return domain.InvalidState("승인되지 않은 예약은 체크인할 수 없습니다")
		}

		existing, err := s.checkIns.FindByReservationID(ctx, r.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if existing != nil && existing.IsActive() {
			return domain.AlreadyCheckedIn(msgAlreadyCheckedIn)
		}

		device, err := s.devices.FindByID(ctx, deviceID)
		if err != nil {
			return storeError(err, msgDeviceNotFound)
		}
		if !device.CanBeReserved() {
			return domain.DeviceUnavailable("사용할 수 없는 기기입니다")
		}

		busy, err := s.checkIns.FindActiveByDeviceID(ctx, deviceID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if busy != nil {
			return domain.DeviceInUse(msgDeviceInUse)
		}

		now := s.policy.now()
		if err := r.EnsureCheckInWindow(now, s.policy.CheckInEarlyBy); err != nil {
			return err
		}

		dt, err := s.deviceTypes.FindByID(ctx, device.DeviceTypeID)
		if err != nil {
			return storeError(err, msgDeviceTypeNotFound)
		}
		amount, err := dt.CalculatePrice(decimal.NewFromInt(int64(r.DurationHours())))
		if err != nil {
			return err
		}

		if created, err = domain.NewCheckIn(uuid.NewString(), r.ID, deviceID, amount, now); err != nil {
			return err
		}
		if err := s.checkIns.Create(ctx, &created); err != nil {
			return err
		}
		checkedIn, err := r.CheckIn(now)
		if err != nil {
			return err
		}
		return s.reservations.Update(ctx, &checkedIn)
	})
	if err != nil {
		err = storeError(err, msgCheckInNotFound)
		logger.ExitMethodWithError("checkInService.ProcessCheckIn", err, "reservationID", reservationID)
		return nil, err
	}

	logger.ExitMethod("checkInService.ProcessCheckIn", "checkInID", created.ID, "amount", created.PaymentAmount)
	return &CheckInResult{
		CheckIn: created,
		Message: fmt.Sprintf("체크인이 완료되었습니다. 결제를 진행해주세요. (결제 금액: %s)", utils.FormatWon(created.PaymentAmount)),
	}, nil
}

// mutate loads a check-in, applies change and stores the result.
func (s *checkInService) mutate(ctx context.Context, id string, change func(domain.CheckIn) (domain.CheckIn, error)) (domain.CheckIn, error) {
	var before, updated domain.CheckIn
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.checkIns.FindByID(ctx, id)
		if err != nil {
			return err
		}
		before = *current
		if updated, err = change(*current); err != nil {
			return err
		}
		return s.checkIns.Update(ctx, &updated)
	})
	if err != nil {
		return updated, storeError(err, msgCheckInNotFound)
	}
	if before.Status != updated.Status || before.PaymentStatus != updated.PaymentStatus {
		logger.StatusChange("check_in", id, before.Status, updated.Status, "payment", updated.PaymentStatus)
	}
	return updated, nil
}

func (s *checkInService) ConfirmPayment(ctx context.Context, checkInID string, method domain.PaymentMethod) (*CheckInResult, error) {
	logger.EnterMethod("checkInService.ConfirmPayment", "checkInID", checkInID, "method", method)

	updated, err := s.mutate(ctx, checkInID, func(c domain.CheckIn) (domain.CheckIn, error) {
		return c.ConfirmPayment(method, s.policy.now())
	})
	if err != nil {
		logger.ExitMethodWithError("checkInService.ConfirmPayment", err, "checkInID", checkInID)
		return nil, err
	}

	logger.ExitMethod("checkInService.ConfirmPayment", "checkInID", checkInID, "status", updated.Status)
	return &CheckInResult{CheckIn: updated, Message: "결제가 확인되었습니다. 이용을 시작할 수 있습니다."}, nil
}

func (s *checkInService) AdjustTimeAndAmount(ctx context.Context, req AdjustRequest) (*CheckInResult, error) {
	logger.EnterMethod("checkInService.AdjustTimeAndAmount", "checkInID", req.CheckInID)

	timeChanged := req.ActualStartTime != nil || req.ActualEndTime != nil

	var messages []string
	updated, err := s.mutate(ctx, req.CheckInID, func(c domain.CheckIn) (domain.CheckIn, error) {
		if !c.IsActive() {
			return domain.CheckIn{}, domain.InvalidState("활성 상태의 체크인만 조정할 수 있습니다")
		}
		if req.AdjustedAmount != nil && strings.TrimSpace(req.AdjustmentReason) == "" {
			return domain.CheckIn{}, domain.ReasonRequired("금액 조정 시 사유를 입력해주세요")
		}
		if !timeChanged && req.AdjustedAmount == nil {
			return domain.CheckIn{}, domain.ValidationError("조정할 내용이 없습니다")
		}
		now := s.policy.now()
		messages = messages[:0]
		next := c
		var err error
		if timeChanged {
			if next, err = next.AdjustTime(req.ActualStartTime, req.ActualEndTime, now); err != nil {
				return domain.CheckIn{}, err
			}
			messages = append(messages, "시간이 조정되었습니다")
		}
		if req.AdjustedAmount != nil {
			if next, err = next.AdjustAmount(*req.AdjustedAmount, req.AdjustmentReason, now); err != nil {
				return domain.CheckIn{}, domain.Prefixed("금액 조정 실패: ", err)
			}
			messages = append(messages, fmt.Sprintf("금액이 %s으로 조정되었습니다", utils.FormatWon(*req.AdjustedAmount)))
		}
		return next, nil
	})
	if err != nil {
		logger.ExitMethodWithError("checkInService.AdjustTimeAndAmount", err, "checkInID", req.CheckInID)
		return nil, err
	}

	logger.ExitMethod("checkInService.AdjustTimeAndAmount", "checkInID", req.CheckInID, "finalAmount", updated.FinalAmount())
	return &CheckInResult{CheckIn: updated, Message: strings.Join(messages, ". ")}, nil
}

func (s *checkInService) ProcessCheckOut(ctx context.Context, checkInID, notes string) (*CheckOutResult, error) {
	logger.EnterMethod("checkInService.ProcessCheckOut", "checkInID", checkInID)

	updated, err := s.mutate(ctx, checkInID, func(c domain.CheckIn) (domain.CheckIn, error) {
		if c.PaymentStatus != domain.PaymentStatusCompleted {
			return domain.CheckIn{}, domain.InvalidState("결제가 완료되지 않은 체크인은 체크아웃할 수 없습니다")
		}
		if c.Status != domain.CheckInStatusInUse {
			return domain.CheckIn{}, domain.InvalidState("사용 중인 체크인만 체크아웃할 수 있습니다")
		}
		now := s.policy.now()
		if notes != "" {
			c = c.WithNotes(notes, now)
		}
		return c.CheckOut(now)
	})
	if err != nil {
		logger.ExitMethodWithError("checkInService.ProcessCheckOut", err, "checkInID", checkInID)
		return nil, err
	}

	s.completeReservation(ctx, updated.ReservationID)

	minutes, _ := updated.ActualDuration()
	summary := CheckOutSummary{
		TotalTime:     utils.FormatDuration(minutes),
		TotalMinutes:  minutes,
		FinalAmount:   updated.FinalAmount(),
		PaymentMethod: updated.PaymentMethod.DisplayName(),
	}

	logger.ExitMethod("checkInService.ProcessCheckOut", "checkInID", checkInID, "minutes", minutes, "finalAmount", summary.FinalAmount)
	return &CheckOutResult{
		CheckIn: updated,
		Summary: summary,
		Message: fmt.Sprintf("체크아웃이 완료되었습니다. 이용 시간: %s, 최종 금액: %s", summary.TotalTime, utils.FormatWon(summary.FinalAmount)),
	}, nil
}

// completeReservation closes the reservation behind a finished session.
// The check-out already happened, so failures are only logged.
func (s *checkInService) completeReservation(ctx context.Context, reservationID string) {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		r, err := s.reservations.FindByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if r.Status != domain.ReservationStatusCheckedIn {
			return nil
		}
		done, err := r.Complete(s.policy.now())
		if err != nil {
			return err
		}
		return s.reservations.Update(ctx, &done)
	})
	if err != nil {
		logger.Warn("Reservation not completed after check-out", "reservationID", reservationID, "error", err)
	}
}

func (s *checkInService) ListPendingPayments(ctx context.Context) ([]domain.CheckIn, error) {
	list, err := s.checkIns.FindPendingPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("find pending payments: %w", err)
	}
	return list, nil
}
