package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gameplaza-backend/internal/domain"
	"gameplaza-backend/internal/logger"
	"gameplaza-backend/internal/repository"
)

const reservationNumberAttempts = 3

type CreateReservationRequest struct {
	// ActorID is the caller. Staff callers skip the booking lead time.
	ActorID  string
	UserID   string
	DeviceID string
	Date     string
	TimeSlot domain.TimeSlot
	Note     string
	// AutoApprove books and approves in one step (staff walk-in bookings).
	AutoApprove          bool
	AssignedDeviceNumber string
}

type reservationService struct {
	reservations repository.ReservationRepository
	checkIns     repository.CheckInRepository
	devices      repository.DeviceRepository
	deviceTypes  repository.DeviceTypeRepository
	users        repository.UserRepository
	tx           repository.TxManager
	policy       VenuePolicy
}

func NewReservationService(
	reservations repository.ReservationRepository,
	checkIns repository.CheckInRepository,
	devices repository.DeviceRepository,
	deviceTypes repository.DeviceTypeRepository,
	users repository.UserRepository,
	tx repository.TxManager,
	policy VenuePolicy,
) ReservationService {
	return &reservationService{
		reservations: reservations,
		checkIns:     checkIns,
		devices:      devices,
		deviceTypes:  deviceTypes,
		users:        users,
		tx:           tx,
		policy:       policy,
	}
}

func (s *reservationService) CreateReservation(ctx context.Context, req CreateReservationRequest) (*domain.Reservation, error) {
	logger.EnterMethod("reservationService.CreateReservation", "userID", req.UserID, "deviceID", req.DeviceID, "date", req.Date)

	staff, err := s.checkBooker(ctx, req)
	if err != nil {
		logger.ExitMethodWithError("reservationService.CreateReservation", err, "userID", req.UserID)
		return nil, err
	}
	if err := s.checkBookable(ctx, req.DeviceID, req.TimeSlot); err != nil {
		logger.ExitMethodWithError("reservationService.CreateReservation", err, "deviceID", req.DeviceID)
		return nil, err
	}

	var created domain.Reservation
	for attempt := 0; attempt < reservationNumberAttempts; attempt++ {
		created, err = s.createOnce(ctx, req, staff)
		if !errors.Is(err, repository.ErrDuplicateNumber) {
			break
		}
		logger.Warn("Reservation number collision, retrying", "attempt", attempt+1, "date", req.Date)
	}
	if err != nil {
		err = storeError(err, msgReservationNotFound)
		logger.ExitMethodWithError("reservationService.CreateReservation", err, "deviceID", req.DeviceID)
		return nil, err
	}

	logger.ExitMethod("reservationService.CreateReservation", "reservationID", created.ID, "number", created.ReservationNumber, "status", created.Status)
	return &created, nil
}

func (s *reservationService) createOnce(ctx context.Context, req CreateReservationRequest, staff bool) (domain.Reservation, error) {
	now := s.policy.now()
	r, err := domain.NewReservation(domain.NewReservationParams{
		ID:                uuid.NewString(),
		UserID:            req.UserID,
		DeviceID:          req.DeviceID,
		Date:              req.Date,
		TimeSlot:          req.TimeSlot,
		ReservationNumber: domain.FormatReservationNumber(req.Date, int(uuid.New().ID()%10000)),
		Note:              req.Note,
	}, s.policy.location(), now)
	if err != nil {
		return domain.Reservation{}, err
	}
	if err := s.checkBookingWindow(r.StartAt, staff, now); err != nil {
		return domain.Reservation{}, err
	}
	if req.AutoApprove {
		if r, err = r.Approve(req.AssignedDeviceNumber, now); err != nil {
			return domain.Reservation{}, err
		}
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.ensureNoConflict(ctx, r); err != nil {
			return err
		}
		if err := s.ensureUserLimits(ctx, r, now); err != nil {
			return err
		}
		return s.reservations.Create(ctx, &r)
	})
	return r, err
}

// checkBooker verifies the booking user may reserve and reports whether the
// request is a staff booking.
func (s *reservationService) checkBooker(ctx context.Context, req CreateReservationRequest) (bool, error) {
	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		return false, storeError(err, msgUserNotFound)
	}
	if !user.CanReserve(s.policy.now()) {
		return false, domain.InvalidState("활성 상태가 아닌 사용자는 예약할 수 없습니다")
	}
	if req.AutoApprove {
		return true, nil
	}
	return s.isStaff(ctx, req.ActorID)
}

func (s *reservationService) isStaff(ctx context.Context, actorID string) (bool, error) {
	if actorID == "" {
		return false, nil
	}
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return false, storeError(err, msgUserNotFound)
	}
	return actor.IsAdmin() && actor.IsActive(s.policy.now()), nil
}

func (s *reservationService) checkBookingWindow(start time.Time, staff bool, now time.Time) error {
	if lead := s.policy.BookingLeadTime; lead > 0 && !staff && start.Before(now.Add(lead)) {
		return domain.ValidationError(fmt.Sprintf("예약은 시작 시간 %d시간 전까지만 가능합니다", int(lead.Hours())))
	}
	if horizon := s.policy.BookingHorizon; horizon > 0 && start.After(now.Add(horizon)) {
		return domain.ValidationError(fmt.Sprintf("예약은 최대 %d일 후까지만 가능합니다", int(horizon.Hours()/24)))
	}
	return nil
}

// ensureUserLimits enforces one device per user per slot and the cap on
// open reservations that start in the future.
func (s *reservationService) ensureUserLimits(ctx context.Context, r domain.Reservation, now time.Time) error {
	open, err := s.reservations.FindActiveByUserID(ctx, r.UserID)
	if err != nil {
		return err
	}
	upcoming := 0
	for _, other := range open {
		if other.ID == r.ID {
			continue
		}
		if other.DeviceID != r.DeviceID && domain.Overlaps(other.StartAt, other.EndAt, r.StartAt, r.EndAt) {
			logger.Info("User slot conflict detected", "userID", r.UserID, "conflictWith", other.ID)
			return domain.SlotConflict("동일 시간대에 이미 다른 기기를 예약하셨습니다")
		}
		if other.StartAt.After(now) {
			upcoming++
		}
	}
	if limit := s.policy.MaxActiveReservations; limit > 0 && upcoming >= limit {
		return domain.InvalidState(fmt.Sprintf("동시에 예약 가능한 최대 개수(%d개)를 초과했습니다", limit))
	}
	return nil
}

// checkBookable verifies the device is in service and the slot length is
// within the device type's bounds.
func (s *reservationService) checkBookable(ctx context.Context, deviceID string, slot domain.TimeSlot) error {
	device, err := s.devices.FindByID(ctx, deviceID)
	if err != nil {
		return storeError(err, msgDeviceNotFound)
	}
	if !device.IsOperational() {
		return domain.DeviceUnavailable("사용할 수 없는 기기입니다")
	}
	dt, err := s.deviceTypes.FindByID(ctx, device.DeviceTypeID)
	if err != nil {
		return storeError(err, msgDeviceTypeNotFound)
	}
	if !dt.AllowsHours(slot.Hours()) {
		return domain.ValidationError(fmt.Sprintf("예약 시간은 %d시간에서 %d시간 사이여야 합니다",
			dt.MinReservationHours, dt.MaxReservationHours))
	}
	return nil
}

func (s *reservationService) ensureNoConflict(ctx context.Context, r domain.Reservation) error {
	conflicts, err := s.reservations.FindConflicting(ctx, r.DeviceID, r.StartAt, r.EndAt, r.ID)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		logger.Info("Slot conflict detected", "deviceID", r.DeviceID, "conflictWith", conflicts[0].ID)
		return domain.SlotConflict(msgSlotConflict)
	}
	return nil
}

func (s *reservationService) GetReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	r, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, msgReservationNotFound)
	}
	return r, nil
}

func (s *reservationService) ListDeviceReservations(ctx context.Context, deviceID string) ([]domain.Reservation, error) {
	list, err := s.reservations.FindByDeviceID(ctx, deviceID)
	if err != nil {
		return nil, storeError(err, msgDeviceNotFound)
	}
	return list, nil
}

// update loads a reservation, applies change and persists the result in one
// transaction. When recheck is set the new slot is checked for conflicts.
func (s *reservationService) update(ctx context.Context, method, id string, recheck bool, change func(context.Context, domain.Reservation) (domain.Reservation, error)) (*domain.Reservation, error) {
	logger.EnterMethod(method, "reservationID", id)

	var before, updated domain.Reservation
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.reservations.FindByID(ctx, id)
		if err != nil {
			return err
		}
		before = *current
		if updated, err = change(ctx, *current); err != nil {
			return err
		}
		if recheck {
			if err := s.ensureNoConflict(ctx, updated); err != nil {
				return err
			}
		}
		return s.reservations.Update(ctx, &updated)
	})
	if err != nil {
		err = storeError(err, msgReservationNotFound)
		logger.ExitMethodWithError(method, err, "reservationID", id)
		return nil, err
	}

	if before.Status != updated.Status {
		logger.StatusChange("reservation", id, before.Status, updated.Status, "number", updated.ReservationNumber)
	}
	logger.ExitMethod(method, "reservationID", id, "status", updated.Status)
	return &updated, nil
}

// UpdateReservationSlot moves a reservation. Members cannot edit within the
// booking lead time of the current start.
func (s *reservationService) UpdateReservationSlot(ctx context.Context, actorID, id, date string, slot domain.TimeSlot) (*domain.Reservation, error) {
	current, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, msgReservationNotFound)
	}
	if err := s.checkBookable(ctx, current.DeviceID, slot); err != nil {
		return nil, err
	}
	staff, err := s.isStaff(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, "reservationService.UpdateReservationSlot", id, true, func(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
		now := s.policy.now()
		if lead := s.policy.BookingLeadTime; lead > 0 && !staff && r.StartAt.Before(now.Add(lead)) {
			return domain.Reservation{}, domain.InvalidState(fmt.Sprintf("예약 시작 %d시간 전에는 수정할 수 없습니다", int(lead.Hours())))
		}
		moved, err := r.Reschedule(date, slot, s.policy.location(), now)
		if err != nil {
			return domain.Reservation{}, err
		}
		if err := s.checkBookingWindow(moved.StartAt, staff, now); err != nil {
			return domain.Reservation{}, err
		}
		if err := s.ensureUserLimits(ctx, moved, now); err != nil {
			return domain.Reservation{}, err
		}
		return moved, nil
	})
}

func (s *reservationService) ApproveReservation(ctx context.Context, id, deviceNumber string) (*domain.Reservation, error) {
	return s.update(ctx, "reservationService.ApproveReservation", id, true, func(_ context.Context, r domain.Reservation) (domain.Reservation, error) {
		return r.Approve(deviceNumber, s.policy.now())
	})
}

func (s *reservationService) RejectReservation(ctx context.Context, id, reason string) (*domain.Reservation, error) {
	return s.update(ctx, "reservationService.RejectReservation", id, false, func(_ context.Context, r domain.Reservation) (domain.Reservation, error) {
		return r.Reject(reason, s.policy.now())
	})
}

func (s *reservationService) CancelReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.update(ctx, "reservationService.CancelReservation", id, false, func(_ context.Context, r domain.Reservation) (domain.Reservation, error) {
		return r.Cancel(s.policy.now())
	})
}

func (s *reservationService) MarkNoShow(ctx context.Context, actorID, reservationID string) (*domain.Reservation, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, storeError(err, msgUserNotFound)
	}
	if !actor.IsAdmin() || !actor.IsActive(s.policy.now()) {
		return nil, domain.AccessDenied("관리자 권한이 없습니다", domain.RoleAdmin)
	}

	return s.update(ctx, "reservationService.MarkNoShow", reservationID, false, func(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
		if err := s.ensureNoShowAllowed(ctx, r, s.policy.NoShowGrace); err != nil {
			return domain.Reservation{}, err
		}
		return r.MarkNoShow(s.policy.now())
	})
}

func (s *reservationService) ensureNoShowAllowed(ctx context.Context, r domain.Reservation, grace time.Duration) error {
	if r.Status != domain.ReservationStatusApproved {
		return domain.InvalidState("승인된 예약만 노쇼 처리할 수 있습니다")
	}
	ci, err := s.checkIns.FindByReservationID(ctx, r.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if ci != nil && ci.Status != domain.CheckInStatusCancelled {
		return domain.InvalidState("이미 체크인된 예약은 노쇼 처리할 수 없습니다")
	}
	if s.policy.now().Before(r.StartAt.Add(grace)) {
		return domain.InvalidState(fmt.Sprintf("예약 시작 시간 %d분 후부터 노쇼 처리가 가능합니다", int(grace.Minutes())))
	}
	return nil
}

// ProcessAutoNoShow marks every approved reservation whose start passed
// AutoNoShowAfter ago without a check-in. Failures on single reservations
// are logged and skipped.
func (s *reservationService) ProcessAutoNoShow(ctx context.Context) (int, error) {
	logger.EnterMethod("reservationService.ProcessAutoNoShow")

	cutoff := s.policy.now().Add(-s.policy.AutoNoShowAfter)
	candidates, err := s.reservations.FindApprovedStartedBefore(ctx, cutoff)
	if err != nil {
		logger.ExitMethodWithError("reservationService.ProcessAutoNoShow", err)
		return 0, fmt.Errorf("find approved reservations: %w", err)
	}

	marked := 0
	for _, c := range candidates {
		_, err := s.update(ctx, "reservationService.autoNoShow", c.ID, false, func(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
			if err := s.ensureNoShowAllowed(ctx, r, s.policy.AutoNoShowAfter); err != nil {
				return domain.Reservation{}, err
			}
			return r.MarkNoShow(s.policy.now())
		})
		if err != nil {
			logger.Warn("Auto no-show skipped", "reservationID", c.ID, "error", err)
			continue
		}
		marked++
	}

	logger.ExitMethod("reservationService.ProcessAutoNoShow", "candidates", len(candidates), "marked", marked)
	return marked, nil
}
