package service

import (
	"context"
	"time"

	"gameplaza-backend/internal/domain"
)

type ReservationService interface {
	CreateReservation(ctx context.Context, req CreateReservationRequest) (*domain.Reservation, error)
	GetReservation(ctx context.Context, id string) (*domain.Reservation, error)
	ListDeviceReservations(ctx context.Context, deviceID string) ([]domain.Reservation, error)
	UpdateReservationSlot(ctx context.Context, actorID, id, date string, slot domain.TimeSlot) (*domain.Reservation, error)
	ApproveReservation(ctx context.Context, id, deviceNumber string) (*domain.Reservation, error)
	RejectReservation(ctx context.Context, id, reason string) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, id string) (*domain.Reservation, error)
	MarkNoShow(ctx context.Context, actorID, reservationID string) (*domain.Reservation, error)
	ProcessAutoNoShow(ctx context.Context) (int, error)
}

type CheckInService interface {
	ProcessCheckIn(ctx context.Context, reservationID, deviceID string) (*CheckInResult, error)
	ConfirmPayment(ctx context.Context, checkInID string, method domain.PaymentMethod) (*CheckInResult, error)
	AdjustTimeAndAmount(ctx context.Context, req AdjustRequest) (*CheckInResult, error)
	ProcessCheckOut(ctx context.Context, checkInID, notes string) (*CheckOutResult, error)
	GetCheckInDetails(ctx context.Context, checkInID string) (*CheckInDetails, error)
	GetActiveCheckIns(ctx context.Context, filter ActiveCheckInFilter) ([]CheckInDetails, error)
	GetCheckInsByDateRange(ctx context.Context, start, end time.Time, includeStatistics bool) (*DateRangeResult, error)
	ListPendingPayments(ctx context.Context) ([]domain.CheckIn, error)
}

type AccountService interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	SuspendUser(ctx context.Context, actorID, targetID string, until time.Time, reason string) (*domain.User, error)
	BanUser(ctx context.Context, actorID, targetID, reason string) (*domain.User, error)
	ActivateUser(ctx context.Context, actorID, targetID string) (*domain.User, error)
	ChangeRole(ctx context.Context, actorID, targetID string, role domain.Role) (*domain.User, error)
	RecordLoginAttempt(ctx context.Context, userID string, success bool) (*domain.User, error)
}

type AuthorizationService interface {
	CanPerformAction(user domain.User, resource domain.Resource, action domain.Action) bool
	IsResourceOwner(user domain.User, ownerID string) bool
	CanAccessResource(user domain.User, resource domain.Resource, action domain.Action, ownerID string) bool
	RequiresAdminRole(resource domain.Resource, action domain.Action) bool
	CheckRoleBasedAccess(userRole, requiredRole domain.Role) bool
	CanManageReservation(user domain.User, reservationOwnerID string, action domain.Action) bool
	CanManageUser(user domain.User, targetUserID string, action domain.Action) bool
	AccessDeniedMessage(resource domain.Resource, action domain.Action) string
	ValidateAccess(user domain.User, resource domain.Resource, action domain.Action, ownerID string) AccessResult
	Authorize(user domain.User, resource domain.Resource, action domain.Action, ownerID string) error
}

// VenuePolicy carries the venue's operating rules and clock. A zero booking
// rule is not enforced.
type VenuePolicy struct {
	Location *time.Location
	// CheckInEarlyBy is how long before the slot start arrival is accepted.
	CheckInEarlyBy time.Duration
	// NoShowGrace is the delay after start before staff may mark a no-show.
	NoShowGrace time.Duration
	// AutoNoShowAfter is the delay after start before the job marks a no-show.
	AutoNoShowAfter time.Duration
	// BookingLeadTime is how long before the start members must book, and
	// after which they can no longer move a reservation. Staff skip it.
	BookingLeadTime time.Duration
	// BookingHorizon is how far ahead a reservation may start.
	BookingHorizon time.Duration
	// MaxActiveReservations caps a user's open upcoming reservations.
	MaxActiveReservations int
	Now                   func() time.Time
}

func DefaultVenuePolicy() VenuePolicy {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		loc = time.FixedZone("KST", 9*60*60)
	}
	return VenuePolicy{
		Location:              loc,
		CheckInEarlyBy:        time.Hour,
		NoShowGrace:           30 * time.Minute,
		AutoNoShowAfter:       time.Hour,
		BookingLeadTime:       24 * time.Hour,
		BookingHorizon:        21 * 24 * time.Hour,
		MaxActiveReservations: 3,
		Now:                   time.Now,
	}
}

func (p VenuePolicy) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p VenuePolicy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}
