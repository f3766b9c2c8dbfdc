package grpc

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"gameplaza-backend/internal/domain"
	"gameplaza-backend/internal/service"
)

type ReservationHandler struct {
	guard
	reservationSvc service.ReservationService
}

func NewReservationHandler(reservationSvc service.ReservationService, accountSvc service.AccountService, authz service.AuthorizationService) *ReservationHandler {
	return &ReservationHandler{
		guard:          guard{accounts: accountSvc, authz: authz},
		reservationSvc: reservationSvc,
	}
}

func reservationResponse(r *domain.Reservation) (*structpb.Struct, error) {
	return toStruct(map[string]any{"reservation": MapReservation(r)})
}

// owned loads the reservation and checks the caller may perform action on it.
// It returns the caller alongside the reservation.
func (h *ReservationHandler) owned(ctx context.Context, id string, action domain.Action) (*domain.User, *domain.Reservation, error) {
	actor, err := h.actor(ctx)
	if err != nil {
		return nil, nil, err
	}
	r, err := h.reservationSvc.GetReservation(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !h.authz.CanManageReservation(*actor, r.UserID, action) {
		return nil, nil, domain.AccessDenied(h.authz.AccessDeniedMessage(domain.ResourceReservation, action), "")
	}
	return actor, r, nil
}

func (h *ReservationHandler) CreateReservation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p := paramsOf(req)
	in := service.CreateReservationRequest{
		UserID:               p.String("user_id", false),
		DeviceID:             p.String("device_id", true),
		Date:                 p.String("date", true),
		TimeSlot:             domain.TimeSlot{StartHour: p.Int("start_hour", true), EndHour: p.Int("end_hour", true)},
		Note:                 p.String("note", false),
		AutoApprove:          p.Bool("auto_approve"),
		AssignedDeviceNumber: p.String("assigned_device_number", false),
	}
	if err := p.Err(); err != nil {
		return nil, err
	}

	actor, err := h.actor(ctx)
	if err != nil {
		return nil, err
	}
	in.ActorID = actor.ID
	if in.UserID == "" {
		in.UserID = actor.ID
	}
	if err := h.authz.Authorize(*actor, domain.ResourceReservation, domain.ActionCreate, in.UserID); err != nil {
		return nil, err
	}
	// booking for someone else or skipping approval is a staff action
	if in.UserID != actor.ID || in.AutoApprove {
		if err := h.authz.Authorize(*actor, domain.ResourceReservation, domain.ActionApprove, ""); err != nil {
			return nil, err
		}
	}

	r, err := h.reservationSvc.CreateReservation(ctx, in)
	if err != nil {
		return nil, err
	}
	return reservationResponse(r)
}

func (h *ReservationHandler) GetReservation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p := paramsOf(req)
	id := p.String("reservation_id", true)
	if err := p.Err(); err != nil {
		return nil, err
	}
	_, r, err := h.owned(ctx, id, domain.ActionRead)
	if err != nil {
		return nil, err
	}
	return reservationResponse(r)
}

func (h *ReservationHandler) ListDeviceReservations(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p := paramsOf(req)
	deviceID := p.String("device_id", true)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if _, err := h.staff(ctx); err != nil {
		return nil, err
	}
	list, err := h.reservationSvc.ListDeviceReservations(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return toStruct(map[string]any{"reservations": MapReservations(list), "total_count": len(list)})
}

func (h *ReservationHandler) UpdateReservationSlot(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p := paramsOf(req)
	id := p.String("reservation_id", true)
	date := p.String("date", true)
	slot := domain.TimeSlot{StartHour: p.Int("start_hour", true), EndHour: p.Int("end_hour", true)}
	if err := p.Err(); err != nil {
		return nil, err
	}
	actor, _, err := h.owned(ctx, id, domain.ActionUpdate)
	if err != nil {
		return nil, err
	}
	r, err := h.reservationSvc.UpdateReservationSlot(ctx, actor.ID, id, date, slot)
	if err != nil {
		return nil, err
	}
	return reservationResponse(r)
}

func (h *ReservationHandler) ApproveReservation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p := paramsOf(req)
	id := p.String("reservation_id", true)
	deviceNumber := p.String("assigned_device_number", false)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if _, err := h.authorize(ctx, domain.ResourceReservation, domain.ActionApprove, ""); err != nil {
		return nil, err
	}
	r, err := h.reservationSvc.ApproveReservation(ctx, id, deviceNumber)
	if err != nil {
		return nil, err
	}
	return reservationResponse(r)
}

func (h *ReservationHandler) RejectReservation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p := paramsOf(req)
	id := p.String("reservation_id", true)
	reason := p.String("reason", false)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if _, err := h.authorize(ctx, domain.ResourceReservation, domain.ActionReject, ""); err != nil {
		return nil, err
	}
	r, err := h.reservationSvc.RejectReservation(ctx, id, reason)
	if err != nil {
		return nil, err
	}
	return reservationResponse(r)
}

func (h *ReservationHandler) CancelReservation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p := paramsOf(req)
	id := p.String("reservation_id", true)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if _, _, err := h.owned(ctx, id, domain.ActionDelete); err != nil {
		return nil, err
	}
	r, err := h.reservationSvc.CancelReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	return reservationResponse(r)
}

func (h *ReservationHandler) MarkNoShow(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p := paramsOf(req)
	id := p.String("reservation_id", true)
	if err := p.Err(); err != nil {
		return nil, err
	}
	actorID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	r, err := h.reservationSvc.MarkNoShow(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	return reservationResponse(r)
}

// ProcessAutoNoShow is reachable with a service token only.
func (h *ReservationHandler) ProcessAutoNoShow(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	n, err := h.reservationSvc.ProcessAutoNoShow(ctx)
	if err != nil {
		return nil, err
	}
	return toStruct(map[string]any{"marked": n})
}
