package grpc

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"gameplaza-backend/internal/domain"
	"gameplaza-backend/internal/service"
)

// CheckInHandler serves front-desk operations. Every method requires staff.
type CheckInHandler struct {
	guard
	checkInSvc service.CheckInService
}

func NewCheckInHandler(checkInSvc service.CheckInService, accountSvc service.AccountService, authz service.AuthorizationService) *CheckInHandler {
	return &CheckInHandler{
		guard:      guard{accounts: accountSvc, authz: authz},
		checkInSvc: checkInSvc,
	}
}

func checkInResponse(res *service.CheckInResult) (*structpb.Struct, error) {
	return toStruct(map[string]any{
		"check_in": MapCheckIn(res.CheckIn),
		"message":  res.Message,
	})
}

func (h *CheckInHandler) ProcessCheckIn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p := paramsOf(req)
	reservationID := p.String("reservation_id", true)
	deviceID := p.String("device_id", true)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if _, err := h.staff(ctx); err != nil {
		return nil, err
	}
	res, err := h.checkInSvc.ProcessCheckIn(ctx, reservationID, deviceID)
	if err != nil {
		return nil, err
	}
	return checkInResponse(res)
}

func (h *CheckInHandler) ConfirmPayment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p := paramsOf(req)
	id := p.String("check_in_id", true)
	method := p.String("payment_method", true)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if _, err := h.staff(ctx); err != nil {
		return nil, err
	}
	res, err := h.checkInSvc.ConfirmPayment(ctx, id, domain.PaymentMethod(method))
	if err != nil {
		return nil, err
	}
	return checkInResponse(res)
}

func (h *CheckInHandler) AdjustTimeAndAmount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p := paramsOf(req)
	in := service.AdjustRequest{
		CheckInID:        p.String("check_in_id", true),
		ActualStartTime:  p.Time("actual_start_time", false),
		ActualEndTime:    p.Time("actual_end_time", false),
		AdjustedAmount:   p.OptInt64("adjusted_amount"),
		AdjustmentReason: p.String("adjustment_reason", false),
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	if _, err := h.staff(ctx); err != nil {
		return nil, err
	}
	res, err := h.checkInSvc.AdjustTimeAndAmount(ctx, in)
	if err != nil {
		return nil, err
	}
	return checkInResponse(res)
}

func (h *CheckInHandler) ProcessCheckOut(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p := paramsOf(req)
	id := p.String("check_in_id", true)
	notes := p.String("notes", false)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if _, err := h.staff(ctx); err != nil {
		return nil, err
	}
	res, err := h.checkInSvc.ProcessCheckOut(ctx, id, notes)
	if err != nil {
		return nil, err
	}
	return toStruct(map[string]any{
		"check_in": MapCheckIn(res.CheckIn),
		"summary": map[string]any{
			"total_time":     res.Summary.TotalTime,
			"total_minutes":  res.Summary.TotalMinutes,
			"final_amount":   res.Summary.FinalAmount,
			"payment_method": res.Summary.PaymentMethod,
		},
		"message": res.Message,
	})
}

func (h *CheckInHandler) GetCheckInDetails(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p := paramsOf(req)
	id := p.String("check_in_id", true)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if _, err := h.staff(ctx); err != nil {
		return nil, err
	}
	d, err := h.checkInSvc.GetCheckInDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	return toStruct(MapCheckInDetails(*d))
}

func (h *CheckInHandler) GetActiveCheckIns(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p := paramsOf(req)
	filter := service.ActiveCheckInFilter{
		DeviceID:              p.String("device_id", false),
		ExcludeWaitingPayment: p.Bool("exclude_waiting_payment"),
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	if _, err := h.staff(ctx); err != nil {
		return nil, err
	}
	list, err := h.checkInSvc.GetActiveCheckIns(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toStruct(map[string]any{"check_ins": MapCheckInDetailsList(list), "total_count": len(list)})
}

func (h *CheckInHandler) GetCheckInsByDateRange(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p := paramsOf(req)
	start := p.Time("start", true)
	end := p.Time("end", true)
	withStats := p.Bool("include_statistics")
	if err := p.Err(); err != nil {
		return nil, err
	}
	if _, err := h.staff(ctx); err != nil {
		return nil, err
	}
	res, err := h.checkInSvc.GetCheckInsByDateRange(ctx, *start, *end, withStats)
	if err != nil {
		return nil, err
	}
	out := map[string]any{
		"check_ins":   MapCheckInDetailsList(res.CheckIns),
		"total_count": res.TotalCount,
	}
	if res.Statistics != nil {
		out["statistics"] = MapStatistics(res.Statistics)
	}
	return toStruct(out)
}

func (h *CheckInHandler) ListPendingPayments(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if _, err := h.staff(ctx); err != nil {
		return nil, err
	}
	list, err := h.checkInSvc.ListPendingPayments(ctx)
	if err != nil {
		return nil, err
	}
	return toStruct(map[string]any{"check_ins": MapCheckIns(list), "total_count": len(list)})
}
