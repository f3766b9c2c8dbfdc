package grpc

import (
	"time"

	"gameplaza-backend/internal/domain"
	"gameplaza-backend/internal/service"
)

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func putTime(m map[string]any, key string, t *time.Time) {
	if t != nil {
		m[key] = formatTime(*t)
	}
}

func putString(m map[string]any, key, s string) {
	if s != "" {
		m[key] = s
	}
}

func MapReservation(r *domain.Reservation) map[string]any {
	if r == nil {
		return nil
	}
	m := map[string]any{
		"id":                 r.ID,
		"user_id":            r.UserID,
		"device_id":          r.DeviceID,
		"date":               r.Date,
		"start_hour":         r.TimeSlot.StartHour,
		"end_hour":           r.TimeSlot.EndHour,
		"start_at":           formatTime(r.StartAt),
		"end_at":             formatTime(r.EndAt),
		"status":             string(r.Status),
		"status_name":        r.Status.DisplayName(),
		"reservation_number": r.ReservationNumber,
		"created_at":         formatTime(r.CreatedAt),
		"updated_at":         formatTime(r.UpdatedAt),
	}
	putString(m, "assigned_device_number", r.AssignedDeviceNumber)
	putString(m, "rejection_reason", r.RejectionReason)
	putString(m, "note", r.Note)
	putTime(m, "checked_in_at", r.CheckedInAt)
	return m
}

func MapReservations(list []domain.Reservation) []any {
	out := make([]any, 0, len(list))
	for i := range list {
		out = append(out, MapReservation(&list[i]))
	}
	return out
}

func MapCheckIn(c domain.CheckIn) map[string]any {
	m := map[string]any{
		"id":             c.ID,
		"reservation_id": c.ReservationID,
		"device_id":      c.DeviceID,
		"check_in_time":  formatTime(c.CheckInTime),
		"status":         string(c.Status),
		"status_name":    c.Status.DisplayName(),
		"payment_status": string(c.PaymentStatus),
		"payment_amount": c.PaymentAmount,
		"final_amount":   c.FinalAmount(),
		"created_at":     formatTime(c.CreatedAt),
		"updated_at":     formatTime(c.UpdatedAt),
	}
	if c.PaymentMethod != "" {
		m["payment_method"] = string(c.PaymentMethod)
	}
	if c.AdjustedAmount != nil {
		m["adjusted_amount"] = *c.AdjustedAmount
	}
	putString(m, "adjustment_reason", c.AdjustmentReason)
	putString(m, "notes", c.Notes)
	putTime(m, "check_out_time", c.CheckOutTime)
	putTime(m, "actual_start_time", c.ActualStartTime)
	putTime(m, "actual_end_time", c.ActualEndTime)
	return m
}

func MapCheckIns(list []domain.CheckIn) []any {
	out := make([]any, 0, len(list))
	for _, c := range list {
		out = append(out, MapCheckIn(c))
	}
	return out
}

func MapUser(u *domain.User) map[string]any {
	if u == nil {
		return nil
	}
	m := map[string]any{
		"id":             u.ID,
		"email":          u.Email,
		"full_name":      u.FullName,
		"role":           string(u.Role),
		"role_name":      u.Role.DisplayName(),
		"status":         string(u.Status),
		"login_attempts": u.LoginAttempts,
		"created_at":     formatTime(u.CreatedAt),
		"updated_at":     formatTime(u.UpdatedAt),
	}
	putString(m, "phone", u.Phone)
	putString(m, "suspended_reason", u.SuspendedReason)
	putString(m, "banned_reason", u.BannedReason)
	putTime(m, "suspended_until", u.SuspendedUntil)
	putTime(m, "last_login_at", u.LastLoginAt)
	return m
}

func MapCheckInDetails(d service.CheckInDetails) map[string]any {
	m := map[string]any{
		"check_in":           MapCheckIn(d.CheckIn),
		"user_name":          d.UserName,
		"device_name":        d.DeviceName,
		"reservation_number": d.ReservationNumber,
	}
	if d.Reservation != nil {
		m["reservation"] = MapReservation(d.Reservation)
	}
	if d.Device != nil {
		m["device"] = map[string]any{
			"id":             d.Device.ID,
			"device_type_id": d.Device.DeviceTypeID,
			"device_number":  d.Device.DeviceNumber,
			"status":         string(d.Device.Status),
		}
	}
	return m
}

func MapCheckInDetailsList(list []service.CheckInDetails) []any {
	out := make([]any, 0, len(list))
	for _, d := range list {
		out = append(out, MapCheckInDetails(d))
	}
	return out
}

func MapStatistics(s *service.CheckInStatistics) map[string]any {
	return map[string]any{
		"total_check_ins":     s.TotalCheckIns,
		"active_check_ins":    s.ActiveCheckIns,
		"completed_check_ins": s.CompletedCheckIns,
		"total_revenue":       s.TotalRevenue,
		"average_usage_time":  s.AverageUsageTime,
	}
}
