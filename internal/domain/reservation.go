package domain

import (
	"fmt"
	"time"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusApproved  ReservationStatus = "approved"
	ReservationStatusRejected  ReservationStatus = "rejected"
	ReservationStatusCheckedIn ReservationStatus = "checked_in"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusNoShow    ReservationStatus = "no_show"
)

// SlotHoldingStatuses block other bookings for the same device and time.
var SlotHoldingStatuses = []ReservationStatus{
	ReservationStatusApproved,
	ReservationStatusCheckedIn,
}

// OpenStatuses are the non-terminal statuses.
var OpenStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusApproved,
	ReservationStatusCheckedIn,
}

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending:   {ReservationStatusApproved, ReservationStatusRejected, ReservationStatusCancelled},
	ReservationStatusApproved:  {ReservationStatusCheckedIn, ReservationStatusCancelled, ReservationStatusNoShow},
	ReservationStatusCheckedIn: {ReservationStatusCompleted},
}

func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch ReservationStatus(s) {
	case ReservationStatusPending, ReservationStatusApproved, ReservationStatusRejected,
		ReservationStatusCheckedIn, ReservationStatusCompleted, ReservationStatusCancelled,
		ReservationStatusNoShow:
		return ReservationStatus(s), nil
	}
	return "", ValidationError("Invalid reservation status: " + s)
}

func (s ReservationStatus) IsTerminal() bool {
	return len(reservationTransitions[s]) == 0
}

func (s ReservationStatus) HoldsSlot() bool {
	for _, h := range SlotHoldingStatuses {
		if s == h {
			return true
		}
	}
	return false
}

func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ReservationStatus) DisplayName() string {
	switch s {
	case ReservationStatusPending:
		return "대기중"
	case ReservationStatusApproved:
		return "승인됨"
	case ReservationStatusRejected:
		return "거절됨"
	case ReservationStatusCheckedIn:
		return "체크인"
	case ReservationStatusCompleted:
		return "완료"
	case ReservationStatusCancelled:
		return "취소됨"
	case ReservationStatusNoShow:
		return "노쇼"
	}
	return string(s)
}

// Reservation is a value type; transitions return an updated copy.
type Reservation struct {
	ID                   string            `json:"id"`
	UserID               string            `json:"user_id"`
	DeviceID             string            `json:"device_id"`
	Date                 string            `json:"date"`
	TimeSlot             TimeSlot          `json:"time_slot"`
	StartAt              time.Time         `json:"start_at"`
	EndAt                time.Time         `json:"end_at"`
	Status               ReservationStatus `json:"status"`
	ReservationNumber    string            `json:"reservation_number"`
	AssignedDeviceNumber string            `json:"assigned_device_number,omitempty"`
	RejectionReason      string            `json:"rejection_reason,omitempty"`
	Note                 string            `json:"note,omitempty"`
	CheckedInAt          *time.Time        `json:"checked_in_at,omitempty"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

type NewReservationParams struct {
	ID                string
	UserID            string
	DeviceID          string
	Date              string
	TimeSlot          TimeSlot
	ReservationNumber string
	Note              string
}

// NewReservation builds a pending reservation with its slot resolved in loc.
func NewReservation(p NewReservationParams, loc *time.Location, now time.Time) (Reservation, error) {
	if p.UserID == "" || p.DeviceID == "" {
		return Reservation{}, ValidationError("사용자와 기기 정보는 필수입니다")
	}
	slot, err := NewTimeSlot(p.TimeSlot.StartHour, p.TimeSlot.EndHour)
	if err != nil {
		return Reservation{}, err
	}
	start, end, err := slot.Interval(p.Date, loc)
	if err != nil {
		return Reservation{}, err
	}
	if start.Before(now) {
		return Reservation{}, ValidationError("과거 시간으로는 예약할 수 없습니다")
	}
	return Reservation{
		ID:                p.ID,
		UserID:            p.UserID,
		DeviceID:          p.DeviceID,
		Date:              p.Date,
		TimeSlot:          slot,
		StartAt:           start,
		EndAt:             end,
		Status:            ReservationStatusPending,
		ReservationNumber: p.ReservationNumber,
		Note:              p.Note,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// FormatReservationNumber renders GP-YYYYMMDD-NNNN.
func FormatReservationNumber(date string, seq int) string {
	compact := date
	if t, err := time.Parse(DateLayout, date); err == nil {
		compact = t.Format("20060102")
	}
	return fmt.Sprintf("GP-%s-%04d", compact, seq%10000)
}

func (r Reservation) DurationHours() int {
	return r.TimeSlot.Hours()
}

func (r Reservation) HoldsSlot() bool {
	return r.Status.HoldsSlot()
}

func (r Reservation) IsTerminal() bool {
	return r.Status.IsTerminal()
}

// ConflictsWith is true when both reservations are on the same device,
// both hold their slot, and their intervals overlap.
func (r Reservation) ConflictsWith(other Reservation) bool {
	if r.ID == other.ID || r.DeviceID != other.DeviceID {
		return false
	}
	if !r.HoldsSlot() || !other.HoldsSlot() {
		return false
	}
	return Overlaps(r.StartAt, r.EndAt, other.StartAt, other.EndAt)
}

func (r Reservation) transition(next ReservationStatus, message string, now time.Time) (Reservation, error) {
	if !r.Status.CanTransitionTo(next) {
		return Reservation{}, InvalidState(message)
	}
	updated := r
	updated.Status = next
	updated.UpdatedAt = now
	return updated, nil
}

// Approve moves a pending reservation to approved. deviceNumber may be
// empty when staff assign the seat later.
func (r Reservation) Approve(deviceNumber string, now time.Time) (Reservation, error) {
	next, err := r.transition(ReservationStatusApproved, "대기 중인 예약만 승인할 수 있습니다", now)
	if err != nil {
		return Reservation{}, err
	}
	if deviceNumber != "" {
		next.AssignedDeviceNumber = deviceNumber
	}
	return next, nil
}

func (r Reservation) Reject(reason string, now time.Time) (Reservation, error) {
	if r.Status != ReservationStatusPending {
		return Reservation{}, InvalidState("대기 중인 예약만 거절할 수 있습니다")
	}
	if reason == "" {
		return Reservation{}, ReasonRequired("거절 사유는 필수입니다")
	}
	next, err := r.transition(ReservationStatusRejected, "대기 중인 예약만 거절할 수 있습니다", now)
	if err != nil {
		return Reservation{}, err
	}
	next.RejectionReason = reason
	return next, nil
}

func (r Reservation) Cancel(now time.Time) (Reservation, error) {
	return r.transition(ReservationStatusCancelled, "대기 또는 승인 상태의 예약만 취소할 수 있습니다", now)
}

func (r Reservation) CheckIn(now time.Time) (Reservation, error) {
	next, err := r.transition(ReservationStatusCheckedIn, "승인된 예약만 체크인할 수 있습니다", now)
	if err != nil {
		return Reservation{}, err
	}
	next.CheckedInAt = &now
	return next, nil
}

func (r Reservation) Complete(now time.Time) (Reservation, error) {
	return r.transition(ReservationStatusCompleted, "체크인된 예약만 완료할 수 있습니다", now)
}

func (r Reservation) MarkNoShow(now time.Time) (Reservation, error) {
	return r.transition(ReservationStatusNoShow, "승인된 예약만 노쇼 처리할 수 있습니다", now)
}

// Reschedule moves a pending or approved reservation to a new slot.
// The reservation number is kept.
func (r Reservation) Reschedule(date string, slot TimeSlot, loc *time.Location, now time.Time) (Reservation, error) {
	if r.Status != ReservationStatusPending && r.Status != ReservationStatusApproved {
		return Reservation{}, InvalidState("현재 상태에서는 시간을 변경할 수 없습니다")
	}
	validated, err := NewTimeSlot(slot.StartHour, slot.EndHour)
	if err != nil {
		return Reservation{}, err
	}
	start, end, err := validated.Interval(date, loc)
	if err != nil {
		return Reservation{}, err
	}
	if start.Before(now) {
		return Reservation{}, ValidationError("과거 시간으로는 예약할 수 없습니다")
	}
	next := r
	next.Date = date
	next.TimeSlot = validated
	next.StartAt = start
	next.EndAt = end
	next.UpdatedAt = now
	return next, nil
}

// CheckInWindow is the span during which arrival is accepted.
func (r Reservation) CheckInWindow(earlyBy time.Duration) (time.Time, time.Time) {
	return r.StartAt.Add(-earlyBy), r.EndAt
}

// EnsureCheckInWindow rejects arrivals before opensAt or after the slot ends.
func (r Reservation) EnsureCheckInWindow(now time.Time, earlyBy time.Duration) error {
	opens, closes := r.CheckInWindow(earlyBy)
	if now.Before(opens) {
		return InvalidState(fmt.Sprintf("체크인은 예약 시작 %d분 전부터 가능합니다", int(earlyBy.Minutes())))
	}
	if !now.Before(closes) {
		return InvalidState("예약 시간이 종료되어 체크인할 수 없습니다")
	}
	return nil
}
