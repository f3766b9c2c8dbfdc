package domain

import "time"

type CheckInStatus string

const (
	CheckInStatusCheckedIn CheckInStatus = "CHECKED_IN"
	CheckInStatusInUse     CheckInStatus = "IN_USE"
	CheckInStatusCompleted CheckInStatus = "COMPLETED"
	CheckInStatusCancelled CheckInStatus = "CANCELLED"
)

// ActiveCheckInStatuses are the non-terminal states; at most one check-in
// per reservation and per device may be in one of them.
var ActiveCheckInStatuses = []CheckInStatus{CheckInStatusCheckedIn, CheckInStatusInUse}

func ParseCheckInStatus(s string) (CheckInStatus, error) {
	switch CheckInStatus(s) {
	case CheckInStatusCheckedIn, CheckInStatusInUse, CheckInStatusCompleted, CheckInStatusCancelled:
		return CheckInStatus(s), nil
	}
	return "", ValidationError("Invalid check-in status: " + s)
}

func (s CheckInStatus) IsActive() bool {
	return s == CheckInStatusCheckedIn || s == CheckInStatusInUse
}

func (s CheckInStatus) DisplayName() string {
	switch s {
	case CheckInStatusCheckedIn:
		return "체크인"
	case CheckInStatusInUse:
		return "사용중"
	case CheckInStatusCompleted:
		return "완료"
	case CheckInStatusCancelled:
		return "취소"
	}
	return string(s)
}

// CheckIn is the on-site session for a reservation. Methods return an
// updated copy; the receiver is never modified.
type CheckIn struct {
	ID               string        `json:"id"`
	ReservationID    string        `json:"reservation_id"`
	DeviceID         string        `json:"device_id"`
	CheckInTime      time.Time     `json:"check_in_time"`
	CheckOutTime     *time.Time    `json:"check_out_time,omitempty"`
	Status           CheckInStatus `json:"status"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	PaymentMethod    PaymentMethod `json:"payment_method,omitempty"`
	PaymentAmount    int64         `json:"payment_amount"`
	AdjustedAmount   *int64        `json:"adjusted_amount,omitempty"`
	AdjustmentReason string        `json:"adjustment_reason,omitempty"`
	ActualStartTime  *time.Time    `json:"actual_start_time,omitempty"`
	ActualEndTime    *time.Time    `json:"actual_end_time,omitempty"`
	Notes            string        `json:"notes,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func NewCheckIn(id, reservationID, deviceID string, paymentAmount int64, now time.Time) (CheckIn, error) {
	if paymentAmount < 0 {
		return CheckIn{}, InvalidAmount("금액은 0원 이상이어야 합니다")
	}
	return CheckIn{
		ID:            id,
		ReservationID: reservationID,
		DeviceID:      deviceID,
		CheckInTime:   now,
		Status:        CheckInStatusCheckedIn,
		PaymentStatus: PaymentStatusPending,
		PaymentAmount: paymentAmount,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (c CheckIn) IsActive() bool {
	return c.Status.IsActive()
}

func (c CheckIn) IsWaitingPayment() bool {
	return c.Status == CheckInStatusCheckedIn && c.PaymentStatus == PaymentStatusPending
}

// FinalAmount is the adjusted amount when present, else the billed amount.
func (c CheckIn) FinalAmount() int64 {
	if c.AdjustedAmount != nil {
		return *c.AdjustedAmount
	}
	return c.PaymentAmount
}

// ActualDuration is the measured usage in whole minutes.
func (c CheckIn) ActualDuration() (int, bool) {
	if c.ActualStartTime == nil || c.ActualEndTime == nil {
		return 0, false
	}
	return int(c.ActualEndTime.Sub(*c.ActualStartTime) / time.Minute), true
}

func (c CheckIn) ConfirmPayment(method PaymentMethod, now time.Time) (CheckIn, error) {
	if c.Status != CheckInStatusCheckedIn {
		return CheckIn{}, InvalidState("체크인 상태에서만 결제를 확인할 수 있습니다")
	}
	if c.PaymentStatus != PaymentStatusPending {
		return CheckIn{}, InvalidState("이미 결제가 완료된 체크인입니다")
	}
	if _, err := ParsePaymentMethod(string(method)); err != nil {
		return CheckIn{}, err
	}
	next := c
	next.PaymentMethod = method
	next.PaymentStatus = PaymentStatusCompleted
	next.Status = CheckInStatusInUse
	next.ActualStartTime = &now
	// usage starts now, so an end adjusted before payment no longer fits
	if next.ActualEndTime != nil && next.ActualEndTime.Before(now) {
		next.ActualEndTime = nil
	}
	next.UpdatedAt = now
	return next, nil
}

// AdjustTime overrides the recorded usage window. Nil leaves a bound as is.
func (c CheckIn) AdjustTime(start, end *time.Time, now time.Time) (CheckIn, error) {
	if !c.IsActive() {
		return CheckIn{}, InvalidState("활성 상태의 체크인만 시간을 조정할 수 있습니다")
	}
	next := c
	if start != nil {
		s := *start
		next.ActualStartTime = &s
	}
	if end != nil {
		e := *end
		next.ActualEndTime = &e
	}
	if next.ActualStartTime != nil && next.ActualEndTime != nil && next.ActualEndTime.Before(*next.ActualStartTime) {
		return CheckIn{}, ValidationError("종료 시간은 시작 시간 이후여야 합니다")
	}
	next.UpdatedAt = now
	return next, nil
}

func (c CheckIn) AdjustAmount(amount int64, reason string, now time.Time) (CheckIn, error) {
	if !c.IsActive() {
		return CheckIn{}, InvalidState("활성 상태의 체크인만 금액을 조정할 수 있습니다")
	}
	if amount < 0 {
		return CheckIn{}, InvalidAmount("금액은 0원 이상이어야 합니다")
	}
	if reason == "" {
		return CheckIn{}, ReasonRequired("조정 사유를 입력해주세요")
	}
	next := c
	next.AdjustedAmount = &amount
	next.AdjustmentReason = reason
	next.UpdatedAt = now
	return next, nil
}

// CheckOut closes an in-use session. An end time set by an earlier
// adjustment is kept unless it precedes the start; otherwise the session
// ends now.
func (c CheckIn) CheckOut(now time.Time) (CheckIn, error) {
	if c.PaymentStatus != PaymentStatusCompleted {
		return CheckIn{}, InvalidState("결제가 완료되지 않은 체크인은 체크아웃할 수 없습니다")
	}
	if c.Status != CheckInStatusInUse {
		return CheckIn{}, InvalidState("사용중 상태에서만 체크아웃할 수 있습니다")
	}
	next := c
	next.CheckOutTime = &now
	if next.ActualEndTime == nil || (next.ActualStartTime != nil && next.ActualEndTime.Before(*next.ActualStartTime)) {
		next.ActualEndTime = &now
	}
	next.Status = CheckInStatusCompleted
	next.UpdatedAt = now
	return next, nil
}

func (c CheckIn) WithNotes(notes string, now time.Time) CheckIn {
	next := c
	next.Notes = notes
	next.UpdatedAt = now
	return next
}
