package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type DeviceStatus string

const (
	DeviceStatusAvailable   DeviceStatus = "available"
	DeviceStatusReserved    DeviceStatus = "reserved"
	DeviceStatusInUse       DeviceStatus = "in_use"
	DeviceStatusMaintenance DeviceStatus = "maintenance"
	DeviceStatusBroken      DeviceStatus = "broken"
)

func ParseDeviceStatus(s string) (DeviceStatus, error) {
	switch DeviceStatus(s) {
	case DeviceStatusAvailable, DeviceStatusReserved, DeviceStatusInUse,
		DeviceStatusMaintenance, DeviceStatusBroken:
		return DeviceStatus(s), nil
	}
	return "", ValidationError("Invalid device status: " + s)
}

type Device struct {
	ID           string       `json:"id"`
	DeviceTypeID string       `json:"device_type_id"`
	DeviceNumber int          `json:"device_number"`
	Status       DeviceStatus `json:"status"`
	Location     string       `json:"location,omitempty"`
	Notes        string       `json:"notes,omitempty"`
}

func (d Device) CanBeReserved() bool {
	return d.Status == DeviceStatusAvailable
}

func (d Device) IsOperational() bool {
	return d.Status != DeviceStatusMaintenance && d.Status != DeviceStatusBroken
}

// DisplayName renders e.g. "3번 기기".
func (d Device) DisplayName() string {
	return fmt.Sprintf("%d번 기기", d.DeviceNumber)
}

type DeviceType struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	HourlyRate          int64  `json:"hourly_rate"`
	MinReservationHours int    `json:"min_reservation_hours"`
	MaxReservationHours int    `json:"max_reservation_hours"`
	IsActive            bool   `json:"is_active"`
}

func NewDeviceType(id, name string, hourlyRate int64, minHours, maxHours int) (DeviceType, error) {
	if name == "" {
		return DeviceType{}, ValidationError("기종 이름은 필수입니다")
	}
	if hourlyRate < 0 {
		return DeviceType{}, ValidationError("시간당 요금은 0원 이상이어야 합니다")
	}
	if maxHours < 1 {
		return DeviceType{}, ValidationError("최대 예약 시간은 1시간 이상이어야 합니다")
	}
	if minHours > maxHours {
		return DeviceType{}, ValidationError("최소 예약 시간은 최대 예약 시간보다 클 수 없습니다")
	}
	return DeviceType{
		ID:                  id,
		Name:                name,
		HourlyRate:          hourlyRate,
		MinReservationHours: minHours,
		MaxReservationHours: maxHours,
		IsActive:            true,
	}, nil
}

// CalculatePrice bills hourlyRate per hour, rounded half-up to the won.
// Fractional hours are allowed within the min/max bounds.
func (t DeviceType) CalculatePrice(hours decimal.Decimal) (int64, error) {
	if hours.LessThan(decimal.NewFromInt(int64(t.MinReservationHours))) ||
		hours.GreaterThan(decimal.NewFromInt(int64(t.MaxReservationHours))) {
		return 0, ValidationError(fmt.Sprintf("예약 시간은 %d시간에서 %d시간 사이여야 합니다",
			t.MinReservationHours, t.MaxReservationHours))
	}
	return decimal.NewFromInt(t.HourlyRate).Mul(hours).Round(0).IntPart(), nil
}

func (t DeviceType) AllowsHours(hours int) bool {
	return hours >= t.MinReservationHours && hours <= t.MaxReservationHours
}
