package service

import (
	"errors"
	"fmt"

	"gameplaza-backend/internal/domain"
	"gameplaza-backend/internal/repository"
)

const (
	msgReservationNotFound = "예약을 찾을 수 없습니다"
	msgCheckInNotFound     = "체크인 정보를 찾을 수 없습니다"
	msgDeviceNotFound      = "기기를 찾을 수 없습니다"
	msgDeviceTypeNotFound  = "기기 타입을 찾을 수 없습니다"
	msgUserNotFound        = "사용자를 찾을 수 없습니다"
	msgSlotConflict        = "해당 시간대에 이미 예약이 있습니다"
	msgAlreadyCheckedIn    = "이미 체크인된 예약입니다"
	msgDeviceInUse         = "이미 사용 중인 기기입니다"
)

// storeError translates repository sentinels into domain errors. notFound
// is the message used for repository.ErrNotFound.
func storeError(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return domain.NotFound(notFound)
	case errors.Is(err, repository.ErrSlotTaken):
		return domain.SlotConflict(msgSlotConflict)
	case errors.Is(err, repository.ErrReservationCheckInExists):
		return domain.AlreadyCheckedIn(msgAlreadyCheckedIn)
	case errors.Is(err, repository.ErrDeviceCheckInExists):
		return domain.DeviceInUse(msgDeviceInUse)
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return fmt.Errorf("storage: %w", err)
}
