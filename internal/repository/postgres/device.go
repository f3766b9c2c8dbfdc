package postgres

import (
	"context"
	"database/sql"

	"gameplaza-backend/internal/domain"
	"gameplaza-backend/internal/repository"
)

type deviceRepository struct {
	db *sql.DB
}

func NewDeviceRepository(db *sql.DB) repository.DeviceRepository {
	return &deviceRepository{db: db}
}

func (r *deviceRepository) FindByID(ctx context.Context, id string) (*domain.Device, error) {
	d := &domain.Device{}
	query := `SELECT id, device_type_id, device_number, status, location, notes FROM devices WHERE id = $1`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&d.ID, &d.DeviceTypeID, &d.DeviceNumber, &d.Status, &d.Location, &d.Notes)
	if err != nil {
		return nil, mapError(err)
	}
	return d, nil
}

type deviceTypeRepository struct {
	db *sql.DB
}

func NewDeviceTypeRepository(db *sql.DB) repository.DeviceTypeRepository {
	return &deviceTypeRepository{db: db}
}

func (r *deviceTypeRepository) FindByID(ctx context.Context, id string) (*domain.DeviceType, error) {
	t := &domain.DeviceType{}
	query := `SELECT id, name, hourly_rate, min_reservation_hours, max_reservation_hours, is_active FROM device_types WHERE id = $1`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.HourlyRate, &t.MinReservationHours, &t.MaxReservationHours, &t.IsActive)
	if err != nil {
		return nil, mapError(err)
	}
	return t, nil
}
