package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gameplaza-backend/internal/domain"
	"gameplaza-backend/internal/repository"
)

type checkInRepository struct {
	st *state
}

func sortByCheckInTime(list []domain.CheckIn) {
	sort.Slice(list, func(i, j int) bool { return list[i].CheckInTime.Before(list[j].CheckInTime) })
}

// uniqueLocked enforces one active check-in per reservation and per device.
func (r *checkInRepository) uniqueLocked(c *domain.CheckIn) error {
	if !c.IsActive() {
		return nil
	}
	for _, other := range r.st.checkIns {
		if other.ID == c.ID || !other.IsActive() {
			continue
		}
		if other.ReservationID == c.ReservationID {
			return repository.ErrReservationCheckInExists
		}
		if other.DeviceID == c.DeviceID {
			return repository.ErrDeviceCheckInExists
		}
	}
	return nil
}

func (r *checkInRepository) Create(ctx context.Context, c *domain.CheckIn) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, exists := r.st.checkIns[c.ID]; exists {
		return fmt.Errorf("check-in %s: %w", c.ID, errDuplicateID)
	}
	if err := r.uniqueLocked(c); err != nil {
		return err
	}
	id := c.ID
	r.st.checkIns[id] = *c
	recordUndo(ctx, func() { delete(r.st.checkIns, id) })
	return nil
}

func (r *checkInRepository) Update(ctx context.Context, c *domain.CheckIn) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	prev, ok := r.st.checkIns[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := r.uniqueLocked(c); err != nil {
		return err
	}
	r.st.checkIns[c.ID] = *c
	recordUndo(ctx, func() { r.st.checkIns[prev.ID] = prev })
	return nil
}

func (r *checkInRepository) FindByID(ctx context.Context, id string) (*domain.CheckIn, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	c, ok := r.st.checkIns[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *checkInRepository) FindByReservationID(ctx context.Context, reservationID string) (*domain.CheckIn, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	var latest *domain.CheckIn
	for _, c := range r.st.checkIns {
		if c.ReservationID != reservationID {
			continue
		}
		if latest == nil || c.CheckInTime.After(latest.CheckInTime) {
			found := c
			latest = &found
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func (r *checkInRepository) FindActiveByDeviceID(ctx context.Context, deviceID string) (*domain.CheckIn, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	for _, c := range r.st.checkIns {
		if c.DeviceID == deviceID && c.IsActive() {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *checkInRepository) filter(keep func(domain.CheckIn) bool) []domain.CheckIn {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	var list []domain.CheckIn
	for _, c := range r.st.checkIns {
		if keep(c) {
			list = append(list, c)
		}
	}
	sortByCheckInTime(list)
	return list
}

func (r *checkInRepository) FindActiveCheckIns(ctx context.Context) ([]domain.CheckIn, error) {
	return r.filter(domain.CheckIn.IsActive), nil
}

func (r *checkInRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]domain.CheckIn, error) {
	return r.filter(func(c domain.CheckIn) bool {
		return !c.CheckInTime.Before(start) && !c.CheckInTime.After(end)
	}), nil
}

func (r *checkInRepository) FindPendingPayments(ctx context.Context) ([]domain.CheckIn, error) {
	return r.filter(domain.CheckIn.IsWaitingPayment), nil
}
