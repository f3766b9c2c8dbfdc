package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gameplaza-backend/internal/domain"
	"gameplaza-backend/internal/repository"
)

type reservationRepository struct {
	st *state
}

func sortByStart(list []domain.Reservation) {
	sort.Slice(list, func(i, j int) bool { return list[i].StartAt.Before(list[j].StartAt) })
}

func (r *reservationRepository) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	res, ok := r.st.reservations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &res, nil
}

func (r *reservationRepository) FindByDeviceID(ctx context.Context, deviceID string) ([]domain.Reservation, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	var list []domain.Reservation
	for _, res := range r.st.reservations {
		if res.DeviceID == deviceID {
			list = append(list, res)
		}
	}
	sortByStart(list)
	return list, nil
}

func (r *reservationRepository) FindConflicting(ctx context.Context, deviceID string, start, end time.Time, excludeID string) ([]domain.Reservation, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return r.conflictsLocked(deviceID, start, end, excludeID), nil
}

func (r *reservationRepository) conflictsLocked(deviceID string, start, end time.Time, excludeID string) []domain.Reservation {
	var list []domain.Reservation
	for _, res := range r.st.reservations {
		if res.ID == excludeID || res.DeviceID != deviceID || !res.HoldsSlot() {
			continue
		}
		if domain.Overlaps(res.StartAt, res.EndAt, start, end) {
			list = append(list, res)
		}
	}
	sortByStart(list)
	return list
}

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, exists := r.st.reservations[res.ID]; exists {
		return fmt.Errorf("reservation %s: %w", res.ID, errDuplicateID)
	}
	for _, other := range r.st.reservations {
		if other.ReservationNumber == res.ReservationNumber {
			return repository.ErrDuplicateNumber
		}
	}
	if res.HoldsSlot() && len(r.conflictsLocked(res.DeviceID, res.StartAt, res.EndAt, res.ID)) > 0 {
		return repository.ErrSlotTaken
	}
	id := res.ID
	r.st.reservations[id] = *res
	recordUndo(ctx, func() { delete(r.st.reservations, id) })
	return nil
}

func (r *reservationRepository) Update(ctx context.Context, res *domain.Reservation) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	prev, ok := r.st.reservations[res.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if res.HoldsSlot() && len(r.conflictsLocked(res.DeviceID, res.StartAt, res.EndAt, res.ID)) > 0 {
		return repository.ErrSlotTaken
	}
	updated := *res
	updated.ReservationNumber = prev.ReservationNumber
	updated.CreatedAt = prev.CreatedAt
	r.st.reservations[res.ID] = updated
	recordUndo(ctx, func() { r.st.reservations[prev.ID] = prev })
	return nil
}

func (r *reservationRepository) FindApprovedStartedBefore(ctx context.Context, cutoff time.Time) ([]domain.Reservation, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	var list []domain.Reservation
	for _, res := range r.st.reservations {
		if res.Status == domain.ReservationStatusApproved && res.StartAt.Before(cutoff) {
			list = append(list, res)
		}
	}
	sortByStart(list)
	return list, nil
}

func (r *reservationRepository) FindActiveByUserID(ctx context.Context, userID string) ([]domain.Reservation, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	var list []domain.Reservation
	for _, res := range r.st.reservations {
		if res.UserID == userID && !res.IsTerminal() {
			list = append(list, res)
		}
	}
	sortByStart(list)
	return list, nil
}
