package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"gameplaza-backend/internal/domain"
	"gameplaza-backend/internal/logger"
	"gameplaza-backend/internal/repository"
)

const (
	unknownPlaceholder = "Unknown"
	lookupConcurrency  = 8
)

// CheckInDetails joins a check-in with its reservation, device and user.
// Related records that cannot be loaded stay nil and the display fields
// fall back to "Unknown".
type CheckInDetails struct {
	CheckIn           domain.CheckIn
	Reservation       *domain.Reservation
	Device            *domain.Device
	User              *domain.User
	UserName          string
	DeviceName        string
	ReservationNumber string
}

type ActiveCheckInFilter struct {
	DeviceID              string
	ExcludeWaitingPayment bool
}

type CheckInStatistics struct {
	TotalCheckIns     int
	ActiveCheckIns    int
	CompletedCheckIns int
	TotalRevenue      int64
	// AverageUsageTime is in minutes over check-ins with a measured duration.
	AverageUsageTime int
}

type DateRangeResult struct {
	CheckIns   []CheckInDetails
	TotalCount int
	Statistics *CheckInStatistics
}

// lookups caches related records fetched for a batch of check-ins.
type lookups struct {
	mu           sync.Mutex
	reservations map[string]*domain.Reservation
	devices      map[string]*domain.Device
	users        map[string]*domain.User
}

func (s *checkInService) GetCheckInDetails(ctx context.Context, checkInID string) (*CheckInDetails, error) {
	logger.EnterMethod("checkInService.GetCheckInDetails", "checkInID", checkInID)

	c, err := s.checkIns.FindByID(ctx, checkInID)
	if err != nil {
		err = storeError(err, msgCheckInNotFound)
		logger.ExitMethodWithError("checkInService.GetCheckInDetails", err, "checkInID", checkInID)
		return nil, err
	}

	details := s.enrich(ctx, []domain.CheckIn{*c})
	logger.ExitMethod("checkInService.GetCheckInDetails", "checkInID", checkInID)
	return &details[0], nil
}

func (s *checkInService) GetActiveCheckIns(ctx context.Context, filter ActiveCheckInFilter) ([]CheckInDetails, error) {
	logger.EnterMethod("checkInService.GetActiveCheckIns", "deviceID", filter.DeviceID)

	var active []domain.CheckIn
	if filter.DeviceID != "" {
		c, err := s.checkIns.FindActiveByDeviceID(ctx, filter.DeviceID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			logger.ExitMethodWithError("checkInService.GetActiveCheckIns", err)
			return nil, storeError(err, msgCheckInNotFound)
		}
		if c != nil {
			active = append(active, *c)
		}
	} else {
		list, err := s.checkIns.FindActiveCheckIns(ctx)
		if err != nil {
			logger.ExitMethodWithError("checkInService.GetActiveCheckIns", err)
			return nil, storeError(err, msgCheckInNotFound)
		}
		active = list
	}

	if filter.ExcludeWaitingPayment {
		kept := active[:0]
		for _, c := range active {
			if !c.IsWaitingPayment() {
				kept = append(kept, c)
			}
		}
		active = kept
	}

	details := s.enrich(ctx, active)
	logger.ExitMethod("checkInService.GetActiveCheckIns", "count", len(details))
	return details, nil
}

func (s *checkInService) GetCheckInsByDateRange(ctx context.Context, start, end time.Time, includeStatistics bool) (*DateRangeResult, error) {
	logger.EnterMethod("checkInService.GetCheckInsByDateRange", "start", start, "end", end)

	if start.After(end) {
		err := domain.InvalidRange("시작 날짜는 종료 날짜보다 이전이어야 합니다")
		logger.ExitMethodWithError("checkInService.GetCheckInsByDateRange", err)
		return nil, err
	}

	list, err := s.checkIns.FindByDateRange(ctx, start, end)
	if err != nil {
		logger.ExitMethodWithError("checkInService.GetCheckInsByDateRange", err)
		return nil, storeError(err, msgCheckInNotFound)
	}

	result := &DateRangeResult{
		CheckIns:   s.enrich(ctx, list),
		TotalCount: len(list),
	}
	if includeStatistics {
		stats := computeStatistics(list)
		result.Statistics = &stats
	}

	logger.ExitMethod("checkInService.GetCheckInsByDateRange", "count", result.TotalCount)
	return result, nil
}

func computeStatistics(list []domain.CheckIn) CheckInStatistics {
	stats := CheckInStatistics{TotalCheckIns: len(list)}
	totalMinutes := decimal.Zero
	measured := 0
	for _, c := range list {
		switch {
		case c.IsActive():
			stats.ActiveCheckIns++
		case c.Status == domain.CheckInStatusCompleted:
			stats.CompletedCheckIns++
		}
		stats.TotalRevenue += c.FinalAmount()
		if minutes, ok := c.ActualDuration(); ok {
			totalMinutes = totalMinutes.Add(decimal.NewFromInt(int64(minutes)))
			measured++
		}
	}
	if measured > 0 {
		stats.AverageUsageTime = int(totalMinutes.Div(decimal.NewFromInt(int64(measured))).Round(0).IntPart())
	}
	return stats
}

// enrich loads related records for list in parallel. Reservation and device
// lookups run first; user lookups follow, one per distinct user. Lookup
// failures are logged and leave the record nil.
func (s *checkInService) enrich(ctx context.Context, list []domain.CheckIn) []CheckInDetails {
	cache := &lookups{
		reservations: map[string]*domain.Reservation{},
		devices:      map[string]*domain.Device{},
		users:        map[string]*domain.User{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	seenRes := map[string]bool{}
	seenDev := map[string]bool{}
	for _, c := range list {
		if id := c.ReservationID; !seenRes[id] {
			seenRes[id] = true
			g.Go(func() error {
				r, err := s.reservations.FindByID(gctx, id)
				if err != nil {
					logger.Warn("Reservation lookup failed", "reservationID", id, "error", err)
					return nil
				}
				cache.mu.Lock()
				cache.reservations[id] = r
				cache.mu.Unlock()
				return nil
			})
		}
		if id := c.DeviceID; !seenDev[id] {
			seenDev[id] = true
			g.Go(func() error {
				d, err := s.devices.FindByID(gctx, id)
				if err != nil {
					logger.Warn("Device lookup failed", "deviceID", id, "error", err)
					return nil
				}
				cache.mu.Lock()
				cache.devices[id] = d
				cache.mu.Unlock()
				return nil
			})
		}
	}
	_ = g.Wait()

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	seenUser := map[string]bool{}
	for _, r := range cache.reservations {
		if r == nil || r.UserID == "" || seenUser[r.UserID] {
			continue
		}
		id := r.UserID
		seenUser[id] = true
		g.Go(func() error {
			u, err := s.users.FindByID(gctx, id)
			if err != nil {
				logger.Warn("User lookup failed", "userID", id, "error", err)
				return nil
			}
			cache.mu.Lock()
			cache.users[id] = u
			cache.mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	details := make([]CheckInDetails, 0, len(list))
	for _, c := range list {
		d := CheckInDetails{
			CheckIn:           c,
			UserName:          unknownPlaceholder,
			DeviceName:        unknownPlaceholder,
			ReservationNumber: unknownPlaceholder,
		}
		if r := cache.reservations[c.ReservationID]; r != nil {
			d.Reservation = r
			if r.ReservationNumber != "" {
				d.ReservationNumber = r.ReservationNumber
			}
			if u := cache.users[r.UserID]; u != nil {
				d.User = u
				if u.FullName != "" {
					d.UserName = u.FullName
				}
			}
		}
		if dev := cache.devices[c.DeviceID]; dev != nil {
			d.Device = dev
			d.DeviceName = dev.DisplayName()
		}
		details = append(details, d)
	}
	return details
}
