package domain

import (
	"fmt"
	"time"
)

// Venue hours run past midnight, so a slot may end as late as hour 30
// (06:00 the next morning) of its reservation date.
const (
	MinSlotHour = 0
	MaxSlotHour = 30
)

const DateLayout = "2006-01-02"

type TimeSlot struct {
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
}

func NewTimeSlot(startHour, endHour int) (TimeSlot, error) {
	if startHour < MinSlotHour || endHour > MaxSlotHour || startHour >= endHour {
		return TimeSlot{}, ValidationError(fmt.Sprintf("유효하지 않은 시간대입니다: %d시-%d시", startHour, endHour))
	}
	return TimeSlot{StartHour: startHour, EndHour: endHour}, nil
}

func (s TimeSlot) Hours() int {
	return s.EndHour - s.StartHour
}

func (s TimeSlot) String() string {
	return fmt.Sprintf("%02d:00-%02d:00", s.StartHour, s.EndHour)
}

// Interval resolves the slot on a calendar date in loc to a half-open
// [start, end) pair of instants.
func (s TimeSlot) Interval(date string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, ValidationError("유효하지 않은 날짜 형식입니다")
	}
	start := day.Add(time.Duration(s.StartHour) * time.Hour)
	end := day.Add(time.Duration(s.EndHour) * time.Hour)
	return start, end, nil
}

// Overlaps reports half-open interval overlap: [s1,e1) and [s2,e2) conflict
// iff s1 < e2 and s2 < e1.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}
