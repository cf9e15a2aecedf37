package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidSchedule = errors.New("invalid schedule")

// Range is a single open interval within a day, in minutes from midnight.
// The interval is half-open: the venue is open at Open and closed at Close.
type Range struct {
	Open  int `json:"open"`
	Close int `json:"close"`
}

// Week maps a weekday to its open ranges. A missing day, or a day with no
// ranges, means closed all day.
type Week map[time.Weekday][]Range

const minutesPerDay = 24 * 60

var dayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

type rawRange struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// ParseWeek decodes the stored JSON form:
//
//	{"monday": [{"open": "11:00", "close": "14:00"}, {"open": "18:00", "close": "22:00"}]}
func ParseWeek(data []byte) (Week, error) {
	if len(data) == 0 {
		return Week{}, nil
	}

	var raw map[string][]rawRange
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	week := Week{}
	for day, ranges := range raw {
		weekday, ok := dayNames[strings.ToLower(day)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown day %q", ErrInvalidSchedule, day)
		}

		for _, r := range ranges {
			open, err := parseMinute(r.Open)
			if err != nil {
				return nil, err
			}
			close, err := parseMinute(r.Close)
			if err != nil {
				return nil, err
			}
			if open >= close {
				return nil, fmt.Errorf("%w: range %s-%s on %s", ErrInvalidSchedule, r.Open, r.Close, day)
			}
			week[weekday] = append(week[weekday], Range{Open: open, Close: close})
		}
	}

	return week, nil
}

func parseMinute(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: bad time %q", ErrInvalidSchedule, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: bad time %q", ErrInvalidSchedule, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: bad time %q", ErrInvalidSchedule, s)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: bad time %q", ErrInvalidSchedule, s)
	}
	minute := h*60 + m
	if minute > minutesPerDay {
		return 0, fmt.Errorf("%w: bad time %q", ErrInvalidSchedule, s)
	}
	return minute, nil
}

// FormatMinute renders a minute-of-day as "HH:MM".
func FormatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// IsOpen reports whether now falls inside one of today's open ranges.
// Ranges are half-open, so exactly at close the venue is already closed.
func IsOpen(week Week, now time.Time) bool {
	m := minuteOfDay(now)
	for _, r := range week[now.Weekday()] {
		if m >= r.Open && m < r.Close {
			return true
		}
	}
	return false
}

// NextOpening returns the next moment the venue opens, scanning the rest of
// today first and then up to 7 days ahead. The boolean is false when the
// schedule has no opening anywhere in that window.
func NextOpening(week Week, now time.Time) (time.Time, bool) {
	m := minuteOfDay(now)

	best := -1
	for _, r := range week[now.Weekday()] {
		if r.Open > m && (best == -1 || r.Open < best) {
			best = r.Open
		}
	}
	if best >= 0 {
		return atMinute(now, 0, best), true
	}

	for d := 1; d <= 7; d++ {
		day := now.AddDate(0, 0, d).Weekday()
		best = -1
		for _, r := range week[day] {
			if best == -1 || r.Open < best {
				best = r.Open
			}
		}
		if best >= 0 {
			return atMinute(now, d, best), true
		}
	}

	return time.Time{}, false
}

func atMinute(now time.Time, daysAhead, minute int) time.Time {
	base := now.AddDate(0, 0, daysAhead)
	return time.Date(base.Year(), base.Month(), base.Day(), minute/60, minute%60, 0, 0, now.Location())
}

// PickupSlots enumerates valid pickup times for today. The earliest candidate
// is now+lead rounded up to the next multiple of step; slots run at step
// intervals per range, in range order, up to and including an exact landing
// on close. Ranges already past their close are skipped.
func PickupSlots(week Week, now time.Time, leadMinutes, stepMinutes int) []time.Time {
	if stepMinutes <= 0 {
		return nil
	}

	earliest := minuteOfDay(now) + leadMinutes
	earliest = roundUp(earliest, stepMinutes)

	var slots []time.Time
	for _, r := range week[now.Weekday()] {
		if r.Close < earliest {
			continue
		}
		slot := roundUp(r.Open, stepMinutes)
		if slot < earliest {
			slot = earliest
		}
		for ; slot <= r.Close; slot += stepMinutes {
			if slot >= minutesPerDay {
				break
			}
			slots = append(slots, atMinute(now, 0, slot))
		}
	}

	return slots
}

func roundUp(minute, step int) int {
	if minute%step == 0 {
		return minute
	}
	return (minute/step + 1) * step
}
