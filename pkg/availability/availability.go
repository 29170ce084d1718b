// Package availability evaluates doctor availability against weekly
// recurring schedule windows and date-range time-off records. All functions
// are pure predicates over rows the storage layer has already fetched.
package availability

import (
	"fmt"
	"time"

	apperrors "github.com/medora-health/emr-admin-api/pkg/errors"
)

// Clock is a time-of-day in "HH:MM" form. The fixed-width format makes
// lexicographic comparison equivalent to chronological comparison.
type Clock string

const clockLayout = "15:04"

// Valid reports whether the clock value parses as HH:MM.
func (c Clock) Valid() bool {
	_, err := time.Parse(clockLayout, string(c))
	return err == nil
}

// ScheduleWindow is one weekly recurring availability row for a doctor.
// Break times, when present, carve an unavailable subinterval out of
// [Start, End].
type ScheduleWindow struct {
	DayOfWeek  int    // 0=Sunday .. 6=Saturday
	Start      Clock
	End        Clock
	BreakStart *Clock
	BreakEnd   *Clock
	Active     bool
}

// TimeOffRange is an approved leave interval, inclusive on both ends.
// Overlapping ranges are permitted; any covering range suffices.
type TimeOffRange struct {
	Start time.Time
	End   time.Time
}

// Covers reports whether any active window makes the doctor available at
// the given day-of-week and clock time.
//
// A window counts when the time falls inside [Start, End] and outside the
// break interval. A row whose break swallows the time does not count, but
// scanning continues: a doctor may hold two rows for the same day (split
// shifts), and another row can still cover the time. No matching window,
// or no windows at all, means not available.
func Covers(windows []ScheduleWindow, dayOfWeek int, at Clock) (bool, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return false, apperrors.NewInvalidArgument(fmt.Sprintf("day of week %d outside 0-6", dayOfWeek))
	}
	if !at.Valid() {
		return false, apperrors.NewInvalidArgument(fmt.Sprintf("malformed clock time %q", at))
	}

	for _, w := range windows {
		if !w.Active || w.DayOfWeek != dayOfWeek {
			continue
		}
		if at < w.Start || at > w.End {
			continue
		}
		if w.BreakStart != nil && w.BreakEnd != nil && at >= *w.BreakStart && at <= *w.BreakEnd {
			continue
		}
		return true, nil
	}
	return false, nil
}

// OnTimeOff reports whether the date falls inside any time-off range,
// inclusive on both ends. Only the calendar date matters; time components
// are truncated before comparison.
func OnTimeOff(ranges []TimeOffRange, date time.Time) bool {
	day := truncateToDay(date)
	for _, r := range ranges {
		if !day.Before(truncateToDay(r.Start)) && !day.After(truncateToDay(r.End)) {
			return true
		}
	}
	return false
}

// ValidateWindow enforces the schedule row invariants: start before end,
// and any break interval ordered and contained within the working window.
func ValidateWindow(w ScheduleWindow) error {
	if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
		return apperrors.NewInvalidArgument(fmt.Sprintf("day of week %d outside 0-6", w.DayOfWeek))
	}
	if !w.Start.Valid() || !w.End.Valid() {
		return apperrors.NewInvalidArgument("malformed schedule times")
	}
	if w.Start >= w.End {
		return apperrors.NewInvalidArgument("schedule start must precede end")
	}
	if (w.BreakStart == nil) != (w.BreakEnd == nil) {
		return apperrors.NewInvalidArgument("break start and end must be set together")
	}
	if w.BreakStart != nil {
		if !w.BreakStart.Valid() || !w.BreakEnd.Valid() {
			return apperrors.NewInvalidArgument("malformed break times")
		}
		if *w.BreakStart >= *w.BreakEnd {
			return apperrors.NewInvalidArgument("break start must precede break end")
		}
		if *w.BreakStart < w.Start || *w.BreakEnd > w.End {
			return apperrors.NewInvalidArgument("break must lie within the schedule window")
		}
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
