package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/medora-health/emr-admin-api/pkg/errors"
)

func clockPtr(c Clock) *Clock {
	return &c
}

func tuesdayShift() ScheduleWindow {
	return ScheduleWindow{
		DayOfWeek:  2,
		Start:      "09:00",
		End:        "17:00",
		BreakStart: clockPtr("12:00"),
		BreakEnd:   clockPtr("13:00"),
		Active:     true,
	}
}

func TestCoversInsideWorkingHours(t *testing.T) {
	windows := []ScheduleWindow{tuesdayShift()}

	ok, err := Covers(windows, 2, "11:30")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCoversDuringBreak(t *testing.T) {
	windows := []ScheduleWindow{tuesdayShift()}

	ok, err := Covers(windows, 2, "12:30")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCoversOutsideWorkingHours(t *testing.T) {
	windows := []ScheduleWindow{tuesdayShift()}

	ok, err := Covers(windows, 2, "18:00")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCoversWrongDay(t *testing.T) {
	windows := []ScheduleWindow{tuesdayShift()}

	ok, err := Covers(windows, 3, "11:30")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCoversBoundariesInclusive(t *testing.T) {
	windows := []ScheduleWindow{tuesdayShift()}

	for _, at := range []Clock{"09:00", "17:00"} {
		ok, err := Covers(windows, 2, at)
		require.NoError(t, err)
		assert.True(t, ok, "boundary %s should count", at)
	}
	for _, at := range []Clock{"12:00", "13:00"} {
		ok, err := Covers(windows, 2, at)
		require.NoError(t, err)
		assert.False(t, ok, "break boundary %s should not count", at)
	}
}

func TestCoversSplitShifts(t *testing.T) {
	morning := ScheduleWindow{DayOfWeek: 1, Start: "08:00", End: "12:00", Active: true}
	evening := ScheduleWindow{DayOfWeek: 1, Start: "16:00", End: "20:00", Active: true}
	windows := []ScheduleWindow{morning, evening}

	ok, err := Covers(windows, 1, "18:00")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Covers(windows, 1, "14:00")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCoversSecondRowWinsWhenFirstRowOnBreak(t *testing.T) {
	onBreak := tuesdayShift()
	covering := ScheduleWindow{DayOfWeek: 2, Start: "12:00", End: "14:00", Active: true}
	windows := []ScheduleWindow{onBreak, covering}

	// The first row's break swallows 12:30 but the second row still covers it.
	ok, err := Covers(windows, 2, "12:30")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCoversIgnoresInactiveRows(t *testing.T) {
	inactive := tuesdayShift()
	inactive.Active = false

	ok, err := Covers([]ScheduleWindow{inactive}, 2, "11:30")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCoversNoRowsAlwaysFalse(t *testing.T) {
	for _, at := range []Clock{"00:00", "09:00", "12:00", "23:59"} {
		ok, err := Covers(nil, 4, at)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestCoversRejectsBadDayOfWeek(t *testing.T) {
	for _, day := range []int{-1, 7, 100} {
		_, err := Covers([]ScheduleWindow{tuesdayShift()}, day, "11:30")
		require.Error(t, err)
		assert.True(t, apperrors.IsInvalidArgument(err))
	}
}

func TestCoversRejectsMalformedClock(t *testing.T) {
	for _, at := range []Clock{"", "25:00", "9am", "12:60", "noon"} {
		_, err := Covers([]ScheduleWindow{tuesdayShift()}, 2, at)
		require.Error(t, err, "clock %q", at)
		assert.True(t, apperrors.IsInvalidArgument(err))
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOnTimeOffInsideRange(t *testing.T) {
	ranges := []TimeOffRange{{Start: date(2024, 7, 1), End: date(2024, 7, 10)}}

	assert.True(t, OnTimeOff(ranges, date(2024, 7, 5)))
	assert.False(t, OnTimeOff(ranges, date(2024, 7, 11)))
	assert.False(t, OnTimeOff(ranges, date(2024, 6, 30)))
}

func TestOnTimeOffBoundariesInclusive(t *testing.T) {
	ranges := []TimeOffRange{{Start: date(2024, 7, 1), End: date(2024, 7, 10)}}

	assert.True(t, OnTimeOff(ranges, date(2024, 7, 1)))
	assert.True(t, OnTimeOff(ranges, date(2024, 7, 10)))
}

func TestOnTimeOffIgnoresTimeComponent(t *testing.T) {
	ranges := []TimeOffRange{{Start: date(2024, 7, 1), End: date(2024, 7, 10)}}

	late := time.Date(2024, 7, 10, 23, 45, 0, 0, time.UTC)
	assert.True(t, OnTimeOff(ranges, late))
}

func TestOnTimeOffOverlappingRanges(t *testing.T) {
	ranges := []TimeOffRange{
		{Start: date(2024, 7, 1), End: date(2024, 7, 10)},
		{Start: date(2024, 7, 8), End: date(2024, 7, 20)},
	}

	// Any covering range suffices; overlap needs no special handling.
	assert.True(t, OnTimeOff(ranges, date(2024, 7, 9)))
	assert.True(t, OnTimeOff(ranges, date(2024, 7, 15)))
	assert.False(t, OnTimeOff(ranges, date(2024, 7, 21)))
}

func TestOnTimeOffNoRanges(t *testing.T) {
	assert.False(t, OnTimeOff(nil, date(2024, 7, 5)))
}

func TestValidateWindow(t *testing.T) {
	assert.NoError(t, ValidateWindow(tuesdayShift()))

	noBreak := ScheduleWindow{DayOfWeek: 0, Start: "08:00", End: "12:00", Active: true}
	assert.NoError(t, ValidateWindow(noBreak))

	cases := []struct {
		name string
		mut  func(*ScheduleWindow)
	}{
		{"start after end", func(w *ScheduleWindow) { w.Start = "18:00" }},
		{"bad day", func(w *ScheduleWindow) { w.DayOfWeek = 9 }},
		{"break inverted", func(w *ScheduleWindow) { w.BreakStart = clockPtr("14:00"); w.BreakEnd = clockPtr("13:00") }},
		{"break outside window", func(w *ScheduleWindow) { w.BreakStart = clockPtr("07:00") }},
		{"break end missing", func(w *ScheduleWindow) { w.BreakEnd = nil }},
		{"malformed start", func(w *ScheduleWindow) { w.Start = "nine" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := tuesdayShift()
			tc.mut(&w)
			err := ValidateWindow(w)
			require.Error(t, err)
			assert.True(t, apperrors.IsInvalidArgument(err))
		})
	}
}
