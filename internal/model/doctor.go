package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/medora-health/emr-admin-api/pkg/availability"
)

// DoctorSchedule is one weekly recurring availability row for a doctor.
// Invariants: start_time < end_time; break times, when present, are ordered
// and lie within the working window. A doctor may hold more than one row
// per day (split shifts).
type DoctorSchedule struct {
	Base
	DoctorID       uuid.UUID `db:"doctor_id" json:"doctor_id"`
	DayOfWeek      int       `db:"day_of_week" json:"day_of_week"` // 0=Sunday .. 6=Saturday
	StartTime      string    `db:"start_time" json:"start_time"`   // "HH:MM"
	EndTime        string    `db:"end_time" json:"end_time"`
	BreakStartTime *string   `db:"break_start_time" json:"break_start_time,omitempty"`
	BreakEndTime   *string   `db:"break_end_time" json:"break_end_time,omitempty"`
	IsActive       bool      `db:"is_active" json:"is_active"`
}

// Window converts the row to the evaluator's shape.
func (s *DoctorSchedule) Window() availability.ScheduleWindow {
	w := availability.ScheduleWindow{
		DayOfWeek: s.DayOfWeek,
		Start:     availability.Clock(s.StartTime),
		End:       availability.Clock(s.EndTime),
		Active:    s.IsActive,
	}
	if s.BreakStartTime != nil {
		bs := availability.Clock(*s.BreakStartTime)
		w.BreakStart = &bs
	}
	if s.BreakEndTime != nil {
		be := availability.Clock(*s.BreakEndTime)
		w.BreakEnd = &be
	}
	return w
}

// DoctorTimeOff is one approved leave interval, inclusive on both ends.
// Ranges may overlap; any covering range makes the doctor unavailable.
type DoctorTimeOff struct {
	Base
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	Reason    *string   `db:"reason" json:"reason,omitempty"`
}

// Range converts the row to the evaluator's shape.
func (t *DoctorTimeOff) Range() availability.TimeOffRange {
	return availability.TimeOffRange{Start: t.StartDate, End: t.EndDate}
}

type CreateDoctorScheduleRequest struct {
	DoctorID       string  `json:"doctor_id" binding:"required,uuid"`
	DayOfWeek      int     `json:"day_of_week" binding:"min=0,max=6"`
	StartTime      string  `json:"start_time" binding:"required,clock"`
	EndTime        string  `json:"end_time" binding:"required,clock"`
	BreakStartTime *string `json:"break_start_time" binding:"omitempty,clock"`
	BreakEndTime   *string `json:"break_end_time" binding:"omitempty,clock"`
}

type UpdateDoctorScheduleRequest struct {
	StartTime      *string `json:"start_time" binding:"omitempty,clock"`
	EndTime        *string `json:"end_time" binding:"omitempty,clock"`
	BreakStartTime *string `json:"break_start_time" binding:"omitempty,clock"`
	BreakEndTime   *string `json:"break_end_time" binding:"omitempty,clock"`
	IsActive       *bool   `json:"is_active"`
}

type CreateDoctorTimeOffRequest struct {
	DoctorID  string    `json:"doctor_id" binding:"required,uuid"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
	Reason    *string   `json:"reason"`
}
