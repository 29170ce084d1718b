package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// Appointment books a doctor for a patient on a calendar date between two
// clock times. Date carries no time component; StartTime/EndTime are "HH:MM".
type Appointment struct {
	Base
	ClinicID     uuid.UUID         `db:"clinic_id" json:"clinic_id"`
	DoctorID     uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	PatientID    uuid.UUID         `db:"patient_id" json:"patient_id"`
	Date         time.Time         `db:"date" json:"date"`
	StartTime    string            `db:"start_time" json:"start_time"`
	EndTime      string            `db:"end_time" json:"end_time"`
	Status       AppointmentStatus `db:"status" json:"status"`
	Notes        string            `db:"notes" json:"notes,omitempty"`
	CancelReason *string           `db:"cancel_reason" json:"cancel_reason,omitempty"`
}

type CreateAppointmentRequest struct {
	ClinicID  string    `json:"clinic_id" binding:"required,uuid"`
	DoctorID  string    `json:"doctor_id" binding:"required,uuid"`
	PatientID string    `json:"patient_id" binding:"required,uuid"`
	Date      time.Time `json:"date" binding:"required"`
	StartTime string    `json:"start_time" binding:"required,clock"`
	EndTime   string    `json:"end_time" binding:"required,clock"`
	Notes     string    `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentRequest struct {
	Date      *time.Time         `json:"date"`
	StartTime *string            `json:"start_time" binding:"omitempty,clock"`
	EndTime   *string            `json:"end_time" binding:"omitempty,clock"`
	Status    *AppointmentStatus `json:"status"`
	Notes     *string            `json:"notes"`
}

type AppointmentFilters struct {
	ClinicID  uuid.UUID
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Status    AppointmentStatus
	StartDate time.Time
	EndDate   time.Time
}
