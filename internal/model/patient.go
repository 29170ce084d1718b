package model

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	Base
	ClinicID    uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	Email       *string    `db:"email" json:"email"`
	Phone       *string    `db:"phone" json:"phone"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth"`
	Gender      *string    `db:"gender" json:"gender"`
	Address     *string    `db:"address" json:"address"`
	Status      string     `db:"status" json:"status"`
}

type CreatePatientRequest struct {
	ClinicID    string     `json:"clinic_id" binding:"required,uuid"`
	FirstName   string     `json:"first_name" binding:"required"`
	LastName    string     `json:"last_name" binding:"required"`
	Email       *string    `json:"email" binding:"omitempty,email"`
	Phone       *string    `json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      *string    `json:"gender" binding:"omitempty,oneof=male female other"`
	Address     *string    `json:"address"`
}

type UpdatePatientRequest struct {
	FirstName   *string    `json:"first_name"`
	LastName    *string    `json:"last_name"`
	Email       *string    `json:"email" binding:"omitempty,email"`
	Phone       *string    `json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      *string    `json:"gender" binding:"omitempty,oneof=male female other"`
	Address     *string    `json:"address"`
	Status      *string    `json:"status" binding:"omitempty,oneof=active inactive"`
}

type PatientFilters struct {
	ClinicID   uuid.UUID
	SearchTerm string
	Status     string
}
