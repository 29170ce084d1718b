package model

import (
	"time"

	"github.com/google/uuid"
)

// User status constants
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusPending  = "pending"
	UserStatusLocked   = "locked"
)

// User type constants. SuperAdmin bypasses all permission checks.
const (
	UserTypeSuperAdmin = "super_admin"
	UserTypeDoctor     = "doctor"
	UserTypePatient    = "patient"
	UserTypeStaff      = "staff"
)

// User represents a system user. Doctors, patients and staff share this
// table with a user_type discriminator; role and clinic are optional.
type User struct {
	Base
	Email            string     `json:"email" db:"email"`
	Name             string     `json:"name" db:"name"`
	Password         string     `json:"password,omitempty" db:"-"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	Phone            *string    `json:"phone" db:"phone"`
	UserType         string     `json:"user_type" db:"user_type"`
	Status           string     `json:"status" db:"status"`
	RoleID           *uuid.UUID `json:"role_id" db:"role_id"`
	ClinicID         *uuid.UUID `json:"clinic_id" db:"clinic_id"`
	LoginAttempts    int        `json:"-" db:"login_attempts"`
	LastLoginAttempt *time.Time `json:"-" db:"last_login_attempt"`
	LastLoginAt      *time.Time `json:"last_login_at" db:"last_login_at"`
}

// CreateUserRequest represents user creation parameters
type CreateUserRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Name     string  `json:"name" binding:"required"`
	Password string  `json:"password" binding:"required,min=8"`
	Phone    *string `json:"phone"`
	UserType string  `json:"user_type" binding:"required,oneof=super_admin doctor patient staff"`
	RoleID   *string `json:"role_id" binding:"omitempty,uuid"`
	ClinicID *string `json:"clinic_id" binding:"omitempty,uuid"`
}

// UpdateUserRequest represents user update parameters
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
	Status   *string `json:"status" binding:"omitempty,oneof=active inactive pending locked"`
	RoleID   *string `json:"role_id" binding:"omitempty,uuid"`
	ClinicID *string `json:"clinic_id" binding:"omitempty,uuid"`
}

type UserFilters struct {
	ClinicID   uuid.UUID
	UserType   string
	Status     string
	SearchTerm string
}
