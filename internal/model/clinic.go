package model

// Clinic status constants
const (
	ClinicStatusActive    = "active"
	ClinicStatusInactive  = "inactive"
	ClinicStatusOnboarded = "onboarded"
)

type Clinic struct {
	Base
	Name     string  `db:"name" json:"name"`
	Address  string  `db:"address" json:"address"`
	Phone    *string `db:"phone" json:"phone"`
	Email    *string `db:"email" json:"email"`
	Status   string  `db:"status" json:"status"`
	Settings JSONMap `db:"settings" json:"settings"`
}

type CreateClinicRequest struct {
	Name    string  `json:"name" binding:"required"`
	Address string  `json:"address" binding:"required"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" binding:"omitempty,email"`
}

type UpdateClinicRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Status  *string `json:"status" binding:"omitempty,oneof=active inactive onboarded"`
}
