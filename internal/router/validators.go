package router

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/medora-health/emr-admin-api/pkg/availability"
)

// registerValidations adds custom binding validations. "clock" accepts
// zero-padded 24-hour "HH:MM" strings.
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return availability.Clock(fl.Field().String()).Valid()
	})
}
