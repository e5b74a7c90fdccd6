package middleware

import (
	"github.com/atelier/backend/internal/domain/production"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators installs domain-specific validation tags on
// gin's binding validator. Call once during startup.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("returnmode", validReturnMode)
}

// validReturnMode accepts only the supported return reconciliation modes
func validReturnMode(fl validator.FieldLevel) bool {
	return production.ValidReturnMode(production.ReturnMode(fl.Field().String()))
}
