// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"budgetd/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("calendar_date", validateCalendarDate)
	}
}

// calendar_date accepts YYYY-MM-DD (or RFC3339) date strings.
func validateCalendarDate(fl validator.FieldLevel) bool {
	_, err := models.ParseDate(fl.Field().String())
	return err == nil
}
