// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"haushaltsbuch/internal/aggregate"
	"haushaltsbuch/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("line_type", validateLineType)
		_ = v.RegisterValidation("sort_mode", validateSortMode)
		_ = v.RegisterValidation("not_blank", validateNotBlank)
	}
}

// validateLineType accepts income or expense, ignoring surrounding blanks.
func validateLineType(fl validator.FieldLevel) bool {
	return models.LineType(strings.TrimSpace(fl.Field().String())).Valid()
}

func validateSortMode(fl validator.FieldLevel) bool {
	return aggregate.SortMode(fl.Field().String()).Valid()
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
