package handlers

import (
	"hotelbooking/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom binding tags used by request structs.
// It is safe to call more than once.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("isodate", isoDate)
}

// isoDate accepts an empty string or a YYYY-MM-DD calendar date.
func isoDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := models.ParseDate(s)
	return err == nil
}

// parseOptionalDate returns the zero Date for an empty string.
func parseOptionalDate(s string) models.Date {
	if s == "" {
		return models.Date{}
	}
	d, _ := models.ParseDate(s)
	return d
}
