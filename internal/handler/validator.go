package handler

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/taskboard/internal/apperr"
)

// Validator adapts go-playground/validator to Echo's Validator interface.
// Request DTOs declare their shape with `validate` tags and handlers call
// c.Validate before touching storage.
type Validator struct{ v *validator.Validate }

func NewValidator() *Validator { return &Validator{v: validator.New()} }

// Validate checks a bound request struct and converts failures into the
// application validation error, listing one message per offending field.
func (cv *Validator) Validate(i interface{}) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperr.Internal(err)
	}
	details := make([]string, 0, len(ve))
	for _, fe := range ve {
		details = append(details, fmt.Sprintf("%s failed on the %q rule", fe.Field(), fe.Tag()))
	}
	return apperr.Validation("Unprocessable entity", details)
}
