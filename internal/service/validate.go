package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lumenlabs/studyportal/internal/apperr"
)

// asFieldErrors converts validator output into the portal's validation
// error, reporting every failing field at once rather than one at a
// time.
func asFieldErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	ve := apperr.NewValidationError()
	for _, fe := range verrs {
		ve.Add(strings.ToLower(fe.Field()), reasonFor(fe))
	}
	return ve
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}
