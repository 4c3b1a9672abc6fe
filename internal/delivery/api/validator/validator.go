// Package validator adapts go-playground/validator to echo.Validator.
package validator

import (
	"strings"

	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"

	playground "github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// CustomValidator implements echo.Validator.
type CustomValidator struct {
	validate *playground.Validate
}

// New builds a validator with the marketplace-specific tags registered.
func New() *CustomValidator {
	validate := playground.New(playground.WithRequiredStructEnabled())

	// role accepts only the profile roles
	_ = validate.RegisterValidation("role", func(fl playground.FieldLevel) bool {
		_, ok := entity.ParseRole(fl.Field().String())

		return ok
	})

	return &CustomValidator{validate: validate}
}

// Validate checks the struct tags and converts failures into a
// VALIDATION_FAILED error listing every offending field.
func (cv *CustomValidator) Validate(i any) error {
	err := cv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrs playground.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return errors.Wrap(domainerrors.ErrValidationFailed, err.Error())
	}

	fields := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		fields = append(fields, describe(fieldErr))
	}

	return domainerrors.ErrValidationFailed.WithDetails(strings.Join(fields, "; "))
}

func describe(fieldErr playground.FieldError) string {
	field := fieldErr.Field()
	switch fieldErr.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min", "gte":
		return field + " must be at least " + fieldErr.Param()
	case "max", "lte":
		return field + " must be at most " + fieldErr.Param()
	case "role":
		return field + " must be one of: buyer, seller"
	case "oneof":
		return field + " must be one of: " + fieldErr.Param()
	default:
		return field + " is invalid"
	}
}
