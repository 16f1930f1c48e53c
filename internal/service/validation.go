package service

import (
	"errors"
	"reflect"
	"strings"

	"shos/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their wire names
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
}

// validateInput runs the struct tags and converts failures into a domain.InputError
func validateInput(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	inputErr := &domain.InputError{}
	for _, e := range validationErrors {
		inputErr.Fields = append(inputErr.Fields, domain.FieldError{
			Field:   e.Field(),
			Message: fieldMessage(e),
		})
	}
	return inputErr
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "gte":
		if e.Param() == "0" {
			return "must be a non-negative integer"
		}
		return "must be greater than or equal to " + e.Param()
	case "gt":
		if e.Param() == "0" {
			return "must be a positive integer"
		}
		return "must be greater than " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "max":
		return "must be at most " + e.Param() + " characters"
	default:
		return "is invalid"
	}
}
