package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validator returns the shared struct validator.
func Validator() *validator.Validate {
	return validate
}

// Struct validates s against its `validate` tags and turns the first failing
// field into a readable message.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", name)
	case "max":
		return fmt.Errorf("%s too long (max %s characters)", name, fe.Param())
	default:
		return fmt.Errorf("%s is invalid", name)
	}
}
