package actions

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names, the forms use the same ones
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// check validates in and returns a message per failed field, nil if valid.
func check(v *validator.Validate, in any) map[string]string {
	err := v.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": "invalid input"}
	}

	fields := make(map[string]string, len(verrs))

	for _, fe := range verrs {
		// drop the struct name, keep nested paths like insurance_info.provider
		_, path, _ := strings.Cut(fe.Namespace(), ".")
		fields[path] = fieldMessage(fe)
	}

	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email address"
	case "min":
		return fmt.Sprintf("Must be at least %s characters long", fe.Param())
	case "url":
		return "Invalid URL"
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "datetime":
		return "Invalid date, use YYYY-MM-DD"
	default:
		return "Invalid value"
	}
}
