package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/emilianohg/jobtracker/internal/apperr"
)

var validate = newValidator()

// newValidator reports fields by their wire names so messages match what
// API clients send.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(key), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// check runs the struct's validate tags and reports the first failure as
// a validation error.
func check(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperr.Wrap(apperr.KindInternal, "validate request", err)
	}
	return invalid(fieldMessage(fieldErrs[0]))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return field + " must be positive"
	case "oneof":
		return fmt.Sprintf("%s %q is not one of %s", field, fe.Value(), strings.Join(strings.Fields(fe.Param()), ", "))
	case "datetime":
		return field + " must be a YYYY-MM-DD date"
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
