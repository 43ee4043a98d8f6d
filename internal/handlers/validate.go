package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// oneofci is oneof with case-insensitive matching; casing is fixed later
	// when the wire request is built.
	v.RegisterValidation("oneofci", func(fl validator.FieldLevel) bool {
		value := strings.TrimSpace(fl.Field().String())
		for _, allowed := range strings.Fields(fl.Param()) {
			if strings.EqualFold(value, allowed) {
				return true
			}
		}
		return false
	})
	return v
}

// validationMessage turns validator errors into one user-facing sentence
// naming the first offending field.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneofci", "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.Join(strings.Fields(fe.Param()), ", "))
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
