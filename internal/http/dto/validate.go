package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the struct tags of a request and returns field-keyed
// messages. An empty result means the request is well formed.
func Validate(req any) models.FieldErrors {
	errs := models.FieldErrors{}
	err := validate.Struct(req)
	if err == nil {
		return errs
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add(models.NonFieldErrors, "Invalid request.")
		return errs
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "uuid":
		return "Must be a valid UUID."
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
	}
	return "Invalid value."
}
