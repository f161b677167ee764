package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/maxviazov/ticket-registration-service/internal/model"
)

// phonePattern accepts international formats such as "+233 555 123 456" or "(020) 555-0101".
var phonePattern = regexp.MustCompile(`^\+?[0-9(][0-9 ()\-.]{5,18}[0-9]$`)

// newValidator reports fields by their JSON names so messages match the request body.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// validateStruct runs tag validation and converts failures into the aggregated error.
func validateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		fe = append(fe, FieldError{Field: e.Field(), Message: fieldMessage(e)})
	}
	return NewInvalidInputError(fe)
}

func fieldMessage(e validator.FieldError) string {
	numeric := e.Kind() >= reflect.Int && e.Kind() <= reflect.Float64
	switch e.Tag() {
	case "required":
		return "must not be empty"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a valid phone number"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(e.Param(), "'", "")
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "min":
		if numeric {
			return "must be >= " + e.Param()
		}
		return fmt.Sprintf("length must be at least %s", e.Param())
	case "max":
		if numeric {
			return "must be <= " + e.Param()
		}
		return fmt.Sprintf("length must be at most %s", e.Param())
	default:
		return "is invalid"
	}
}

func normalizeTicketInput(in TicketInput) TicketInput {
	in.FullName = strings.Join(strings.Fields(in.FullName), " ")
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.IDNumber = strings.TrimSpace(in.IDNumber)
	in.Gender = strings.ToLower(strings.TrimSpace(in.Gender))
	in.TicketType = strings.ToLower(strings.TrimSpace(in.TicketType))
	if in.TicketType == "" {
		in.TicketType = model.TicketStandard
	}
	if in.Quantity == nil {
		one := 1
		in.Quantity = &one
	}
	in.EventDate = strings.TrimSpace(in.EventDate)
	in.EventLocation = strings.TrimSpace(in.EventLocation)
	return in
}
