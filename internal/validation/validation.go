// Package validation holds the form schemas accepted by the dashboard API.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// BloodTypes lists the eight ABO/Rh blood types
var BloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterForm struct {
	Name            string `json:"name" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type ResetForm struct {
	Email string `json:"email" validate:"required,email"`
}

type UpdatePasswordForm struct {
	Password        string `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type ConfirmResetForm struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type AppointmentForm struct {
	Date     time.Time `json:"date" validate:"required,futuredate"`
	Time     string    `json:"time" validate:"required"`
	Location string    `json:"location" validate:"required"`
	Type     string    `json:"type" validate:"required,oneof=donation appointment eligibility"`
}

type RequestForm struct {
	Hospital   string  `json:"hospital" validate:"required"`
	HospitalID *string `json:"hospital_id" validate:"omitempty,uuid"`
	BloodType  string  `json:"blood_type" validate:"required,bloodtype"`
	Quantity   int     `json:"quantity" validate:"required,gte=1"`
	Priority   string  `json:"priority" validate:"required,oneof=low medium high"`
	Notes      *string `json:"notes"`
}

// FieldErrors maps a JSON field name to a human readable message
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("futuredate", func(fl validator.FieldLevel) bool {
		date, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return !truncateDay(date).Before(truncateDay(time.Now()))
	})
	_ = v.RegisterValidation("bloodtype", func(fl validator.FieldLevel) bool {
		return IsBloodType(fl.Field().String())
	})
	return v
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsBloodType reports whether s is one of the eight ABO/Rh types
func IsBloodType(s string) bool {
	for _, bt := range BloodTypes {
		if bt == s {
			return true
		}
	}
	return false
}

// Validate checks form against its schema. It returns FieldErrors when any
// field is invalid.
func Validate(form interface{}) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email address"
	case "min":
		if fe.Field() == "password" {
			return fmt.Sprintf("Password must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "eqfield":
		return "Passwords don't match"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "bloodtype":
		return "Invalid blood type"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "futuredate":
		return "Date must be today or later"
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
