// Package validate wraps go-playground/validator for request DTOs.
package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v *validator.Validate

var messages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
	"oneof":    "must be one of: %s",
	"uuid":     "must be a valid uuid",
	"email":    "must be a valid email",
	"gte":      "must be greater than or equal to %s",
	"gt":       "must be greater than %s",
	"lte":      "must be less than or equal to %s",
	"alphanum": "must contain only letters and digits",
	"dive":     "is invalid",
}

func init() {
	v = validator.New(validator.WithRequiredStructEnabled())
	// Report json names so messages match the wire contract.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
}

// Struct validates s using its `validate` tags.
func Struct(s any) error {
	return v.Struct(s)
}

// FieldErrors maps each failing field to its message.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

// FormatFirstValidationError turns the first validator failure into a
// single client message such as "title must be at least 3".
func FormatFirstValidationError(err error) string {
	if err == nil {
		return "invalid request"
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	return fe.Field() + " " + message(fe)
}

func message(fe validator.FieldError) string {
	msg, ok := messages[fe.Tag()]
	if !ok {
		return "is invalid"
	}
	if strings.Contains(msg, "%s") {
		param := fe.Param()
		if fe.Tag() == "oneof" {
			param = strings.Join(strings.Fields(param), ", ")
		}
		msg = strings.Replace(msg, "%s", param, 1)
	}
	return msg
}
