// Package validation runs struct tag rules and reports failures per JSON field.
package validation

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a JSON field name to its messages.
type Errors map[string][]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "invalid input: " + strings.Join(fields, ", ")
}

// Add appends a message for field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Struct runs the `validate` tags of s and returns messages keyed by JSON
// field name, or nil when s is valid.
func Struct(s any) Errors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{"non_field_errors": {err.Error()}}
	}

	out := Errors{}
	for _, fe := range validationErrors {
		field := fe.Field()
		param := fe.Param()

		var message string
		switch fe.Tag() {
		case "required":
			message = "This field is required."
		case "email":
			message = "Enter a valid email address."
		case "min":
			if fe.Kind() == reflect.String {
				message = fmt.Sprintf("Ensure this field has at least %s characters.", param)
			} else {
				message = fmt.Sprintf("Ensure this value is greater than or equal to %s.", param)
			}
		case "max":
			if fe.Kind() == reflect.String {
				message = fmt.Sprintf("Ensure this field has no more than %s characters.", param)
			} else {
				message = fmt.Sprintf("Ensure this value is less than or equal to %s.", param)
			}
		case "gte":
			message = fmt.Sprintf("Ensure this value is greater than or equal to %s.", param)
		case "eqfield":
			message = "Passwords do not match"
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}
		out.Add(field, message)
	}
	return out
}
