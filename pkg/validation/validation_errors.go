package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to the labels shown on the forms
var FieldLabels = map[string]string{
	"Username":        "Username",
	"Email":           "Email",
	"Password":        "Password",
	"PasswordConfirm": "Password confirmation",
	"Age":             "Age",
	"Gender":          "Gender",
	"Location":        "Location",
	"SoftSkills":      "Soft skills",
	"HardSkills":      "Hard skills",
}

// FieldErrors converts validator.ValidationErrors into per-field messages
// keyed by the form field name, ready to be rendered next to the inputs.
func FieldErrors(err error) map[string]string {
	fields := map[string]string{}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// Not a validation error (e.g. form decode failure), keep it generic
		fields["form"] = "Invalid form submission"
		return fields
	}

	for _, e := range validationErrors {
		fields[formFieldName(e.Field())] = formatSingleError(e)
	}
	return fields
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "notblank":
		return fmt.Sprintf("%s must not be blank", label)
	case "email":
		return fmt.Sprintf("%s is not a valid email address", label)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Split(param, " "), ", "))
	case "eqfield":
		return fmt.Sprintf("%s must match %s", label, getFieldLabel(param))
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return fieldName
}

// formFieldName maps the Go struct field back to its form name
// (PasswordConfirm -> password_confirm)
func formFieldName(fieldName string) string {
	var b strings.Builder
	for i, r := range fieldName {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteRune('_')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
