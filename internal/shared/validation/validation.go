// Package validation wraps go-playground/validator with the field naming and
// custom rules used across the bounded contexts.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// indianMobile accepts ten digits starting with 6-9.
var indianMobile = regexp.MustCompile(`^[6-9]\d{9}$`)

// Errors maps a JSON field path (e.g. "personalDetails.phone") to a message.
type Errors map[string]string

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message for field unless one is already present.
func (e Errors) Add(field, message string) {
	if _, exists := e[field]; !exists {
		e[field] = message
	}
}

// Validator validates structs tagged with `validate`.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator that reports JSON field names and knows the custom rules.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("indian_mobile", func(fl validator.FieldLevel) bool {
		return indianMobile.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Struct validates s and converts failures into Errors. Other failures are returned as-is.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := Errors{}
	for _, fe := range fieldErrs {
		out.Add(fieldPath(fe.Namespace()), message(fe))
	}
	return out
}

// IsIndianMobile reports whether phone is a valid ten digit Indian mobile number.
func IsIndianMobile(phone string) bool {
	return indianMobile.MatchString(phone)
}

// fieldPath drops the root struct name from the validator namespace.
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required when " + requiredIfGuard(fe.Param())
	case "indian_mobile":
		return "must be a valid 10-digit mobile number starting with 6-9"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "uuid", "uuid4":
		return "must be a valid identifier"
	case "dive":
		return "is invalid"
	default:
		return "is invalid"
	}
}

func requiredIfGuard(param string) string {
	fields := strings.Fields(param)
	if len(fields) == 0 {
		return "its guard is set"
	}
	name := fields[0]
	if name != "" {
		name = strings.ToLower(name[:1]) + name[1:]
	}
	return name + " is true"
}
