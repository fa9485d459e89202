// Package validation checks form payloads before they are sent to the
// backend. Rules live in `validate:"..."` struct tags on the payload types;
// this package registers the console's custom tags and turns
// validator.ValidationErrors into per-field messages a form can show.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	NameMinLen        = 3
	NameMaxLen        = 50
	DescriptionMaxLen = 255
)

var (
	namePattern        = regexp.MustCompile(`^[\p{L}\p{N} .'\-]+$`)
	descriptionPattern = regexp.MustCompile(`^[\p{L}\p{N}\s.,;:()'"/!?\-]*$`)
	phonePattern       = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// FieldErrors maps a payload's json field name to a human-readable message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, fe[k]))
	}
	return strings.Join(parts, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their json name so messages line up with form inputs.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "entity_name", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		n := utf8.RuneCountInString(s)
		return n >= NameMinLen && n <= NameMaxLen && namePattern.MatchString(s)
	})
	mustRegister(v, "entity_description", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return utf8.RuneCountInString(s) <= DescriptionMaxLen && descriptionPattern.MatchString(s)
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

// Struct validates s. It returns nil, FieldErrors for rule failures, or
// the validator's own error when s is not a struct.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(FieldErrors, len(verrs))
	for _, e := range verrs {
		// Keep the first failure per field; it is the one the form shows.
		if _, seen := out[e.Field()]; !seen {
			out[e.Field()] = message(e)
		}
	}
	return out
}

func message(e validator.FieldError) string {
	switch e.ActualTag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "gt":
		if e.Param() == "0" {
			return "must be greater than zero"
		}
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "alphanum":
		return "must contain only letters and digits"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "entity_name":
		return fmt.Sprintf("must be %d-%d characters of letters, digits, spaces, '.', '-' or apostrophes",
			NameMinLen, NameMaxLen)
	case "entity_description":
		return fmt.Sprintf("must be at most %d characters of letters, digits, spaces and basic punctuation",
			DescriptionMaxLen)
	case "phone":
		return "must be 7-15 digits, optionally starting with +"
	default:
		return "is invalid"
	}
}
