// Package validation validates request structs with validator/v10 and
// reports failures as domain validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/quillpress/quillpress-server/internal/errors"
	"github.com/quillpress/quillpress-server/internal/slug"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator with the QuillPress rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON (or query parameter) names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" {
			name = fld.Tag.Get("query")
		}
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slug.Valid(fl.Field().String())
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain error.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// Var validates a single value against a tag, naming it field in the error.
func (v *Validator) Var(field string, value any, tag string) error {
	err := v.v.Var(value, tag)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	return domainerrors.ValidationWithDetails("validation failed", map[string]string{
		field: friendlyMessage(validationErrs[0]),
	})
}

// formatError converts validator errors to domain errors.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[fieldPath(e)] = friendlyMessage(e)
	}

	return domainerrors.ValidationWithDetails("validation failed", fieldErrors)
}

// fieldPath drops the top-level struct name: "CreatePostInput.category_ids[0]" -> "category_ids[0]".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return e.Field()
}

func friendlyMessage(e validator.FieldError) string {
	isList := e.Kind() == reflect.Slice || e.Kind() == reflect.Array

	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url", "http_url":
		return "must be a valid URL"
	case "slug":
		return "must contain only lowercase letters, digits and single hyphens"
	case "min":
		if isList {
			return fmt.Sprintf("must contain at least %s items", e.Param())
		}
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		if isList {
			return fmt.Sprintf("must not contain more than %s items", e.Param())
		}
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "username":
		return "must start with a letter or digit and contain only letters, digits, dots, underscores and hyphens"
	case "alphanum":
		return "must contain only letters and digits"
	case "excludesall":
		return "contains forbidden characters"
	default:
		return "is invalid"
	}
}
