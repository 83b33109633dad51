package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

// newValidator reports fields by their JSON names and adds notblank for
// pointer fields that must not be whitespace when present.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// check validates in against its struct tags.
func (s *Service) check(in any) error {
	return invalid(s.validate.Struct(in), "")
}

// checkVar validates a single value; field names it in the error.
func (s *Service) checkVar(field string, value any, tag string) error {
	return invalid(s.validate.Var(value, tag), field)
}

// requireAll reports the first nil or empty value among name/value pairs.
func (s *Service) requireAll(pairs ...any) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := s.checkVar(pairs[i].(string), pairs[i+1], "required"); err != nil {
			return err
		}
	}
	return nil
}

func invalid(err error, field string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if field != "" {
			name = field
		}
		msgs = append(msgs, name+" "+describe(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "required_without":
		return "is required when " + fe.Param() + " is not set"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}
