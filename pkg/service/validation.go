package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	apperrors "github.com/fastn-ai/fastn-community-sub000/pkg/errors"
	"github.com/go-playground/validator/v10"
)

type validatorAdapter struct {
	v *validator.Validate
}

func newValidator() *validatorAdapter {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &validatorAdapter{v: v}
}

// Struct validates s and reports every failing field in one
// ValidationError. Element errors of a slice are folded into the slice's
// field.
func (a *validatorAdapter) Struct(s interface{}) error {
	err := a.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &apperrors.ValidationError{}
	seen := make(map[string]bool)
	for _, fe := range verrs {
		field := fe.Field()
		element := false
		if i := strings.IndexByte(field, '['); i >= 0 {
			field = field[:i]
			element = true
		}
		if seen[field] {
			continue
		}
		seen[field] = true
		out.Fields = append(out.Fields, apperrors.FieldError{
			Field:   field,
			Message: fieldMessage(fe, element),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError, element bool) string {
	if element {
		return "must not contain empty entries"
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("needs at least %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("allows at most %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return "is invalid"
}
