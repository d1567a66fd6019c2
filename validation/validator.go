package validation

import (
	"database/sql/driver"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator evaluates `validate` struct tags and reports failures as Violations
// keyed by JSON field name.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator that names fields after their json tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// RegisterEnum adds a tag that accepts exactly the given values.
func (val *Validator) RegisterEnum(tag string, values ...string) {
	allowed := make(map[string]bool, len(values))
	for _, s := range values {
		allowed[s] = true
	}
	// tag names are static, registration only fails on an empty tag
	_ = val.v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return allowed[fl.Field().String()]
	})
}

// RegisterValuer makes rules see the underlying value of wrapper types.
// A nil driver value counts as "empty" for required/omitempty.
func (val *Validator) RegisterValuer(types ...driver.Valuer) {
	ifaces := make([]any, len(types))
	for i, t := range types {
		ifaces[i] = t
	}
	val.v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if dv, ok := field.Interface().(driver.Valuer); ok {
			out, err := dv.Value()
			if err == nil {
				return out
			}
		}
		return nil
	}, ifaces...)
}

// Struct validates s and returns the violations, empty when s is valid.
func (val *Validator) Struct(s any) Violations {
	out := Violations{}
	err := val.v.Struct(s)
	if err == nil {
		return out
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		out["_"] = "invalid_value"
		return out
	}
	for _, fe := range errs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = val.code(fe.Tag())
		}
	}
	return out
}

func (val *Validator) code(tag string) string {
	switch tag {
	case "required":
		return "required"
	case "email":
		return "invalid_email"
	case "gt", "gte", "lt", "lte":
		return "out_of_range"
	case "min":
		return "too_short"
	}
	return "invalid_value"
}
