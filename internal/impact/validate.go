package impact

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// specValidate is shared by all callers; validator.Validate caches struct
// metadata and is safe for concurrent use.
var specValidate *validator.Validate

func init() {
	specValidate = validator.New(validator.WithRequiredStructEnabled())
	specValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	if err := specValidate.RegisterValidation("finite", validateFinite); err != nil {
		panic(err)
	}
}

// validateFinite rejects NaN and ±Inf, which the numeric comparison tags let through.
func validateFinite(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() == reflect.Pointer {
		if f.IsNil() {
			return true
		}
		f = f.Elem()
	}
	switch f.Kind() {
	case reflect.Float32, reflect.Float64:
		v := f.Float()
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	default:
		return true
	}
}

// FieldViolation names one rejected input field.
type FieldViolation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
	Value any    `json:"value"`
}

func (v FieldViolation) String() string {
	if v.Param != "" {
		return fmt.Sprintf("%s: must satisfy %s=%s (got %v)", v.Field, v.Rule, v.Param, v.Value)
	}
	return fmt.Sprintf("%s: must satisfy %s (got %v)", v.Field, v.Rule, v.Value)
}

// ValidationError is returned when a Specification is rejected before any
// physics runs.
type ValidationError struct {
	Violations []FieldViolation `json:"violations"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return "invalid impactor specification: " + strings.Join(parts, "; ")
}

// Fields lists the offending field names in declaration order.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		out[i] = v.Field
	}
	return out
}

// Validate checks s against the input invariants. The returned error is a
// *ValidationError when any field is out of range.
func (s Specification) Validate() error {
	err := specValidate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate specification: %w", err)
	}
	out := &ValidationError{Violations: make([]FieldViolation, 0, len(verrs))}
	for _, fe := range verrs {
		value := fe.Value()
		if rv := reflect.ValueOf(value); rv.Kind() == reflect.Pointer && !rv.IsNil() {
			value = rv.Elem().Interface()
		}
		out.Violations = append(out.Violations, FieldViolation{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
			Value: value,
		})
	}
	return out
}
