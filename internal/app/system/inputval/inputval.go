// internal/app/system/inputval/inputval.go
//
// Package inputval validates input structs declared with `validate` and
// `label` tags and turns failures into short, human-readable messages.
//
//	type newTeamInput struct {
//	    Name string `validate:"required,max=64" label:"Name"`
//	}
//
//	if res := inputval.Validate(in); res.HasErrors() {
//	    return res.Err()
//	}
//
// String length rules count Unicode code points, not bytes.
package inputval

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/dalemusser/taskhub/internal/app/system/apperr"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate = validator.New()
	uni      = ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")
)

func init() {
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	_ = entranslations.RegisterDefaultTranslations(validate, trans)

	_ = validate.RegisterValidation("taskstatus", func(fl validator.FieldLevel) bool {
		return IsValidTaskStatus(fl.Field().String())
	})
}

// FieldError is a single failed rule.
type FieldError struct {
	Field   string // struct field name
	Message string // message suitable for API responses
}

// Result collects the failures from one Validate call.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool {
	return r != nil && len(r.Errors) > 0
}

// Err converts the result into an *apperr.ValidationError, or nil when
// there were no failures.
func (r *Result) Err() error {
	if !r.HasErrors() {
		return nil
	}
	ve := &apperr.ValidationError{}
	for _, e := range r.Errors {
		ve.Violations = append(ve.Violations, apperr.FieldViolation{Field: e.Field, Description: e.Message})
	}
	return ve
}

// Validate runs the struct's validate tags and returns the failures.
// A nil or non-struct input yields an empty Result.
func Validate(s any) *Result {
	res := &Result{}
	err := validate.Struct(s)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return res
	}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{
			Field:   fe.StructField(),
			Message: message(fe),
		})
	}
	return res
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", label)
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at most %s items.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s items.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "taskstatus":
		return fmt.Sprintf("%s must be one of %s.", label, strings.Join(AllowedTaskStatusesList(), ", "))
	default:
		return fe.Translate(trans)
	}
}

// IsValidTaskStatus reports whether s is an allowed task status. The
// comparison is exact; "to-do" is not accepted.
func IsValidTaskStatus(s string) bool {
	return models.TaskStatus(s).IsValid()
}

// AllowedTaskStatusesList returns the allowed statuses in workflow order.
func AllowedTaskStatusesList() []string {
	out := make([]string, 0, len(models.TaskStatuses))
	for _, s := range models.TaskStatuses {
		out = append(out, string(s))
	}
	return out
}
