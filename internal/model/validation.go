package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("taskstatus", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("taskpriority", func(fl validator.FieldLevel) bool {
		return Priority(fl.Field().String()).Valid()
	})
	return v
}

// FieldError describes one attribute that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a task violates its schema. Nothing is
// written when it occurs.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "task validation failed: " + strings.Join(parts, ", ")
}

// IsValidationError reports whether err carries a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate checks the task against the schema constraints.
func (t *Task) Validate() error {
	var fields []FieldError

	if err := validate.Struct(t); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Message: describe(fe.Tag(), fe.Value())})
		}
	}
	if t.DueDate.IsZero() {
		fields = append(fields, FieldError{Field: "due_date", Message: "is required"})
	}

	if len(fields) > 0 {
		return &ValidationError{Errors: fields}
	}
	return nil
}

func describe(tag string, value any) string {
	switch tag {
	case "required":
		return "is required"
	case "taskstatus":
		return fmt.Sprintf("%q is not a valid status", value)
	case "taskpriority":
		return fmt.Sprintf("%q is not a valid priority", value)
	default:
		return "failed " + tag
	}
}
