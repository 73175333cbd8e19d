package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Report validation failures under the wire name from the json tag
// (content_type, is_html) rather than the Go field name.
func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// errorResponse is the JSON shape of every non-2xx response.
type errorResponse struct {
	Error  string       `json:"error"`
	Detail string       `json:"detail,omitempty"`
	Fields []fieldError `json:"fields,omitempty"`
}

// fieldError names a single request field that failed validation.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// bindingFieldErrors converts binding-layer failures into field-level
// detail. Non-validator errors (malformed JSON, wrong types) produce no
// field list; the caller reports them as a whole-body problem.
func bindingFieldErrors(err error) []fieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have a length of at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must have a length of at most %s", fe.Param())
	case "email":
		return "is not a valid email address"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
