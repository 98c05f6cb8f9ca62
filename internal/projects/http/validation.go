package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Sohammathur/Chat-Application--AI/internal/projects/domain"
)

var tagNameOnce sync.Once

// useJSONFieldNames makes validation errors report the JSON field name
// instead of the Go struct field.
func useJSONFieldNames() {
	tagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindErrors converts a ShouldBindJSON failure into per-field errors.
func bindErrors(err error) []domain.FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]domain.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, domain.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []domain.FieldError{{Field: typeErr.Field, Message: "must be " + article(typeErr.Type.Kind())}}
	}

	return []domain.FieldError{{Field: "body", Message: "invalid JSON body"}}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must contain at least %s item(s)", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func article(k reflect.Kind) string {
	switch k {
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Map, reflect.Struct:
		return "an object"
	case reflect.String:
		return "a string"
	default:
		return "a " + k.String()
	}
}
