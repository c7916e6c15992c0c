// utils/validator.go - Input validation
package utils

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// DateLayout is the accepted calendar date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator. It reads `binding` tags so request
// structs validate the same way in gin and in the services.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.SetTagName("binding")
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
		_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
			s := strings.TrimSpace(fl.Field().String())
			if s == "" {
				return true
			}
			_, err := time.Parse(DateLayout, s)
			return err == nil
		})
		validate = v
	})
	return validate
}

// ValidateStruct validates s against its binding tags.
func ValidateStruct(s interface{}) error {
	return Validator().Struct(s)
}

type ginValidator struct{}

func (ginValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	for value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}
	return Validator().Struct(obj)
}

func (ginValidator) Engine() any { return Validator() }

// UseWithGin installs the shared validator as gin's binding validator.
func UseWithGin() {
	binding.Validator = ginValidator{}
}

// RegisterOneOf adds a tag that accepts only the listed values (case-insensitive).
func RegisterOneOf(tag string, values []string) {
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		allowed[strings.ToLower(v)] = struct{}{}
	}
	_ = Validator().RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		s := strings.ToLower(strings.TrimSpace(fl.Field().String()))
		if s == "" {
			return true
		}
		_, ok := allowed[s]
		return ok
	})
}

// ValidatePassword checks password strength
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}

	return true, ""
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}
