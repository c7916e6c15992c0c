package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"faculty-management-api/models"
	"faculty-management-api/utils"

	"github.com/go-playground/validator/v10"
)

func init() {
	utils.RegisterOneOf("leavetype", models.LeaveTypes)
	utils.RegisterOneOf("pubtype", models.PublicationTypes)
	utils.RegisterOneOf("role", []string{"faculty", "researcher", "admin", "dean", "vc"})
}

// validateInput runs the binding tags on in and returns a ValidationError for
// the first failing field.
func validateInput(in interface{}) error {
	if err := utils.ValidateStruct(in); err != nil {
		return AsValidationError(err)
	}
	return nil
}

// AsValidationError converts binding/decoding failures into a ValidationError.
func AsValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return invalid(fe.Field(), "%s", describeTag(fe))
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return invalid("", "invalid request body")
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "date":
		return "must be a date in YYYY-MM-DD format"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "leavetype":
		return "must be one of " + strings.Join(models.LeaveTypes, ", ")
	case "pubtype":
		return "must be one of " + strings.Join(models.PublicationTypes, ", ")
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return "failed " + fe.Tag() + " validation"
}

func parseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(utils.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, invalid(field, "must be a date in YYYY-MM-DD format")
	}
	return d, nil
}

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	d, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	v := utils.SanitizeInput(*s)
	if v == "" {
		return nil
	}
	return &v
}
