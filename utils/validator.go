package utils

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// phoneRegex matches international numbers the way the mini-app sends
// them: optional "+", up to 15 digits, at least 9.
var phoneRegex = regexp.MustCompile(`^\+?1?\d{9,15}$`)

func init() {
	validate.RegisterValidation("phone", validatePhoneRule)
	// Gin evaluates binding tags on its own validator instance, so the
	// rule has to be registered there too or ShouldBindJSON panics.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("phone", validatePhoneRule)
	}
}

// Validator validates request DTOs beyond gin's binding tags.
type Validator struct {
	validator *validator.Validate
}

// NewValidator returns the shared validator instance.
func NewValidator() *Validator {
	return &Validator{validator: validate}
}

// Validate runs struct validation and converts field errors into a
// per-field message map.
func (v *Validator) Validate(obj interface{}) error {
	if err := v.validator.Struct(obj); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			return formatValidationErrors(fieldErrors)
		}
		return err
	}
	return nil
}

// ValidationError carries one descriptive message per invalid field.
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", ve.Errors)
}

func formatValidationErrors(fieldErrors []validator.FieldError) error {
	errorMap := make(map[string]string)
	for _, fe := range fieldErrors {
		errorMap[fe.Field()] = getErrorMessage(fe.Field(), fe.Tag(), fe.Param())
	}
	return &ValidationError{Errors: errorMap}
}

func getErrorMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be %s or more", field, param)
	case "lte":
		return fmt.Sprintf("%s must be %s or less", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "phone":
		return fmt.Sprintf("%s must look like +999999999, up to 15 digits", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func validatePhoneRule(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

// ValidatePhone reports whether phone is acceptable on its own.
func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// BindAndValidate binds the JSON body and then applies struct
// validation.
func BindAndValidate(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return err
	}
	return NewValidator().Validate(obj)
}
