package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validations
	registerCustomValidations()
}

func registerCustomValidations() {
	// Product type validation
	validate.RegisterValidation("product_type", func(fl validator.FieldLevel) bool {
		productType := fl.Field().String()
		validTypes := []string{
			"Wall Art / Poster",
			"Digital Download",
			"Clipart / Graphics",
			"Mockup Template",
			"Other Digital Product",
		}
		for _, t := range validTypes {
			if productType == t {
				return true
			}
		}
		return false
	})

	// Target language validation
	validate.RegisterValidation("target_language", func(fl validator.FieldLevel) bool {
		lang := fl.Field().String()
		validLanguages := []string{"English", "Turkish"}
		for _, l := range validLanguages {
			if lang == l {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "url":
			errors[field] = "Invalid URL format"
		case "product_type":
			errors[field] = "Invalid product type"
		case "target_language":
			errors[field] = "Invalid target language. Must be: English or Turkish"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
