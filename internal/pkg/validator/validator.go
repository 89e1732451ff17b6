package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["_"] = err.Error()
		return errors
	}
	for _, err := range verrs {
		errors[err.Field()] = err.Tag()
	}
	return errors
}

// Summary flattens Validate output into one stable message.
func Summary(errs map[string]string) string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, errs[field]))
	}
	return "invalid fields: " + strings.Join(parts, ", ")
}
