package utils

import (
	"fmt"
	"strings"

	"github.com/Govind-619/SkinSphere/models"
)

// FieldValidationError represents a validation error for a specific field
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidationErrors represents multiple field validation errors
type FieldValidationErrors []FieldValidationError

// Error implements the error interface
func (e FieldValidationErrors) Error() string {
	messages := make([]string, 0, len(e))
	for _, err := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// ValidateShippingAddress checks that every field needed to ship a parcel is present
func ValidateShippingAddress(a models.Address) FieldValidationErrors {
	var errs FieldValidationErrors
	required := []struct {
		field, value string
	}{
		{"full_name", a.FullName},
		{"street", a.Street},
		{"city", a.City},
		{"district", a.District},
		{"phone", a.Phone},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, FieldValidationError{r.field, "is required"})
		}
	}
	if strings.TrimSpace(a.Phone) != "" {
		if ok, msg := ValidatePhone(a.Phone); !ok {
			errs = append(errs, FieldValidationError{"phone", msg})
		}
	}
	return errs
}
