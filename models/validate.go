package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// global validator instance
var validate = validator.New()

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	var errorMessages []string
	for _, e := range validationErrors {
		errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
}

// ValidateDocument validates field rules and the cursor bound.
func ValidateDocument(doc *WorkflowDocument) error {
	if err := ValidateStruct(doc); err != nil {
		return err
	}
	if doc.CurrentPhase >= len(doc.Phases) {
		return fmt.Errorf("currentPhase %d out of range for %d phases", doc.CurrentPhase, len(doc.Phases))
	}
	return nil
}
