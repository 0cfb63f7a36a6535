package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrNotFound is returned by stores when no record has the requested id.
var ErrNotFound = errors.New("record not found")

// ValidationError reports a missing or out-of-range field on a record.
// It is always returned before anything is persisted or derived.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Message)
}

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// ValidateObservation checks an observation before it is stored.
func ValidateObservation(o Observation) error {
	if strings.TrimSpace(o.Notes) == "" {
		return &ValidationError{Field: "notes", Message: "is required"}
	}
	if err := validateStruct(o); err != nil {
		return err
	}
	if o.IsUnknownCondition && o.Priority == "" {
		return &ValidationError{Field: "priority", Message: "is required for an unknown condition"}
	}
	if o.FollowUpRequired && (o.FollowUpDate == nil || o.FollowUpDate.IsZero()) {
		return &ValidationError{Field: "follow_up_date", Message: "is required when a follow-up is requested"}
	}
	return nil
}

// ValidateObservationEdit checks the editable fields of an observation. The
// animal always comes from the stored copy, so it is not required here.
func ValidateObservationEdit(o Observation) error {
	o.AnimalID = "stored"
	return ValidateObservation(o)
}

// ValidateTreatment checks a treatment before it is stored.
func ValidateTreatment(t Treatment) error {
	if err := validateStruct(t); err != nil {
		return err
	}
	if t.NextDoseDate != nil && !t.AdministeredAt.IsZero() && t.NextDoseDate.Before(t.AdministeredAt) {
		return &ValidationError{Field: "next_dose_date", Message: "must not be before administered_at"}
	}
	return nil
}

// ValidateVaccination checks a vaccination before it is stored.
func ValidateVaccination(v Vaccination) error {
	if err := validateStruct(v); err != nil {
		return err
	}
	if v.AdministeredDate.IsZero() {
		return &ValidationError{Field: "administered_date", Message: "is required"}
	}
	if v.NextDueDate != nil && !v.NextDueDate.After(v.AdministeredDate) {
		return &ValidationError{Field: "next_due_date", Message: "must be after administered_date"}
	}
	if v.DueDate != nil && !v.DueDate.After(v.AdministeredDate) {
		return &ValidationError{Field: "due_date", Message: "must be after administered_date"}
	}
	return nil
}

// ValidateFeedSample checks a feed log entry.
func ValidateFeedSample(s FeedSample) error {
	if err := validateStruct(s); err != nil {
		return err
	}
	if s.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "is required"}
	}
	return nil
}

// ValidateWeightSample checks a weigh-in entry.
func ValidateWeightSample(s WeightSample) error {
	if err := validateStruct(s); err != nil {
		return err
	}
	if s.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "is required"}
	}
	return nil
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	fe := fieldErrs[0]
	return &ValidationError{Field: fe.Field(), Message: describeTag(fe)}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}
